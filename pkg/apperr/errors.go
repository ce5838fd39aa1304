// Package apperr holds the error kinds shared by the training command and the dashboard.
// Callers match them with errors.As.
package apperr

import "fmt"

// SchemaError reports a column missing from an input table.
type SchemaError struct {
	Table  string
	Column string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("schema: table %q has no column %q", e.Table, e.Column)
}

// InsufficientDataError reports a dataset too small (or too one-sided) to split or fit.
type InsufficientDataError struct {
	Reason string
}

func (e *InsufficientDataError) Error() string {
	return "insufficient data: " + e.Reason
}

// ArtifactCorruptError reports a model file that cannot be used.
type ArtifactCorruptError struct {
	Path   string
	Reason string
	Err    error
}

func (e *ArtifactCorruptError) Error() string {
	msg := fmt.Sprintf("artifact %s: %s", e.Path, e.Reason)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ArtifactCorruptError) Unwrap() error { return e.Err }

// InferenceInputError reports a malformed single-record prediction request.
type InferenceInputError struct {
	Field  string
	Reason string
}

func (e *InferenceInputError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}
