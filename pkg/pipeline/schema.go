package pipeline

import (
	"slices"

	"github.com/SomethingReallCool234/NexGen/pkg/features"
)

// SchemaVersion changes whenever the encoded feature layout changes.
const SchemaVersion = 1

// Schema describes the model input: which columns are one-hot encoded and
// which pass through, in encoding order (categorical block first).
type Schema struct {
	Version     int
	Categorical []string
	Numeric     []string
}

// DefaultSchema is the delay model's feature layout.
func DefaultSchema() Schema {
	return Schema{
		Version:     SchemaVersion,
		Categorical: append([]string(nil), features.CategoricalColumns...),
		Numeric:     append([]string(nil), features.NumericColumns...),
	}
}

// Equal reports whether two schemas describe the same layout.
func (s Schema) Equal(o Schema) bool {
	return s.Version == o.Version &&
		slices.Equal(s.Categorical, o.Categorical) &&
		slices.Equal(s.Numeric, o.Numeric)
}
