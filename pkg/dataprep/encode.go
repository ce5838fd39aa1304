package dataprep

import (
	"errors"
	"sort"
)

// OneHotEncoder one-hot encodes a fixed list of categorical columns.
// The vocabulary of each column is learned by Fit and kept sorted, so the
// encoding does not depend on row order. Values outside the vocabulary
// encode to all zeros.
type OneHotEncoder struct {
	Columns    []string
	Categories [][]string
}

// NewOneHotEncoder returns an unfitted encoder for the given columns.
func NewOneHotEncoder(columns ...string) *OneHotEncoder {
	return &OneHotEncoder{Columns: append([]string(nil), columns...)}
}

// Fit learns the vocabulary. Each row holds one value per column, in Columns order.
func (e *OneHotEncoder) Fit(rows [][]string) error {
	if len(rows) == 0 {
		return errors.New("onehot: no rows to fit")
	}
	sets := make([]map[string]struct{}, len(e.Columns))
	for j := range sets {
		sets[j] = map[string]struct{}{}
	}
	for _, row := range rows {
		if len(row) != len(e.Columns) {
			return errors.New("onehot: row width does not match columns")
		}
		for j, v := range row {
			sets[j][v] = struct{}{}
		}
	}
	e.Categories = make([][]string, len(e.Columns))
	for j, set := range sets {
		cats := make([]string, 0, len(set))
		for v := range set {
			cats = append(cats, v)
		}
		sort.Strings(cats)
		e.Categories[j] = cats
	}
	return nil
}

// Width is the number of encoded features.
func (e *OneHotEncoder) Width() int {
	w := 0
	for _, cats := range e.Categories {
		w += len(cats)
	}
	return w
}

// Transform encodes a single row.
func (e *OneHotEncoder) Transform(row []string) []float64 {
	return e.AppendEncoded(make([]float64, 0, e.Width()), row)
}

// TransformAll encodes every row.
func (e *OneHotEncoder) TransformAll(rows [][]string) [][]float64 {
	out := make([][]float64, len(rows))
	for i, row := range rows {
		out[i] = e.Transform(row)
	}
	return out
}

// FeatureNames names every encoded column as "<column>_<category>".
func (e *OneHotEncoder) FeatureNames() []string {
	names := make([]string, 0, e.Width())
	for j, col := range e.Columns {
		for _, c := range e.Categories[j] {
			names = append(names, col+"_"+c)
		}
	}
	return names
}

// Fitted reports whether the encoder has a vocabulary for every column.
func (e *OneHotEncoder) Fitted() bool {
	return len(e.Categories) == len(e.Columns) && len(e.Columns) > 0
}

// AppendEncoded appends the encoding of row to dst.
func (e *OneHotEncoder) AppendEncoded(dst []float64, row []string) []float64 {
	for j, cats := range e.Categories {
		block := make([]float64, len(cats))
		if j < len(row) {
			if k := sort.SearchStrings(cats, row[j]); k < len(cats) && cats[k] == row[j] {
				block[k] = 1
			}
		}
		dst = append(dst, block...)
	}
	return dst
}
