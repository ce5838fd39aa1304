package dataprep

import (
	"testing"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/stretchr/testify/assert"
)

func TestDropIncomplete(t *testing.T) {
	df := dataframe.New(
		series.New([]interface{}{"a", "b", nil, "d"}, series.String, "x"),
		series.New([]interface{}{"1", "", "3", "NaN"}, series.String, "y"),
		series.New([]interface{}{nil, "k", "k", "k"}, series.String, "ignored"),
	)

	out := DropIncomplete(df, "x", "y")
	assert.Equal(t, 1, out.Nrow())
	assert.Equal(t, []string{"a"}, out.Col("x").Records())

	assert.Equal(t, 4, DropIncomplete(df).Nrow())
}

func TestDropIncompleteAllPresent(t *testing.T) {
	df := dataframe.New(series.New([]string{"a", "b"}, series.String, "x"))
	assert.Equal(t, 2, DropIncomplete(df, "x").Nrow())
}
