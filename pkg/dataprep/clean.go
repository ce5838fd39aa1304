package dataprep

import (
	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"github.com/SomethingReallCool234/NexGen/pkg/data"
)

// DropIncomplete keeps the rows of df that have a value in every column of cols.
// Missing values are dropped, never imputed.
func DropIncomplete(df dataframe.DataFrame, cols ...string) dataframe.DataFrame {
	if len(cols) == 0 || df.Nrow() == 0 {
		return df
	}
	present := func(el series.Element) bool { return !data.IsMissing(el) }
	filters := make([]dataframe.F, 0, len(cols))
	for _, c := range cols {
		filters = append(filters, dataframe.F{Colname: c, Comparator: series.CompFunc, Comparando: present})
	}
	return df.FilterAggregation(dataframe.And, filters...)
}
