package data

import (
	"bufio"
	"os"
	"path/filepath"
	"sort"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/pkg/errors"

	"github.com/SomethingReallCool234/NexGen/pkg/apperr"
)

// missingTokens are the cell values read as missing.
var missingTokens = []string{"", "NA", "NaN", "<nil>"}

// Tables holds the three input tables after loading.
// They are treated as read-only once returned.
type Tables struct {
	Delivery dataframe.DataFrame
	Orders   dataframe.DataFrame
	Routes   dataframe.DataFrame
}

// LoadTable reads one CSV file with a header row. Every column is kept as a
// string series; numeric columns are parsed where they are used.
// required lists the columns that must be present.
func LoadTable(path, table string, required ...string) (dataframe.DataFrame, error) {
	file, err := os.Open(path)
	if err != nil {
		return dataframe.DataFrame{}, errors.Wrapf(err, "open %s", table)
	}
	defer file.Close()

	df := dataframe.ReadCSV(bufio.NewReader(file),
		dataframe.HasHeader(true),
		dataframe.DetectTypes(false),
		dataframe.DefaultType(series.String),
		dataframe.NaNValues(missingTokens),
	)
	if df.Err != nil {
		return dataframe.DataFrame{}, errors.Wrapf(df.Err, "read %s", table)
	}
	if err := RequireColumns(df, table, required...); err != nil {
		return dataframe.DataFrame{}, err
	}
	return df, nil
}

// LoadTables loads delivery, order and route tables from dir.
func LoadTables(dir string) (*Tables, error) {
	delivery, err := LoadTable(filepath.Join(dir, DeliveryFile), DeliveryTable, DeliveryColumns...)
	if err != nil {
		return nil, err
	}
	orders, err := LoadTable(filepath.Join(dir, OrdersFile), OrdersTable, OrderColumns...)
	if err != nil {
		return nil, err
	}
	routes, err := LoadTable(filepath.Join(dir, RoutesFile), RoutesTable, RouteColumns...)
	if err != nil {
		return nil, err
	}
	return &Tables{Delivery: delivery, Orders: orders, Routes: routes}, nil
}

// RequireColumns returns a *apperr.SchemaError for the first column of cols
// that df does not have.
func RequireColumns(df dataframe.DataFrame, table string, cols ...string) error {
	have := make(map[string]struct{}, df.Ncol())
	for _, name := range df.Names() {
		have[name] = struct{}{}
	}
	for _, c := range cols {
		if _, ok := have[c]; !ok {
			return &apperr.SchemaError{Table: table, Column: c}
		}
	}
	return nil
}

// Distinct returns the sorted distinct non-missing values of a column.
func Distinct(df dataframe.DataFrame, col string) []string {
	seen := map[string]struct{}{}
	var out []string
	s := df.Col(col)
	for i := 0; i < s.Len(); i++ {
		el := s.Elem(i)
		if IsMissing(el) {
			continue
		}
		v := el.String()
		if _, ok := seen[v]; !ok {
			seen[v] = struct{}{}
			out = append(out, v)
		}
	}
	sort.Strings(out)
	return out
}
