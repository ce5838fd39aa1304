package dashboard

import (
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"testing"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SomethingReallCool234/NexGen/internal/fixture"
	"github.com/SomethingReallCool234/NexGen/pkg/data"
)

func loadTables(t *testing.T, n int) *data.Tables {
	t.Helper()
	dir := t.TempDir()
	fixture.WriteDataset(t, dir, n)
	tables, err := data.LoadTables(dir)
	require.NoError(t, err)
	return tables
}

func orderIDs(df dataframe.DataFrame) []string {
	if df.Nrow() == 0 {
		return nil
	}
	ids := df.Col(data.ColOrderID).Records()
	sort.Strings(ids)
	return ids
}

// expected applies each predicate on its own, row by row.
func expected(df dataframe.DataFrame, f Filter) []string {
	var ids []string
	for i := 0; i < df.Nrow(); i++ {
		if f.Carrier != All && df.Col(data.ColCarrier).Elem(i).String() != f.Carrier {
			continue
		}
		if f.Status != All && df.Col(data.ColDeliveryStatus).Elem(i).String() != f.Status {
			continue
		}
		r, err := strconv.ParseFloat(df.Col(data.ColCustomerRating).Elem(i).String(), 64)
		if err != nil || r < f.MinRating || r > f.MaxRating {
			continue
		}
		ids = append(ids, df.Col(data.ColOrderID).Elem(i).String())
	}
	sort.Strings(ids)
	return ids
}

func TestFilterIsIntersection(t *testing.T) {
	tables := loadTables(t, 60)
	carriers := append([]string{All}, fixture.Carriers...)
	statuses := append([]string{All}, fixture.Statuses...)
	ranges := [][2]float64{{0, 5}, {2, 4}, {4.5, 5}, {3, 3}, {5, 0}}

	for _, c := range carriers {
		for _, s := range statuses {
			for _, r := range ranges {
				f := Filter{Carrier: c, Status: s, MinRating: r[0], MaxRating: r[1]}
				t.Run(fmt.Sprintf("%s/%s/%v", c, s, r), func(t *testing.T) {
					assert.Equal(t, expected(tables.Delivery, f), orderIDs(f.Apply(tables.Delivery)))
				})
			}
		}
	}
}

func TestDefaultFilterKeepsRatedRows(t *testing.T) {
	df := dataframe.New(
		series.New([]string{"O1", "O2", "O3"}, series.String, data.ColOrderID),
		series.New([]string{"DHL", "DHL", "DHL"}, series.String, data.ColCarrier),
		series.New([]string{"On-Time", "On-Time", "On-Time"}, series.String, data.ColDeliveryStatus),
		series.New([]interface{}{"4", nil, "9"}, series.String, data.ColCustomerRating),
	)
	assert.Equal(t, []string{"O1"}, orderIDs(DefaultFilter().Apply(df)))
}

func TestFilterFromQuery(t *testing.T) {
	f, err := FilterFromQuery(url.Values{})
	require.NoError(t, err)
	assert.Equal(t, DefaultFilter(), f)

	f, err = FilterFromQuery(url.Values{"carrier": {"DHL"}, "status": {"All"}, "min_rating": {"2.5"}})
	require.NoError(t, err)
	assert.Equal(t, Filter{Carrier: "DHL", Status: All, MinRating: 2.5, MaxRating: 5}, f)

	_, err = FilterFromQuery(url.Values{"max_rating": {"lots"}})
	assert.Error(t, err)
}
