package dashboard

import (
	"sort"

	"github.com/go-gota/gota/dataframe"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/SomethingReallCool234/NexGen/pkg/data"
)

// Count is one bar of a value-count chart.
type Count struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

// ValueCounts counts the non-missing values of col, most frequent first
// (ties by value).
func ValueCounts(df dataframe.DataFrame, col string) []Count {
	counts := map[string]int{}
	s := df.Col(col)
	for i := 0; i < s.Len(); i++ {
		el := s.Elem(i)
		if data.IsMissing(el) {
			continue
		}
		counts[el.String()]++
	}
	out := make([]Count, 0, len(counts))
	for v, n := range counts {
		out = append(out, Count{Value: v, Count: n})
	}
	sort.Slice(out, func(a, b int) bool {
		if out[a].Count != out[b].Count {
			return out[a].Count > out[b].Count
		}
		return out[a].Value < out[b].Value
	})
	return out
}

// RatingSummary is the box-plot summary of customer ratings for one status.
type RatingSummary struct {
	Status string  `json:"status"`
	N      int     `json:"n"`
	Min    float64 `json:"min"`
	Q1     float64 `json:"q1"`
	Median float64 `json:"median"`
	Q3     float64 `json:"q3"`
	Max    float64 `json:"max"`
	Mean   float64 `json:"mean"`
}

// RatingSummaries groups numeric ratings by delivery status, ordered by status.
func RatingSummaries(df dataframe.DataFrame) []RatingSummary {
	groups := map[string][]float64{}
	status := df.Col(data.ColDeliveryStatus)
	rating := df.Col(data.ColCustomerRating)
	for i := 0; i < df.Nrow(); i++ {
		st := status.Elem(i)
		if data.IsMissing(st) {
			continue
		}
		v, ok := data.Float(rating.Elem(i))
		if !ok {
			continue
		}
		groups[st.String()] = append(groups[st.String()], v)
	}

	out := make([]RatingSummary, 0, len(groups))
	for st, xs := range groups {
		sort.Float64s(xs)
		out = append(out, RatingSummary{
			Status: st,
			N:      len(xs),
			Min:    floats.Min(xs),
			Q1:     stat.Quantile(0.25, stat.LinInterp, xs, nil),
			Median: stat.Quantile(0.5, stat.LinInterp, xs, nil),
			Q3:     stat.Quantile(0.75, stat.LinInterp, xs, nil),
			Max:    floats.Max(xs),
			Mean:   stat.Mean(xs, nil),
		})
	}
	sort.Slice(out, func(a, b int) bool { return out[a].Status < out[b].Status })
	return out
}
