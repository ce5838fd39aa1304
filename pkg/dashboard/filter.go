package dashboard

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"github.com/SomethingReallCool234/NexGen/pkg/data"
)

// All disables a categorical filter.
const All = "All"

// Default rating range.
const (
	RatingFloor = 0.0
	RatingCeil  = 5.0
)

// Filter selects delivery rows. Carrier and Status equal to All (or empty)
// match everything; the rating range is inclusive.
type Filter struct {
	Carrier   string  `json:"carrier"`
	Status    string  `json:"status"`
	MinRating float64 `json:"min_rating"`
	MaxRating float64 `json:"max_rating"`
}

// DefaultFilter matches every row with a rating in [0,5].
func DefaultFilter() Filter {
	return Filter{Carrier: All, Status: All, MinRating: RatingFloor, MaxRating: RatingCeil}
}

// FilterFromQuery reads carrier, status, min_rating and max_rating.
func FilterFromQuery(q url.Values) (Filter, error) {
	f := DefaultFilter()
	if v := strings.TrimSpace(q.Get("carrier")); v != "" {
		f.Carrier = v
	}
	if v := strings.TrimSpace(q.Get("status")); v != "" {
		f.Status = v
	}
	var err error
	if f.MinRating, err = ratingParam(q, "min_rating", f.MinRating); err != nil {
		return f, err
	}
	if f.MaxRating, err = ratingParam(q, "max_rating", f.MaxRating); err != nil {
		return f, err
	}
	return f, nil
}

func ratingParam(q url.Values, name string, def float64) (float64, error) {
	raw := strings.TrimSpace(q.Get(name))
	if raw == "" {
		return def, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("%s: %q is not a number", name, raw)
	}
	return v, nil
}

// Apply returns the rows of delivery matching every predicate of f.
// Rows without a numeric rating never match the rating range.
func (f Filter) Apply(delivery dataframe.DataFrame) dataframe.DataFrame {
	if delivery.Nrow() == 0 {
		return delivery
	}
	filters := make([]dataframe.F, 0, 3)
	if f.Carrier != "" && f.Carrier != All {
		filters = append(filters, dataframe.F{Colname: data.ColCarrier, Comparator: series.Eq, Comparando: f.Carrier})
	}
	if f.Status != "" && f.Status != All {
		filters = append(filters, dataframe.F{Colname: data.ColDeliveryStatus, Comparator: series.Eq, Comparando: f.Status})
	}
	lo, hi := f.MinRating, f.MaxRating
	inRange := func(el series.Element) bool {
		v, ok := data.Float(el)
		return ok && v >= lo && v <= hi
	}
	filters = append(filters, dataframe.F{Colname: data.ColCustomerRating, Comparator: series.CompFunc, Comparando: inRange})
	return delivery.FilterAggregation(dataframe.And, filters...)
}
