// Package dashboard serves filtered views, chart aggregates, exports and
// single-shipment predictions over the delivery tables.
package dashboard

import (
	"github.com/pkg/errors"

	"github.com/SomethingReallCool234/NexGen/pkg/data"
	"github.com/SomethingReallCool234/NexGen/pkg/pipeline"
)

// Options lists the selector values offered to the user.
type Options struct {
	Carriers       []string `json:"carriers"`
	Statuses       []string `json:"statuses"`
	Priorities     []string `json:"priorities"`
	Routes         []string `json:"routes"`
	WeatherImpacts []string `json:"weather_impacts"`
	MinRating      float64  `json:"min_rating"`
	MaxRating      float64  `json:"max_rating"`
	RatingStep     float64  `json:"rating_step"`
}

// State is everything the handlers read. It is built once at startup and
// never mutated afterwards, so handlers share it without locking.
type State struct {
	tables  *data.Tables
	model   *pipeline.DelayPipeline
	options Options
}

// NewState checks the loaded tables and model and precomputes the selector options.
func NewState(t *data.Tables, m *pipeline.DelayPipeline) (*State, error) {
	if t == nil {
		return nil, errors.New("dashboard: no tables")
	}
	if m == nil {
		return nil, errors.New("dashboard: no model")
	}
	if err := data.RequireColumns(t.Delivery, data.DeliveryTable, data.DeliveryColumns...); err != nil {
		return nil, err
	}
	if err := data.RequireColumns(t.Orders, data.OrdersTable, data.ColPriority); err != nil {
		return nil, err
	}
	if err := data.RequireColumns(t.Routes, data.RoutesTable, data.ColRoute, data.ColWeatherImpact); err != nil {
		return nil, err
	}
	return &State{
		tables: t,
		model:  m,
		options: Options{
			Carriers:       data.Distinct(t.Delivery, data.ColCarrier),
			Statuses:       data.Distinct(t.Delivery, data.ColDeliveryStatus),
			Priorities:     data.Distinct(t.Orders, data.ColPriority),
			Routes:         data.Distinct(t.Routes, data.ColRoute),
			WeatherImpacts: data.Distinct(t.Routes, data.ColWeatherImpact),
			MinRating:      RatingFloor,
			MaxRating:      RatingCeil,
			RatingStep:     0.5,
		},
	}, nil
}

// Options returns the precomputed selector values.
func (s *State) Options() Options { return s.options }

// Model returns the loaded pipeline.
func (s *State) Model() *pipeline.DelayPipeline { return s.model }

// Tables returns the loaded tables.
func (s *State) Tables() *data.Tables { return s.tables }
