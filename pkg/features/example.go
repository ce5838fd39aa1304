// Package features turns the raw delivery, order and route tables into
// labelled training examples.
package features

import "github.com/SomethingReallCool234/NexGen/pkg/data"

// Categorical and numeric feature columns, in model input order.
var (
	CategoricalColumns = []string{data.ColCarrier, data.ColPriority, data.ColRoute, data.ColWeatherImpact}
	NumericColumns     = []string{data.ColPromisedDeliveryDays}
	// Columns is the full feature set.
	Columns = []string{data.ColCarrier, data.ColPriority, data.ColPromisedDeliveryDays, data.ColRoute, data.ColWeatherImpact}
)

// LabelColumn is the derived binary target.
const LabelColumn = "Delay_Flag"

// Shipment is one candidate shipment: the model's input vector.
type Shipment struct {
	Carrier              string  `json:"carrier"`
	Priority             string  `json:"priority"`
	PromisedDeliveryDays float64 `json:"promised_delivery_days"`
	Route                string  `json:"route"`
	WeatherImpact        string  `json:"weather_impact"`
}

// Categorical returns the categorical values in CategoricalColumns order.
func (s Shipment) Categorical() []string {
	return []string{s.Carrier, s.Priority, s.Route, s.WeatherImpact}
}

// Numeric returns the numeric values in NumericColumns order.
func (s Shipment) Numeric() []float64 {
	return []float64{s.PromisedDeliveryDays}
}

// Example is a shipment with its observed delay label.
type Example struct {
	Shipment
	DelayFlag int `json:"delay_flag"`
}

// DelayFlag is 1 when the actual delivery took longer than promised.
// Equal durations are on time.
func DelayFlag(actualDays, promisedDays float64) int {
	if actualDays > promisedDays {
		return 1
	}
	return 0
}

// Labels returns the label of every example.
func Labels(examples []Example) []int {
	y := make([]int, len(examples))
	for i, ex := range examples {
		y[i] = ex.DelayFlag
	}
	return y
}

// Shipments returns the feature vector of every example.
func Shipments(examples []Example) []Shipment {
	out := make([]Shipment, len(examples))
	for i, ex := range examples {
		out[i] = ex.Shipment
	}
	return out
}
