package pipeline

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/SomethingReallCool234/NexGen/pkg/apperr"
	"github.com/SomethingReallCool234/NexGen/pkg/features"
)

// Request field names for a single-shipment prediction.
const (
	FieldCarrier       = "carrier"
	FieldPriority      = "priority"
	FieldPromisedDays  = "promised_delivery_days"
	FieldRoute         = "route"
	FieldWeatherImpact = "weather_impact"
)

// Risk labels.
const (
	HighRisk = "High Delay Risk"
	LowRisk  = "Low Delay Risk"
)

// RiskThreshold is the probability at or above which a shipment is high risk.
const RiskThreshold = 0.5

// Assessment is the answer to a single prediction request.
type Assessment struct {
	Shipment    features.Shipment `json:"shipment"`
	Probability float64           `json:"probability"`
	Risk        string            `json:"risk"`
	Advice      string            `json:"advice"`
}

// ParseShipment builds a Shipment from raw request fields.
// It fails with *apperr.InferenceInputError on a missing field or a promised
// duration that is not a finite, non-negative number.
func ParseShipment(fields map[string]string) (features.Shipment, error) {
	get := func(name string) (string, error) {
		v := strings.TrimSpace(fields[name])
		if v == "" {
			return "", &apperr.InferenceInputError{Field: name, Reason: "is required"}
		}
		return v, nil
	}

	var s features.Shipment
	var err error
	if s.Carrier, err = get(FieldCarrier); err != nil {
		return s, err
	}
	if s.Priority, err = get(FieldPriority); err != nil {
		return s, err
	}
	if s.Route, err = get(FieldRoute); err != nil {
		return s, err
	}
	if s.WeatherImpact, err = get(FieldWeatherImpact); err != nil {
		return s, err
	}
	raw, err := get(FieldPromisedDays)
	if err != nil {
		return s, err
	}
	days, perr := strconv.ParseFloat(raw, 64)
	if perr != nil || math.IsNaN(days) || math.IsInf(days, 0) {
		return s, &apperr.InferenceInputError{Field: FieldPromisedDays, Reason: fmt.Sprintf("%q is not a number", raw)}
	}
	if days < 0 {
		return s, &apperr.InferenceInputError{Field: FieldPromisedDays, Reason: "must not be negative"}
	}
	s.PromisedDeliveryDays = days
	return s, nil
}

// Assess scores one shipment and labels its risk.
func (p *DelayPipeline) Assess(s features.Shipment) Assessment {
	prob := p.PredictProbability(s)
	a := Assessment{Shipment: s, Probability: prob}
	if prob >= RiskThreshold {
		a.Risk = HighRisk
		a.Advice = fmt.Sprintf("High delay probability: %.2f%%. Consider alternate route or early dispatch.", prob*100)
	} else {
		a.Risk = LowRisk
		a.Advice = fmt.Sprintf("Low delay probability: %.2f%%. Shipment likely on time.", prob*100)
	}
	return a
}

// AssessFields parses raw fields and scores them. Parse failures come back
// as *apperr.InferenceInputError; nothing is swallowed.
func (p *DelayPipeline) AssessFields(fields map[string]string) (Assessment, error) {
	s, err := ParseShipment(fields)
	if err != nil {
		return Assessment{}, err
	}
	return p.Assess(s), nil
}
