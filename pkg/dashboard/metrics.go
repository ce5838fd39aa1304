package dashboard

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics are the dashboard's prometheus collectors.
type Metrics struct {
	Predictions        *prometheus.CounterVec
	PredictionFailures prometheus.Counter
	Exports            *prometheus.CounterVec
	RequestDuration    *prometheus.HistogramVec
}

// NewMetrics registers the collectors on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Predictions: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "nexgen_predictions_total",
			Help: "Delay predictions served, by risk label",
		}, []string{"risk"}),
		PredictionFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "nexgen_prediction_failures_total",
			Help: "Prediction requests rejected as invalid",
		}),
		Exports: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "nexgen_exports_total",
			Help: "Filtered data downloads, by format",
		}, []string{"format"}),
		RequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "nexgen_http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: prometheus.DefBuckets,
		}, []string{"route", "code"}),
	}
}
