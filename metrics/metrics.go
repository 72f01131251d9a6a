package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RequestsTotal counts HTTP requests by endpoint and status code.
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "agrisense_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"endpoint", "status"},
	)

	// InferenceDuration tracks end-to-end recommendation latency.
	InferenceDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "agrisense_inference_duration_seconds",
			Help:    "Duration of a full recommendation pipeline run in seconds",
			Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
		},
	)

	// ValidationFailuresTotal counts rejected sensor payloads.
	ValidationFailuresTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "agrisense_validation_failures_total",
			Help: "Total number of payloads rejected by input validation",
		},
	)

	// RainfallSourceTotal counts which tier supplied the rainfall value.
	RainfallSourceTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "agrisense_rainfall_source_total",
			Help: "Total recommendations by rainfall source tier",
		},
		[]string{"source"},
	)

	// PlausibilityWarningsTotal counts out-of-range sensor warnings.
	PlausibilityWarningsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "agrisense_plausibility_warnings_total",
			Help: "Total number of plausibility warnings attached to responses",
		},
	)
)
