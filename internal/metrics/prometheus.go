package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RequestsTotal counts HTTP requests by method, route, and status code.
	RequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "imagerelay_requests_total",
		Help: "Total HTTP requests processed.",
	}, []string{"method", "path", "status"})

	// UpstreamAttempts counts upstream calls by model and outcome.
	UpstreamAttempts = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "imagerelay_upstream_attempts_total",
		Help: "Upstream generation attempts.",
	}, []string{"model", "outcome"})

	// UpstreamDuration tracks the latency of single upstream attempts.
	UpstreamDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "imagerelay_upstream_duration_seconds",
		Help:    "Time spent in a single upstream attempt.",
		Buckets: []float64{0.5, 1, 2, 5, 10, 20, 30, 60, 120},
	}, []string{"model"})

	// RetriesTotal counts backoff waits per model.
	RetriesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "imagerelay_upstream_retries_total",
		Help: "Upstream retries after a retryable failure.",
	}, []string{"model"})

	// FallbacksTotal counts substitutions of the fallback model.
	FallbacksTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "imagerelay_fallbacks_total",
		Help: "Requests redirected to the fallback model.",
	}, []string{"from", "to"})

	// GenerationDuration tracks end-to-end generation latency.
	GenerationDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "imagerelay_generation_duration_seconds",
		Help:    "End-to-end generation latency including retries and fallback.",
		Buckets: []float64{0.5, 1, 2, 5, 10, 20, 30, 60, 120, 300},
	}, []string{"model", "outcome"})
)
