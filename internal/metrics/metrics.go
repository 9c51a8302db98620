// Package metrics exposes the service's Prometheus collectors.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// RequestsTotal counts pipeline runs by endpoint and terminal status.
	RequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "eloquo_requests_total",
		Help: "Pipeline runs by endpoint and terminal status.",
	}, []string{"endpoint", "status"})

	// StageDuration observes per-stage wall time.
	StageDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "eloquo_stage_duration_seconds",
		Help:    "Wall time of individual pipeline stages.",
		Buckets: prometheus.ExponentialBuckets(0.25, 2, 10),
	}, []string{"stage"})

	// LLMTokensTotal counts tokens consumed per model.
	LLMTokensTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "eloquo_llm_tokens_total",
		Help: "Total tokens reported by the LLM gateway, per model.",
	}, []string{"model"})
)

// Handler serves the Prometheus scrape endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}
