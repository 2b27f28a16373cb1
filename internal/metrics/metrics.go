// Package metrics defines the prometheus instruments exported at /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP metrics
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "persona_http_requests_total",
			Help: "Total HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "persona_http_request_duration_seconds",
			Help:    "HTTP request duration",
			Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 5, 30},
		},
		[]string{"method", "path"},
	)

	// Upstream metrics
	UpstreamCalls = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "persona_upstream_calls_total",
			Help: "Total calls to external dependencies",
		},
		[]string{"dependency", "outcome"}, // outcome: "success" or "failure"
	)

	// Fallback metrics - which level of a fallback chain served the response
	FallbacksServed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "persona_fallbacks_served_total",
			Help: "Total responses served from a fallback path",
		},
		[]string{"component", "level"},
	)

	// Cache metrics
	CacheReads = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "persona_post_cache_reads_total",
			Help: "Single-slot post cache reads",
		},
		[]string{"result"}, // "hit", "miss", "expired", "corrupt"
	)
)
