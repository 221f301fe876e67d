// Package metrics holds the process-wide Prometheus collectors, exposed on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// CacheLookups counts gateway outcomes per key kind (hit|miss|error|bypass).
	CacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fellowship_cache_lookups_total",
			Help: "Content cache lookups by key kind and outcome",
		},
		[]string{"kind", "result"},
	)

	// CacheWrites counts cache writes per key kind (ok|error).
	CacheWrites = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fellowship_cache_writes_total",
			Help: "Content cache writes by key kind and outcome",
		},
		[]string{"kind", "result"},
	)

	// CacheBreakerState is 0 (closed), 1 (half-open) or 2 (open).
	CacheBreakerState = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "fellowship_cache_breaker_state",
			Help: "Circuit breaker state around the cache store",
		},
	)

	UpstreamLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "fellowship_upstream_latency_seconds",
			Help:    "Scripture provider request latency",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"status"},
	)

	// BookmarkOps records bookmark operations by name and result (ok|conflict|invalid|not_found|error).
	BookmarkOps = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fellowship_bookmark_operations_total",
			Help: "Bookmark operations by outcome",
		},
		[]string{"op", "result"},
	)

	// APILatency measures HTTP request latencies.
	APILatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "fellowship_api_latency_seconds",
			Help:    "API endpoint latency",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)
)
