// Package telemetry defines the Prometheus metrics exposed by the service
// and the middleware that records them.
package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTPRequestsTotal tracks inbound HTTP requests, partitioned by path,
// method, and resulting status code.
var HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "saltyocean_http_requests_total",
	Help: "Total number of HTTP requests by path, method and code.",
}, []string{"path", "method", "code"})

// ExternalRequestDuration tracks the latency of outbound calls to an
// upstream service (ndbc or nomads), partitioned by service and the
// resulting outcome (ok or error).
var ExternalRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Name:    "saltyocean_external_request_duration_seconds",
	Help:    "Duration of outbound requests to upstream services, in seconds.",
	Buckets: prometheus.DefBuckets,
}, []string{"service", "outcome"})

// PrefetchCycleStations tracks the outcome of each station processed by a
// prefetch cycle, partitioned by outcome (filled, skipped, failed).
var PrefetchCycleStations = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "saltyocean_prefetch_cycle_stations_total",
	Help: "Total number of stations processed by prefetch cycles, by outcome.",
}, []string{"outcome"})

// CacheOperations tracks cache hits and misses by cache key namespace
// (obs, fcst, env).
var CacheOperations = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "saltyocean_cache_operations_total",
	Help: "Total number of cache lookups, by namespace and result.",
}, []string{"namespace", "result"})
