package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP metrics. The route label is the mux pattern, never the raw path.
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	HTTPInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_requests_in_flight",
			Help: "Number of HTTP requests being served",
		},
	)
)

// Content metrics.
var (
	StoreRecords = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "portal_store_records",
			Help: "Number of records held in the collection of each content type",
		},
		[]string{"scope"},
	)

	CacheGateDecisions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "portal_cache_gate_decisions_total",
			Help: "TTL gate decisions by content type",
		},
		[]string{"scope", "decision"}, // decision: fetch|cached
	)
)

// RecordHTTPRequest observes one served request.
func RecordHTTPRequest(method, route string, status int, d time.Duration) {
	if route == "" {
		route = "unmatched"
	}
	HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	HTTPRequestDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

// RecordStoreSize publishes the collection size of scope.
func RecordStoreSize(scope string, n int) {
	StoreRecords.WithLabelValues(scope).Set(float64(n))
}

// RecordGateDecision counts a TTL gate decision.
func RecordGateDecision(scope string, fetch bool) {
	decision := "cached"
	if fetch {
		decision = "fetch"
	}
	CacheGateDecisions.WithLabelValues(scope, decision).Inc()
}
