package dispatch

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"municipal-portal/internal/state/status"
)

const (
	outcomeFulfilled = "fulfilled"
	outcomeRejected  = "rejected"
	outcomeStale     = "stale"
)

var (
	// operationsTotal counts completions per content type, operation and outcome
	operationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "portal_dispatch_operations_total",
			Help: "Total number of dispatched operations by outcome",
		},
		[]string{"scope", "op", "outcome"}, // outcome: fulfilled|rejected|stale
	)

	// operationDuration tracks backend call latency
	operationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "portal_dispatch_duration_seconds",
			Help:    "Duration of dispatched backend calls in seconds",
			Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
		[]string{"scope", "kind"},
	)

	// cacheInvalidationsTotal counts whole fetch record resets caused by mutations
	cacheInvalidationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "portal_cache_invalidations_total",
			Help: "Total number of fetch record resets caused by mutations",
		},
		[]string{"scope"},
	)
)

func recordOutcome(scope string, op status.Op, outcome string) {
	operationsTotal.WithLabelValues(scope, string(op), outcome).Inc()
}

func recordDuration(scope string, kind Kind, d time.Duration) {
	operationDuration.WithLabelValues(scope, kind.String()).Observe(d.Seconds())
}

func recordInvalidation(scope string) {
	cacheInvalidationsTotal.WithLabelValues(scope).Inc()
}
