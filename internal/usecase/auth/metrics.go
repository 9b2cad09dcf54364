package auth

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Login results.
const (
	resultSuccess = "success"
	resultFailure = "failure"
	resultInvalid = "invalid"
	resultLocked  = "locked"
	resultError   = "error"
)

var (
	loginAttemptsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "portal_login_attempts_total",
			Help: "Login attempts by role and result",
		},
		[]string{"role", "result"}, // result: success | failure | invalid | locked | error
	)

	loginDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "portal_login_duration_seconds",
			Help:    "Login duration including credential checks",
			Buckets: []float64{0.001, 0.01, 0.05, 0.1, 0.5, 1.0},
		},
	)
)

func recordLogin(role, result string, start time.Time) {
	if role == "" {
		role = "unknown"
	}
	loginAttemptsTotal.WithLabelValues(role, result).Inc()
	loginDuration.Observe(time.Since(start).Seconds())
}
