package auth

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	authzCheckDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "portal_authz_check_duration_seconds",
			Help:    "Time spent verifying bearer tokens on protected requests",
			Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01},
		},
	)

	// forbiddenAttempts counts valid tokens used outside their role.
	forbiddenAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "portal_forbidden_attempts_total",
			Help: "Requests rejected because the role lacks permission",
		},
		[]string{"role", "method"},
	)

	loginResponses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "portal_login_responses_total",
			Help: "Login endpoint responses by HTTP status",
		},
		[]string{"status"},
	)
)

// RecordAuthzCheckDuration records how long a token check took.
func RecordAuthzCheckDuration(durationSeconds float64) {
	authzCheckDuration.Observe(durationSeconds)
}

// RecordForbiddenAttempt records a forbidden access attempt.
func RecordForbiddenAttempt(role, method string) {
	forbiddenAttempts.WithLabelValues(role, method).Inc()
}

func recordLoginResponse(status string) {
	loginResponses.WithLabelValues(status).Inc()
}
