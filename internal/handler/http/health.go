// Package http holds the portal's HTTP plumbing: middleware, health probes and
// metrics. Content and auth routes live in the subpackages.
package http

import (
	"context"
	"database/sql"
	"log/slog"
	"net/http"
	"time"

	"municipal-portal/internal/handler/http/respond"
	"municipal-portal/internal/resilience/circuitbreaker"
	"municipal-portal/pkg/ratelimit"
)

const (
	statusHealthy   = "healthy"
	statusDegraded  = "degraded"
	statusUnhealthy = "unhealthy"
)

// HealthResponse is the body of /health.
type HealthResponse struct {
	Status    string                 `json:"status"`
	Timestamp string                 `json:"timestamp"`
	Checks    map[string]CheckStatus `json:"checks"`
	Version   string                 `json:"version"`
}

// CheckStatus is the result of one check.
type CheckStatus struct {
	Status  string         `json:"status"`
	Message string         `json:"message,omitempty"`
	Details map[string]any `json:"details,omitempty"`
}

// HealthHandler reports the database, the backend circuit breakers and the
// login lockout. Only an unreachable database makes the service unhealthy;
// an open breaker degrades it.
type HealthHandler struct {
	DB       *sql.DB
	Version  string
	Breakers []*circuitbreaker.CircuitBreaker
	Lockout  *ratelimit.Lockout
}

// ServeHTTP answers 200 unless a check is unhealthy, then 503.
// @Summary      Estado del servicio
// @Tags         health
// @Produce      json
// @Success      200 {object} HealthResponse
// @Failure      503 {object} HealthResponse
// @Router       /health [get]
func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	checks := map[string]CheckStatus{"database": h.checkDatabase(ctx)}
	if len(h.Breakers) > 0 {
		checks["backends"] = h.checkBreakers()
	}
	if h.Lockout != nil {
		checks["login_lockout"] = CheckStatus{
			Status:  statusHealthy,
			Details: map[string]any{"tracked_keys": h.Lockout.Len()},
		}
	}

	overall := statusHealthy
	code := http.StatusOK
	for _, c := range checks {
		switch c.Status {
		case statusUnhealthy:
			overall = statusUnhealthy
			code = http.StatusServiceUnavailable
		case statusDegraded:
			if overall == statusHealthy {
				overall = statusDegraded
			}
		}
	}

	w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
	respond.JSON(w, code, HealthResponse{
		Status:    overall,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Checks:    checks,
		Version:   h.Version,
	})
}

func (h *HealthHandler) checkDatabase(ctx context.Context) CheckStatus {
	if h.DB == nil {
		return CheckStatus{Status: statusUnhealthy, Message: "not configured"}
	}
	if err := h.DB.PingContext(ctx); err != nil {
		slog.Default().WarnContext(ctx, "health: database ping failed", slog.String("error", respond.SanitizeError(err)))
		return CheckStatus{Status: statusUnhealthy, Message: "database unreachable"}
	}

	stats := h.DB.Stats()
	details := map[string]any{
		"max_open_connections": stats.MaxOpenConnections,
		"open_connections":     stats.OpenConnections,
		"in_use":               stats.InUse,
		"idle":                 stats.Idle,
		"wait_count":           stats.WaitCount,
		"wait_duration_ms":     stats.WaitDuration.Milliseconds(),
	}
	if stats.MaxOpenConnections > 0 {
		utilization := float64(stats.InUse) / float64(stats.MaxOpenConnections) * 100
		details["utilization_percent"] = utilization
		if utilization >= 80 {
			return CheckStatus{Status: statusDegraded, Message: "connection pool utilization above 80%", Details: details}
		}
	}
	return CheckStatus{Status: statusHealthy, Details: details}
}

func (h *HealthHandler) checkBreakers() CheckStatus {
	details := make(map[string]any, len(h.Breakers))
	st := CheckStatus{Status: statusHealthy, Details: details}
	for _, cb := range h.Breakers {
		details[cb.Name()] = cb.State().String()
		if cb.IsOpen() {
			st.Status = statusDegraded
			st.Message = "circuit breaker open"
		}
	}
	return st
}

// ReadyHandler is the readiness probe: ready once the database answers.
type ReadyHandler struct {
	DB *sql.DB
}

func (h *ReadyHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if h.DB == nil {
		http.Error(w, "database not configured", http.StatusServiceUnavailable)
		return
	}
	if err := h.DB.PingContext(ctx); err != nil {
		http.Error(w, "database not ready", http.StatusServiceUnavailable)
		return
	}
	writeText(w, "ready")
}

// LiveHandler is the liveness probe.
type LiveHandler struct{}

func (h *LiveHandler) ServeHTTP(w http.ResponseWriter, _ *http.Request) {
	writeText(w, "alive")
}

func writeText(w http.ResponseWriter, body string) {
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte(body)); err != nil {
		slog.Default().Warn("probe: failed to write response", slog.Any("error", err))
	}
}
