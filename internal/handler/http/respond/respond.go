// Package respond writes JSON responses and maps portal errors to HTTP status
// codes without leaking internal details.
package respond

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"municipal-portal/internal/domain/entity"
	"municipal-portal/internal/resilience/circuitbreaker"
	"municipal-portal/internal/state/dispatch"
)

// JSON writes v with the given status code.
func JSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if v != nil {
		if err := json.NewEncoder(w).Encode(v); err != nil {
			slog.Default().Error("failed to encode JSON response",
				slog.Int("status_code", code),
				slog.Any("error", err))
		}
	}
}

// ErrorBody is the JSON shape of every error response.
type ErrorBody struct {
	Error string `json:"error"`
	// Op names the rejected operation, e.g. "getServiceBySlugAsync".
	Op string `json:"op,omitempty"`
}

// Error writes err.Error() as is. Use it only for messages meant for users.
func Error(w http.ResponseWriter, code int, err error) {
	JSON(w, code, ErrorBody{Error: err.Error()})
}

var safeFragments = []string{
	"required",
	"invalid",
	"not found",
	"must be",
	"cannot be",
	"too long",
	"too short",
}

// SafeError writes err when its text looks like a validation message and the
// code is below 500; anything else is logged and replaced by a generic text.
func SafeError(w http.ResponseWriter, code int, err error) {
	if err == nil {
		return
	}
	msg := err.Error()
	lower := strings.ToLower(msg)
	safe := false
	if code < 500 {
		for _, s := range safeFragments {
			if strings.Contains(lower, s) {
				safe = true
				break
			}
		}
	}
	if safe {
		JSON(w, code, ErrorBody{Error: msg})
		return
	}
	slog.Default().Error("request failed",
		slog.String("status", http.StatusText(code)),
		slog.Int("code", code),
		slog.String("error", SanitizeError(err)))
	JSON(w, code, ErrorBody{Error: genericMessage(code)})
}

func genericMessage(code int) string {
	if code >= 500 {
		return "internal server error"
	}
	return strings.ToLower(http.StatusText(code))
}

// AppError carries a user message next to the internal cause.
type AppError struct {
	UserMsg string // shown to the client
	Err     error  // logged only
	Code    int
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.UserMsg
}

func (e *AppError) Unwrap() error { return e.Err }

// NewAppError creates an AppError.
func NewAppError(code int, userMsg string, err error) *AppError {
	return &AppError{Code: code, UserMsg: userMsg, Err: err}
}

// StatusFor maps an error to its HTTP status code.
func StatusFor(err error) int {
	var ve *entity.ValidationError
	var appErr *AppError
	switch {
	case errors.As(err, &appErr):
		return appErr.Code
	case errors.As(err, &ve), errors.Is(err, entity.ErrValidationFailed), errors.Is(err, entity.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, entity.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, entity.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, circuitbreaker.ErrUnavailable):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

// Failure writes any error returned by a use case. Rejected operations carry
// a message already safe for users; other errors go through SafeError.
func Failure(w http.ResponseWriter, err error) {
	if err == nil {
		return
	}
	code := StatusFor(err)

	var appErr *AppError
	if errors.As(err, &appErr) {
		if appErr.Err != nil {
			slog.Default().Error("application error",
				slog.Int("code", appErr.Code),
				slog.String("user_message", appErr.UserMsg),
				slog.String("error", SanitizeError(appErr.Err)))
		}
		JSON(w, appErr.Code, ErrorBody{Error: appErr.UserMsg})
		return
	}

	var rejected *dispatch.RejectedError
	if errors.As(err, &rejected) {
		if code >= 500 {
			slog.Default().Error("operation rejected",
				slog.String("op", string(rejected.Op)),
				slog.String("error", SanitizeError(rejected.Err)))
		}
		JSON(w, code, ErrorBody{Error: rejected.Message, Op: string(rejected.Op)})
		return
	}
	SafeError(w, code, err)
}
