// Package auth holds the HTTP side of panel authentication: the login endpoint
// and the middleware guarding content changes.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"municipal-portal/internal/handler/http/respond"
	authuc "municipal-portal/internal/usecase/auth"
)

type ctxKey string

const ctxClaims ctxKey = "claims"

// TokenParser verifies the Authorization header of a request.
type TokenParser interface {
	ParseBearer(header string) (*authuc.Claims, error)
}

// Authz guards every request that may change content.
//
// Public endpoints and read-only methods are never rejected; a valid bearer
// token on them still attaches its claims so handlers can show unpublished
// records. Anything else needs a valid bearer token whose role is allowed the
// method and path.
func Authz(parser TokenParser, logger *slog.Logger) func(http.Handler) http.Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if IsPublicEndpoint(r.URL.Path) || isReadOnly(r.Method) {
				if h := r.Header.Get("Authorization"); h != "" {
					if claims, err := parser.ParseBearer(h); err == nil {
						r = r.WithContext(WithClaims(r.Context(), claims))
					}
				}
				next.ServeHTTP(w, r)
				return
			}

			start := time.Now()
			claims, err := parser.ParseBearer(r.Header.Get("Authorization"))
			RecordAuthzCheckDuration(time.Since(start).Seconds())
			if err != nil {
				logger.WarnContext(r.Context(), "unauthorized request",
					slog.String("method", r.Method),
					slog.String("path", r.URL.Path),
					slog.Any("error", err))
				respond.SafeError(w, http.StatusUnauthorized, fmt.Errorf("unauthorized: token invalid"))
				return
			}
			if !checkRolePermission(claims.Role, r.Method, r.URL.Path) {
				RecordForbiddenAttempt(claims.Role, r.Method)
				logger.WarnContext(r.Context(), "forbidden request",
					slog.String("user", claims.Subject),
					slog.String("role", claims.Role),
					slog.String("method", r.Method),
					slog.String("path", r.URL.Path))
				respond.JSON(w, http.StatusForbidden, respond.ErrorBody{Error: "forbidden"})
				return
			}
			next.ServeHTTP(w, r.WithContext(WithClaims(r.Context(), claims)))
		})
	}
}

// WithClaims stores the verified claims in ctx.
func WithClaims(ctx context.Context, c *authuc.Claims) context.Context {
	return context.WithValue(ctx, ctxClaims, c)
}

// ClaimsFromContext returns the claims stored by Authz.
func ClaimsFromContext(ctx context.Context) (*authuc.Claims, error) {
	c, ok := ctx.Value(ctxClaims).(*authuc.Claims)
	if !ok || c == nil {
		return nil, errors.New("no claims in context")
	}
	return c, nil
}

// IsWriter reports whether r carries claims of a role allowed to edit content.
func IsWriter(r *http.Request) bool {
	c, err := ClaimsFromContext(r.Context())
	return err == nil && authuc.CanWrite(c.Role)
}
