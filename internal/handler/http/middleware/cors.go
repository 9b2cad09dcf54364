// Package middleware holds HTTP middleware that needs its own configuration.
package middleware

import (
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"slices"
	"strconv"
	"strings"

	"municipal-portal/pkg/config"
)

var corsMethods = []string{"GET", "HEAD", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"}

// CORSConfig is the cross-origin policy of the API. The public site and the
// admin panel are served from other origins than the API.
type CORSConfig struct {
	// AllowedOrigins is the whitelist; empty disables CORS headers entirely.
	AllowedOrigins []string
	AllowedMethods []string
	AllowedHeaders []string
	// MaxAge is how long browsers may cache a preflight, in seconds.
	MaxAge int
	Logger *slog.Logger
}

// DefaultCORSConfig allows nothing until origins are configured.
func DefaultCORSConfig() CORSConfig {
	return CORSConfig{
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type", "Authorization", "X-Request-ID"},
		MaxAge:         86400,
	}
}

// LoadCORSConfig reads the policy from the environment.
//
// Environment variables:
//   - CORS_ALLOWED_ORIGINS: comma-separated origins, e.g. https://municipio.gob.ar
//   - CORS_ALLOWED_METHODS: comma-separated methods
//   - CORS_ALLOWED_HEADERS: comma-separated request headers
//   - CORS_MAX_AGE: preflight cache in seconds
func LoadCORSConfig(env *config.Env) (CORSConfig, error) {
	cfg := DefaultCORSConfig()
	for _, o := range env.StringList("CORS_ALLOWED_ORIGINS", nil) {
		if err := validateOrigin(o); err != nil {
			return cfg, err
		}
		cfg.AllowedOrigins = append(cfg.AllowedOrigins, o)
	}
	if methods := env.StringList("CORS_ALLOWED_METHODS", nil); len(methods) > 0 {
		for i, m := range methods {
			methods[i] = strings.ToUpper(m)
			if !slices.Contains(corsMethods, methods[i]) {
				return cfg, fmt.Errorf("invalid CORS method %q", m)
			}
		}
		cfg.AllowedMethods = methods
	}
	if headers := env.StringList("CORS_ALLOWED_HEADERS", nil); len(headers) > 0 {
		cfg.AllowedHeaders = headers
	}
	cfg.MaxAge = env.Int("CORS_MAX_AGE", cfg.MaxAge)
	if cfg.MaxAge < 0 {
		return cfg, fmt.Errorf("CORS_MAX_AGE must be non-negative, got %d", cfg.MaxAge)
	}
	return cfg, nil
}

// validateOrigin accepts scheme://host[:port] with no path, query or fragment.
func validateOrigin(origin string) error {
	u, err := url.Parse(origin)
	if err != nil {
		return fmt.Errorf("invalid origin URL %q: %w", origin, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("origin must use http or https scheme: %s", origin)
	}
	if u.Host == "" {
		return fmt.Errorf("origin must include a host: %s", origin)
	}
	if u.Path != "" || u.RawQuery != "" || u.Fragment != "" {
		return fmt.Errorf("origin must not include path, query or fragment: %s", origin)
	}
	return nil
}

// CORS sets the CORS headers for whitelisted origins and answers their
// preflight requests with 204. Other origins get no CORS headers and the
// browser blocks the response.
func CORS(cfg CORSConfig) func(http.Handler) http.Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	methods := strings.Join(cfg.AllowedMethods, ", ")
	headers := strings.Join(cfg.AllowedHeaders, ", ")
	maxAge := strconv.Itoa(cfg.MaxAge)

	return func(next http.Handler) http.Handler {
		if len(cfg.AllowedOrigins) == 0 {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			if origin == "" {
				next.ServeHTTP(w, r)
				return
			}
			if !slices.Contains(cfg.AllowedOrigins, origin) {
				logger.Warn("CORS: origin not allowed",
					slog.String("origin", origin),
					slog.String("method", r.Method),
					slog.String("path", r.URL.Path))
				next.ServeHTTP(w, r)
				return
			}

			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Credentials", "true")
			w.Header().Add("Vary", "Origin")

			if r.Method == http.MethodOptions && r.Header.Get("Access-Control-Request-Method") != "" {
				w.Header().Set("Access-Control-Allow-Methods", methods)
				w.Header().Set("Access-Control-Allow-Headers", headers)
				w.Header().Set("Access-Control-Max-Age", maxAge)
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
