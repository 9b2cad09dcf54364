package middleware

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"municipal-portal/internal/handler/http/respond"
	"municipal-portal/pkg/config"
	"municipal-portal/pkg/ratelimit"
)

// RateLimitMessage is the body of a 429 answer.
const RateLimitMessage = "Demasiadas solicitudes. Intenta nuevamente en unos segundos."

var rateLimitDecisions = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "portal_ratelimit_requests_total",
		Help: "Requests checked by the public read rate limiter",
	},
	[]string{"result"},
)

// RateLimitConfig limits how often one client may hit the public list and
// search endpoints.
type RateLimitConfig struct {
	Enabled bool
	Window  ratelimit.WindowConfig
	// Paths are the exact paths limited for GET and HEAD, e.g. "/api/novedades".
	Paths []string
	// TrustedProxies may set X-Forwarded-For; empty means use the peer address.
	TrustedProxies []string
	// Exempt skips the limit for some requests, e.g. signed-in admins.
	Exempt func(r *http.Request) bool
	Logger *slog.Logger
}

// LoadRateLimitConfig reads the limiter settings from the environment.
//
// Environment variables:
//   - RATE_LIMIT_ENABLED: default true
//   - RATE_LIMIT_REQUESTS: requests per window and client, default 120
//   - RATE_LIMIT_WINDOW: sliding window, default 1m
//   - RATE_LIMIT_TRUSTED_PROXIES: comma-separated IPs or CIDRs of reverse proxies
func LoadRateLimitConfig(env *config.Env) (RateLimitConfig, error) {
	cfg := RateLimitConfig{
		Enabled: env.Bool("RATE_LIMIT_ENABLED", true),
		Window: ratelimit.WindowConfig{
			Limit:  env.Int("RATE_LIMIT_REQUESTS", ratelimit.DefaultWindowLimit),
			Window: env.Duration("RATE_LIMIT_WINDOW", ratelimit.DefaultWindow),
		},
		TrustedProxies: env.StringList("RATE_LIMIT_TRUSTED_PROXIES", nil),
	}
	w := cfg.Window
	w.ApplyDefaults()
	if err := w.Validate(); err != nil {
		return cfg, fmt.Errorf("rate limit: %w", err)
	}
	if _, err := ParseTrustedProxies(cfg.TrustedProxies); err != nil {
		return cfg, fmt.Errorf("RATE_LIMIT_TRUSTED_PROXIES: %w", err)
	}
	return cfg, nil
}

// RateLimiter enforces RateLimitConfig per client IP.
type RateLimiter struct {
	cfg       RateLimitConfig
	limiter   *ratelimit.WindowLimiter
	extractor IPExtractor
	paths     map[string]bool
}

// NewRateLimiter builds the limiter. Call Run to forget idle clients.
func NewRateLimiter(cfg RateLimitConfig) (*RateLimiter, error) {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	limiter, err := ratelimit.NewWindowLimiter(cfg.Window)
	if err != nil {
		return nil, err
	}
	proxies, err := ParseTrustedProxies(cfg.TrustedProxies)
	if err != nil {
		return nil, err
	}
	var extractor IPExtractor = RemoteAddrExtractor{}
	if len(proxies) > 0 {
		extractor = TrustedProxyExtractor{Proxies: proxies, Logger: cfg.Logger}
	}
	paths := make(map[string]bool, len(cfg.Paths))
	for _, p := range cfg.Paths {
		paths[p] = true
	}
	return &RateLimiter{cfg: cfg, limiter: limiter, extractor: extractor, paths: paths}, nil
}

// Run drops idle clients every window until ctx is done.
func (rl *RateLimiter) Run(ctx context.Context) {
	rl.limiter.Run(ctx, rl.limiter.Window())
}

// Middleware answers 429 once a client exceeds the limit on a limited path.
// Requests whose IP cannot be read are let through.
func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !rl.applies(r) {
			next.ServeHTTP(w, r)
			return
		}
		ip, err := rl.extractor.ExtractIP(r)
		if err != nil {
			rl.cfg.Logger.WarnContext(r.Context(), "rate limiter: cannot read client IP, allowing request",
				slog.String("remote_addr", r.RemoteAddr),
				slog.Any("error", err))
			next.ServeHTTP(w, r)
			return
		}

		d := rl.limiter.Allow(ip)
		w.Header().Set("X-RateLimit-Limit", strconv.Itoa(d.Limit))
		w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(d.Remaining))
		w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(d.ResetAt.Unix(), 10))
		if !d.Allowed {
			rateLimitDecisions.WithLabelValues("denied").Inc()
			retry := int(math.Ceil(d.RetryAfter.Seconds()))
			w.Header().Set("Retry-After", strconv.Itoa(max(retry, 1)))
			rl.cfg.Logger.WarnContext(r.Context(), "rate limit exceeded",
				slog.String("ip", ip),
				slog.String("path", r.URL.Path),
				slog.Int("limit", d.Limit),
				slog.Duration("retry_after", d.RetryAfter))
			respond.JSON(w, http.StatusTooManyRequests, respond.ErrorBody{Error: RateLimitMessage})
			return
		}
		rateLimitDecisions.WithLabelValues("allowed").Inc()
		next.ServeHTTP(w, r)
	})
}

func (rl *RateLimiter) applies(r *http.Request) bool {
	if !rl.cfg.Enabled {
		return false
	}
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		return false
	}
	if !rl.paths[r.URL.Path] {
		return false
	}
	return rl.cfg.Exempt == nil || !rl.cfg.Exempt(r)
}
