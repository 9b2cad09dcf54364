package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/prometheus/client_golang/prometheus"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	"municipal-portal/internal/config"
	pgRepo "municipal-portal/internal/infra/adapter/persistence/postgres"
	"municipal-portal/internal/infra/db"
	"municipal-portal/internal/infra/worker"
	"municipal-portal/internal/observability/logging"
	"municipal-portal/internal/observability/tracing"
	"municipal-portal/internal/resilience/circuitbreaker"
	authUC "municipal-portal/internal/usecase/auth"
	contentUC "municipal-portal/internal/usecase/content"
	envconfig "municipal-portal/pkg/config"
	"municipal-portal/pkg/ratelimit"

	hhttp "municipal-portal/internal/handler/http"
	hauth "municipal-portal/internal/handler/http/auth"
	hcontent "municipal-portal/internal/handler/http/content"
	"municipal-portal/internal/handler/http/middleware"
	"municipal-portal/internal/handler/http/requestid"

	_ "municipal-portal/docs" // swagger docs
)

// @title           Portal Municipal API
// @version         1.0
// @description     API pública y de administración del portal municipal:
// @description     novedades, agenda, servicios, autoridades, normativa, contactos e información institucional.

// @license.name  MIT
// @license.url   https://opensource.org/licenses/MIT

// @host      localhost:8080
// @BasePath  /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description JWT emitido por POST /auth/login, enviado como "Bearer {token}".

func main() {
	bootLogger := logging.NewLogger()
	if loaded, err := envconfig.LoadDotEnv(".env", ".env.local"); err != nil {
		bootLogger.Error("failed to load dotenv file", slog.Any("error", err))
		os.Exit(1)
	} else if len(loaded) > 0 {
		bootLogger.Info("loaded dotenv files", slog.Any("files", loaded))
	}

	cfg, err := config.Load(envconfig.NewEnv())
	if err != nil {
		bootLogger.Error("invalid configuration", slog.Any("error", err))
		os.Exit(1)
	}

	logger := logging.New(os.Stdout, logging.ParseLevel(cfg.LogLevel), cfg.LogFormat)
	slog.SetDefault(logger)
	cfg.LogWarnings(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	database := initDatabase(ctx, logger, cfg)
	defer func() {
		if err := database.Close(); err != nil {
			logger.Error("failed to close database", slog.Any("error", err))
		}
	}()

	app, err := buildApp(logger, cfg, database)
	if err != nil {
		logger.Error("failed to build application", slog.Any("error", err))
		os.Exit(1)
	}

	go app.lockout.Run(ctx)
	go app.limiter.Run(ctx)
	if app.warmer != nil {
		go func() {
			if err := app.warmer.Start(ctx); err != nil {
				logger.Error("cache warmer failed", slog.Any("error", err))
			}
		}()
	}

	runServer(ctx, logger, cfg, app.handler)
}

// initDatabase opens the pool and applies migrations, exiting on failure.
func initDatabase(ctx context.Context, logger *slog.Logger, cfg *config.PortalConfig) *sql.DB {
	database, err := db.Open(ctx, cfg.DatabaseURL, cfg.DB)
	if err != nil {
		logger.Error("failed to open database", slog.Any("error", err))
		os.Exit(1)
	}
	if err := db.MigrateUp(ctx, database); err != nil {
		logger.Error("failed to migrate database", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("database ready",
		slog.Int("max_open_conns", cfg.DB.MaxOpenConns))
	return database
}

type app struct {
	handler http.Handler
	lockout *ratelimit.Lockout
	limiter *middleware.RateLimiter
	warmer  *worker.Warmer
}

// buildApp wires repositories, slices, auth and the HTTP stack.
func buildApp(logger *slog.Logger, cfg *config.PortalConfig, database *sql.DB) (*app, error) {
	var breakers []*circuitbreaker.CircuitBreaker
	breaker := func(name string) *circuitbreaker.CircuitBreaker {
		cb := circuitbreaker.New(circuitbreaker.BackendConfig(name))
		breakers = append(breakers, cb)
		return cb
	}

	opts := contentUC.Options{Logger: logger}
	portal := hcontent.Portal{
		Services: contentUC.NewServices(
			circuitbreaker.WrapContent(breaker("services"), pgRepo.NewServiceRepo(database)), opts),
		Authorities: contentUC.NewAuthorities(
			circuitbreaker.WrapContent(breaker("authorities"), pgRepo.NewAuthorityRepo(database)), opts),
		Contacts: contentUC.NewContacts(
			circuitbreaker.WrapContent(breaker("contacts"), pgRepo.NewContactRepo(database)), opts),
		News: contentUC.NewNews(
			circuitbreaker.WrapContent(breaker("news"), pgRepo.NewNewsRepo(database)), opts),
		Events: contentUC.NewEvents(
			circuitbreaker.WrapContent(breaker("events"), pgRepo.NewEventRepo(database)), opts),
		Regulations: contentUC.NewRegulations(
			circuitbreaker.WrapContent(breaker("regulations"), pgRepo.NewRegulationRepo(database)), opts),
		Settings: contentUC.NewSettings(
			circuitbreaker.WrapSettings(breaker("settings"), pgRepo.NewSettingsRepo(database)), logger, nil),
	}

	lockoutCfg := cfg.Lockout
	lockoutCfg.Metrics = ratelimit.NewPrometheusMetrics(prometheus.DefaultRegisterer)
	lockout, err := ratelimit.NewLockout(lockoutCfg)
	if err != nil {
		return nil, err
	}
	issuer, err := authUC.NewTokenIssuer(cfg.JWTSecret, cfg.TokenTTL)
	if err != nil {
		return nil, err
	}
	authSvc := authUC.NewService(authUC.NewAccountProvider(cfg.Accounts...), lockout, issuer, logger)

	corsCfg, err := middleware.LoadCORSConfig(envconfig.NewEnv())
	if err != nil {
		return nil, err
	}
	corsCfg.Logger = logger

	rlCfg, err := middleware.LoadRateLimitConfig(envconfig.NewEnv())
	if err != nil {
		return nil, err
	}
	rlCfg.Paths = hcontent.ListPaths()
	rlCfg.Exempt = hauth.IsWriter
	rlCfg.Logger = logger
	limiter, err := middleware.NewRateLimiter(rlCfg)
	if err != nil {
		return nil, err
	}

	var warmer *worker.Warmer
	if cfg.WarmerEnabled {
		warmer, err = worker.NewWarmer(worker.Config{
			Schedule: cfg.WarmerSchedule,
			Rate:     cfg.WarmerRate,
		}, warmerTargets(portal, cfg.CacheTTL), worker.NewWarmerMetrics(prometheus.DefaultRegisterer), logger)
		if err != nil {
			return nil, err
		}
	}

	mux := http.NewServeMux()
	hcontent.RegisterPortal(mux, portal, hcontent.RouteConfig{
		TTL:        cfg.CacheTTL,
		Pagination: cfg.Pagination,
		Feed: hcontent.FeedInfo{
			Title:       "Novedades - " + cfg.SiteName,
			Link:        cfg.SiteURL,
			Description: "Últimas novedades de " + cfg.SiteName,
		},
		Logger:     logger,
		Privileged: hauth.IsWriter,
	})
	mux.Handle("POST /auth/login", hauth.LoginHandler(authSvc))

	mux.Handle("GET /health", &hhttp.HealthHandler{DB: database, Version: cfg.Version, Breakers: breakers, Lockout: lockout})
	mux.Handle("GET /ready", &hhttp.ReadyHandler{DB: database})
	mux.Handle("GET /live", &hhttp.LiveHandler{})
	mux.Handle("GET /metrics", hhttp.MetricsHandler())
	mux.Handle("GET /swagger/", httpSwagger.WrapHandler)

	handler := hhttp.Chain(hhttp.Metrics(mux),
		requestid.Middleware,
		tracing.Middleware,
		hhttp.Recover(logger),
		hhttp.Logging(logger),
		hhttp.LimitRequestBody(cfg.MaxBodyBytes),
		middleware.CORS(corsCfg),
		hauth.Authz(issuer, logger),
		limiter.Middleware,
	)

	return &app{handler: handler, lockout: lockout, limiter: limiter, warmer: warmer}, nil
}

// warmerTargets lists the TTL-governed slices the warmer keeps fresh.
func warmerTargets(p hcontent.Portal, ttl config.CacheTTL) []worker.Target {
	return []worker.Target{
		worker.TTLTarget("services", p.Services, ttl.Services),
		worker.TTLTarget("contacts", p.Contacts, ttl.Contacts),
		worker.TTLTarget("authorities", p.Authorities, ttl.Authorities),
		worker.TTLTarget("settings", p.Settings, ttl.Settings),
		{
			Name: "featured_news",
			Ensure: func(ctx context.Context) (bool, error) {
				return p.News.EnsureFeaturedFresh(ctx, ttl.FeaturedNews)
			},
		},
	}
}

// runServer serves until ctx is cancelled and then shuts down gracefully.
func runServer(ctx context.Context, logger *slog.Logger, cfg *config.PortalConfig, handler http.Handler) {
	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       cfg.ReadTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       60 * time.Second,
		ErrorLog:          slog.NewLogLogger(logger.Handler(), slog.LevelWarn),
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server starting",
			slog.String("addr", cfg.Addr),
			slog.String("version", cfg.Version),
			slog.Int("accounts", len(cfg.Accounts)))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			logger.Error("server failed", slog.Any("error", err))
			os.Exit(1)
		}
	case <-ctx.Done():
	}
	logger.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown failed", slog.Any("error", err))
	}
	logger.Info("server stopped")
}
