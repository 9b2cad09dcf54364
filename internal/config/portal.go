// Package config assembles the portal configuration from defaults, an optional
// YAML file and the environment. Environment values win over the file.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/robfig/cron/v3"

	"municipal-portal/internal/common/pagination"
	"municipal-portal/internal/infra/db"
	"municipal-portal/internal/usecase/auth"
	envconfig "municipal-portal/pkg/config"
	"municipal-portal/pkg/ratelimit"
)

// DefaultWarmerSchedule refreshes the cached slices every five minutes.
const DefaultWarmerSchedule = "*/5 * * * *"

// PortalConfig is everything cmd/portal needs to start.
type PortalConfig struct {
	Addr            string
	LogLevel        string
	Version         string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
	MaxBodyBytes    int64
	LogFormat       string

	// SiteName and SiteURL describe the public site in the news RSS feed.
	SiteName string
	SiteURL  string

	DatabaseURL string
	DB          db.ConnectionConfig

	JWTSecret string
	TokenTTL  time.Duration
	Accounts  []auth.Account
	Lockout   ratelimit.LockoutConfig

	Pagination pagination.Config
	CacheTTL   CacheTTL

	WarmerEnabled  bool
	WarmerSchedule string
	// WarmerRate is the number of backend refreshes per second the warmer may start.
	WarmerRate float64

	// Warnings collects the fallbacks and dropped settings found while loading.
	Warnings []string
}

// fileConfig is the YAML override document named by PORTAL_CONFIG_FILE.
type fileConfig struct {
	CacheTTL struct {
		Services     *time.Duration `yaml:"services"`
		Contacts     *time.Duration `yaml:"contacts"`
		Authorities  *time.Duration `yaml:"authorities"`
		Settings     *time.Duration `yaml:"settings"`
		FeaturedNews *time.Duration `yaml:"featured_news"`
	} `yaml:"cache_ttl"`
	Lockout struct {
		MaxAttempts int           `yaml:"max_attempts"`
		Cooldown    time.Duration `yaml:"cooldown"`
	} `yaml:"lockout"`
	Warmer struct {
		Schedule string  `yaml:"schedule"`
		Rate     float64 `yaml:"rate"`
	} `yaml:"warmer"`
	Accounts []auth.Account `yaml:"accounts"`
}

// Default returns the configuration used when nothing is set.
func Default() PortalConfig {
	return PortalConfig{
		Addr:            ":8080",
		LogLevel:        "info",
		Version:         "dev",
		ReadTimeout:     10 * time.Second,
		WriteTimeout:    15 * time.Second,
		ShutdownTimeout: 10 * time.Second,
		MaxBodyBytes:    1 << 20,
		LogFormat:       "json",
		SiteName:        "Municipalidad",
		SiteURL:         "http://localhost:3000",
		DB:              db.DefaultConnectionConfig(),
		TokenTTL:        auth.DefaultTokenTTL,
		Lockout: ratelimit.LockoutConfig{
			MaxAttempts: ratelimit.DefaultMaxAttempts,
			Cooldown:    ratelimit.DefaultCooldown,
		},
		Pagination:     pagination.DefaultConfig(),
		CacheTTL:       DefaultCacheTTL(),
		WarmerEnabled:  true,
		WarmerSchedule: DefaultWarmerSchedule,
		WarmerRate:     2,
	}
}

// Load reads PORTAL_CONFIG_FILE (if set) and then the environment, and validates
// the result.
func Load(env *envconfig.Env) (*PortalConfig, error) {
	cfg := Default()
	if path := env.String("PORTAL_CONFIG_FILE", ""); path != "" {
		var fc fileConfig
		if err := envconfig.LoadYAMLFile(path, &fc); err != nil {
			return nil, err
		}
		cfg.applyFile(fc)
	}
	cfg.applyEnv(env)
	cfg.Warnings = append(cfg.Warnings, env.Warnings...)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *PortalConfig) applyFile(fc fileConfig) {
	set := func(dst *time.Duration, v *time.Duration) {
		if v != nil {
			*dst = *v
		}
	}
	set(&c.CacheTTL.Services, fc.CacheTTL.Services)
	set(&c.CacheTTL.Contacts, fc.CacheTTL.Contacts)
	set(&c.CacheTTL.Authorities, fc.CacheTTL.Authorities)
	set(&c.CacheTTL.Settings, fc.CacheTTL.Settings)
	set(&c.CacheTTL.FeaturedNews, fc.CacheTTL.FeaturedNews)
	if fc.Lockout.MaxAttempts > 0 {
		c.Lockout.MaxAttempts = fc.Lockout.MaxAttempts
	}
	if fc.Lockout.Cooldown > 0 {
		c.Lockout.Cooldown = fc.Lockout.Cooldown
	}
	if fc.Warmer.Schedule != "" {
		c.WarmerSchedule = fc.Warmer.Schedule
	}
	if fc.Warmer.Rate > 0 {
		c.WarmerRate = fc.Warmer.Rate
	}
	c.Accounts = append(c.Accounts, fc.Accounts...)
}

func (c *PortalConfig) applyEnv(env *envconfig.Env) {
	c.Addr = env.String("PORTAL_ADDR", c.Addr)
	c.LogLevel = env.String("LOG_LEVEL", c.LogLevel)
	c.Version = env.String("APP_VERSION", c.Version)
	c.LogFormat = env.String("LOG_FORMAT", c.LogFormat)
	c.SiteName = env.String("PORTAL_SITE_NAME", c.SiteName)
	c.SiteURL = strings.TrimRight(env.String("PORTAL_SITE_URL", c.SiteURL), "/")
	c.ReadTimeout = env.Duration("HTTP_READ_TIMEOUT", c.ReadTimeout)
	c.WriteTimeout = env.Duration("HTTP_WRITE_TIMEOUT", c.WriteTimeout)
	c.ShutdownTimeout = env.Duration("HTTP_SHUTDOWN_TIMEOUT", c.ShutdownTimeout)
	c.MaxBodyBytes = int64(env.Int("HTTP_MAX_BODY_BYTES", int(c.MaxBodyBytes)))

	c.DatabaseURL = env.String("DATABASE_URL", c.DatabaseURL)
	c.DB = db.ConnectionConfigFromEnv(env)

	c.JWTSecret = env.String("JWT_SECRET", c.JWTSecret)
	c.TokenTTL = env.Duration("JWT_TTL", c.TokenTTL)
	c.Lockout.MaxAttempts = env.Int("LOGIN_MAX_ATTEMPTS", c.Lockout.MaxAttempts)
	c.Lockout.Cooldown = env.Duration("LOGIN_COOLDOWN", c.Lockout.Cooldown)

	c.Pagination = pagination.LoadFromEnv(env)

	c.CacheTTL.Services = env.Duration("CACHE_TTL_SERVICES", c.CacheTTL.Services)
	c.CacheTTL.Contacts = env.Duration("CACHE_TTL_CONTACTS", c.CacheTTL.Contacts)
	c.CacheTTL.Authorities = env.Duration("CACHE_TTL_AUTHORITIES", c.CacheTTL.Authorities)
	c.CacheTTL.Settings = env.Duration("CACHE_TTL_SETTINGS", c.CacheTTL.Settings)
	c.CacheTTL.FeaturedNews = env.Duration("CACHE_TTL_FEATURED_NEWS", c.CacheTTL.FeaturedNews)

	c.WarmerEnabled = env.Bool("WARMER_ENABLED", c.WarmerEnabled)
	c.WarmerSchedule = env.String("WARMER_SCHEDULE", c.WarmerSchedule)

	if admin := env.String("ADMIN_USER", ""); admin != "" {
		c.Accounts = append(c.Accounts, auth.Account{
			Email:    admin,
			Password: env.String("ADMIN_USER_PASSWORD", ""),
			Role:     auth.RoleAdmin,
		})
	}
	if demo := env.String("DEMO_USER", ""); demo != "" {
		c.Accounts = append(c.Accounts, auth.Account{
			Email:    demo,
			Password: env.String("DEMO_USER_PASSWORD", ""),
			Role:     auth.RoleViewer,
		})
	}
}

// Validate fails on settings the portal cannot safely start with. Misconfigured
// viewer accounts are dropped with a warning instead.
func (c *PortalConfig) Validate() error {
	var errs []error
	if c.DatabaseURL == "" {
		errs = append(errs, errors.New("DATABASE_URL must be set"))
	}
	if err := auth.ValidateSecret(c.JWTSecret); err != nil {
		errs = append(errs, err)
	}
	if err := envconfig.ValidateDurationRange("JWT_TTL", c.TokenTTL, time.Minute, 24*time.Hour); err != nil {
		errs = append(errs, err)
	}
	c.dropInvalidViewers()
	if err := auth.ValidateAccounts(c.Accounts); err != nil {
		errs = append(errs, fmt.Errorf("accounts: %w", err))
	}
	lockout := c.Lockout
	lockout.ApplyDefaults()
	if err := lockout.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("lockout: %w", err))
	}
	for name, ttl := range map[string]time.Duration{
		"CACHE_TTL_SERVICES":      c.CacheTTL.Services,
		"CACHE_TTL_CONTACTS":      c.CacheTTL.Contacts,
		"CACHE_TTL_AUTHORITIES":   c.CacheTTL.Authorities,
		"CACHE_TTL_SETTINGS":      c.CacheTTL.Settings,
		"CACHE_TTL_FEATURED_NEWS": c.CacheTTL.FeaturedNews,
	} {
		if err := envconfig.ValidateDurationRange(name, ttl, 0, maxTTL); err != nil {
			errs = append(errs, err)
		}
	}
	if c.WarmerEnabled {
		if _, err := cron.ParseStandard(c.WarmerSchedule); err != nil {
			errs = append(errs, fmt.Errorf("WARMER_SCHEDULE %q: %w", c.WarmerSchedule, err))
		}
		if c.WarmerRate <= 0 {
			errs = append(errs, fmt.Errorf("warmer rate must be positive, got %v", c.WarmerRate))
		}
	}
	if err := envconfig.ValidatePositiveDuration("HTTP_SHUTDOWN_TIMEOUT", c.ShutdownTimeout); err != nil {
		errs = append(errs, err)
	}
	if c.MaxBodyBytes <= 0 {
		errs = append(errs, fmt.Errorf("HTTP_MAX_BODY_BYTES must be positive, got %d", c.MaxBodyBytes))
	}
	return errors.Join(errs...)
}

func (c *PortalConfig) dropInvalidViewers() {
	kept := c.Accounts[:0]
	for _, a := range c.Accounts {
		if a.Role == auth.RoleViewer {
			if err := auth.CheckPasswordStrength(a.Password); err != nil {
				c.Warnings = append(c.Warnings, fmt.Sprintf("viewer %s disabled: %v", a.Email, err))
				continue
			}
		}
		kept = append(kept, a)
	}
	c.Accounts = kept
}

// LogWarnings writes every collected warning to logger.
func (c *PortalConfig) LogWarnings(logger *slog.Logger) {
	for _, w := range c.Warnings {
		logger.Warn("configuration warning", slog.String("detail", w))
	}
}
