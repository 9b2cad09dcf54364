// Package pagination provides page/limit parsing and page metadata for
// list endpoints.
package pagination

import "municipal-portal/pkg/config"

// Config holds pagination configuration settings.
type Config struct {
	DefaultPage  int // Default page number (typically 1)
	DefaultLimit int // Default items per page (9 on the public grids)
	MaxLimit     int // Maximum allowed items per page
}

// DefaultConfig returns the default pagination configuration.
// Default values: page=1, limit=9, max=100
func DefaultConfig() Config {
	return Config{
		DefaultPage:  1,
		DefaultLimit: 9,
		MaxLimit:     100,
	}
}

// LoadFromEnv loads pagination config from environment variables.
// Supported environment variables:
//   - PAGINATION_DEFAULT_PAGE
//   - PAGINATION_DEFAULT_LIMIT
//   - PAGINATION_MAX_LIMIT
//
// Unset or unparsable values fall back to DefaultConfig().
func LoadFromEnv(env *config.Env) Config {
	def := DefaultConfig()
	cfg := Config{
		DefaultPage:  env.Int("PAGINATION_DEFAULT_PAGE", def.DefaultPage),
		DefaultLimit: env.Int("PAGINATION_DEFAULT_LIMIT", def.DefaultLimit),
		MaxLimit:     env.Int("PAGINATION_MAX_LIMIT", def.MaxLimit),
	}
	if cfg.DefaultPage < 1 {
		cfg.DefaultPage = def.DefaultPage
	}
	if cfg.MaxLimit < 1 {
		cfg.MaxLimit = def.MaxLimit
	}
	if cfg.DefaultLimit < 1 || cfg.DefaultLimit > cfg.MaxLimit {
		cfg.DefaultLimit = min(def.DefaultLimit, cfg.MaxLimit)
	}
	return cfg
}
