package config

import "time"

// Cache TTLs of the TTL-governed slices.
const (
	TTLServices     = 5 * time.Minute
	TTLContacts     = 10 * time.Minute
	TTLAuthorities  = 10 * time.Minute
	TTLSettings     = 30 * time.Minute
	TTLFeaturedNews = 2 * time.Minute

	maxTTL = 24 * time.Hour
)

// CacheTTL holds the effective cache lifetimes. A zero value always refetches.
type CacheTTL struct {
	Services     time.Duration
	Contacts     time.Duration
	Authorities  time.Duration
	Settings     time.Duration
	FeaturedNews time.Duration
}

// DefaultCacheTTL returns the built-in lifetimes.
func DefaultCacheTTL() CacheTTL {
	return CacheTTL{
		Services:     TTLServices,
		Contacts:     TTLContacts,
		Authorities:  TTLAuthorities,
		Settings:     TTLSettings,
		FeaturedNews: TTLFeaturedNews,
	}
}
