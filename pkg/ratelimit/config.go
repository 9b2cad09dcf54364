package ratelimit

import (
	"errors"
	"fmt"
	"time"
)

// Default lockout settings, matching the login form behaviour.
const (
	DefaultMaxAttempts  = 5
	DefaultCooldown     = 60 * time.Second
	DefaultTickInterval = time.Second
	DefaultMaxKeys      = 10000
)

// LockoutConfig configures a Lockout.
type LockoutConfig struct {
	// MaxAttempts is the number of consecutive failures that locks a key.
	// Default: 5
	MaxAttempts int

	// Cooldown is how long a key stays locked. It is counted down in whole seconds.
	// Default: 60s
	Cooldown time.Duration

	// TickInterval is how often Run decrements the countdowns by one second.
	// Default: 1s
	TickInterval time.Duration

	// MaxKeys bounds memory; the least recently seen unlocked key is evicted first.
	// Default: 10000
	MaxKeys int

	// Clock provides time abstraction for testing.
	// Default: SystemClock
	Clock Clock

	// Metrics receives lockout events.
	// Default: NoOpMetrics
	Metrics LockoutMetrics
}

// ApplyDefaults fills zero fields with defaults.
func (c *LockoutConfig) ApplyDefaults() {
	if c.MaxAttempts == 0 {
		c.MaxAttempts = DefaultMaxAttempts
	}
	if c.Cooldown == 0 {
		c.Cooldown = DefaultCooldown
	}
	if c.TickInterval == 0 {
		c.TickInterval = DefaultTickInterval
	}
	if c.MaxKeys == 0 {
		c.MaxKeys = DefaultMaxKeys
	}
	if c.Clock == nil {
		c.Clock = &SystemClock{}
	}
	if c.Metrics == nil {
		c.Metrics = NewNoOpMetrics()
	}
}

// Validate checks the configuration after defaults are applied.
//
// Returns:
//   - error: every problem found, joined; nil when valid
func (c *LockoutConfig) Validate() error {
	var errs []error
	if c.MaxAttempts < 1 {
		errs = append(errs, fmt.Errorf("max attempts must be at least 1, got %d", c.MaxAttempts))
	}
	if c.Cooldown < time.Second {
		errs = append(errs, fmt.Errorf("cooldown must be at least 1s, got %s", c.Cooldown))
	}
	if c.TickInterval <= 0 {
		errs = append(errs, fmt.Errorf("tick interval must be positive, got %s", c.TickInterval))
	}
	if c.MaxKeys < 1 {
		errs = append(errs, fmt.Errorf("max keys must be at least 1, got %d", c.MaxKeys))
	}
	return errors.Join(errs...)
}

// cooldownSeconds is the countdown start value.
func (c *LockoutConfig) cooldownSeconds() int {
	s := int(c.Cooldown / time.Second)
	if c.Cooldown%time.Second != 0 {
		s++
	}
	return s
}
