package ratelimit

import (
	"container/list"
	"context"
	"errors"
	"fmt"
	"sync"
	"time"
)

// Default request-limit settings for the public read endpoints.
const (
	DefaultWindowLimit    = 120
	DefaultWindow         = time.Minute
	DefaultWindowMaxKeys  = 10000
	DefaultCleanupEvery   = time.Minute
	windowEvictionPercent = 10
)

// WindowConfig configures a WindowLimiter.
type WindowConfig struct {
	// Limit is the number of requests a key may make per Window.
	// Default: 120
	Limit int

	// Window is the length of the sliding window.
	// Default: 1m
	Window time.Duration

	// MaxKeys bounds memory; least recently used keys are evicted first.
	// Default: 10000
	MaxKeys int

	// Clock provides time abstraction for testing.
	// Default: SystemClock
	Clock Clock
}

// ApplyDefaults fills zero fields with defaults.
func (c *WindowConfig) ApplyDefaults() {
	if c.Limit == 0 {
		c.Limit = DefaultWindowLimit
	}
	if c.Window == 0 {
		c.Window = DefaultWindow
	}
	if c.MaxKeys == 0 {
		c.MaxKeys = DefaultWindowMaxKeys
	}
	if c.Clock == nil {
		c.Clock = &SystemClock{}
	}
}

// Validate checks the configuration after defaults are applied.
func (c *WindowConfig) Validate() error {
	var errs []error
	if c.Limit < 1 {
		errs = append(errs, fmt.Errorf("limit must be at least 1, got %d", c.Limit))
	}
	if c.Window < time.Second {
		errs = append(errs, fmt.Errorf("window must be at least 1s, got %s", c.Window))
	}
	if c.MaxKeys < 1 {
		errs = append(errs, fmt.Errorf("max keys must be at least 1, got %d", c.MaxKeys))
	}
	return errors.Join(errs...)
}

// WindowDecision is the outcome of one request against a WindowLimiter.
type WindowDecision struct {
	Allowed    bool
	Limit      int
	Remaining  int
	ResetAt    time.Time
	RetryAfter time.Duration // zero when allowed
}

type windowEntry struct {
	key        string
	timestamps []time.Time // ascending
	lastSeen   time.Time
}

// WindowLimiter is a sliding-window request limiter keyed by client (usually
// the client IP). Counting and recording a request happen under one lock, so
// concurrent requests cannot slip past the limit.
//
// The clock never runs backwards for a key: if it does, the last seen time is
// used instead, so a clock adjustment cannot reopen a full window.
type WindowLimiter struct {
	cfg WindowConfig

	mu      sync.Mutex
	entries map[string]*list.Element
	lru     *list.List // front is most recently used
}

// NewWindowLimiter creates a limiter after applying defaults and validating cfg.
func NewWindowLimiter(cfg WindowConfig) (*WindowLimiter, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &WindowLimiter{
		cfg:     cfg,
		entries: make(map[string]*list.Element),
		lru:     list.New(),
	}, nil
}

// Allow records a request for key if it fits in the window.
func (w *WindowLimiter) Allow(key string) WindowDecision {
	w.mu.Lock()
	defer w.mu.Unlock()

	e := w.entry(key)
	now := w.cfg.Clock.Now()
	if now.Before(e.lastSeen) {
		now = e.lastSeen
	}
	e.lastSeen = now
	e.timestamps = trimBefore(e.timestamps, now.Add(-w.cfg.Window))

	if len(e.timestamps) >= w.cfg.Limit {
		resetAt := e.timestamps[0].Add(w.cfg.Window)
		return WindowDecision{
			Limit:      w.cfg.Limit,
			ResetAt:    resetAt,
			RetryAfter: resetAt.Sub(now),
		}
	}
	e.timestamps = append(e.timestamps, now)
	return WindowDecision{
		Allowed:   true,
		Limit:     w.cfg.Limit,
		Remaining: w.cfg.Limit - len(e.timestamps),
		ResetAt:   e.timestamps[0].Add(w.cfg.Window),
	}
}

// Cleanup forgets keys with no request inside the window and returns how many
// were removed.
func (w *WindowLimiter) Cleanup() int {
	w.mu.Lock()
	defer w.mu.Unlock()

	cutoff := w.cfg.Clock.Now().Add(-w.cfg.Window)
	removed := 0
	for key, el := range w.entries {
		e := el.Value.(*windowEntry)
		e.timestamps = trimBefore(e.timestamps, cutoff)
		if len(e.timestamps) == 0 {
			w.lru.Remove(el)
			delete(w.entries, key)
			removed++
		}
	}
	return removed
}

// Run calls Cleanup every interval until ctx is done.
func (w *WindowLimiter) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = DefaultCleanupEvery
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.Cleanup()
		}
	}
}

// Window returns the configured window length.
func (w *WindowLimiter) Window() time.Duration { return w.cfg.Window }

// Len returns the number of tracked keys.
func (w *WindowLimiter) Len() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.entries)
}

// entry returns the state of key, creating it and evicting when full.
func (w *WindowLimiter) entry(key string) *windowEntry {
	if el, ok := w.entries[key]; ok {
		w.lru.MoveToFront(el)
		return el.Value.(*windowEntry)
	}
	if len(w.entries) >= w.cfg.MaxKeys {
		w.evict()
	}
	e := &windowEntry{key: key}
	w.entries[key] = w.lru.PushFront(e)
	return e
}

// evict drops a tenth of the keys, least recently used first.
func (w *WindowLimiter) evict() {
	n := max(w.cfg.MaxKeys*windowEvictionPercent/100, 1)
	for i := 0; i < n; i++ {
		el := w.lru.Back()
		if el == nil {
			return
		}
		w.lru.Remove(el)
		delete(w.entries, el.Value.(*windowEntry).key)
	}
}

// trimBefore drops the timestamps at or before cutoff.
func trimBefore(ts []time.Time, cutoff time.Time) []time.Time {
	i := 0
	for i < len(ts) && !ts[i].After(cutoff) {
		i++
	}
	if i == 0 {
		return ts
	}
	return append(ts[:0], ts[i:]...)
}
