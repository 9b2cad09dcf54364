// Package cachegate decides whether cached content is old enough to refetch.
package cachegate

import (
	"sync"
	"time"
)

// Clock provides the current time. Tests inject a manual clock.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// Gate owns the fetch record: cache key to time of the last successful fetch.
// The zero value is not usable; call New.
type Gate struct {
	clock Clock

	mu          sync.RWMutex
	lastFetched map[string]time.Time
}

// New creates a gate. A nil clock means wall-clock time.
func New(clock Clock) *Gate {
	if clock == nil {
		clock = systemClock{}
	}
	return &Gate{clock: clock, lastFetched: make(map[string]time.Time)}
}

// ShouldFetch reports whether key must be fetched again.
//
// Data the caller does not have is always fetched, whatever the record says.
// Otherwise a fetch is due when the key was never stamped, when ttl <= 0, or when
// strictly more than ttl has elapsed since the stamp. Exactly ttl elapsed is fresh.
func (g *Gate) ShouldFetch(key string, ttl time.Duration, hasData bool) bool {
	if !hasData || ttl <= 0 {
		return true
	}
	g.mu.RLock()
	last, ok := g.lastFetched[key]
	g.mu.RUnlock()
	if !ok {
		return true
	}
	return g.clock.Now().Sub(last) > ttl
}

// Stamp records now as the last fetch time of every key.
func (g *Gate) Stamp(keys ...string) {
	now := g.clock.Now()
	g.mu.Lock()
	defer g.mu.Unlock()
	for _, k := range keys {
		g.lastFetched[k] = now
	}
}

// Invalidate forgets the given keys.
func (g *Gate) Invalidate(keys ...string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	for _, k := range keys {
		delete(g.lastFetched, k)
	}
}

// Reset forgets every key.
func (g *Gate) Reset() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.lastFetched = make(map[string]time.Time)
}

// LastFetched returns the stamp of key.
func (g *Gate) LastFetched(key string) (time.Time, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	t, ok := g.lastFetched[key]
	return t, ok
}

// Record returns a copy of the fetch record as unix milliseconds, the shape
// the presentation layer already knows.
func (g *Gate) Record() map[string]int64 {
	g.mu.RLock()
	defer g.mu.RUnlock()
	out := make(map[string]int64, len(g.lastFetched))
	for k, v := range g.lastFetched {
		out[k] = v.UnixMilli()
	}
	return out
}
