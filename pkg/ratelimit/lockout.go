package ratelimit

import (
	"context"
	"sync"
	"time"
)

type lockState struct {
	failures  int
	pending   int // attempts handed out by Acquire and not yet settled
	remaining int // seconds left on the countdown, 0 when unlocked
	lastSeen  time.Time
}

// Lockout counts consecutive failed attempts per key (client IP, email, ...).
//
// After MaxAttempts failures the key is locked for Cooldown. While locked, Allow
// refuses attempts so they never reach the backend. The countdown is decremented
// one second per Tick. When it reaches zero the lock lifts but the failure count
// stays: only Reset, called after a successful attempt, clears it. A failure after
// the lock lifted therefore locks the key again straight away.
//
// Acquire reserves an attempt so that concurrent attempts for one key never
// exceed MaxAttempts: every reservation must be settled by RecordFailure, Reset
// or Release.
//
// Lockout is safe for concurrent use.
type Lockout struct {
	cfg LockoutConfig

	mu    sync.Mutex
	state map[string]*lockState
}

// NewLockout creates a lockout after applying defaults and validating cfg.
//
// Returns:
//   - *Lockout: ready for use; call Run to drive the countdown
//   - error: configuration problems
func NewLockout(cfg LockoutConfig) (*Lockout, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Lockout{cfg: cfg, state: make(map[string]*lockState)}, nil
}

// Allow reports whether an attempt for key may proceed. It does not count anything.
func (l *Lockout) Allow(key string) Decision {
	l.mu.Lock()
	defer l.mu.Unlock()
	d := l.decision(key)
	if !d.Allowed {
		l.cfg.Metrics.RecordRejected()
	}
	return d
}

// Acquire reserves an attempt for key. It refuses while the key is locked and
// while the attempts already in flight use up what is left before the lock.
// Once a lock has lifted one attempt at a time is let through.
func (l *Lockout) Acquire(key string) Decision {
	l.mu.Lock()
	defer l.mu.Unlock()

	d := l.decision(key)
	st, ok := l.state[key]
	if d.Allowed && ok && st.pending >= max(l.cfg.MaxAttempts-st.failures, 1) {
		d.Allowed = false
	}
	if !d.Allowed {
		l.cfg.Metrics.RecordRejected()
		return d
	}
	if !ok {
		l.evictIfFull()
		st = &lockState{}
		l.state[key] = st
	}
	st.pending++
	st.lastSeen = l.cfg.Clock.Now()
	return l.decision(key)
}

// Release settles an attempt reserved by Acquire that neither failed nor
// succeeded, e.g. because the backend errored.
func (l *Lockout) Release(key string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if st, ok := l.state[key]; ok && st.pending > 0 {
		st.pending--
	}
}

// Status returns the current decision for key without recording a rejection.
func (l *Lockout) Status(key string) Decision {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.decision(key)
}

// RecordFailure counts a failed attempt and locks the key on reaching MaxAttempts.
func (l *Lockout) RecordFailure(key string) Decision {
	l.mu.Lock()
	defer l.mu.Unlock()

	st, ok := l.state[key]
	if !ok {
		l.evictIfFull()
		st = &lockState{}
		l.state[key] = st
	}
	st.lastSeen = l.cfg.Clock.Now()
	if st.pending > 0 {
		st.pending--
	}
	l.cfg.Metrics.RecordFailure()

	if st.remaining > 0 {
		return l.decision(key)
	}
	st.failures++
	if st.failures >= l.cfg.MaxAttempts {
		st.remaining = l.cfg.cooldownSeconds()
		l.cfg.Metrics.RecordLocked()
		l.cfg.Metrics.SetLockedKeys(l.lockedCount())
	}
	return l.decision(key)
}

// Reset clears the failure count and any lock of key.
func (l *Lockout) Reset(key string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.state[key]; !ok {
		return
	}
	delete(l.state, key)
	l.cfg.Metrics.RecordReset()
	l.cfg.Metrics.SetLockedKeys(l.lockedCount())
}

// Tick decrements every running countdown by one second.
func (l *Lockout) Tick() {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, st := range l.state {
		if st.remaining > 0 {
			st.remaining--
		}
	}
	l.cfg.Metrics.SetLockedKeys(l.lockedCount())
}

// Run calls Tick every TickInterval until ctx is done.
func (l *Lockout) Run(ctx context.Context) {
	ticker := time.NewTicker(l.cfg.TickInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			l.Tick()
		}
	}
}

// Len returns the number of tracked keys.
func (l *Lockout) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.state)
}

func (l *Lockout) decision(key string) Decision {
	st, ok := l.state[key]
	if !ok {
		return Decision{Key: key, Allowed: true, AttemptsLeft: l.cfg.MaxAttempts}
	}
	left := l.cfg.MaxAttempts - st.failures - st.pending
	if left < 0 {
		left = 0
	}
	locked := st.remaining > 0
	return Decision{
		Key:              key,
		Allowed:          !locked,
		Locked:           locked,
		RemainingSeconds: st.remaining,
		AttemptsLeft:     left,
	}
}

func (l *Lockout) lockedCount() int {
	n := 0
	for _, st := range l.state {
		if st.remaining > 0 {
			n++
		}
	}
	return n
}

// evictIfFull drops the least recently seen idle key when at capacity. Locked
// keys and keys with attempts in flight are never evicted, so a flood of new
// keys cannot lift a lock.
func (l *Lockout) evictIfFull() {
	if len(l.state) < l.cfg.MaxKeys {
		return
	}
	var oldestKey string
	var oldest time.Time
	for k, st := range l.state {
		if st.remaining > 0 || st.pending > 0 {
			continue
		}
		if oldestKey == "" || st.lastSeen.Before(oldest) {
			oldestKey, oldest = k, st.lastSeen
		}
	}
	if oldestKey != "" {
		delete(l.state, oldestKey)
	}
}
