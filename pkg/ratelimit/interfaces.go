// Package ratelimit provides the portal's attempt-gating utilities: a login lockout
// that counts consecutive failures per key, a sliding-window request limiter for
// the public read endpoints, and a generic debouncer.
//
// All are framework-agnostic; the HTTP layer and the content search box use them.
package ratelimit

import "time"

// Clock provides time abstraction for testing.
type Clock interface {
	// Now returns the current time.
	Now() time.Time
}

// SystemClock implements Clock using the system time.
type SystemClock struct{}

// Now returns the current system time.
func (c *SystemClock) Now() time.Time {
	return time.Now()
}

// LockoutMetrics receives lockout events.
//
// Implementations must be safe for concurrent use. Use NewNoOpMetrics when metrics
// are not wanted.
type LockoutMetrics interface {
	// RecordFailure counts a failed attempt.
	RecordFailure()

	// RecordLocked counts a key entering the locked state.
	RecordLocked()

	// RecordRejected counts an attempt refused locally because the key is locked.
	RecordRejected()

	// RecordReset counts a successful attempt clearing a key.
	RecordReset()

	// SetLockedKeys publishes how many keys are currently locked.
	SetLockedKeys(n int)
}
