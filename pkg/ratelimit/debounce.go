package ratelimit

import (
	"sync"
	"time"
)

// Debouncer delivers the last pushed value once no new value arrived for delay.
//
// Every Push restarts the delay. Intermediate values are never delivered and each
// settled value is delivered exactly once, on a timer goroutine.
type Debouncer[T any] struct {
	delay time.Duration
	fn    func(T)

	mu      sync.Mutex
	timer   *time.Timer
	pending T
	has     bool
	gen     uint64
	stopped bool
}

// NewDebouncer creates a debouncer calling fn with settled values.
func NewDebouncer[T any](delay time.Duration, fn func(T)) *Debouncer[T] {
	return &Debouncer[T]{delay: delay, fn: fn}
}

// Push records v and restarts the delay.
func (d *Debouncer[T]) Push(v T) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stopped {
		return
	}
	d.pending, d.has = v, true
	d.gen++
	gen := d.gen
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.delay, func() { d.fire(gen) })
}

// fire delivers the pending value if no Push happened after generation gen.
// A timer that could not be stopped in time finds a newer generation and exits.
func (d *Debouncer[T]) fire(gen uint64) {
	d.mu.Lock()
	if gen != d.gen || !d.has || d.stopped {
		d.mu.Unlock()
		return
	}
	v := d.pending
	d.has = false
	d.mu.Unlock()
	d.fn(v)
}

// Flush delivers the pending value now, if any, on the calling goroutine.
func (d *Debouncer[T]) Flush() {
	d.mu.Lock()
	if !d.has || d.stopped {
		d.mu.Unlock()
		return
	}
	if d.timer != nil {
		d.timer.Stop()
	}
	d.gen++
	v := d.pending
	d.has = false
	d.mu.Unlock()
	d.fn(v)
}

// Stop drops any pending value and ignores later pushes.
func (d *Debouncer[T]) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stopped = true
	d.has = false
	if d.timer != nil {
		d.timer.Stop()
	}
}
