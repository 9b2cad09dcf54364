package ratelimit

// NoOpMetrics discards every event.
type NoOpMetrics struct{}

// NewNoOpMetrics returns a LockoutMetrics that records nothing.
func NewNoOpMetrics() *NoOpMetrics { return &NoOpMetrics{} }

func (*NoOpMetrics) RecordFailure()   {}
func (*NoOpMetrics) RecordLocked()    {}
func (*NoOpMetrics) RecordRejected()  {}
func (*NoOpMetrics) RecordReset()     {}
func (*NoOpMetrics) SetLockedKeys(int) {}
