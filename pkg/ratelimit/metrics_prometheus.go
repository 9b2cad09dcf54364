package ratelimit

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// PrometheusMetrics implements LockoutMetrics with Prometheus collectors.
//
// Metrics:
//   - login_lockout_failures_total: failed attempts
//   - login_lockout_locks_total: keys that entered the locked state
//   - login_lockout_rejected_total: attempts refused while locked
//   - login_lockout_resets_total: successful attempts
//   - login_lockout_locked_keys: keys currently locked
type PrometheusMetrics struct {
	failures prometheus.Counter
	locks    prometheus.Counter
	rejected prometheus.Counter
	resets   prometheus.Counter
	locked   prometheus.Gauge
}

// NewPrometheusMetrics registers the lockout collectors with reg.
//
// Parameters:
//   - reg: registry to register with; prometheus.DefaultRegisterer in production,
//     a fresh prometheus.NewRegistry() in tests
//
// Returns:
//   - *PrometheusMetrics: ready to pass as LockoutConfig.Metrics
func NewPrometheusMetrics(reg prometheus.Registerer) *PrometheusMetrics {
	f := promauto.With(reg)
	return &PrometheusMetrics{
		failures: f.NewCounter(prometheus.CounterOpts{
			Name: "login_lockout_failures_total",
			Help: "Total number of failed login attempts",
		}),
		locks: f.NewCounter(prometheus.CounterOpts{
			Name: "login_lockout_locks_total",
			Help: "Total number of keys locked after repeated failures",
		}),
		rejected: f.NewCounter(prometheus.CounterOpts{
			Name: "login_lockout_rejected_total",
			Help: "Total number of attempts rejected locally while locked",
		}),
		resets: f.NewCounter(prometheus.CounterOpts{
			Name: "login_lockout_resets_total",
			Help: "Total number of successful attempts clearing a key",
		}),
		locked: f.NewGauge(prometheus.GaugeOpts{
			Name: "login_lockout_locked_keys",
			Help: "Number of keys currently locked",
		}),
	}
}

func (m *PrometheusMetrics) RecordFailure()      { m.failures.Inc() }
func (m *PrometheusMetrics) RecordLocked()       { m.locks.Inc() }
func (m *PrometheusMetrics) RecordRejected()     { m.rejected.Inc() }
func (m *PrometheusMetrics) RecordReset()        { m.resets.Inc() }
func (m *PrometheusMetrics) SetLockedKeys(n int) { m.locked.Set(float64(n)) }
