package worker

import (
	"github.com/prometheus/client_golang/prometheus"
)

// WarmerMetrics tracks the cache warmer runs.
//
//   - portal_warmer_runs_total: runs by status (success/partial/failure)
//   - portal_warmer_run_duration_seconds: run duration
//   - portal_warmer_refreshed_total: targets that actually hit the backend, by target
//   - portal_warmer_last_success_timestamp: Unix time of the last run without errors
type WarmerMetrics struct {
	RunsTotal            *prometheus.CounterVec
	RunDurationSeconds   prometheus.Histogram
	RefreshedTotal       *prometheus.CounterVec
	LastSuccessTimestamp prometheus.Gauge
}

// NewWarmerMetrics creates the collectors and registers them with reg.
// A nil reg leaves them unregistered.
func NewWarmerMetrics(reg prometheus.Registerer) *WarmerMetrics {
	m := &WarmerMetrics{
		RunsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "portal_warmer_runs_total",
			Help: "Total number of cache warmer runs by status",
		}, []string{"status"}),
		RunDurationSeconds: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "portal_warmer_run_duration_seconds",
			Help:    "Duration of cache warmer runs in seconds",
			Buckets: []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 30},
		}),
		RefreshedTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "portal_warmer_refreshed_total",
			Help: "Number of warmer targets refreshed from the backend",
		}, []string{"target"}),
		LastSuccessTimestamp: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "portal_warmer_last_success_timestamp",
			Help: "Unix timestamp of the last cache warmer run without errors",
		}),
	}
	if reg != nil {
		reg.MustRegister(m.RunsTotal, m.RunDurationSeconds, m.RefreshedTotal, m.LastSuccessTimestamp)
	}
	return m
}

// RecordRun counts a finished run.
func (m *WarmerMetrics) RecordRun(status string, seconds float64) {
	m.RunsTotal.WithLabelValues(status).Inc()
	m.RunDurationSeconds.Observe(seconds)
}

// RecordRefreshed counts a target whose data was refetched.
func (m *WarmerMetrics) RecordRefreshed(target string) {
	m.RefreshedTotal.WithLabelValues(target).Inc()
}

// RecordLastSuccess stamps the current time.
func (m *WarmerMetrics) RecordLastSuccess() {
	m.LastSuccessTimestamp.SetToCurrentTime()
}
