// Package worker keeps the TTL-governed slices warm between requests.
//
// A Warmer owns a list of targets and, on every cron tick, asks each of them
// to refresh if its cache lifetime has run out. Targets whose data is still
// fresh do not reach the backend.
package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

// Target is a cached slice that can refresh itself once its TTL expires.
type Target struct {
	Name string
	// Ensure reports whether the backend was queried.
	Ensure func(ctx context.Context) (bool, error)
}

// TTLRefresher is implemented by the content slices and the settings slice.
type TTLRefresher interface {
	EnsureFresh(ctx context.Context, ttl time.Duration) (bool, error)
}

// TTLTarget builds a Target from an EnsureFresh-style refresher.
func TTLTarget(name string, r TTLRefresher, ttl time.Duration) Target {
	return Target{
		Name: name,
		Ensure: func(ctx context.Context) (bool, error) {
			return r.EnsureFresh(ctx, ttl)
		},
	}
}

// Config tunes a Warmer.
type Config struct {
	Schedule string
	// Rate is the number of target refreshes started per second.
	Rate float64
	// Timeout bounds one run. Zero means one minute.
	Timeout time.Duration
}

// RunStats summarises one run.
type RunStats struct {
	Targets   int
	Refreshed int
	Failed    int
	Duration  time.Duration
}

// Warmer refreshes its targets on a cron schedule.
type Warmer struct {
	targets []Target
	cfg     Config
	limiter *rate.Limiter
	metrics *WarmerMetrics
	logger  *slog.Logger
}

// NewWarmer validates the schedule and builds a Warmer. A nil metrics value
// disables metric recording.
func NewWarmer(cfg Config, targets []Target, metrics *WarmerMetrics, logger *slog.Logger) (*Warmer, error) {
	if _, err := cron.ParseStandard(cfg.Schedule); err != nil {
		return nil, fmt.Errorf("warmer schedule %q: %w", cfg.Schedule, err)
	}
	if cfg.Rate <= 0 {
		return nil, errors.New("warmer rate must be positive")
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = time.Minute
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Warmer{
		targets: targets,
		cfg:     cfg,
		limiter: rate.NewLimiter(rate.Limit(cfg.Rate), 1),
		metrics: metrics,
		logger:  logger,
	}, nil
}

// RunOnce refreshes every target concurrently, paced by the limiter. A failing
// target does not stop the others; their errors are joined.
func (w *Warmer) RunOnce(ctx context.Context) (RunStats, error) {
	start := time.Now()
	ctx, cancel := context.WithTimeout(ctx, w.cfg.Timeout)
	defer cancel()

	var (
		mu    sync.Mutex
		errs  []error
		stats = RunStats{Targets: len(w.targets)}
		eg    errgroup.Group
	)
	for _, t := range w.targets {
		eg.Go(func() error {
			if err := w.limiter.Wait(ctx); err != nil {
				mu.Lock()
				stats.Failed++
				errs = append(errs, fmt.Errorf("%s: %w", t.Name, err))
				mu.Unlock()
				return nil
			}
			refreshed, err := t.Ensure(ctx)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				stats.Failed++
				errs = append(errs, fmt.Errorf("%s: %w", t.Name, err))
				return nil
			}
			if refreshed {
				stats.Refreshed++
				if w.metrics != nil {
					w.metrics.RecordRefreshed(t.Name)
				}
			}
			return nil
		})
	}
	_ = eg.Wait()
	stats.Duration = time.Since(start)

	err := errors.Join(errs...)
	if w.metrics != nil {
		w.metrics.RecordRun(runStatus(stats), stats.Duration.Seconds())
		if err == nil {
			w.metrics.RecordLastSuccess()
		}
	}
	return stats, err
}

func runStatus(s RunStats) string {
	switch {
	case s.Failed == 0:
		return "success"
	case s.Failed < s.Targets:
		return "partial"
	default:
		return "failure"
	}
}

func (w *Warmer) run(ctx context.Context) {
	stats, err := w.RunOnce(ctx)
	attrs := []any{
		slog.Int("targets", stats.Targets),
		slog.Int("refreshed", stats.Refreshed),
		slog.Int("failed", stats.Failed),
		slog.Duration("duration", stats.Duration),
	}
	if err != nil {
		w.logger.Warn("cache warmer run finished with errors", append(attrs, slog.Any("error", err))...)
		return
	}
	w.logger.Debug("cache warmer run finished", attrs...)
}

// Start schedules the warmer and blocks until ctx is done. Overlapping runs
// are skipped.
func (w *Warmer) Start(ctx context.Context) error {
	c := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)))
	if _, err := c.AddFunc(w.cfg.Schedule, func() { w.run(ctx) }); err != nil {
		return fmt.Errorf("schedule warmer: %w", err)
	}
	c.Start()
	w.logger.Info("cache warmer started",
		slog.String("schedule", w.cfg.Schedule),
		slog.Int("targets", len(w.targets)))

	<-ctx.Done()
	<-c.Stop().Done()
	w.logger.Info("cache warmer stopped")
	return nil
}
