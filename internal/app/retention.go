package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/robfig/cron/v3"

	"github.com/pscheid92/moodmatch/internal/adapter/metrics"
	"github.com/pscheid92/moodmatch/internal/domain"
	"github.com/pscheid92/moodmatch/internal/platform/correlation"
)

const pruneTimeout = time.Minute

// Retention deletes history entries older than a maximum age, on demand or on
// a cron schedule.
type Retention struct {
	history domain.HistoryRepository
	maxAge  time.Duration
	clock   clockwork.Clock
	metrics *metrics.HistoryMetrics
	cron    *cron.Cron
}

// NewRetention creates a retention job. m may be nil.
func NewRetention(history domain.HistoryRepository, maxAge time.Duration, clock clockwork.Clock, m *metrics.HistoryMetrics) *Retention {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Retention{
		history: history,
		maxAge:  maxAge,
		clock:   clock,
		metrics: m,
		cron:    cron.New(),
	}
}

// Cutoff is the creation time before which entries are pruned.
func (r *Retention) Cutoff() time.Time {
	return r.clock.Now().UTC().Add(-r.maxAge)
}

// Prune deletes every entry older than the maximum age and returns how many
// were removed.
func (r *Retention) Prune(ctx context.Context) (int64, error) {
	if r.maxAge <= 0 {
		return 0, fmt.Errorf("retention: max age must be positive, got %s", r.maxAge)
	}

	start := r.clock.Now()
	cutoff := r.Cutoff()
	n, err := r.history.DeleteOlderThan(ctx, cutoff)
	if r.metrics != nil {
		r.metrics.PruneDuration.Observe(r.clock.Since(start).Seconds())
	}
	if err != nil {
		return 0, fmt.Errorf("prune history before %s: %w", cutoff.Format(time.RFC3339), err)
	}
	if r.metrics != nil {
		r.metrics.Pruned.Add(float64(n))
	}
	return n, nil
}

// Start schedules Prune with a standard five-field cron expression or a
// descriptor such as @daily.
func (r *Retention) Start(ctx context.Context, schedule string) error {
	sched, err := cron.ParseStandard(schedule)
	if err != nil {
		return fmt.Errorf("invalid prune schedule %q: %w", schedule, err)
	}

	r.cron.Schedule(sched, cron.FuncJob(func() {
		runCtx, cancel := context.WithTimeout(correlation.WithID(ctx, correlation.NewID()), pruneTimeout)
		defer cancel()

		n, err := r.Prune(runCtx)
		if err != nil {
			slog.ErrorContext(runCtx, "History prune failed", "error", err)
			return
		}
		slog.InfoContext(runCtx, "History pruned", "deleted", n, "max_age", r.maxAge.String())
	}))
	r.cron.Start()
	slog.Info("History retention scheduled", "schedule", schedule, "max_age", r.maxAge.String())
	return nil
}

// Stop halts the schedule and waits for a running prune to finish.
func (r *Retention) Stop() {
	<-r.cron.Stop().Done()
}
