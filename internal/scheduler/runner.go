// Package scheduler drives the periodic background work: the kickoff
// auto-starter and the match clock. Each Runner owns one ticker loop.
package scheduler

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/bagaspr/matchday/internal/platform/logging"
)

// Task is one unit of periodic work. Implementations must be safe to call
// repeatedly and should do their own per-item error handling.
type Task func(ctx context.Context) error

// Runner fires a named task on a fixed interval. A firing that lands while
// the previous one is still running is skipped, not queued: a slow tick
// must never stack a second tick on top of itself.
type Runner struct {
	name     string
	interval time.Duration
	task     Task
	logger   *logging.Logger
	inFlight atomic.Bool
	skipped  atomic.Int64
}

func NewRunner(name string, interval time.Duration, task Task, logger *logging.Logger) *Runner {
	if logger == nil {
		logger = logging.Default()
	}
	return &Runner{
		name:     name,
		interval: interval,
		task:     task,
		logger:   logger,
	}
}

// Run blocks until ctx is cancelled. Intended to be started on its own
// goroutine by the caller.
func (r *Runner) Run(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	r.logger.Info("runner started", "runner", r.name, "interval", r.interval)
	for {
		select {
		case <-ticker.C:
			r.fire(ctx)
		case <-ctx.Done():
			r.logger.Info("runner stopped", "runner", r.name)
			return
		}
	}
}

// fire runs one task invocation unless the previous one is still going.
func (r *Runner) fire(ctx context.Context) {
	if !r.inFlight.CompareAndSwap(false, true) {
		r.skipped.Add(1)
		r.logger.Warn("runner firing skipped, previous run still in flight",
			"runner", r.name,
		)
		return
	}
	defer r.inFlight.Store(false)

	start := time.Now()
	if err := r.task(ctx); err != nil {
		r.logger.ErrorContext(ctx, "runner task failed",
			"runner", r.name,
			"elapsed", time.Since(start),
			"error", err,
		)
		return
	}
	r.logger.Debug("runner task completed",
		"runner", r.name,
		"elapsed", time.Since(start),
	)
}

// SkippedFirings reports how many firings were dropped because a previous
// run was still in flight. Exposed for tests and health reporting.
func (r *Runner) SkippedFirings() int64 {
	return r.skipped.Load()
}

func (r *Runner) Name() string {
	return r.name
}
