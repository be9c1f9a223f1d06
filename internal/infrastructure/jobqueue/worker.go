// Package jobqueue runs the durable recomputation queue: it claims due
// jobs from the repository and dispatches them to their handlers on a
// bounded worker pool.
package jobqueue

import (
	"context"
	"math"
	"sync"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/panjf2000/ants/v2"
	"github.com/valyala/bytebufferpool"

	"github.com/bagaspr/matchday/internal/domain/job"
	"github.com/bagaspr/matchday/internal/platform/logging"
	"github.com/bagaspr/matchday/internal/platform/resilience"
)

// Handler processes one claimed job. An error schedules a retry.
type Handler interface {
	Handle(ctx context.Context, item job.Job) error
}

type WorkerConfig struct {
	// PollInterval is how often the worker looks for due jobs.
	PollInterval time.Duration
	// BatchSize caps jobs claimed per poll.
	BatchSize int
	// Concurrency sizes the dispatch pool.
	Concurrency int
	// BaseBackoff and MaxBackoff bound the exponential retry delay.
	BaseBackoff time.Duration
	MaxBackoff  time.Duration

	CircuitBreaker resilience.CircuitBreakerConfig
}

func normalizeWorkerConfig(cfg WorkerConfig) WorkerConfig {
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = 2 * time.Second
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 10
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 4
	}
	if cfg.BaseBackoff <= 0 {
		cfg.BaseBackoff = 5 * time.Second
	}
	if cfg.MaxBackoff <= 0 {
		cfg.MaxBackoff = 10 * time.Minute
	}
	return cfg
}

type Worker struct {
	repo    job.Repository
	handler Handler
	cfg     WorkerConfig

	breaker        *resilience.CircuitBreaker
	circuitEnabled bool

	logger *logging.Logger
	now    func() time.Time
}

func NewWorker(repo job.Repository, handler Handler, cfg WorkerConfig, logger *logging.Logger) *Worker {
	cfg = normalizeWorkerConfig(cfg)
	if logger == nil {
		logger = logging.Default()
	}
	breakerCfg := resilience.NormalizeCircuitBreakerConfig(cfg.CircuitBreaker)

	return &Worker{
		repo:           repo,
		handler:        handler,
		cfg:            cfg,
		breaker:        resilience.NewCircuitBreaker(breakerCfg.FailureThreshold, breakerCfg.OpenTimeout, breakerCfg.HalfOpenMaxReq),
		circuitEnabled: breakerCfg.Enabled,
		logger:         logger,
		now:            time.Now,
	}
}

// Run polls until ctx is cancelled. Intended to be started on its own
// goroutine by the caller.
func (w *Worker) Run(ctx context.Context) error {
	pool, err := ants.NewPool(w.cfg.Concurrency)
	if err != nil {
		return crerr.Wrap(err, "create job worker pool")
	}
	defer pool.Release()

	ticker := time.NewTicker(w.cfg.PollInterval)
	defer ticker.Stop()

	w.logger.Info("job worker started",
		"poll_interval", w.cfg.PollInterval,
		"batch_size", w.cfg.BatchSize,
		"concurrency", w.cfg.Concurrency,
	)
	for {
		select {
		case <-ticker.C:
			if err := w.Poll(ctx, pool); err != nil {
				w.logger.ErrorContext(ctx, "job poll failed", "error", err)
			}
		case <-ctx.Done():
			w.logger.Info("job worker stopped")
			return nil
		}
	}
}

// Poll claims one batch of due jobs and dispatches them on the pool,
// blocking until the batch settles so one slow batch cannot pile claims
// on top of itself.
func (w *Worker) Poll(ctx context.Context, pool *ants.Pool) error {
	claimed, err := w.repo.ClaimDue(ctx, w.now().UTC(), w.cfg.BatchSize)
	if err != nil {
		return crerr.Wrap(err, "claim due jobs")
	}
	if len(claimed) == 0 {
		return nil
	}

	var workers sync.WaitGroup
	for _, item := range claimed {
		item := item
		workers.Add(1)
		if err := pool.Submit(func() {
			defer workers.Done()
			w.process(ctx, item)
		}); err != nil {
			workers.Done()
			// Pool rejected the task; put the job back untouched.
			if releaseErr := w.repo.Release(ctx, item.ID); releaseErr != nil {
				w.logger.ErrorContext(ctx, "release job after pool rejection failed",
					"job_id", item.ID,
					"error", releaseErr,
				)
			}
		}
	}
	workers.Wait()
	return nil
}

func (w *Worker) process(ctx context.Context, item job.Job) {
	if !item.Kind.Valid() {
		// Retrying can never fix an unknown kind; dead-letter it for
		// inspection without burning attempts.
		w.logger.WarnContext(ctx, "unknown job kind, dead-lettering",
			"job_id", item.ID,
			"kind", string(item.Kind),
		)
		if err := w.repo.MarkFailed(ctx, item.ID, "unknown job kind "+string(item.Kind), time.Time{}, true); err != nil {
			w.logger.ErrorContext(ctx, "dead-letter unknown job failed", "job_id", item.ID, "error", err)
		}
		return
	}

	if w.circuitEnabled {
		if err := w.breaker.Allow(); err != nil {
			w.logger.WarnContext(ctx, "job handler circuit open, releasing job",
				"job_id", item.ID,
				"state", w.breaker.State(),
			)
			if releaseErr := w.repo.Release(ctx, item.ID); releaseErr != nil {
				w.logger.ErrorContext(ctx, "release job failed", "job_id", item.ID, "error", releaseErr)
			}
			return
		}
	}

	start := time.Now()
	err := w.handler.Handle(ctx, item)
	w.recordCircuitResult(err)
	if err == nil {
		if markErr := w.repo.MarkDone(ctx, item.ID); markErr != nil {
			w.logger.ErrorContext(ctx, "mark job done failed", "job_id", item.ID, "error", markErr)
			return
		}
		w.logger.InfoContext(ctx, "job completed",
			"job_id", item.ID,
			"kind", string(item.Kind),
			"ref_id", item.RefID(),
			"attempt", item.Attempts,
			"elapsed", time.Since(start),
		)
		return
	}

	dead := item.Attempts >= item.MaxAttempts
	retryAt := w.now().UTC().Add(w.backoff(item.Attempts))
	if markErr := w.repo.MarkFailed(ctx, item.ID, err.Error(), retryAt, dead); markErr != nil {
		w.logger.ErrorContext(ctx, "mark job failed errored", "job_id", item.ID, "error", markErr)
		return
	}

	w.logger.WarnContext(ctx, "job attempt failed",
		"job_id", item.ID,
		"kind", string(item.Kind),
		"payload", payloadPreview(item.Payload),
		"attempt", item.Attempts,
		"max_attempts", item.MaxAttempts,
		"dead", dead,
		"retry_at", retryAt,
		"error", err,
	)
}

// backoff doubles per attempt from the base, capped at MaxBackoff.
func (w *Worker) backoff(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	multiplier := math.Pow(2, float64(attempt-1))
	delay := time.Duration(float64(w.cfg.BaseBackoff) * multiplier)
	if delay > w.cfg.MaxBackoff || delay <= 0 {
		delay = w.cfg.MaxBackoff
	}
	return delay
}

func (w *Worker) recordCircuitResult(err error) {
	if !w.circuitEnabled || w.breaker == nil {
		return
	}
	if err == nil {
		w.breaker.RecordSuccess()
		return
	}
	w.breaker.RecordFailure()
}

func payloadPreview(payload map[string]any) string {
	if len(payload) == 0 {
		return "{}"
	}

	raw, err := sonic.Marshal(payload)
	if err != nil {
		return "{}"
	}

	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	const maxPreview = 512
	if len(raw) > maxPreview {
		_, _ = buf.Write(raw[:maxPreview])
		_, _ = buf.WriteString("...(truncated)")
	} else {
		_, _ = buf.Write(raw)
	}
	return buf.String()
}
