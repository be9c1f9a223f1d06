package job

import (
	"context"
	"time"
)

// Repository is the durable queue store. Enqueue must return immediately;
// delivery is the worker's concern.
type Repository interface {
	// Enqueue inserts a queued job. A queued row with the same dedup key is
	// left in place and no new row is written.
	Enqueue(ctx context.Context, item Job) error
	// ClaimDue atomically moves up to limit due queued jobs (next_run_at <=
	// now, oldest first) into running state and returns them. Concurrent
	// claimers must never receive the same job.
	ClaimDue(ctx context.Context, now time.Time, limit int) ([]Job, error)
	// MarkDone finishes a running job.
	MarkDone(ctx context.Context, jobID string) error
	// MarkFailed requeues a running job for retryAt, recording the error, or
	// moves it to dead when its attempts are exhausted.
	MarkFailed(ctx context.Context, jobID string, jobErr string, retryAt time.Time, dead bool) error
	// Release puts a running job back in the queue without consuming an
	// attempt (e.g. the worker's breaker was open).
	Release(ctx context.Context, jobID string) error
	ListByStatus(ctx context.Context, status Status) ([]Job, error)
}
