package jobqueue

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/panjf2000/ants/v2"

	"github.com/bagaspr/matchday/internal/domain/job"
	"github.com/bagaspr/matchday/internal/infrastructure/repository/memory"
	"github.com/bagaspr/matchday/internal/platform/logging"
)

type handlerFunc func(ctx context.Context, item job.Job) error

func (f handlerFunc) Handle(ctx context.Context, item job.Job) error { return f(ctx, item) }

func queuedJob(id string, maxAttempts int) job.Job {
	now := time.Now().UTC().Add(-time.Second)
	return job.Job{
		ID:          id,
		Kind:        job.KindRecomputeStandings,
		DedupKey:    "standings:" + id,
		Payload:     map[string]any{"season_id": "season-2025"},
		Status:      job.StatusQueued,
		MaxAttempts: maxAttempts,
		NextRunAt:   now,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

func TestWorker_Poll_CompletesJob(t *testing.T) {
	t.Parallel()

	repo := memory.NewJobRepository()
	ctx := context.Background()
	if err := repo.Enqueue(ctx, queuedJob("j1", 3)); err != nil {
		t.Fatalf("Enqueue error: %v", err)
	}

	var handled []string
	worker := NewWorker(repo, handlerFunc(func(_ context.Context, item job.Job) error {
		handled = append(handled, item.ID)
		return nil
	}), WorkerConfig{Concurrency: 1}, logging.NewNop())

	pool, err := ants.NewPool(1)
	if err != nil {
		t.Fatalf("NewPool error: %v", err)
	}
	defer pool.Release()

	if err := worker.Poll(ctx, pool); err != nil {
		t.Fatalf("Poll error: %v", err)
	}

	if len(handled) != 1 || handled[0] != "j1" {
		t.Fatalf("expected j1 handled once, got %v", handled)
	}
	done, _ := repo.ListByStatus(ctx, job.StatusDone)
	if len(done) != 1 {
		t.Fatalf("expected 1 done job, got %d", len(done))
	}
}

func TestWorker_Poll_RetriesWithBackoffThenDeadLetters(t *testing.T) {
	t.Parallel()

	repo := memory.NewJobRepository()
	ctx := context.Background()
	if err := repo.Enqueue(ctx, queuedJob("j1", 2)); err != nil {
		t.Fatalf("Enqueue error: %v", err)
	}

	now := time.Now().UTC()
	worker := NewWorker(repo, handlerFunc(func(context.Context, job.Job) error {
		return errors.New("standings repo unavailable")
	}), WorkerConfig{
		Concurrency: 1,
		BaseBackoff: 10 * time.Second,
		MaxBackoff:  time.Minute,
	}, logging.NewNop())
	worker.now = func() time.Time { return now }

	pool, err := ants.NewPool(1)
	if err != nil {
		t.Fatalf("NewPool error: %v", err)
	}
	defer pool.Release()

	// First attempt: requeued with the base backoff.
	if err := worker.Poll(ctx, pool); err != nil {
		t.Fatalf("first Poll error: %v", err)
	}
	queued, _ := repo.ListByStatus(ctx, job.StatusQueued)
	if len(queued) != 1 {
		t.Fatalf("expected requeued job, got %d", len(queued))
	}
	if got := queued[0].NextRunAt; !got.Equal(now.Add(10 * time.Second)) {
		t.Fatalf("expected retry at +10s, got %v", got.Sub(now))
	}
	if queued[0].LastError == "" {
		t.Fatal("expected last error recorded")
	}

	// Second attempt exhausts max attempts and dead-letters.
	worker.now = func() time.Time { return now.Add(time.Minute) }
	if err := worker.Poll(ctx, pool); err != nil {
		t.Fatalf("second Poll error: %v", err)
	}
	dead, _ := repo.ListByStatus(ctx, job.StatusDead)
	if len(dead) != 1 {
		t.Fatalf("expected dead job after exhausted attempts, got %d", len(dead))
	}
}

func TestWorker_Process_DeadLettersUnknownKind(t *testing.T) {
	t.Parallel()

	repo := memory.NewJobRepository()
	ctx := context.Background()

	item := queuedJob("j1", 5)
	item.Kind = "reticulate-splines"
	if err := repo.Enqueue(ctx, item); err != nil {
		t.Fatalf("Enqueue error: %v", err)
	}

	var handled int
	worker := NewWorker(repo, handlerFunc(func(context.Context, job.Job) error {
		handled++
		return nil
	}), WorkerConfig{}, logging.NewNop())

	claimed, err := repo.ClaimDue(ctx, time.Now().UTC(), 1)
	if err != nil || len(claimed) != 1 {
		t.Fatalf("ClaimDue: %v (claimed %d)", err, len(claimed))
	}
	worker.process(ctx, claimed[0])

	if handled != 0 {
		t.Fatal("unknown kind must not reach the handler")
	}
	dead, _ := repo.ListByStatus(ctx, job.StatusDead)
	if len(dead) != 1 {
		t.Fatalf("expected dead-lettered job, got %d", len(dead))
	}
}

func TestWorker_Backoff_Caps(t *testing.T) {
	t.Parallel()

	worker := NewWorker(memory.NewJobRepository(), handlerFunc(func(context.Context, job.Job) error {
		return nil
	}), WorkerConfig{
		BaseBackoff: time.Second,
		MaxBackoff:  30 * time.Second,
	}, logging.NewNop())

	cases := []struct {
		attempt int
		want    time.Duration
	}{
		{attempt: 1, want: time.Second},
		{attempt: 2, want: 2 * time.Second},
		{attempt: 4, want: 8 * time.Second},
		{attempt: 10, want: 30 * time.Second},
	}
	for _, tc := range cases {
		if got := worker.backoff(tc.attempt); got != tc.want {
			t.Fatalf("attempt %d: expected %v, got %v", tc.attempt, tc.want, got)
		}
	}
}
