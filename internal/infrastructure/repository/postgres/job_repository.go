package postgres

import (
	"context"
	"fmt"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/jmoiron/sqlx"

	"github.com/bagaspr/matchday/internal/domain/job"
	qb "github.com/bagaspr/matchday/internal/platform/querybuilder"
)

type jobTableModel struct {
	ID          string    `db:"public_id"`
	Kind        string    `db:"kind"`
	DedupKey    string    `db:"dedup_key"`
	Payload     string    `db:"payload"`
	Status      string    `db:"status"`
	Attempts    int       `db:"attempts"`
	MaxAttempts int       `db:"max_attempts"`
	NextRunAt   time.Time `db:"next_run_at"`
	LastError   *string   `db:"last_error"`
	TraceID     *string   `db:"trace_id"`
	SpanID      *string   `db:"span_id"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}

type jobInsertModel struct {
	ID          string    `db:"public_id"`
	Kind        string    `db:"kind"`
	DedupKey    string    `db:"dedup_key"`
	Payload     string    `db:"payload"`
	Status      string    `db:"status"`
	Attempts    int       `db:"attempts"`
	MaxAttempts int       `db:"max_attempts"`
	NextRunAt   time.Time `db:"next_run_at"`
	TraceID     *string   `db:"trace_id"`
	SpanID      *string   `db:"span_id"`
}

func (m jobTableModel) toDomain() (job.Job, error) {
	payload := map[string]any{}
	if m.Payload != "" && m.Payload != "{}" {
		if err := sonic.Unmarshal([]byte(m.Payload), &payload); err != nil {
			return job.Job{}, fmt.Errorf("unmarshal job %s payload: %w", m.ID, err)
		}
	}

	return job.Job{
		ID:          m.ID,
		Kind:        job.Kind(m.Kind),
		DedupKey:    m.DedupKey,
		Payload:     payload,
		Status:      job.Status(m.Status),
		Attempts:    m.Attempts,
		MaxAttempts: m.MaxAttempts,
		NextRunAt:   m.NextRunAt,
		LastError:   derefString(m.LastError),
		TraceID:     derefString(m.TraceID),
		SpanID:      derefString(m.SpanID),
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}, nil
}

// JobRepository is the durable queue backing the recomputation dispatcher.
// The queue lives next to the data it derives from, so enqueue commits in
// the same database as the match write that caused it.
type JobRepository struct {
	db *sqlx.DB
}

func NewJobRepository(db *sqlx.DB) *JobRepository {
	return &JobRepository{db: db}
}

func (r *JobRepository) Enqueue(ctx context.Context, item job.Job) error {
	payload, err := sonic.Marshal(item.Payload)
	if err != nil {
		return fmt.Errorf("marshal job payload: %w", err)
	}

	model := jobInsertModel{
		ID:          item.ID,
		Kind:        string(item.Kind),
		DedupKey:    item.DedupKey,
		Payload:     string(payload),
		Status:      string(job.StatusQueued),
		Attempts:    0,
		MaxAttempts: item.MaxAttempts,
		NextRunAt:   item.NextRunAt,
		TraceID:     optionalString(item.TraceID),
		SpanID:      optionalString(item.SpanID),
	}

	// A partial unique index on (dedup_key) WHERE status = 'queued' makes
	// the conflict target the still-queued duplicate.
	query, args, err := qb.InsertModel("recompute_jobs", model, "ON CONFLICT DO NOTHING")
	if err != nil {
		return fmt.Errorf("build insert job query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert job %s: %w", item.ID, err)
	}
	return nil
}

// ClaimDue locks and flips due queued rows to running inside one
// transaction. SKIP LOCKED keeps concurrent workers from claiming the same
// row without serializing on each other.
func (r *JobRepository) ClaimDue(ctx context.Context, now time.Time, limit int) ([]job.Job, error) {
	if limit <= 0 {
		return nil, nil
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx claim jobs: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	query, args, err := qb.Select("*").From("recompute_jobs").
		Where(
			qb.Eq("status", string(job.StatusQueued)),
			qb.Lte("next_run_at", now),
		).
		OrderBy("next_run_at", "public_id").
		Limit(limit).
		Suffix("FOR UPDATE SKIP LOCKED").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build claim select query: %w", err)
	}

	var rows []jobTableModel
	if err := tx.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select due jobs: %w", err)
	}
	if len(rows) == 0 {
		return nil, tx.Commit()
	}

	ids := make([]any, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.ID)
	}
	updateQuery, updateArgs, err := qb.Update("recompute_jobs").
		Set("status", string(job.StatusRunning)).
		SetExpr("attempts", "attempts + 1").
		SetExpr("updated_at", "NOW()").
		Where(qb.In("public_id", ids)).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build claim update query: %w", err)
	}
	if _, err := tx.ExecContext(ctx, updateQuery, updateArgs...); err != nil {
		return nil, fmt.Errorf("mark jobs running: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit claim jobs tx: %w", err)
	}

	out := make([]job.Job, 0, len(rows))
	for _, row := range rows {
		item, err := row.toDomain()
		if err != nil {
			return nil, err
		}
		item.Status = job.StatusRunning
		item.Attempts++
		out = append(out, item)
	}
	return out, nil
}

func (r *JobRepository) MarkDone(ctx context.Context, jobID string) error {
	query, args, err := qb.Update("recompute_jobs").
		Set("status", string(job.StatusDone)).
		SetExpr("last_error", "NULL").
		SetExpr("updated_at", "NOW()").
		Where(qb.Eq("public_id", jobID)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build mark done query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("mark job %s done: %w", jobID, err)
	}
	return nil
}

func (r *JobRepository) MarkFailed(ctx context.Context, jobID string, jobErr string, retryAt time.Time, dead bool) error {
	status := job.StatusQueued
	if dead {
		status = job.StatusDead
	}

	builder := qb.Update("recompute_jobs").
		Set("status", string(status)).
		Set("last_error", jobErr).
		SetExpr("updated_at", "NOW()")
	if !dead {
		builder.Set("next_run_at", retryAt)
	}

	query, args, err := builder.Where(qb.Eq("public_id", jobID)).ToSQL()
	if err != nil {
		return fmt.Errorf("build mark failed query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("mark job %s failed: %w", jobID, err)
	}
	return nil
}

// Release requeues a claimed job without consuming the attempt the claim
// charged.
func (r *JobRepository) Release(ctx context.Context, jobID string) error {
	query, args, err := qb.Update("recompute_jobs").
		Set("status", string(job.StatusQueued)).
		SetExpr("attempts", "GREATEST(attempts - 1, 0)").
		SetExpr("updated_at", "NOW()").
		Where(qb.Eq("public_id", jobID)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build release query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("release job %s: %w", jobID, err)
	}
	return nil
}

func (r *JobRepository) ListByStatus(ctx context.Context, status job.Status) ([]job.Job, error) {
	query, args, err := qb.Select("*").From("recompute_jobs").
		Where(qb.Eq("status", string(status))).
		OrderBy("next_run_at", "public_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list jobs query: %w", err)
	}

	var rows []jobTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list jobs status=%s: %w", status, err)
	}

	out := make([]job.Job, 0, len(rows))
	for _, row := range rows {
		item, err := row.toDomain()
		if err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	return out, nil
}
