package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/bagaspr/matchday/internal/domain/job"
)

type JobRepository struct {
	mu   sync.Mutex
	byID map[string]job.Job
}

func NewJobRepository() *JobRepository {
	return &JobRepository{byID: make(map[string]job.Job)}
}

func (r *JobRepository) Enqueue(_ context.Context, item job.Job) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if item.DedupKey != "" {
		for _, existing := range r.byID {
			if existing.Status == job.StatusQueued && existing.DedupKey == item.DedupKey {
				return nil
			}
		}
	}

	r.byID[item.ID] = item
	return nil
}

func (r *JobRepository) ClaimDue(_ context.Context, now time.Time, limit int) ([]job.Job, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	due := make([]job.Job, 0)
	for _, item := range r.byID {
		if item.Status == job.StatusQueued && !item.NextRunAt.After(now) {
			due = append(due, item)
		}
	}
	sort.Slice(due, func(i, j int) bool {
		if !due[i].NextRunAt.Equal(due[j].NextRunAt) {
			return due[i].NextRunAt.Before(due[j].NextRunAt)
		}
		return due[i].ID < due[j].ID
	})
	if limit > 0 && len(due) > limit {
		due = due[:limit]
	}

	for i := range due {
		due[i].Status = job.StatusRunning
		due[i].Attempts++
		due[i].UpdatedAt = now
		r.byID[due[i].ID] = due[i]
	}
	return due, nil
}

func (r *JobRepository) MarkDone(_ context.Context, jobID string) error {
	return r.mutate(jobID, func(item *job.Job) {
		item.Status = job.StatusDone
		item.LastError = ""
	})
}

func (r *JobRepository) MarkFailed(_ context.Context, jobID string, jobErr string, retryAt time.Time, dead bool) error {
	return r.mutate(jobID, func(item *job.Job) {
		item.LastError = jobErr
		if dead {
			item.Status = job.StatusDead
			return
		}
		item.Status = job.StatusQueued
		item.NextRunAt = retryAt
	})
}

func (r *JobRepository) Release(_ context.Context, jobID string) error {
	return r.mutate(jobID, func(item *job.Job) {
		item.Status = job.StatusQueued
		if item.Attempts > 0 {
			item.Attempts--
		}
	})
}

func (r *JobRepository) ListByStatus(_ context.Context, status job.Status) ([]job.Job, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]job.Job, 0)
	for _, item := range r.byID {
		if item.Status == status {
			out = append(out, item)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *JobRepository) mutate(jobID string, apply func(*job.Job)) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	item, ok := r.byID[jobID]
	if !ok {
		return fmt.Errorf("job %s not found", jobID)
	}
	apply(&item)
	item.UpdatedAt = time.Now().UTC()
	r.byID[jobID] = item
	return nil
}
