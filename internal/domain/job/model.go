package job

import (
	"strings"
	"time"
)

type Kind string

const (
	KindRecomputeStandings Kind = "recompute-standings"
	KindRecomputeStats     Kind = "recompute-stats"
)

type Status string

const (
	StatusQueued  Status = "queued"
	StatusRunning Status = "running"
	StatusDone    Status = "done"
	// StatusDead marks a job whose attempts are exhausted or whose kind is
	// unknown to the worker. Dead jobs are kept for inspection, not retried.
	StatusDead Status = "dead"
)

// Job is one durable queue row. The queue is at-least-once: a claimed job
// that never completes becomes due again after its lease passes, so handlers
// must be idempotent.
type Job struct {
	ID          string
	Kind        Kind
	DedupKey    string
	Payload     map[string]any
	Status      Status
	Attempts    int
	MaxAttempts int
	NextRunAt   time.Time
	LastError   string
	TraceID     string
	SpanID      string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (k Kind) Valid() bool {
	switch k {
	case KindRecomputeStandings, KindRecomputeStats:
		return true
	default:
		return false
	}
}

// RefID extracts the payload field the kind is keyed on.
func (j Job) RefID() string {
	switch j.Kind {
	case KindRecomputeStandings:
		return payloadString(j.Payload, "season_id")
	case KindRecomputeStats:
		return payloadString(j.Payload, "match_id")
	default:
		return ""
	}
}

func payloadString(payload map[string]any, key string) string {
	if payload == nil {
		return ""
	}
	value, _ := payload[key].(string)
	return strings.TrimSpace(value)
}
