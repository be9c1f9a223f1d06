package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/bagaspr/matchday/internal/domain/match"
	"github.com/bagaspr/matchday/internal/platform/logging"
)

func TestMatchAutoStartService_StartDue_StartsPastKickoffs(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 8, 9, 15, 5, 0, 0, time.UTC)
	prePeriod := match.PeriodPreKickoff
	repo := newStubMatchRepository(
		match.Match{
			ID:        "due",
			Status:    match.StatusScheduled,
			Period:    &prePeriod,
			KickoffAt: now.Add(-5 * time.Minute),
		},
		match.Match{
			ID:        "future",
			Status:    match.StatusScheduled,
			Period:    &prePeriod,
			KickoffAt: now.Add(time.Hour),
		},
	)

	service := NewMatchAutoStartService(repo, logging.NewNop())
	service.now = func() time.Time { return now }

	report, err := service.StartDue(context.Background())
	if err != nil {
		t.Fatalf("StartDue error: %v", err)
	}
	if report.Processed != 2 || report.Started != 1 {
		t.Fatalf("unexpected report: %+v", report)
	}

	started := repo.get("due")
	if started.Status != match.StatusLive {
		t.Fatalf("expected live, got %s", started.Status)
	}
	if started.Period == nil || *started.Period != match.PeriodFirstHalf {
		t.Fatalf("expected first_half, got %v", started.Period)
	}
	if started.CurrentMinute == nil || *started.CurrentMinute != 0 {
		t.Fatalf("expected minute 0, got %v", started.CurrentMinute)
	}
	if started.StartedAt == nil || !started.StartedAt.Equal(now) {
		t.Fatalf("expected started_at %v, got %v", now, started.StartedAt)
	}

	untouched := repo.get("future")
	if untouched.Status != match.StatusScheduled {
		t.Fatalf("future kickoff must stay scheduled, got %s", untouched.Status)
	}
	if len(repo.updatesFor("future")) != 0 {
		t.Fatalf("future kickoff must not be written")
	}
}
