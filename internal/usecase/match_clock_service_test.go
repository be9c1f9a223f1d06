package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/bagaspr/matchday/internal/domain/match"
	"github.com/bagaspr/matchday/internal/platform/logging"
)

func liveMatch(id string, minute *int) match.Match {
	period := match.PeriodFirstHalf
	return match.Match{
		ID:            id,
		SeasonID:      "season-2025",
		HomeTeamID:    "team-a",
		AwayTeamID:    "team-b",
		Status:        match.StatusLive,
		Period:        &period,
		CurrentMinute: minute,
	}
}

func intPtr(v int) *int { return &v }

func TestMatchClockService_Tick_AdvancesOneMinute(t *testing.T) {
	t.Parallel()

	repo := newStubMatchRepository(liveMatch("m1", intPtr(10)))
	service := NewMatchClockService(repo, logging.NewNop())

	report, err := service.Tick(context.Background())
	if err != nil {
		t.Fatalf("Tick error: %v", err)
	}
	if report.Processed != 1 || report.Advanced != 1 {
		t.Fatalf("unexpected report: %+v", report)
	}

	got := repo.get("m1")
	if got.CurrentMinute == nil || *got.CurrentMinute != 11 {
		t.Fatalf("expected minute 11, got %v", got.CurrentMinute)
	}
	if got.Status != match.StatusLive {
		t.Fatalf("expected status live, got %s", got.Status)
	}
}

func TestMatchClockService_Tick_PinsHalfTimeAt45(t *testing.T) {
	t.Parallel()

	repo := newStubMatchRepository(liveMatch("m1", intPtr(44)))
	service := NewMatchClockService(repo, logging.NewNop())

	report, err := service.Tick(context.Background())
	if err != nil {
		t.Fatalf("Tick error: %v", err)
	}
	if report.HalfTime != 1 {
		t.Fatalf("unexpected report: %+v", report)
	}

	got := repo.get("m1")
	if got.Status != match.StatusHalfTime {
		t.Fatalf("expected status half_time, got %s", got.Status)
	}
	if got.Period == nil || *got.Period != match.PeriodHalfTime {
		t.Fatalf("expected period half_time, got %v", got.Period)
	}
	if got.CurrentMinute == nil || *got.CurrentMinute != 45 {
		t.Fatalf("expected minute pinned at 45, got %v", got.CurrentMinute)
	}

	if len(repo.updatesFor("m1")) != 1 {
		t.Fatalf("expected one atomic update, got %d", len(repo.updatesFor("m1")))
	}
}

func TestMatchClockService_Tick_FreezesAt90(t *testing.T) {
	t.Parallel()

	repo := newStubMatchRepository(liveMatch("m1", intPtr(90)))
	service := NewMatchClockService(repo, logging.NewNop())

	report, err := service.Tick(context.Background())
	if err != nil {
		t.Fatalf("Tick error: %v", err)
	}
	if report.Frozen != 1 {
		t.Fatalf("unexpected report: %+v", report)
	}

	got := repo.get("m1")
	if got.Status != match.StatusLive {
		t.Fatalf("frozen match must stay live, got %s", got.Status)
	}
	if *got.CurrentMinute != 90 {
		t.Fatalf("frozen match must keep minute 90, got %d", *got.CurrentMinute)
	}
	if len(repo.updatesFor("m1")) != 0 {
		t.Fatalf("frozen match must not be written, got %d updates", len(repo.updatesFor("m1")))
	}
}

func TestMatchClockService_Tick_SkipsNilMinute(t *testing.T) {
	t.Parallel()

	repo := newStubMatchRepository(liveMatch("m1", nil))
	service := NewMatchClockService(repo, logging.NewNop())

	report, err := service.Tick(context.Background())
	if err != nil {
		t.Fatalf("Tick error: %v", err)
	}
	if report.Skipped != 1 || len(report.Failures) != 0 {
		t.Fatalf("unexpected report: %+v", report)
	}
	if len(repo.updatesFor("m1")) != 0 {
		t.Fatalf("skipped match must not be written")
	}
}

func TestMatchClockService_Tick_FailureDoesNotAbortBatch(t *testing.T) {
	t.Parallel()

	repo := newStubMatchRepository(
		liveMatch("m1", intPtr(20)),
		liveMatch("m2", intPtr(30)),
	)
	repo.updateErr = map[string]error{"m1": errors.New("connection reset")}
	service := NewMatchClockService(repo, logging.NewNop())

	report, err := service.Tick(context.Background())
	if err != nil {
		t.Fatalf("Tick error: %v", err)
	}
	if report.Advanced != 1 || len(report.Failures) != 1 {
		t.Fatalf("unexpected report: %+v", report)
	}
	if report.Failures[0].MatchID != "m1" {
		t.Fatalf("expected m1 failure, got %+v", report.Failures[0])
	}

	got := repo.get("m2")
	if *got.CurrentMinute != 31 {
		t.Fatalf("m2 should still advance, got minute %d", *got.CurrentMinute)
	}
}
