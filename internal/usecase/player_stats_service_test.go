package usecase

import (
	"context"
	"testing"

	"github.com/bagaspr/matchday/internal/domain/contract"
	"github.com/bagaspr/matchday/internal/domain/matchevent"
	"github.com/bagaspr/matchday/internal/platform/logging"
)

func strPtr(v string) *string { return &v }

func statsFixture(t *testing.T, cfg PlayerStatsConfig) (*PlayerStatsService, *stubMatchRepository, *stubEventRepository, *stubPlayerStatRepository) {
	t.Helper()

	matchRepo := newStubMatchRepository(
		finishedMatch("m1", "season-2025", "team-a", "team-b", 2, 0),
		finishedMatch("m2", "season-2025", "team-a", "team-c", 1, 0),
	)
	eventRepo := &stubEventRepository{}
	contractRepo := &stubContractRepository{
		byTeam: map[string][]contract.Contract{
			"team-a": {
				{ID: "c1", PlayerID: "striker", TeamID: "team-a", IsCurrent: true},
				{ID: "c2", PlayerID: "keeper", TeamID: "team-a", IsCurrent: true},
				{ID: "c3", PlayerID: "departed", TeamID: "team-a", IsCurrent: false},
			},
			"team-b": {
				{ID: "c4", PlayerID: "defender", TeamID: "team-b", IsCurrent: true},
			},
		},
	}
	statRepo := newStubPlayerStatRepository()

	service := NewPlayerStatsService(matchRepo, eventRepo, contractRepo, statRepo, cfg, logging.NewNop())
	return service, matchRepo, eventRepo, statRepo
}

func TestPlayerStatsService_RecomputeForMatch_CountsGoals(t *testing.T) {
	t.Parallel()

	service, _, eventRepo, statRepo := statsFixture(t, PlayerStatsConfig{})
	ctx := context.Background()

	eventRepo.Append(ctx, matchevent.Event{ID: "e1", MatchID: "m1", TeamID: "team-a", PlayerID: strPtr("striker"), Type: matchevent.TypeGoal, Minute: 12})
	eventRepo.Append(ctx, matchevent.Event{ID: "e2", MatchID: "m1", TeamID: "team-a", PlayerID: strPtr("striker"), Type: matchevent.TypeGoal, Minute: 70})
	// No scorer attributed; team goal only.
	eventRepo.Append(ctx, matchevent.Event{ID: "e3", MatchID: "m1", TeamID: "team-a", Type: matchevent.TypeGoal, Minute: 80})
	// Cards are not goals.
	eventRepo.Append(ctx, matchevent.Event{ID: "e4", MatchID: "m1", TeamID: "team-b", PlayerID: strPtr("defender"), Type: matchevent.TypeYellowCard, Minute: 30})

	if err := service.RecomputeForMatch(ctx, "m1"); err != nil {
		t.Fatalf("RecomputeForMatch error: %v", err)
	}

	striker, ok, _ := statRepo.Get(ctx, "striker", "season-2025", "team-a")
	if !ok {
		t.Fatal("expected striker row")
	}
	if striker.Appearances != 1 || striker.Goals != 2 || striker.MinutesPlayed != 90 {
		t.Fatalf("unexpected striker row: %+v", striker)
	}

	keeper, ok, _ := statRepo.Get(ctx, "keeper", "season-2025", "team-a")
	if !ok || keeper.Goals != 0 || keeper.Appearances != 1 {
		t.Fatalf("unexpected keeper row: %+v (ok=%v)", keeper, ok)
	}

	defender, ok, _ := statRepo.Get(ctx, "defender", "season-2025", "team-b")
	if !ok || defender.Goals != 0 {
		t.Fatalf("unexpected defender row: %+v (ok=%v)", defender, ok)
	}

	if _, ok, _ := statRepo.Get(ctx, "departed", "season-2025", "team-a"); ok {
		t.Fatal("expired contract must not produce a row")
	}
}

// Recomputing a player's second match overwrites the season row instead of
// adding to it. This pins the documented overwrite behavior; cumulative
// mode below is the corrected variant.
func TestPlayerStatsService_RecomputeForMatch_OverwriteIsNotCumulative(t *testing.T) {
	t.Parallel()

	service, _, eventRepo, statRepo := statsFixture(t, PlayerStatsConfig{})
	ctx := context.Background()

	eventRepo.Append(ctx, matchevent.Event{ID: "e1", MatchID: "m1", TeamID: "team-a", PlayerID: strPtr("striker"), Type: matchevent.TypeGoal, Minute: 10})

	if err := service.RecomputeForMatch(ctx, "m1"); err != nil {
		t.Fatalf("first RecomputeForMatch error: %v", err)
	}
	if err := service.RecomputeForMatch(ctx, "m2"); err != nil {
		t.Fatalf("second RecomputeForMatch error: %v", err)
	}

	striker, _, _ := statRepo.Get(ctx, "striker", "season-2025", "team-a")
	if striker.Appearances != 1 || striker.MinutesPlayed != 90 {
		t.Fatalf("overwrite mode must keep single-match numbers, got %+v", striker)
	}
	if striker.Goals != 0 {
		t.Fatalf("goals from m1 must be overwritten by m2, got %+v", striker)
	}
}

func TestPlayerStatsService_RecomputeForMatch_CumulativeMode(t *testing.T) {
	t.Parallel()

	service, _, eventRepo, statRepo := statsFixture(t, PlayerStatsConfig{Cumulative: true})
	ctx := context.Background()

	eventRepo.Append(ctx, matchevent.Event{ID: "e1", MatchID: "m1", TeamID: "team-a", PlayerID: strPtr("striker"), Type: matchevent.TypeGoal, Minute: 10})
	eventRepo.Append(ctx, matchevent.Event{ID: "e2", MatchID: "m2", TeamID: "team-a", PlayerID: strPtr("striker"), Type: matchevent.TypeGoal, Minute: 55})

	if err := service.RecomputeForMatch(ctx, "m1"); err != nil {
		t.Fatalf("first RecomputeForMatch error: %v", err)
	}
	if err := service.RecomputeForMatch(ctx, "m2"); err != nil {
		t.Fatalf("second RecomputeForMatch error: %v", err)
	}

	striker, _, _ := statRepo.Get(ctx, "striker", "season-2025", "team-a")
	if striker.Appearances != 2 || striker.Goals != 2 || striker.MinutesPlayed != 180 {
		t.Fatalf("unexpected cumulative row: %+v", striker)
	}
}

func TestPlayerStatsService_RecomputeForMatch_SkipsUnfinished(t *testing.T) {
	t.Parallel()

	service, matchRepo, _, statRepo := statsFixture(t, PlayerStatsConfig{})
	ctx := context.Background()

	matchRepo.Create(ctx, liveMatch("ongoing", intPtr(30)))

	if err := service.RecomputeForMatch(ctx, "ongoing"); err != nil {
		t.Fatalf("RecomputeForMatch error: %v", err)
	}
	if err := service.RecomputeForMatch(ctx, "ghost"); err != nil {
		t.Fatalf("RecomputeForMatch missing-match error: %v", err)
	}

	if rows, _ := statRepo.ListBySeasonAndPlayer(ctx, "season-2025", "striker"); len(rows) != 0 {
		t.Fatalf("skipped matches must not write rows, got %+v", rows)
	}
}
