package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/bagaspr/matchday/internal/domain/match"
	"github.com/bagaspr/matchday/internal/domain/standing"
	"github.com/bagaspr/matchday/internal/platform/cache"
	"github.com/bagaspr/matchday/internal/platform/logging"
)

// StandingsService derives the league table of a season from its finished
// matches. The fold is commutative and associative per team, so the result
// is independent of input order; given the same finished-match set the
// computed table is identical on every run.
type StandingsService struct {
	matchRepo    match.Repository
	standingRepo standing.Repository
	cache        *cache.Store
	logger       *logging.Logger
	now          func() time.Time
}

func NewStandingsService(
	matchRepo match.Repository,
	standingRepo standing.Repository,
	cacheStore *cache.Store,
	logger *logging.Logger,
) *StandingsService {
	if logger == nil {
		logger = logging.Default()
	}
	return &StandingsService{
		matchRepo:    matchRepo,
		standingRepo: standingRepo,
		cache:        cacheStore,
		logger:       logger,
		now:          time.Now,
	}
}

// Recompute rebuilds and persists the table for one season. Rows are
// upserted keyed on (season, team); teams that dropped out of the computed
// table keep their old row, which is an accepted staleness.
func (s *StandingsService) Recompute(ctx context.Context, seasonID string) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.StandingsService.Recompute")
	defer span.End()

	seasonID = strings.TrimSpace(seasonID)
	if seasonID == "" {
		return fmt.Errorf("%w: season id is required", ErrInvalidInput)
	}

	finished, err := s.matchRepo.ListFinishedBySeason(ctx, seasonID)
	if err != nil {
		return fmt.Errorf("list finished matches season=%s: %w", seasonID, err)
	}

	deductions, err := s.loadDeductions(ctx, seasonID)
	if err != nil {
		return err
	}

	rows := ComputeTable(seasonID, finished, deductions, s.now().UTC())
	if err := s.standingRepo.UpsertAll(ctx, seasonID, rows); err != nil {
		return fmt.Errorf("upsert standings season=%s: %w", seasonID, err)
	}

	if s.cache != nil {
		s.cache.Delete(ctx, standingsCacheKey(seasonID))
	}

	s.logger.InfoContext(ctx, "standings recomputed",
		"season_id", seasonID,
		"matches", len(finished),
		"teams", len(rows),
	)
	return nil
}

// Table returns the stored table for a season, cached briefly.
func (s *StandingsService) Table(ctx context.Context, seasonID string) ([]standing.Standing, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.StandingsService.Table")
	defer span.End()

	seasonID = strings.TrimSpace(seasonID)
	if seasonID == "" {
		return nil, fmt.Errorf("%w: season id is required", ErrInvalidInput)
	}

	load := func(ctx context.Context) (any, error) {
		rows, err := s.standingRepo.ListBySeason(ctx, seasonID)
		if err != nil {
			return nil, fmt.Errorf("list standings season=%s: %w", seasonID, err)
		}
		return rows, nil
	}

	if s.cache == nil {
		v, err := load(ctx)
		if err != nil {
			return nil, err
		}
		return v.([]standing.Standing), nil
	}

	v, err := s.cache.GetOrLoad(ctx, standingsCacheKey(seasonID), load)
	if err != nil {
		return nil, err
	}
	rows, _ := v.([]standing.Standing)
	return append([]standing.Standing(nil), rows...), nil
}

// PatchDeduction applies an administrative points deduction and recomputes
// so positions reflect it immediately.
func (s *StandingsService) PatchDeduction(ctx context.Context, seasonID, teamID string, deduction int) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.StandingsService.PatchDeduction")
	defer span.End()

	seasonID = strings.TrimSpace(seasonID)
	teamID = strings.TrimSpace(teamID)
	if seasonID == "" || teamID == "" {
		return fmt.Errorf("%w: season id and team id are required", ErrInvalidInput)
	}
	if deduction < 0 {
		return fmt.Errorf("%w: deduction cannot be negative", ErrInvalidInput)
	}

	if err := s.standingRepo.PatchDeduction(ctx, seasonID, teamID, deduction); err != nil {
		return fmt.Errorf("patch deduction season=%s team=%s: %w", seasonID, teamID, err)
	}

	return s.Recompute(ctx, seasonID)
}

func (s *StandingsService) loadDeductions(ctx context.Context, seasonID string) (map[string]int, error) {
	existing, err := s.standingRepo.ListBySeason(ctx, seasonID)
	if err != nil {
		return nil, fmt.Errorf("list existing standings season=%s: %w", seasonID, err)
	}

	deductions := make(map[string]int, len(existing))
	for _, row := range existing {
		if row.PointsDeduction > 0 {
			deductions[row.TeamID] = row.PointsDeduction
		}
	}
	return deductions, nil
}

func standingsCacheKey(seasonID string) string {
	return "standings:" + seasonID
}

// ComputeTable folds finished matches into a ranked table. Matches that are
// not finished or carry no score are skipped: inconsistent rows must not
// poison the table. Ranking is points desc, then goal difference desc, then
// goals for desc; teams equal on all three keep their first-seen relative
// order and still receive distinct consecutive positions.
func ComputeTable(seasonID string, matches []match.Match, deductions map[string]int, computedAt time.Time) []standing.Standing {
	aggregates := make(map[string]*standing.Standing)
	order := make([]string, 0, len(matches)*2)

	team := func(teamID string) *standing.Standing {
		if row, ok := aggregates[teamID]; ok {
			return row
		}
		row := &standing.Standing{
			SeasonID:        seasonID,
			TeamID:          teamID,
			PointsDeduction: deductions[teamID],
			LastComputedAt:  computedAt,
		}
		aggregates[teamID] = row
		order = append(order, teamID)
		return row
	}

	for _, item := range matches {
		if item.Status != match.StatusFinished || !item.HasFinalScore() {
			continue
		}

		home := team(item.HomeTeamID)
		away := team(item.AwayTeamID)
		homeGoals := *item.HomeScore
		awayGoals := *item.AwayScore

		home.Played++
		away.Played++
		home.GoalsFor += homeGoals
		home.GoalsAgainst += awayGoals
		away.GoalsFor += awayGoals
		away.GoalsAgainst += homeGoals

		switch {
		case homeGoals > awayGoals:
			home.Wins++
			away.Losses++
		case homeGoals < awayGoals:
			away.Wins++
			home.Losses++
		default:
			home.Draws++
			away.Draws++
		}
	}

	// The fold above only touches commutative counters, so iteration order
	// never leaks into the aggregates. Ranking sorts a deterministically
	// ordered snapshot: team ids sorted lexicographically first, then the
	// stable sort applies the tie-break chain.
	sort.Strings(order)

	rows := make([]standing.Standing, 0, len(order))
	for _, teamID := range order {
		row := aggregates[teamID]
		row.GoalDifference = row.GoalsFor - row.GoalsAgainst
		row.Points = row.Wins*3 + row.Draws - row.PointsDeduction
		rows = append(rows, *row)
	}

	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].Points != rows[j].Points {
			return rows[i].Points > rows[j].Points
		}
		if rows[i].GoalDifference != rows[j].GoalDifference {
			return rows[i].GoalDifference > rows[j].GoalDifference
		}
		return rows[i].GoalsFor > rows[j].GoalsFor
	})

	for i := range rows {
		rows[i].Position = i + 1
	}

	return rows
}
