package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/bagaspr/matchday/internal/domain/contract"
	"github.com/bagaspr/matchday/internal/domain/match"
	"github.com/bagaspr/matchday/internal/domain/matchevent"
	"github.com/bagaspr/matchday/internal/domain/playerstat"
	"github.com/bagaspr/matchday/internal/platform/logging"
)

// PlayerStatsService rebuilds per-player season aggregates from a finished
// match's event ledger and the current contracts of both teams.
//
// By default each upsert fully overwrites the (player, season, team) row
// with appearances=1, minutes=90 and the goal count of that one match, so
// processing a player's second match replaces the first match's numbers
// instead of accumulating them. That mirrors the historical behavior this
// engine replaces; Cumulative switches the write to an additive upsert.
type PlayerStatsService struct {
	matchRepo    match.Repository
	eventRepo    matchevent.Repository
	contractRepo contract.Repository
	statRepo     playerstat.Repository
	cumulative   bool
	logger       *logging.Logger
	now          func() time.Time
}

type PlayerStatsConfig struct {
	// Cumulative makes per-match recomputation add onto the season row
	// instead of overwriting it.
	Cumulative bool
}

const fullMatchMinutes = 90

func NewPlayerStatsService(
	matchRepo match.Repository,
	eventRepo matchevent.Repository,
	contractRepo contract.Repository,
	statRepo playerstat.Repository,
	cfg PlayerStatsConfig,
	logger *logging.Logger,
) *PlayerStatsService {
	if logger == nil {
		logger = logging.Default()
	}
	return &PlayerStatsService{
		matchRepo:    matchRepo,
		eventRepo:    eventRepo,
		contractRepo: contractRepo,
		statRepo:     statRepo,
		cumulative:   cfg.Cumulative,
		logger:       logger,
		now:          time.Now,
	}
}

// RecomputeForMatch processes one finished match. A match that is missing
// or not finished is skipped without error: the next recomputation
// naturally picks it up once the data is consistent.
func (s *PlayerStatsService) RecomputeForMatch(ctx context.Context, matchID string) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.PlayerStatsService.RecomputeForMatch")
	defer span.End()

	matchID = strings.TrimSpace(matchID)
	if matchID == "" {
		return fmt.Errorf("%w: match id is required", ErrInvalidInput)
	}

	item, exists, err := s.matchRepo.GetByID(ctx, matchID)
	if err != nil {
		return fmt.Errorf("get match %s: %w", matchID, err)
	}
	if !exists {
		s.logger.WarnContext(ctx, "stats recompute skipped, match missing", "match_id", matchID)
		return nil
	}
	if item.Status != match.StatusFinished {
		s.logger.InfoContext(ctx, "stats recompute skipped, match not finished",
			"match_id", matchID,
			"status", item.Status,
		)
		return nil
	}

	goals, err := s.eventRepo.ListByMatch(ctx, matchID, matchevent.Filter{Type: matchevent.TypeGoal})
	if err != nil {
		return fmt.Errorf("list goal events match=%s: %w", matchID, err)
	}

	goalsByPlayer := make(map[string]int, len(goals))
	for _, event := range goals {
		if event.PlayerID == nil {
			// Unknown scorer; counts for the team score, not for a player.
			continue
		}
		goalsByPlayer[*event.PlayerID]++
	}

	computedAt := s.now().UTC()
	for _, teamID := range []string{item.HomeTeamID, item.AwayTeamID} {
		contracts, err := s.contractRepo.ListCurrentByTeam(ctx, teamID)
		if err != nil {
			return fmt.Errorf("list current contracts team=%s: %w", teamID, err)
		}

		for _, c := range contracts {
			row := playerstat.SeasonStat{
				PlayerID:       c.PlayerID,
				SeasonID:       item.SeasonID,
				TeamID:         teamID,
				Appearances:    1,
				Goals:          goalsByPlayer[c.PlayerID],
				MinutesPlayed:  fullMatchMinutes,
				LastComputedAt: computedAt,
			}

			if s.cumulative {
				err = s.statRepo.Accumulate(ctx, row)
			} else {
				err = s.statRepo.Upsert(ctx, row)
			}
			if err != nil {
				return fmt.Errorf("upsert season stat player=%s team=%s: %w", c.PlayerID, teamID, err)
			}
		}
	}

	s.logger.InfoContext(ctx, "player stats recomputed",
		"match_id", matchID,
		"season_id", item.SeasonID,
		"goal_events", len(goals),
	)
	return nil
}

// SeasonStats returns the stored aggregates for one player in one season.
func (s *PlayerStatsService) SeasonStats(ctx context.Context, seasonID, playerID string) ([]playerstat.SeasonStat, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PlayerStatsService.SeasonStats")
	defer span.End()

	seasonID = strings.TrimSpace(seasonID)
	playerID = strings.TrimSpace(playerID)
	if seasonID == "" {
		return nil, fmt.Errorf("%w: season id is required", ErrInvalidInput)
	}
	if playerID == "" {
		return nil, fmt.Errorf("%w: player id is required", ErrInvalidInput)
	}

	rows, err := s.statRepo.ListBySeasonAndPlayer(ctx, seasonID, playerID)
	if err != nil {
		return nil, fmt.Errorf("list season stats: %w", err)
	}
	return rows, nil
}
