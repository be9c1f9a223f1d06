package usecase

import (
	"context"
	"fmt"

	"github.com/bagaspr/matchday/internal/domain/match"
	"github.com/bagaspr/matchday/internal/platform/logging"
)

// TickFailure records one match whose update failed during a tick. Failures
// never abort the rest of the batch; they are surfaced here for logs.
type TickFailure struct {
	MatchID string `json:"match_id"`
	Error   string `json:"error"`
}

type TickReport struct {
	Processed int           `json:"processed"`
	Advanced  int           `json:"advanced"`
	HalfTime  int           `json:"half_time"`
	Frozen    int           `json:"frozen"`
	Skipped   int           `json:"skipped"`
	Failures  []TickFailure `json:"failures,omitempty"`
}

// MatchClockService advances the simulated clock of every live match by one
// minute per tick. It pins the clock at 45 when the first half ends and
// never advances past 90: leaving half-time and calling full time are
// explicit admin actions, so a match can never auto-finish without a
// confirmed final score.
type MatchClockService struct {
	matchRepo match.Repository
	logger    *logging.Logger
}

func NewMatchClockService(matchRepo match.Repository, logger *logging.Logger) *MatchClockService {
	if logger == nil {
		logger = logging.Default()
	}
	return &MatchClockService{
		matchRepo: matchRepo,
		logger:    logger,
	}
}

func (s *MatchClockService) Tick(ctx context.Context) (TickReport, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchClockService.Tick")
	defer span.End()

	live, err := s.matchRepo.ListByStatus(ctx, match.StatusLive)
	if err != nil {
		return TickReport{}, fmt.Errorf("list live matches: %w", err)
	}

	report := TickReport{Processed: len(live)}
	for _, item := range live {
		outcome, err := s.advance(ctx, item)
		if err != nil {
			s.logger.WarnContext(ctx, "advance match clock failed",
				"match_id", item.ID,
				"error", err,
			)
			report.Failures = append(report.Failures, TickFailure{MatchID: item.ID, Error: err.Error()})
			continue
		}

		switch outcome {
		case tickAdvanced:
			report.Advanced++
		case tickHalfTime:
			report.HalfTime++
		case tickFrozen:
			report.Frozen++
		case tickSkipped:
			report.Skipped++
		}
	}

	return report, nil
}

type tickOutcome int

const (
	tickAdvanced tickOutcome = iota
	tickHalfTime
	tickFrozen
	tickSkipped
)

func (s *MatchClockService) advance(ctx context.Context, item match.Match) (tickOutcome, error) {
	if item.CurrentMinute == nil {
		// Live matches always carry a minute; tolerate the inconsistency
		// without writing anything.
		return tickSkipped, nil
	}

	next := *item.CurrentMinute + 1
	switch {
	case next == match.HalfTimeMinute:
		status := match.StatusHalfTime
		period := match.PeriodHalfTime
		minute := match.HalfTimeMinute
		update := match.Update{
			Status:        &status,
			Period:        &period,
			CurrentMinute: &minute,
		}
		if err := s.matchRepo.ApplyUpdate(ctx, item.ID, update); err != nil {
			return 0, fmt.Errorf("apply half-time transition: %w", err)
		}
		return tickHalfTime, nil

	case next > match.FullTimeMinute:
		// Awaiting the manual full-time call.
		return tickFrozen, nil

	default:
		update := match.Update{CurrentMinute: &next}
		if err := s.matchRepo.ApplyUpdate(ctx, item.ID, update); err != nil {
			return 0, fmt.Errorf("advance minute to %d: %w", next, err)
		}
		return tickAdvanced, nil
	}
}
