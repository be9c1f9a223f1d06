package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/bagaspr/matchday/internal/domain/match"
	"github.com/bagaspr/matchday/internal/platform/logging"
)

type AutoStartReport struct {
	Processed int           `json:"processed"`
	Started   int           `json:"started"`
	Failures  []TickFailure `json:"failures,omitempty"`
}

// MatchAutoStartService promotes scheduled matches whose kickoff time has
// passed into the live state. Each row is its own unit of work.
type MatchAutoStartService struct {
	matchRepo match.Repository
	logger    *logging.Logger
	now       func() time.Time
}

func NewMatchAutoStartService(matchRepo match.Repository, logger *logging.Logger) *MatchAutoStartService {
	if logger == nil {
		logger = logging.Default()
	}
	return &MatchAutoStartService{
		matchRepo: matchRepo,
		logger:    logger,
		now:       time.Now,
	}
}

func (s *MatchAutoStartService) StartDue(ctx context.Context) (AutoStartReport, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchAutoStartService.StartDue")
	defer span.End()

	scheduled, err := s.matchRepo.ListByStatus(ctx, match.StatusScheduled)
	if err != nil {
		return AutoStartReport{}, fmt.Errorf("list scheduled matches: %w", err)
	}

	now := s.now().UTC()
	report := AutoStartReport{Processed: len(scheduled)}
	for _, item := range scheduled {
		if item.KickoffAt.After(now) {
			continue
		}

		if err := s.start(ctx, item.ID, now); err != nil {
			s.logger.WarnContext(ctx, "auto-start match failed",
				"match_id", item.ID,
				"error", err,
			)
			report.Failures = append(report.Failures, TickFailure{MatchID: item.ID, Error: err.Error()})
			continue
		}
		report.Started++
	}

	return report, nil
}

func (s *MatchAutoStartService) start(ctx context.Context, matchID string, now time.Time) error {
	status := match.StatusLive
	period := match.PeriodFirstHalf
	minute := 0
	startedAt := now
	update := match.Update{
		Status:        &status,
		Period:        &period,
		CurrentMinute: &minute,
		StartedAt:     &startedAt,
	}
	if err := s.matchRepo.ApplyUpdate(ctx, matchID, update); err != nil {
		return fmt.Errorf("apply kickoff transition: %w", err)
	}
	return nil
}
