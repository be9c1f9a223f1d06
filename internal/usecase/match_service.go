package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/bagaspr/matchday/internal/domain/match"
	"github.com/bagaspr/matchday/internal/domain/matchevent"
	"github.com/bagaspr/matchday/internal/platform/id"
	"github.com/bagaspr/matchday/internal/platform/logging"
)

// MatchService carries the manual lifecycle actions: creating fixtures,
// resuming after half time, finishing, administrative status changes and
// the event ledger. The periodic clock and auto-start transitions live in
// their own services.
type MatchService struct {
	matchRepo match.Repository
	eventRepo matchevent.Repository
	recompute *RecomputeService
	idGen     id.Generator
	logger    *logging.Logger
	now       func() time.Time
}

func NewMatchService(
	matchRepo match.Repository,
	eventRepo matchevent.Repository,
	recompute *RecomputeService,
	idGen id.Generator,
	logger *logging.Logger,
) *MatchService {
	if idGen == nil {
		idGen = id.NewRandomGenerator()
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &MatchService{
		matchRepo: matchRepo,
		eventRepo: eventRepo,
		recompute: recompute,
		idGen:     idGen,
		logger:    logger,
		now:       time.Now,
	}
}

type CreateMatchInput struct {
	SeasonID   string
	HomeTeamID string
	AwayTeamID string
	KickoffAt  time.Time
}

func (s *MatchService) Create(ctx context.Context, input CreateMatchInput) (match.Match, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.Create")
	defer span.End()

	input.SeasonID = strings.TrimSpace(input.SeasonID)
	input.HomeTeamID = strings.TrimSpace(input.HomeTeamID)
	input.AwayTeamID = strings.TrimSpace(input.AwayTeamID)

	switch {
	case input.SeasonID == "":
		return match.Match{}, fmt.Errorf("%w: season id is required", ErrInvalidInput)
	case input.HomeTeamID == "" || input.AwayTeamID == "":
		return match.Match{}, fmt.Errorf("%w: both team ids are required", ErrInvalidInput)
	case input.HomeTeamID == input.AwayTeamID:
		return match.Match{}, fmt.Errorf("%w: a team cannot play itself", ErrInvalidInput)
	case input.KickoffAt.IsZero():
		return match.Match{}, fmt.Errorf("%w: kickoff time is required", ErrInvalidInput)
	}

	matchID, err := s.idGen.NewID()
	if err != nil {
		return match.Match{}, fmt.Errorf("generate match id: %w", err)
	}

	period := match.PeriodPreKickoff
	item := match.Match{
		ID:         matchID,
		SeasonID:   input.SeasonID,
		HomeTeamID: input.HomeTeamID,
		AwayTeamID: input.AwayTeamID,
		Status:     match.StatusScheduled,
		Period:     &period,
		KickoffAt:  input.KickoffAt.UTC(),
	}
	if err := s.matchRepo.Create(ctx, item); err != nil {
		return match.Match{}, fmt.Errorf("create match: %w", err)
	}

	s.logger.InfoContext(ctx, "match created",
		"match_id", item.ID,
		"season_id", item.SeasonID,
		"kickoff_at", item.KickoffAt,
	)
	return item, nil
}

func (s *MatchService) Get(ctx context.Context, matchID string) (match.Match, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.Get")
	defer span.End()

	item, exists, err := s.matchRepo.GetByID(ctx, matchID)
	if err != nil {
		return match.Match{}, fmt.Errorf("get match %s: %w", matchID, err)
	}
	if !exists {
		return match.Match{}, fmt.Errorf("%w: match=%s", ErrNotFound, matchID)
	}
	return item, nil
}

// Resume moves a match out of the interval into the second half. The
// minute stays where the break pinned it; the clock takes over from there.
func (s *MatchService) Resume(ctx context.Context, matchID string) (match.Match, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.Resume")
	defer span.End()

	item, err := s.Get(ctx, matchID)
	if err != nil {
		return match.Match{}, err
	}
	if item.Status != match.StatusHalfTime {
		return match.Match{}, fmt.Errorf("%w: cannot resume match in status %s", ErrInvalidTransition, item.Status)
	}

	status := match.StatusLive
	period := match.PeriodSecondHalf
	update := match.Update{
		Status: &status,
		Period: &period,
	}
	if err := s.matchRepo.ApplyUpdate(ctx, matchID, update); err != nil {
		return match.Match{}, fmt.Errorf("resume match %s: %w", matchID, err)
	}

	item.Status = status
	item.Period = &period
	s.logger.InfoContext(ctx, "match resumed", "match_id", matchID)
	return item, nil
}

type FinishMatchInput struct {
	HomeScore int
	AwayScore int
}

// Finish closes out a live or half-time match with its final score and
// queues the derived-data rebuilds. The finished row is locked afterwards.
func (s *MatchService) Finish(ctx context.Context, matchID string, input FinishMatchInput) (match.Match, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.Finish")
	defer span.End()

	if input.HomeScore < 0 || input.AwayScore < 0 {
		return match.Match{}, fmt.Errorf("%w: scores cannot be negative", ErrInvalidInput)
	}

	item, err := s.Get(ctx, matchID)
	if err != nil {
		return match.Match{}, err
	}
	switch item.Status {
	case match.StatusLive, match.StatusHalfTime:
	default:
		return match.Match{}, fmt.Errorf("%w: cannot finish match in status %s", ErrInvalidTransition, item.Status)
	}

	status := match.StatusFinished
	period := match.PeriodFullTime
	endedAt := s.now().UTC()
	update := match.Update{
		Status:    &status,
		Period:    &period,
		HomeScore: &input.HomeScore,
		AwayScore: &input.AwayScore,
		EndedAt:   &endedAt,
	}
	if err := s.matchRepo.ApplyUpdate(ctx, matchID, update); err != nil {
		return match.Match{}, fmt.Errorf("finish match %s: %w", matchID, err)
	}

	item.Status = status
	item.Period = &period
	item.HomeScore = &input.HomeScore
	item.AwayScore = &input.AwayScore
	item.EndedAt = &endedAt

	if err := s.recompute.EnqueueStats(ctx, matchID); err != nil {
		return match.Match{}, fmt.Errorf("enqueue stats recompute: %w", err)
	}
	if err := s.recompute.EnqueueStandings(ctx, item.SeasonID); err != nil {
		return match.Match{}, fmt.Errorf("enqueue standings recompute: %w", err)
	}

	s.logger.InfoContext(ctx, "match finished",
		"match_id", matchID,
		"home_score", input.HomeScore,
		"away_score", input.AwayScore,
	)
	return item, nil
}

// SetStatus applies an administrative side exit: postponed, abandoned or
// cancelled. Finished matches never change status again.
func (s *MatchService) SetStatus(ctx context.Context, matchID string, target match.Status) (match.Match, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.SetStatus")
	defer span.End()

	switch target {
	case match.StatusPostponed, match.StatusAbandoned, match.StatusCancelled:
	default:
		return match.Match{}, fmt.Errorf("%w: status %s cannot be set directly", ErrInvalidInput, target)
	}

	item, err := s.Get(ctx, matchID)
	if err != nil {
		return match.Match{}, err
	}
	if item.Status == match.StatusFinished {
		return match.Match{}, fmt.Errorf("%w: finished match cannot change status", ErrInvalidTransition)
	}

	update := match.Update{Status: &target}
	var endedAt time.Time
	if target == match.StatusAbandoned || target == match.StatusCancelled {
		endedAt = s.now().UTC()
		update.EndedAt = &endedAt
	}
	if err := s.matchRepo.ApplyUpdate(ctx, matchID, update); err != nil {
		return match.Match{}, fmt.Errorf("set match %s status: %w", matchID, err)
	}

	item.Status = target
	if update.EndedAt != nil {
		item.EndedAt = &endedAt
	}
	s.logger.InfoContext(ctx, "match status changed",
		"match_id", matchID,
		"status", string(target),
	)
	return item, nil
}

type AppendEventInput struct {
	TeamID   string
	PlayerID *string
	Type     string
	Minute   int
}

// AppendEvent writes one ledger entry. The ledger never mutates the score;
// final scores come in through Finish.
func (s *MatchService) AppendEvent(ctx context.Context, matchID string, input AppendEventInput) (matchevent.Event, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.AppendEvent")
	defer span.End()

	eventType, ok := matchevent.ParseEventType(input.Type)
	if !ok {
		return matchevent.Event{}, fmt.Errorf("%w: unknown event type %q", ErrInvalidInput, input.Type)
	}
	if input.Minute < 0 || input.Minute > match.MaxEventMinute {
		return matchevent.Event{}, fmt.Errorf("%w: minute must be between 0 and %d", ErrInvalidInput, match.MaxEventMinute)
	}

	item, err := s.Get(ctx, matchID)
	if err != nil {
		return matchevent.Event{}, err
	}

	input.TeamID = strings.TrimSpace(input.TeamID)
	if input.TeamID != item.HomeTeamID && input.TeamID != item.AwayTeamID {
		return matchevent.Event{}, fmt.Errorf("%w: team %s is not playing in match %s", ErrInvalidInput, input.TeamID, matchID)
	}

	eventID, err := s.idGen.NewID()
	if err != nil {
		return matchevent.Event{}, fmt.Errorf("generate event id: %w", err)
	}

	event := matchevent.Event{
		ID:        eventID,
		MatchID:   matchID,
		TeamID:    input.TeamID,
		PlayerID:  input.PlayerID,
		Type:      eventType,
		Minute:    input.Minute,
		CreatedAt: s.now().UTC(),
	}
	if err := s.eventRepo.Append(ctx, event); err != nil {
		return matchevent.Event{}, fmt.Errorf("append event: %w", err)
	}
	return event, nil
}

// Events lists the ledger for one match, optionally filtered.
func (s *MatchService) Events(ctx context.Context, matchID string, filter matchevent.Filter) ([]matchevent.Event, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.Events")
	defer span.End()

	if _, err := s.Get(ctx, matchID); err != nil {
		return nil, err
	}
	events, err := s.eventRepo.ListByMatch(ctx, matchID, filter)
	if err != nil {
		return nil, fmt.Errorf("list events match=%s: %w", matchID, err)
	}
	return events, nil
}
