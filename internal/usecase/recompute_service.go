package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel/trace"

	"github.com/bagaspr/matchday/internal/domain/job"
	"github.com/bagaspr/matchday/internal/platform/id"
	"github.com/bagaspr/matchday/internal/platform/logging"
)

// RecomputeService owns the derived-data queue: producers enqueue
// recomputation jobs here and the queue worker calls Handle for each
// claimed job. Handlers are idempotent, so at-least-once delivery from
// the queue is safe.
type RecomputeService struct {
	jobRepo     job.Repository
	standings   *StandingsService
	playerStats *PlayerStatsService
	idGen       id.Generator
	maxAttempts int
	logger      *logging.Logger
	now         func() time.Time
}

const defaultJobMaxAttempts = 5

func NewRecomputeService(
	jobRepo job.Repository,
	standings *StandingsService,
	playerStats *PlayerStatsService,
	idGen id.Generator,
	maxAttempts int,
	logger *logging.Logger,
) *RecomputeService {
	if idGen == nil {
		idGen = id.NewRandomGenerator()
	}
	if maxAttempts <= 0 {
		maxAttempts = defaultJobMaxAttempts
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &RecomputeService{
		jobRepo:     jobRepo,
		standings:   standings,
		playerStats: playerStats,
		idGen:       idGen,
		maxAttempts: maxAttempts,
		logger:      logger,
		now:         time.Now,
	}
}

// EnqueueStandings queues a standings rebuild for one season. A rebuild
// already queued for the same season is deduplicated away.
func (s *RecomputeService) EnqueueStandings(ctx context.Context, seasonID string) error {
	seasonID = strings.TrimSpace(seasonID)
	if seasonID == "" {
		return fmt.Errorf("%w: season id is required", ErrInvalidInput)
	}
	return s.enqueue(ctx, job.KindRecomputeStandings, "standings:"+seasonID, map[string]any{
		"season_id": seasonID,
	})
}

// EnqueueStats queues a player-stats rebuild for one finished match.
func (s *RecomputeService) EnqueueStats(ctx context.Context, matchID string) error {
	matchID = strings.TrimSpace(matchID)
	if matchID == "" {
		return fmt.Errorf("%w: match id is required", ErrInvalidInput)
	}
	return s.enqueue(ctx, job.KindRecomputeStats, "stats:"+matchID, map[string]any{
		"match_id": matchID,
	})
}

func (s *RecomputeService) enqueue(ctx context.Context, kind job.Kind, dedupKey string, payload map[string]any) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.RecomputeService.enqueue")
	defer span.End()

	jobID, err := s.idGen.NewID()
	if err != nil {
		return fmt.Errorf("generate job id: %w", err)
	}

	now := s.now().UTC()
	item := job.Job{
		ID:          jobID,
		Kind:        kind,
		DedupKey:    dedupKey,
		Payload:     payload,
		Status:      job.StatusQueued,
		MaxAttempts: s.maxAttempts,
		NextRunAt:   now,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if sc := trace.SpanContextFromContext(ctx); sc.IsValid() {
		item.TraceID = sc.TraceID().String()
		item.SpanID = sc.SpanID().String()
	}

	if err := s.jobRepo.Enqueue(ctx, item); err != nil {
		return fmt.Errorf("enqueue %s job: %w", kind, err)
	}

	s.logger.InfoContext(ctx, "recompute job enqueued",
		"job_id", jobID,
		"kind", string(kind),
		"dedup_key", dedupKey,
	)
	return nil
}

// Handle runs one claimed job to completion. An error return means the
// worker should schedule a retry; an unknown kind is reported so the
// worker can dead-letter it without burning retries.
func (s *RecomputeService) Handle(ctx context.Context, item job.Job) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.RecomputeService.Handle")
	defer span.End()

	switch item.Kind {
	case job.KindRecomputeStandings:
		return s.standings.Recompute(ctx, item.RefID())
	case job.KindRecomputeStats:
		return s.playerStats.RecomputeForMatch(ctx, item.RefID())
	default:
		return fmt.Errorf("%w: unknown job kind %q", ErrInvalidInput, item.Kind)
	}
}
