package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/bagaspr/matchday/internal/domain/job"
	"github.com/bagaspr/matchday/internal/domain/match"
	"github.com/bagaspr/matchday/internal/domain/user"
	jobmock "github.com/bagaspr/matchday/internal/mocks/domain/job"
	matchmock "github.com/bagaspr/matchday/internal/mocks/domain/match"
	"github.com/bagaspr/matchday/internal/platform/logging"
)

func TestMatchLockService_Authorize_LockedForModeratorUsingMockery(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	matchRepo := matchmock.NewRepository(t)
	service := NewMatchLockService(matchRepo)

	matchID := "idn-m-2025-001"
	matchRepo.
		On("GetByID", mock.MatchedBy(func(v context.Context) bool { return v != nil }), matchID).
		Return(match.Match{ID: matchID, Status: match.StatusFinished}, true, nil).
		Once()

	err := service.Authorize(ctx, matchID, user.RoleModerator)
	if !errors.Is(err, ErrMatchLocked) {
		t.Fatalf("expected ErrMatchLocked, got %v", err)
	}
}

func TestMatchLockService_Authorize_AdminBypassUsingMockery(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	matchRepo := matchmock.NewRepository(t)
	service := NewMatchLockService(matchRepo)

	matchID := "idn-m-2025-001"
	matchRepo.
		On("GetByID", mock.MatchedBy(func(v context.Context) bool { return v != nil }), matchID).
		Return(match.Match{ID: matchID, Status: match.StatusCancelled}, true, nil).
		Once()

	if err := service.Authorize(ctx, matchID, user.RoleAdmin); err != nil {
		t.Fatalf("admin authorize: %v", err)
	}
}

func TestRecomputeService_EnqueueStandings_UsingMockery(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	jobRepo := jobmock.NewRepository(t)
	service := NewRecomputeService(jobRepo, nil, nil, nil, 0, logging.NewNop())

	seasonID := "idn-liga-1-2025"
	jobRepo.
		On("Enqueue", mock.MatchedBy(func(v context.Context) bool { return v != nil }), mock.MatchedBy(func(item job.Job) bool {
			return item.Kind == job.KindRecomputeStandings &&
				item.DedupKey == "standings:"+seasonID &&
				item.Status == job.StatusQueued &&
				item.MaxAttempts == 5 &&
				!item.NextRunAt.After(time.Now().UTC())
		})).
		Return(nil).
		Once()

	if err := service.EnqueueStandings(ctx, seasonID); err != nil {
		t.Fatalf("enqueue standings: %v", err)
	}
}
