package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/bagaspr/matchday/internal/domain/match"
	"github.com/bagaspr/matchday/internal/domain/user"
)

// MatchLockService is the pre-mutation guard: writes against a match in a
// terminal state are rejected with ErrMatchLocked unless the caller is an
// administrator. It runs before the mutating operation, so a denial leaves
// no partial side effects.
type MatchLockService struct {
	matchRepo match.Repository
}

func NewMatchLockService(matchRepo match.Repository) *MatchLockService {
	return &MatchLockService{matchRepo: matchRepo}
}

// Authorize gates one mutating request. An empty match id means the request
// does not target a specific match and passes through. An unknown match is
// a not-found, checked before any lock logic.
func (s *MatchLockService) Authorize(ctx context.Context, matchID string, role user.Role) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchLockService.Authorize")
	defer span.End()

	matchID = strings.TrimSpace(matchID)
	if matchID == "" {
		return nil
	}

	item, exists, err := s.matchRepo.GetByID(ctx, matchID)
	if err != nil {
		return fmt.Errorf("get match for lock check: %w", err)
	}
	if !exists {
		return fmt.Errorf("%w: match=%s", ErrNotFound, matchID)
	}

	if item.Status.IsLocked() && !role.AtLeast(user.RoleAdmin) {
		return fmt.Errorf("%w: match=%s status=%s", ErrMatchLocked, matchID, item.Status)
	}

	return nil
}
