package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/bagaspr/matchday/internal/domain/match"
)

type MatchRepository struct {
	mu   sync.RWMutex
	byID map[string]match.Match
}

func NewMatchRepository(matches []match.Match) *MatchRepository {
	byID := make(map[string]match.Match, len(matches))
	for _, item := range matches {
		byID[item.ID] = item
	}

	return &MatchRepository{byID: byID}
}

func (r *MatchRepository) Create(_ context.Context, item match.Match) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byID[item.ID]; exists {
		return fmt.Errorf("match %s already exists", item.ID)
	}
	r.byID[item.ID] = item
	return nil
}

func (r *MatchRepository) GetByID(_ context.Context, matchID string) (match.Match, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.byID[matchID]
	return item, ok, nil
}

func (r *MatchRepository) ListByStatus(_ context.Context, status match.Status) ([]match.Match, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]match.Match, 0)
	for _, item := range r.byID {
		if item.Status == status {
			out = append(out, item)
		}
	}
	sortByKickoff(out)
	return out, nil
}

func (r *MatchRepository) ListFinishedBySeason(_ context.Context, seasonID string) ([]match.Match, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]match.Match, 0)
	for _, item := range r.byID {
		if item.SeasonID == seasonID && item.Status == match.StatusFinished {
			out = append(out, item)
		}
	}
	sortByKickoff(out)
	return out, nil
}

func (r *MatchRepository) ApplyUpdate(_ context.Context, matchID string, update match.Update) error {
	if update.IsZero() {
		return nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	item, ok := r.byID[matchID]
	if !ok {
		return fmt.Errorf("match %s not found", matchID)
	}

	if update.Status != nil {
		item.Status = *update.Status
	}
	if update.Period != nil {
		item.Period = update.Period
	}
	if update.CurrentMinute != nil {
		item.CurrentMinute = update.CurrentMinute
	}
	if update.HomeScore != nil {
		item.HomeScore = update.HomeScore
	}
	if update.AwayScore != nil {
		item.AwayScore = update.AwayScore
	}
	if update.StartedAt != nil {
		item.StartedAt = update.StartedAt
	}
	if update.EndedAt != nil {
		item.EndedAt = update.EndedAt
	}
	if update.KickoffAt != nil {
		item.KickoffAt = *update.KickoffAt
	}

	r.byID[matchID] = item
	return nil
}

func sortByKickoff(items []match.Match) {
	sort.Slice(items, func(i, j int) bool {
		if !items[i].KickoffAt.Equal(items[j].KickoffAt) {
			return items[i].KickoffAt.Before(items[j].KickoffAt)
		}
		return items[i].ID < items[j].ID
	})
}
