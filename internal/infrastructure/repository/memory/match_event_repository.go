package memory

import (
	"context"
	"sync"

	"github.com/bagaspr/matchday/internal/domain/matchevent"
)

type MatchEventRepository struct {
	mu      sync.RWMutex
	byMatch map[string][]matchevent.Event
}

func NewMatchEventRepository(events []matchevent.Event) *MatchEventRepository {
	byMatch := make(map[string][]matchevent.Event)
	for _, event := range events {
		byMatch[event.MatchID] = append(byMatch[event.MatchID], event)
	}

	return &MatchEventRepository{byMatch: byMatch}
}

func (r *MatchEventRepository) Append(_ context.Context, event matchevent.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.byMatch[event.MatchID] = append(r.byMatch[event.MatchID], event)
	return nil
}

func (r *MatchEventRepository) ListByMatch(_ context.Context, matchID string, filter matchevent.Filter) ([]matchevent.Event, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	items := r.byMatch[matchID]
	out := make([]matchevent.Event, 0, len(items))
	for _, event := range items {
		if filter.Type != "" && event.Type != filter.Type {
			continue
		}
		if filter.PlayerID != "" && (event.PlayerID == nil || *event.PlayerID != filter.PlayerID) {
			continue
		}
		out = append(out, event)
	}
	return out, nil
}
