package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/bagaspr/matchday/internal/domain/playerstat"
)

type PlayerStatRepository struct {
	mu   sync.RWMutex
	rows map[string]playerstat.SeasonStat
}

func NewPlayerStatRepository() *PlayerStatRepository {
	return &PlayerStatRepository{rows: make(map[string]playerstat.SeasonStat)}
}

func statKey(playerID, seasonID, teamID string) string {
	return playerID + "|" + seasonID + "|" + teamID
}

func (r *PlayerStatRepository) Get(_ context.Context, playerID, seasonID, teamID string) (playerstat.SeasonStat, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	row, ok := r.rows[statKey(playerID, seasonID, teamID)]
	return row, ok, nil
}

func (r *PlayerStatRepository) ListBySeasonAndPlayer(_ context.Context, seasonID, playerID string) ([]playerstat.SeasonStat, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]playerstat.SeasonStat, 0)
	for _, row := range r.rows {
		if row.SeasonID == seasonID && row.PlayerID == playerID {
			out = append(out, row)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].TeamID < out[j].TeamID })
	return out, nil
}

func (r *PlayerStatRepository) Upsert(_ context.Context, row playerstat.SeasonStat) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.rows[statKey(row.PlayerID, row.SeasonID, row.TeamID)] = row
	return nil
}

func (r *PlayerStatRepository) Accumulate(_ context.Context, row playerstat.SeasonStat) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := statKey(row.PlayerID, row.SeasonID, row.TeamID)
	existing, ok := r.rows[key]
	if !ok {
		r.rows[key] = row
		return nil
	}

	existing.Appearances += row.Appearances
	existing.Goals += row.Goals
	existing.MinutesPlayed += row.MinutesPlayed
	existing.LastComputedAt = row.LastComputedAt
	r.rows[key] = existing
	return nil
}
