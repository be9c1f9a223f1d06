package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/bagaspr/matchday/internal/domain/standing"
)

type StandingRepository struct {
	mu       sync.RWMutex
	bySeason map[string]map[string]standing.Standing
}

func NewStandingRepository() *StandingRepository {
	return &StandingRepository{bySeason: make(map[string]map[string]standing.Standing)}
}

func (r *StandingRepository) ListBySeason(_ context.Context, seasonID string) ([]standing.Standing, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rows := r.bySeason[seasonID]
	out := make([]standing.Standing, 0, len(rows))
	for _, row := range rows {
		out = append(out, row)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Position != out[j].Position {
			return out[i].Position < out[j].Position
		}
		return out[i].TeamID < out[j].TeamID
	})
	return out, nil
}

func (r *StandingRepository) UpsertAll(_ context.Context, seasonID string, rows []standing.Standing) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	season := r.bySeason[seasonID]
	if season == nil {
		season = make(map[string]standing.Standing, len(rows))
		r.bySeason[seasonID] = season
	}
	for _, row := range rows {
		season[row.TeamID] = row
	}
	return nil
}

func (r *StandingRepository) PatchDeduction(_ context.Context, seasonID, teamID string, deduction int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	season := r.bySeason[seasonID]
	if season == nil {
		season = make(map[string]standing.Standing)
		r.bySeason[seasonID] = season
	}

	row, ok := season[teamID]
	if !ok {
		row = standing.Standing{SeasonID: seasonID, TeamID: teamID}
	}
	row.PointsDeduction = deduction
	season[teamID] = row
	return nil
}
