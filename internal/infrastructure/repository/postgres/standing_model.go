package postgres

import (
	"time"

	"github.com/bagaspr/matchday/internal/domain/standing"
)

type standingTableModel struct {
	ID              int64     `db:"id"`
	SeasonID        string    `db:"season_id"`
	TeamID          string    `db:"team_id"`
	Position        int       `db:"position"`
	Played          int       `db:"played"`
	Wins            int       `db:"wins"`
	Draws           int       `db:"draws"`
	Losses          int       `db:"losses"`
	GoalsFor        int       `db:"goals_for"`
	GoalsAgainst    int       `db:"goals_against"`
	GoalDifference  int       `db:"goal_difference"`
	Points          int       `db:"points"`
	PointsDeduction int       `db:"points_deduction"`
	LastComputedAt  time.Time `db:"last_computed_at"`
	CreatedAt       time.Time `db:"created_at"`
	UpdatedAt       time.Time `db:"updated_at"`
}

type standingInsertModel struct {
	SeasonID        string    `db:"season_id"`
	TeamID          string    `db:"team_id"`
	Position        int       `db:"position"`
	Played          int       `db:"played"`
	Wins            int       `db:"wins"`
	Draws           int       `db:"draws"`
	Losses          int       `db:"losses"`
	GoalsFor        int       `db:"goals_for"`
	GoalsAgainst    int       `db:"goals_against"`
	GoalDifference  int       `db:"goal_difference"`
	Points          int       `db:"points"`
	PointsDeduction int       `db:"points_deduction"`
	LastComputedAt  time.Time `db:"last_computed_at"`
}

func (m standingTableModel) toDomain() standing.Standing {
	return standing.Standing{
		SeasonID:        m.SeasonID,
		TeamID:          m.TeamID,
		Position:        m.Position,
		Played:          m.Played,
		Wins:            m.Wins,
		Draws:           m.Draws,
		Losses:          m.Losses,
		GoalsFor:        m.GoalsFor,
		GoalsAgainst:    m.GoalsAgainst,
		GoalDifference:  m.GoalDifference,
		Points:          m.Points,
		PointsDeduction: m.PointsDeduction,
		LastComputedAt:  m.LastComputedAt,
	}
}
