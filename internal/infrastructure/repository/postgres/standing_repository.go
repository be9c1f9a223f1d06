package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/bagaspr/matchday/internal/domain/standing"
	qb "github.com/bagaspr/matchday/internal/platform/querybuilder"
)

type StandingRepository struct {
	db *sqlx.DB
}

func NewStandingRepository(db *sqlx.DB) *StandingRepository {
	return &StandingRepository{db: db}
}

func (r *StandingRepository) ListBySeason(ctx context.Context, seasonID string) ([]standing.Standing, error) {
	query, args, err := qb.Select("*").From("league_standings").
		Where(qb.Eq("season_id", seasonID)).
		OrderBy("position", "points DESC", "goal_difference DESC", "team_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list standings query: %w", err)
	}

	var rows []standingTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list standings season=%s: %w", seasonID, err)
	}

	out := make([]standing.Standing, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

// UpsertAll writes the computed table in one transaction. Rows for teams
// outside the slice keep their previous values, which is the documented
// staleness of derived rows.
func (r *StandingRepository) UpsertAll(ctx context.Context, seasonID string, rows []standing.Standing) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx upsert standings: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	for _, item := range rows {
		model := standingInsertModel{
			SeasonID:        seasonID,
			TeamID:          item.TeamID,
			Position:        item.Position,
			Played:          item.Played,
			Wins:            item.Wins,
			Draws:           item.Draws,
			Losses:          item.Losses,
			GoalsFor:        item.GoalsFor,
			GoalsAgainst:    item.GoalsAgainst,
			GoalDifference:  item.GoalDifference,
			Points:          item.Points,
			PointsDeduction: item.PointsDeduction,
			LastComputedAt:  item.LastComputedAt,
		}
		query, args, err := qb.InsertModel("league_standings", model, `ON CONFLICT (season_id, team_id)
DO UPDATE SET
    position = EXCLUDED.position,
    played = EXCLUDED.played,
    wins = EXCLUDED.wins,
    draws = EXCLUDED.draws,
    losses = EXCLUDED.losses,
    goals_for = EXCLUDED.goals_for,
    goals_against = EXCLUDED.goals_against,
    goal_difference = EXCLUDED.goal_difference,
    points = EXCLUDED.points,
    points_deduction = EXCLUDED.points_deduction,
    last_computed_at = EXCLUDED.last_computed_at,
    updated_at = NOW()`)
		if err != nil {
			return fmt.Errorf("build upsert standing query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("upsert standing team=%s: %w", item.TeamID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit upsert standings tx: %w", err)
	}
	return nil
}

func (r *StandingRepository) PatchDeduction(ctx context.Context, seasonID, teamID string, deduction int) error {
	query, args, err := qb.InsertInto("league_standings").
		Columns("season_id", "team_id", "points_deduction").
		Values(seasonID, teamID, deduction).
		Suffix(`ON CONFLICT (season_id, team_id)
DO UPDATE SET
    points_deduction = EXCLUDED.points_deduction,
    updated_at = NOW()`).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build patch deduction query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("patch deduction season=%s team=%s: %w", seasonID, teamID, err)
	}
	return nil
}
