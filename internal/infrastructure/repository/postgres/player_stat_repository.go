package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/bagaspr/matchday/internal/domain/playerstat"
	qb "github.com/bagaspr/matchday/internal/platform/querybuilder"
)

type playerStatTableModel struct {
	ID             int64     `db:"id"`
	PlayerID       string    `db:"player_id"`
	SeasonID       string    `db:"season_id"`
	TeamID         string    `db:"team_id"`
	Appearances    int       `db:"appearances"`
	Goals          int       `db:"goals"`
	MinutesPlayed  int       `db:"minutes_played"`
	LastComputedAt time.Time `db:"last_computed_at"`
	CreatedAt      time.Time `db:"created_at"`
	UpdatedAt      time.Time `db:"updated_at"`
}

type playerStatInsertModel struct {
	PlayerID       string    `db:"player_id"`
	SeasonID       string    `db:"season_id"`
	TeamID         string    `db:"team_id"`
	Appearances    int       `db:"appearances"`
	Goals          int       `db:"goals"`
	MinutesPlayed  int       `db:"minutes_played"`
	LastComputedAt time.Time `db:"last_computed_at"`
}

func (m playerStatTableModel) toDomain() playerstat.SeasonStat {
	return playerstat.SeasonStat{
		PlayerID:       m.PlayerID,
		SeasonID:       m.SeasonID,
		TeamID:         m.TeamID,
		Appearances:    m.Appearances,
		Goals:          m.Goals,
		MinutesPlayed:  m.MinutesPlayed,
		LastComputedAt: m.LastComputedAt,
	}
}

type PlayerStatRepository struct {
	db *sqlx.DB
}

func NewPlayerStatRepository(db *sqlx.DB) *PlayerStatRepository {
	return &PlayerStatRepository{db: db}
}

func (r *PlayerStatRepository) Get(ctx context.Context, playerID, seasonID, teamID string) (playerstat.SeasonStat, bool, error) {
	query, args, err := qb.Select("*").From("player_season_stats").
		Where(
			qb.Eq("player_id", playerID),
			qb.Eq("season_id", seasonID),
			qb.Eq("team_id", teamID),
		).
		Limit(1).
		ToSQL()
	if err != nil {
		return playerstat.SeasonStat{}, false, fmt.Errorf("build get player stat query: %w", err)
	}

	var row playerStatTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return playerstat.SeasonStat{}, false, nil
		}
		return playerstat.SeasonStat{}, false, fmt.Errorf("get player stat player=%s: %w", playerID, err)
	}
	return row.toDomain(), true, nil
}

func (r *PlayerStatRepository) ListBySeasonAndPlayer(ctx context.Context, seasonID, playerID string) ([]playerstat.SeasonStat, error) {
	query, args, err := qb.Select("*").From("player_season_stats").
		Where(
			qb.Eq("season_id", seasonID),
			qb.Eq("player_id", playerID),
		).
		OrderBy("team_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list player stats query: %w", err)
	}

	var rows []playerStatTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list player stats season=%s player=%s: %w", seasonID, playerID, err)
	}

	out := make([]playerstat.SeasonStat, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

// Upsert overwrites the derived fields wholesale on conflict.
func (r *PlayerStatRepository) Upsert(ctx context.Context, row playerstat.SeasonStat) error {
	query, args, err := qb.InsertModel("player_season_stats", toPlayerStatInsert(row), `ON CONFLICT (player_id, season_id, team_id)
DO UPDATE SET
    appearances = EXCLUDED.appearances,
    goals = EXCLUDED.goals,
    minutes_played = EXCLUDED.minutes_played,
    last_computed_at = EXCLUDED.last_computed_at,
    updated_at = NOW()`)
	if err != nil {
		return fmt.Errorf("build upsert player stat query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert player stat player=%s: %w", row.PlayerID, err)
	}
	return nil
}

// Accumulate adds the delta onto the stored row on conflict.
func (r *PlayerStatRepository) Accumulate(ctx context.Context, row playerstat.SeasonStat) error {
	query, args, err := qb.InsertModel("player_season_stats", toPlayerStatInsert(row), `ON CONFLICT (player_id, season_id, team_id)
DO UPDATE SET
    appearances = player_season_stats.appearances + EXCLUDED.appearances,
    goals = player_season_stats.goals + EXCLUDED.goals,
    minutes_played = player_season_stats.minutes_played + EXCLUDED.minutes_played,
    last_computed_at = EXCLUDED.last_computed_at,
    updated_at = NOW()`)
	if err != nil {
		return fmt.Errorf("build accumulate player stat query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("accumulate player stat player=%s: %w", row.PlayerID, err)
	}
	return nil
}

func toPlayerStatInsert(row playerstat.SeasonStat) playerStatInsertModel {
	return playerStatInsertModel{
		PlayerID:       row.PlayerID,
		SeasonID:       row.SeasonID,
		TeamID:         row.TeamID,
		Appearances:    row.Appearances,
		Goals:          row.Goals,
		MinutesPlayed:  row.MinutesPlayed,
		LastComputedAt: row.LastComputedAt,
	}
}
