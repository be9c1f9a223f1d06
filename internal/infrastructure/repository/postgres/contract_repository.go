package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/bagaspr/matchday/internal/domain/contract"
	qb "github.com/bagaspr/matchday/internal/platform/querybuilder"
)

type contractTableModel struct {
	ID        string       `db:"public_id"`
	PlayerID  string       `db:"player_id"`
	TeamID    string       `db:"team_id"`
	IsCurrent bool         `db:"is_current"`
	StartDate time.Time    `db:"start_date"`
	EndDate   sql.NullTime `db:"end_date"`
}

type ContractRepository struct {
	db *sqlx.DB
}

func NewContractRepository(db *sqlx.DB) *ContractRepository {
	return &ContractRepository{db: db}
}

func (r *ContractRepository) ListCurrentByTeam(ctx context.Context, teamID string) ([]contract.Contract, error) {
	query, args, err := qb.Select("public_id", "player_id", "team_id", "is_current", "start_date", "end_date").
		From("contracts").
		Where(
			qb.Eq("team_id", teamID),
			qb.Eq("is_current", true),
		).
		OrderBy("player_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list current contracts query: %w", err)
	}

	var rows []contractTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list current contracts team=%s: %w", teamID, err)
	}

	out := make([]contract.Contract, 0, len(rows))
	for _, row := range rows {
		out = append(out, contract.Contract{
			ID:        row.ID,
			PlayerID:  row.PlayerID,
			TeamID:    row.TeamID,
			IsCurrent: row.IsCurrent,
			StartDate: row.StartDate,
			EndDate:   nullTimeToTimePtr(row.EndDate),
		})
	}
	return out, nil
}
