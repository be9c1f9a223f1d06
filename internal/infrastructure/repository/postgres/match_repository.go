package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/bagaspr/matchday/internal/domain/match"
	qb "github.com/bagaspr/matchday/internal/platform/querybuilder"
)

type MatchRepository struct {
	db *sqlx.DB
}

func NewMatchRepository(db *sqlx.DB) *MatchRepository {
	return &MatchRepository{db: db}
}

func (r *MatchRepository) Create(ctx context.Context, item match.Match) error {
	var period *string
	if item.Period != nil {
		value := string(*item.Period)
		period = &value
	}

	model := matchInsertModel{
		ID:         item.ID,
		SeasonID:   item.SeasonID,
		HomeTeamID: item.HomeTeamID,
		AwayTeamID: item.AwayTeamID,
		Status:     string(item.Status),
		Period:     period,
		KickoffAt:  item.KickoffAt,
	}
	query, args, err := qb.InsertModel("matches", model, "")
	if err != nil {
		return fmt.Errorf("build insert match query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("match %s already exists", item.ID)
		}
		return fmt.Errorf("insert match %s: %w", item.ID, err)
	}
	return nil
}

func (r *MatchRepository) GetByID(ctx context.Context, matchID string) (match.Match, bool, error) {
	query, args, err := qb.Select("*").From("matches").
		Where(qb.Eq("public_id", matchID)).
		Limit(1).
		ToSQL()
	if err != nil {
		return match.Match{}, false, fmt.Errorf("build get match query: %w", err)
	}

	var row matchTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return match.Match{}, false, nil
		}
		return match.Match{}, false, fmt.Errorf("get match %s: %w", matchID, err)
	}
	return row.toDomain(), true, nil
}

func (r *MatchRepository) ListByStatus(ctx context.Context, status match.Status) ([]match.Match, error) {
	query, args, err := qb.Select("*").From("matches").
		Where(qb.Eq("status", string(status))).
		OrderBy("kickoff_at", "public_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list matches by status query: %w", err)
	}

	var rows []matchTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list matches status=%s: %w", status, err)
	}

	out := make([]match.Match, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

func (r *MatchRepository) ListFinishedBySeason(ctx context.Context, seasonID string) ([]match.Match, error) {
	query, args, err := qb.Select("*").From("matches").
		Where(
			qb.Eq("season_id", seasonID),
			qb.Eq("status", string(match.StatusFinished)),
		).
		OrderBy("kickoff_at", "public_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list finished matches query: %w", err)
	}

	var rows []matchTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list finished matches season=%s: %w", seasonID, err)
	}

	out := make([]match.Match, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

// ApplyUpdate writes every set field in one UPDATE so a state transition
// lands atomically or not at all.
func (r *MatchRepository) ApplyUpdate(ctx context.Context, matchID string, update match.Update) error {
	if update.IsZero() {
		return nil
	}

	builder := qb.Update("matches").SetExpr("updated_at", "NOW()")
	if update.Status != nil {
		builder.Set("status", string(*update.Status))
	}
	if update.Period != nil {
		builder.Set("period", string(*update.Period))
	}
	if update.CurrentMinute != nil {
		builder.Set("current_minute", *update.CurrentMinute)
	}
	if update.HomeScore != nil {
		builder.Set("home_score", *update.HomeScore)
	}
	if update.AwayScore != nil {
		builder.Set("away_score", *update.AwayScore)
	}
	if update.StartedAt != nil {
		builder.Set("started_at", *update.StartedAt)
	}
	if update.EndedAt != nil {
		builder.Set("ended_at", *update.EndedAt)
	}
	if update.KickoffAt != nil {
		builder.Set("kickoff_at", *update.KickoffAt)
	}

	query, args, err := builder.Where(qb.Eq("public_id", matchID)).ToSQL()
	if err != nil {
		return fmt.Errorf("build update match query: %w", err)
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update match %s: %w", matchID, err)
	}
	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		return fmt.Errorf("match %s not found", matchID)
	}
	return nil
}
