package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/bagaspr/matchday/internal/domain/matchevent"
	qb "github.com/bagaspr/matchday/internal/platform/querybuilder"
)

type matchEventTableModel struct {
	ID        string    `db:"public_id"`
	MatchID   string    `db:"match_id"`
	TeamID    string    `db:"team_id"`
	PlayerID  *string   `db:"player_id"`
	Type      string    `db:"event_type"`
	Minute    int       `db:"minute"`
	CreatedAt time.Time `db:"created_at"`
}

type MatchEventRepository struct {
	db *sqlx.DB
}

func NewMatchEventRepository(db *sqlx.DB) *MatchEventRepository {
	return &MatchEventRepository{db: db}
}

func (r *MatchEventRepository) Append(ctx context.Context, event matchevent.Event) error {
	model := matchEventTableModel{
		ID:        event.ID,
		MatchID:   event.MatchID,
		TeamID:    event.TeamID,
		PlayerID:  event.PlayerID,
		Type:      string(event.Type),
		Minute:    event.Minute,
		CreatedAt: event.CreatedAt,
	}
	query, args, err := qb.InsertModel("match_events", model, "")
	if err != nil {
		return fmt.Errorf("build insert match event query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert match event %s: %w", event.ID, err)
	}
	return nil
}

func (r *MatchEventRepository) ListByMatch(ctx context.Context, matchID string, filter matchevent.Filter) ([]matchevent.Event, error) {
	conditions := []qb.Condition{qb.Eq("match_id", matchID)}
	if filter.Type != "" {
		conditions = append(conditions, qb.Eq("event_type", string(filter.Type)))
	}
	if filter.PlayerID != "" {
		conditions = append(conditions, qb.Eq("player_id", filter.PlayerID))
	}

	query, args, err := qb.Select("*").From("match_events").
		Where(conditions...).
		OrderBy("minute", "created_at", "public_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list match events query: %w", err)
	}

	var rows []matchEventTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list match events match=%s: %w", matchID, err)
	}

	out := make([]matchevent.Event, 0, len(rows))
	for _, row := range rows {
		out = append(out, matchevent.Event{
			ID:        row.ID,
			MatchID:   row.MatchID,
			TeamID:    row.TeamID,
			PlayerID:  row.PlayerID,
			Type:      matchevent.EventType(row.Type),
			Minute:    row.Minute,
			CreatedAt: row.CreatedAt,
		})
	}
	return out, nil
}
