package postgres

import (
	"database/sql"
	"time"

	"github.com/bagaspr/matchday/internal/domain/match"
)

type matchTableModel struct {
	ID            string        `db:"public_id"`
	SeasonID      string        `db:"season_id"`
	HomeTeamID    string        `db:"home_team_id"`
	AwayTeamID    string        `db:"away_team_id"`
	Status        string        `db:"status"`
	Period        *string       `db:"period"`
	KickoffAt     time.Time     `db:"kickoff_at"`
	CurrentMinute sql.NullInt64 `db:"current_minute"`
	HomeScore     sql.NullInt64 `db:"home_score"`
	AwayScore     sql.NullInt64 `db:"away_score"`
	StartedAt     sql.NullTime  `db:"started_at"`
	EndedAt       sql.NullTime  `db:"ended_at"`
	CreatedAt     time.Time     `db:"created_at"`
	UpdatedAt     time.Time     `db:"updated_at"`
}

type matchInsertModel struct {
	ID         string    `db:"public_id"`
	SeasonID   string    `db:"season_id"`
	HomeTeamID string    `db:"home_team_id"`
	AwayTeamID string    `db:"away_team_id"`
	Status     string    `db:"status"`
	Period     *string   `db:"period"`
	KickoffAt  time.Time `db:"kickoff_at"`
}

func (m matchTableModel) toDomain() match.Match {
	out := match.Match{
		ID:            m.ID,
		SeasonID:      m.SeasonID,
		HomeTeamID:    m.HomeTeamID,
		AwayTeamID:    m.AwayTeamID,
		Status:        match.Status(m.Status),
		KickoffAt:     m.KickoffAt,
		CurrentMinute: nullIntToIntPtr(m.CurrentMinute),
		HomeScore:     nullIntToIntPtr(m.HomeScore),
		AwayScore:     nullIntToIntPtr(m.AwayScore),
		StartedAt:     nullTimeToTimePtr(m.StartedAt),
		EndedAt:       nullTimeToTimePtr(m.EndedAt),
	}
	if m.Period != nil {
		period := match.Period(*m.Period)
		out.Period = &period
	}
	return out
}
