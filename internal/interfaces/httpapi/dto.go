package httpapi

import (
	"time"

	"github.com/bagaspr/matchday/internal/domain/match"
	"github.com/bagaspr/matchday/internal/domain/matchevent"
	"github.com/bagaspr/matchday/internal/domain/playerstat"
	"github.com/bagaspr/matchday/internal/domain/standing"
)

type matchDTO struct {
	ID            string     `json:"id"`
	SeasonID      string     `json:"season_id"`
	HomeTeamID    string     `json:"home_team_id"`
	AwayTeamID    string     `json:"away_team_id"`
	Status        string     `json:"status"`
	Period        *string    `json:"period,omitempty"`
	KickoffAt     time.Time  `json:"kickoff_at"`
	CurrentMinute *int       `json:"current_minute,omitempty"`
	HomeScore     *int       `json:"home_score,omitempty"`
	AwayScore     *int       `json:"away_score,omitempty"`
	StartedAt     *time.Time `json:"started_at,omitempty"`
	EndedAt       *time.Time `json:"ended_at,omitempty"`
}

func toMatchDTO(item match.Match) matchDTO {
	var period *string
	if item.Period != nil {
		value := string(*item.Period)
		period = &value
	}

	return matchDTO{
		ID:            item.ID,
		SeasonID:      item.SeasonID,
		HomeTeamID:    item.HomeTeamID,
		AwayTeamID:    item.AwayTeamID,
		Status:        string(item.Status),
		Period:        period,
		KickoffAt:     item.KickoffAt,
		CurrentMinute: item.CurrentMinute,
		HomeScore:     item.HomeScore,
		AwayScore:     item.AwayScore,
		StartedAt:     item.StartedAt,
		EndedAt:       item.EndedAt,
	}
}

type eventDTO struct {
	ID        string    `json:"id"`
	MatchID   string    `json:"match_id"`
	TeamID    string    `json:"team_id"`
	PlayerID  *string   `json:"player_id,omitempty"`
	Type      string    `json:"type"`
	Minute    int       `json:"minute"`
	CreatedAt time.Time `json:"created_at"`
}

func toEventDTO(event matchevent.Event) eventDTO {
	return eventDTO{
		ID:        event.ID,
		MatchID:   event.MatchID,
		TeamID:    event.TeamID,
		PlayerID:  event.PlayerID,
		Type:      string(event.Type),
		Minute:    event.Minute,
		CreatedAt: event.CreatedAt,
	}
}

type matchEventsDTO struct {
	Events []eventDTO `json:"events"`
}

type standingDTO struct {
	TeamID          string `json:"team_id"`
	Position        int    `json:"position"`
	Played          int    `json:"played"`
	Wins            int    `json:"wins"`
	Draws           int    `json:"draws"`
	Losses          int    `json:"losses"`
	GoalsFor        int    `json:"goals_for"`
	GoalsAgainst    int    `json:"goals_against"`
	GoalDifference  int    `json:"goal_difference"`
	Points          int    `json:"points"`
	PointsDeduction int    `json:"points_deduction"`
}

func toStandingDTO(row standing.Standing) standingDTO {
	return standingDTO{
		TeamID:          row.TeamID,
		Position:        row.Position,
		Played:          row.Played,
		Wins:            row.Wins,
		Draws:           row.Draws,
		Losses:          row.Losses,
		GoalsFor:        row.GoalsFor,
		GoalsAgainst:    row.GoalsAgainst,
		GoalDifference:  row.GoalDifference,
		Points:          row.Points,
		PointsDeduction: row.PointsDeduction,
	}
}

type standingsDTO struct {
	SeasonID  string        `json:"season_id"`
	Standings []standingDTO `json:"standings"`
}

type seasonStatDTO struct {
	TeamID        string `json:"team_id"`
	Appearances   int    `json:"appearances"`
	Goals         int    `json:"goals"`
	MinutesPlayed int    `json:"minutes_played"`
}

func toSeasonStatDTO(stat playerstat.SeasonStat) seasonStatDTO {
	return seasonStatDTO{
		TeamID:        stat.TeamID,
		Appearances:   stat.Appearances,
		Goals:         stat.Goals,
		MinutesPlayed: stat.MinutesPlayed,
	}
}

type seasonStatsDTO struct {
	SeasonID string          `json:"season_id"`
	PlayerID string          `json:"player_id"`
	Stats    []seasonStatDTO `json:"stats"`
}
