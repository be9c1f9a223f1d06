package match

import (
	"strings"
	"time"
)

type Status string

const (
	StatusScheduled Status = "scheduled"
	StatusLive      Status = "live"
	StatusHalfTime  Status = "half_time"
	StatusFinished  Status = "finished"
	StatusPostponed Status = "postponed"
	StatusAbandoned Status = "abandoned"
	StatusCancelled Status = "cancelled"
)

type Period string

const (
	PeriodPreKickoff Period = "pre_kickoff"
	PeriodFirstHalf  Period = "first_half"
	PeriodHalfTime   Period = "half_time"
	PeriodSecondHalf Period = "second_half"
	PeriodFullTime   Period = "full_time"
)

const (
	HalfTimeMinute = 45
	FullTimeMinute = 90
	// MaxEventMinute allows stoppage and extra time in the event ledger.
	MaxEventMinute = 130
)

// Match is the persisted representation of one game. It is mutated only
// through the documented transitions (auto-start, clock tick, admin actions).
type Match struct {
	ID            string
	SeasonID      string
	HomeTeamID    string
	AwayTeamID    string
	Status        Status
	Period        *Period
	KickoffAt     time.Time
	CurrentMinute *int
	HomeScore     *int
	AwayScore     *int
	StartedAt     *time.Time
	EndedAt       *time.Time
}

func ParseStatus(value string) (Status, bool) {
	switch Status(strings.ToLower(strings.TrimSpace(value))) {
	case StatusScheduled:
		return StatusScheduled, true
	case StatusLive:
		return StatusLive, true
	case StatusHalfTime:
		return StatusHalfTime, true
	case StatusFinished:
		return StatusFinished, true
	case StatusPostponed:
		return StatusPostponed, true
	case StatusAbandoned:
		return StatusAbandoned, true
	case StatusCancelled:
		return StatusCancelled, true
	default:
		return "", false
	}
}

// IsTerminal reports whether no further transition can occur.
func (s Status) IsTerminal() bool {
	switch s {
	case StatusFinished, StatusAbandoned, StatusCancelled:
		return true
	default:
		return false
	}
}

// IsLocked reports whether ordinary mutation of the match and its events
// must be rejected. Postponed matches stay editable so they can be
// rescheduled; the terminal states do not.
func (s Status) IsLocked() bool {
	return s.IsTerminal()
}

func (m Match) HasFinalScore() bool {
	return m.HomeScore != nil && m.AwayScore != nil
}

// Update carries an atomic multi-field partial update. Nil fields are left
// untouched; set fields are applied in a single UPDATE so a transition can
// never be half-applied.
type Update struct {
	Status        *Status
	Period        *Period
	CurrentMinute *int
	HomeScore     *int
	AwayScore     *int
	StartedAt     *time.Time
	EndedAt       *time.Time
	KickoffAt     *time.Time
}

func (u Update) IsZero() bool {
	return u.Status == nil &&
		u.Period == nil &&
		u.CurrentMinute == nil &&
		u.HomeScore == nil &&
		u.AwayScore == nil &&
		u.StartedAt == nil &&
		u.EndedAt == nil &&
		u.KickoffAt == nil
}
