package matchevent

import (
	"strings"
	"time"
)

type EventType string

const (
	TypeGoal          EventType = "goal"
	TypeOwnGoal       EventType = "own_goal"
	TypeYellowCard    EventType = "yellow_card"
	TypeRedCard       EventType = "red_card"
	TypeSubstitution  EventType = "substitution"
	TypePenaltyScored EventType = "penalty_scored"
	TypePenaltyMissed EventType = "penalty_missed"
)

// Event is one append-only ledger entry. Entries are immutable once written
// and (matchID, minute, type, playerID) is deliberately not unique: the same
// player can score twice in the same minute.
type Event struct {
	ID        string
	MatchID   string
	TeamID    string
	PlayerID  *string
	Type      EventType
	Minute    int
	CreatedAt time.Time
}

func ParseEventType(value string) (EventType, bool) {
	switch EventType(strings.ToLower(strings.TrimSpace(value))) {
	case TypeGoal:
		return TypeGoal, true
	case TypeOwnGoal:
		return TypeOwnGoal, true
	case TypeYellowCard:
		return TypeYellowCard, true
	case TypeRedCard:
		return TypeRedCard, true
	case TypeSubstitution:
		return TypeSubstitution, true
	case TypePenaltyScored:
		return TypePenaltyScored, true
	case TypePenaltyMissed:
		return TypePenaltyMissed, true
	default:
		return "", false
	}
}
