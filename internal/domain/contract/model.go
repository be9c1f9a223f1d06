package contract

import "time"

// Contract links a player to a team for a time window. IsCurrent marks the
// contract active now; the stats engine only looks at current contracts.
type Contract struct {
	ID        string
	PlayerID  string
	TeamID    string
	IsCurrent bool
	StartDate time.Time
	EndDate   *time.Time
}
