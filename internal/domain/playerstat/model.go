package playerstat

import "time"

// SeasonStat is one per-player per-season aggregate, keyed
// (PlayerID, SeasonID, TeamID). Derived state with the same upsert
// discipline as the league standings.
type SeasonStat struct {
	PlayerID       string
	SeasonID       string
	TeamID         string
	Appearances    int
	Goals          int
	MinutesPlayed  int
	LastComputedAt time.Time
}
