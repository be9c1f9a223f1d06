package standing

import "time"

// Standing is one league table row, keyed (SeasonID, TeamID). The row is
// derived state: every recomputation overwrites it wholesale, so it must
// always be reproducible from finished matches alone.
type Standing struct {
	SeasonID        string
	TeamID          string
	Position        int
	Played          int
	Wins            int
	Draws           int
	Losses          int
	GoalsFor        int
	GoalsAgainst    int
	GoalDifference  int
	Points          int
	PointsDeduction int
	LastComputedAt  time.Time
}
