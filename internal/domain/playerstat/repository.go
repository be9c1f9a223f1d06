package playerstat

import "context"

type Repository interface {
	Get(ctx context.Context, playerID, seasonID, teamID string) (SeasonStat, bool, error)
	ListBySeasonAndPlayer(ctx context.Context, seasonID, playerID string) ([]SeasonStat, error)
	// Upsert overwrites all derived fields on (player_id, season_id, team_id)
	// conflict.
	Upsert(ctx context.Context, row SeasonStat) error
	// Accumulate adds the delta fields onto the existing row instead of
	// overwriting them. Used when cumulative mode is enabled.
	Accumulate(ctx context.Context, row SeasonStat) error
}
