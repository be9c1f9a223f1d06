package standing

import "context"

type Repository interface {
	ListBySeason(ctx context.Context, seasonID string) ([]Standing, error)
	// UpsertAll writes every row keyed on (season_id, team_id), overwriting
	// all derived fields on conflict. Rows from earlier computations that are
	// not in the slice are left untouched.
	UpsertAll(ctx context.Context, seasonID string, rows []Standing) error
	// PatchDeduction sets the points deduction for one team; the admin
	// correction path, distinct from recomputation.
	PatchDeduction(ctx context.Context, seasonID, teamID string, deduction int) error
}
