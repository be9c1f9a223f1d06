package match

import "context"

// Repository exposes the match record store. ApplyUpdate must write every
// set field of the update in one atomic statement.
type Repository interface {
	Create(ctx context.Context, item Match) error
	GetByID(ctx context.Context, matchID string) (Match, bool, error)
	ListByStatus(ctx context.Context, status Status) ([]Match, error)
	ListFinishedBySeason(ctx context.Context, seasonID string) ([]Match, error)
	ApplyUpdate(ctx context.Context, matchID string, update Update) error
}
