package contract

import "context"

type Repository interface {
	ListCurrentByTeam(ctx context.Context, teamID string) ([]Contract, error)
}
