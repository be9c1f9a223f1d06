// Package cache wraps repositories with a read-through TTL cache. Only
// read paths whose staleness window is harmless get a decorator; match rows
// are never cached because the clock mutates them every tick.
package cache

import (
	"context"

	"github.com/bagaspr/matchday/internal/domain/contract"
	basecache "github.com/bagaspr/matchday/internal/platform/cache"
)

type ContractRepository struct {
	next  contract.Repository
	cache *basecache.Store
}

func NewContractRepository(next contract.Repository, cache *basecache.Store) *ContractRepository {
	return &ContractRepository{next: next, cache: cache}
}

func (r *ContractRepository) ListCurrentByTeam(ctx context.Context, teamID string) ([]contract.Contract, error) {
	key := "contract:current:" + teamID
	v, err := r.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		items, err := r.next.ListCurrentByTeam(ctx, teamID)
		if err != nil {
			return nil, err
		}
		return append([]contract.Contract(nil), items...), nil
	})
	if err != nil {
		return nil, err
	}

	items, _ := v.([]contract.Contract)
	return append([]contract.Contract(nil), items...), nil
}
