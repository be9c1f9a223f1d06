package cache

import (
	"context"
	"testing"
	"time"

	"github.com/bagaspr/matchday/internal/domain/contract"
	basecache "github.com/bagaspr/matchday/internal/platform/cache"
)

type countingContractRepository struct {
	calls int
	items []contract.Contract
}

func (r *countingContractRepository) ListCurrentByTeam(_ context.Context, _ string) ([]contract.Contract, error) {
	r.calls++
	return r.items, nil
}

func TestContractRepository_CachesReads(t *testing.T) {
	t.Parallel()

	next := &countingContractRepository{items: []contract.Contract{
		{ID: "ct-1", PlayerID: "p-1", TeamID: "t-1", IsCurrent: true},
	}}
	repo := NewContractRepository(next, basecache.NewStore(time.Minute))

	for i := 0; i < 3; i++ {
		items, err := repo.ListCurrentByTeam(context.Background(), "t-1")
		if err != nil {
			t.Fatalf("list contracts: %v", err)
		}
		if len(items) != 1 {
			t.Fatalf("expected 1 contract, got %d", len(items))
		}
	}

	if next.calls != 1 {
		t.Fatalf("expected 1 upstream call, got %d", next.calls)
	}
}
