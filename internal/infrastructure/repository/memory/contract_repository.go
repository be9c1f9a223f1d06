package memory

import (
	"context"
	"sync"

	"github.com/bagaspr/matchday/internal/domain/contract"
)

type ContractRepository struct {
	mu     sync.RWMutex
	byTeam map[string][]contract.Contract
}

func NewContractRepository(contracts []contract.Contract) *ContractRepository {
	byTeam := make(map[string][]contract.Contract)
	for _, item := range contracts {
		byTeam[item.TeamID] = append(byTeam[item.TeamID], item)
	}

	return &ContractRepository{byTeam: byTeam}
}

func (r *ContractRepository) ListCurrentByTeam(_ context.Context, teamID string) ([]contract.Contract, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	items := r.byTeam[teamID]
	out := make([]contract.Contract, 0, len(items))
	for _, item := range items {
		if item.IsCurrent {
			out = append(out, item)
		}
	}
	return out, nil
}
