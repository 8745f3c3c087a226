package memory

import (
	"context"
	"sync"

	"github.com/dvhl/club-portal/internal/domain/season"
)

type PlanRepository struct {
	mu    sync.RWMutex
	items map[string]season.Plan
}

func NewPlanRepository() *PlanRepository {
	return &PlanRepository{items: make(map[string]season.Plan)}
}

func (r *PlanRepository) GetPlan(_ context.Context, seasonID string) (season.Plan, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	plan, ok := r.items[seasonID]
	if !ok {
		return season.Plan{}, false, nil
	}
	return plan, true, nil
}

func (r *PlanRepository) UpsertPlan(_ context.Context, plan season.Plan) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.items[plan.SeasonID] = plan
	return nil
}
