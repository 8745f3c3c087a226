package memory

import (
	"context"
	"sync"

	"github.com/dvhl/club-portal/internal/domain/signup"
)

type SignupRepository struct {
	mu       sync.RWMutex
	bySeason map[string][]signup.Intent
}

func NewSignupRepository() *SignupRepository {
	return &SignupRepository{bySeason: make(map[string][]signup.Intent)}
}

func (r *SignupRepository) ListBySeason(_ context.Context, seasonID string) ([]signup.Intent, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	items := r.bySeason[seasonID]
	out := make([]signup.Intent, len(items))
	copy(out, items)
	return out, nil
}

func (r *SignupRepository) GetByPlayer(_ context.Context, seasonID, playerID string) (signup.Intent, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, item := range r.bySeason[seasonID] {
		if item.PlayerID == playerID {
			return item, true, nil
		}
	}
	return signup.Intent{}, false, nil
}

func (r *SignupRepository) Upsert(_ context.Context, intent signup.Intent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	rows := r.bySeason[intent.SeasonID]
	for idx := range rows {
		if rows[idx].PlayerID == intent.PlayerID {
			rows[idx] = intent
			return nil
		}
	}
	r.bySeason[intent.SeasonID] = append(rows, intent)
	return nil
}
