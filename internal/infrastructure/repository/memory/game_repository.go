package memory

import (
	"context"
	"sync"

	"github.com/dvhl/club-portal/internal/domain/competition"
)

// GameRepository keeps games in insertion order per season; playoff
// resolution depends on creation order for locating the semifinals.
type GameRepository struct {
	mu       sync.RWMutex
	bySeason map[string][]competition.Game
}

func NewGameRepository() *GameRepository {
	return &GameRepository{bySeason: make(map[string][]competition.Game)}
}

func (r *GameRepository) ListBySeason(_ context.Context, seasonID string) ([]competition.Game, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	games := r.bySeason[seasonID]
	out := make([]competition.Game, len(games))
	copy(out, games)
	return out, nil
}

func (r *GameRepository) ListByWeekTag(_ context.Context, seasonID, weekTag string) ([]competition.Game, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []competition.Game
	for _, g := range r.bySeason[seasonID] {
		if g.WeekTag == weekTag {
			out = append(out, g)
		}
	}
	return out, nil
}

func (r *GameRepository) GetByID(_ context.Context, gameID string) (competition.Game, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, games := range r.bySeason {
		for _, g := range games {
			if g.ID == gameID {
				return g, true, nil
			}
		}
	}
	return competition.Game{}, false, nil
}

func (r *GameRepository) Insert(_ context.Context, games []competition.Game) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, g := range games {
		r.bySeason[g.SeasonID] = append(r.bySeason[g.SeasonID], g)
	}
	return nil
}

func (r *GameRepository) Update(_ context.Context, game competition.Game) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	games := r.bySeason[game.SeasonID]
	for idx := range games {
		if games[idx].ID == game.ID {
			games[idx] = game
			return nil
		}
	}
	return nil
}

func (r *GameRepository) DeleteBySeason(_ context.Context, seasonID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.bySeason, seasonID)
	return nil
}

func (r *GameRepository) DeleteByWeekTag(_ context.Context, seasonID, weekTag string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	games := r.bySeason[seasonID]
	kept := games[:0]
	for _, g := range games {
		if g.WeekTag != weekTag {
			kept = append(kept, g)
		}
	}
	r.bySeason[seasonID] = kept
	return nil
}
