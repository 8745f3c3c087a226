package memory

import (
	"context"
	"sync"

	"github.com/dvhl/club-portal/internal/domain/competition"
)

type TeamRepository struct {
	mu       sync.RWMutex
	bySeason map[string][]competition.Team
}

func NewTeamRepository(teams []competition.Team) *TeamRepository {
	bySeason := make(map[string][]competition.Team)
	for _, t := range teams {
		bySeason[t.SeasonID] = append(bySeason[t.SeasonID], t)
	}
	return &TeamRepository{bySeason: bySeason}
}

func (r *TeamRepository) ListBySeason(_ context.Context, seasonID string) ([]competition.Team, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	teams := r.bySeason[seasonID]
	out := make([]competition.Team, len(teams))
	copy(out, teams)
	return out, nil
}

func (r *TeamRepository) GetByID(_ context.Context, seasonID, teamID string) (competition.Team, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, t := range r.bySeason[seasonID] {
		if t.ID == teamID {
			return t, true, nil
		}
	}
	return competition.Team{}, false, nil
}
