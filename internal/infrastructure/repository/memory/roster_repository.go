package memory

import (
	"context"
	"sync"

	"github.com/dvhl/club-portal/internal/domain/roster"
)

// RosterRepository stands in for the external roster-control collaborator.
type RosterRepository struct {
	mu     sync.RWMutex
	byTeam map[string]roster.TeamControl
}

func NewRosterRepository(controls []roster.TeamControl) *RosterRepository {
	byTeam := make(map[string]roster.TeamControl, len(controls))
	for _, c := range controls {
		byTeam[controlKey(c.SeasonID, c.TeamID)] = c
	}
	return &RosterRepository{byTeam: byTeam}
}

func (r *RosterRepository) GetControl(_ context.Context, seasonID, teamID string) (roster.TeamControl, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.byTeam[controlKey(seasonID, teamID)]
	return c, ok, nil
}

func (r *RosterRepository) AssignPlayer(_ context.Context, seasonID, teamID, playerID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := controlKey(seasonID, teamID)
	c := r.byTeam[key]
	c.SeasonID = seasonID
	c.TeamID = teamID
	for _, id := range c.Members {
		if id == playerID {
			return nil
		}
	}
	c.Members = append(c.Members, playerID)
	r.byTeam[key] = c
	return nil
}

func controlKey(seasonID, teamID string) string {
	return seasonID + "|" + teamID
}
