package draft

import (
	"time"

	"github.com/dvhl/club-portal/internal/domain/season"
)

// Status of a draft session. Absence of a session record means the draft has
// not been started for that season.
type Status string

const (
	StatusOpen   Status = "open"
	StatusClosed Status = "closed"
)

// Pick is one accepted draft pick. Pick numbers are contiguous starting at 1
// across the whole session; Round is derived from the number and team count.
type Pick struct {
	Number   int
	Round    int
	TeamID   string
	PlayerID string
	PickedAt time.Time
	ActorID  string
}

// Session is the draft turn-order state machine for one season. Version guards
// saves: a repository rejects a write whose Version does not match the stored
// session, so two racing picks cannot both land on the same index.
type Session struct {
	SeasonID         string
	Status           Status
	PickOrder        []string
	CurrentPickIndex int
	Mode             season.DraftMode
	Rounds           int
	Pool             []string
	Picks            []Pick
	Version          int
	StartedBy        string
	StartedAt        time.Time
}

// NewSession builds a fresh open session. Team and player ids are de-duplicated
// preserving first occurrence.
func NewSession(seasonID string, teamIDs, poolIDs []string, mode season.DraftMode, rounds int, actorID string, now time.Time) Session {
	return Session{
		SeasonID:         seasonID,
		Status:           StatusOpen,
		PickOrder:        dedupe(teamIDs),
		CurrentPickIndex: 0,
		Mode:             mode,
		Rounds:           rounds,
		Pool:             dedupe(poolIDs),
		Picks:            nil,
		Version:          1,
		StartedBy:        actorID,
		StartedAt:        now,
	}
}

// TeamAtIndex computes which team picks at the given pick index. In snake mode
// the order reverses on odd rounds.
func TeamAtIndex(order []string, mode season.DraftMode, index int) string {
	n := len(order)
	if n == 0 || index < 0 {
		return ""
	}
	round := index / n
	slot := index % n
	if mode == season.DraftModeSnake && round%2 == 1 {
		return order[n-1-slot]
	}
	return order[slot]
}

// NextTeamID exposes the turn computation for display. It returns "" when the
// pick order is empty or the draft has used its configured rounds.
func NextTeamID(s Session) string {
	if s.IsComplete() {
		return ""
	}
	return TeamAtIndex(s.PickOrder, s.Mode, s.CurrentPickIndex)
}

// IsComplete reports whether every configured pick slot has been used.
func (s Session) IsComplete() bool {
	n := len(s.PickOrder)
	if n == 0 {
		return true
	}
	return s.CurrentPickIndex >= s.Rounds*n
}

// RoundForPick derives the 1-based round of a 1-based pick number.
func (s Session) RoundForPick(pickNumber int) int {
	n := len(s.PickOrder)
	if n == 0 {
		return 0
	}
	return (pickNumber-1)/n + 1
}

// HasPicked reports whether the player already appears in an accepted pick.
func (s Session) HasPicked(playerID string) bool {
	for _, p := range s.Picks {
		if p.PlayerID == playerID {
			return true
		}
	}
	return false
}

// InPool reports whether the player is eligible to be drafted.
func (s Session) InPool(playerID string) bool {
	for _, id := range s.Pool {
		if id == playerID {
			return true
		}
	}
	return false
}

// InOrder reports whether the team participates in the draft.
func (s Session) InOrder(teamID string) bool {
	for _, id := range s.PickOrder {
		if id == teamID {
			return true
		}
	}
	return false
}

func dedupe(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
