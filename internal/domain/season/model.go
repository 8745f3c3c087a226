package season

import (
	"fmt"
	"time"
)

// TeamOrderStrategy controls how the draft pick order is produced.
type TeamOrderStrategy string

// PoolStrategy controls which players seed the draft pool.
type PoolStrategy string

// DraftMode selects the turn-order rule for the draft.
type DraftMode string

const (
	TeamOrderManual TeamOrderStrategy = "manual"
	TeamOrderRandom TeamOrderStrategy = "random"

	PoolOpsSelected PoolStrategy = "ops_selected"
	PoolAllSignups  PoolStrategy = "all_signups"
	PoolAllEligible PoolStrategy = "all_eligible"

	DraftModeManual DraftMode = "manual"
	DraftModeSnake  DraftMode = "snake"
)

const (
	DefaultCaptainCount = 4
	DefaultRounds       = 1
)

// Plan is the per-season workflow configuration. Exactly one plan exists per
// season id; saves are merges over the previous plan.
type Plan struct {
	SeasonID       string
	SignupCloseAt  *time.Time
	CaptainCloseAt *time.Time
	CaptainCount   int
	TeamOrder      TeamOrderStrategy
	PoolStrategy   PoolStrategy
	DraftMode      DraftMode
	Rounds         int
	UpdatedBy      string
	UpdatedAt      time.Time
}

// DefaultPlan seeds a fresh plan for the first save of a season.
func DefaultPlan(seasonID string) Plan {
	return Plan{
		SeasonID:     seasonID,
		CaptainCount: DefaultCaptainCount,
		TeamOrder:    TeamOrderManual,
		PoolStrategy: PoolAllSignups,
		DraftMode:    DraftModeManual,
		Rounds:       DefaultRounds,
	}
}

func (p Plan) Validate() error {
	if p.SeasonID == "" {
		return fmt.Errorf("season id is required")
	}
	if p.CaptainCount < 0 {
		return fmt.Errorf("captain count cannot be negative")
	}
	if p.Rounds < 1 {
		return fmt.Errorf("rounds must be at least 1")
	}
	switch p.TeamOrder {
	case TeamOrderManual, TeamOrderRandom:
	default:
		return fmt.Errorf("unknown team order strategy %q", p.TeamOrder)
	}
	switch p.PoolStrategy {
	case PoolOpsSelected, PoolAllSignups, PoolAllEligible:
	default:
		return fmt.Errorf("unknown pool strategy %q", p.PoolStrategy)
	}
	switch p.DraftMode {
	case DraftModeManual, DraftModeSnake:
	default:
		return fmt.Errorf("unknown draft mode %q", p.DraftMode)
	}
	return nil
}

// SignupOpen reports whether the signup window is still accepting intents at now.
func (p Plan) SignupOpen(now time.Time) bool {
	return p.SignupCloseAt == nil || p.SignupCloseAt.After(now)
}

// CaptainWindowOpen reports whether new captain interest is still accepted at now.
func (p Plan) CaptainWindowOpen(now time.Time) bool {
	return p.CaptainCloseAt == nil || p.CaptainCloseAt.After(now)
}
