package season

import "time"

// Phase is the derived season workflow phase. It is never stored; callers
// recompute it from the plan so there is a single source of truth. Draft and
// scheduling state live elsewhere and can move independently of the phase.
type Phase string

const (
	PhasePlanSetup         Phase = "plan_setup"
	PhaseSignupOpen        Phase = "signup_open"
	PhaseCaptainAssignment Phase = "captain_assignment"
)

// DerivePhase computes the workflow phase from the plan. exists is false when
// no plan has ever been saved for the season.
func DerivePhase(plan Plan, exists bool, now time.Time) Phase {
	if !exists {
		return PhasePlanSetup
	}
	if plan.SignupOpen(now) {
		return PhaseSignupOpen
	}
	return PhaseCaptainAssignment
}
