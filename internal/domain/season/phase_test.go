package season

import (
	"testing"
	"time"
)

func TestDerivePhase(t *testing.T) {
	now := time.Date(2026, time.January, 15, 12, 0, 0, 0, time.UTC)
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	t.Run("no plan means plan setup", func(t *testing.T) {
		if got := DerivePhase(Plan{}, false, now); got != PhasePlanSetup {
			t.Fatalf("expected %s, got %s", PhasePlanSetup, got)
		}
	})

	t.Run("plan without close date keeps signups open", func(t *testing.T) {
		plan := DefaultPlan("s1")
		if got := DerivePhase(plan, true, now); got != PhaseSignupOpen {
			t.Fatalf("expected %s, got %s", PhaseSignupOpen, got)
		}
	})

	t.Run("future close date keeps signups open", func(t *testing.T) {
		plan := DefaultPlan("s1")
		plan.SignupCloseAt = &future
		if got := DerivePhase(plan, true, now); got != PhaseSignupOpen {
			t.Fatalf("expected %s, got %s", PhaseSignupOpen, got)
		}
	})

	t.Run("past close date moves to captain assignment", func(t *testing.T) {
		plan := DefaultPlan("s1")
		plan.SignupCloseAt = &past
		if got := DerivePhase(plan, true, now); got != PhaseCaptainAssignment {
			t.Fatalf("expected %s, got %s", PhaseCaptainAssignment, got)
		}
	})
}

func TestPlanWindows(t *testing.T) {
	now := time.Date(2026, time.January, 15, 12, 0, 0, 0, time.UTC)
	past := now.Add(-time.Minute)

	plan := DefaultPlan("s1")
	if !plan.SignupOpen(now) || !plan.CaptainWindowOpen(now) {
		t.Fatal("unset close dates should leave both windows open")
	}

	plan.SignupCloseAt = &past
	plan.CaptainCloseAt = &past
	if plan.SignupOpen(now) {
		t.Fatal("signup window should be closed after its close date")
	}
	if plan.CaptainWindowOpen(now) {
		t.Fatal("captain window should be closed after its close date")
	}

	// The close instant itself counts as closed.
	plan.SignupCloseAt = &now
	if plan.SignupOpen(now) {
		t.Fatal("signup window should be closed exactly at the close instant")
	}
}

func TestPlanValidate(t *testing.T) {
	plan := DefaultPlan("s1")
	if err := plan.Validate(); err != nil {
		t.Fatalf("default plan should validate: %v", err)
	}

	bad := plan
	bad.Rounds = 0
	if err := bad.Validate(); err == nil {
		t.Fatal("expected error for zero rounds")
	}

	bad = plan
	bad.DraftMode = "auction"
	if err := bad.Validate(); err == nil {
		t.Fatal("expected error for unknown draft mode")
	}
}
