package usecase

import (
	"errors"
	"testing"
	"time"

	"github.com/dvhl/club-portal/internal/domain/season"
	"github.com/dvhl/club-portal/internal/infrastructure/repository/memory"
)

func newSignupService(t *testing.T, captainCloseAt *time.Time) *SignupService {
	t.Helper()
	planRepo := memory.NewPlanRepository()
	plan := season.DefaultPlan("s1")
	plan.CaptainCloseAt = captainCloseAt
	if err := planRepo.UpsertPlan(t.Context(), plan); err != nil {
		t.Fatalf("seed plan: %v", err)
	}
	svc := NewSignupService(planRepo, memory.NewSignupRepository(), nil)
	svc.now = testTime
	return svc
}

func TestSignupService_UpsertWhileWindowOpen(t *testing.T) {
	svc := newSignupService(t, nil)

	intent, err := svc.UpsertIntent(t.Context(), UpsertIntentInput{
		SeasonID:     "s1",
		PlayerID:     "p-egan",
		WantsCaptain: true,
		Note:         "  available most weeks  ",
	})
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if !intent.WantsCaptain {
		t.Fatal("captain interest should be stored while the window is open")
	}
	if intent.Note != "available most weeks" {
		t.Fatalf("note should be trimmed: %q", intent.Note)
	}

	// Resubmitting false while open simply stores false.
	intent, err = svc.UpsertIntent(t.Context(), UpsertIntentInput{SeasonID: "s1", PlayerID: "p-egan"})
	if err != nil {
		t.Fatalf("second upsert: %v", err)
	}
	if intent.WantsCaptain {
		t.Fatal("open window should accept withdrawal of captain interest")
	}

	items, err := svc.ListIntents(t.Context(), "s1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("upsert must not duplicate intents, got %d", len(items))
	}
}

func TestSignupService_CaptainFlagLockAfterWindowClose(t *testing.T) {
	closed := testTime().Add(-time.Hour)

	t.Run("stored true survives a submitted false", func(t *testing.T) {
		svc := newSignupService(t, nil)
		if _, err := svc.UpsertIntent(t.Context(), UpsertIntentInput{SeasonID: "s1", PlayerID: "p-egan", WantsCaptain: true}); err != nil {
			t.Fatalf("upsert before close: %v", err)
		}

		// Close the window, then resubmit with the flag off.
		past := closed.Format(time.RFC3339)
		planSvc := NewSeasonPlanService(svc.planRepo, nil)
		planSvc.now = testTime
		if _, err := planSvc.UpsertPlan(t.Context(), UpsertPlanInput{SeasonID: "s1", CaptainCloseAt: &past}); err != nil {
			t.Fatalf("close window: %v", err)
		}

		intent, err := svc.UpsertIntent(t.Context(), UpsertIntentInput{SeasonID: "s1", PlayerID: "p-egan", WantsCaptain: false, Note: "updated"})
		if err != nil {
			t.Fatalf("upsert after close: %v", err)
		}
		if !intent.WantsCaptain {
			t.Fatal("stored captain interest must survive a post-close false")
		}
		if intent.Note != "updated" {
			t.Fatalf("the rest of the form should still save: %q", intent.Note)
		}
	})

	t.Run("new captain interest is coerced off", func(t *testing.T) {
		svc := newSignupService(t, &closed)
		intent, err := svc.UpsertIntent(t.Context(), UpsertIntentInput{SeasonID: "s1", PlayerID: "p-frost", WantsCaptain: true})
		if err != nil {
			t.Fatalf("post-close upsert should still save: %v", err)
		}
		if intent.WantsCaptain {
			t.Fatal("new captain interest after close must be dropped")
		}
	})

	t.Run("true resubmission is still accepted", func(t *testing.T) {
		svc := newSignupService(t, nil)
		if _, err := svc.UpsertIntent(t.Context(), UpsertIntentInput{SeasonID: "s1", PlayerID: "p-egan", WantsCaptain: true}); err != nil {
			t.Fatalf("upsert before close: %v", err)
		}
		past := closed.Format(time.RFC3339)
		planSvc := NewSeasonPlanService(svc.planRepo, nil)
		planSvc.now = testTime
		if _, err := planSvc.UpsertPlan(t.Context(), UpsertPlanInput{SeasonID: "s1", CaptainCloseAt: &past}); err != nil {
			t.Fatalf("close window: %v", err)
		}

		intent, err := svc.UpsertIntent(t.Context(), UpsertIntentInput{SeasonID: "s1", PlayerID: "p-egan", WantsCaptain: true})
		if err != nil {
			t.Fatalf("upsert: %v", err)
		}
		if !intent.WantsCaptain {
			t.Fatal("a true resubmission after close must stay true")
		}
	})
}

func TestSignupService_Validation(t *testing.T) {
	svc := newSignupService(t, nil)

	if _, err := svc.UpsertIntent(t.Context(), UpsertIntentInput{PlayerID: "p-egan"}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for missing season, got %v", err)
	}
	if _, err := svc.UpsertIntent(t.Context(), UpsertIntentInput{SeasonID: "s1"}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for missing player, got %v", err)
	}
	if _, err := svc.ListIntents(t.Context(), ""); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for missing season, got %v", err)
	}
}
