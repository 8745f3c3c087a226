package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/dvhl/club-portal/internal/domain/season"
)

// UpsertPlanInput carries partial plan fields. Nil fields keep their prior
// values; date strings that fail to parse are dropped rather than rejected so
// partially filled operator forms still save, and unknown enum values are
// dropped the same way. An empty date string clears the stored date.
type UpsertPlanInput struct {
	SeasonID       string
	ActorID        string
	SignupCloseAt  *string
	CaptainCloseAt *string
	CaptainCount   *int
	TeamOrder      *string
	PoolStrategy   *string
	DraftMode      *string
	Rounds         *int
}

type SeasonPlanService struct {
	planRepo season.Repository
	logger   *slog.Logger
	now      func() time.Time
}

func NewSeasonPlanService(planRepo season.Repository, logger *slog.Logger) *SeasonPlanService {
	if logger == nil {
		logger = slog.Default()
	}
	return &SeasonPlanService{
		planRepo: planRepo,
		logger:   logger,
		now:      time.Now,
	}
}

func (s *SeasonPlanService) GetPlan(ctx context.Context, seasonID string) (season.Plan, bool, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SeasonPlanService.GetPlan")
	defer span.End()

	seasonID = strings.TrimSpace(seasonID)
	if seasonID == "" {
		return season.Plan{}, false, fmt.Errorf("%w: season id is required", ErrInvalidInput)
	}

	plan, exists, err := s.planRepo.GetPlan(ctx, seasonID)
	if err != nil {
		return season.Plan{}, false, fmt.Errorf("get season plan: %w", err)
	}
	return plan, exists, nil
}

// Phase derives the current workflow phase. It is never cached or stored.
func (s *SeasonPlanService) Phase(ctx context.Context, seasonID string) (season.Phase, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SeasonPlanService.Phase")
	defer span.End()

	plan, exists, err := s.GetPlan(ctx, seasonID)
	if err != nil {
		return "", err
	}
	return season.DerivePhase(plan, exists, s.now()), nil
}

func (s *SeasonPlanService) UpsertPlan(ctx context.Context, input UpsertPlanInput) (season.Plan, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SeasonPlanService.UpsertPlan")
	defer span.End()

	seasonID := strings.TrimSpace(input.SeasonID)
	if seasonID == "" {
		return season.Plan{}, fmt.Errorf("%w: season id is required", ErrInvalidInput)
	}

	plan, exists, err := s.planRepo.GetPlan(ctx, seasonID)
	if err != nil {
		return season.Plan{}, fmt.Errorf("get season plan before upsert: %w", err)
	}
	if !exists {
		plan = season.DefaultPlan(seasonID)
	}

	s.mergeDate(&plan.SignupCloseAt, input.SignupCloseAt, "signup_close_at")
	s.mergeDate(&plan.CaptainCloseAt, input.CaptainCloseAt, "captain_close_at")

	if input.CaptainCount != nil && *input.CaptainCount > 0 {
		plan.CaptainCount = *input.CaptainCount
	}
	if input.Rounds != nil && *input.Rounds > 0 {
		plan.Rounds = *input.Rounds
	}
	if input.TeamOrder != nil {
		switch v := season.TeamOrderStrategy(strings.TrimSpace(*input.TeamOrder)); v {
		case season.TeamOrderManual, season.TeamOrderRandom:
			plan.TeamOrder = v
		}
	}
	if input.PoolStrategy != nil {
		switch v := season.PoolStrategy(strings.TrimSpace(*input.PoolStrategy)); v {
		case season.PoolOpsSelected, season.PoolAllSignups, season.PoolAllEligible:
			plan.PoolStrategy = v
		}
	}
	if input.DraftMode != nil {
		switch v := season.DraftMode(strings.TrimSpace(*input.DraftMode)); v {
		case season.DraftModeManual, season.DraftModeSnake:
			plan.DraftMode = v
		}
	}

	plan.UpdatedBy = strings.TrimSpace(input.ActorID)
	plan.UpdatedAt = s.now().UTC()

	if err := plan.Validate(); err != nil {
		return season.Plan{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if err := s.planRepo.UpsertPlan(ctx, plan); err != nil {
		return season.Plan{}, fmt.Errorf("%w: save season plan: %v", ErrSaveFailed, err)
	}

	return plan, nil
}

// mergeDate applies a supplied date string over the stored value. Empty clears,
// unparseable input is logged and dropped.
func (s *SeasonPlanService) mergeDate(dst **time.Time, raw *string, field string) {
	if raw == nil {
		return
	}
	trimmed := strings.TrimSpace(*raw)
	if trimmed == "" {
		*dst = nil
		return
	}
	parsed, err := time.Parse(time.RFC3339, trimmed)
	if err != nil {
		s.logger.Warn("dropping unparseable plan date", "field", field, "value", trimmed)
		return
	}
	utc := parsed.UTC()
	*dst = &utc
}
