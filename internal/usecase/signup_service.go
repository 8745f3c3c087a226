package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/dvhl/club-portal/internal/domain/season"
	"github.com/dvhl/club-portal/internal/domain/signup"
)

type UpsertIntentInput struct {
	SeasonID     string
	PlayerID     string
	WantsCaptain bool
	Note         string
}

// SignupService sits between the route layer and the dumb intent registry.
// The registry accepts writes unconditionally; window policy lives here.
type SignupService struct {
	planRepo   season.Repository
	signupRepo signup.Repository
	logger     *slog.Logger
	now        func() time.Time
}

func NewSignupService(planRepo season.Repository, signupRepo signup.Repository, logger *slog.Logger) *SignupService {
	if logger == nil {
		logger = slog.Default()
	}
	return &SignupService{
		planRepo:   planRepo,
		signupRepo: signupRepo,
		logger:     logger,
		now:        time.Now,
	}
}

func (s *SignupService) ListIntents(ctx context.Context, seasonID string) ([]signup.Intent, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SignupService.ListIntents")
	defer span.End()

	seasonID = strings.TrimSpace(seasonID)
	if seasonID == "" {
		return nil, fmt.Errorf("%w: season id is required", ErrInvalidInput)
	}

	items, err := s.signupRepo.ListBySeason(ctx, seasonID)
	if err != nil {
		return nil, fmt.Errorf("list signup intents: %w", err)
	}
	return items, nil
}

// UpsertIntent records or updates a player's signup. Once the captain-interest
// window has closed, a stored true captain flag survives a client submitting
// false, and a true resubmission is still accepted; only a new false-to-true
// request is refused.
func (s *SignupService) UpsertIntent(ctx context.Context, input UpsertIntentInput) (signup.Intent, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SignupService.UpsertIntent")
	defer span.End()

	intent := signup.Intent{
		SeasonID:     strings.TrimSpace(input.SeasonID),
		PlayerID:     strings.TrimSpace(input.PlayerID),
		WantsCaptain: input.WantsCaptain,
		Note:         strings.TrimSpace(input.Note),
	}
	if err := intent.Validate(); err != nil {
		return signup.Intent{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	plan, planExists, err := s.planRepo.GetPlan(ctx, intent.SeasonID)
	if err != nil {
		return signup.Intent{}, fmt.Errorf("get season plan for signup: %w", err)
	}

	if planExists && !plan.CaptainWindowOpen(s.now()) {
		prior, exists, err := s.signupRepo.GetByPlayer(ctx, intent.SeasonID, intent.PlayerID)
		if err != nil {
			return signup.Intent{}, fmt.Errorf("get prior signup intent: %w", err)
		}
		switch {
		case exists && prior.WantsCaptain:
			// Window closed: a stored true wins over a submitted false.
			intent.WantsCaptain = true
		case intent.WantsCaptain:
			// Window closed: no new captain interest. Dropped, not an error,
			// so the rest of the form still saves.
			s.logger.InfoContext(ctx, "dropping captain interest after window close",
				"season_id", intent.SeasonID, "player_id", intent.PlayerID)
			intent.WantsCaptain = false
		}
	}

	intent.UpdatedAt = s.now().UTC()
	if err := s.signupRepo.Upsert(ctx, intent); err != nil {
		return signup.Intent{}, fmt.Errorf("%w: save signup intent: %v", ErrSaveFailed, err)
	}

	s.logger.InfoContext(ctx, "signup intent saved",
		"season_id", intent.SeasonID,
		"player_id", intent.PlayerID,
		"wants_captain", intent.WantsCaptain,
	)
	return intent, nil
}
