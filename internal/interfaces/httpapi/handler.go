package httpapi

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/dvhl/club-portal/internal/domain/player"
	"github.com/dvhl/club-portal/internal/domain/roster"
	"github.com/dvhl/club-portal/internal/domain/user"
	"github.com/dvhl/club-portal/internal/platform/logging"
	"github.com/dvhl/club-portal/internal/usecase"
)

type Handler struct {
	planService       *usecase.SeasonPlanService
	signupService     *usecase.SignupService
	draftService      *usecase.DraftService
	subRequestService *usecase.SubRequestService
	scheduleService   *usecase.ScheduleService
	standingsService  *usecase.StandingsService
	rosterRepo        roster.Repository
	playerRepo        player.Repository
	logger            *logging.Logger
	validator         *validator.Validate
}

func NewHandler(
	planService *usecase.SeasonPlanService,
	signupService *usecase.SignupService,
	draftService *usecase.DraftService,
	subRequestService *usecase.SubRequestService,
	scheduleService *usecase.ScheduleService,
	standingsService *usecase.StandingsService,
	rosterRepo roster.Repository,
	playerRepo player.Repository,
	logger *logging.Logger,
) *Handler {
	if logger == nil {
		logger = logging.Default()
	}

	return &Handler{
		planService:       planService,
		signupService:     signupService,
		draftService:      draftService,
		subRequestService: subRequestService,
		scheduleService:   scheduleService,
		standingsService:  standingsService,
		rosterRepo:        rosterRepo,
		playerRepo:        playerRepo,
		logger:            logger,
		validator:         validator.New(),
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) validateRequest(ctx context.Context, payload any) error {
	ctx, span := startSpan(ctx, "httpapi.Handler.validateRequest")
	defer span.End()

	if err := h.validator.StructCtx(ctx, payload); err != nil {
		return fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
	}

	return nil
}

func requirePrincipal(ctx context.Context) (user.Principal, error) {
	principal, ok := principalFromContext(ctx)
	if !ok {
		return user.Principal{}, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized)
	}
	return principal, nil
}

func requireOperator(ctx context.Context) (user.Principal, error) {
	principal, err := requirePrincipal(ctx)
	if err != nil {
		return user.Principal{}, err
	}
	if !principal.IsOperator() {
		return user.Principal{}, fmt.Errorf("%w: operator role required", usecase.ErrForbidden)
	}
	return principal, nil
}
