package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"time"

	jsoniter "github.com/json-iterator/go"

	"github.com/dvhl/club-portal/internal/domain/signup"
	"github.com/dvhl/club-portal/internal/usecase"
)

func (h *Handler) ListSignups(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListSignups")
	defer span.End()

	seasonID := r.PathValue("seasonID")
	items, err := h.signupService.ListIntents(ctx, seasonID)
	if err != nil {
		h.logger.WarnContext(ctx, "list signups failed", "season_id", seasonID, "error", err)
		writeError(ctx, w, err)
		return
	}

	dtos := make([]signupDTO, 0, len(items))
	for _, item := range items {
		dtos = append(dtos, signupToDTO(ctx, item))
	}

	writeSuccess(ctx, w, http.StatusOK, dtos)
}

// UpsertSignup records the caller's own intent. The overall signup window is
// enforced here; the captain-flag lock is applied in the service.
func (h *Handler) UpsertSignup(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.UpsertSignup")
	defer span.End()

	principal, err := requirePrincipal(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	seasonID := r.PathValue("seasonID")
	var req upsertSignupRequest
	decoder := jsoniter.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeError(ctx, w, fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err))
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	plan, planExists, err := h.planService.GetPlan(ctx, seasonID)
	if err != nil {
		h.logger.WarnContext(ctx, "get season plan for signup failed", "season_id", seasonID, "error", err)
		writeError(ctx, w, err)
		return
	}
	if planExists && !plan.SignupOpen(time.Now()) && !principal.IsOperator() {
		writeError(ctx, w, fmt.Errorf("%w: signup window is closed", usecase.ErrForbidden))
		return
	}

	intent, err := h.signupService.UpsertIntent(ctx, usecase.UpsertIntentInput{
		SeasonID:     seasonID,
		PlayerID:     principal.UserID,
		WantsCaptain: req.WantsCaptain,
		Note:         req.Note,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "upsert signup failed",
			"season_id", seasonID, "player_id", principal.UserID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, signupToDTO(ctx, intent))
}

type upsertSignupRequest struct {
	WantsCaptain bool   `json:"wants_captain"`
	Note         string `json:"note" validate:"max=500"`
}

type signupDTO struct {
	SeasonID     string `json:"season_id"`
	PlayerID     string `json:"player_id"`
	WantsCaptain bool   `json:"wants_captain"`
	Note         string `json:"note,omitempty"`
	UpdatedAtUTC string `json:"updated_at_utc"`
}

func signupToDTO(ctx context.Context, v signup.Intent) signupDTO {
	ctx, span := startSpan(ctx, "httpapi.signupToDTO")
	defer span.End()

	return signupDTO{
		SeasonID:     v.SeasonID,
		PlayerID:     v.PlayerID,
		WantsCaptain: v.WantsCaptain,
		Note:         v.Note,
		UpdatedAtUTC: v.UpdatedAt.UTC().Format(time.RFC3339),
	}
}
