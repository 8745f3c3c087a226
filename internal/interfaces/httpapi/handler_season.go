package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"time"

	jsoniter "github.com/json-iterator/go"

	"github.com/dvhl/club-portal/internal/domain/season"
	"github.com/dvhl/club-portal/internal/usecase"
)

func (h *Handler) GetSeasonPlan(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetSeasonPlan")
	defer span.End()

	seasonID := r.PathValue("seasonID")
	plan, exists, err := h.planService.GetPlan(ctx, seasonID)
	if err != nil {
		h.logger.WarnContext(ctx, "get season plan failed", "season_id", seasonID, "error", err)
		writeError(ctx, w, err)
		return
	}
	if !exists {
		writeSuccess(ctx, w, http.StatusOK, nil)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, planToDTO(ctx, plan))
}

func (h *Handler) UpsertSeasonPlan(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.UpsertSeasonPlan")
	defer span.End()

	principal, err := requireOperator(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	seasonID := r.PathValue("seasonID")
	var req upsertPlanRequest
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

	plan, err := h.planService.UpsertPlan(ctx, usecase.UpsertPlanInput{
		SeasonID:       seasonID,
		ActorID:        principal.UserID,
		SignupCloseAt:  req.SignupCloseAt,
		CaptainCloseAt: req.CaptainCloseAt,
		CaptainCount:   req.CaptainCount,
		TeamOrder:      req.TeamOrder,
		PoolStrategy:   req.PoolStrategy,
		DraftMode:      req.DraftMode,
		Rounds:         req.Rounds,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "upsert season plan failed", "season_id", seasonID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, planToDTO(ctx, plan))
}

func (h *Handler) GetSeasonPhase(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetSeasonPhase")
	defer span.End()

	seasonID := r.PathValue("seasonID")
	phase, err := h.planService.Phase(ctx, seasonID)
	if err != nil {
		h.logger.WarnContext(ctx, "get season phase failed", "season_id", seasonID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, phaseDTO{
		SeasonID: seasonID,
		Phase:    string(phase),
	})
}

type upsertPlanRequest struct {
	SignupCloseAt  *string `json:"signup_close_at"`
	CaptainCloseAt *string `json:"captain_close_at"`
	CaptainCount   *int    `json:"captain_count" validate:"omitempty,min=0,max=64"`
	TeamOrder      *string `json:"team_order"`
	PoolStrategy   *string `json:"pool_strategy"`
	DraftMode      *string `json:"draft_mode"`
	Rounds         *int    `json:"rounds" validate:"omitempty,min=1,max=32"`
}

type planDTO struct {
	SeasonID       string `json:"season_id"`
	SignupCloseAt  string `json:"signup_close_at,omitempty"`
	CaptainCloseAt string `json:"captain_close_at,omitempty"`
	CaptainCount   int    `json:"captain_count"`
	TeamOrder      string `json:"team_order"`
	PoolStrategy   string `json:"pool_strategy"`
	DraftMode      string `json:"draft_mode"`
	Rounds         int    `json:"rounds"`
	UpdatedBy      string `json:"updated_by,omitempty"`
	UpdatedAtUTC   string `json:"updated_at_utc,omitempty"`
}

type phaseDTO struct {
	SeasonID string `json:"season_id"`
	Phase    string `json:"phase"`
}

func planToDTO(ctx context.Context, v season.Plan) planDTO {
	ctx, span := startSpan(ctx, "httpapi.planToDTO")
	defer span.End()

	dto := planDTO{
		SeasonID:     v.SeasonID,
		CaptainCount: v.CaptainCount,
		TeamOrder:    string(v.TeamOrder),
		PoolStrategy: string(v.PoolStrategy),
		DraftMode:    string(v.DraftMode),
		Rounds:       v.Rounds,
		UpdatedBy:    v.UpdatedBy,
	}
	if v.SignupCloseAt != nil {
		dto.SignupCloseAt = v.SignupCloseAt.UTC().Format(time.RFC3339)
	}
	if v.CaptainCloseAt != nil {
		dto.CaptainCloseAt = v.CaptainCloseAt.UTC().Format(time.RFC3339)
	}
	if !v.UpdatedAt.IsZero() {
		dto.UpdatedAtUTC = v.UpdatedAt.UTC().Format(time.RFC3339)
	}
	return dto
}
