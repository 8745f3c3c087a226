package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"time"

	jsoniter "github.com/json-iterator/go"

	"github.com/dvhl/club-portal/internal/domain/subrequest"
	"github.com/dvhl/club-portal/internal/domain/user"
	"github.com/dvhl/club-portal/internal/usecase"
)

func (h *Handler) ListSubRequests(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListSubRequests")
	defer span.End()

	seasonID := r.PathValue("seasonID")
	items, err := h.subRequestService.List(ctx, seasonID)
	if err != nil {
		h.logger.WarnContext(ctx, "list sub requests failed", "season_id", seasonID, "error", err)
		writeError(ctx, w, err)
		return
	}

	dtos := make([]subRequestDTO, 0, len(items))
	for _, item := range items {
		dtos = append(dtos, subRequestToDTO(ctx, item))
	}

	writeSuccess(ctx, w, http.StatusOK, dtos)
}

// CreateSubRequest opens a new request. The caller must be the team's captain
// or an operator; the recorded captain comes from roster control, not the
// request body.
func (h *Handler) CreateSubRequest(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CreateSubRequest")
	defer span.End()

	principal, err := requirePrincipal(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	seasonID := r.PathValue("seasonID")
	var req createSubRequestRequest
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

	control, exists, err := h.rosterRepo.GetControl(ctx, seasonID, req.TeamID)
	if err != nil {
		h.logger.WarnContext(ctx, "get roster control failed",
			"season_id", seasonID, "team_id", req.TeamID, "error", err)
		writeError(ctx, w, err)
		return
	}
	if !exists {
		writeError(ctx, w, fmt.Errorf("%w: team %s has no roster control for season %s", usecase.ErrNotFound, req.TeamID, seasonID))
		return
	}
	if !principal.IsOperator() && control.CaptainID != principal.UserID {
		writeError(ctx, w, fmt.Errorf("%w: only the team captain or an operator may request a sub", usecase.ErrForbidden))
		return
	}

	created, err := h.subRequestService.Create(ctx, usecase.CreateSubRequestInput{
		SeasonID:    seasonID,
		TeamID:      req.TeamID,
		CaptainID:   control.CaptainID,
		RequesterID: principal.UserID,
		Message:     req.Message,
		GameID:      req.GameID,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "create sub request failed",
			"season_id", seasonID, "team_id", req.TeamID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, subRequestToDTO(ctx, created))
}

// AcceptSubRequest lets a member of the team's sub pool (or an operator) take
// an open request.
func (h *Handler) AcceptSubRequest(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.AcceptSubRequest")
	defer span.End()

	principal, err := requirePrincipal(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	requestID := r.PathValue("requestID")
	existing, err := h.subRequestService.Get(ctx, requestID)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	if !principal.IsOperator() {
		control, exists, err := h.rosterRepo.GetControl(ctx, existing.SeasonID, existing.TeamID)
		if err != nil {
			h.logger.WarnContext(ctx, "get roster control failed",
				"season_id", existing.SeasonID, "team_id", existing.TeamID, "error", err)
			writeError(ctx, w, err)
			return
		}
		if !exists || !control.InSubPool(principal.UserID) {
			writeError(ctx, w, fmt.Errorf("%w: only a sub-pool member or an operator may accept", usecase.ErrForbidden))
			return
		}
	}

	accepted, err := h.subRequestService.Accept(ctx, requestID, principal.UserID)
	if err != nil {
		h.logger.WarnContext(ctx, "accept sub request failed", "request_id", requestID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, subRequestToDTO(ctx, accepted))
}

// CancelSubRequest lets the requester, the team's captain, or an operator
// withdraw an open request.
func (h *Handler) CancelSubRequest(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CancelSubRequest")
	defer span.End()

	principal, err := requirePrincipal(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	requestID := r.PathValue("requestID")
	existing, err := h.subRequestService.Get(ctx, requestID)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	if !h.mayCancel(ctx, principal, existing) {
		writeError(ctx, w, fmt.Errorf("%w: only the requester, team captain, or an operator may cancel", usecase.ErrForbidden))
		return
	}

	cancelled, err := h.subRequestService.Cancel(ctx, requestID, principal.UserID)
	if err != nil {
		h.logger.WarnContext(ctx, "cancel sub request failed", "request_id", requestID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, subRequestToDTO(ctx, cancelled))
}

func (h *Handler) mayCancel(ctx context.Context, principal user.Principal, req subrequest.Request) bool {
	if principal.IsOperator() || req.RequesterID == principal.UserID {
		return true
	}

	control, exists, err := h.rosterRepo.GetControl(ctx, req.SeasonID, req.TeamID)
	if err != nil {
		h.logger.WarnContext(ctx, "get roster control failed",
			"season_id", req.SeasonID, "team_id", req.TeamID, "error", err)
		return false
	}
	return exists && control.CaptainID == principal.UserID
}

type createSubRequestRequest struct {
	TeamID  string `json:"team_id" validate:"required"`
	Message string `json:"message" validate:"max=500"`
	GameID  string `json:"game_id"`
}

type subRequestDTO struct {
	ID            string `json:"id"`
	SeasonID      string `json:"season_id"`
	TeamID        string `json:"team_id"`
	CaptainID     string `json:"captain_id"`
	RequesterID   string `json:"requester_id"`
	Message       string `json:"message,omitempty"`
	GameID        string `json:"game_id,omitempty"`
	Status        string `json:"status"`
	AcceptedBy    string `json:"accepted_by,omitempty"`
	AcceptedAtUTC string `json:"accepted_at_utc,omitempty"`
	CreatedAtUTC  string `json:"created_at_utc"`
}

func subRequestToDTO(ctx context.Context, v subrequest.Request) subRequestDTO {
	ctx, span := startSpan(ctx, "httpapi.subRequestToDTO")
	defer span.End()

	dto := subRequestDTO{
		ID:           v.ID,
		SeasonID:     v.SeasonID,
		TeamID:       v.TeamID,
		CaptainID:    v.CaptainID,
		RequesterID:  v.RequesterID,
		Message:      v.Message,
		GameID:       v.GameID,
		Status:       string(v.Status),
		AcceptedBy:   v.AcceptedBy,
		CreatedAtUTC: v.CreatedAt.UTC().Format(time.RFC3339),
	}
	if v.AcceptedAt != nil {
		dto.AcceptedAtUTC = v.AcceptedAt.UTC().Format(time.RFC3339)
	}
	return dto
}
