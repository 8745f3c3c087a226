package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"time"

	jsoniter "github.com/json-iterator/go"

	"github.com/dvhl/club-portal/internal/domain/draft"
	"github.com/dvhl/club-portal/internal/domain/player"
	"github.com/dvhl/club-portal/internal/domain/season"
	"github.com/dvhl/club-portal/internal/usecase"
)

func (h *Handler) GetDraft(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetDraft")
	defer span.End()

	seasonID := r.PathValue("seasonID")
	session, exists, err := h.draftService.GetSession(ctx, seasonID)
	if err != nil {
		h.logger.WarnContext(ctx, "get draft failed", "season_id", seasonID, "error", err)
		writeError(ctx, w, err)
		return
	}
	if !exists {
		writeSuccess(ctx, w, http.StatusOK, nil)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, sessionToDTO(ctx, session, h.sessionPlayers(ctx, session)))
}

func (h *Handler) StartDraft(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.StartDraft")
	defer span.End()

	h.startOrResetDraft(ctx, w, r, false)
}

func (h *Handler) ResetDraft(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ResetDraft")
	defer span.End()

	h.startOrResetDraft(ctx, w, r, true)
}

func (h *Handler) startOrResetDraft(ctx context.Context, w http.ResponseWriter, r *http.Request, reset bool) {
	principal, err := requireOperator(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	seasonID := r.PathValue("seasonID")
	var req startDraftRequest
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

	input := usecase.StartDraftInput{
		SeasonID:  seasonID,
		TeamIDs:   req.TeamIDs,
		PoolIDs:   req.PoolIDs,
		DraftMode: season.DraftMode(req.DraftMode),
		Rounds:    req.Rounds,
		ActorID:   principal.UserID,
	}

	var session draft.Session
	if reset {
		session, err = h.draftService.Reset(ctx, input)
	} else {
		session, err = h.draftService.Start(ctx, input)
	}
	if err != nil {
		h.logger.WarnContext(ctx, "start draft failed",
			"season_id", seasonID, "reset", reset, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, sessionToDTO(ctx, session, h.sessionPlayers(ctx, session)))
}

func (h *Handler) CloseDraft(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CloseDraft")
	defer span.End()

	principal, err := requireOperator(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	seasonID := r.PathValue("seasonID")
	session, err := h.draftService.Close(ctx, seasonID, principal.UserID)
	if err != nil {
		h.logger.WarnContext(ctx, "close draft failed", "season_id", seasonID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, sessionToDTO(ctx, session, h.sessionPlayers(ctx, session)))
}

// MakeDraftPick accepts a pick from an operator, or from the captain of the
// picking team. Turn order and pool membership are checked by the service.
func (h *Handler) MakeDraftPick(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.MakeDraftPick")
	defer span.End()

	principal, err := requirePrincipal(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	seasonID := r.PathValue("seasonID")
	var req makePickRequest
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

	if !principal.IsOperator() {
		control, exists, err := h.rosterRepo.GetControl(ctx, seasonID, req.TeamID)
		if err != nil {
			h.logger.WarnContext(ctx, "get roster control failed",
				"season_id", seasonID, "team_id", req.TeamID, "error", err)
			writeError(ctx, w, err)
			return
		}
		if !exists || control.CaptainID != principal.UserID {
			writeError(ctx, w, fmt.Errorf("%w: only the team captain or an operator may pick", usecase.ErrForbidden))
			return
		}
	}

	pick, err := h.draftService.MakePick(ctx, usecase.PickInput{
		SeasonID: seasonID,
		TeamID:   req.TeamID,
		PlayerID: req.PlayerID,
		ActorID:  principal.UserID,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "make pick failed",
			"season_id", seasonID, "team_id", req.TeamID, "player_id", req.PlayerID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, pickToDTO(ctx, pick, h.playersByID(ctx, seasonID, []string{pick.PlayerID})))
}

type startDraftRequest struct {
	TeamIDs []string `json:"team_ids" validate:"required,min=1,dive,required"`
	// Omitted when the season plan pools all eligible players; the service
	// then seeds the pool from the player directory.
	PoolIDs   []string `json:"pool_ids" validate:"omitempty,min=1,dive,required"`
	DraftMode string   `json:"draft_mode" validate:"required,oneof=manual snake"`
	Rounds    int      `json:"rounds" validate:"required,min=1,max=32"`
}

type makePickRequest struct {
	TeamID   string `json:"team_id" validate:"required"`
	PlayerID string `json:"player_id" validate:"required"`
}

type sessionDTO struct {
	SeasonID         string           `json:"season_id"`
	Status           string           `json:"status"`
	PickOrder        []string         `json:"pick_order"`
	CurrentPickIndex int              `json:"current_pick_index"`
	Mode             string           `json:"mode"`
	Rounds           int              `json:"rounds"`
	Pool             []draftPlayerDTO `json:"pool"`
	Picks            []pickDTO        `json:"picks"`
	NextTeamID       string           `json:"next_team_id,omitempty"`
	Complete         bool             `json:"complete"`
	StartedBy        string           `json:"started_by"`
	StartedAtUTC     string           `json:"started_at_utc"`
}

type draftPlayerDTO struct {
	PlayerID     string `json:"player_id"`
	Name         string `json:"name,omitempty"`
	JerseyNumber int    `json:"jersey_number,omitempty"`
	Level        string `json:"level,omitempty"`
}

type pickDTO struct {
	Number      int    `json:"number"`
	Round       int    `json:"round"`
	TeamID      string `json:"team_id"`
	PlayerID    string `json:"player_id"`
	PlayerName  string `json:"player_name,omitempty"`
	Level       string `json:"level,omitempty"`
	PickedAtUTC string `json:"picked_at_utc"`
	ActorID     string `json:"actor_id"`
}

// sessionPlayers loads directory entries for everyone the session references.
// A directory outage degrades the response to bare player ids.
func (h *Handler) sessionPlayers(ctx context.Context, v draft.Session) map[string]player.Player {
	ids := append([]string(nil), v.Pool...)
	for _, p := range v.Picks {
		ids = append(ids, p.PlayerID)
	}
	return h.playersByID(ctx, v.SeasonID, ids)
}

func (h *Handler) playersByID(ctx context.Context, seasonID string, ids []string) map[string]player.Player {
	players, err := h.playerRepo.GetByIDs(ctx, ids)
	if err != nil {
		h.logger.WarnContext(ctx, "player directory lookup failed", "season_id", seasonID, "error", err)
		return nil
	}
	byID := make(map[string]player.Player, len(players))
	for _, p := range players {
		byID[p.ID] = p
	}
	return byID
}

func sessionToDTO(ctx context.Context, v draft.Session, players map[string]player.Player) sessionDTO {
	ctx, span := startSpan(ctx, "httpapi.sessionToDTO")
	defer span.End()

	pool := make([]draftPlayerDTO, 0, len(v.Pool))
	for _, id := range v.Pool {
		pool = append(pool, draftPlayerToDTO(id, players))
	}
	picks := make([]pickDTO, 0, len(v.Picks))
	for _, p := range v.Picks {
		picks = append(picks, pickToDTO(ctx, p, players))
	}

	return sessionDTO{
		SeasonID:         v.SeasonID,
		Status:           string(v.Status),
		PickOrder:        append([]string(nil), v.PickOrder...),
		CurrentPickIndex: v.CurrentPickIndex,
		Mode:             string(v.Mode),
		Rounds:           v.Rounds,
		Pool:             pool,
		Picks:            picks,
		NextTeamID:       draft.NextTeamID(v),
		Complete:         v.IsComplete(),
		StartedBy:        v.StartedBy,
		StartedAtUTC:     v.StartedAt.UTC().Format(time.RFC3339),
	}
}

func draftPlayerToDTO(id string, players map[string]player.Player) draftPlayerDTO {
	dto := draftPlayerDTO{PlayerID: id}
	if p, ok := players[id]; ok {
		dto.Name = p.Name
		dto.JerseyNumber = p.JerseyNumber
		dto.Level = string(p.Level())
	}
	return dto
}

func pickToDTO(ctx context.Context, v draft.Pick, players map[string]player.Player) pickDTO {
	ctx, span := startSpan(ctx, "httpapi.pickToDTO")
	defer span.End()

	dto := pickDTO{
		Number:      v.Number,
		Round:       v.Round,
		TeamID:      v.TeamID,
		PlayerID:    v.PlayerID,
		PickedAtUTC: v.PickedAt.UTC().Format(time.RFC3339),
		ActorID:     v.ActorID,
	}
	if p, ok := players[v.PlayerID]; ok {
		dto.PlayerName = p.Name
		dto.Level = string(p.Level())
	}
	return dto
}
