package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"

	"github.com/dvhl/club-portal/internal/domain/competition"
	"github.com/dvhl/club-portal/internal/usecase"
)

func (h *Handler) ListSchedule(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListSchedule")
	defer span.End()

	seasonID := r.PathValue("seasonID")
	games, err := h.scheduleService.ListSchedule(ctx, seasonID)
	if err != nil {
		h.logger.WarnContext(ctx, "list schedule failed", "season_id", seasonID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, gamesToDTOs(ctx, games))
}

func (h *Handler) GenerateRoundRobin(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GenerateRoundRobin")
	defer span.End()

	principal, err := requireOperator(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	seasonID := r.PathValue("seasonID")
	var req roundRobinRequest
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

	games, err := h.scheduleService.GenerateRoundRobin(ctx, usecase.RoundRobinInput{
		SeasonID:       seasonID,
		TeamIDs:        req.TeamIDs,
		CycleCount:     req.CycleCount,
		BaseTime:       h.parseOptionalTime(ctx, req.BaseTime, "base_time"),
		DayInterval:    req.DayInterval,
		GameGapMinutes: req.GameGapMinutes,
		Location:       req.Location,
		ClearExisting:  req.ClearExisting,
		ActorID:        principal.UserID,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "generate round robin failed", "season_id", seasonID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, gamesToDTOs(ctx, games))
}

func (h *Handler) SaveManualSchedule(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SaveManualSchedule")
	defer span.End()

	principal, err := requireOperator(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	seasonID := r.PathValue("seasonID")
	var req manualScheduleRequest
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

	weeks := make([][]usecase.ManualGameInput, 0, len(req.Weeks))
	for _, week := range req.Weeks {
		games := make([]usecase.ManualGameInput, 0, len(week))
		for _, g := range week {
			games = append(games, usecase.ManualGameInput{
				HomeTeamID: g.HomeTeamID,
				AwayTeamID: g.AwayTeamID,
				StartsAt:   h.parseOptionalTime(ctx, g.StartsAt, "starts_at"),
				Location:   g.Location,
			})
		}
		weeks = append(weeks, games)
	}

	games, err := h.scheduleService.SaveManualWeeks(ctx, usecase.ManualWeeksInput{
		SeasonID:      seasonID,
		Weeks:         weeks,
		ClearExisting: req.ClearExisting,
		ActorID:       principal.UserID,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "save manual schedule failed", "season_id", seasonID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, gamesToDTOs(ctx, games))
}

func (h *Handler) SetupPlayoffs(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SetupPlayoffs")
	defer span.End()

	principal, err := requireOperator(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	seasonID := r.PathValue("seasonID")
	var req playoffSetupRequest
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

	games, err := h.scheduleService.SetupPlayoffs(ctx, usecase.PlayoffSetupInput{
		SeasonID: seasonID,
		Semifinals: [2]usecase.PlayoffPairing{
			h.pairingFromRequest(ctx, req.Semifinals[0]),
			h.pairingFromRequest(ctx, req.Semifinals[1]),
		},
		Championship:  h.pairingFromRequest(ctx, req.Championship),
		Consolation:   h.pairingFromRequest(ctx, req.Consolation),
		ClearExisting: req.ClearExisting,
		ActorID:       principal.UserID,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "setup playoffs failed", "season_id", seasonID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, gamesToDTOs(ctx, games))
}

func (h *Handler) ResolvePlayoffs(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ResolvePlayoffs")
	defer span.End()

	principal, err := requireOperator(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	seasonID := r.PathValue("seasonID")
	var req resolvePlayoffsRequest
	decoder := jsoniter.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeError(ctx, w, fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err))
		return
	}

	games, err := h.scheduleService.ResolvePlayoffs(ctx, usecase.ResolvePlayoffsInput{
		SeasonID:         seasonID,
		ChampionshipTime: h.parseOptionalTime(ctx, req.ChampionshipTime, "championship_time"),
		ChampionshipLoc:  req.ChampionshipLoc,
		ConsolationTime:  h.parseOptionalTime(ctx, req.ConsolationTime, "consolation_time"),
		ConsolationLoc:   req.ConsolationLoc,
		ActorID:          principal.UserID,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "resolve playoffs failed", "season_id", seasonID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, gamesToDTOs(ctx, games))
}

func (h *Handler) RecordGameResult(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RecordGameResult")
	defer span.End()

	principal, err := requireOperator(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	gameID := r.PathValue("gameID")
	var req recordResultRequest
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

	game, err := h.scheduleService.RecordResult(ctx, usecase.RecordResultInput{
		GameID:    gameID,
		HomeScore: req.HomeScore,
		AwayScore: req.AwayScore,
		Status:    req.Status,
		ActorID:   principal.UserID,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "record game result failed", "game_id", gameID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, gameToDTO(ctx, game))
}

// parseOptionalTime is tolerant the way the plan form is: an absent or
// unparseable value becomes nil rather than failing the whole save.
func (h *Handler) parseOptionalTime(ctx context.Context, raw, field string) *time.Time {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	parsed, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		h.logger.WarnContext(ctx, "dropping unparseable time", "field", field, "value", raw)
		return nil
	}
	return &parsed
}

func (h *Handler) pairingFromRequest(ctx context.Context, req playoffPairingRequest) usecase.PlayoffPairing {
	return usecase.PlayoffPairing{
		HomeTeamID: req.HomeTeamID,
		AwayTeamID: req.AwayTeamID,
		StartsAt:   h.parseOptionalTime(ctx, req.StartsAt, "starts_at"),
		Location:   req.Location,
	}
}

type roundRobinRequest struct {
	TeamIDs        []string `json:"team_ids" validate:"required,len=4,dive,required"`
	CycleCount     int      `json:"cycle_count" validate:"required,min=1,max=8"`
	BaseTime       string   `json:"base_time"`
	DayInterval    int      `json:"day_interval" validate:"omitempty,min=1,max=30"`
	GameGapMinutes int      `json:"game_gap_minutes" validate:"omitempty,min=0,max=720"`
	Location       string   `json:"location" validate:"max=200"`
	ClearExisting  bool     `json:"clear_existing"`
}

type manualGameRequest struct {
	HomeTeamID string `json:"home_team_id"`
	AwayTeamID string `json:"away_team_id"`
	StartsAt   string `json:"starts_at"`
	Location   string `json:"location" validate:"max=200"`
}

type manualScheduleRequest struct {
	Weeks         [][]manualGameRequest `json:"weeks" validate:"required,min=1,max=6,dive,max=2"`
	ClearExisting bool                  `json:"clear_existing"`
}

type playoffPairingRequest struct {
	HomeTeamID string `json:"home_team_id" validate:"required"`
	AwayTeamID string `json:"away_team_id" validate:"required"`
	StartsAt   string `json:"starts_at"`
	Location   string `json:"location" validate:"max=200"`
}

type playoffSetupRequest struct {
	Semifinals    [2]playoffPairingRequest `json:"semifinals" validate:"required"`
	Championship  playoffPairingRequest    `json:"championship" validate:"required"`
	Consolation   playoffPairingRequest    `json:"consolation" validate:"required"`
	ClearExisting bool                     `json:"clear_existing"`
}

type resolvePlayoffsRequest struct {
	ChampionshipTime string `json:"championship_time"`
	ChampionshipLoc  string `json:"championship_location"`
	ConsolationTime  string `json:"consolation_time"`
	ConsolationLoc   string `json:"consolation_location"`
}

type recordResultRequest struct {
	HomeScore int    `json:"home_score" validate:"min=0,max=99"`
	AwayScore int    `json:"away_score" validate:"min=0,max=99"`
	Status    string `json:"status" validate:"max=50"`
}

type gameDTO struct {
	ID             string `json:"id"`
	SeasonID       string `json:"season_id"`
	HomeTeamID     string `json:"home_team_id"`
	OpponentTeamID string `json:"opponent_team_id"`
	OpponentName   string `json:"opponent_name,omitempty"`
	StartsAtUTC    string `json:"starts_at_utc,omitempty"`
	Location       string `json:"location,omitempty"`
	WeekTag        string `json:"week_tag,omitempty"`
	PlayoffTag     string `json:"playoff_tag,omitempty"`
	HomeScore      *int   `json:"home_score,omitempty"`
	AwayScore      *int   `json:"away_score,omitempty"`
	Status         string `json:"status,omitempty"`
	Final          bool   `json:"final"`
}

func gamesToDTOs(ctx context.Context, games []competition.Game) []gameDTO {
	dtos := make([]gameDTO, 0, len(games))
	for _, g := range games {
		dtos = append(dtos, gameToDTO(ctx, g))
	}
	return dtos
}

func gameToDTO(ctx context.Context, v competition.Game) gameDTO {
	ctx, span := startSpan(ctx, "httpapi.gameToDTO")
	defer span.End()

	dto := gameDTO{
		ID:             v.ID,
		SeasonID:       v.SeasonID,
		HomeTeamID:     v.HomeTeamID,
		OpponentTeamID: v.OpponentTeamID,
		OpponentName:   v.OpponentName,
		Location:       v.Location,
		WeekTag:        v.WeekTag,
		PlayoffTag:     v.PlayoffTag,
		HomeScore:      v.HomeScore,
		AwayScore:      v.AwayScore,
		Status:         v.Status,
		Final:          v.IsFinal(),
	}
	if v.StartsAt != nil {
		dto.StartsAtUTC = v.StartsAt.UTC().Format(time.RFC3339)
	}
	return dto
}
