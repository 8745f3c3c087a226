package httpapi

import (
	"context"
	"net/http"

	"github.com/dvhl/club-portal/internal/domain/standings"
)

func (h *Handler) ListStandings(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListStandings")
	defer span.End()

	seasonID := r.PathValue("seasonID")
	rows, err := h.standingsService.ListBySeason(ctx, seasonID)
	if err != nil {
		h.logger.WarnContext(ctx, "list standings failed", "season_id", seasonID, "error", err)
		writeError(ctx, w, err)
		return
	}

	dtos := make([]standingDTO, 0, len(rows))
	for _, row := range rows {
		dtos = append(dtos, standingToDTO(ctx, row))
	}

	writeSuccess(ctx, w, http.StatusOK, dtos)
}

type standingDTO struct {
	TeamID           string `json:"team_id"`
	TeamName         string `json:"team_name"`
	GamesPlayed      int    `json:"games_played"`
	Wins             int    `json:"wins"`
	Losses           int    `json:"losses"`
	Ties             int    `json:"ties"`
	GoalsFor         int    `json:"goals_for"`
	GoalsAgainst     int    `json:"goals_against"`
	GoalDifferential int    `json:"goal_differential"`
	Points           int    `json:"points"`
}

func standingToDTO(ctx context.Context, v standings.Row) standingDTO {
	ctx, span := startSpan(ctx, "httpapi.standingToDTO")
	defer span.End()

	return standingDTO{
		TeamID:           v.TeamID,
		TeamName:         v.TeamName,
		GamesPlayed:      v.GamesPlayed,
		Wins:             v.Wins,
		Losses:           v.Losses,
		Ties:             v.Ties,
		GoalsFor:         v.GoalsFor,
		GoalsAgainst:     v.GoalsAgainst,
		GoalDifferential: v.GoalDifferential(),
		Points:           v.Points,
	}
}
