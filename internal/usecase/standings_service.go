package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/dvhl/club-portal/internal/domain/competition"
	"github.com/dvhl/club-portal/internal/domain/standings"
)

// StandingsService recomputes standings from the full game history on every
// read; nothing is cached or persisted.
type StandingsService struct {
	teamRepo competition.TeamRepository
	gameRepo competition.GameRepository
}

func NewStandingsService(teamRepo competition.TeamRepository, gameRepo competition.GameRepository) *StandingsService {
	return &StandingsService{
		teamRepo: teamRepo,
		gameRepo: gameRepo,
	}
}

func (s *StandingsService) ListBySeason(ctx context.Context, seasonID string) ([]standings.Row, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.StandingsService.ListBySeason")
	defer span.End()

	seasonID = strings.TrimSpace(seasonID)
	if seasonID == "" {
		return nil, fmt.Errorf("%w: season id is required", ErrInvalidInput)
	}

	teams, err := s.teamRepo.ListBySeason(ctx, seasonID)
	if err != nil {
		return nil, fmt.Errorf("list season teams: %w", err)
	}
	games, err := s.gameRepo.ListBySeason(ctx, seasonID)
	if err != nil {
		return nil, fmt.Errorf("list season games: %w", err)
	}

	return standings.Compute(teams, games), nil
}
