package usecase

import (
	"errors"
	"testing"

	"github.com/dvhl/club-portal/internal/infrastructure/repository/memory"
	idgen "github.com/dvhl/club-portal/internal/platform/id"
)

func TestStandingsService_ReflectsRecordedResults(t *testing.T) {
	teamRepo := memory.NewTeamRepository(memory.SeedTeams())
	gameRepo := memory.NewGameRepository()
	schedule := NewScheduleService(teamRepo, gameRepo, idgen.NewRandomGenerator(), NopNotifier{}, nil)
	schedule.now = testTime
	svc := NewStandingsService(teamRepo, gameRepo)

	games, err := schedule.GenerateRoundRobin(t.Context(), RoundRobinInput{
		SeasonID:   memory.SeasonIDWinter2026,
		TeamIDs:    scheduleTeamIDs,
		CycleCount: 1,
		ActorID:    "ops-1",
	})
	if err != nil {
		t.Fatalf("generate schedule: %v", err)
	}

	rows, err := svc.ListBySeason(t.Context(), memory.SeasonIDWinter2026)
	if err != nil {
		t.Fatalf("list standings: %v", err)
	}
	if len(rows) != 4 {
		t.Fatalf("expected a row per team, got %d", len(rows))
	}
	for _, r := range rows {
		if r.GamesPlayed != 0 {
			t.Fatalf("unplayed schedule should yield zero rows: %+v", r)
		}
	}

	// Week 1: Gold beats Black 4-1, White and Red tie 2-2.
	recordScore(t, schedule, games[0].ID, 4, 1)
	recordScore(t, schedule, games[1].ID, 2, 2)

	rows, err = svc.ListBySeason(t.Context(), memory.SeasonIDWinter2026)
	if err != nil {
		t.Fatalf("list standings: %v", err)
	}
	if rows[0].TeamID != "team-gold" || rows[0].Points != 2 {
		t.Fatalf("gold should lead with 2 points: %+v", rows[0])
	}
	if rows[1].Points != 1 || rows[2].Points != 1 {
		t.Fatalf("tied teams should hold 1 point each: %+v, %+v", rows[1], rows[2])
	}
	if rows[3].TeamID != "team-black" || rows[3].Losses != 1 {
		t.Fatalf("black should trail with a loss: %+v", rows[3])
	}
}

func TestStandingsService_MissingSeasonID(t *testing.T) {
	svc := NewStandingsService(memory.NewTeamRepository(nil), memory.NewGameRepository())
	if _, err := svc.ListBySeason(t.Context(), ""); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}
