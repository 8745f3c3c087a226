package usecase

import (
	"errors"
	"testing"
	"time"

	"github.com/dvhl/club-portal/internal/domain/competition"
	"github.com/dvhl/club-portal/internal/infrastructure/repository/memory"
	idgen "github.com/dvhl/club-portal/internal/platform/id"
)

var scheduleTeamIDs = []string{"team-gold", "team-black", "team-white", "team-red"}

func newScheduleService(t *testing.T) (*ScheduleService, *memory.GameRepository) {
	t.Helper()
	teamRepo := memory.NewTeamRepository(memory.SeedTeams())
	gameRepo := memory.NewGameRepository()
	svc := NewScheduleService(teamRepo, gameRepo, idgen.NewRandomGenerator(), NopNotifier{}, nil)
	svc.now = testTime
	return svc, gameRepo
}

func TestScheduleService_GenerateRoundRobin(t *testing.T) {
	svc, _ := newScheduleService(t)
	base := time.Date(2026, time.January, 5, 19, 30, 0, 0, time.UTC)

	games, err := svc.GenerateRoundRobin(t.Context(), RoundRobinInput{
		SeasonID:       memory.SeasonIDWinter2026,
		TeamIDs:        scheduleTeamIDs,
		CycleCount:     2,
		BaseTime:       &base,
		DayInterval:    7,
		GameGapMinutes: 90,
		Location:       "Main Rink",
		ActorID:        "ops-1",
	})
	if err != nil {
		t.Fatalf("generate round robin: %v", err)
	}
	if len(games) != 12 {
		t.Fatalf("2 cycles of 4 teams should produce 12 games, got %d", len(games))
	}

	byWeek := make(map[string][]competition.Game)
	for _, g := range games {
		byWeek[g.WeekTag] = append(byWeek[g.WeekTag], g)
	}
	for week := 1; week <= 6; week++ {
		tag := competition.WeekTagFor(week)
		if len(byWeek[tag]) != 2 {
			t.Fatalf("week %d: expected 2 games, got %d", week, len(byWeek[tag]))
		}
	}

	// Week 1 pairs gold/black and white/red; week 4 repeats the template.
	w1 := byWeek["week-1"]
	if w1[0].HomeTeamID != "team-gold" || w1[0].OpponentTeamID != "team-black" {
		t.Fatalf("week 1 game 1 pairing wrong: %s vs %s", w1[0].HomeTeamID, w1[0].OpponentTeamID)
	}
	if w1[1].HomeTeamID != "team-white" || w1[1].OpponentTeamID != "team-red" {
		t.Fatalf("week 1 game 2 pairing wrong: %s vs %s", w1[1].HomeTeamID, w1[1].OpponentTeamID)
	}
	w4 := byWeek["week-4"]
	if w4[0].HomeTeamID != "team-gold" || w4[0].OpponentTeamID != "team-black" {
		t.Fatalf("cycle 2 should repeat the template: %s vs %s", w4[0].HomeTeamID, w4[0].OpponentTeamID)
	}

	// Times: week N starts base + (N-1) x 7 days; second game 90 minutes later.
	if !w1[0].StartsAt.Equal(base) {
		t.Fatalf("week 1 game 1 time: %v", w1[0].StartsAt)
	}
	if !w1[1].StartsAt.Equal(base.Add(90 * time.Minute)) {
		t.Fatalf("week 1 game 2 time: %v", w1[1].StartsAt)
	}
	if !w4[0].StartsAt.Equal(base.Add(3 * 7 * 24 * time.Hour)) {
		t.Fatalf("week 4 game 1 time: %v", w4[0].StartsAt)
	}

	// Opponent name is denormalized from the team directory.
	if w1[0].OpponentName != "Black" {
		t.Fatalf("expected denormalized opponent name, got %q", w1[0].OpponentName)
	}
}

func TestScheduleService_GenerateRoundRobinDefaultsToWeeklyInterval(t *testing.T) {
	svc, _ := newScheduleService(t)
	base := time.Date(2026, time.January, 5, 19, 30, 0, 0, time.UTC)

	games, err := svc.GenerateRoundRobin(t.Context(), RoundRobinInput{
		SeasonID:   memory.SeasonIDWinter2026,
		TeamIDs:    scheduleTeamIDs,
		CycleCount: 1,
		BaseTime:   &base,
		ActorID:    "ops-1",
	})
	if err != nil {
		t.Fatalf("generate round robin: %v", err)
	}

	byWeek := make(map[string][]competition.Game)
	for _, g := range games {
		byWeek[g.WeekTag] = append(byWeek[g.WeekTag], g)
	}
	if !byWeek["week-1"][0].StartsAt.Equal(base) {
		t.Fatalf("week 1 time: %v", byWeek["week-1"][0].StartsAt)
	}
	if !byWeek["week-2"][0].StartsAt.Equal(base.Add(7 * 24 * time.Hour)) {
		t.Fatalf("omitted interval should fall back to weekly, got %v", byWeek["week-2"][0].StartsAt)
	}
	if !byWeek["week-3"][0].StartsAt.Equal(base.Add(2 * 7 * 24 * time.Hour)) {
		t.Fatalf("week 3 time: %v", byWeek["week-3"][0].StartsAt)
	}
}

func TestScheduleService_GenerateRoundRobinValidation(t *testing.T) {
	svc, _ := newScheduleService(t)

	_, err := svc.GenerateRoundRobin(t.Context(), RoundRobinInput{
		SeasonID:   memory.SeasonIDWinter2026,
		TeamIDs:    scheduleTeamIDs[:3],
		CycleCount: 1,
	})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for 3 teams, got %v", err)
	}

	_, err = svc.GenerateRoundRobin(t.Context(), RoundRobinInput{
		SeasonID: memory.SeasonIDWinter2026,
		TeamIDs:  scheduleTeamIDs,
	})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for zero cycles, got %v", err)
	}
}

func TestScheduleService_ClearExistingReplacesSchedule(t *testing.T) {
	svc, _ := newScheduleService(t)

	input := RoundRobinInput{
		SeasonID:   memory.SeasonIDWinter2026,
		TeamIDs:    scheduleTeamIDs,
		CycleCount: 1,
		ActorID:    "ops-1",
	}
	if _, err := svc.GenerateRoundRobin(t.Context(), input); err != nil {
		t.Fatalf("first generate: %v", err)
	}

	input.ClearExisting = true
	if _, err := svc.GenerateRoundRobin(t.Context(), input); err != nil {
		t.Fatalf("regenerate: %v", err)
	}
	games, err := svc.ListSchedule(t.Context(), memory.SeasonIDWinter2026)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(games) != 6 {
		t.Fatalf("clear-and-regenerate should leave one cycle, got %d games", len(games))
	}
}

func TestScheduleService_SaveManualWeeksSkipsInvalidRows(t *testing.T) {
	svc, _ := newScheduleService(t)

	games, err := svc.SaveManualWeeks(t.Context(), ManualWeeksInput{
		SeasonID: memory.SeasonIDWinter2026,
		Weeks: [][]ManualGameInput{
			{
				{HomeTeamID: "team-gold", AwayTeamID: "team-black", Location: "Main Rink"},
				{HomeTeamID: "", AwayTeamID: "team-red"}, // blank home, skipped
			},
			{
				{HomeTeamID: "team-white", AwayTeamID: "team-white"}, // self-pairing, skipped
				{HomeTeamID: "team-red", AwayTeamID: "team-gold"},
			},
		},
		ActorID: "ops-1",
	})
	if err != nil {
		t.Fatalf("save manual weeks: %v", err)
	}
	if len(games) != 2 {
		t.Fatalf("expected 2 games after skipping invalid rows, got %d", len(games))
	}
	if games[0].WeekTag != "week-1" || games[1].WeekTag != "week-2" {
		t.Fatalf("week tags should follow grid position: %s, %s", games[0].WeekTag, games[1].WeekTag)
	}
}

func TestScheduleService_SaveManualWeeksLimits(t *testing.T) {
	svc, _ := newScheduleService(t)

	weeks := make([][]ManualGameInput, 7)
	_, err := svc.SaveManualWeeks(t.Context(), ManualWeeksInput{SeasonID: memory.SeasonIDWinter2026, Weeks: weeks})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for 7 weeks, got %v", err)
	}

	_, err = svc.SaveManualWeeks(t.Context(), ManualWeeksInput{
		SeasonID: memory.SeasonIDWinter2026,
		Weeks: [][]ManualGameInput{{
			{HomeTeamID: "team-gold", AwayTeamID: "team-black"},
			{HomeTeamID: "team-white", AwayTeamID: "team-red"},
			{HomeTeamID: "team-gold", AwayTeamID: "team-white"},
		}},
	})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for 3 games in a week, got %v", err)
	}
}

func TestScheduleService_SetupPlayoffs(t *testing.T) {
	svc, _ := newScheduleService(t)

	games, err := svc.SetupPlayoffs(t.Context(), PlayoffSetupInput{
		SeasonID: memory.SeasonIDWinter2026,
		Semifinals: [2]PlayoffPairing{
			{HomeTeamID: "team-gold", AwayTeamID: "team-red", Location: "Main Rink"},
			{HomeTeamID: "team-black", AwayTeamID: "team-white", Location: "Main Rink"},
		},
		Championship: PlayoffPairing{HomeTeamID: "team-gold", AwayTeamID: "team-black"},
		Consolation:  PlayoffPairing{HomeTeamID: "team-red", AwayTeamID: "team-white"},
		ActorID:      "ops-1",
	})
	if err != nil {
		t.Fatalf("setup playoffs: %v", err)
	}
	if len(games) != 4 {
		t.Fatalf("expected 4 playoff games, got %d", len(games))
	}
	if games[0].WeekTag != "week-7" || games[1].WeekTag != "week-7" {
		t.Fatalf("semifinals should land in week 7: %s, %s", games[0].WeekTag, games[1].WeekTag)
	}
	if games[2].WeekTag != "week-8" || games[2].PlayoffTag != competition.PlayoffDefendersCup {
		t.Fatalf("championship tags wrong: %+v", games[2])
	}
	if games[3].WeekTag != "week-8" || games[3].PlayoffTag != competition.PlayoffToiletBowl {
		t.Fatalf("consolation tags wrong: %+v", games[3])
	}
}

func TestScheduleService_SetupPlayoffsSkipsEmptyPairings(t *testing.T) {
	svc, _ := newScheduleService(t)

	games, err := svc.SetupPlayoffs(t.Context(), PlayoffSetupInput{
		SeasonID: memory.SeasonIDWinter2026,
		Semifinals: [2]PlayoffPairing{
			{HomeTeamID: "team-gold", AwayTeamID: "team-red"},
			{}, // second semifinal not decided yet
		},
		ActorID: "ops-1",
	})
	if err != nil {
		t.Fatalf("setup playoffs: %v", err)
	}
	if len(games) != 1 {
		t.Fatalf("empty pairings should be skipped, got %d games", len(games))
	}
}

func seedSemifinals(t *testing.T, svc *ScheduleService) []competition.Game {
	t.Helper()
	games, err := svc.SetupPlayoffs(t.Context(), PlayoffSetupInput{
		SeasonID: memory.SeasonIDWinter2026,
		Semifinals: [2]PlayoffPairing{
			{HomeTeamID: "team-gold", AwayTeamID: "team-black", Location: "Main Rink"},
			{HomeTeamID: "team-white", AwayTeamID: "team-red", Location: "Main Rink"},
		},
		ActorID: "ops-1",
	})
	if err != nil {
		t.Fatalf("seed semifinals: %v", err)
	}
	return games
}

func recordScore(t *testing.T, svc *ScheduleService, gameID string, home, away int) {
	t.Helper()
	if _, err := svc.RecordResult(t.Context(), RecordResultInput{
		GameID:    gameID,
		HomeScore: home,
		AwayScore: away,
		ActorID:   "ops-1",
	}); err != nil {
		t.Fatalf("record result for %s: %v", gameID, err)
	}
}

func TestScheduleService_ResolvePlayoffs(t *testing.T) {
	svc, _ := newScheduleService(t)
	semis := seedSemifinals(t, svc)

	// Gold beats Black 4-2, Red beats White 3-1.
	recordScore(t, svc, semis[0].ID, 4, 2)
	recordScore(t, svc, semis[1].ID, 1, 3)

	kickoff := time.Date(2026, time.March, 1, 18, 0, 0, 0, time.UTC)
	games, err := svc.ResolvePlayoffs(t.Context(), ResolvePlayoffsInput{
		SeasonID:         memory.SeasonIDWinter2026,
		ChampionshipTime: &kickoff,
		ChampionshipLoc:  "Main Rink",
		ActorID:          "ops-1",
	})
	if err != nil {
		t.Fatalf("resolve playoffs: %v", err)
	}
	if len(games) != 2 {
		t.Fatalf("expected championship and consolation, got %d games", len(games))
	}

	champ, consol := games[0], games[1]
	if champ.PlayoffTag != competition.PlayoffDefendersCup {
		t.Fatalf("championship tag wrong: %+v", champ)
	}
	if champ.HomeTeamID != "team-gold" || champ.OpponentTeamID != "team-red" {
		t.Fatalf("winners should meet in the championship: %s vs %s", champ.HomeTeamID, champ.OpponentTeamID)
	}
	if consol.PlayoffTag != competition.PlayoffToiletBowl {
		t.Fatalf("consolation tag wrong: %+v", consol)
	}
	if consol.HomeTeamID != "team-black" || consol.OpponentTeamID != "team-white" {
		t.Fatalf("losers should meet in the consolation: %s vs %s", consol.HomeTeamID, consol.OpponentTeamID)
	}

	// Consolation falls back to the championship's time and location.
	if consol.StartsAt == nil || !consol.StartsAt.Equal(kickoff) {
		t.Fatalf("consolation time should inherit the championship's: %v", consol.StartsAt)
	}
	if consol.Location != "Main Rink" {
		t.Fatalf("consolation location should inherit the championship's: %q", consol.Location)
	}
}

func TestScheduleService_ResolvePlayoffsReusesPreviousWeek8Details(t *testing.T) {
	svc, _ := newScheduleService(t)
	semis := seedSemifinals(t, svc)
	recordScore(t, svc, semis[0].ID, 4, 2)
	recordScore(t, svc, semis[1].ID, 1, 3)

	first := time.Date(2026, time.March, 1, 18, 0, 0, 0, time.UTC)
	if _, err := svc.ResolvePlayoffs(t.Context(), ResolvePlayoffsInput{
		SeasonID:         memory.SeasonIDWinter2026,
		ChampionshipTime: &first,
		ChampionshipLoc:  "Main Rink",
		ActorID:          "ops-1",
	}); err != nil {
		t.Fatalf("first resolve: %v", err)
	}

	// Re-run without fresh details: the replaced games keep the old ones.
	games, err := svc.ResolvePlayoffs(t.Context(), ResolvePlayoffsInput{
		SeasonID: memory.SeasonIDWinter2026,
		ActorID:  "ops-1",
	})
	if err != nil {
		t.Fatalf("second resolve: %v", err)
	}
	if games[0].StartsAt == nil || !games[0].StartsAt.Equal(first) {
		t.Fatalf("rerun should keep the previous championship time: %v", games[0].StartsAt)
	}
	if games[0].Location != "Main Rink" {
		t.Fatalf("rerun should keep the previous championship location: %q", games[0].Location)
	}

	all, err := svc.ListSchedule(t.Context(), memory.SeasonIDWinter2026)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	week8 := 0
	for _, g := range all {
		if g.WeekTag == "week-8" {
			week8++
		}
	}
	if week8 != 2 {
		t.Fatalf("rerun must replace week-8 games, not stack them: got %d", week8)
	}
}

func TestScheduleService_ResolvePlayoffsRejections(t *testing.T) {
	t.Run("missing semifinals", func(t *testing.T) {
		svc, _ := newScheduleService(t)
		_, err := svc.ResolvePlayoffs(t.Context(), ResolvePlayoffsInput{SeasonID: memory.SeasonIDWinter2026})
		if !errors.Is(err, ErrSemifinalsNotReady) {
			t.Fatalf("expected ErrSemifinalsNotReady, got %v", err)
		}
	})

	t.Run("unscored semifinal", func(t *testing.T) {
		svc, _ := newScheduleService(t)
		semis := seedSemifinals(t, svc)
		recordScore(t, svc, semis[0].ID, 4, 2)
		_, err := svc.ResolvePlayoffs(t.Context(), ResolvePlayoffsInput{SeasonID: memory.SeasonIDWinter2026})
		if !errors.Is(err, ErrSemifinalsNotReady) {
			t.Fatalf("expected ErrSemifinalsNotReady, got %v", err)
		}
	})

	t.Run("tied semifinal", func(t *testing.T) {
		svc, _ := newScheduleService(t)
		semis := seedSemifinals(t, svc)
		recordScore(t, svc, semis[0].ID, 2, 2)
		recordScore(t, svc, semis[1].ID, 1, 3)
		_, err := svc.ResolvePlayoffs(t.Context(), ResolvePlayoffsInput{SeasonID: memory.SeasonIDWinter2026})
		if !errors.Is(err, ErrSemifinalTied) {
			t.Fatalf("expected ErrSemifinalTied, got %v", err)
		}
	})
}

func TestScheduleService_RecordResult(t *testing.T) {
	svc, _ := newScheduleService(t)
	games, err := svc.SaveManualWeeks(t.Context(), ManualWeeksInput{
		SeasonID: memory.SeasonIDWinter2026,
		Weeks:    [][]ManualGameInput{{{HomeTeamID: "team-gold", AwayTeamID: "team-black"}}},
		ActorID:  "ops-1",
	})
	if err != nil {
		t.Fatalf("seed game: %v", err)
	}

	game, err := svc.RecordResult(t.Context(), RecordResultInput{
		GameID:    games[0].ID,
		HomeScore: 5,
		AwayScore: 3,
		ActorID:   "ops-1",
	})
	if err != nil {
		t.Fatalf("record result: %v", err)
	}
	if game.HomeScore == nil || *game.HomeScore != 5 || game.AwayScore == nil || *game.AwayScore != 3 {
		t.Fatalf("scores not stored: %+v", game)
	}
	if game.Status != "final" {
		t.Fatalf("blank status should default to final, got %q", game.Status)
	}

	_, err = svc.RecordResult(t.Context(), RecordResultInput{GameID: "no-such-game", HomeScore: 1, AwayScore: 0})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	_, err = svc.RecordResult(t.Context(), RecordResultInput{GameID: games[0].ID, HomeScore: -1, AwayScore: 0})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for negative score, got %v", err)
	}
}
