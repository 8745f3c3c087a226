package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/dvhl/club-portal/internal/domain/competition"
	"github.com/dvhl/club-portal/internal/domain/notify"
	idgen "github.com/dvhl/club-portal/internal/platform/id"
)

const (
	roundRobinTeamCount = 4
	weeksPerCycle       = 3
	manualMaxWeeks      = 6
	manualGamesPerWeek  = 2
	defaultDayInterval  = 7
)

// roundRobinTemplate is the fixed pairing template for four teams, indices
// into the team list. One cycle is a complete round robin; cycles repeat the
// template verbatim (not rotated) so goals accumulate identically per cycle.
var roundRobinTemplate = [weeksPerCycle][manualGamesPerWeek][2]int{
	{{0, 1}, {2, 3}},
	{{0, 2}, {1, 3}},
	{{0, 3}, {1, 2}},
}

type RoundRobinInput struct {
	SeasonID       string
	TeamIDs        []string
	CycleCount     int
	BaseTime       *time.Time
	DayInterval    int
	GameGapMinutes int
	Location       string
	ClearExisting  bool
	ActorID        string
}

type ManualGameInput struct {
	HomeTeamID string
	AwayTeamID string
	StartsAt   *time.Time
	Location   string
}

type ManualWeeksInput struct {
	SeasonID      string
	Weeks         [][]ManualGameInput
	ClearExisting bool
	ActorID       string
}

type PlayoffPairing struct {
	HomeTeamID string
	AwayTeamID string
	StartsAt   *time.Time
	Location   string
}

type PlayoffSetupInput struct {
	SeasonID      string
	Semifinals    [2]PlayoffPairing
	Championship  PlayoffPairing
	Consolation   PlayoffPairing
	ClearExisting bool
	ActorID       string
}

type ResolvePlayoffsInput struct {
	SeasonID         string
	ChampionshipTime *time.Time
	ChampionshipLoc  string
	ConsolationTime  *time.Time
	ConsolationLoc   string
	ActorID          string
}

type RecordResultInput struct {
	GameID    string
	HomeScore int
	AwayScore int
	Status    string
	ActorID   string
}

// ScheduleService writes round-robin, manual, and playoff games into the
// shared competition aggregate. Generation is delete-then-create and not
// atomic; rerunning with ClearExisting converges to a correct schedule.
type ScheduleService struct {
	teamRepo competition.TeamRepository
	gameRepo competition.GameRepository
	idGen    idgen.Generator
	notifier NotifySink
	logger   *slog.Logger
	now      func() time.Time
}

func NewScheduleService(teamRepo competition.TeamRepository, gameRepo competition.GameRepository, idGen idgen.Generator, notifier NotifySink, logger *slog.Logger) *ScheduleService {
	if logger == nil {
		logger = slog.Default()
	}
	return &ScheduleService{
		teamRepo: teamRepo,
		gameRepo: gameRepo,
		idGen:    idGen,
		notifier: notifier,
		logger:   logger,
		now:      time.Now,
	}
}

func (s *ScheduleService) ListSchedule(ctx context.Context, seasonID string) ([]competition.Game, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ScheduleService.ListSchedule")
	defer span.End()

	seasonID = strings.TrimSpace(seasonID)
	if seasonID == "" {
		return nil, fmt.Errorf("%w: season id is required", ErrInvalidInput)
	}
	games, err := s.gameRepo.ListBySeason(ctx, seasonID)
	if err != nil {
		return nil, fmt.Errorf("list season games: %w", err)
	}
	return games, nil
}

// GenerateRoundRobin emits cycleCount x 3 weeks of games for exactly four
// teams. Start times are base + (week-1) x dayInterval days (weekly when the
// interval is omitted); the second game of a week starts gameGapMinutes after
// the first.
func (s *ScheduleService) GenerateRoundRobin(ctx context.Context, input RoundRobinInput) ([]competition.Game, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ScheduleService.GenerateRoundRobin")
	defer span.End()

	input.SeasonID = strings.TrimSpace(input.SeasonID)
	if input.SeasonID == "" {
		return nil, fmt.Errorf("%w: season id is required", ErrInvalidInput)
	}
	if len(input.TeamIDs) != roundRobinTeamCount {
		return nil, fmt.Errorf("%w: round-robin preset needs exactly %d teams", ErrInvalidInput, roundRobinTeamCount)
	}
	if input.CycleCount < 1 {
		return nil, fmt.Errorf("%w: cycle count must be at least 1", ErrInvalidInput)
	}

	namesByID, err := s.teamNames(ctx, input.SeasonID)
	if err != nil {
		return nil, err
	}

	games := make([]competition.Game, 0, input.CycleCount*weeksPerCycle*manualGamesPerWeek)
	week := 0
	for cycle := 0; cycle < input.CycleCount; cycle++ {
		for _, pairings := range roundRobinTemplate {
			week++
			for slot, pair := range pairings {
				home := input.TeamIDs[pair[0]]
				away := input.TeamIDs[pair[1]]
				game, err := s.newGame(input.SeasonID, home, away, namesByID[away])
				if err != nil {
					return nil, err
				}
				game.WeekTag = competition.WeekTagFor(week)
				game.Location = input.Location
				game.StartsAt = gameTime(input.BaseTime, week, input.DayInterval, slot*input.GameGapMinutes)
				games = append(games, game)
			}
		}
	}

	if err := s.write(ctx, input.SeasonID, games, input.ClearExisting, input.ActorID); err != nil {
		return nil, err
	}
	return games, nil
}

// SaveManualWeeks accepts up to 6 weeks of up to 2 games of raw form input.
// Rows with a blank or identical home/away id are skipped, not rejected, so
// the UI can submit a partially filled grid.
func (s *ScheduleService) SaveManualWeeks(ctx context.Context, input ManualWeeksInput) ([]competition.Game, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ScheduleService.SaveManualWeeks")
	defer span.End()

	input.SeasonID = strings.TrimSpace(input.SeasonID)
	if input.SeasonID == "" {
		return nil, fmt.Errorf("%w: season id is required", ErrInvalidInput)
	}
	if len(input.Weeks) > manualMaxWeeks {
		return nil, fmt.Errorf("%w: at most %d weeks", ErrInvalidInput, manualMaxWeeks)
	}

	namesByID, err := s.teamNames(ctx, input.SeasonID)
	if err != nil {
		return nil, err
	}

	var games []competition.Game
	for weekIdx, weekGames := range input.Weeks {
		if len(weekGames) > manualGamesPerWeek {
			return nil, fmt.Errorf("%w: at most %d games per week", ErrInvalidInput, manualGamesPerWeek)
		}
		for _, raw := range weekGames {
			home := strings.TrimSpace(raw.HomeTeamID)
			away := strings.TrimSpace(raw.AwayTeamID)
			if home == "" || away == "" || home == away {
				continue
			}
			game, err := s.newGame(input.SeasonID, home, away, namesByID[away])
			if err != nil {
				return nil, err
			}
			game.WeekTag = competition.WeekTagFor(weekIdx + 1)
			game.StartsAt = raw.StartsAt
			game.Location = strings.TrimSpace(raw.Location)
			games = append(games, game)
		}
	}

	if err := s.write(ctx, input.SeasonID, games, input.ClearExisting, input.ActorID); err != nil {
		return nil, err
	}
	return games, nil
}

// SetupPlayoffs writes operator-supplied week-7 semifinals and week-8
// championship/consolation games. The week-8 games carry the Defenders Cup
// and Toilet Bowl markers used by resolution and presentation.
func (s *ScheduleService) SetupPlayoffs(ctx context.Context, input PlayoffSetupInput) ([]competition.Game, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ScheduleService.SetupPlayoffs")
	defer span.End()

	input.SeasonID = strings.TrimSpace(input.SeasonID)
	if input.SeasonID == "" {
		return nil, fmt.Errorf("%w: season id is required", ErrInvalidInput)
	}

	namesByID, err := s.teamNames(ctx, input.SeasonID)
	if err != nil {
		return nil, err
	}

	build := func(p PlayoffPairing, week int, playoffTag string) (competition.Game, bool, error) {
		home := strings.TrimSpace(p.HomeTeamID)
		away := strings.TrimSpace(p.AwayTeamID)
		if home == "" || away == "" || home == away {
			return competition.Game{}, false, nil
		}
		game, err := s.newGame(input.SeasonID, home, away, namesByID[away])
		if err != nil {
			return competition.Game{}, false, err
		}
		game.WeekTag = competition.WeekTagFor(week)
		game.PlayoffTag = playoffTag
		game.StartsAt = p.StartsAt
		game.Location = strings.TrimSpace(p.Location)
		return game, true, nil
	}

	var games []competition.Game
	for _, semi := range input.Semifinals {
		game, ok, err := build(semi, competition.SemifinalWeek, "")
		if err != nil {
			return nil, err
		}
		if ok {
			games = append(games, game)
		}
	}
	if game, ok, err := build(input.Championship, competition.ChampionshipWeek, competition.PlayoffDefendersCup); err != nil {
		return nil, err
	} else if ok {
		games = append(games, game)
	}
	if game, ok, err := build(input.Consolation, competition.ChampionshipWeek, competition.PlayoffToiletBowl); err != nil {
		return nil, err
	} else if ok {
		games = append(games, game)
	}

	if err := s.write(ctx, input.SeasonID, games, input.ClearExisting, input.ActorID); err != nil {
		return nil, err
	}
	return games, nil
}

// ResolvePlayoffs derives the week-8 bracket from the two recorded week-7
// semifinals: winners meet in the Defenders Cup, losers in the Toilet Bowl.
// Existing week-8 games are deleted first so resolution can be re-run.
// Time/location fall back from fresh input to the previous week-8 game's
// values, and for the consolation finally to the championship's own values;
// operators rely on "set once, reuse for both".
func (s *ScheduleService) ResolvePlayoffs(ctx context.Context, input ResolvePlayoffsInput) ([]competition.Game, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ScheduleService.ResolvePlayoffs")
	defer span.End()

	input.SeasonID = strings.TrimSpace(input.SeasonID)
	if input.SeasonID == "" {
		return nil, fmt.Errorf("%w: season id is required", ErrInvalidInput)
	}

	semis, err := s.gameRepo.ListByWeekTag(ctx, input.SeasonID, competition.WeekTagFor(competition.SemifinalWeek))
	if err != nil {
		return nil, fmt.Errorf("list semifinal games: %w", err)
	}
	if len(semis) < 2 {
		return nil, fmt.Errorf("%w: found %d semifinal games", ErrSemifinalsNotReady, len(semis))
	}
	semis = semis[:2]

	type outcome struct {
		winnerID, loserID string
	}
	outcomes := make([]outcome, 0, 2)
	for i, g := range semis {
		if g.HomeScore == nil || g.AwayScore == nil {
			return nil, fmt.Errorf("%w: semifinal %d has no recorded score", ErrSemifinalsNotReady, i+1)
		}
		switch {
		case *g.HomeScore > *g.AwayScore:
			outcomes = append(outcomes, outcome{winnerID: g.HomeTeamID, loserID: g.OpponentTeamID})
		case *g.HomeScore < *g.AwayScore:
			outcomes = append(outcomes, outcome{winnerID: g.OpponentTeamID, loserID: g.HomeTeamID})
		default:
			return nil, fmt.Errorf("%w: semifinal %d", ErrSemifinalTied, i+1)
		}
	}

	namesByID, err := s.teamNames(ctx, input.SeasonID)
	if err != nil {
		return nil, err
	}
	for _, o := range outcomes {
		for _, id := range []string{o.winnerID, o.loserID} {
			if _, ok := namesByID[id]; !ok {
				return nil, fmt.Errorf("%w: team=%s", ErrUnmappedSemifinalTeam, id)
			}
		}
	}

	weekTag := competition.WeekTagFor(competition.ChampionshipWeek)
	previous, err := s.gameRepo.ListByWeekTag(ctx, input.SeasonID, weekTag)
	if err != nil {
		return nil, fmt.Errorf("list previous championship-week games: %w", err)
	}
	prevChamp, prevConsol := splitPlayoffGames(previous)

	champTime := fallbackTime(input.ChampionshipTime, prevChamp)
	champLoc := fallbackLocation(input.ChampionshipLoc, prevChamp)
	consolTime := fallbackTime(input.ConsolationTime, prevConsol)
	if consolTime == nil {
		consolTime = champTime
	}
	consolLoc := fallbackLocation(input.ConsolationLoc, prevConsol)
	if consolLoc == "" {
		consolLoc = champLoc
	}

	champ, err := s.newGame(input.SeasonID, outcomes[0].winnerID, outcomes[1].winnerID, namesByID[outcomes[1].winnerID])
	if err != nil {
		return nil, err
	}
	champ.WeekTag = weekTag
	champ.PlayoffTag = competition.PlayoffDefendersCup
	champ.StartsAt = champTime
	champ.Location = champLoc

	consol, err := s.newGame(input.SeasonID, outcomes[0].loserID, outcomes[1].loserID, namesByID[outcomes[1].loserID])
	if err != nil {
		return nil, err
	}
	consol.WeekTag = weekTag
	consol.PlayoffTag = competition.PlayoffToiletBowl
	consol.StartsAt = consolTime
	consol.Location = consolLoc

	if err := s.gameRepo.DeleteByWeekTag(ctx, input.SeasonID, weekTag); err != nil {
		return nil, fmt.Errorf("%w: delete previous championship-week games: %v", ErrSaveFailed, err)
	}
	games := []competition.Game{champ, consol}
	if err := s.gameRepo.Insert(ctx, games); err != nil {
		return nil, fmt.Errorf("%w: insert playoff games: %v", ErrSaveFailed, err)
	}

	s.notifier.Notify(ctx, notify.Request{
		Kind:     notify.KindScheduleSaved,
		SeasonID: input.SeasonID,
		ActorID:  strings.TrimSpace(input.ActorID),
		Message:  "playoffs resolved",
	})
	s.logger.InfoContext(ctx, "playoffs resolved",
		"season_id", input.SeasonID,
		"championship", champ.HomeTeamID+" vs "+champ.OpponentTeamID,
		"consolation", consol.HomeTeamID+" vs "+consol.OpponentTeamID,
	)
	return games, nil
}

// RecordResult stores a final score on a game. Standings and playoff
// resolution read these.
func (s *ScheduleService) RecordResult(ctx context.Context, input RecordResultInput) (competition.Game, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ScheduleService.RecordResult")
	defer span.End()

	input.GameID = strings.TrimSpace(input.GameID)
	if input.GameID == "" {
		return competition.Game{}, fmt.Errorf("%w: game id is required", ErrInvalidInput)
	}
	if input.HomeScore < 0 || input.AwayScore < 0 {
		return competition.Game{}, fmt.Errorf("%w: scores cannot be negative", ErrInvalidInput)
	}

	game, exists, err := s.gameRepo.GetByID(ctx, input.GameID)
	if err != nil {
		return competition.Game{}, fmt.Errorf("get game for result: %w", err)
	}
	if !exists {
		return competition.Game{}, fmt.Errorf("%w: game=%s", ErrNotFound, input.GameID)
	}

	home, away := input.HomeScore, input.AwayScore
	game.HomeScore = &home
	game.AwayScore = &away
	game.Status = strings.TrimSpace(input.Status)
	if game.Status == "" {
		game.Status = "final"
	}

	if err := s.gameRepo.Update(ctx, game); err != nil {
		return competition.Game{}, fmt.Errorf("%w: update game result: %v", ErrSaveFailed, err)
	}
	return game, nil
}

func (s *ScheduleService) write(ctx context.Context, seasonID string, games []competition.Game, clearExisting bool, actorID string) error {
	if clearExisting {
		if err := s.gameRepo.DeleteBySeason(ctx, seasonID); err != nil {
			return fmt.Errorf("%w: clear season games: %v", ErrSaveFailed, err)
		}
	}
	if len(games) > 0 {
		if err := s.gameRepo.Insert(ctx, games); err != nil {
			return fmt.Errorf("%w: insert games: %v", ErrSaveFailed, err)
		}
	}

	s.notifier.Notify(ctx, notify.Request{
		Kind:     notify.KindScheduleSaved,
		SeasonID: seasonID,
		ActorID:  strings.TrimSpace(actorID),
		Message:  fmt.Sprintf("%d games saved", len(games)),
	})
	return nil
}

func (s *ScheduleService) newGame(seasonID, homeID, awayID, awayName string) (competition.Game, error) {
	id, err := s.idGen.NewID()
	if err != nil {
		return competition.Game{}, fmt.Errorf("generate game id: %w", err)
	}
	return competition.Game{
		ID:             id,
		SeasonID:       seasonID,
		HomeTeamID:     homeID,
		OpponentTeamID: awayID,
		OpponentName:   awayName,
		CreatedAt:      s.now().UTC(),
	}, nil
}

func (s *ScheduleService) teamNames(ctx context.Context, seasonID string) (map[string]string, error) {
	teams, err := s.teamRepo.ListBySeason(ctx, seasonID)
	if err != nil {
		return nil, fmt.Errorf("list season teams: %w", err)
	}
	names := make(map[string]string, len(teams))
	for _, t := range teams {
		names[t.ID] = t.Name
	}
	return names, nil
}

func gameTime(base *time.Time, week, dayInterval, offsetMinutes int) *time.Time {
	if base == nil {
		return nil
	}
	if dayInterval < 1 {
		dayInterval = defaultDayInterval
	}
	t := base.Add(time.Duration(week-1) * time.Duration(dayInterval) * 24 * time.Hour).
		Add(time.Duration(offsetMinutes) * time.Minute)
	return &t
}

func splitPlayoffGames(games []competition.Game) (champ, consol *competition.Game) {
	for i := range games {
		switch games[i].PlayoffTag {
		case competition.PlayoffDefendersCup:
			if champ == nil {
				champ = &games[i]
			}
		case competition.PlayoffToiletBowl:
			if consol == nil {
				consol = &games[i]
			}
		}
	}
	// Untagged week-8 games (legacy manual entries) fall back positionally.
	for i := range games {
		if games[i].PlayoffTag != "" {
			continue
		}
		if champ == nil {
			champ = &games[i]
		} else if consol == nil {
			consol = &games[i]
		}
	}
	return champ, consol
}

func fallbackTime(fresh *time.Time, prev *competition.Game) *time.Time {
	if fresh != nil {
		return fresh
	}
	if prev != nil {
		return prev.StartsAt
	}
	return nil
}

func fallbackLocation(fresh string, prev *competition.Game) string {
	fresh = strings.TrimSpace(fresh)
	if fresh != "" {
		return fresh
	}
	if prev != nil {
		return prev.Location
	}
	return ""
}
