package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/dvhl/club-portal/internal/domain/draft"
	"github.com/dvhl/club-portal/internal/domain/notify"
	"github.com/dvhl/club-portal/internal/domain/player"
	"github.com/dvhl/club-portal/internal/domain/roster"
	"github.com/dvhl/club-portal/internal/domain/season"
)

type StartDraftInput struct {
	SeasonID  string
	TeamIDs   []string
	PoolIDs   []string
	DraftMode season.DraftMode
	Rounds    int
	ActorID   string
}

type PickInput struct {
	SeasonID string
	TeamID   string
	PlayerID string
	ActorID  string
}

// DraftService runs the per-season draft state machine. Picks are serialized
// through optimistic versioning on the session record; a lost race surfaces
// as ErrVersionConflict instead of a duplicate pick.
type DraftService struct {
	draftRepo  draft.Repository
	planRepo   season.Repository
	playerRepo player.Repository
	rosterRepo roster.Repository
	notifier   NotifySink
	logger     *slog.Logger
	now        func() time.Time
	shuffle    func([]string)
}

func NewDraftService(draftRepo draft.Repository, planRepo season.Repository, playerRepo player.Repository, rosterRepo roster.Repository, notifier NotifySink, logger *slog.Logger) *DraftService {
	if logger == nil {
		logger = slog.Default()
	}
	return &DraftService{
		draftRepo:  draftRepo,
		planRepo:   planRepo,
		playerRepo: playerRepo,
		rosterRepo: rosterRepo,
		notifier:   notifier,
		logger:     logger,
		now:        time.Now,
		shuffle: func(ids []string) {
			rand.Shuffle(len(ids), func(i, j int) { ids[i], ids[j] = ids[j], ids[i] })
		},
	}
}

func (s *DraftService) GetSession(ctx context.Context, seasonID string) (draft.Session, bool, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.DraftService.GetSession")
	defer span.End()

	seasonID = strings.TrimSpace(seasonID)
	if seasonID == "" {
		return draft.Session{}, false, fmt.Errorf("%w: season id is required", ErrInvalidInput)
	}
	session, exists, err := s.draftRepo.GetBySeason(ctx, seasonID)
	if err != nil {
		return draft.Session{}, false, fmt.Errorf("get draft session: %w", err)
	}
	return session, exists, nil
}

// Start creates a fresh session and fails with ErrDraftExists when one is
// already stored. Use Reset to wipe a live draft deliberately.
func (s *DraftService) Start(ctx context.Context, input StartDraftInput) (draft.Session, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.DraftService.Start")
	defer span.End()

	session, err := s.buildSession(ctx, input)
	if err != nil {
		return draft.Session{}, err
	}

	_, exists, err := s.draftRepo.GetBySeason(ctx, session.SeasonID)
	if err != nil {
		return draft.Session{}, fmt.Errorf("check existing draft session: %w", err)
	}
	if exists {
		return draft.Session{}, fmt.Errorf("%w: season=%s", ErrDraftExists, session.SeasonID)
	}

	if err := s.draftRepo.Save(ctx, session, 0); err != nil {
		if errors.Is(err, draft.ErrVersionMismatch) {
			return draft.Session{}, fmt.Errorf("%w: season=%s", ErrDraftExists, session.SeasonID)
		}
		return draft.Session{}, fmt.Errorf("%w: save draft session: %v", ErrSaveFailed, err)
	}

	s.logger.InfoContext(ctx, "draft session started",
		"season_id", session.SeasonID, "teams", len(session.PickOrder), "pool", len(session.Pool))
	return session, nil
}

// Reset replaces any prior session for the season, discarding its picks.
func (s *DraftService) Reset(ctx context.Context, input StartDraftInput) (draft.Session, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.DraftService.Reset")
	defer span.End()

	session, err := s.buildSession(ctx, input)
	if err != nil {
		return draft.Session{}, err
	}
	if err := s.draftRepo.Replace(ctx, session); err != nil {
		return draft.Session{}, fmt.Errorf("%w: replace draft session: %v", ErrSaveFailed, err)
	}

	s.logger.WarnContext(ctx, "draft session reset, prior picks discarded",
		"season_id", session.SeasonID, "actor_id", session.StartedBy)
	return session, nil
}

// Close flips the session to closed. Irreversible until a Reset.
func (s *DraftService) Close(ctx context.Context, seasonID, actorID string) (draft.Session, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.DraftService.Close")
	defer span.End()

	session, exists, err := s.GetSession(ctx, seasonID)
	if err != nil {
		return draft.Session{}, err
	}
	if !exists {
		return draft.Session{}, fmt.Errorf("%w: season=%s", ErrDraftNotFound, strings.TrimSpace(seasonID))
	}

	session.Status = draft.StatusClosed
	if err := s.draftRepo.Save(ctx, session, session.Version); err != nil {
		if errors.Is(err, draft.ErrVersionMismatch) {
			return draft.Session{}, fmt.Errorf("%w: close draft", ErrVersionConflict)
		}
		return draft.Session{}, fmt.Errorf("%w: close draft session: %v", ErrSaveFailed, err)
	}
	session.Version++

	s.logger.InfoContext(ctx, "draft session closed", "season_id", session.SeasonID, "actor_id", actorID)
	return session, nil
}

// MakePick validates and appends one pick, advancing the turn by exactly one.
// On success the drafted player is assigned to the team roster through the
// roster port and a notification request is emitted.
func (s *DraftService) MakePick(ctx context.Context, input PickInput) (draft.Pick, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.DraftService.MakePick")
	defer span.End()

	input.SeasonID = strings.TrimSpace(input.SeasonID)
	input.TeamID = strings.TrimSpace(input.TeamID)
	input.PlayerID = strings.TrimSpace(input.PlayerID)
	if input.SeasonID == "" || input.TeamID == "" || input.PlayerID == "" {
		return draft.Pick{}, fmt.Errorf("%w: season, team and player ids are required", ErrInvalidInput)
	}

	session, exists, err := s.draftRepo.GetBySeason(ctx, input.SeasonID)
	if err != nil {
		return draft.Pick{}, fmt.Errorf("get draft session for pick: %w", err)
	}
	if !exists {
		return draft.Pick{}, fmt.Errorf("%w: season=%s", ErrDraftNotFound, input.SeasonID)
	}
	if session.Status != draft.StatusOpen {
		return draft.Pick{}, fmt.Errorf("%w: season=%s", ErrDraftNotOpen, input.SeasonID)
	}
	if session.IsComplete() {
		return draft.Pick{}, fmt.Errorf("%w: season=%s", ErrDraftComplete, input.SeasonID)
	}
	if !session.InOrder(input.TeamID) {
		return draft.Pick{}, fmt.Errorf("%w: team=%s", ErrInvalidPickTeam, input.TeamID)
	}
	if !session.InPool(input.PlayerID) {
		return draft.Pick{}, fmt.Errorf("%w: player=%s", ErrPlayerNotInPool, input.PlayerID)
	}
	if session.HasPicked(input.PlayerID) {
		return draft.Pick{}, fmt.Errorf("%w: player=%s", ErrPlayerAlreadyPicked, input.PlayerID)
	}

	expected := draft.TeamAtIndex(session.PickOrder, session.Mode, session.CurrentPickIndex)
	if input.TeamID != expected {
		return draft.Pick{}, fmt.Errorf("%w: expected team %s", ErrNotTeamTurn, expected)
	}

	pick := draft.Pick{
		Number:   len(session.Picks) + 1,
		TeamID:   input.TeamID,
		PlayerID: input.PlayerID,
		PickedAt: s.now().UTC(),
		ActorID:  strings.TrimSpace(input.ActorID),
	}
	pick.Round = session.RoundForPick(pick.Number)

	session.Picks = append(session.Picks, pick)
	session.CurrentPickIndex++

	if err := s.draftRepo.Save(ctx, session, session.Version); err != nil {
		if errors.Is(err, draft.ErrVersionMismatch) {
			return draft.Pick{}, fmt.Errorf("%w: pick for team %s", ErrVersionConflict, input.TeamID)
		}
		return draft.Pick{}, fmt.Errorf("%w: save draft pick: %v", ErrSaveFailed, err)
	}

	if err := s.rosterRepo.AssignPlayer(ctx, input.SeasonID, input.TeamID, input.PlayerID); err != nil {
		// The pick is already committed; roster assignment is the
		// collaborator's record and can be replayed by ops.
		s.logger.ErrorContext(ctx, "roster assignment after pick failed",
			"season_id", input.SeasonID, "team_id", input.TeamID, "player_id", input.PlayerID, "error", err)
	}

	s.notifier.Notify(ctx, notify.Request{
		Kind:      notify.KindDraftPickSaved,
		SeasonID:  input.SeasonID,
		TeamID:    input.TeamID,
		ActorID:   pick.ActorID,
		SubjectID: input.PlayerID,
		Message:   fmt.Sprintf("pick %d (round %d)", pick.Number, pick.Round),
	})

	return pick, nil
}

// NextTeam reports whose turn it is, "" when no session exists, the order is
// empty, or the draft is complete.
func (s *DraftService) NextTeam(ctx context.Context, seasonID string) (string, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.DraftService.NextTeam")
	defer span.End()

	session, exists, err := s.GetSession(ctx, seasonID)
	if err != nil {
		return "", err
	}
	if !exists {
		return "", nil
	}
	return draft.NextTeamID(session), nil
}

func (s *DraftService) buildSession(ctx context.Context, input StartDraftInput) (draft.Session, error) {
	input.SeasonID = strings.TrimSpace(input.SeasonID)
	if input.SeasonID == "" {
		return draft.Session{}, fmt.Errorf("%w: season id is required", ErrInvalidInput)
	}
	if input.Rounds < 1 {
		return draft.Session{}, fmt.Errorf("%w: rounds must be at least 1", ErrInvalidInput)
	}
	switch input.DraftMode {
	case season.DraftModeManual, season.DraftModeSnake:
	default:
		return draft.Session{}, fmt.Errorf("%w: unknown draft mode %q", ErrInvalidInput, input.DraftMode)
	}

	plan, hasPlan, err := s.planRepo.GetPlan(ctx, input.SeasonID)
	if err != nil {
		return draft.Session{}, fmt.Errorf("get season plan for draft: %w", err)
	}

	poolIDs, err := s.resolvePool(ctx, input.PoolIDs, plan, hasPlan)
	if err != nil {
		return draft.Session{}, err
	}

	teamIDs := append([]string(nil), input.TeamIDs...)
	if hasPlan && plan.TeamOrder == season.TeamOrderRandom {
		s.shuffle(teamIDs)
	}

	session := draft.NewSession(input.SeasonID, teamIDs, poolIDs, input.DraftMode, input.Rounds, strings.TrimSpace(input.ActorID), s.now().UTC())
	if len(session.PickOrder) == 0 {
		return draft.Session{}, fmt.Errorf("%w: at least one team is required", ErrInvalidInput)
	}
	return session, nil
}

// resolvePool keeps an explicit pool as submitted. An omitted pool is only
// valid when the plan pools all eligible players; then the directory seeds it.
func (s *DraftService) resolvePool(ctx context.Context, poolIDs []string, plan season.Plan, hasPlan bool) ([]string, error) {
	if len(poolIDs) > 0 {
		return poolIDs, nil
	}
	if !hasPlan || plan.PoolStrategy != season.PoolAllEligible {
		return nil, fmt.Errorf("%w: pool player ids are required", ErrInvalidInput)
	}

	eligible, err := s.playerRepo.ListEligible(ctx)
	if err != nil {
		return nil, fmt.Errorf("list eligible players for pool: %w", err)
	}
	if len(eligible) == 0 {
		return nil, fmt.Errorf("%w: the eligible-player directory is empty", ErrInvalidInput)
	}
	ids := make([]string, 0, len(eligible))
	for _, p := range eligible {
		ids = append(ids, p.ID)
	}
	return ids, nil
}
