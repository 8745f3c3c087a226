package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/dvhl/club-portal/internal/domain/notify"
	"github.com/dvhl/club-portal/internal/domain/subrequest"
	idgen "github.com/dvhl/club-portal/internal/platform/id"
)

type CreateSubRequestInput struct {
	SeasonID    string
	TeamID      string
	CaptainID   string
	RequesterID string
	Message     string
	GameID      string
}

// SubRequestService is the open/accept/cancel marketplace for substitutes.
// Who may create, accept, or cancel is enforced at the route layer against
// roster control data; this service owns the state transitions only.
type SubRequestService struct {
	subRepo  subrequest.Repository
	idGen    idgen.Generator
	notifier NotifySink
	logger   *slog.Logger
	now      func() time.Time
}

func NewSubRequestService(subRepo subrequest.Repository, idGen idgen.Generator, notifier NotifySink, logger *slog.Logger) *SubRequestService {
	if logger == nil {
		logger = slog.Default()
	}
	return &SubRequestService{
		subRepo:  subRepo,
		idGen:    idGen,
		notifier: notifier,
		logger:   logger,
		now:      time.Now,
	}
}

func (s *SubRequestService) List(ctx context.Context, seasonID string) ([]subrequest.Request, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SubRequestService.List")
	defer span.End()

	seasonID = strings.TrimSpace(seasonID)
	if seasonID == "" {
		return nil, fmt.Errorf("%w: season id is required", ErrInvalidInput)
	}
	items, err := s.subRepo.ListBySeason(ctx, seasonID)
	if err != nil {
		return nil, fmt.Errorf("list sub requests: %w", err)
	}
	return items, nil
}

// Create always produces a new open request. There is no dedup against other
// open requests for the same team; a team may need several subs at once.
func (s *SubRequestService) Create(ctx context.Context, input CreateSubRequestInput) (subrequest.Request, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SubRequestService.Create")
	defer span.End()

	req := subrequest.Request{
		SeasonID:    strings.TrimSpace(input.SeasonID),
		TeamID:      strings.TrimSpace(input.TeamID),
		CaptainID:   strings.TrimSpace(input.CaptainID),
		RequesterID: strings.TrimSpace(input.RequesterID),
		Message:     strings.TrimSpace(input.Message),
		GameID:      strings.TrimSpace(input.GameID),
		Status:      subrequest.StatusOpen,
		CreatedAt:   s.now().UTC(),
	}
	if err := req.Validate(); err != nil {
		return subrequest.Request{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	id, err := s.idGen.NewID()
	if err != nil {
		return subrequest.Request{}, fmt.Errorf("generate sub request id: %w", err)
	}
	req.ID = id

	if err := s.subRepo.Insert(ctx, req); err != nil {
		return subrequest.Request{}, fmt.Errorf("%w: insert sub request: %v", ErrSaveFailed, err)
	}

	s.notifier.Notify(ctx, notify.Request{
		Kind:      notify.KindSubRequestCreated,
		SeasonID:  req.SeasonID,
		TeamID:    req.TeamID,
		ActorID:   req.RequesterID,
		SubjectID: req.ID,
		Message:   req.Message,
	})
	return req, nil
}

// Accept moves an open request to accepted, recording actor and time. Both
// accepted and cancelled are terminal.
func (s *SubRequestService) Accept(ctx context.Context, requestID, actorID string) (subrequest.Request, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SubRequestService.Accept")
	defer span.End()

	return s.transition(ctx, requestID, actorID, subrequest.StatusAccepted, notify.KindSubRequestAccepted)
}

// Cancel moves an open request to cancelled.
func (s *SubRequestService) Cancel(ctx context.Context, requestID, actorID string) (subrequest.Request, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SubRequestService.Cancel")
	defer span.End()

	return s.transition(ctx, requestID, actorID, subrequest.StatusCancelled, notify.KindSubRequestCancelled)
}

func (s *SubRequestService) Get(ctx context.Context, requestID string) (subrequest.Request, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SubRequestService.Get")
	defer span.End()

	requestID = strings.TrimSpace(requestID)
	if requestID == "" {
		return subrequest.Request{}, fmt.Errorf("%w: request id is required", ErrInvalidInput)
	}
	req, exists, err := s.subRepo.GetByID(ctx, requestID)
	if err != nil {
		return subrequest.Request{}, fmt.Errorf("get sub request: %w", err)
	}
	if !exists {
		return subrequest.Request{}, fmt.Errorf("%w: id=%s", ErrSubRequestNotFound, requestID)
	}
	return req, nil
}

func (s *SubRequestService) transition(ctx context.Context, requestID, actorID string, target subrequest.Status, kind notify.Kind) (subrequest.Request, error) {
	req, err := s.Get(ctx, requestID)
	if err != nil {
		return subrequest.Request{}, err
	}
	if req.Status != subrequest.StatusOpen {
		return subrequest.Request{}, fmt.Errorf("%w: id=%s status=%s", ErrSubRequestNotOpen, req.ID, req.Status)
	}

	req.Status = target
	if target == subrequest.StatusAccepted {
		now := s.now().UTC()
		req.AcceptedBy = strings.TrimSpace(actorID)
		req.AcceptedAt = &now
	}

	if err := s.subRepo.Update(ctx, req); err != nil {
		return subrequest.Request{}, fmt.Errorf("%w: update sub request: %v", ErrSaveFailed, err)
	}

	s.notifier.Notify(ctx, notify.Request{
		Kind:      kind,
		SeasonID:  req.SeasonID,
		TeamID:    req.TeamID,
		ActorID:   strings.TrimSpace(actorID),
		SubjectID: req.ID,
	})
	return req, nil
}
