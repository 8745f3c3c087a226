package memory

import (
	"context"
	"sync"

	"github.com/dvhl/club-portal/internal/domain/draft"
)

type DraftRepository struct {
	mu    sync.Mutex
	items map[string]draft.Session
}

func NewDraftRepository() *DraftRepository {
	return &DraftRepository{items: make(map[string]draft.Session)}
}

func (r *DraftRepository) GetBySeason(_ context.Context, seasonID string) (draft.Session, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	session, ok := r.items[seasonID]
	if !ok {
		return draft.Session{}, false, nil
	}
	return cloneSession(session), true, nil
}

// Save applies the write only when the stored version matches
// expectedVersion; 0 means no stored session. The check and the write happen
// under one lock, which is what makes racing picks lose cleanly.
func (r *DraftRepository) Save(_ context.Context, session draft.Session, expectedVersion int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.items[session.SeasonID]
	storedVersion := 0
	if ok {
		storedVersion = stored.Version
	}
	if storedVersion != expectedVersion {
		return draft.ErrVersionMismatch
	}

	session.Version = expectedVersion + 1
	r.items[session.SeasonID] = cloneSession(session)
	return nil
}

func (r *DraftRepository) Replace(_ context.Context, session draft.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.items[session.SeasonID] = cloneSession(session)
	return nil
}

func cloneSession(s draft.Session) draft.Session {
	out := s
	out.PickOrder = append([]string(nil), s.PickOrder...)
	out.Pool = append([]string(nil), s.Pool...)
	out.Picks = append([]draft.Pick(nil), s.Picks...)
	return out
}
