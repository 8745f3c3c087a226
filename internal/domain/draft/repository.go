package draft

import (
	"context"
	"errors"
)

// ErrVersionMismatch is returned by Save when the stored session version does
// not match the caller's expectation.
var ErrVersionMismatch = errors.New("draft session version mismatch")

// Repository persists draft sessions, one per season.
//
// Save enforces optimistic concurrency: the write is applied only when
// expectedVersion matches the stored session's version (0 means "no session
// stored yet"), and the saved session carries expectedVersion+1. A mismatch
// returns ErrVersionMismatch so the service can surface a conflict. Replace
// overwrites unconditionally; it backs the destructive reset.
type Repository interface {
	GetBySeason(ctx context.Context, seasonID string) (Session, bool, error)
	Save(ctx context.Context, session Session, expectedVersion int) error
	Replace(ctx context.Context, session Session) error
}
