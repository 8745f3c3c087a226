package signup

import "context"

// Repository is the signup intent registry. Upserts are accepted
// unconditionally; callers enforce window policy.
type Repository interface {
	ListBySeason(ctx context.Context, seasonID string) ([]Intent, error)
	GetByPlayer(ctx context.Context, seasonID, playerID string) (Intent, bool, error)
	Upsert(ctx context.Context, intent Intent) error
}
