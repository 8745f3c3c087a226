package player

import "context"

// Repository is the eligible-player directory maintained by the membership
// module; the engine only reads it.
type Repository interface {
	ListEligible(ctx context.Context) ([]Player, error)
	GetByIDs(ctx context.Context, playerIDs []string) ([]Player, error)
}
