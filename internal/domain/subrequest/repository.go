package subrequest

import "context"

// Repository persists sub requests.
type Repository interface {
	GetByID(ctx context.Context, requestID string) (Request, bool, error)
	ListBySeason(ctx context.Context, seasonID string) ([]Request, error)
	Insert(ctx context.Context, request Request) error
	Update(ctx context.Context, request Request) error
}
