package season

import "context"

// Repository describes season plan persistence needs from use cases.
type Repository interface {
	GetPlan(ctx context.Context, seasonID string) (Plan, bool, error)
	UpsertPlan(ctx context.Context, plan Plan) error
}
