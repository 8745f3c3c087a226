package roster

import "context"

// Repository is the interface to the external roster-control collaborator.
// AssignPlayer is the roster-mutation port the draft engine invokes after an
// accepted pick; the engine itself does not own roster membership.
type Repository interface {
	GetControl(ctx context.Context, seasonID, teamID string) (TeamControl, bool, error)
	AssignPlayer(ctx context.Context, seasonID, teamID, playerID string) error
}
