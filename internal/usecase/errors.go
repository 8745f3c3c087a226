package usecase

import "errors"

var (
	ErrInvalidInput          = errors.New("invalid input")
	ErrNotFound              = errors.New("resource not found")
	ErrUnauthorized          = errors.New("unauthorized")
	ErrForbidden             = errors.New("forbidden")
	ErrDependencyUnavailable = errors.New("dependency unavailable")
	ErrSaveFailed            = errors.New("save failed")
)

// Draft session engine failures.
var (
	ErrDraftNotFound       = errors.New("draft session not found")
	ErrDraftExists         = errors.New("draft session already exists")
	ErrDraftNotOpen        = errors.New("draft session is not open")
	ErrDraftComplete       = errors.New("draft has used all configured rounds")
	ErrInvalidPickTeam     = errors.New("team is not part of the draft")
	ErrPlayerNotInPool     = errors.New("player is not in the draft pool")
	ErrPlayerAlreadyPicked = errors.New("player has already been picked")
	ErrNotTeamTurn         = errors.New("it is not this team's turn to pick")
	ErrVersionConflict     = errors.New("draft session was modified concurrently")
)

// Sub-request workflow failures.
var (
	ErrSubRequestNotFound = errors.New("sub request not found")
	ErrSubRequestNotOpen  = errors.New("sub request is not open")
)

// Playoff resolution failures.
var (
	ErrSemifinalsNotReady    = errors.New("both semifinals need recorded scores")
	ErrSemifinalTied         = errors.New("semifinal ended in a tie")
	ErrUnmappedSemifinalTeam = errors.New("semifinal team is not part of the season")
)
