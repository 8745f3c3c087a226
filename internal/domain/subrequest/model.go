package subrequest

import (
	"fmt"
	"time"
)

// Status of a sub request. Open is the only non-terminal state.
type Status string

const (
	StatusOpen      Status = "open"
	StatusAccepted  Status = "accepted"
	StatusCancelled Status = "cancelled"
)

// Request is one open need for a substitute on a team. Multiple open requests
// per team are allowed; a team may need more than one sub.
type Request struct {
	ID          string
	SeasonID    string
	TeamID      string
	CaptainID   string
	RequesterID string
	Message     string
	GameID      string
	Status      Status
	AcceptedBy  string
	AcceptedAt  *time.Time
	CreatedAt   time.Time
}

func (r Request) Validate() error {
	if r.SeasonID == "" {
		return fmt.Errorf("season id is required")
	}
	if r.TeamID == "" {
		return fmt.Errorf("team id is required")
	}
	if r.RequesterID == "" {
		return fmt.Errorf("requester id is required")
	}
	return nil
}
