package signup

import (
	"fmt"
	"time"
)

// Intent records a player's interest in a season, keyed on (season, player).
// The registry is a dumb store; window policy lives in the service layer.
type Intent struct {
	SeasonID     string
	PlayerID     string
	WantsCaptain bool
	Note         string
	UpdatedAt    time.Time
}

func (i Intent) Validate() error {
	if i.SeasonID == "" {
		return fmt.Errorf("season id is required")
	}
	if i.PlayerID == "" {
		return fmt.Errorf("player id is required")
	}
	return nil
}
