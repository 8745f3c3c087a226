package roster

// TeamControl is the per-team control data the roster collaborator owns:
// who captains the team and who may be asked to substitute.
type TeamControl struct {
	TeamID    string
	SeasonID  string
	CaptainID string
	SubPool   []string
	Members   []string
}

// InSubPool reports whether the player is pre-approved to sub for the team.
func (c TeamControl) InSubPool(playerID string) bool {
	for _, id := range c.SubPool {
		if id == playerID {
			return true
		}
	}
	return false
}
