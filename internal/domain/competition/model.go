package competition

import (
	"fmt"
	"strings"
	"time"
)

// Team is a season team in the shared competition aggregate.
type Team struct {
	ID       string
	SeasonID string
	Name     string
}

// Playoff tags for week-8 games.
const (
	PlayoffDefendersCup = "defenders-cup"
	PlayoffToiletBowl   = "toilet-bowl"

	SemifinalWeek    = 7
	ChampionshipWeek = 8
)

// Game is one scheduled game. OpponentTeamID is the stable join key;
// OpponentName is a denormalized display cache and must not be used to
// resolve the opposing team.
type Game struct {
	ID             string
	SeasonID       string
	HomeTeamID     string
	OpponentTeamID string
	OpponentName   string
	StartsAt       *time.Time
	Location       string
	WeekTag        string
	PlayoffTag     string
	HomeScore      *int
	AwayScore      *int
	Status         string
	CreatedAt      time.Time
}

func (g Game) Validate() error {
	if g.SeasonID == "" {
		return fmt.Errorf("season id is required")
	}
	if g.HomeTeamID == "" {
		return fmt.Errorf("home team id is required")
	}
	return nil
}

// IsFinal reports whether the game counts for standings: a final-ish status
// text, or both scores recorded.
func (g Game) IsFinal() bool {
	status := strings.ToLower(g.Status)
	if strings.Contains(status, "final") || strings.Contains(status, "complete") {
		return true
	}
	return g.HomeScore != nil && g.AwayScore != nil
}

// WeekTagFor formats the canonical tag for a logical week.
func WeekTagFor(week int) string {
	return fmt.Sprintf("week-%d", week)
}
