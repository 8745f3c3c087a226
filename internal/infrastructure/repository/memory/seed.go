package memory

import (
	"github.com/dvhl/club-portal/internal/domain/competition"
	"github.com/dvhl/club-portal/internal/domain/player"
	"github.com/dvhl/club-portal/internal/domain/roster"
)

// Seed data for local development and tests.

const SeasonIDWinter2026 = "dvhl-winter-2026"

func SeedTeams() []competition.Team {
	return []competition.Team{
		{ID: "team-gold", SeasonID: SeasonIDWinter2026, Name: "Gold"},
		{ID: "team-black", SeasonID: SeasonIDWinter2026, Name: "Black"},
		{ID: "team-white", SeasonID: SeasonIDWinter2026, Name: "White"},
		{ID: "team-red", SeasonID: SeasonIDWinter2026, Name: "Red"},
	}
}

func SeedPlayers() []player.Player {
	return []player.Player{
		{ID: "p-adler", Name: "Sam Adler", JerseyNumber: 7, Rating: 88},
		{ID: "p-brook", Name: "Casey Brook", JerseyNumber: 12, Rating: 81},
		{ID: "p-chen", Name: "Ari Chen", JerseyNumber: 4, Rating: 76},
		{ID: "p-diaz", Name: "Robin Diaz", JerseyNumber: 22, Rating: 69},
		{ID: "p-egan", Name: "Lee Egan", JerseyNumber: 9, Rating: 64},
		{ID: "p-frost", Name: "Jo Frost", JerseyNumber: 31, Rating: 58},
		{ID: "p-gray", Name: "Drew Gray", JerseyNumber: 15, Rating: 52},
		{ID: "p-hale", Name: "Max Hale", JerseyNumber: 2, Rating: 44},
	}
}

func SeedRosterControls() []roster.TeamControl {
	return []roster.TeamControl{
		{
			TeamID:    "team-gold",
			SeasonID:  SeasonIDWinter2026,
			CaptainID: "p-adler",
			SubPool:   []string{"p-frost", "p-gray"},
			Members:   []string{"p-adler"},
		},
		{
			TeamID:    "team-black",
			SeasonID:  SeasonIDWinter2026,
			CaptainID: "p-brook",
			SubPool:   []string{"p-hale"},
			Members:   []string{"p-brook"},
		},
		{
			TeamID:    "team-white",
			SeasonID:  SeasonIDWinter2026,
			CaptainID: "p-chen",
			Members:   []string{"p-chen"},
		},
		{
			TeamID:    "team-red",
			SeasonID:  SeasonIDWinter2026,
			CaptainID: "p-diaz",
			Members:   []string{"p-diaz"},
		},
	}
}
