package standings

import (
	"testing"

	"github.com/dvhl/club-portal/internal/domain/competition"
)

func intPtr(v int) *int { return &v }

func fourTeams() []competition.Team {
	return []competition.Team{
		{ID: "t1", SeasonID: "s1", Name: "Gold"},
		{ID: "t2", SeasonID: "s1", Name: "Black"},
		{ID: "t3", SeasonID: "s1", Name: "White"},
		{ID: "t4", SeasonID: "s1", Name: "Red"},
	}
}

func finalGame(home, away string, hs, as int) competition.Game {
	return competition.Game{
		SeasonID:       "s1",
		HomeTeamID:     home,
		OpponentTeamID: away,
		HomeScore:      intPtr(hs),
		AwayScore:      intPtr(as),
		Status:         "final",
	}
}

func TestCompute_NoFinalGames(t *testing.T) {
	games := []competition.Game{
		{SeasonID: "s1", HomeTeamID: "t1", OpponentTeamID: "t2", Status: "scheduled"},
	}
	rows := Compute(fourTeams(), games)

	if len(rows) != 4 {
		t.Fatalf("expected a row per team, got %d", len(rows))
	}
	// All zero, so order is alphabetical by name.
	wantNames := []string{"Black", "Gold", "Red", "White"}
	for i, name := range wantNames {
		if rows[i].TeamName != name {
			t.Fatalf("row %d: expected %s, got %s", i, name, rows[i].TeamName)
		}
		if rows[i].GamesPlayed != 0 || rows[i].Points != 0 {
			t.Fatalf("row %d: expected a zero row, got %+v", i, rows[i])
		}
	}
}

func TestCompute_PointsAndTiebreakers(t *testing.T) {
	games := []competition.Game{
		finalGame("t1", "t2", 4, 1), // Gold beats Black
		finalGame("t3", "t4", 2, 2), // White ties Red
		finalGame("t2", "t4", 3, 0), // Black beats Red
		finalGame("t1", "t3", 1, 1), // Gold ties White
	}
	rows := Compute(fourTeams(), games)

	byID := make(map[string]Row, len(rows))
	for _, r := range rows {
		byID[r.TeamID] = r
	}

	gold := byID["t1"]
	if gold.Wins != 1 || gold.Ties != 1 || gold.Losses != 0 || gold.Points != 3 {
		t.Fatalf("gold record wrong: %+v", gold)
	}
	if gold.GoalsFor != 5 || gold.GoalsAgainst != 2 {
		t.Fatalf("gold goals wrong: %+v", gold)
	}

	black := byID["t2"]
	if black.Points != 2 || black.Wins != 1 || black.Losses != 1 {
		t.Fatalf("black record wrong: %+v", black)
	}

	// Gold 3pts first, Black 2pts second, then White/Red both 1pt with
	// goal differential 0/-3.
	if rows[0].TeamID != "t1" || rows[1].TeamID != "t2" {
		t.Fatalf("unexpected top of table: %s, %s", rows[0].TeamID, rows[1].TeamID)
	}
	if rows[2].TeamID != "t3" || rows[3].TeamID != "t4" {
		t.Fatalf("goal differential should rank White above Red: %s, %s", rows[2].TeamID, rows[3].TeamID)
	}
}

func TestCompute_UnknownOpponentCountsHomeSideOnly(t *testing.T) {
	teams := []competition.Team{{ID: "t1", SeasonID: "s1", Name: "Gold"}}
	games := []competition.Game{
		{
			SeasonID:       "s1",
			HomeTeamID:     "t1",
			OpponentTeamID: "",
			OpponentName:   "Visiting All-Stars",
			HomeScore:      intPtr(5),
			AwayScore:      intPtr(3),
			Status:         "final",
		},
	}
	rows := Compute(teams, games)

	if len(rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(rows))
	}
	if rows[0].Wins != 1 || rows[0].Points != 2 {
		t.Fatalf("home side should still earn the win: %+v", rows[0])
	}
}

func TestCompute_ScoresRecordedImpliesFinal(t *testing.T) {
	teams := fourTeams()
	g := finalGame("t1", "t2", 2, 0)
	g.Status = "scheduled"
	rows := Compute(teams, []competition.Game{g})

	for _, r := range rows {
		if r.TeamID == "t1" && r.Wins != 1 {
			t.Fatalf("game with both scores should count: %+v", r)
		}
	}
}
