package standings

import (
	"sort"

	"github.com/dvhl/club-portal/internal/domain/competition"
)

const (
	pointsPerWin = 2
	pointsPerTie = 1
)

// Compute derives ranked standings from the season's teams and games. Only
// final games count. Opponents are resolved by stable team id; games whose
// opponent id is not in the team list contribute to the home side only.
// Sort order: points desc, goal differential desc, team name asc.
func Compute(teams []competition.Team, games []competition.Game) []Row {
	rows := make(map[string]*Row, len(teams))
	for _, t := range teams {
		rows[t.ID] = &Row{TeamID: t.ID, TeamName: t.Name}
	}

	for _, g := range games {
		if !g.IsFinal() || g.HomeScore == nil || g.AwayScore == nil {
			continue
		}
		home, ok := rows[g.HomeTeamID]
		if !ok {
			continue
		}
		hs, as := *g.HomeScore, *g.AwayScore

		apply(home, hs, as)
		if away, ok := rows[g.OpponentTeamID]; ok {
			apply(away, as, hs)
		}
	}

	out := make([]Row, 0, len(rows))
	for _, r := range rows {
		out = append(out, *r)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Points != out[j].Points {
			return out[i].Points > out[j].Points
		}
		if out[i].GoalDifferential() != out[j].GoalDifferential() {
			return out[i].GoalDifferential() > out[j].GoalDifferential()
		}
		return out[i].TeamName < out[j].TeamName
	})
	return out
}

func apply(r *Row, scored, conceded int) {
	r.GamesPlayed++
	r.GoalsFor += scored
	r.GoalsAgainst += conceded
	switch {
	case scored > conceded:
		r.Wins++
		r.Points += pointsPerWin
	case scored < conceded:
		r.Losses++
	default:
		r.Ties++
		r.Points += pointsPerTie
	}
}
