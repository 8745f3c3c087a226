package standings

// Row is one team's derived standing. Rows are never persisted; they are
// recomputed from the season's full game history on every read.
type Row struct {
	TeamID       string
	TeamName     string
	GamesPlayed  int
	Wins         int
	Losses       int
	Ties         int
	GoalsFor     int
	GoalsAgainst int
	Points       int
}

// GoalDifferential is GF minus GA, the second sort key after points.
func (r Row) GoalDifferential() int {
	return r.GoalsFor - r.GoalsAgainst
}
