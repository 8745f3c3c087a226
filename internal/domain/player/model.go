package player

// Level buckets a player's rating for display next to picks and pools.
type Level string

const (
	LevelA Level = "A"
	LevelB Level = "B"
	LevelC Level = "C"
	LevelD Level = "D"
)

// Player is an entry in the club's eligible-player directory.
type Player struct {
	ID           string
	Name         string
	JerseyNumber int
	Rating       int
}

// LevelForRating is the static rating-to-level lookup. Ratings run 0-100.
func LevelForRating(rating int) Level {
	switch {
	case rating >= 85:
		return LevelA
	case rating >= 70:
		return LevelB
	case rating >= 50:
		return LevelC
	default:
		return LevelD
	}
}

func (p Player) Level() Level {
	return LevelForRating(p.Rating)
}
