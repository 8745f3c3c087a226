package competition

import "context"

// TeamRepository reads the season's team list from the shared aggregate.
type TeamRepository interface {
	ListBySeason(ctx context.Context, seasonID string) ([]Team, error)
	GetByID(ctx context.Context, seasonID, teamID string) (Team, bool, error)
}

// GameRepository owns scheduled game storage. Games come back in creation
// order; playoff resolution depends on that for locating the two semifinals.
type GameRepository interface {
	ListBySeason(ctx context.Context, seasonID string) ([]Game, error)
	ListByWeekTag(ctx context.Context, seasonID, weekTag string) ([]Game, error)
	GetByID(ctx context.Context, gameID string) (Game, bool, error)
	Insert(ctx context.Context, games []Game) error
	Update(ctx context.Context, game Game) error
	DeleteBySeason(ctx context.Context, seasonID string) error
	DeleteByWeekTag(ctx context.Context, seasonID, weekTag string) error
}
