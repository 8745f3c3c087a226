package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/dvhl/club-portal/internal/domain/competition"
	qb "github.com/dvhl/club-portal/internal/platform/querybuilder"
)

type gameTableModel struct {
	ID             string        `db:"id"`
	SeasonID       string        `db:"season_id"`
	HomeTeamID     string        `db:"home_team_id"`
	OpponentTeamID string        `db:"opponent_team_id"`
	OpponentName   string        `db:"opponent_name"`
	StartsAt       sql.NullTime  `db:"starts_at"`
	Location       string        `db:"location"`
	WeekTag        string        `db:"week_tag"`
	PlayoffTag     string        `db:"playoff_tag"`
	HomeScore      sql.NullInt64 `db:"home_score"`
	AwayScore      sql.NullInt64 `db:"away_score"`
	Status         string        `db:"status"`
	CreatedAt      time.Time     `db:"created_at"`
}

type GameRepository struct {
	db *sqlx.DB
}

func NewGameRepository(db *sqlx.DB) *GameRepository {
	return &GameRepository{db: db}
}

func (r *GameRepository) ListBySeason(ctx context.Context, seasonID string) ([]competition.Game, error) {
	return r.list(ctx, qb.Eq("season_id", seasonID))
}

func (r *GameRepository) ListByWeekTag(ctx context.Context, seasonID, weekTag string) ([]competition.Game, error) {
	return r.list(ctx, qb.Eq("season_id", seasonID), qb.Eq("week_tag", weekTag))
}

func (r *GameRepository) list(ctx context.Context, conditions ...qb.Condition) ([]competition.Game, error) {
	query, args, err := qb.Select("*").From("games").
		Where(conditions...).
		OrderBy("created_at", "id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select games query: %w", err)
	}

	var rows []gameTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select games: %w", err)
	}

	out := make([]competition.Game, 0, len(rows))
	for _, row := range rows {
		out = append(out, gameFromRow(row))
	}
	return out, nil
}

func (r *GameRepository) GetByID(ctx context.Context, gameID string) (competition.Game, bool, error) {
	query, args, err := qb.Select("*").From("games").
		Where(qb.Eq("id", gameID)).
		ToSQL()
	if err != nil {
		return competition.Game{}, false, fmt.Errorf("build select game query: %w", err)
	}

	var row gameTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return competition.Game{}, false, nil
		}
		return competition.Game{}, false, fmt.Errorf("select game: %w", err)
	}
	return gameFromRow(row), true, nil
}

func (r *GameRepository) Insert(ctx context.Context, games []competition.Game) error {
	if len(games) == 0 {
		return nil
	}

	builder := qb.InsertInto("games").
		Columns(
			"id",
			"season_id",
			"home_team_id",
			"opponent_team_id",
			"opponent_name",
			"starts_at",
			"location",
			"week_tag",
			"playoff_tag",
			"home_score",
			"away_score",
			"status",
			"created_at",
		)
	for _, g := range games {
		builder = builder.Values(
			g.ID,
			g.SeasonID,
			g.HomeTeamID,
			g.OpponentTeamID,
			g.OpponentName,
			nullTime(g.StartsAt),
			g.Location,
			g.WeekTag,
			g.PlayoffTag,
			nullInt(g.HomeScore),
			nullInt(g.AwayScore),
			g.Status,
			g.CreatedAt,
		)
	}

	query, args, err := builder.ToSQL()
	if err != nil {
		return fmt.Errorf("build insert games query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert games: %w", err)
	}
	return nil
}

func (r *GameRepository) Update(ctx context.Context, game competition.Game) error {
	query, args, err := qb.Update("games").
		Set("starts_at", nullTime(game.StartsAt)).
		Set("location", game.Location).
		Set("home_score", nullInt(game.HomeScore)).
		Set("away_score", nullInt(game.AwayScore)).
		Set("status", game.Status).
		Where(qb.Eq("id", game.ID)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build update game query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("update game: %w", err)
	}
	return nil
}

func (r *GameRepository) DeleteBySeason(ctx context.Context, seasonID string) error {
	query, args, err := qb.DeleteFrom("games").
		Where(qb.Eq("season_id", seasonID)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build delete games query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("delete season games: %w", err)
	}
	return nil
}

func (r *GameRepository) DeleteByWeekTag(ctx context.Context, seasonID, weekTag string) error {
	query, args, err := qb.DeleteFrom("games").
		Where(qb.Eq("season_id", seasonID), qb.Eq("week_tag", weekTag)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build delete week games query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("delete week games: %w", err)
	}
	return nil
}

func gameFromRow(row gameTableModel) competition.Game {
	return competition.Game{
		ID:             row.ID,
		SeasonID:       row.SeasonID,
		HomeTeamID:     row.HomeTeamID,
		OpponentTeamID: row.OpponentTeamID,
		OpponentName:   row.OpponentName,
		StartsAt:       timePtr(row.StartsAt),
		Location:       row.Location,
		WeekTag:        row.WeekTag,
		PlayoffTag:     row.PlayoffTag,
		HomeScore:      intPtr(row.HomeScore),
		AwayScore:      intPtr(row.AwayScore),
		Status:         row.Status,
		CreatedAt:      row.CreatedAt,
	}
}
