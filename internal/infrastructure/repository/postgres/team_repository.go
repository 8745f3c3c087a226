package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/dvhl/club-portal/internal/domain/competition"
	qb "github.com/dvhl/club-portal/internal/platform/querybuilder"
)

type teamTableModel struct {
	ID       string `db:"id"`
	SeasonID string `db:"season_id"`
	Name     string `db:"name"`
}

type TeamRepository struct {
	db *sqlx.DB
}

func NewTeamRepository(db *sqlx.DB) *TeamRepository {
	return &TeamRepository{db: db}
}

func (r *TeamRepository) ListBySeason(ctx context.Context, seasonID string) ([]competition.Team, error) {
	query, args, err := qb.Select("*").From("teams").
		Where(qb.Eq("season_id", seasonID)).
		OrderBy("name", "id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select teams query: %w", err)
	}

	var rows []teamTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select teams: %w", err)
	}

	out := make([]competition.Team, 0, len(rows))
	for _, row := range rows {
		out = append(out, competition.Team{ID: row.ID, SeasonID: row.SeasonID, Name: row.Name})
	}
	return out, nil
}

func (r *TeamRepository) GetByID(ctx context.Context, seasonID, teamID string) (competition.Team, bool, error) {
	query, args, err := qb.Select("*").From("teams").
		Where(qb.Eq("season_id", seasonID), qb.Eq("id", teamID)).
		ToSQL()
	if err != nil {
		return competition.Team{}, false, fmt.Errorf("build select team query: %w", err)
	}

	var row teamTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return competition.Team{}, false, nil
		}
		return competition.Team{}, false, fmt.Errorf("select team: %w", err)
	}
	return competition.Team{ID: row.ID, SeasonID: row.SeasonID, Name: row.Name}, true, nil
}
