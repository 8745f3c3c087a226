package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/dvhl/club-portal/internal/domain/season"
	qb "github.com/dvhl/club-portal/internal/platform/querybuilder"
)

type planTableModel struct {
	SeasonID       string       `db:"season_id"`
	SignupCloseAt  sql.NullTime `db:"signup_close_at"`
	CaptainCloseAt sql.NullTime `db:"captain_close_at"`
	CaptainCount   int          `db:"captain_count"`
	TeamOrder      string       `db:"team_order"`
	PoolStrategy   string       `db:"pool_strategy"`
	DraftMode      string       `db:"draft_mode"`
	Rounds         int          `db:"rounds"`
	UpdatedBy      string       `db:"updated_by"`
	UpdatedAt      time.Time    `db:"updated_at"`
}

type PlanRepository struct {
	db *sqlx.DB
}

func NewPlanRepository(db *sqlx.DB) *PlanRepository {
	return &PlanRepository{db: db}
}

func (r *PlanRepository) GetPlan(ctx context.Context, seasonID string) (season.Plan, bool, error) {
	query, args, err := qb.Select("*").From("season_plans").
		Where(qb.Eq("season_id", seasonID)).
		ToSQL()
	if err != nil {
		return season.Plan{}, false, fmt.Errorf("build select season plan query: %w", err)
	}

	var row planTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return season.Plan{}, false, nil
		}
		return season.Plan{}, false, fmt.Errorf("select season plan: %w", err)
	}

	return season.Plan{
		SeasonID:       row.SeasonID,
		SignupCloseAt:  timePtr(row.SignupCloseAt),
		CaptainCloseAt: timePtr(row.CaptainCloseAt),
		CaptainCount:   row.CaptainCount,
		TeamOrder:      season.TeamOrderStrategy(row.TeamOrder),
		PoolStrategy:   season.PoolStrategy(row.PoolStrategy),
		DraftMode:      season.DraftMode(row.DraftMode),
		Rounds:         row.Rounds,
		UpdatedBy:      row.UpdatedBy,
		UpdatedAt:      row.UpdatedAt,
	}, true, nil
}

func (r *PlanRepository) UpsertPlan(ctx context.Context, plan season.Plan) error {
	query, args, err := qb.InsertInto("season_plans").
		Columns(
			"season_id",
			"signup_close_at",
			"captain_close_at",
			"captain_count",
			"team_order",
			"pool_strategy",
			"draft_mode",
			"rounds",
			"updated_by",
			"updated_at",
		).
		Values(
			plan.SeasonID,
			nullTime(plan.SignupCloseAt),
			nullTime(plan.CaptainCloseAt),
			plan.CaptainCount,
			string(plan.TeamOrder),
			string(plan.PoolStrategy),
			string(plan.DraftMode),
			plan.Rounds,
			plan.UpdatedBy,
			plan.UpdatedAt,
		).
		Suffix(`ON CONFLICT (season_id) DO UPDATE SET
			signup_close_at = EXCLUDED.signup_close_at,
			captain_close_at = EXCLUDED.captain_close_at,
			captain_count = EXCLUDED.captain_count,
			team_order = EXCLUDED.team_order,
			pool_strategy = EXCLUDED.pool_strategy,
			draft_mode = EXCLUDED.draft_mode,
			rounds = EXCLUDED.rounds,
			updated_by = EXCLUDED.updated_by,
			updated_at = EXCLUDED.updated_at`).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build upsert season plan query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert season plan: %w", err)
	}
	return nil
}
