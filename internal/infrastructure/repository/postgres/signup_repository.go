package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/dvhl/club-portal/internal/domain/signup"
	qb "github.com/dvhl/club-portal/internal/platform/querybuilder"
)

type signupTableModel struct {
	SeasonID     string    `db:"season_id"`
	PlayerID     string    `db:"player_id"`
	WantsCaptain bool      `db:"wants_captain"`
	Note         string    `db:"note"`
	UpdatedAt    time.Time `db:"updated_at"`
}

type SignupRepository struct {
	db *sqlx.DB
}

func NewSignupRepository(db *sqlx.DB) *SignupRepository {
	return &SignupRepository{db: db}
}

func (r *SignupRepository) ListBySeason(ctx context.Context, seasonID string) ([]signup.Intent, error) {
	query, args, err := qb.Select("*").From("signup_intents").
		Where(qb.Eq("season_id", seasonID)).
		OrderBy("updated_at", "player_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select signup intents query: %w", err)
	}

	var rows []signupTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select signup intents: %w", err)
	}

	out := make([]signup.Intent, 0, len(rows))
	for _, row := range rows {
		out = append(out, intentFromRow(row))
	}
	return out, nil
}

func (r *SignupRepository) GetByPlayer(ctx context.Context, seasonID, playerID string) (signup.Intent, bool, error) {
	query, args, err := qb.Select("*").From("signup_intents").
		Where(qb.Eq("season_id", seasonID), qb.Eq("player_id", playerID)).
		ToSQL()
	if err != nil {
		return signup.Intent{}, false, fmt.Errorf("build select signup intent query: %w", err)
	}

	var row signupTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return signup.Intent{}, false, nil
		}
		return signup.Intent{}, false, fmt.Errorf("select signup intent: %w", err)
	}
	return intentFromRow(row), true, nil
}

func (r *SignupRepository) Upsert(ctx context.Context, intent signup.Intent) error {
	query, args, err := qb.InsertInto("signup_intents").
		Columns("season_id", "player_id", "wants_captain", "note", "updated_at").
		Values(intent.SeasonID, intent.PlayerID, intent.WantsCaptain, intent.Note, intent.UpdatedAt).
		Suffix(`ON CONFLICT (season_id, player_id) DO UPDATE SET
			wants_captain = EXCLUDED.wants_captain,
			note = EXCLUDED.note,
			updated_at = EXCLUDED.updated_at`).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build upsert signup intent query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert signup intent: %w", err)
	}
	return nil
}

func intentFromRow(row signupTableModel) signup.Intent {
	return signup.Intent{
		SeasonID:     row.SeasonID,
		PlayerID:     row.PlayerID,
		WantsCaptain: row.WantsCaptain,
		Note:         row.Note,
		UpdatedAt:    row.UpdatedAt,
	}
}
