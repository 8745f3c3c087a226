package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/dvhl/club-portal/internal/domain/draft"
	"github.com/dvhl/club-portal/internal/domain/season"
	qb "github.com/dvhl/club-portal/internal/platform/querybuilder"
)

type draftTableModel struct {
	SeasonID         string         `db:"season_id"`
	Status           string         `db:"status"`
	PickOrder        pq.StringArray `db:"pick_order"`
	CurrentPickIndex int            `db:"current_pick_index"`
	Mode             string         `db:"mode"`
	Rounds           int            `db:"rounds"`
	Pool             pq.StringArray `db:"pool"`
	Picks            []byte         `db:"picks"`
	Version          int            `db:"version"`
	StartedBy        string         `db:"started_by"`
	StartedAt        time.Time      `db:"started_at"`
}

// DraftRepository stores one session row per season. Picks ride along as a
// JSONB column so a pick append and the index/version bump land in one
// statement, which is what the optimistic version check relies on.
type DraftRepository struct {
	db *sqlx.DB
}

func NewDraftRepository(db *sqlx.DB) *DraftRepository {
	return &DraftRepository{db: db}
}

func (r *DraftRepository) GetBySeason(ctx context.Context, seasonID string) (draft.Session, bool, error) {
	query, args, err := qb.Select("*").From("draft_sessions").
		Where(qb.Eq("season_id", seasonID)).
		ToSQL()
	if err != nil {
		return draft.Session{}, false, fmt.Errorf("build select draft session query: %w", err)
	}

	var row draftTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return draft.Session{}, false, nil
		}
		return draft.Session{}, false, fmt.Errorf("select draft session: %w", err)
	}

	session, err := sessionFromRow(row)
	if err != nil {
		return draft.Session{}, false, err
	}
	return session, true, nil
}

func (r *DraftRepository) Save(ctx context.Context, session draft.Session, expectedVersion int) error {
	picks, err := sonic.Marshal(session.Picks)
	if err != nil {
		return fmt.Errorf("marshal draft picks: %w", err)
	}

	if expectedVersion == 0 {
		query, args, err := insertSessionQuery(session, picks, 1, "ON CONFLICT (season_id) DO NOTHING")
		if err != nil {
			return err
		}
		res, err := r.db.ExecContext(ctx, query, args...)
		if err != nil {
			return fmt.Errorf("insert draft session: %w", err)
		}
		return checkVersionedWrite(res)
	}

	query, args, err := qb.Update("draft_sessions").
		Set("status", string(session.Status)).
		Set("pick_order", pq.StringArray(session.PickOrder)).
		Set("current_pick_index", session.CurrentPickIndex).
		Set("mode", string(session.Mode)).
		Set("rounds", session.Rounds).
		Set("pool", pq.StringArray(session.Pool)).
		Set("picks", picks).
		Set("version", expectedVersion+1).
		Where(qb.Eq("season_id", session.SeasonID), qb.Eq("version", expectedVersion)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build update draft session query: %w", err)
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update draft session: %w", err)
	}
	return checkVersionedWrite(res)
}

func (r *DraftRepository) Replace(ctx context.Context, session draft.Session) error {
	picks, err := sonic.Marshal(session.Picks)
	if err != nil {
		return fmt.Errorf("marshal draft picks: %w", err)
	}

	query, args, err := insertSessionQuery(session, picks, 1, `ON CONFLICT (season_id) DO UPDATE SET
		status = EXCLUDED.status,
		pick_order = EXCLUDED.pick_order,
		current_pick_index = EXCLUDED.current_pick_index,
		mode = EXCLUDED.mode,
		rounds = EXCLUDED.rounds,
		pool = EXCLUDED.pool,
		picks = EXCLUDED.picks,
		version = draft_sessions.version + 1,
		started_by = EXCLUDED.started_by,
		started_at = EXCLUDED.started_at`)
	if err != nil {
		return err
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("replace draft session: %w", err)
	}
	return nil
}

func insertSessionQuery(session draft.Session, picks []byte, version int, suffix string) (string, []any, error) {
	query, args, err := qb.InsertInto("draft_sessions").
		Columns(
			"season_id",
			"status",
			"pick_order",
			"current_pick_index",
			"mode",
			"rounds",
			"pool",
			"picks",
			"version",
			"started_by",
			"started_at",
		).
		Values(
			session.SeasonID,
			string(session.Status),
			pq.StringArray(session.PickOrder),
			session.CurrentPickIndex,
			string(session.Mode),
			session.Rounds,
			pq.StringArray(session.Pool),
			picks,
			version,
			session.StartedBy,
			session.StartedAt,
		).
		Suffix(suffix).
		ToSQL()
	if err != nil {
		return "", nil, fmt.Errorf("build insert draft session query: %w", err)
	}
	return query, args, nil
}

func checkVersionedWrite(res sql.Result) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("draft session rows affected: %w", err)
	}
	if affected == 0 {
		return draft.ErrVersionMismatch
	}
	return nil
}

func sessionFromRow(row draftTableModel) (draft.Session, error) {
	var picks []draft.Pick
	if len(row.Picks) > 0 {
		if err := sonic.Unmarshal(row.Picks, &picks); err != nil {
			return draft.Session{}, fmt.Errorf("unmarshal draft picks: %w", err)
		}
	}
	return draft.Session{
		SeasonID:         row.SeasonID,
		Status:           draft.Status(row.Status),
		PickOrder:        []string(row.PickOrder),
		CurrentPickIndex: row.CurrentPickIndex,
		Mode:             season.DraftMode(row.Mode),
		Rounds:           row.Rounds,
		Pool:             []string(row.Pool),
		Picks:            picks,
		Version:          row.Version,
		StartedBy:        row.StartedBy,
		StartedAt:        row.StartedAt,
	}, nil
}
