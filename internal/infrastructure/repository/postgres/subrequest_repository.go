package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/dvhl/club-portal/internal/domain/subrequest"
	qb "github.com/dvhl/club-portal/internal/platform/querybuilder"
)

type subRequestTableModel struct {
	ID          string       `db:"id"`
	SeasonID    string       `db:"season_id"`
	TeamID      string       `db:"team_id"`
	CaptainID   string       `db:"captain_id"`
	RequesterID string       `db:"requester_id"`
	Message     string       `db:"message"`
	GameID      string       `db:"game_id"`
	Status      string       `db:"status"`
	AcceptedBy  string       `db:"accepted_by"`
	AcceptedAt  sql.NullTime `db:"accepted_at"`
	CreatedAt   time.Time    `db:"created_at"`
}

type SubRequestRepository struct {
	db *sqlx.DB
}

func NewSubRequestRepository(db *sqlx.DB) *SubRequestRepository {
	return &SubRequestRepository{db: db}
}

func (r *SubRequestRepository) GetByID(ctx context.Context, requestID string) (subrequest.Request, bool, error) {
	query, args, err := qb.Select("*").From("sub_requests").
		Where(qb.Eq("id", requestID)).
		ToSQL()
	if err != nil {
		return subrequest.Request{}, false, fmt.Errorf("build select sub request query: %w", err)
	}

	var row subRequestTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return subrequest.Request{}, false, nil
		}
		return subrequest.Request{}, false, fmt.Errorf("select sub request: %w", err)
	}
	return subRequestFromRow(row), true, nil
}

func (r *SubRequestRepository) ListBySeason(ctx context.Context, seasonID string) ([]subrequest.Request, error) {
	query, args, err := qb.Select("*").From("sub_requests").
		Where(qb.Eq("season_id", seasonID)).
		OrderBy("created_at", "id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select sub requests query: %w", err)
	}

	var rows []subRequestTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select sub requests: %w", err)
	}

	out := make([]subrequest.Request, 0, len(rows))
	for _, row := range rows {
		out = append(out, subRequestFromRow(row))
	}
	return out, nil
}

func (r *SubRequestRepository) Insert(ctx context.Context, request subrequest.Request) error {
	query, args, err := qb.InsertInto("sub_requests").
		Columns(
			"id",
			"season_id",
			"team_id",
			"captain_id",
			"requester_id",
			"message",
			"game_id",
			"status",
			"accepted_by",
			"accepted_at",
			"created_at",
		).
		Values(
			request.ID,
			request.SeasonID,
			request.TeamID,
			request.CaptainID,
			request.RequesterID,
			request.Message,
			request.GameID,
			string(request.Status),
			request.AcceptedBy,
			nullTime(request.AcceptedAt),
			request.CreatedAt,
		).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build insert sub request query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert sub request: %w", err)
	}
	return nil
}

func (r *SubRequestRepository) Update(ctx context.Context, request subrequest.Request) error {
	query, args, err := qb.Update("sub_requests").
		Set("status", string(request.Status)).
		Set("accepted_by", request.AcceptedBy).
		Set("accepted_at", nullTime(request.AcceptedAt)).
		Where(qb.Eq("id", request.ID)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build update sub request query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("update sub request: %w", err)
	}
	return nil
}

func subRequestFromRow(row subRequestTableModel) subrequest.Request {
	return subrequest.Request{
		ID:          row.ID,
		SeasonID:    row.SeasonID,
		TeamID:      row.TeamID,
		CaptainID:   row.CaptainID,
		RequesterID: row.RequesterID,
		Message:     row.Message,
		GameID:      row.GameID,
		Status:      subrequest.Status(row.Status),
		AcceptedBy:  row.AcceptedBy,
		AcceptedAt:  timePtr(row.AcceptedAt),
		CreatedAt:   row.CreatedAt,
	}
}
