package round

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nephtalem/MedRounds/internal/platform/db"
)

type repoPG struct {
	pool *pgxpool.Pool
}

func NewRepo(pool *pgxpool.Pool) Repository {
	return &repoPG{pool: pool}
}

type querier interface {
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
}

func (r *repoPG) conn(ctx context.Context) querier {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.pool
}

const roundCols = `id, user_id, round_number, date, status,
	last_updated_by_name, last_updated_by_email, created_at, updated_at`

func (r *repoPG) Create(ctx context.Context, rnd *Round) error {
	rnd.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO rounds (id, user_id, round_number, date, status)
		VALUES ($1, $2, $3, $4, $5)`,
		rnd.ID, rnd.UserID, rnd.RoundNumber, rnd.Date, rnd.Status,
	)
	return err
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Round, error) {
	return scanRound(r.conn(ctx).QueryRow(ctx,
		`SELECT `+roundCols+` FROM rounds WHERE id = $1`, id))
}

func (r *repoPG) GetByRoundNumber(ctx context.Context, roundNumber string) (*Round, error) {
	return scanRound(r.conn(ctx).QueryRow(ctx,
		`SELECT `+roundCols+` FROM rounds WHERE round_number = $1 ORDER BY date DESC LIMIT 1`,
		roundNumber))
}

func (r *repoPG) List(ctx context.Context, limit, offset int) ([]*Round, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM rounds`).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.conn(ctx).Query(ctx,
		`SELECT `+roundCols+` FROM rounds ORDER BY date DESC LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	return collectRounds(rows, total)
}

func (r *repoPG) ListByStatus(ctx context.Context, status string, limit, offset int) ([]*Round, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx,
		`SELECT COUNT(*) FROM rounds WHERE status = $1`, status).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.conn(ctx).Query(ctx,
		`SELECT `+roundCols+` FROM rounds WHERE status = $1 ORDER BY date DESC LIMIT $2 OFFSET $3`,
		status, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	return collectRounds(rows, total)
}

func (r *repoPG) Update(ctx context.Context, rnd *Round) error {
	tag, err := r.conn(ctx).Exec(ctx, `
		UPDATE rounds SET round_number=$2, date=$3, updated_at=NOW()
		WHERE id = $1`,
		rnd.ID, rnd.RoundNumber, rnd.Date,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repoPG) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	tag, err := r.conn(ctx).Exec(ctx,
		`UPDATE rounds SET status=$2, updated_at=NOW() WHERE id = $1`, id, status)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repoPG) Stamp(ctx context.Context, id uuid.UUID, name, email string) error {
	tag, err := r.conn(ctx).Exec(ctx, `
		UPDATE rounds SET last_updated_by_name=$2, last_updated_by_email=$3,
			date=NOW(), updated_at=NOW()
		WHERE id = $1`,
		id, name, email,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repoPG) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.conn(ctx).Exec(ctx, `DELETE FROM rounds WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repoPG) PatientCount(ctx context.Context, id uuid.UUID) (int, error) {
	var count int
	err := r.conn(ctx).QueryRow(ctx,
		`SELECT COUNT(*) FROM patients WHERE round_id = $1`, id).Scan(&count)
	return count, err
}

func scanRound(row pgx.Row) (*Round, error) {
	var rnd Round
	err := row.Scan(
		&rnd.ID, &rnd.UserID, &rnd.RoundNumber, &rnd.Date, &rnd.Status,
		&rnd.LastUpdatedByName, &rnd.LastUpdatedByEmail, &rnd.CreatedAt, &rnd.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &rnd, nil
}

func collectRounds(rows pgx.Rows, total int) ([]*Round, int, error) {
	var rounds []*Round
	for rows.Next() {
		var rnd Round
		err := rows.Scan(
			&rnd.ID, &rnd.UserID, &rnd.RoundNumber, &rnd.Date, &rnd.Status,
			&rnd.LastUpdatedByName, &rnd.LastUpdatedByEmail, &rnd.CreatedAt, &rnd.UpdatedAt,
		)
		if err != nil {
			return nil, 0, err
		}
		rounds = append(rounds, &rnd)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return rounds, total, nil
}
