package patient

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

const patientCols = `id, round_id, user_id, name, bed_number, brief_history,
	diagnosis, physical_examination, imaging, lab_result, incident,
	medications, plan, round, serial_no, created_at, updated_at`

// serialOrder sorts by serial number with insertion order as the tiebreak,
// so resequencing is deterministic even when serials collide.
const serialOrder = `ORDER BY serial_no ASC, created_at ASC, id ASC`

func (r *repoPG) Create(ctx context.Context, p *Patient) error {
	p.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO patients (
			id, round_id, user_id, name, bed_number, brief_history,
			diagnosis, physical_examination, imaging, lab_result, incident,
			medications, plan, round, serial_no
		) VALUES (
			$1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15
		)`,
		p.ID, p.RoundID, p.UserID, p.Name, p.BedNumber, p.BriefHistory,
		p.Diagnosis, p.PhysicalExamination, p.Imaging, p.LabResult, p.Incident,
		p.Medications, p.Plan, p.RoundLabel, p.SerialNo,
	)
	return err
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Patient, error) {
	return scanPatient(r.conn(ctx).QueryRow(ctx,
		`SELECT `+patientCols+` FROM patients WHERE id = $1`, id))
}

func (r *repoPG) ListByRound(ctx context.Context, roundID uuid.UUID) ([]*Patient, error) {
	rows, err := r.conn(ctx).Query(ctx,
		`SELECT `+patientCols+` FROM patients WHERE round_id = $1 `+serialOrder, roundID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectPatients(rows)
}

func (r *repoPG) Search(ctx context.Context, roundID uuid.UUID, term string) ([]*Patient, error) {
	pattern := "%" + term + "%"
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT `+patientCols+` FROM patients
		WHERE round_id = $1
		  AND (name ILIKE $2 OR diagnosis ILIKE $2 OR medications ILIKE $2)
		`+serialOrder, roundID, pattern)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectPatients(rows)
}

func (r *repoPG) Update(ctx context.Context, p *Patient) error {
	tag, err := r.conn(ctx).Exec(ctx, `
		UPDATE patients SET
			name=$2, bed_number=$3, brief_history=$4, diagnosis=$5,
			physical_examination=$6, imaging=$7, lab_result=$8, incident=$9,
			medications=$10, plan=$11, round=$12, updated_at=NOW()
		WHERE id = $1`,
		p.ID, p.Name, p.BedNumber, p.BriefHistory, p.Diagnosis,
		p.PhysicalExamination, p.Imaging, p.LabResult, p.Incident,
		p.Medications, p.Plan, p.RoundLabel,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repoPG) UpdatePosition(ctx context.Context, id uuid.UUID, serialNo int) error {
	tag, err := r.conn(ctx).Exec(ctx,
		`UPDATE patients SET serial_no=$2, updated_at=NOW() WHERE id = $1`, id, serialNo)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repoPG) MaxPosition(ctx context.Context, roundID uuid.UUID) (int, error) {
	var max int
	err := r.conn(ctx).QueryRow(ctx,
		`SELECT COALESCE(MAX(serial_no), 0) FROM patients WHERE round_id = $1`,
		roundID).Scan(&max)
	return max, err
}

func (r *repoPG) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.conn(ctx).Exec(ctx, `DELETE FROM patients WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanPatient(row pgx.Row) (*Patient, error) {
	var p Patient
	err := row.Scan(
		&p.ID, &p.RoundID, &p.UserID, &p.Name, &p.BedNumber, &p.BriefHistory,
		&p.Diagnosis, &p.PhysicalExamination, &p.Imaging, &p.LabResult, &p.Incident,
		&p.Medications, &p.Plan, &p.RoundLabel, &p.SerialNo, &p.CreatedAt, &p.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func collectPatients(rows pgx.Rows) ([]*Patient, error) {
	var patients []*Patient
	for rows.Next() {
		var p Patient
		err := rows.Scan(
			&p.ID, &p.RoundID, &p.UserID, &p.Name, &p.BedNumber, &p.BriefHistory,
			&p.Diagnosis, &p.PhysicalExamination, &p.Imaging, &p.LabResult, &p.Incident,
			&p.Medications, &p.Plan, &p.RoundLabel, &p.SerialNo, &p.CreatedAt, &p.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		patients = append(patients, &p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return patients, nil
}
