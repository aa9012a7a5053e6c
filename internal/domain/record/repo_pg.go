package record

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/medoffice/medoffice/internal/platform/apperr"
	"github.com/medoffice/medoffice/internal/platform/db"
)

type recordRepoPG struct {
	pool *pgxpool.Pool
}

func NewRepo(pool *pgxpool.Pool) Repository {
	return &recordRepoPG{pool: pool}
}

const recordCols = `id, patient_id, doctor, notes, diagnosis, prescription, record_date, updated_by, updated_at`

func (r *recordRepoPG) Create(ctx context.Context, rec *PatientRecord) error {
	rec.ID = uuid.New()
	err := db.Conn(ctx, r.pool).QueryRow(ctx, `
		INSERT INTO patient_record (id, patient_id, doctor, notes, diagnosis, prescription)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING record_date`,
		rec.ID, rec.PatientID, rec.Doctor, rec.Notes, rec.Diagnosis, rec.Prescription,
	).Scan(&rec.RecordDate)
	if _, ok := db.ForeignKeyViolation(err); ok {
		return apperr.NotFound("patient")
	}
	if err != nil {
		return fmt.Errorf("record create: %w", err)
	}
	return nil
}

func (r *recordRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*PatientRecord, error) {
	rec, err := scanRecord(db.Conn(ctx, r.pool).QueryRow(ctx,
		`SELECT `+recordCols+` FROM patient_record WHERE id = $1`, id))
	if db.IsNoRows(err) {
		return nil, apperr.NotFound("record")
	}
	if err != nil {
		return nil, fmt.Errorf("record get by id: %w", err)
	}
	return rec, nil
}

func (r *recordRepoPG) List(ctx context.Context) ([]*PatientRecord, error) {
	return r.query(ctx, `SELECT `+recordCols+` FROM patient_record ORDER BY record_date DESC, id`)
}

func (r *recordRepoPG) ListByPatient(ctx context.Context, patientID uuid.UUID) ([]*PatientRecord, error) {
	return r.query(ctx,
		`SELECT `+recordCols+` FROM patient_record WHERE patient_id = $1 ORDER BY record_date DESC, id`, patientID)
}

func (r *recordRepoPG) query(ctx context.Context, sql string, args ...interface{}) ([]*PatientRecord, error) {
	rows, err := db.Conn(ctx, r.pool).Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("record list: %w", err)
	}
	defer rows.Close()

	var items []*PatientRecord
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("record list: %w", err)
		}
		items = append(items, rec)
	}
	return items, rows.Err()
}

// Update writes the editable fields and the audit pair. record_date and
// doctor are never touched.
func (r *recordRepoPG) Update(ctx context.Context, rec *PatientRecord) error {
	tag, err := db.Conn(ctx, r.pool).Exec(ctx, `
		UPDATE patient_record SET notes=$2, diagnosis=$3, prescription=$4, updated_by=$5, updated_at=$6
		WHERE id = $1`,
		rec.ID, rec.Notes, rec.Diagnosis, rec.Prescription, rec.UpdatedBy, rec.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("record update: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("record")
	}
	return nil
}

func (r *recordRepoPG) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := db.Conn(ctx, r.pool).Exec(ctx, `DELETE FROM patient_record WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("record delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("record")
	}
	return nil
}

func scanRecord(row pgx.Row) (*PatientRecord, error) {
	var rec PatientRecord
	err := row.Scan(&rec.ID, &rec.PatientID, &rec.Doctor, &rec.Notes, &rec.Diagnosis, &rec.Prescription,
		&rec.RecordDate, &rec.UpdatedBy, &rec.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &rec, nil
}
