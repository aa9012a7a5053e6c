package appointment

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/medoffice/medoffice/internal/platform/apperr"
	"github.com/medoffice/medoffice/internal/platform/db"
)

type appointmentRepoPG struct {
	pool *pgxpool.Pool
}

func NewRepo(pool *pgxpool.Pool) Repository {
	return &appointmentRepoPG{pool: pool}
}

const appointmentCols = `id, patient_id, appointment_date, appointment_time, doctor, created_at`

func (r *appointmentRepoPG) Create(ctx context.Context, a *Appointment) error {
	a.ID = uuid.New()
	err := db.Conn(ctx, r.pool).QueryRow(ctx, `
		INSERT INTO appointment (id, patient_id, appointment_date, appointment_time, doctor)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at`,
		a.ID, a.PatientID, a.AppointmentDate, a.AppointmentTime, a.Doctor,
	).Scan(&a.CreatedAt)
	if _, ok := db.ForeignKeyViolation(err); ok {
		return apperr.NotFound("patient")
	}
	if err != nil {
		return fmt.Errorf("appointment create: %w", err)
	}
	return nil
}

func (r *appointmentRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	a, err := scanAppointment(db.Conn(ctx, r.pool).QueryRow(ctx,
		`SELECT `+appointmentCols+` FROM appointment WHERE id = $1`, id))
	if db.IsNoRows(err) {
		return nil, apperr.NotFound("appointment")
	}
	if err != nil {
		return nil, fmt.Errorf("appointment get by id: %w", err)
	}
	return a, nil
}

func (r *appointmentRepoPG) List(ctx context.Context) ([]*Appointment, error) {
	return r.list(ctx, `SELECT `+appointmentCols+` FROM appointment
		ORDER BY appointment_date, appointment_time, id`)
}

func (r *appointmentRepoPG) ListByPatient(ctx context.Context, patientID uuid.UUID) ([]*Appointment, error) {
	return r.list(ctx, `SELECT `+appointmentCols+` FROM appointment
		WHERE patient_id = $1
		ORDER BY appointment_date, appointment_time, id`, patientID)
}

func (r *appointmentRepoPG) list(ctx context.Context, query string, args ...interface{}) ([]*Appointment, error) {
	rows, err := db.Conn(ctx, r.pool).Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("appointment list: %w", err)
	}
	defer rows.Close()

	var items []*Appointment
	for rows.Next() {
		a, err := scanAppointment(rows)
		if err != nil {
			return nil, fmt.Errorf("appointment list: %w", err)
		}
		items = append(items, a)
	}
	return items, rows.Err()
}

func (r *appointmentRepoPG) Update(ctx context.Context, a *Appointment) error {
	tag, err := db.Conn(ctx, r.pool).Exec(ctx, `
		UPDATE appointment SET patient_id=$2, appointment_date=$3, appointment_time=$4, doctor=$5
		WHERE id = $1`,
		a.ID, a.PatientID, a.AppointmentDate, a.AppointmentTime, a.Doctor,
	)
	if _, ok := db.ForeignKeyViolation(err); ok {
		return apperr.NotFound("patient")
	}
	if err != nil {
		return fmt.Errorf("appointment update: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("appointment")
	}
	return nil
}

func (r *appointmentRepoPG) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := db.Conn(ctx, r.pool).Exec(ctx, `DELETE FROM appointment WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("appointment delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("appointment")
	}
	return nil
}

func scanAppointment(row pgx.Row) (*Appointment, error) {
	var a Appointment
	if err := row.Scan(&a.ID, &a.PatientID, &a.AppointmentDate, &a.AppointmentTime, &a.Doctor, &a.CreatedAt); err != nil {
		return nil, err
	}
	return &a, nil
}
