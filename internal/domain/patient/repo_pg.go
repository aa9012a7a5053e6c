package patient

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/medoffice/medoffice/internal/platform/apperr"
	"github.com/medoffice/medoffice/internal/platform/db"
)

type patientRepoPG struct {
	pool *pgxpool.Pool
}

func NewRepo(pool *pgxpool.Pool) Repository {
	return &patientRepoPG{pool: pool}
}

const patientCols = `id, first_name, last_name, email, age, birth_date,
	home_address, home_phone, personal_phone, occupation, medical_insurance,
	created_at, updated_at`

const errDuplicateEmail = "a patient with this email already exists"

func (r *patientRepoPG) Create(ctx context.Context, p *Patient) error {
	p.ID = uuid.New()
	err := db.Conn(ctx, r.pool).QueryRow(ctx, `
		INSERT INTO patient (
			id, first_name, last_name, email, age, birth_date,
			home_address, home_phone, personal_phone, occupation, medical_insurance
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
		RETURNING created_at, updated_at`,
		p.ID, p.FirstName, p.LastName, p.Email, p.Age, p.BirthDate,
		p.HomeAddress, p.HomePhone, p.PersonalPhone, p.Occupation, p.MedicalInsurance,
	).Scan(&p.CreatedAt, &p.UpdatedAt)
	if _, ok := db.UniqueViolation(err); ok {
		return apperr.Conflict(errDuplicateEmail)
	}
	if err != nil {
		return fmt.Errorf("patient create: %w", err)
	}
	return nil
}

func (r *patientRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*Patient, error) {
	p, err := scanPatient(db.Conn(ctx, r.pool).QueryRow(ctx,
		`SELECT `+patientCols+` FROM patient WHERE id = $1`, id))
	if db.IsNoRows(err) {
		return nil, apperr.NotFound("patient")
	}
	if err != nil {
		return nil, fmt.Errorf("patient get by id: %w", err)
	}
	return p, nil
}

func (r *patientRepoPG) List(ctx context.Context) ([]*Patient, error) {
	rows, err := db.Conn(ctx, r.pool).Query(ctx,
		`SELECT `+patientCols+` FROM patient ORDER BY last_name, first_name, id`)
	if err != nil {
		return nil, fmt.Errorf("patient list: %w", err)
	}
	defer rows.Close()

	var items []*Patient
	for rows.Next() {
		p, err := scanPatient(rows)
		if err != nil {
			return nil, fmt.Errorf("patient list: %w", err)
		}
		items = append(items, p)
	}
	return items, rows.Err()
}

func (r *patientRepoPG) Update(ctx context.Context, p *Patient) error {
	err := db.Conn(ctx, r.pool).QueryRow(ctx, `
		UPDATE patient SET
			first_name=$2, last_name=$3, email=$4, age=$5, birth_date=$6,
			home_address=$7, home_phone=$8, personal_phone=$9, occupation=$10, medical_insurance=$11,
			updated_at=NOW()
		WHERE id = $1
		RETURNING updated_at`,
		p.ID, p.FirstName, p.LastName, p.Email, p.Age, p.BirthDate,
		p.HomeAddress, p.HomePhone, p.PersonalPhone, p.Occupation, p.MedicalInsurance,
	).Scan(&p.UpdatedAt)
	if db.IsNoRows(err) {
		return apperr.NotFound("patient")
	}
	if _, ok := db.UniqueViolation(err); ok {
		return apperr.Conflict(errDuplicateEmail)
	}
	if err != nil {
		return fmt.Errorf("patient update: %w", err)
	}
	return nil
}

func (r *patientRepoPG) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := db.Conn(ctx, r.pool).Exec(ctx, `DELETE FROM patient WHERE id = $1`, id)
	if _, ok := db.ForeignKeyViolation(err); ok {
		return apperr.Conflict("patient has appointments or records")
	}
	if err != nil {
		return fmt.Errorf("patient delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("patient")
	}
	return nil
}

func (r *patientRepoPG) Dependents(ctx context.Context, id uuid.UUID) (Dependents, error) {
	var d Dependents
	err := db.Conn(ctx, r.pool).QueryRow(ctx, `
		SELECT
			(SELECT COUNT(*) FROM appointment WHERE patient_id = $1),
			(SELECT COUNT(*) FROM patient_record WHERE patient_id = $1)`, id,
	).Scan(&d.Appointments, &d.Records)
	if err != nil {
		return Dependents{}, fmt.Errorf("patient dependents: %w", err)
	}
	return d, nil
}

func scanPatient(row pgx.Row) (*Patient, error) {
	var p Patient
	err := row.Scan(
		&p.ID, &p.FirstName, &p.LastName, &p.Email, &p.Age, &p.BirthDate,
		&p.HomeAddress, &p.HomePhone, &p.PersonalPhone, &p.Occupation, &p.MedicalInsurance,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}
