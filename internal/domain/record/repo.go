package record

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, r *PatientRecord) error
	GetByID(ctx context.Context, id uuid.UUID) (*PatientRecord, error)
	List(ctx context.Context) ([]*PatientRecord, error)
	ListByPatient(ctx context.Context, patientID uuid.UUID) ([]*PatientRecord, error)
	Update(ctx context.Context, r *PatientRecord) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// PatientChecker reports apperr.ErrNotFound for unknown patients.
type PatientChecker interface {
	Exists(ctx context.Context, id uuid.UUID) error
}
