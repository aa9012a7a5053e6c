package record

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/medoffice/medoffice/internal/platform/apperr"
	"github.com/medoffice/medoffice/internal/platform/db"
)

type Service struct {
	records  Repository
	patients PatientChecker
	tx       db.TxManager
	logger   zerolog.Logger
	now      func() time.Time
}

func NewService(records Repository, patients PatientChecker, tx db.TxManager, logger zerolog.Logger) *Service {
	return &Service{records: records, patients: patients, tx: tx, logger: logger, now: time.Now}
}

// WithClock replaces the clock used for updated_at.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// CreateRecord attaches a note to a patient. doctor is the authenticated
// username.
func (s *Service) CreateRecord(ctx context.Context, patientID uuid.UUID, doctor string, in Input) (*PatientRecord, error) {
	if doctor == "" {
		return nil, apperr.Unauthenticated("missing identity")
	}
	rec, err := ValidateCreate(in)
	if err != nil {
		return nil, err
	}
	rec.PatientID = patientID
	rec.Doctor = doctor

	err = s.tx.InTx(ctx, func(ctx context.Context) error {
		if err := s.patients.Exists(ctx, patientID); err != nil {
			return err
		}
		return s.records.Create(ctx, rec)
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info().
		Str("record_id", rec.ID.String()).
		Str("patient_id", patientID.String()).
		Str("doctor", doctor).
		Msg("patient record created")
	return rec, nil
}

func (s *Service) GetRecord(ctx context.Context, id uuid.UUID) (*PatientRecord, error) {
	return s.records.GetByID(ctx, id)
}

func (s *Service) ListRecords(ctx context.Context) ([]*PatientRecord, error) {
	return s.records.List(ctx)
}

func (s *Service) ListPatientRecords(ctx context.Context, patientID uuid.UUID) ([]*PatientRecord, error) {
	if err := s.patients.Exists(ctx, patientID); err != nil {
		return nil, err
	}
	return s.records.ListByPatient(ctx, patientID)
}

// UpdateRecord changes the clinical fields present in in and stamps updated_by and
// updated_at. record_date keeps its original value.
func (s *Service) UpdateRecord(ctx context.Context, id uuid.UUID, editor string, in Input) (*PatientRecord, error) {
	if editor == "" {
		return nil, apperr.Unauthenticated("missing identity")
	}
	var updated *PatientRecord
	err := s.tx.InTx(ctx, func(ctx context.Context) error {
		current, err := s.records.GetByID(ctx, id)
		if err != nil {
			return err
		}
		next := *current
		if err := ValidateUpdate(in, &next); err != nil {
			return err
		}
		now := s.now().UTC()
		next.UpdatedBy = &editor
		next.UpdatedAt = &now
		if err := s.records.Update(ctx, &next); err != nil {
			return err
		}
		updated = &next
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *Service) DeleteRecord(ctx context.Context, id uuid.UUID) error {
	return s.tx.InTx(ctx, func(ctx context.Context) error {
		return s.records.Delete(ctx, id)
	})
}
