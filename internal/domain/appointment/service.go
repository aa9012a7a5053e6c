package appointment

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/medoffice/medoffice/internal/platform/db"
)

type Service struct {
	appointments Repository
	patients     PatientChecker
	tx           db.TxManager
	logger       zerolog.Logger
}

func NewService(appointments Repository, patients PatientChecker, tx db.TxManager, logger zerolog.Logger) *Service {
	return &Service{appointments: appointments, patients: patients, tx: tx, logger: logger}
}

// CreateAppointment books a slot for an existing patient. The patient check
// and the insert share one transaction.
func (s *Service) CreateAppointment(ctx context.Context, in CreateInput) (*Appointment, error) {
	a, err := ValidateCreate(in)
	if err != nil {
		return nil, err
	}
	err = s.tx.InTx(ctx, func(ctx context.Context) error {
		if err := s.patients.Exists(ctx, a.PatientID); err != nil {
			return err
		}
		return s.appointments.Create(ctx, a)
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info().
		Str("appointment_id", a.ID.String()).
		Str("patient_id", a.PatientID.String()).
		Msg("appointment created")
	return a, nil
}

func (s *Service) GetAppointment(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	return s.appointments.GetByID(ctx, id)
}

func (s *Service) ListAppointments(ctx context.Context) ([]*Appointment, error) {
	return s.appointments.List(ctx)
}

func (s *Service) ListPatientAppointments(ctx context.Context, patientID uuid.UUID) ([]*Appointment, error) {
	if err := s.patients.Exists(ctx, patientID); err != nil {
		return nil, err
	}
	return s.appointments.ListByPatient(ctx, patientID)
}

func (s *Service) UpdateAppointment(ctx context.Context, id uuid.UUID, in UpdateInput) (*Appointment, error) {
	var updated *Appointment
	err := s.tx.InTx(ctx, func(ctx context.Context) error {
		current, err := s.appointments.GetByID(ctx, id)
		if err != nil {
			return err
		}
		next := *current
		if err := ValidateUpdate(in, &next); err != nil {
			return err
		}
		if next.PatientID != current.PatientID {
			if err := s.patients.Exists(ctx, next.PatientID); err != nil {
				return err
			}
		}
		if err := s.appointments.Update(ctx, &next); err != nil {
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

func (s *Service) DeleteAppointment(ctx context.Context, id uuid.UUID) error {
	return s.tx.InTx(ctx, func(ctx context.Context) error {
		return s.appointments.Delete(ctx, id)
	})
}
