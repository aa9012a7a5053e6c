package patient

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/medoffice/medoffice/internal/platform/apperr"
	"github.com/medoffice/medoffice/internal/platform/db"
)

type Service struct {
	patients Repository
	tx       db.TxManager
	logger   zerolog.Logger
}

func NewService(patients Repository, tx db.TxManager, logger zerolog.Logger) *Service {
	return &Service{patients: patients, tx: tx, logger: logger}
}

func (s *Service) CreatePatient(ctx context.Context, in CreateInput) (*Patient, error) {
	p, err := ValidateCreate(in)
	if err != nil {
		return nil, err
	}
	if err := s.tx.InTx(ctx, func(ctx context.Context) error {
		return s.patients.Create(ctx, p)
	}); err != nil {
		return nil, err
	}
	s.logger.Info().Str("patient_id", p.ID.String()).Msg("patient created")
	return p, nil
}

func (s *Service) GetPatient(ctx context.Context, id uuid.UUID) (*Patient, error) {
	return s.patients.GetByID(ctx, id)
}

func (s *Service) ListPatients(ctx context.Context) ([]*Patient, error) {
	return s.patients.List(ctx)
}

// UpdatePatient loads the patient before validating, so a missing patient is
// reported as not found even when the input is also invalid.
func (s *Service) UpdatePatient(ctx context.Context, id uuid.UUID, in UpdateInput) (*Patient, error) {
	var updated *Patient
	err := s.tx.InTx(ctx, func(ctx context.Context) error {
		current, err := s.patients.GetByID(ctx, id)
		if err != nil {
			return err
		}
		next := *current
		if err := ValidateUpdate(in, &next); err != nil {
			return err
		}
		if err := s.patients.Update(ctx, &next); err != nil {
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

// DeletePatient refuses to remove a patient that still has appointments or
// records.
func (s *Service) DeletePatient(ctx context.Context, id uuid.UUID) error {
	err := s.tx.InTx(ctx, func(ctx context.Context) error {
		if _, err := s.patients.GetByID(ctx, id); err != nil {
			return err
		}
		deps, err := s.patients.Dependents(ctx, id)
		if err != nil {
			return err
		}
		if deps.Any() {
			return apperr.Conflict(describeDependents(deps))
		}
		return s.patients.Delete(ctx, id)
	})
	if err != nil {
		return err
	}
	s.logger.Info().Str("patient_id", id.String()).Msg("patient deleted")
	return nil
}

// Exists reports whether the patient is present, for services that attach
// rows to a patient.
func (s *Service) Exists(ctx context.Context, id uuid.UUID) error {
	_, err := s.patients.GetByID(ctx, id)
	return err
}

func describeDependents(d Dependents) string {
	var parts []string
	if d.Appointments > 0 {
		parts = append(parts, fmt.Sprintf("%d appointment(s)", d.Appointments))
	}
	if d.Records > 0 {
		parts = append(parts, fmt.Sprintf("%d record(s)", d.Records))
	}
	return "patient still has " + strings.Join(parts, " and ")
}
