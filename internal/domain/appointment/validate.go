package appointment

import (
	"strings"

	"github.com/google/uuid"

	"github.com/medoffice/medoffice/internal/platform/apperr"
	"github.com/medoffice/medoffice/pkg/civil"
)

// CreateInput carries the raw request fields so each one can be reported
// individually when it is missing or malformed.
type CreateInput struct {
	PatientID       string `json:"patient_id"`
	AppointmentDate string `json:"appointment_date"`
	AppointmentTime string `json:"appointment_time"`
	Doctor          string `json:"doctor"`
}

// UpdateInput replaces only the fields that are present.
type UpdateInput struct {
	PatientID       *string `json:"patient_id"`
	AppointmentDate *string `json:"appointment_date"`
	AppointmentTime *string `json:"appointment_time"`
	Doctor          *string `json:"doctor"`
}

func ValidateCreate(in CreateInput) (*Appointment, error) {
	a := &Appointment{}
	if err := setPatientID(a, in.PatientID); err != nil {
		return nil, err
	}
	if err := setDate(a, in.AppointmentDate); err != nil {
		return nil, err
	}
	if err := setTime(a, in.AppointmentTime); err != nil {
		return nil, err
	}
	if err := setDoctor(a, in.Doctor); err != nil {
		return nil, err
	}
	return a, nil
}

// ValidateUpdate applies the present fields of in to a. A present field must
// still be non-empty.
func ValidateUpdate(in UpdateInput, a *Appointment) error {
	if in.PatientID != nil {
		if err := setPatientID(a, *in.PatientID); err != nil {
			return err
		}
	}
	if in.AppointmentDate != nil {
		if err := setDate(a, *in.AppointmentDate); err != nil {
			return err
		}
	}
	if in.AppointmentTime != nil {
		if err := setTime(a, *in.AppointmentTime); err != nil {
			return err
		}
	}
	if in.Doctor != nil {
		if err := setDoctor(a, *in.Doctor); err != nil {
			return err
		}
	}
	return nil
}

func setPatientID(a *Appointment, s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return apperr.Invalid("patient_id", "patient_id is required")
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return apperr.Invalid("patient_id", "patient_id must be a valid id")
	}
	a.PatientID = id
	return nil
}

func setDate(a *Appointment, s string) error {
	if strings.TrimSpace(s) == "" {
		return apperr.Invalid("appointment_date", "appointment_date is required")
	}
	d, err := civil.ParseDate(s)
	if err != nil {
		return apperr.Invalid("appointment_date", "appointment_date must be a date in YYYY-MM-DD format")
	}
	a.AppointmentDate = d
	return nil
}

func setTime(a *Appointment, s string) error {
	if strings.TrimSpace(s) == "" {
		return apperr.Invalid("appointment_time", "appointment_time is required")
	}
	t, err := civil.ParseTimeOfDay(s)
	if err != nil {
		return apperr.Invalid("appointment_time", "appointment_time must be a time in HH:MM or HH:MM:SS format")
	}
	a.AppointmentTime = t
	return nil
}

func setDoctor(a *Appointment, s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return apperr.Invalid("doctor", "doctor is required")
	}
	if len(s) > 80 {
		return apperr.Invalid("doctor", "doctor must be at most 80 characters")
	}
	a.Doctor = s
	return nil
}
