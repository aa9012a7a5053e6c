package record

import (
	"strings"

	"github.com/medoffice/medoffice/internal/platform/apperr"
)

// Input is the body of record create and update requests. Doctor and
// updated_by are taken from the caller's token, never from the body. On
// update only the fields present in the body change.
type Input struct {
	Notes        *string `json:"notes"`
	Diagnosis    *string `json:"diagnosis"`
	Prescription *string `json:"prescription"`
}

func ValidateCreate(in Input) (*PatientRecord, error) {
	if in.Notes == nil {
		return nil, apperr.Invalid("notes", "notes are required")
	}
	r := &PatientRecord{}
	if err := ValidateUpdate(in, r); err != nil {
		return nil, err
	}
	return r, nil
}

// ValidateUpdate applies the non-nil fields of in to r. Notes, when sent,
// must not be blank; a blank diagnosis or prescription clears it.
func ValidateUpdate(in Input, r *PatientRecord) error {
	if in.Notes != nil {
		notes := strings.TrimSpace(*in.Notes)
		if notes == "" {
			return apperr.Invalid("notes", "notes are required")
		}
		r.Notes = notes
	}
	if in.Diagnosis != nil {
		r.Diagnosis = optional(*in.Diagnosis)
	}
	if in.Prescription != nil {
		r.Prescription = optional(*in.Prescription)
	}
	return nil
}

func optional(s string) *string {
	v := strings.TrimSpace(s)
	if v == "" {
		return nil
	}
	return &v
}
