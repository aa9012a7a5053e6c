package record

import (
	"time"

	"github.com/google/uuid"
)

// PatientRecord is a clinical note. Doctor is the staff member who wrote it;
// UpdatedBy and UpdatedAt stay nil until the first edit.
type PatientRecord struct {
	ID           uuid.UUID  `db:"id" json:"id"`
	PatientID    uuid.UUID  `db:"patient_id" json:"patient_id"`
	Doctor       string     `db:"doctor" json:"doctor"`
	Notes        string     `db:"notes" json:"notes"`
	Diagnosis    *string    `db:"diagnosis" json:"diagnosis"`
	Prescription *string    `db:"prescription" json:"prescription"`
	RecordDate   time.Time  `db:"record_date" json:"record_date"`
	UpdatedBy    *string    `db:"updated_by" json:"updated_by"`
	UpdatedAt    *time.Time `db:"updated_at" json:"updated_at"`
}
