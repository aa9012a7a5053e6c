package appointment

import (
	"time"

	"github.com/google/uuid"

	"github.com/medoffice/medoffice/pkg/civil"
)

// Appointment maps to the appointment table. Doctor is free text and is not
// checked against staff accounts.
type Appointment struct {
	ID              uuid.UUID       `db:"id" json:"id"`
	PatientID       uuid.UUID       `db:"patient_id" json:"patient_id"`
	AppointmentDate civil.Date      `db:"appointment_date" json:"appointment_date"`
	AppointmentTime civil.TimeOfDay `db:"appointment_time" json:"appointment_time"`
	Doctor          string          `db:"doctor" json:"doctor"`
	CreatedAt       time.Time       `db:"created_at" json:"created_at"`
}
