package patient

import (
	"time"

	"github.com/google/uuid"

	"github.com/medoffice/medoffice/pkg/civil"
)

// Patient maps to the patient table.
type Patient struct {
	ID               uuid.UUID   `db:"id" json:"id"`
	FirstName        string      `db:"first_name" json:"first_name"`
	LastName         string      `db:"last_name" json:"last_name"`
	Email            string      `db:"email" json:"email"`
	Age              *int        `db:"age" json:"age,omitempty"`
	BirthDate        *civil.Date `db:"birth_date" json:"birth_date,omitempty"`
	HomeAddress      *string     `db:"home_address" json:"home_address,omitempty"`
	HomePhone        *string     `db:"home_phone" json:"home_phone,omitempty"`
	PersonalPhone    *string     `db:"personal_phone" json:"personal_phone,omitempty"`
	Occupation       *string     `db:"occupation" json:"occupation,omitempty"`
	MedicalInsurance *string     `db:"medical_insurance" json:"medical_insurance,omitempty"`
	CreatedAt        time.Time   `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time   `db:"updated_at" json:"updated_at"`
}

// FullName joins first and last name.
func (p *Patient) FullName() string {
	if p.LastName == "" {
		return p.FirstName
	}
	return p.FirstName + " " + p.LastName
}

// Dependents counts the rows that reference a patient.
type Dependents struct {
	Appointments int
	Records      int
}

func (d Dependents) Any() bool {
	return d.Appointments > 0 || d.Records > 0
}
