package appointment

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medoffice/medoffice/internal/platform/apperr"
	"github.com/medoffice/medoffice/pkg/civil"
)

func validInput(patientID uuid.UUID) CreateInput {
	return CreateInput{
		PatientID:       patientID.String(),
		AppointmentDate: "2025-03-14",
		AppointmentTime: "09:30",
		Doctor:          "Dr. House",
	}
}

func TestValidateCreate(t *testing.T) {
	pid := uuid.New()
	a, err := ValidateCreate(validInput(pid))
	require.NoError(t, err)
	assert.Equal(t, pid, a.PatientID)
	assert.Equal(t, civil.Date{Year: 2025, Month: 3, Day: 14}, a.AppointmentDate)
	assert.Equal(t, civil.TimeOfDay{Hour: 9, Minute: 30}, a.AppointmentTime)
	assert.Equal(t, "Dr. House", a.Doctor)
}

func TestValidateCreate_Errors(t *testing.T) {
	tests := []struct {
		name  string
		edit  func(*CreateInput)
		field string
	}{
		{"missing patient", func(in *CreateInput) { in.PatientID = "" }, "patient_id"},
		{"malformed patient", func(in *CreateInput) { in.PatientID = "42" }, "patient_id"},
		{"missing date", func(in *CreateInput) { in.AppointmentDate = "" }, "appointment_date"},
		{"bad date", func(in *CreateInput) { in.AppointmentDate = "14/03/2025" }, "appointment_date"},
		{"missing time", func(in *CreateInput) { in.AppointmentTime = " " }, "appointment_time"},
		{"bad time", func(in *CreateInput) { in.AppointmentTime = "25:00" }, "appointment_time"},
		{"missing doctor", func(in *CreateInput) { in.Doctor = "" }, "doctor"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validInput(uuid.New())
			tt.edit(&in)
			_, err := ValidateCreate(in)
			require.ErrorIs(t, err, apperr.ErrValidation)
			var ve *apperr.ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, tt.field, ve.Field)
		})
	}
}

func TestValidateUpdate(t *testing.T) {
	a, err := ValidateCreate(validInput(uuid.New()))
	require.NoError(t, err)

	newTime := "14:15:30"
	require.NoError(t, ValidateUpdate(UpdateInput{AppointmentTime: &newTime}, a))
	assert.Equal(t, civil.TimeOfDay{Hour: 14, Minute: 15, Second: 30}, a.AppointmentTime)
	assert.Equal(t, "Dr. House", a.Doctor)

	empty := ""
	err = ValidateUpdate(UpdateInput{Doctor: &empty}, a)
	assert.ErrorIs(t, err, apperr.ErrValidation)
}
