package patient

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/medoffice/medoffice/internal/platform/apperr"
	"github.com/medoffice/medoffice/pkg/civil"
)

const maxAge = 150

var emailPattern = regexp.MustCompile(`^\S+@\S+\.\S+$`)

// CreateInput is the request body for a new patient. Name is the legacy
// single-field form and is split into first and last name when those are
// absent.
type CreateInput struct {
	Name             *string `json:"name"`
	FirstName        *string `json:"first_name"`
	LastName         *string `json:"last_name"`
	Email            *string `json:"email"`
	Age              *int    `json:"age"`
	BirthDate        *string `json:"birth_date"`
	HomeAddress      *string `json:"home_address"`
	HomePhone        *string `json:"home_phone"`
	PersonalPhone    *string `json:"personal_phone"`
	Occupation       *string `json:"occupation"`
	MedicalInsurance *string `json:"medical_insurance"`
}

// UpdateInput is a partial update; nil fields are left unchanged. An empty
// string clears an optional field.
type UpdateInput CreateInput

// ValidateCreate builds a Patient from in.
func ValidateCreate(in CreateInput) (*Patient, error) {
	p := &Patient{}
	if err := apply(p, in); err != nil {
		return nil, err
	}
	if err := validate(p); err != nil {
		return nil, err
	}
	return p, nil
}

// ValidateUpdate applies in to p and checks the result. p is modified even
// when an error is returned, so callers pass a copy they can discard.
func ValidateUpdate(in UpdateInput, p *Patient) error {
	if err := apply(p, CreateInput(in)); err != nil {
		return err
	}
	return validate(p)
}

func apply(p *Patient, in CreateInput) error {
	if in.Name != nil {
		first, last := splitName(*in.Name)
		if in.FirstName == nil {
			p.FirstName = first
		}
		if in.LastName == nil {
			p.LastName = last
		}
	}
	if in.FirstName != nil {
		p.FirstName = strings.TrimSpace(*in.FirstName)
	}
	if in.LastName != nil {
		p.LastName = strings.TrimSpace(*in.LastName)
	}
	if in.Email != nil {
		p.Email = strings.TrimSpace(*in.Email)
	}
	if in.Age != nil {
		age := *in.Age
		p.Age = &age
	}
	if in.BirthDate != nil {
		s := strings.TrimSpace(*in.BirthDate)
		if s == "" {
			p.BirthDate = nil
		} else {
			d, err := civil.ParseDate(s)
			if err != nil {
				return apperr.Invalid("birth_date", "birth_date must be a date in YYYY-MM-DD format")
			}
			p.BirthDate = &d
		}
	}
	setOptional(&p.HomeAddress, in.HomeAddress)
	setOptional(&p.HomePhone, in.HomePhone)
	setOptional(&p.PersonalPhone, in.PersonalPhone)
	setOptional(&p.Occupation, in.Occupation)
	setOptional(&p.MedicalInsurance, in.MedicalInsurance)
	return nil
}

func validate(p *Patient) error {
	if p.FirstName == "" {
		return apperr.Invalid("first_name", "first_name is required")
	}
	if p.LastName == "" {
		return apperr.Invalid("last_name", "last_name is required")
	}
	if utf8.RuneCountInString(p.FirstName) > 100 || utf8.RuneCountInString(p.LastName) > 100 {
		return apperr.Invalid("name", "names must be at most 100 characters")
	}
	if p.Email == "" {
		return apperr.Invalid("email", "email is required")
	}
	if utf8.RuneCountInString(p.Email) > 120 || !emailPattern.MatchString(p.Email) {
		return apperr.Invalid("email", fmt.Sprintf("%q is not a valid email address", p.Email))
	}
	if p.Age != nil && (*p.Age < 0 || *p.Age > maxAge) {
		return apperr.Invalid("age", fmt.Sprintf("age must be between 0 and %d", maxAge))
	}
	for _, f := range []struct {
		name  string
		value *string
		limit int
	}{
		{"home_address", p.HomeAddress, 500},
		{"home_phone", p.HomePhone, 40},
		{"personal_phone", p.PersonalPhone, 40},
		{"occupation", p.Occupation, 120},
		{"medical_insurance", p.MedicalInsurance, 120},
	} {
		if f.value != nil && utf8.RuneCountInString(*f.value) > f.limit {
			return apperr.Invalid(f.name, fmt.Sprintf("%s must be at most %d characters", f.name, f.limit))
		}
	}
	return nil
}

// splitName puts the first word in first and the remainder in last.
func splitName(name string) (first, last string) {
	fields := strings.Fields(name)
	if len(fields) == 0 {
		return "", ""
	}
	return fields[0], strings.Join(fields[1:], " ")
}

func setOptional(dst **string, src *string) {
	if src == nil {
		return
	}
	v := strings.TrimSpace(*src)
	if v == "" {
		*dst = nil
		return
	}
	*dst = &v
}
