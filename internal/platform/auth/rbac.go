package auth

import (
	"fmt"

	"github.com/labstack/echo/v4"

	"github.com/medoffice/medoffice/internal/platform/apperr"
)

// Role is the staff role carried in access tokens.
type Role string

const (
	RoleDoctor    Role = "doctor"
	RoleSecretary Role = "secretary"
)

// DefaultRole is assigned when registration does not name one.
const DefaultRole = RoleSecretary

func (r Role) Valid() bool {
	return r == RoleDoctor || r == RoleSecretary
}

// ParseRole accepts the empty string as DefaultRole.
func ParseRole(s string) (Role, error) {
	if s == "" {
		return DefaultRole, nil
	}
	r := Role(s)
	if !r.Valid() {
		return "", apperr.Invalid("role", fmt.Sprintf("role must be %q or %q", RoleDoctor, RoleSecretary))
	}
	return r, nil
}

// Operation names a protected action as "<entity>:<verb>".
type Operation string

const (
	OpPatientCreate Operation = "patient:create"
	OpPatientRead   Operation = "patient:read"
	OpPatientUpdate Operation = "patient:update"
	OpPatientDelete Operation = "patient:delete"

	OpAppointmentCreate Operation = "appointment:create"
	OpAppointmentRead   Operation = "appointment:read"
	OpAppointmentUpdate Operation = "appointment:update"
	OpAppointmentDelete Operation = "appointment:delete"

	OpRecordCreate Operation = "record:create"
	OpRecordRead   Operation = "record:read"
	OpRecordUpdate Operation = "record:update"
	OpRecordDelete Operation = "record:delete"

	OpMessageSend Operation = "message:send"
	OpMessageRead Operation = "message:read"
)

// Policy is the role x operation table. Missing entries deny.
type Policy map[Operation]map[Role]bool

// DefaultPolicy lets every staff role do everything except edit patient
// demographics, which is reserved to doctors.
func DefaultPolicy() Policy {
	all := []Role{RoleDoctor, RoleSecretary}
	p := Policy{}
	for _, op := range []Operation{
		OpPatientCreate, OpPatientRead, OpPatientDelete,
		OpAppointmentCreate, OpAppointmentRead, OpAppointmentUpdate, OpAppointmentDelete,
		OpRecordCreate, OpRecordRead, OpRecordUpdate, OpRecordDelete,
		OpMessageSend, OpMessageRead,
	} {
		p.Allow(op, all...)
	}
	p.Allow(OpPatientUpdate, RoleDoctor)
	return p
}

// Allow grants op to roles.
func (p Policy) Allow(op Operation, roles ...Role) Policy {
	if p[op] == nil {
		p[op] = make(map[Role]bool, len(roles))
	}
	for _, r := range roles {
		p[op][r] = true
	}
	return p
}

func (p Policy) CanPerform(role Role, op Operation) bool {
	return p[op][role]
}

// Authorize returns middleware that rejects the request with 403 unless the
// authenticated role may perform op. It must run after Authenticate.
func Authorize(p Policy, op Operation) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id, ok := IdentityFromContext(c.Request().Context())
			if !ok {
				return apperr.Unauthenticated("missing identity")
			}
			if !p.CanPerform(id.Role, op) {
				return apperr.Forbidden(fmt.Sprintf("role %q may not perform %s", id.Role, op))
			}
			return next(c)
		}
	}
}
