package account

import (
	"strings"

	"github.com/medoffice/medoffice/internal/platform/apperr"
	"github.com/medoffice/medoffice/internal/platform/auth"
)

type RegisterInput struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

type LoginInput struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Registration is a validated RegisterInput.
type Registration struct {
	Username string
	Password string
	Role     auth.Role
}

// ValidateRegistration trims the username and defaults the role. The
// password is kept verbatim; it only has to contain a non-space character.
func ValidateRegistration(in RegisterInput) (Registration, error) {
	username := strings.TrimSpace(in.Username)
	if username == "" {
		return Registration{}, apperr.Invalid("username", "username is required")
	}
	if len(username) > 80 {
		return Registration{}, apperr.Invalid("username", "username must be at most 80 characters")
	}
	if strings.TrimSpace(in.Password) == "" {
		return Registration{}, apperr.Invalid("password", "password is required")
	}
	if len(in.Password) > auth.MaxPasswordBytes {
		return Registration{}, apperr.Invalid("password", "password must be at most 72 bytes")
	}
	role, err := auth.ParseRole(strings.TrimSpace(in.Role))
	if err != nil {
		return Registration{}, err
	}
	return Registration{Username: username, Password: in.Password, Role: role}, nil
}

func ValidateLogin(in LoginInput) (LoginInput, error) {
	in.Username = strings.TrimSpace(in.Username)
	if in.Username == "" || in.Password == "" {
		return LoginInput{}, apperr.Invalid("", "username and password are required")
	}
	return in, nil
}
