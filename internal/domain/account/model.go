package account

import (
	"time"

	"github.com/google/uuid"

	"github.com/medoffice/medoffice/internal/platform/auth"
)

// User maps to the app_user table.
type User struct {
	ID           uuid.UUID `db:"id" json:"id"`
	Username     string    `db:"username" json:"username"`
	PasswordHash string    `db:"password_hash" json:"-"`
	Role         auth.Role `db:"role" json:"role"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

// SetPassword replaces the stored hash with a fresh salted hash of plain.
func (u *User) SetPassword(plain string, cost int) error {
	hash, err := auth.HashPassword(plain, cost)
	if err != nil {
		return err
	}
	u.PasswordHash = hash
	return nil
}

// CheckPassword is false when no hash has been set.
func (u *User) CheckPassword(plain string) bool {
	return auth.CheckPassword(u.PasswordHash, plain)
}

// Identity is the token-facing view of the user.
func (u *User) Identity() auth.Identity {
	return auth.Identity{Username: u.Username, Role: u.Role}
}
