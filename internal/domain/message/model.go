package message

import (
	"time"

	"github.com/google/uuid"

	"github.com/medoffice/medoffice/internal/platform/auth"
)

// Message is a note between two staff accounts.
type Message struct {
	ID          uuid.UUID `db:"id" json:"id"`
	SenderID    uuid.UUID `db:"sender_id" json:"sender_id"`
	RecipientID uuid.UUID `db:"recipient_id" json:"recipient_id"`
	Content     string    `db:"content" json:"content"`
	Read        bool      `db:"is_read" json:"read"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

// Participant is the public view of a staff account.
type Participant struct {
	ID       uuid.UUID `db:"id" json:"id"`
	Username string    `db:"username" json:"username"`
	Role     auth.Role `db:"role" json:"role"`
}
