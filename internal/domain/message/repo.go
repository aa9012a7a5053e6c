package message

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, m *Message) error
	GetByID(ctx context.Context, id uuid.UUID) (*Message, error)
	// Conversation returns the messages exchanged between a and b in
	// either direction, oldest first.
	Conversation(ctx context.Context, a, b uuid.UUID) ([]*Message, error)
	SetRead(ctx context.Context, id uuid.UUID, read bool) error
}

// Directory resolves staff accounts. Lookups of unknown accounts report
// apperr.ErrNotFound.
type Directory interface {
	ByUsername(ctx context.Context, username string) (*Participant, error)
	ByID(ctx context.Context, id uuid.UUID) (*Participant, error)
	All(ctx context.Context) ([]*Participant, error)
}
