package message

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/medoffice/medoffice/internal/platform/apperr"
)

const maxContentLen = 2000

type SendInput struct {
	RecipientID string `json:"recipient_id"`
	Content     string `json:"content"`
}

// ReadInput is the body of PUT /messages/:id.
type ReadInput struct {
	Read *bool `json:"read"`
}

// ValidateSend checks the body of a new message. The sender is filled in by
// the service from the caller's token.
func ValidateSend(in SendInput) (*Message, error) {
	rid := strings.TrimSpace(in.RecipientID)
	if rid == "" {
		return nil, apperr.Invalid("recipient_id", "recipient_id is required")
	}
	recipient, err := uuid.Parse(rid)
	if err != nil {
		return nil, apperr.Invalid("recipient_id", "recipient_id must be a valid id")
	}
	content := strings.TrimSpace(in.Content)
	if content == "" {
		return nil, apperr.Invalid("content", "content is required")
	}
	if utf8.RuneCountInString(content) > maxContentLen {
		return nil, apperr.Invalid("content", fmt.Sprintf("content must be at most %d characters", maxContentLen))
	}
	return &Message{RecipientID: recipient, Content: content}, nil
}
