package message

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/medoffice/medoffice/internal/platform/apperr"
	"github.com/medoffice/medoffice/internal/platform/db"
)

type Service struct {
	messages Repository
	users    Directory
	tx       db.TxManager
	logger   zerolog.Logger
}

func NewService(messages Repository, users Directory, tx db.TxManager, logger zerolog.Logger) *Service {
	return &Service{messages: messages, users: users, tx: tx, logger: logger}
}

// caller resolves the authenticated username. An account deleted after its
// token was issued no longer counts as authenticated.
func (s *Service) caller(ctx context.Context, username string) (*Participant, error) {
	if username == "" {
		return nil, apperr.Unauthenticated("missing identity")
	}
	p, err := s.users.ByUsername(ctx, username)
	if errors.Is(err, apperr.ErrNotFound) {
		return nil, apperr.Unauthenticated("unknown user")
	}
	return p, err
}

// SendMessage stores a message from the calling user. Any sender named in
// the body is ignored.
func (s *Service) SendMessage(ctx context.Context, username string, in SendInput) (*Message, error) {
	m, err := ValidateSend(in)
	if err != nil {
		return nil, err
	}
	err = s.tx.InTx(ctx, func(ctx context.Context) error {
		sender, err := s.caller(ctx, username)
		if err != nil {
			return err
		}
		if sender.ID == m.RecipientID {
			return apperr.Invalid("recipient_id", "cannot send a message to yourself")
		}
		if _, err := s.users.ByID(ctx, m.RecipientID); err != nil {
			if errors.Is(err, apperr.ErrNotFound) {
				return apperr.NotFound("recipient")
			}
			return err
		}
		m.SenderID = sender.ID
		return s.messages.Create(ctx, m)
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info().
		Str("message_id", m.ID.String()).
		Str("sender_id", m.SenderID.String()).
		Str("recipient_id", m.RecipientID.String()).
		Msg("message sent")
	return m, nil
}

// Conversation returns the thread between the caller and partnerID, oldest
// first.
func (s *Service) Conversation(ctx context.Context, username string, partnerID uuid.UUID) ([]*Message, error) {
	me, err := s.caller(ctx, username)
	if err != nil {
		return nil, err
	}
	if _, err := s.users.ByID(ctx, partnerID); err != nil {
		return nil, err
	}
	return s.messages.Conversation(ctx, me.ID, partnerID)
}

// MarkRead sets the read flag. Only the recipient may change it; messages
// the caller is not part of are reported as missing.
func (s *Service) MarkRead(ctx context.Context, username string, id uuid.UUID, in ReadInput) (*Message, error) {
	if in.Read == nil {
		return nil, apperr.Invalid("read", "read is required")
	}
	var updated *Message
	err := s.tx.InTx(ctx, func(ctx context.Context) error {
		me, err := s.caller(ctx, username)
		if err != nil {
			return err
		}
		m, err := s.messages.GetByID(ctx, id)
		if err != nil {
			return err
		}
		switch me.ID {
		case m.RecipientID:
		case m.SenderID:
			return apperr.Forbidden("only the recipient may change the read state")
		default:
			return apperr.NotFound("message")
		}
		if err := s.messages.SetRead(ctx, id, *in.Read); err != nil {
			return err
		}
		m.Read = *in.Read
		updated = m
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// ConversationPartners lists every other staff account.
func (s *Service) ConversationPartners(ctx context.Context, username string) ([]*Participant, error) {
	me, err := s.caller(ctx, username)
	if err != nil {
		return nil, err
	}
	all, err := s.users.All(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]*Participant, 0, len(all))
	for _, p := range all {
		if p.ID != me.ID {
			out = append(out, p)
		}
	}
	return out, nil
}
