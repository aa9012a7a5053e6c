package account

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/medoffice/medoffice/internal/platform/apperr"
	"github.com/medoffice/medoffice/internal/platform/auth"
	"github.com/medoffice/medoffice/internal/platform/db"
)

var errInvalidCredentials = apperr.Unauthenticated("invalid username or password")

type Service struct {
	users      UserRepository
	tx         db.TxManager
	tokens     *auth.TokenService
	bcryptCost int
	logger     zerolog.Logger

	dummyOnce sync.Once
	dummyHash string
}

func NewService(users UserRepository, tx db.TxManager, tokens *auth.TokenService, bcryptCost int, logger zerolog.Logger) *Service {
	return &Service{
		users:      users,
		tx:         tx,
		tokens:     tokens,
		bcryptCost: bcryptCost,
		logger:     logger,
	}
}

// Register creates a user. The hash is computed before the transaction so
// the row lock window does not include bcrypt.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*User, error) {
	reg, err := ValidateRegistration(in)
	if err != nil {
		return nil, err
	}

	u := &User{Username: reg.Username, Role: reg.Role}
	if err := u.SetPassword(reg.Password, s.bcryptCost); err != nil {
		return nil, err
	}

	err = s.tx.InTx(ctx, func(ctx context.Context) error {
		_, err := s.users.GetByUsername(ctx, u.Username)
		switch {
		case err == nil:
			return apperr.Conflict("username already exists")
		case !errors.Is(err, apperr.ErrNotFound):
			return err
		}
		return s.users.Create(ctx, u)
	})
	if err != nil {
		return nil, fmt.Errorf("register %q: %w", u.Username, err)
	}

	s.logger.Info().Str("username", u.Username).Str("role", string(u.Role)).Msg("user registered")
	return u, nil
}

// Login verifies credentials and issues an access/refresh pair. Unknown
// usernames still pay for one bcrypt comparison.
func (s *Service) Login(ctx context.Context, in LoginInput) (*auth.TokenPair, *User, error) {
	in, err := ValidateLogin(in)
	if err != nil {
		return nil, nil, err
	}

	u, err := s.users.GetByUsername(ctx, in.Username)
	if errors.Is(err, apperr.ErrNotFound) {
		auth.CheckPassword(s.placeholderHash(), in.Password)
		s.logger.Warn().Str("username", in.Username).Msg("login failed: unknown user")
		return nil, nil, errInvalidCredentials
	}
	if err != nil {
		return nil, nil, fmt.Errorf("login: %w", err)
	}

	if !u.CheckPassword(in.Password) {
		s.logger.Warn().Str("username", in.Username).Msg("login failed: bad password")
		return nil, nil, errInvalidCredentials
	}

	pair, err := s.tokens.IssuePair(u.Username, u.Role)
	if err != nil {
		return nil, nil, fmt.Errorf("login: %w", err)
	}
	return pair, u, nil
}

// Refresh mints a new access token for the subject of a valid refresh
// token, using the role currently stored for that user.
func (s *Service) Refresh(ctx context.Context, username string) (string, error) {
	u, err := s.users.GetByUsername(ctx, username)
	if errors.Is(err, apperr.ErrNotFound) {
		return "", apperr.Unauthenticated("user no longer exists")
	}
	if err != nil {
		return "", fmt.Errorf("refresh: %w", err)
	}
	return s.tokens.IssueAccess(u.Username, u.Role)
}

func (s *Service) placeholderHash() string {
	s.dummyOnce.Do(func() {
		s.dummyHash, _ = auth.HashPassword("placeholder-password", s.bcryptCost)
	})
	return s.dummyHash
}
