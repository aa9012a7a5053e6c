package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/medoffice/medoffice/internal/platform/apperr"
)

// TokenKind distinguishes access tokens from refresh tokens.
type TokenKind string

const (
	AccessToken  TokenKind = "access"
	RefreshToken TokenKind = "refresh"
)

const (
	DefaultAccessTTL  = time.Hour
	DefaultRefreshTTL = 7 * 24 * time.Hour
)

// Claims is the JWT payload. Role is only present on access tokens.
type Claims struct {
	jwt.RegisteredClaims
	Kind TokenKind `json:"typ"`
	Role Role      `json:"role,omitempty"`
}

type TokenConfig struct {
	Secret     []byte
	Issuer     string
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

// TokenPair is returned on login.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int    `json:"expires_in"`
}

// TokenService signs and verifies HS256 tokens. It keeps no server-side
// state, so issued tokens stay valid until they expire.
type TokenService struct {
	cfg TokenConfig
	now func() time.Time
}

func NewTokenService(cfg TokenConfig) *TokenService {
	if cfg.AccessTTL <= 0 {
		cfg.AccessTTL = DefaultAccessTTL
	}
	if cfg.RefreshTTL <= 0 {
		cfg.RefreshTTL = DefaultRefreshTTL
	}
	return &TokenService{cfg: cfg, now: time.Now}
}

// WithClock replaces the time source used for issuing and verifying.
func (s *TokenService) WithClock(now func() time.Time) *TokenService {
	s.now = now
	return s
}

// AccessTTL is the lifetime of access tokens.
func (s *TokenService) AccessTTL() time.Duration { return s.cfg.AccessTTL }

func (s *TokenService) IssueAccess(username string, role Role) (string, error) {
	if !role.Valid() {
		return "", fmt.Errorf("issue access token: unknown role %q", role)
	}
	return s.sign(username, AccessToken, role, s.cfg.AccessTTL)
}

func (s *TokenService) IssueRefresh(username string) (string, error) {
	return s.sign(username, RefreshToken, "", s.cfg.RefreshTTL)
}

func (s *TokenService) IssuePair(username string, role Role) (*TokenPair, error) {
	access, err := s.IssueAccess(username, role)
	if err != nil {
		return nil, err
	}
	refresh, err := s.IssueRefresh(username)
	if err != nil {
		return nil, err
	}
	return &TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    "Bearer",
		ExpiresIn:    int(s.cfg.AccessTTL.Seconds()),
	}, nil
}

func (s *TokenService) sign(subject string, kind TokenKind, role Role, ttl time.Duration) (string, error) {
	if subject == "" {
		return "", errors.New("issue token: empty subject")
	}
	now := s.now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   subject,
			Issuer:    s.cfg.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		Kind: kind,
		Role: role,
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.cfg.Secret)
	if err != nil {
		return "", fmt.Errorf("sign %s token: %w", kind, err)
	}
	return signed, nil
}

// Parse verifies signature, expiry, issuer and kind. Every failure wraps
// apperr.ErrUnauthenticated.
func (s *TokenService) Parse(raw string, want TokenKind) (*Claims, error) {
	claims := &Claims{}
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	}
	if s.cfg.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(s.cfg.Issuer))
	}

	token, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		return s.cfg.Secret, nil
	}, opts...)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, apperr.Unauthenticated("token expired")
		}
		return nil, apperr.Unauthenticated("invalid token")
	}
	if !token.Valid {
		return nil, apperr.Unauthenticated("invalid token")
	}
	if claims.Kind != want {
		return nil, apperr.Unauthenticated(fmt.Sprintf("%s token required", want))
	}
	if claims.Subject == "" {
		return nil, apperr.Unauthenticated("token has no subject")
	}
	if want == AccessToken && !claims.Role.Valid() {
		return nil, apperr.Unauthenticated("token has no valid role")
	}
	return claims, nil
}
