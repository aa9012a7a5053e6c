package auth

import (
	"context"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/medoffice/medoffice/internal/platform/apperr"
)

type contextKey string

const (
	UserIDKey   contextKey = "user_id"
	UserRoleKey contextKey = "user_role"
)

// Identity is the authenticated caller.
type Identity struct {
	Username string `json:"username"`
	Role     Role   `json:"role,omitempty"`
}

// Authenticate validates the bearer token of the given kind and stores the
// caller identity on the request context.
func Authenticate(tokens *TokenService, kind TokenKind) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw, err := bearerToken(c.Request().Header.Get(echo.HeaderAuthorization))
			if err != nil {
				return err
			}

			claims, err := tokens.Parse(raw, kind)
			if err != nil {
				return err
			}

			ctx := WithIdentity(c.Request().Context(), Identity{Username: claims.Subject, Role: claims.Role})
			c.SetRequest(c.Request().WithContext(ctx))
			c.Set("user_id", claims.Subject)

			return next(c)
		}
	}
}

func bearerToken(header string) (string, error) {
	if header == "" {
		return "", apperr.Unauthenticated("missing authorization header")
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || strings.TrimSpace(parts[1]) == "" {
		return "", apperr.Unauthenticated("invalid authorization format")
	}
	return strings.TrimSpace(parts[1]), nil
}

// WithIdentity returns ctx carrying id.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	ctx = context.WithValue(ctx, UserIDKey, id.Username)
	return context.WithValue(ctx, UserRoleKey, id.Role)
}

func IdentityFromContext(ctx context.Context) (Identity, bool) {
	uid, _ := ctx.Value(UserIDKey).(string)
	if uid == "" {
		return Identity{}, false
	}
	role, _ := ctx.Value(UserRoleKey).(Role)
	return Identity{Username: uid, Role: role}, true
}

func UserIDFromContext(ctx context.Context) string {
	uid, _ := ctx.Value(UserIDKey).(string)
	return uid
}
