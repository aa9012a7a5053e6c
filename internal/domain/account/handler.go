package account

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/medoffice/medoffice/internal/platform/apperr"
	"github.com/medoffice/medoffice/internal/platform/auth"
)

type Handler struct {
	svc    *Service
	tokens *auth.TokenService
}

func NewHandler(svc *Service, tokens *auth.TokenService) *Handler {
	return &Handler{svc: svc, tokens: tokens}
}

// RegisterRoutes mounts the public auth endpoints on api. /refresh takes a
// refresh token, /me an access token. throttle wraps the two endpoints that
// accept a password.
func (h *Handler) RegisterRoutes(api *echo.Group, throttle ...echo.MiddlewareFunc) {
	api.POST("/register", h.Register, throttle...)
	api.POST("/login", h.Login, throttle...)
	api.POST("/refresh", h.Refresh, auth.Authenticate(h.tokens, auth.RefreshToken))
	api.GET("/me", h.Me, auth.Authenticate(h.tokens, auth.AccessToken))
}

func (h *Handler) Register(c echo.Context) error {
	var in RegisterInput
	if err := apperr.Bind(c, &in); err != nil {
		return err
	}
	u, err := h.svc.Register(c.Request().Context(), in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, map[string]interface{}{
		"message": "user registered successfully",
		"user":    u,
	})
}

type loginResponse struct {
	*auth.TokenPair
	Role auth.Role `json:"role"`
}

func (h *Handler) Login(c echo.Context) error {
	var in LoginInput
	if err := apperr.Bind(c, &in); err != nil {
		return err
	}
	pair, u, err := h.svc.Login(c.Request().Context(), in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, loginResponse{TokenPair: pair, Role: u.Role})
}

func (h *Handler) Refresh(c echo.Context) error {
	username := auth.UserIDFromContext(c.Request().Context())
	access, err := h.svc.Refresh(c.Request().Context(), username)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"access_token": access,
		"token_type":   "Bearer",
		"expires_in":   int(h.tokens.AccessTTL().Seconds()),
	})
}

func (h *Handler) Me(c echo.Context) error {
	id, ok := auth.IdentityFromContext(c.Request().Context())
	if !ok {
		return apperr.Unauthenticated("missing identity")
	}
	return c.JSON(http.StatusOK, id)
}
