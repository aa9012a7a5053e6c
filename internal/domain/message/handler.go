package message

import (
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/medoffice/medoffice/internal/platform/apperr"
	"github.com/medoffice/medoffice/internal/platform/auth"
)

type Handler struct {
	svc    *Service
	policy auth.Policy
}

func NewHandler(svc *Service, policy auth.Policy) *Handler {
	return &Handler{svc: svc, policy: policy}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	read := auth.Authorize(h.policy, auth.OpMessageRead)
	api.GET("/messages", h.Conversation, read)
	api.POST("/messages", h.SendMessage, auth.Authorize(h.policy, auth.OpMessageSend))
	api.PUT("/messages/:id", h.MarkRead, read)
	api.GET("/users/conversation-partners", h.ConversationPartners, read)
}

func (h *Handler) Conversation(c echo.Context) error {
	raw := strings.TrimSpace(c.QueryParam("user_id"))
	if raw == "" {
		return apperr.Invalid("user_id", "user_id is required")
	}
	partner, err := uuid.Parse(raw)
	if err != nil {
		return apperr.Invalid("user_id", "invalid user_id")
	}
	ctx := c.Request().Context()
	items, err := h.svc.Conversation(ctx, auth.UserIDFromContext(ctx), partner)
	if err != nil {
		return err
	}
	if items == nil {
		items = []*Message{}
	}
	return c.JSON(http.StatusOK, items)
}

func (h *Handler) SendMessage(c echo.Context) error {
	var in SendInput
	if err := apperr.Bind(c, &in); err != nil {
		return err
	}
	ctx := c.Request().Context()
	m, err := h.svc.SendMessage(ctx, auth.UserIDFromContext(ctx), in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, m)
}

func (h *Handler) MarkRead(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return apperr.Invalid("id", "invalid id")
	}
	var in ReadInput
	if err := apperr.Bind(c, &in); err != nil {
		return err
	}
	ctx := c.Request().Context()
	m, err := h.svc.MarkRead(ctx, auth.UserIDFromContext(ctx), id, in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "message updated successfully",
		"data":    m,
	})
}

func (h *Handler) ConversationPartners(c echo.Context) error {
	ctx := c.Request().Context()
	items, err := h.svc.ConversationPartners(ctx, auth.UserIDFromContext(ctx))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, items)
}
