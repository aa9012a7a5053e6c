package appointment

import (
	"net/http"

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
	read := auth.Authorize(h.policy, auth.OpAppointmentRead)
	api.POST("/appointments", h.CreateAppointment, auth.Authorize(h.policy, auth.OpAppointmentCreate))
	api.GET("/appointments", h.ListAppointments, read)
	api.GET("/appointments/:id", h.GetAppointment, read)
	api.PUT("/appointments/:id", h.UpdateAppointment, auth.Authorize(h.policy, auth.OpAppointmentUpdate))
	api.DELETE("/appointments/:id", h.DeleteAppointment, auth.Authorize(h.policy, auth.OpAppointmentDelete))
	api.GET("/patients/:id/appointments", h.ListPatientAppointments, read)
}

func (h *Handler) CreateAppointment(c echo.Context) error {
	var in CreateInput
	if err := apperr.Bind(c, &in); err != nil {
		return err
	}
	a, err := h.svc.CreateAppointment(c.Request().Context(), in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, a)
}

func (h *Handler) ListAppointments(c echo.Context) error {
	items, err := h.svc.ListAppointments(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, nonNil(items))
}

func (h *Handler) ListPatientAppointments(c echo.Context) error {
	patientID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return apperr.Invalid("id", "invalid id")
	}
	items, err := h.svc.ListPatientAppointments(c.Request().Context(), patientID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, nonNil(items))
}

func (h *Handler) GetAppointment(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return apperr.Invalid("id", "invalid id")
	}
	a, err := h.svc.GetAppointment(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, a)
}

func (h *Handler) UpdateAppointment(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return apperr.Invalid("id", "invalid id")
	}
	var in UpdateInput
	if err := apperr.Bind(c, &in); err != nil {
		return err
	}
	a, err := h.svc.UpdateAppointment(c.Request().Context(), id, in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"message":     "appointment updated successfully",
		"appointment": a,
	})
}

func (h *Handler) DeleteAppointment(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return apperr.Invalid("id", "invalid id")
	}
	if err := h.svc.DeleteAppointment(c.Request().Context(), id); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "appointment deleted successfully"})
}

func nonNil(items []*Appointment) []*Appointment {
	if items == nil {
		return []*Appointment{}
	}
	return items
}
