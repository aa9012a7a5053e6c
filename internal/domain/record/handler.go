package record

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
	read := auth.Authorize(h.policy, auth.OpRecordRead)
	api.POST("/patients/:id/records", h.CreateRecord, auth.Authorize(h.policy, auth.OpRecordCreate))
	api.GET("/patients/:id/records", h.ListPatientRecords, read)
	api.GET("/records", h.ListRecords, read)
	api.GET("/records/:id", h.GetRecord, read)
	api.PUT("/records/:id", h.UpdateRecord, auth.Authorize(h.policy, auth.OpRecordUpdate))
	api.DELETE("/records/:id", h.DeleteRecord, auth.Authorize(h.policy, auth.OpRecordDelete))
}

func (h *Handler) CreateRecord(c echo.Context) error {
	patientID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return apperr.Invalid("id", "invalid id")
	}
	var in Input
	if err := apperr.Bind(c, &in); err != nil {
		return err
	}
	ctx := c.Request().Context()
	rec, err := h.svc.CreateRecord(ctx, patientID, auth.UserIDFromContext(ctx), in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, rec)
}

func (h *Handler) ListRecords(c echo.Context) error {
	items, err := h.svc.ListRecords(c.Request().Context())
	if err != nil {
		return err
	}
	if items == nil {
		items = []*PatientRecord{}
	}
	return c.JSON(http.StatusOK, items)
}

func (h *Handler) ListPatientRecords(c echo.Context) error {
	patientID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return apperr.Invalid("id", "invalid id")
	}
	items, err := h.svc.ListPatientRecords(c.Request().Context(), patientID)
	if err != nil {
		return err
	}
	if items == nil {
		items = []*PatientRecord{}
	}
	return c.JSON(http.StatusOK, items)
}

func (h *Handler) GetRecord(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return apperr.Invalid("id", "invalid id")
	}
	rec, err := h.svc.GetRecord(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, rec)
}

func (h *Handler) UpdateRecord(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return apperr.Invalid("id", "invalid id")
	}
	var in Input
	if err := apperr.Bind(c, &in); err != nil {
		return err
	}
	ctx := c.Request().Context()
	rec, err := h.svc.UpdateRecord(ctx, id, auth.UserIDFromContext(ctx), in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "record updated successfully",
		"record":  rec,
	})
}

func (h *Handler) DeleteRecord(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return apperr.Invalid("id", "invalid id")
	}
	if err := h.svc.DeleteRecord(c.Request().Context(), id); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "record deleted successfully"})
}
