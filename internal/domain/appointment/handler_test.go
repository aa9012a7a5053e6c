package appointment

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/medoffice/medoffice/internal/platform/apperr"
	"github.com/medoffice/medoffice/internal/platform/auth"
)

var testTokens = auth.NewTokenService(auth.TokenConfig{
	Secret: []byte("appointment-test-secret-0123456789ab"),
	Issuer: "medoffice-test",
})

func newTestServer(t *testing.T) (*echo.Echo, knownPatients, string) {
	t.Helper()
	svc, _, patients := newTestService()
	e := echo.New()
	e.HTTPErrorHandler = apperr.HTTPErrorHandler(zerolog.Nop())
	api := e.Group("/api", auth.Authenticate(testTokens, auth.AccessToken))
	NewHandler(svc, auth.DefaultPolicy()).RegisterRoutes(api)

	tok, err := testTokens.IssueAccess("sam", auth.RoleSecretary)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	return e, patients, tok
}

func doRequest(e *echo.Echo, method, path, body, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestHandler_AppointmentLifecycle(t *testing.T) {
	e, patients, tok := newTestServer(t)
	pid := uuid.New()
	patients[pid] = true

	body := `{"patient_id":"` + pid.String() + `","appointment_date":"2025-03-14","appointment_time":"09:30","doctor":"Dr. House"}`
	rec := doRequest(e, http.MethodPost, "/api/appointments", body, tok)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), `"appointment_time":"09:30:00"`) {
		t.Errorf("expected normalized time, got %s", rec.Body.String())
	}
	var a Appointment
	if err := json.Unmarshal(rec.Body.Bytes(), &a); err != nil {
		t.Fatalf("decode: %v", err)
	}

	rec = doRequest(e, http.MethodGet, "/api/patients/"+pid.String()+"/appointments", "", tok)
	var list []Appointment
	if err := json.Unmarshal(rec.Body.Bytes(), &list); err != nil || len(list) != 1 {
		t.Errorf("expected one appointment for patient, got %s", rec.Body.String())
	}

	rec = doRequest(e, http.MethodPut, "/api/appointments/"+a.ID.String(), `{"appointment_date":"2025-03-15"}`, tok)
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"appointment_date":"2025-03-15"`) {
		t.Errorf("unexpected update response %d %s", rec.Code, rec.Body.String())
	}

	if rec = doRequest(e, http.MethodDelete, "/api/appointments/"+a.ID.String(), "", tok); rec.Code != http.StatusOK {
		t.Errorf("expected 200 on delete, got %d", rec.Code)
	}
	if rec = doRequest(e, http.MethodGet, "/api/appointments/"+a.ID.String(), "", tok); rec.Code != http.StatusNotFound {
		t.Errorf("expected 404 after delete, got %d", rec.Code)
	}
}

func TestHandler_CreateAppointment_Errors(t *testing.T) {
	e, _, tok := newTestServer(t)

	rec := doRequest(e, http.MethodPost, "/api/appointments", `{"appointment_date":"2025-03-14"}`, tok)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("missing fields: expected 400, got %d", rec.Code)
	}

	body := `{"patient_id":"` + uuid.NewString() + `","appointment_date":"2025-03-14","appointment_time":"09:30","doctor":"Dr. House"}`
	rec = doRequest(e, http.MethodPost, "/api/appointments", body, tok)
	if rec.Code != http.StatusNotFound {
		t.Errorf("unknown patient: expected 404, got %d", rec.Code)
	}
}

func TestHandler_ListAppointmentsEmpty(t *testing.T) {
	e, _, tok := newTestServer(t)
	rec := doRequest(e, http.MethodGet, "/api/appointments", "", tok)
	if rec.Code != http.StatusOK || strings.TrimSpace(rec.Body.String()) != "[]" {
		t.Errorf("expected empty array, got %d %s", rec.Code, rec.Body.String())
	}
}
