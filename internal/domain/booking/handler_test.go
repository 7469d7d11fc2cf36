package booking

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/turnero/turnero/internal/platform/auth"
)

func authedContext(e *echo.Echo, method, path, body string, userID uuid.UUID) (echo.Context, *httptest.ResponseRecorder) {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	ctx := context.WithValue(req.Context(), auth.UserIDKey, userID.String())
	req = req.WithContext(ctx)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestHandler_Create(t *testing.T) {
	f := newFixture()
	h := NewHandler(f.svc)
	e := echo.New()

	body := `{"doctor_id":"` + f.doctor.String() + `","date":"2026-09-10","time":"10:30"}`
	c, rec := authedContext(e, http.MethodPost, "/appointment", body, f.admin)

	if err := h.Create(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Errorf("expected 201, got %d", rec.Code)
	}

	var out map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	appt, _ := out["appointment"].(map[string]any)
	if appt == nil || appt["available"] != true {
		t.Errorf("expected available slot in response, got %v", out)
	}
}

func TestHandler_Create_BadDate(t *testing.T) {
	f := newFixture()
	h := NewHandler(f.svc)
	e := echo.New()

	body := `{"doctor_id":"` + f.doctor.String() + `","date":"10/09/2026","time":"10:30"}`
	c, _ := authedContext(e, http.MethodPost, "/appointment", body, f.admin)

	err := h.Create(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %v", err)
	}
}

func TestHandler_Reserve(t *testing.T) {
	f := newFixture()
	h := NewHandler(f.svc)
	e := echo.New()
	a := f.slot(t)

	c, rec := authedContext(e, http.MethodPost, "/appointment/"+a.ID.String()+"/reserve", "", f.patient)
	c.SetParamNames("aid")
	c.SetParamValues(a.ID.String())

	if err := h.Reserve(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
}

func TestHandler_Reserve_BodyPatientID(t *testing.T) {
	f := newFixture()
	h := NewHandler(f.svc)
	e := echo.New()
	a := f.slot(t)

	// A client sending the documented patientID body field reserves for that
	// patient, not the token subject.
	body := `{"patientID":"` + f.other.String() + `"}`
	c, rec := authedContext(e, http.MethodPost, "/appointment/"+a.ID.String()+"/reserve", body, f.patient)
	c.SetParamNames("aid")
	c.SetParamValues(a.ID.String())

	if err := h.Reserve(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
	stored := f.repo.appts[a.ID]
	if stored.PatientID == nil || *stored.PatientID != f.other {
		t.Error("slot must be reserved for the patient named in the body")
	}
}

func TestHandler_Cancel_BodyPatientID(t *testing.T) {
	f := newFixture()
	h := NewHandler(f.svc)
	e := echo.New()
	a := f.slot(t)
	_, _ = f.svc.Reserve(context.Background(), a.ID, f.other)

	body := `{"patientID":"` + f.other.String() + `"}`
	c, rec := authedContext(e, http.MethodPost, "/appointment/"+a.ID.String()+"/cancel", body, f.patient)
	c.SetParamNames("aid")
	c.SetParamValues(a.ID.String())

	if err := h.Cancel(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
	stored := f.repo.appts[a.ID]
	if !stored.Available || len(stored.CancellationHistory) != 1 {
		t.Error("slot must be released with the cancellation on record")
	}
	if stored.CancellationHistory[0].CanceledByPatient != f.other {
		t.Error("history must record the patient named in the body")
	}
}

func TestHandler_Reserve_Conflict(t *testing.T) {
	f := newFixture()
	h := NewHandler(f.svc)
	e := echo.New()
	a := f.slot(t)
	_, _ = f.svc.Reserve(context.Background(), a.ID, f.patient)

	c, _ := authedContext(e, http.MethodPost, "/appointment/"+a.ID.String()+"/reserve", "", f.other)
	c.SetParamNames("aid")
	c.SetParamValues(a.ID.String())

	err := h.Reserve(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusConflict {
		t.Errorf("expected 409, got %v", err)
	}
}

func TestHandler_Cancel_NotOwner(t *testing.T) {
	f := newFixture()
	h := NewHandler(f.svc)
	e := echo.New()
	a := f.slot(t)
	_, _ = f.svc.Reserve(context.Background(), a.ID, f.patient)

	c, _ := authedContext(e, http.MethodPost, "/appointment/"+a.ID.String()+"/cancel", "", f.other)
	c.SetParamNames("aid")
	c.SetParamValues(a.ID.String())

	err := h.Cancel(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %v", err)
	}
}

func TestHandler_Delete_ReservedConflict(t *testing.T) {
	f := newFixture()
	h := NewHandler(f.svc)
	e := echo.New()
	a := f.slot(t)
	_, _ = f.svc.Reserve(context.Background(), a.ID, f.patient)

	c, _ := authedContext(e, http.MethodDelete, "/appointment/"+a.ID.String(), "", f.admin)
	c.SetParamNames("aid")
	c.SetParamValues(a.ID.String())

	err := h.Delete(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusConflict {
		t.Errorf("expected 409, got %v", err)
	}
}

func TestHandler_List(t *testing.T) {
	f := newFixture()
	h := NewHandler(f.svc)
	e := echo.New()
	_ = f.slot(t)

	req := httptest.NewRequest(http.MethodGet, "/appointments", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.List(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var out map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	paged, _ := out["appointments"].(map[string]any)
	if paged == nil || paged["total"] != float64(1) {
		t.Errorf("expected paged appointments with total 1, got %v", out["appointments"])
	}
}

func TestHandler_CancellationHistory_Empty(t *testing.T) {
	f := newFixture()
	h := NewHandler(f.svc)
	e := echo.New()

	c, _ := authedContext(e, http.MethodGet, "/appointment/cancellation-history/"+f.patient.String(), "", f.patient)
	c.SetParamNames("pid")
	c.SetParamValues(f.patient.String())

	err := h.CancellationHistory(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusNotFound {
		t.Errorf("expected 404 for empty history, got %v", err)
	}
}
