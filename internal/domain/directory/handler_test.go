package directory

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

func newTestHandler() (*Handler, *Service, *echo.Echo) {
	svc := NewService(newMockRepo())
	h := NewHandler(svc, nil)
	return h, svc, echo.New()
}

func TestHandler_CreateSpecialty(t *testing.T) {
	h, _, e := newTestHandler()

	req := httptest.NewRequest(http.MethodPost, "/specialties", strings.NewReader(`{"name":"Cardiology"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.CreateSpecialty(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Errorf("expected 201, got %d", rec.Code)
	}
}

func TestHandler_CreateSpecialty_Duplicate(t *testing.T) {
	h, svc, e := newTestHandler()
	_, _ = svc.CreateSpecialty(context.Background(), "Cardiology")

	req := httptest.NewRequest(http.MethodPost, "/specialties", strings.NewReader(`{"name":"Cardiology"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := h.CreateSpecialty(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusConflict {
		t.Errorf("expected 409, got %v", err)
	}
}

func TestHandler_AddDoctor(t *testing.T) {
	h, svc, e := newTestHandler()
	sp, _ := svc.CreateSpecialty(context.Background(), "Cardiology")

	body := `{"name":"Greg House","specialty_id":"` + sp.ID.String() + `"}`
	req := httptest.NewRequest(http.MethodPost, "/doctor", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.AddDoctor(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Errorf("expected 201, got %d", rec.Code)
	}
}

func TestHandler_AddDoctor_UnknownSpecialty(t *testing.T) {
	h, _, e := newTestHandler()

	body := `{"name":"Greg House","specialty_id":"` + uuid.New().String() + `"}`
	req := httptest.NewRequest(http.MethodPost, "/doctor", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := h.AddDoctor(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %v", err)
	}
}

func TestHandler_GetDoctor_PopulatesAppointments(t *testing.T) {
	svc := NewService(newMockRepo())
	sp, _ := svc.CreateSpecialty(context.Background(), "Cardiology")
	d, _ := svc.AddDoctor(context.Background(), "Greg House", sp.ID)

	h := NewHandler(svc, func(_ context.Context, doctorID uuid.UUID) (interface{}, error) {
		if doctorID != d.ID {
			t.Errorf("unexpected doctor id %s", doctorID)
		}
		return []string{"slot-1"}, nil
	})

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(d.ID.String())

	if err := h.GetDoctor(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var out map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if out["appointments"] == nil {
		t.Error("expected appointments in response")
	}
	doctor, _ := out["doctor"].(map[string]any)
	if doctor == nil || doctor["specialty"] == nil {
		t.Error("expected populated specialty")
	}
}

func TestHandler_GetDoctor_NotFound(t *testing.T) {
	h, _, e := newTestHandler()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(uuid.New().String())

	err := h.GetDoctor(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %v", err)
	}
}

func TestHandler_ListDoctors(t *testing.T) {
	h, svc, e := newTestHandler()
	sp, _ := svc.CreateSpecialty(context.Background(), "Cardiology")
	_, _ = svc.AddDoctor(context.Background(), "Greg House", sp.ID)

	req := httptest.NewRequest(http.MethodGet, "/doctors", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.ListDoctors(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var out map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	paged, _ := out["doctors"].(map[string]any)
	if paged == nil || paged["total"] != float64(1) {
		t.Errorf("expected paged doctors with total 1, got %v", out["doctors"])
	}
}
