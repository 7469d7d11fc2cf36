package booking

import (
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/turnero/turnero/internal/platform/auth"
	"github.com/turnero/turnero/internal/platform/web"
	"github.com/turnero/turnero/pkg/pagination"
)

const dateLayout = "2006-01-02"

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(public, authed *echo.Group) {
	public.GET("/appointments", h.List)
	public.GET("/appointment/doctor/:did", h.ListByDoctor)
	public.GET("/appointment/patient/:pid", h.ListByPatient)

	authed.POST("/appointment", h.Create, auth.Require(auth.OpManageAppointments))
	authed.PUT("/appointment/:aid", h.Update, auth.Require(auth.OpManageAppointments))
	authed.DELETE("/appointment/:aid", h.Delete, auth.Require(auth.OpManageAppointments))

	authed.POST("/appointment/:aid/reserve", h.Reserve, auth.Require(auth.OpReserveAppointment))
	authed.POST("/appointment/:aid/cancel", h.Cancel, auth.Require(auth.OpCancelAppointment))
	authed.GET("/appointment/cancellation-history/:pid", h.CancellationHistory, auth.Require(auth.OpCancelAppointment))
}

type appointmentRequest struct {
	DoctorID  uuid.UUID  `json:"doctor_id"`
	Date      string     `json:"date"`
	Time      string     `json:"time"`
	PatientID *uuid.UUID `json:"patient_id,omitempty"`
}

func (h *Handler) Create(c echo.Context) error {
	var req appointmentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	date, err := time.Parse(dateLayout, req.Date)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid date, expected YYYY-MM-DD")
	}

	a, err := h.svc.Create(c.Request().Context(), req.DoctorID, date, req.Time, req.PatientID)
	if err != nil {
		return mapErr(err)
	}
	return web.JSON(c, http.StatusCreated, echo.Map{"appointment": a})
}

func (h *Handler) Update(c echo.Context) error {
	id, err := uuid.Parse(c.Param("aid"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var req appointmentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	date, err := time.Parse(dateLayout, req.Date)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid date, expected YYYY-MM-DD")
	}

	a, err := h.svc.Update(c.Request().Context(), id, date, req.Time)
	if err != nil {
		return mapErr(err)
	}
	return web.JSON(c, http.StatusOK, echo.Map{"appointment": a})
}

func (h *Handler) Delete(c echo.Context) error {
	id, err := uuid.Parse(c.Param("aid"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if err := h.svc.Delete(c.Request().Context(), id); err != nil {
		return mapErr(err)
	}
	return web.JSON(c, http.StatusOK, echo.Map{"message": "appointment deleted"})
}

func (h *Handler) List(c echo.Context) error {
	pg := pagination.FromContext(c)
	appts, total, err := h.svc.List(c.Request().Context(), pg.Limit, pg.Offset)
	if err != nil {
		return err
	}
	return web.JSON(c, http.StatusOK, echo.Map{
		"appointments": pagination.NewResponse(appts, total, pg.Limit, pg.Offset),
	})
}

func (h *Handler) ListByDoctor(c echo.Context) error {
	did, err := uuid.Parse(c.Param("did"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid doctor id")
	}
	pg := pagination.FromContext(c)
	appts, total, err := h.svc.ListByDoctor(c.Request().Context(), did, pg.Limit, pg.Offset)
	if err != nil {
		return err
	}
	return web.JSON(c, http.StatusOK, echo.Map{
		"appointments": pagination.NewResponse(appts, total, pg.Limit, pg.Offset),
	})
}

func (h *Handler) ListByPatient(c echo.Context) error {
	pid, err := uuid.Parse(c.Param("pid"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid patient id")
	}
	pg := pagination.FromContext(c)
	appts, total, err := h.svc.ListByPatient(c.Request().Context(), pid, pg.Limit, pg.Offset)
	if err != nil {
		return err
	}
	return web.JSON(c, http.StatusOK, echo.Map{
		"appointments": pagination.NewResponse(appts, total, pg.Limit, pg.Offset),
	})
}

// patientRequest carries the documented patientID body field of the reserve
// and cancel endpoints.
type patientRequest struct {
	PatientID *uuid.UUID `json:"patientID"`
}

// actingPatient resolves the patient an operation acts for: the patientID
// from the request body when the client sends one, the token subject
// otherwise. The service checks the target is an existing patient and, for
// cancels, that it holds the slot.
func actingPatient(c echo.Context) (uuid.UUID, error) {
	var req patientRequest
	if err := c.Bind(&req); err != nil {
		return uuid.Nil, echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.PatientID != nil {
		return *req.PatientID, nil
	}
	pid, err := uuid.Parse(auth.UserIDFromContext(c.Request().Context()))
	if err != nil {
		return uuid.Nil, echo.NewHTTPError(http.StatusUnauthorized, "invalid token subject")
	}
	return pid, nil
}

func (h *Handler) Reserve(c echo.Context) error {
	aid, err := uuid.Parse(c.Param("aid"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	pid, err := actingPatient(c)
	if err != nil {
		return err
	}

	a, err := h.svc.Reserve(c.Request().Context(), aid, pid)
	if err != nil {
		return mapErr(err)
	}
	return web.JSON(c, http.StatusOK, echo.Map{"appointment": a})
}

func (h *Handler) Cancel(c echo.Context) error {
	aid, err := uuid.Parse(c.Param("aid"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	pid, err := actingPatient(c)
	if err != nil {
		return err
	}

	a, err := h.svc.Cancel(c.Request().Context(), aid, pid)
	if err != nil {
		return mapErr(err)
	}
	return web.JSON(c, http.StatusOK, echo.Map{"appointment": a})
}

func (h *Handler) CancellationHistory(c echo.Context) error {
	pid, err := uuid.Parse(c.Param("pid"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid patient id")
	}

	records, err := h.svc.CancellationHistory(c.Request().Context(), pid)
	if err != nil {
		return mapErr(err)
	}
	return web.JSON(c, http.StatusOK, echo.Map{"cancellations": records})
}

func mapErr(err error) error {
	switch {
	case errors.Is(err, ErrTimeRequired), errors.Is(err, ErrNotPatientRole):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, ErrUnavailable), errors.Is(err, ErrReserved):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrDoctorNotFound),
		errors.Is(err, ErrPatientNotFound), errors.Is(err, ErrNotOwned),
		errors.Is(err, ErrNoHistory):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	default:
		return err
	}
}
