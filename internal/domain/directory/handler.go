package directory

import (
	"context"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/turnero/turnero/internal/platform/auth"
	"github.com/turnero/turnero/internal/platform/web"
	"github.com/turnero/turnero/pkg/pagination"
)

// AppointmentSource supplies a doctor's slots for populated single-doctor
// reads. Wired to the booking service at startup; nil disables the field.
type AppointmentSource func(ctx context.Context, doctorID uuid.UUID) (interface{}, error)

type Handler struct {
	svc          *Service
	appointments AppointmentSource
}

func NewHandler(svc *Service, appointments AppointmentSource) *Handler {
	return &Handler{svc: svc, appointments: appointments}
}

func (h *Handler) RegisterRoutes(public, admin *echo.Group) {
	public.GET("/doctors", h.ListDoctors)
	public.GET("/doctor/:id", h.GetDoctor)
	public.GET("/specialties", h.ListSpecialties)

	admin.POST("/doctor", h.AddDoctor, auth.Require(auth.OpManageDoctors))
	admin.PUT("/doctor/:id", h.UpdateDoctor, auth.Require(auth.OpManageDoctors))
	admin.POST("/specialties", h.CreateSpecialty, auth.Require(auth.OpManageSpecialties))
}

type specialtyRequest struct {
	Name string `json:"name"`
}

func (h *Handler) CreateSpecialty(c echo.Context) error {
	var req specialtyRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	sp, err := h.svc.CreateSpecialty(c.Request().Context(), req.Name)
	if err != nil {
		return mapErr(err)
	}
	return web.JSON(c, http.StatusCreated, echo.Map{"specialty": sp})
}

func (h *Handler) ListSpecialties(c echo.Context) error {
	sps, err := h.svc.ListSpecialties(c.Request().Context())
	if err != nil {
		return err
	}
	return web.JSON(c, http.StatusOK, echo.Map{"specialties": sps})
}

type doctorRequest struct {
	Name        string    `json:"name"`
	SpecialtyID uuid.UUID `json:"specialty_id"`
}

func (h *Handler) AddDoctor(c echo.Context) error {
	var req doctorRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	d, err := h.svc.AddDoctor(c.Request().Context(), req.Name, req.SpecialtyID)
	if err != nil {
		return mapErr(err)
	}
	return web.JSON(c, http.StatusCreated, echo.Map{"doctor": d})
}

func (h *Handler) UpdateDoctor(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var req doctorRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	d, err := h.svc.UpdateDoctor(c.Request().Context(), id, req.Name, req.SpecialtyID)
	if err != nil {
		return mapErr(err)
	}
	return web.JSON(c, http.StatusOK, echo.Map{"doctor": d})
}

func (h *Handler) GetDoctor(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	d, err := h.svc.GetDoctor(c.Request().Context(), id)
	if err != nil {
		return mapErr(err)
	}

	out := echo.Map{"doctor": d}
	if h.appointments != nil {
		appts, err := h.appointments(c.Request().Context(), id)
		if err != nil {
			return err
		}
		out["appointments"] = appts
	}
	return web.JSON(c, http.StatusOK, out)
}

func (h *Handler) ListDoctors(c echo.Context) error {
	pg := pagination.FromContext(c)
	docs, total, err := h.svc.ListDoctors(c.Request().Context(), pg.Limit, pg.Offset)
	if err != nil {
		return err
	}
	return web.JSON(c, http.StatusOK, echo.Map{
		"doctors": pagination.NewResponse(docs, total, pg.Limit, pg.Offset),
	})
}

func mapErr(err error) error {
	switch {
	case errors.Is(err, ErrSpecialtyTaken):
		return echo.NewHTTPError(http.StatusConflict, ErrSpecialtyTaken.Error())
	case errors.Is(err, ErrDoctorNotFound), errors.Is(err, ErrSpecialtyNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, ErrNameRequired):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	default:
		return err
	}
}
