package identity

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/turnero/turnero/internal/platform/web"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.POST("/register", h.Register)
	api.POST("/login", h.Login)
	api.POST("/forgot-password", h.ForgotPassword)
	api.POST("/reset-password/:recoveryToken", h.ResetPassword)
}

type registerRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

func (h *Handler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	u, token, err := h.svc.Register(c.Request().Context(), req.Email, req.Password, req.Role)
	if err != nil {
		return mapErr(err)
	}
	return web.JSON(c, http.StatusCreated, echo.Map{"user": u, "token": token})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *Handler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	u, token, err := h.svc.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return mapErr(err)
	}
	return web.JSON(c, http.StatusOK, echo.Map{"user": u, "token": token})
}

type forgotPasswordRequest struct {
	Email string `json:"email"`
}

func (h *Handler) ForgotPassword(c echo.Context) error {
	var req forgotPasswordRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	if err := h.svc.RequestRecovery(c.Request().Context(), req.Email); err != nil {
		return mapErr(err)
	}
	return web.JSON(c, http.StatusOK, echo.Map{"message": "recovery email sent"})
}

type resetPasswordRequest struct {
	Password string `json:"password"`
}

func (h *Handler) ResetPassword(c echo.Context) error {
	var req resetPasswordRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	err := h.svc.ResetPassword(c.Request().Context(), c.Param("recoveryToken"), req.Password)
	if err != nil {
		return mapErr(err)
	}
	return web.JSON(c, http.StatusOK, echo.Map{"message": "password updated"})
}

func mapErr(err error) error {
	switch {
	case errors.Is(err, ErrWeakPassword), errors.Is(err, ErrInvalidRole),
		errors.Is(err, ErrEmailRequired), errors.Is(err, ErrEmailTaken):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, ErrInvalidCredentials):
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid credentials")
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrTokenNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, ErrTokenExpired):
		return echo.NewHTTPError(http.StatusBadRequest, ErrTokenExpired.Error())
	default:
		return err
	}
}
