package auth

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Roles known to the system.
const (
	RoleAdmin   = "admin"
	RolePatient = "patient"
)

// Operation names a capability a caller may hold.
type Operation string

const (
	OpManageDoctors      Operation = "doctors:manage"
	OpManageSpecialties  Operation = "specialties:manage"
	OpManageAppointments Operation = "appointments:manage"
	OpReserveAppointment Operation = "appointments:reserve"
	OpCancelAppointment  Operation = "appointments:cancel"
)

// capabilities maps each role to the operations it may perform. Admins manage
// the catalog and the slots; patients act on their own reservations.
var capabilities = map[string]map[Operation]bool{
	RoleAdmin: {
		OpManageDoctors:      true,
		OpManageSpecialties:  true,
		OpManageAppointments: true,
	},
	RolePatient: {
		OpReserveAppointment: true,
		OpCancelAppointment:  true,
	},
}

// Can reports whether a role is allowed to perform an operation. It is a pure
// function over the capability table, usable outside the HTTP layer.
func Can(role string, op Operation) bool {
	return capabilities[role][op]
}

// Require returns middleware that rejects callers whose role lacks the given
// capability.
func Require(op Operation) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role := RoleFromContext(c.Request().Context())
			if !Can(role, op) {
				return echo.NewHTTPError(http.StatusForbidden, "role not authorized")
			}
			return next(c)
		}
	}
}
