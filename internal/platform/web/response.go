// Package web defines the JSON response envelope and the central HTTP error
// handler. Every response carries a success flag so clients can branch on a
// single field.
package web

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

// JSON writes a success envelope with the given status. Fields are merged into
// the envelope alongside "success": true.
func JSON(c echo.Context, status int, fields echo.Map) error {
	out := echo.Map{"success": true}
	for k, v := range fields {
		out[k] = v
	}
	return c.JSON(status, out)
}

// Fail writes a failure envelope with the given status and message.
func Fail(c echo.Context, status int, message string) error {
	return c.JSON(status, echo.Map{"success": false, "error": message})
}

// ErrorHandler returns an echo.HTTPErrorHandler that renders every error as a
// failure envelope. Unexpected errors are logged and reported as a generic
// internal error so internals never leak to clients.
func ErrorHandler(logger zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		status := http.StatusInternalServerError
		message := "internal server error"

		if he, ok := err.(*echo.HTTPError); ok {
			status = he.Code
			if msg, ok := he.Message.(string); ok {
				message = msg
			} else {
				message = http.StatusText(status)
			}
		}

		if status >= http.StatusInternalServerError {
			rid, _ := c.Get("request_id").(string)
			logger.Error().
				Err(err).
				Str("request_id", rid).
				Str("method", c.Request().Method).
				Str("path", c.Request().URL.Path).
				Msg("request failed")
			message = "internal server error"
		}

		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(status)
			return
		}
		_ = Fail(c, status, message)
	}
}
