// Package response renders the uniform JSON envelope used by every
// endpoint: {status, message, data?, errors?}.  The mapping from handler
// outcome to envelope is pure; these helpers never fail beyond what
// echo's JSON writer can fail with.
package response

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Envelope is the body shape shared by all API responses.  Data and
// Errors are omitted when nil so success bodies never carry an errors
// key and vice versa.
type Envelope struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
	Errors  any    `json:"errors,omitempty"`
}

// Success writes a 2xx envelope with status "success".
func Success(c echo.Context, code int, message string, data any) error {
	return c.JSON(code, Envelope{Status: "success", Message: message, Data: data})
}

// Error writes a 4xx/5xx envelope with status "error".  errs may be nil.
func Error(c echo.Context, code int, message string, errs any) error {
	return c.JSON(code, Envelope{Status: "error", Message: message, Errors: errs})
}

// ValidationFail writes a 422 envelope with status "fail" and a
// field-level error map.
func ValidationFail(c echo.Context, errs any) error {
	return c.JSON(http.StatusUnprocessableEntity, Envelope{Status: "fail", Message: "Validation failed.", Errors: errs})
}

// NotFound writes a 404 envelope with status "error" and a message only.
func NotFound(c echo.Context, message string) error {
	if message == "" {
		message = "Resource not found."
	}
	return c.JSON(http.StatusNotFound, Envelope{Status: "error", Message: message})
}

// PermissionDenied writes a 403 envelope with status "error".
func PermissionDenied(c echo.Context, message string) error {
	if message == "" {
		message = "Permission denied."
	}
	return c.JSON(http.StatusForbidden, Envelope{Status: "error", Message: message})
}
