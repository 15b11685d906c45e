// Package view renders admin screen payloads and maps classified backend
// errors onto gateway HTTP responses.
package view

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/churchconnect/admin/internal/platform/rest"
)

// Page is the envelope every admin screen responds with. Data carries the
// screen state; CanRetry tells the list views to render a retry action
// next to the inline error banner.
type Page struct {
	View     string `json:"view"`
	Data     any    `json:"data"`
	CanRetry bool   `json:"can_retry,omitempty"`
}

// Render writes a screen payload.
func Render(c echo.Context, name string, data any, canRetry bool) error {
	return c.JSON(http.StatusOK, Page{View: name, Data: data, CanRetry: canRetry})
}

// FormError is the mutation failure shape form views consume: a general
// banner message plus optional per-field messages.
type FormError struct {
	Message string            `json:"message"`
	Kind    rest.Kind         `json:"kind"`
	Fields  map[string]string `json:"fields,omitempty"`
}

// Error maps a classified error to the gateway response status and body.
// Cancellations produce 499 with no body content worth rendering; they
// reach here only when the browser itself went away.
func Error(c echo.Context, err error) error {
	if rest.IsCancelled(err) {
		return c.NoContent(499)
	}

	re := rest.AsError(err)
	status := http.StatusBadGateway
	switch re.Kind {
	case rest.KindValidation:
		status = http.StatusBadRequest
	case rest.KindUnauthorized:
		status = http.StatusUnauthorized
	case rest.KindForbidden:
		status = http.StatusForbidden
	case rest.KindTimeout:
		status = http.StatusGatewayTimeout
	case rest.KindServer:
		status = http.StatusBadGateway
	case rest.KindUnknown:
		if re.Status >= 400 && re.Status < 500 {
			status = re.Status
		}
	}
	return c.JSON(status, FormError{Message: re.Message, Kind: re.Kind, Fields: re.Fields})
}

// BadRequest writes a plain 400 for malformed gateway input (unparseable
// ids, bodies that fail to bind).
func BadRequest(c echo.Context, msg string) error {
	return c.JSON(http.StatusBadRequest, FormError{Message: msg, Kind: rest.KindValidation})
}

// NotFound writes a plain 404.
func NotFound(c echo.Context, msg string) error {
	if msg == "" {
		msg = "not found"
	}
	return c.JSON(http.StatusNotFound, FormError{Message: msg, Kind: rest.KindUnknown})
}
