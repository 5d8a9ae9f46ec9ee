package http

import (
	"net/http"

	"marketplace/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

var statusByKind = map[errs.Kind]int{
	errs.KindUnauthenticated:   http.StatusUnauthorized,
	errs.KindAccountLocked:     http.StatusForbidden,
	errs.KindDenied:            http.StatusForbidden,
	errs.KindNotFound:          http.StatusNotFound,
	errs.KindInvalidTransition: http.StatusConflict,
	errs.KindInsufficientStock: http.StatusConflict,
	errs.KindConflict:          http.StatusConflict,
	errs.KindBusy:              http.StatusServiceUnavailable,
	errs.KindValidation:        http.StatusBadRequest,
	errs.KindStorage:           http.StatusInternalServerError,
	errs.KindInternal:          http.StatusInternalServerError,
}

// renderError writes the error envelope. Internal errors carry no detail.
func renderError(c echo.Context, err error) error {
	d := errs.Describe(err)

	status, ok := statusByKind[d.Kind]
	if !ok {
		status = http.StatusInternalServerError
	}
	if status == http.StatusInternalServerError {
		c.Logger().Errorf("request failed: %v", err)
	}
	if d.IsTransient() {
		c.Response().Header().Set("Retry-After", "1")
	}

	return c.JSON(status, ErrorResponse{
		Status: "error",
		Kind:   string(d.Kind),
		Detail: d.Detail,
	})
}

func badRequest(c echo.Context, param string) error {
	return renderError(c, errs.NewValueIsInvalidError(param))
}
