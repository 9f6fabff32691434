package http

import (
	"errors"
	"net/http"

	"courier-dispatch/internal/core/application/usecases/commands"
	"courier-dispatch/internal/core/domain/model/delivery"
	"courier-dispatch/internal/core/domain/services"
	"courier-dispatch/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

// statusFor maps domain and application errors to HTTP status codes. Order matters:
// specific sentinels are checked before the generic kinds they also wrap.
func statusFor(err error) int {
	switch {
	case errors.Is(err, commands.ErrPickupNotResolved),
		errors.Is(err, commands.ErrDropoffNotResolved):
		return http.StatusUnprocessableEntity
	case errors.Is(err, commands.ErrNotAssignedCourier):
		return http.StatusForbidden
	case errors.Is(err, commands.ErrAlreadyTaken),
		errors.Is(err, commands.ErrCourierBusy),
		errors.Is(err, services.ErrCourierUnavailable),
		errors.Is(err, delivery.ErrRequestNotEditable),
		errors.Is(err, delivery.ErrNoActiveLeg),
		errors.Is(err, delivery.ErrStopNotResolved),
		errors.Is(err, errs.ErrInvalidTransition),
		errors.Is(err, errs.ErrObjectConflict):
		return http.StatusConflict
	case errors.Is(err, errs.ErrObjectNotFound):
		return http.StatusNotFound
	case errors.Is(err, errs.ErrValueIsRequired),
		errors.Is(err, errs.ErrValueIsInvalid),
		errors.Is(err, errs.ErrValueIsOutOfRange):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// fail writes err as an Error body. Internal errors are logged and their text hidden.
func (s *Server) fail(ctx echo.Context, err error) error {
	code := statusFor(err)
	message := err.Error()
	if code == http.StatusInternalServerError {
		s.logger.ErrorContext(ctx.Request().Context(), "request failed",
			"method", ctx.Request().Method, "path", ctx.Path(), "error", err)
		message = http.StatusText(code)
	}
	return ctx.JSON(code, Error{Code: code, Message: message})
}

func badRequest(ctx echo.Context, message string) error {
	return ctx.JSON(http.StatusBadRequest, Error{Code: http.StatusBadRequest, Message: message})
}
