package http

import (
	"errors"
	"net/http"

	"orderhub/internal/core/domain/model/assignment"
	"orderhub/internal/core/domain/model/cart"
	"orderhub/internal/core/domain/model/order"
	"orderhub/internal/pkg/errs"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

// conflictCodes maps StateConflictError kinds to the code clients branch on.
var conflictCodes = []struct {
	kind error
	code string
}{
	{order.ErrConcurrentModification, "concurrent_modification"},
	{order.ErrInvalidTransition, "invalid_transition"},
	{cart.ErrCartClosed, "cart_closed"},
	{assignment.ErrAlreadyAssigned, "already_assigned"},
	{assignment.ErrNotAssignedToDriver, "not_assigned_to_driver"},
	{assignment.ErrOrderNotReady, "order_not_ready"},
	{assignment.ErrInvalidTransition, "invalid_assignment_transition"},
}

// ErrorHandler renders errors returned by handlers as Error bodies.
func ErrorHandler(logger logrus.FieldLogger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		status, body := toErrorResponse(err)
		if status >= http.StatusInternalServerError {
			logger.WithError(err).WithFields(logrus.Fields{
				"method": c.Request().Method,
				"path":   c.Path(),
			}).Error("request failed")
		}

		var writeErr error
		if c.Request().Method == http.MethodHead {
			writeErr = c.NoContent(status)
		} else {
			writeErr = c.JSON(status, body)
		}
		if writeErr != nil {
			logger.WithError(writeErr).Warn("failed to write error response")
		}
	}
}

func toErrorResponse(err error) (int, Error) {
	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.Code, Error{Code: "http_error", Message: http.StatusText(httpErr.Code)}
	}

	switch {
	case errs.IsValidation(err):
		return http.StatusBadRequest, Error{Code: "validation_error", Message: err.Error()}
	case errors.Is(err, errs.ErrObjectNotFound):
		return http.StatusNotFound, Error{Code: "not_found", Message: err.Error()}
	case errors.Is(err, errs.ErrStateConflict):
		body := Error{Code: "state_conflict", Message: err.Error()}
		for _, c := range conflictCodes {
			if errors.Is(err, c.kind) {
				body.Code = c.code
				break
			}
		}
		body.Retryable = errors.Is(err, order.ErrConcurrentModification)
		return http.StatusConflict, body
	case errors.Is(err, errs.ErrSyncFailed):
		return http.StatusBadGateway, Error{Code: "catalog_sync_failed", Message: err.Error()}
	default:
		return http.StatusInternalServerError, Error{Code: "internal_error", Message: "internal server error"}
	}
}
