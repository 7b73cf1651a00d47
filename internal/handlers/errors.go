package handlers

import (
	"errors"
	"net/http"

	"oona/internal/common"
	"oona/internal/dashboard"
	"oona/internal/models"
	"oona/internal/services"

	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
)

// sendServiceError maps service errors onto the common error envelope.
// resource names the thing looked up, for 404 messages.
func sendServiceError(c echo.Context, err error, resource string) error {
	var fieldErr *services.FieldError
	switch {
	case errors.As(err, &fieldErr):
		return common.SendValidationError(c, fieldErr.Field, fieldErr.Message)
	case errors.Is(err, services.ErrEmptyCart):
		return common.SendValidationError(c, "cart", err.Error())
	case errors.Is(err, services.ErrInvalidTableNumber):
		return common.SendValidationError(c, "table_number", err.Error())
	case errors.Is(err, services.ErrInvalidImageType), errors.Is(err, services.ErrImageTooLarge):
		return common.SendValidationError(c, "image", err.Error())
	case errors.Is(err, services.ErrConfirmationRequired), errors.Is(err, dashboard.ErrConfirmationRequired):
		return common.SendValidationError(c, "confirm", err.Error())
	case errors.Is(err, services.ErrMenuItemUnavailable):
		return common.SendConflictError(c, err.Error())
	case errors.Is(err, models.ErrInvalidTransition), errors.Is(err, dashboard.ErrOrderNotActive):
		return common.SendConflictError(c, err.Error())
	case errors.Is(err, services.ErrMenuItemNotFound), errors.Is(err, services.ErrOrderNotFound):
		return common.SendNotFoundError(c, resource)
	case errors.Is(err, services.ErrInvalidCredentials):
		return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
	case errors.Is(err, services.ErrSessionNotFound):
		return common.SendUnauthorizedError(c)
	case errors.Is(err, services.ErrRateLimited):
		return common.SendTooManyRequestsError(c, err.Error())
	case errors.Is(err, services.ErrValidation):
		return common.SendClientError(c, err.Error())
	}

	log.Errorf("%s %s failed: %v", c.Request().Method, c.Path(), err)
	return common.SendServerError(c, "Internal server error")
}
