package http

import (
	"errors"

	"basti-service/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// respondError переводит сервисные ошибки в HTTP-статусы
func respondError(c *gin.Context, log *zap.Logger, err error) {
	switch {
	case errors.Is(err, service.ErrUnauthorized):
		c.JSON(401, NewUnauthorizedError("authentication required"))
	case errors.Is(err, service.ErrForbidden):
		c.JSON(403, NewForbiddenError("admin role required"))
	case errors.Is(err, service.ErrRegionNotFound),
		errors.Is(err, service.ErrProductNotFound),
		errors.Is(err, service.ErrLineNotFound),
		errors.Is(err, service.ErrOrderNotFound),
		errors.Is(err, service.ErrOverrideNotFound):
		c.JSON(404, NewNotFoundError(err.Error()))
	case errors.Is(err, service.ErrQuantityInvalid),
		errors.Is(err, service.ErrCategoryInvalid),
		errors.Is(err, service.ErrCategoryMismatch),
		errors.Is(err, service.ErrLineRefInvalid),
		errors.Is(err, service.ErrLayersInvalid),
		errors.Is(err, service.ErrLineNotIncluded),
		errors.Is(err, service.ErrEmptyCart),
		errors.Is(err, service.ErrDiscountInvalid),
		errors.Is(err, service.ErrPriceInvalid),
		errors.Is(err, service.ErrPriceMissing),
		errors.Is(err, service.ErrNameRequired),
		errors.Is(err, service.ErrProductKindInvalid),
		errors.Is(err, service.ErrOverrideKindInvalid),
		errors.Is(err, service.ErrOverridePriceMissing),
		errors.Is(err, service.ErrStatusInvalid):
		c.JSON(400, NewValidationError(err.Error()))
	case errors.Is(err, service.ErrUnresolvedPrice),
		errors.Is(err, service.ErrUnresolvedSize):
		c.JSON(422, NewUnprocessableError(err.Error()))
	case errors.Is(err, service.ErrStatusTerminal),
		errors.Is(err, service.ErrTransitionNotAllowed),
		errors.Is(err, service.ErrCheckoutConflict):
		c.JSON(409, NewConflictError(err.Error()))
	default:
		log.Error("internal error", zap.Error(err))
		c.JSON(500, NewInternalError(err.Error()))
	}
}
