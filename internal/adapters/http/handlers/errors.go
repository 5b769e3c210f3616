package handlers

import (
	"errors"

	"madhav-couriers/internal/core/domain"
	"madhav-couriers/internal/core/services"
	"madhav-couriers/internal/pkg/logger"
	"madhav-couriers/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// respondError maps service errors onto the response envelope
func respondError(c *fiber.Ctx, err error, fallback string) error {
	var ve *domain.ValidationError
	switch {
	case errors.As(err, &ve):
		return response.Invalid(c, "Validation failed", ve.Errors)
	case errors.Is(err, domain.ErrInvalidTrackingNumber):
		return response.BadRequest(c, "Invalid tracking number format")
	case errors.Is(err, domain.ErrShipmentNotFound):
		return response.NotFound(c, "Shipment not found")
	case errors.Is(err, domain.ErrAdminNotFound):
		return response.NotFound(c, "Admin not found")
	case errors.Is(err, domain.ErrDuplicateTrackingNumber):
		return response.Conflict(c, "Tracking number already exists")
	case errors.Is(err, services.ErrInvalidCredentials):
		return response.Unauthorized(c, "Invalid username or password")
	case errors.Is(err, services.ErrTokenExpired):
		return response.Unauthorized(c, "Access token expired")
	case errors.Is(err, services.ErrInvalidToken), errors.Is(err, services.ErrUnauthorized):
		return response.Unauthorized(c, "Authentication required")
	case errors.Is(err, services.ErrAccountLocked):
		return response.Forbidden(c, "Account is locked due to too many failed login attempts, try again later")
	case errors.Is(err, services.ErrAccountInactive):
		return response.Forbidden(c, "Account is inactive")
	case errors.Is(err, services.ErrForbidden):
		return response.Forbidden(c, "You don't have permission to perform this action")
	case errors.Is(err, domain.ErrUnavailable):
		return response.ServiceUnavailable(c, "Service temporarily unavailable", err)
	}

	logger.Get().Error(fallback,
		zap.Error(err),
		zap.String("method", c.Method()),
		zap.String("path", c.Path()),
	)
	return response.InternalServerError(c, fallback, err)
}
