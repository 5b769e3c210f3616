package response

import (
	"sync/atomic"

	"github.com/gofiber/fiber/v2"
)

// Response represents a standard API response
type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
	Details interface{} `json:"details,omitempty"`
}

var debug atomic.Bool

// SetDebug controls whether diagnostic details are written into error responses.
// It is enabled outside production only.
func SetDebug(enabled bool) {
	debug.Store(enabled)
}

// Success sends a success response
func Success(c *fiber.Ctx, message string, data interface{}) error {
	return c.JSON(Response{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// Created sends a 201 created response
func Created(c *fiber.Ctx, message string, data interface{}) error {
	return c.Status(fiber.StatusCreated).JSON(Response{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// Error sends an error response
func Error(c *fiber.Ctx, statusCode int, message string) error {
	return c.Status(statusCode).JSON(Response{
		Success: false,
		Error:   message,
	})
}

// ErrorWithDetail sends an error response and, in debug mode, the cause
func ErrorWithDetail(c *fiber.Ctx, statusCode int, message string, cause error) error {
	resp := Response{
		Success: false,
		Error:   message,
	}
	if cause != nil && debug.Load() {
		resp.Details = cause.Error()
	}
	return c.Status(statusCode).JSON(resp)
}

// Invalid sends a 400 response listing field errors
func Invalid(c *fiber.Ctx, message string, fields interface{}) error {
	return c.Status(fiber.StatusBadRequest).JSON(Response{
		Success: false,
		Error:   message,
		Details: fields,
	})
}

// BadRequest sends a 400 bad request response
func BadRequest(c *fiber.Ctx, message string) error {
	return Error(c, fiber.StatusBadRequest, message)
}

// Unauthorized sends a 401 unauthorized response
func Unauthorized(c *fiber.Ctx, message string) error {
	return Error(c, fiber.StatusUnauthorized, message)
}

// Forbidden sends a 403 forbidden response
func Forbidden(c *fiber.Ctx, message string) error {
	return Error(c, fiber.StatusForbidden, message)
}

// NotFound sends a 404 not found response
func NotFound(c *fiber.Ctx, message string) error {
	return Error(c, fiber.StatusNotFound, message)
}

// Conflict sends a 409 conflict response
func Conflict(c *fiber.Ctx, message string) error {
	return Error(c, fiber.StatusConflict, message)
}

// TooManyRequests sends a 429 response
func TooManyRequests(c *fiber.Ctx, message string) error {
	return Error(c, fiber.StatusTooManyRequests, message)
}

// ServiceUnavailable sends a 503 response
func ServiceUnavailable(c *fiber.Ctx, message string, cause error) error {
	return ErrorWithDetail(c, fiber.StatusServiceUnavailable, message, cause)
}

// InternalServerError sends a 500 internal server error response
func InternalServerError(c *fiber.Ctx, message string, cause error) error {
	return ErrorWithDetail(c, fiber.StatusInternalServerError, message, cause)
}
