package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Shipment errors
var (
	ErrShipmentNotFound        = errors.New("shipment not found")
	ErrDuplicateTrackingNumber = errors.New("tracking number already exists")
	ErrInvalidTrackingNumber   = errors.New("invalid tracking number format")
	ErrValidation              = errors.New("validation error")
)

// Admin errors
var (
	ErrAdminNotFound      = errors.New("admin not found")
	ErrAdminAlreadyExists = errors.New("admin already exists")
)

// ErrUnavailable marks a failure to reach a backing store
var ErrUnavailable = errors.New("upstream unavailable")

// FieldError describes a validation failure on one field
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError carries every field-level problem found in an input
type ValidationError struct {
	Errors []FieldError
}

func (e *ValidationError) Error() string {
	if len(e.Errors) == 1 {
		return fmt.Sprintf("validation: %s %s", e.Errors[0].Field, e.Errors[0].Message)
	}
	parts := make([]string, 0, len(e.Errors))
	for _, fe := range e.Errors {
		parts = append(parts, fe.Field+" "+fe.Message)
	}
	return "validation: " + strings.Join(parts, "; ")
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// NewValidationError creates a ValidationError for a single field
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Errors: []FieldError{{Field: field, Message: message}}}
}
