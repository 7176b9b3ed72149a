package services

import (
	"errors"
	"fmt"
)

// Sentinel errors shared by the cart, order and invoice services. Handlers
// translate these into HTTP status codes.
var (
	ErrNotFound          = errors.New("not found")
	ErrEmptyOrder        = errors.New("order has no lines")
	ErrEmptyCart         = errors.New("cart is empty")
	ErrPaymentIncomplete = errors.New("paypal payment not completed")
)

// ValidationError reports a missing or malformed request field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func newValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// IsValidationError reports whether err is a field validation failure.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
