package services

import (
	"errors"
	"fmt"
)

var (
	ErrValidation           = errors.New("validation failed")
	ErrEmptyCart            = errors.New("cart is empty")
	ErrInvalidTableNumber   = errors.New("table number must be a positive integer")
	ErrInvalidImageType     = errors.New("file must be an image")
	ErrImageTooLarge        = errors.New("image must be 5MB or smaller")
	ErrConfirmationRequired = errors.New("confirmation required")
	ErrMenuItemNotFound     = errors.New("menu item not found")
	ErrMenuItemUnavailable  = errors.New("menu item is not available")
	ErrOrderNotFound        = errors.New("order not found")
	ErrInvalidCredentials   = errors.New("invalid email or password")
	ErrSessionNotFound      = errors.New("session not found")
	ErrRateLimited          = errors.New("too many attempts, try again later")
)

// FieldError is a validation failure tied to one form field.
type FieldError struct {
	Field   string
	Message string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *FieldError) Unwrap() error {
	return ErrValidation
}

func fieldError(field, message string) error {
	return &FieldError{Field: field, Message: message}
}
