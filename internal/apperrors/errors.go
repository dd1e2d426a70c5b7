package apperrors

import (
	"errors"
	"fmt"
)

// ErrorType classifies failures so the HTTP layer can pick a status code.
type ErrorType string

const (
	// TypeValidation is missing or malformed client input.
	TypeValidation ErrorType = "VALIDATION"

	// TypeLookup is a failed weather lookup. It never leaves the search pipeline.
	TypeLookup ErrorType = "LOOKUP"

	// TypePersistence is a failed write of the backing store.
	TypePersistence ErrorType = "PERSISTENCE"

	// TypeInternal is any other unexpected fault.
	TypeInternal ErrorType = "INTERNAL"
)

// AppError is an error with a classification and an optional cause.
type AppError struct {
	Type    ErrorType
	Message string
	Err     error
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns the underlying cause.
func (e *AppError) Unwrap() error {
	return e.Err
}

// NewValidationError creates a validation error. Message is shown to clients.
func NewValidationError(message string) *AppError {
	return &AppError{Type: TypeValidation, Message: message}
}

// NewLookupError creates a weather lookup error.
func NewLookupError(message string, err error) *AppError {
	return &AppError{Type: TypeLookup, Message: message, Err: err}
}

// NewPersistenceError creates a persistence error.
func NewPersistenceError(message string, err error) *AppError {
	return &AppError{Type: TypePersistence, Message: message, Err: err}
}

// NewInternalError creates an internal error.
func NewInternalError(message string, err error) *AppError {
	return &AppError{Type: TypeInternal, Message: message, Err: err}
}

// IsType reports whether err, or any error it wraps, is an *AppError of type t.
func IsType(err error, t ErrorType) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Type == t
	}
	return false
}
