package services

import (
	"context"
	"errors"
	"fmt"

	apperrors "github.com/SAP-F-2025/progress-service/internal/errors"
)

// ===== COMMON SERVICE ERRORS =====

var (
	// ErrInvalidArgument rejects a call with a missing or malformed required identifier.
	ErrInvalidArgument = apperrors.ErrInvalidArgument

	// ErrStoreUnavailable marks a failure of the progress store. It is never retried here.
	ErrStoreUnavailable = errors.New("progress store unavailable")
)

// ===== CUSTOM ERROR TYPES =====

// Use shared validation errors from errors package
type ValidationError = apperrors.ValidationError
type ValidationErrors = apperrors.ValidationErrors

// StoreError wraps a progress store failure with the accessor that failed.
// The original cause stays reachable through Unwrap.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("progress store %s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

func (e *StoreError) Is(target error) bool {
	return target == ErrStoreUnavailable
}

// ===== ERROR HELPERS =====

func storeError(op string, err error) error {
	if err == nil {
		return nil
	}
	var se *StoreError
	if errors.As(err, &se) {
		return err
	}
	return &StoreError{Op: op, Err: err}
}

// NewValidationError creates a new validation error using the shared type
func NewValidationError(field, message string, value interface{}) *ValidationError {
	return apperrors.NewValidationError(field, message, value)
}

func invalidArgument(field, message string, value interface{}) error {
	return ValidationErrors{*NewValidationError(field, message, value)}
}

// IsInvalidArgument checks if error represents a rejected call
func IsInvalidArgument(err error) bool {
	return errors.Is(err, ErrInvalidArgument)
}

// IsStoreUnavailable checks if error represents a progress store failure
func IsStoreUnavailable(err error) bool {
	return errors.Is(err, ErrStoreUnavailable)
}

// IsCanceled reports whether the caller gave up on the operation.
func IsCanceled(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
