package service

import (
	"errors"
	"fmt"

	"github.com/phrazzld/itinerator-api/internal/domain"
	"github.com/phrazzld/itinerator-api/internal/store"
)

// Common service errors - sentinel errors used across service implementations.
//
// Error handling principles:
// 1. Service methods return sentinel errors for expected error conditions
// 2. Unexpected errors are wrapped in ServiceError
// 3. Callers use errors.Is/errors.As to check for specific error conditions
// 4. The API layer maps service errors to appropriate HTTP status codes
var (
	// ErrNotOwner indicates the caller does not own the itinerary being changed.
	// API layer should map this to HTTP 403 Forbidden.
	ErrNotOwner = errors.New("itinerary is owned by another user")

	// ErrUnknownUser indicates a verified token names a user that no longer exists.
	// API layer should map this to HTTP 401 Unauthorized.
	ErrUnknownUser = errors.New("authenticated user does not exist")

	// ErrCompanionWrite indicates the primary write succeeded but the matching
	// list update did not. The surrounding transaction is rolled back.
	// API layer should map this to HTTP 500.
	ErrCompanionWrite = errors.New("relationship update failed")
)

// ServiceError is a custom error type for service failures with operation context.
type ServiceError struct {
	Service   string
	Operation string
	Message   string
	Err       error
}

// Error implements the error interface for ServiceError.
func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s service %s failed: %s: %v", e.Service, e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("%s service %s failed: %s", e.Service, e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *ServiceError) Unwrap() error {
	return e.Err
}

// NewServiceError creates a new ServiceError.
func NewServiceError(service, operation, message string, err error) *ServiceError {
	return &ServiceError{
		Service:   service,
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}

// isExpected reports whether err is a caller-facing condition that should be
// returned unwrapped rather than as a ServiceError.
func isExpected(err error) bool {
	if errors.Is(err, ErrCompanionWrite) {
		return false
	}
	return errors.Is(err, ErrNotOwner) ||
		errors.Is(err, ErrUnknownUser) ||
		errors.Is(err, domain.ErrValidation) ||
		store.IsNotFoundError(err) ||
		store.IsDuplicateError(err)
}
