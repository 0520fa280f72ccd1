// Package services provides the process compilation and catalogue operations behind the CLI
// and the HTTP API.
package services

import (
	"errors"
	"fmt"

	"github.com/dukex/flowc/pkg/compiler"
	"github.com/dukex/flowc/pkg/persistence"
	"github.com/dukex/flowc/pkg/spec"
)

// Business Logic Errors - These indicate client errors (4xx responses).
var (
	// Validation Errors (400 Bad Request).
	ErrInvalidRequest = errors.New("invalid request")
	ErrEmptyDocument  = errors.New("workflow document is empty")

	// Lookup Errors (404 Not Found).
	ErrProcessNotFound = persistence.ErrProcessNotFound

	// Business Logic Conflicts (409 Conflict).
	ErrProcessAlreadyExists = persistence.ErrProcessAlreadyExists
)

// ServiceError wraps service-level errors with additional context.
type ServiceError struct {
	Op      string // Operation name
	Code    string // Error code for API responses
	Message string // Human-readable message
	Err     error  // Underlying error
}

func (e *ServiceError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s: %s", e.Op, e.Message)
	}

	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *ServiceError) Unwrap() error {
	return e.Err
}

func (e *ServiceError) Is(target error) bool {
	return errors.Is(e.Err, target)
}

// IsValidationError checks if an error is a validation error that should return HTTP 400.
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidRequest) ||
		errors.Is(err, ErrEmptyDocument) ||
		errors.Is(err, spec.ErrInvalidDocument) ||
		errors.Is(err, persistence.ErrInvalidProcessID) ||
		compiler.IsInvalidWorkflow(err)
}

// IsNotFoundError checks if an error should return HTTP 404.
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrProcessNotFound)
}

// IsConflictError checks if an error is a business logic conflict that should return HTTP 409.
func IsConflictError(err error) bool {
	return errors.Is(err, ErrProcessAlreadyExists)
}

// NewValidationError creates a new validation error with context.
func NewValidationError(op, code, message string, err error) *ServiceError {
	return &ServiceError{
		Op:      op,
		Code:    code,
		Message: message,
		Err:     err,
	}
}
