package persistence

import (
	"errors"
	"fmt"
)

// Standard persistence error types that all implementations should use.
var (
	// ErrProcessNotFound indicates a process definition was not found by the given identifier.
	ErrProcessNotFound = errors.New("process not found")

	// ErrProcessAlreadyExists indicates the same version of a process is already stored.
	ErrProcessAlreadyExists = errors.New("process already exists")

	// ErrInvalidProcessID indicates an id a store cannot key a process by.
	ErrInvalidProcessID = errors.New("invalid process id")

	// ErrNilRecord indicates a nil value was handed to a marshaller.
	ErrNilRecord = errors.New("nil record")
)

// ProcessError wraps process-related errors with additional context.
type ProcessError struct {
	Op        string // Operation being performed (e.g., "ProcessByID", "SaveProcess")
	ProcessID string
	Err       error
}

func (e *ProcessError) Error() string {
	return fmt.Sprintf("%s operation failed for process %s: %v", e.Op, e.ProcessID, e.Err)
}

func (e *ProcessError) Unwrap() error {
	return e.Err
}

// Is implements error comparison for process errors.
func (e *ProcessError) Is(target error) bool {
	return errors.Is(e.Err, target)
}

// NewProcessError creates a new process error with context.
func NewProcessError(op, processID string, err error) *ProcessError {
	return &ProcessError{
		Op:        op,
		ProcessID: processID,
		Err:       err,
	}
}

// IsProcessNotFound checks if an error indicates a process was not found.
func IsProcessNotFound(err error) bool {
	return errors.Is(err, ErrProcessNotFound)
}

// IsProcessAlreadyExists checks if an error indicates a conflicting save.
func IsProcessAlreadyExists(err error) bool {
	return errors.Is(err, ErrProcessAlreadyExists)
}
