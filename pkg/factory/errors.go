package factory

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidSpecification indicates a structurally required input is missing or malformed.
	ErrInvalidSpecification = errors.New("invalid specification")

	// ErrUnexpectedNodeKind indicates an operation applied to a node of the wrong kind.
	ErrUnexpectedNodeKind = errors.New("unexpected node kind")
)

// SpecError wraps construction errors with the operation and node being built.
type SpecError struct {
	Op      string // Builder operation (e.g., "ServiceNode", "MessageEndNode")
	NodeID  int64
	Err     error
	Message string
}

func (e *SpecError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s failed for node %d: %s (%v)", e.Op, e.NodeID, e.Message, e.Err)
	}

	return fmt.Sprintf("%s failed for node %d: %v", e.Op, e.NodeID, e.Err)
}

func (e *SpecError) Unwrap() error {
	return e.Err
}

func (e *SpecError) Is(target error) bool {
	return errors.Is(e.Err, target)
}

func invalid(op string, id int64, message string) error {
	return &SpecError{Op: op, NodeID: id, Err: ErrInvalidSpecification, Message: message}
}

// IsInvalidSpecification checks if an error was caused by an invalid specification.
func IsInvalidSpecification(err error) bool {
	return errors.Is(err, ErrInvalidSpecification)
}
