package models

import (
	"errors"
	"fmt"
)

var (
	// ErrDuplicateNode indicates a node id already exists in the target container.
	ErrDuplicateNode = errors.New("duplicate node id")

	// ErrNodeNotFound indicates a node id is unknown to the container.
	ErrNodeNotFound = errors.New("node not found")

	// ErrInvalidVariable indicates a variable declaration without name or type.
	ErrInvalidVariable = errors.New("invalid variable")

	// ErrVariableTypeConflict indicates a variable was redeclared with another type.
	ErrVariableTypeConflict = errors.New("variable redeclared with a different type")

	// ErrUnknownVariable indicates a mapping references a variable missing from the scope.
	ErrUnknownVariable = errors.New("unknown process variable")

	// ErrInvalidNode indicates a node whose payload does not match its kind.
	ErrInvalidNode = errors.New("invalid node")
)

// NodeError wraps container errors with the offending node.
type NodeError struct {
	Op     string // Operation being performed (e.g., "AddNode", "Connect")
	NodeID int64
	Err    error
}

func (e *NodeError) Error() string {
	return fmt.Sprintf("%s operation failed for node %d: %v", e.Op, e.NodeID, e.Err)
}

func (e *NodeError) Unwrap() error {
	return e.Err
}

func (e *NodeError) Is(target error) bool {
	return errors.Is(e.Err, target)
}

// VariableError reports a conflicting variable declaration.
type VariableError struct {
	Name      string
	Declared  DataType
	Requested DataType
	Err       error
}

func (e *VariableError) Error() string {
	return fmt.Sprintf("variable %s declared as %s, requested %s: %v", e.Name, e.Declared, e.Requested, e.Err)
}

func (e *VariableError) Unwrap() error {
	return e.Err
}

func (e *VariableError) Is(target error) bool {
	return errors.Is(e.Err, target)
}
