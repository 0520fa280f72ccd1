package compiler

import (
	"errors"

	"github.com/dukex/flowc/pkg/registry"
)

var (
	// ErrInvalidWorkflow indicates a workflow that cannot be compiled into a process.
	ErrInvalidWorkflow = errors.New("invalid workflow")

	// ErrUnsupportedState indicates a state type without a registered compiler.
	ErrUnsupportedState = registry.ErrUnsupportedState
)

// IsInvalidWorkflow checks if an error was caused by an invalid workflow.
func IsInvalidWorkflow(err error) bool {
	return errors.Is(err, ErrInvalidWorkflow)
}
