// Package protocol defines the contract between the compiler driver and the pluggable
// per-state compilers.
package protocol

import (
	"errors"
	"fmt"

	"github.com/dukex/flowc/pkg/models"
	"github.com/dukex/flowc/pkg/spec"
)

// ErrInvalidState indicates a state that cannot be compiled as declared.
var ErrInvalidState = errors.New("invalid state")

// StateError wraps state compilation errors with the offending state name.
type StateError struct {
	State string
	Err   error
}

func (e *StateError) Error() string {
	return fmt.Sprintf("state %q: %v", e.State, e.Err)
}

func (e *StateError) Unwrap() error {
	return e.Err
}

func (e *StateError) Is(target error) bool {
	return errors.Is(e.Err, target)
}

// InvalidState builds a StateError for a state declared inconsistently.
func InvalidState(state, message string) error {
	return &StateError{State: state, Err: fmt.Errorf("%w: %s", ErrInvalidState, message)}
}

// StateCompiler turns one workflow state into a fragment of the process graph.
type StateCompiler interface {
	// Compile builds the nodes of state into scope's container
	Compile(scope *Scope, state *spec.State) (*Fragment, error)

	// Type returns the state type this compiler handles
	Type() spec.StateType

	// Name returns the human-readable name for this state type
	Name() string

	// Description returns a description of what the state compiles to
	Description() string
}

// Fragment is the subgraph built for a single state. Entry receives the incoming
// transitions; every Exit leaves towards the next state or an end node.
type Fragment struct {
	Entry int64
	Exits []Exit
}

// Exit is an unresolved outgoing edge of a fragment. Exactly one of Transition or End is
// set. When Constraint is set, From is a split and the constraint guards the branch.
type Exit struct {
	From       int64
	Transition string
	End        *spec.End
	Constraint *models.Constraint
}

// ExitsOf returns the exit a state declares through its own transition or end.
func ExitsOf(state *spec.State, from int64) []Exit {
	if state.End.Active() {
		return []Exit{{From: from, End: state.End}}
	}

	return []Exit{{From: from, Transition: state.Transition}}
}
