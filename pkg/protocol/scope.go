package protocol

import (
	"github.com/dukex/flowc/pkg/factory"
	"github.com/dukex/flowc/pkg/models"
	"github.com/dukex/flowc/pkg/spec"
)

// Scope is the per-compilation handle passed to state compilers. Scopes derived with In
// share the node id sequence of their parent.
type Scope struct {
	Factory   *factory.Factory
	Workflow  *spec.Workflow
	Process   *models.ProcessDefinition
	Container *models.NodeContainer

	// MessageStart is set when the start state opens the process with message start nodes.
	MessageStart bool

	ids *int64
}

// NewScope creates the root scope of a compilation, targeting the process container.
func NewScope(f *factory.Factory, workflow *spec.Workflow, process *models.ProcessDefinition) *Scope {
	var ids int64

	return &Scope{
		Factory:   f,
		Workflow:  workflow,
		Process:   process,
		Container: process.Nodes,
		ids:       &ids,
	}
}

// NextID returns the next node id of the compilation.
func (s *Scope) NextID() int64 {
	*s.ids++

	return *s.ids
}

// LastID returns the most recently assigned node id.
func (s *Scope) LastID() int64 {
	return *s.ids
}

// In returns a scope building into container, typically the body of a composite node.
func (s *Scope) In(container *models.NodeContainer) *Scope {
	child := *s
	child.Container = container
	child.MessageStart = false

	return &child
}

// StartsWith reports whether state opens the process through message start nodes.
func (s *Scope) StartsWith(state *spec.State) bool {
	if !s.MessageStart {
		return false
	}

	start, ok := s.Workflow.StartState()

	return ok && start.Name == state.Name
}
