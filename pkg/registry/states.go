package registry

import (
	"github.com/dukex/flowc/pkg/states"
)

// RegisterDefaultStates registers the built-in compiler of every state type.
func (r *Registry) RegisterDefaultStates() {
	r.Register(states.NewInjectCompiler())
	r.Register(states.NewOperationCompiler())
	r.Register(states.NewEventCompiler())
	r.Register(states.NewSwitchCompiler())
	r.Register(states.NewDelayCompiler())
	r.Register(states.NewParallelCompiler())
	r.Register(states.NewSubflowCompiler())
}
