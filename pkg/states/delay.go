package states

import (
	"github.com/dukex/flowc/pkg/protocol"
	"github.com/dukex/flowc/pkg/spec"
)

// DelayCompiler compiles delay states into a timer node.
type DelayCompiler struct{}

func NewDelayCompiler() *DelayCompiler {
	return &DelayCompiler{}
}

func (c *DelayCompiler) Type() spec.StateType { return spec.StateTypeDelay }

func (c *DelayCompiler) Name() string { return "Delay" }

func (c *DelayCompiler) Description() string {
	return "Waits for a time delay before continuing"
}

func (c *DelayCompiler) Compile(scope *protocol.Scope, state *spec.State) (*protocol.Fragment, error) {
	if state.TimeDelay == "" {
		return nil, protocol.InvalidState(state.Name, "delay state requires timeDelay")
	}

	node, err := scope.Factory.TimerNode(scope.NextID(), state.Name, state.TimeDelay, scope.Container)
	if err != nil {
		return nil, err
	}

	return &protocol.Fragment{Entry: node.ID, Exits: protocol.ExitsOf(state, node.ID)}, nil
}
