package states

import (
	"github.com/dukex/flowc/pkg/protocol"
	"github.com/dukex/flowc/pkg/spec"
)

// SubflowCompiler compiles subflow states into a call activity.
type SubflowCompiler struct{}

func NewSubflowCompiler() *SubflowCompiler {
	return &SubflowCompiler{}
}

func (c *SubflowCompiler) Type() spec.StateType { return spec.StateTypeSubflow }

func (c *SubflowCompiler) Name() string { return "Subflow" }

func (c *SubflowCompiler) Description() string {
	return "Invokes another workflow by id"
}

func (c *SubflowCompiler) Compile(scope *protocol.Scope, state *spec.State) (*protocol.Fragment, error) {
	if state.WorkflowID == "" {
		return nil, protocol.InvalidState(state.Name, "subflow state requires workflowId")
	}

	node, err := scope.Factory.CallActivity(scope.NextID(), state.Name, state.WorkflowID, state.WaitsForCompletion(), scope.Container)
	if err != nil {
		return nil, err
	}

	return &protocol.Fragment{Entry: node.ID, Exits: protocol.ExitsOf(state, node.ID)}, nil
}
