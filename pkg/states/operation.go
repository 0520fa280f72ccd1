package states

import (
	"github.com/dukex/flowc/pkg/models"
	"github.com/dukex/flowc/pkg/protocol"
	"github.com/dukex/flowc/pkg/spec"
)

const ActionModeParallel = "parallel"

// OperationCompiler compiles operation states into their actions, run in sequence or
// between an AND split and join.
type OperationCompiler struct{}

func NewOperationCompiler() *OperationCompiler {
	return &OperationCompiler{}
}

func (c *OperationCompiler) Type() spec.StateType { return spec.StateTypeOperation }

func (c *OperationCompiler) Name() string { return "Operation" }

func (c *OperationCompiler) Description() string {
	return "Invokes functions sequentially or in parallel"
}

func (c *OperationCompiler) Compile(scope *protocol.Scope, state *spec.State) (*protocol.Fragment, error) {
	if len(state.Actions) == 0 {
		return nil, protocol.InvalidState(state.Name, "operation state requires at least one action")
	}

	if state.ActionMode != ActionModeParallel || len(state.Actions) == 1 {
		first, last, err := chain(scope, state, 0, state.Actions)
		if err != nil {
			return nil, err
		}

		return &protocol.Fragment{Entry: first, Exits: protocol.ExitsOf(state, last)}, nil
	}

	split, err := scope.Factory.SplitNode(scope.NextID(), state.Name+"Split", models.SplitTypeAnd, scope.Container)
	if err != nil {
		return nil, err
	}

	branches := make([][2]int64, 0, len(state.Actions))

	for _, action := range state.Actions {
		node, err := actionNode(scope, state, action)
		if err != nil {
			return nil, err
		}

		branches = append(branches, [2]int64{node.ID, node.ID})
	}

	join, err := scope.Factory.JoinNode(scope.NextID(), state.Name+"Join", models.JoinTypeAnd, scope.Container)
	if err != nil {
		return nil, err
	}

	if err := fanOut(scope, split.ID, join.ID, branches); err != nil {
		return nil, err
	}

	return &protocol.Fragment{Entry: split.ID, Exits: protocol.ExitsOf(state, join.ID)}, nil
}
