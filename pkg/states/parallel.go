package states

import (
	"fmt"

	"github.com/dukex/flowc/pkg/models"
	"github.com/dukex/flowc/pkg/protocol"
	"github.com/dukex/flowc/pkg/spec"
)

const CompletionAtLeast = "atLeast"

// ParallelCompiler compiles parallel states into an AND split, one auto-completing
// composite node per branch, and a join waiting for all branches or for numCompleted.
type ParallelCompiler struct{}

func NewParallelCompiler() *ParallelCompiler {
	return &ParallelCompiler{}
}

func (c *ParallelCompiler) Type() spec.StateType { return spec.StateTypeParallel }

func (c *ParallelCompiler) Name() string { return "Parallel" }

func (c *ParallelCompiler) Description() string {
	return "Runs branches concurrently and joins them"
}

func (c *ParallelCompiler) Compile(scope *protocol.Scope, state *spec.State) (*protocol.Fragment, error) {
	if len(state.Branches) == 0 {
		return nil, protocol.InvalidState(state.Name, "parallel state requires branches")
	}

	atLeast := state.CompletionType == CompletionAtLeast
	if atLeast && (state.NumCompleted < 1 || state.NumCompleted > len(state.Branches)) {
		return nil, protocol.InvalidState(state.Name, fmt.Sprintf("numCompleted must be between 1 and %d", len(state.Branches)))
	}

	split, err := scope.Factory.SplitNode(scope.NextID(), state.Name+"Split", models.SplitTypeAnd, scope.Container)
	if err != nil {
		return nil, err
	}

	branches := make([][2]int64, 0, len(state.Branches))

	for _, branch := range state.Branches {
		id, err := c.branch(scope, state, branch)
		if err != nil {
			return nil, err
		}

		branches = append(branches, [2]int64{id, id})
	}

	var join *models.Node
	if atLeast {
		join, err = scope.Factory.NOfMJoinNode(scope.NextID(), state.Name+"Join", state.NumCompleted, scope.Container)
	} else {
		join, err = scope.Factory.JoinNode(scope.NextID(), state.Name+"Join", models.JoinTypeAnd, scope.Container)
	}

	if err != nil {
		return nil, err
	}

	if err := fanOut(scope, split.ID, join.ID, branches); err != nil {
		return nil, err
	}

	return &protocol.Fragment{Entry: split.ID, Exits: protocol.ExitsOf(state, join.ID)}, nil
}

// branch builds a composite node running the branch actions between its own start and end.
func (c *ParallelCompiler) branch(scope *protocol.Scope, state *spec.State, branch spec.Branch) (int64, error) {
	composite, err := scope.Factory.SubProcessNode(scope.NextID(), branch.Name, scope.Container)
	if err != nil {
		return 0, err
	}

	inner := scope.In(composite.Composite.Nodes)

	start, err := inner.Factory.StartNode(inner.NextID(), branch.Name+"Start", inner.Container)
	if err != nil {
		return 0, err
	}

	_, last, err := chain(inner, state, start.ID, branch.Actions)
	if err != nil {
		return 0, err
	}

	if last == 0 {
		last = start.ID
	}

	end, err := inner.Factory.EndNode(inner.NextID(), branch.Name+"End", false, inner.Container)
	if err != nil {
		return 0, err
	}

	if err := inner.Factory.Connect(last, end.ID, inner.Container); err != nil {
		return 0, err
	}

	return composite.ID, nil
}
