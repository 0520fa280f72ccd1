// Package states provides the compilers turning each workflow state type into nodes.
package states

import (
	"fmt"

	"github.com/dukex/flowc/pkg/models"
	"github.com/dukex/flowc/pkg/protocol"
	"github.com/dukex/flowc/pkg/spec"
)

// actionNode builds the node invoking the function an action references. The function type
// selects the node kind.
func actionNode(scope *protocol.Scope, state *spec.State, action spec.Action) (*models.Node, error) {
	fn, ok := scope.Workflow.Function(action.FunctionRef)
	if !ok {
		return nil, protocol.InvalidState(state.Name, fmt.Sprintf("function %q is not defined", action.FunctionRef))
	}

	name := action.Name
	if name == "" {
		name = fn.Name
	}

	id := scope.NextID()

	switch fn.Type {
	case spec.FunctionTypeRest, "":
		return scope.Factory.ServiceNode(id, name, fn, scope.Container)
	case spec.FunctionTypeExpression, spec.FunctionTypeScript:
		return scope.Factory.ScriptNode(id, name, fn.Operation, scope.Container)
	case spec.FunctionTypeHuman:
		return scope.Factory.HumanTaskNode(id, name, fn, scope.Process, scope.Container)
	case spec.FunctionTypeRule, spec.FunctionTypeDecision:
		return scope.Factory.RuleSetNode(id, name, fn, scope.Container)
	}

	return nil, protocol.InvalidState(state.Name, fmt.Sprintf("function %q has unsupported type %q", fn.Name, fn.Type))
}

// chain builds actions connected one after the other, continuing from prev when it is not
// zero. It returns the first and last node ids, both zero when there are no actions.
func chain(scope *protocol.Scope, state *spec.State, prev int64, actions []spec.Action) (int64, int64, error) {
	var first int64

	for _, action := range actions {
		node, err := actionNode(scope, state, action)
		if err != nil {
			return 0, 0, err
		}

		if first == 0 {
			first = node.ID
		}

		if prev != 0 {
			if err := scope.Factory.Connect(prev, node.ID, scope.Container); err != nil {
				return 0, 0, err
			}
		}

		prev = node.ID
	}

	return first, prev, nil
}

// fanOut connects split to every branch entry and every branch tail to join.
func fanOut(scope *protocol.Scope, split, join int64, branches [][2]int64) error {
	for _, b := range branches {
		if err := scope.Factory.Connect(split, b[0], scope.Container); err != nil {
			return err
		}

		if err := scope.Factory.Connect(b[1], join, scope.Container); err != nil {
			return err
		}
	}

	return nil
}

// exitFor returns the exit a condition declares through its transition or end.
func exitFor(from int64, transition string, end *spec.End) protocol.Exit {
	if end.Active() {
		return protocol.Exit{From: from, End: end}
	}

	return protocol.Exit{From: from, Transition: transition}
}

func event(scope *protocol.Scope, state *spec.State, ref string) (*spec.EventDefinition, error) {
	ev, ok := scope.Workflow.Event(ref)
	if !ok {
		return nil, protocol.InvalidState(state.Name, fmt.Sprintf("event %q is not defined", ref))
	}

	return ev, nil
}
