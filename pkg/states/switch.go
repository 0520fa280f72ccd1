package states

import (
	"fmt"

	"github.com/dukex/flowc/pkg/models"
	"github.com/dukex/flowc/pkg/protocol"
	"github.com/dukex/flowc/pkg/spec"
)

// SwitchCompiler compiles switch states. Data conditions become jq constraints of an XOR
// split evaluated by priority; event conditions race through an event-based split.
type SwitchCompiler struct{}

func NewSwitchCompiler() *SwitchCompiler {
	return &SwitchCompiler{}
}

func (c *SwitchCompiler) Type() spec.StateType { return spec.StateTypeSwitch }

func (c *SwitchCompiler) Name() string { return "Switch" }

func (c *SwitchCompiler) Description() string {
	return "Routes to the first branch whose data or event condition holds"
}

func (c *SwitchCompiler) Compile(scope *protocol.Scope, state *spec.State) (*protocol.Fragment, error) {
	switch {
	case len(state.DataConditions) > 0 && len(state.EventConditions) > 0:
		return nil, protocol.InvalidState(state.Name, "switch state cannot mix data and event conditions")
	case len(state.DataConditions) > 0:
		return c.compileData(scope, state)
	case len(state.EventConditions) > 0:
		return c.compileEvents(scope, state)
	}

	return nil, protocol.InvalidState(state.Name, "switch state requires conditions")
}

func (c *SwitchCompiler) compileData(scope *protocol.Scope, state *spec.State) (*protocol.Fragment, error) {
	split, err := scope.Factory.SplitNode(scope.NextID(), state.Name, models.SplitTypeXor, scope.Container)
	if err != nil {
		return nil, err
	}

	exits := make([]protocol.Exit, 0, len(state.DataConditions)+1)

	for i, cond := range state.DataConditions {
		name := cond.Name
		if name == "" {
			name = fmt.Sprintf("%s_%d", state.Name, i)
		}

		constraint := scope.Factory.SplitConstraint(name, models.ConstraintTypeCode, models.DialectJQ, cond.Condition, i, false)

		exit := exitFor(split.ID, cond.Transition, cond.End)
		exit.Constraint = &constraint
		exits = append(exits, exit)
	}

	if d := state.DefaultCondition; d != nil {
		constraint := scope.Factory.SplitConstraint(state.Name+"_default", models.ConstraintTypeCode, models.DialectJQ, "", len(state.DataConditions), true)

		exit := exitFor(split.ID, d.Transition, d.End)
		exit.Constraint = &constraint
		exits = append(exits, exit)
	}

	return &protocol.Fragment{Entry: split.ID, Exits: exits}, nil
}

func (c *SwitchCompiler) compileEvents(scope *protocol.Scope, state *spec.State) (*protocol.Fragment, error) {
	if state.DefaultCondition != nil {
		return nil, protocol.InvalidState(state.Name, "event conditions do not support a default condition")
	}

	split, err := scope.Factory.EventBasedSplit(scope.NextID(), state.Name, scope.Container)
	if err != nil {
		return nil, err
	}

	exits := make([]protocol.Exit, 0, len(state.EventConditions))

	for _, cond := range state.EventConditions {
		ev, err := event(scope, state, cond.EventRef)
		if err != nil {
			return nil, err
		}

		node, err := scope.Factory.ConsumeEventNode(scope.NextID(), ev, scope.Container)
		if err != nil {
			return nil, err
		}

		if err := scope.Factory.Connect(split.ID, node.ID, scope.Container); err != nil {
			return nil, err
		}

		exits = append(exits, exitFor(node.ID, cond.Transition, cond.End))
	}

	return &protocol.Fragment{Entry: split.ID, Exits: exits}, nil
}
