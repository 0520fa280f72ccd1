package states

import (
	"github.com/dukex/flowc/pkg/models"
	"github.com/dukex/flowc/pkg/protocol"
	"github.com/dukex/flowc/pkg/spec"
)

// EventCompiler compiles event states. Each onEvents entry waits for any one of its events
// and then runs its actions; several entries race through an event-based split when the state is
// exclusive, or all run through an AND split otherwise. The start state opens the process
// with one message start node per entry instead.
type EventCompiler struct{}

func NewEventCompiler() *EventCompiler {
	return &EventCompiler{}
}

func (c *EventCompiler) Type() spec.StateType { return spec.StateTypeEvent }

func (c *EventCompiler) Name() string { return "Event" }

func (c *EventCompiler) Description() string {
	return "Waits for events and runs the actions bound to them"
}

func (c *EventCompiler) Compile(scope *protocol.Scope, state *spec.State) (*protocol.Fragment, error) {
	if len(state.OnEvents) == 0 {
		return nil, protocol.InvalidState(state.Name, "event state requires onEvents")
	}

	if scope.StartsWith(state) {
		return c.compileStart(scope, state)
	}

	branches := make([][2]int64, 0, len(state.OnEvents))

	for _, onEvent := range state.OnEvents {
		first, last, err := c.consume(scope, state, onEvent)
		if err != nil {
			return nil, err
		}

		branches = append(branches, [2]int64{first, last})
	}

	if len(branches) == 1 {
		return &protocol.Fragment{Entry: branches[0][0], Exits: protocol.ExitsOf(state, branches[0][1])}, nil
	}

	splitType := models.SplitTypeAnd
	if state.IsExclusive() {
		splitType = models.SplitTypeXand
	}

	split, err := scope.Factory.SplitNode(scope.NextID(), state.Name+"Split", splitType, scope.Container)
	if err != nil {
		return nil, err
	}

	join, err := scope.Factory.JoinNode(scope.NextID(), state.Name+"Join", models.JoinTypeFor(splitType), scope.Container)
	if err != nil {
		return nil, err
	}

	if err := fanOut(scope, split.ID, join.ID, branches); err != nil {
		return nil, err
	}

	return &protocol.Fragment{Entry: split.ID, Exits: protocol.ExitsOf(state, join.ID)}, nil
}

// consume builds the nodes waiting for an entry's events followed by its actions. Any one
// of the entry's events activates it: several events race through an event-based split
// and converge on an XOR join, matching the triggers of a message start node.
func (c *EventCompiler) consume(scope *protocol.Scope, state *spec.State, onEvent spec.OnEvent) (int64, int64, error) {
	nodes := make([]int64, 0, len(onEvent.EventRefs))

	for _, ref := range onEvent.EventRefs {
		ev, err := event(scope, state, ref)
		if err != nil {
			return 0, 0, err
		}

		node, err := scope.Factory.ConsumeEventNode(scope.NextID(), ev, scope.Container)
		if err != nil {
			return 0, 0, err
		}

		nodes = append(nodes, node.ID)
	}

	if len(nodes) == 0 {
		return 0, 0, protocol.InvalidState(state.Name, "onEvents entry requires eventRefs")
	}

	first, prev := nodes[0], nodes[0]

	if len(nodes) > 1 {
		split, err := scope.Factory.EventBasedSplit(scope.NextID(), state.Name+"Events", scope.Container)
		if err != nil {
			return 0, 0, err
		}

		join, err := scope.Factory.JoinNode(scope.NextID(), state.Name+"EventsJoin", models.JoinTypeXor, scope.Container)
		if err != nil {
			return 0, 0, err
		}

		branches := make([][2]int64, 0, len(nodes))
		for _, id := range nodes {
			branches = append(branches, [2]int64{id, id})
		}

		if err := fanOut(scope, split.ID, join.ID, branches); err != nil {
			return 0, 0, err
		}

		first, prev = split.ID, join.ID
	}

	_, last, err := chain(scope, state, prev, onEvent.Actions)
	if err != nil {
		return 0, 0, err
	}

	if last == 0 {
		last = prev
	}

	return first, last, nil
}

// compileStart builds a message start node per entry. Further events of an entry become
// additional triggers of its start node, each referencing its own source. Only one start node fires per instance, so the
// entries converge on an XOR join.
func (c *EventCompiler) compileStart(scope *protocol.Scope, state *spec.State) (*protocol.Fragment, error) {
	var entry int64

	tails := make([]int64, 0, len(state.OnEvents))

	for _, onEvent := range state.OnEvents {
		if len(onEvent.EventRefs) == 0 {
			return nil, protocol.InvalidState(state.Name, "onEvents entry requires eventRefs")
		}

		primary, err := event(scope, state, onEvent.EventRefs[0])
		if err != nil {
			return nil, err
		}

		start, err := scope.Factory.MessageStartNode(scope.NextID(), state.Name, primary, scope.Container)
		if err != nil {
			return nil, err
		}

		for _, ref := range onEvent.EventRefs[1:] {
			ev, err := event(scope, state, ref)
			if err != nil {
				return nil, err
			}

			if err := scope.Factory.AddMessageTriggerToStartNode(start, ev); err != nil {
				return nil, err
			}
		}

		if entry == 0 {
			entry = start.ID
		}

		_, last, err := chain(scope, state, start.ID, onEvent.Actions)
		if err != nil {
			return nil, err
		}

		if last == 0 {
			last = start.ID
		}

		tails = append(tails, last)
	}

	if len(tails) == 1 {
		return &protocol.Fragment{Entry: entry, Exits: protocol.ExitsOf(state, tails[0])}, nil
	}

	join, err := scope.Factory.JoinNode(scope.NextID(), state.Name+"Join", models.JoinTypeXor, scope.Container)
	if err != nil {
		return nil, err
	}

	for _, tail := range tails {
		if err := scope.Factory.Connect(tail, join.ID, scope.Container); err != nil {
			return nil, err
		}
	}

	return &protocol.Fragment{Entry: entry, Exits: protocol.ExitsOf(state, join.ID)}, nil
}
