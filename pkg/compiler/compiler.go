// Package compiler drives the translation of a workflow into a process definition, feeding
// its states one at a time to the registered state compilers and wiring the fragments they
// return.
package compiler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/dukex/flowc/pkg/factory"
	"github.com/dukex/flowc/pkg/models"
	"github.com/dukex/flowc/pkg/otelhelper"
	"github.com/dukex/flowc/pkg/protocol"
	"github.com/dukex/flowc/pkg/registry"
	"github.com/dukex/flowc/pkg/spec"
)

// Compiler holds no per-compilation state and can compile independent workflows
// concurrently.
type Compiler struct {
	logger   *slog.Logger
	factory  *factory.Factory
	registry *registry.Registry
	tracer   trace.Tracer
}

// NewCompiler creates a compiler. A nil tracer disables tracing.
func NewCompiler(logger *slog.Logger, f *factory.Factory, reg *registry.Registry, tracer trace.Tracer) *Compiler {
	if tracer == nil {
		tracer = otelhelper.NoopTracer()
	}

	return &Compiler{
		logger:   logger.With("module", "compiler"),
		factory:  f,
		registry: reg,
		tracer:   tracer,
	}
}

// Compile translates workflow into a validated process definition.
func (c *Compiler) Compile(ctx context.Context, workflow *spec.Workflow) (*models.ProcessDefinition, error) {
	if workflow == nil {
		return nil, fmt.Errorf("%w: workflow is nil", ErrInvalidWorkflow)
	}

	_, span := otelhelper.StartSpan(ctx, c.tracer, "compiler.compile",
		attribute.String(otelhelper.ProcessIDKey, workflow.ID),
		attribute.String(otelhelper.ProcessNameKey, workflow.Name),
		attribute.String(otelhelper.ProcessVersionKey, workflow.Version),
	)
	defer span.End()

	process, err := c.compile(workflow)
	if err != nil {
		otelhelper.SetError(span, err, attribute.String(otelhelper.ProcessIDKey, workflow.ID))
		c.logger.Debug("Compilation failed", "process_id", workflow.ID, "error", err)

		return nil, err
	}

	count := process.NodeCount()
	span.SetAttributes(attribute.Int(otelhelper.NodeCountKey, count))
	c.logger.Info("Compiled workflow", "process_id", process.ID, "version", process.Version, "nodes", count)

	return process, nil
}

func (c *Compiler) compile(workflow *spec.Workflow) (*models.ProcessDefinition, error) {
	if err := Validate(workflow); err != nil {
		return nil, err
	}

	process, err := c.factory.CreateProcess(workflow)
	if err != nil {
		return nil, wrap(err)
	}

	scope := protocol.NewScope(c.factory, workflow, process)
	startState, _ := workflow.StartState()
	scope.MessageStart = startState.Type == spec.StateTypeEvent && workflow.Start.Schedule == nil

	var start *models.Node
	if !scope.MessageStart {
		if start, err = c.startNode(scope, workflow); err != nil {
			return nil, wrap(err)
		}
	}

	fragments := make(map[string]*protocol.Fragment, len(workflow.States))

	for i := range workflow.States {
		state := &workflow.States[i]
		before := scope.LastID()

		fragment, err := c.registry.Compile(scope, state)
		if err != nil {
			return nil, wrap(err)
		}

		if _, ok := process.Nodes.Node(fragment.Entry); !ok {
			return nil, wrap(protocol.InvalidState(state.Name, "compiled without an entry node"))
		}

		tagState(process, before, scope.LastID(), state.Name)
		fragments[state.Name] = fragment
	}

	if start != nil {
		if err := c.factory.Connect(start.ID, fragments[startState.Name].Entry, process.Nodes); err != nil {
			return nil, wrap(err)
		}
	}

	for i := range workflow.States {
		state := &workflow.States[i]

		for _, exit := range fragments[state.Name].Exits {
			if err := c.resolve(scope, state, fragments, exit); err != nil {
				return nil, wrap(err)
			}
		}
	}

	if err := process.Validate(); err != nil {
		return nil, wrap(err)
	}

	return process, nil
}

func (c *Compiler) startNode(scope *protocol.Scope, workflow *spec.Workflow) (*models.Node, error) {
	start, err := c.factory.StartNode(scope.NextID(), "Start", scope.Container)
	if err != nil {
		return nil, err
	}

	if schedule := workflow.Start.Schedule; schedule != nil {
		start.Start.Timer = &models.Timer{Type: models.TimerTypeCron, Expression: schedule.Cron}
	}

	return start, nil
}

// resolve connects an exit to the entry of its target state or to a new end node, attaching
// the exit constraint to the branch of its split.
func (c *Compiler) resolve(scope *protocol.Scope, state *spec.State, fragments map[string]*protocol.Fragment, exit protocol.Exit) error {
	var target int64

	if exit.End != nil {
		before := scope.LastID()

		id, err := c.endNodes(scope, state, exit.End)
		if err != nil {
			return err
		}

		tagState(scope.Process, before, scope.LastID(), state.Name)
		target = id
	} else {
		fragment, ok := fragments[exit.Transition]
		if !ok {
			return protocol.InvalidState(state.Name, fmt.Sprintf("transition to undefined state %q", exit.Transition))
		}

		if node, _ := scope.Container.Node(fragment.Entry); node.Kind == models.NodeKindStart {
			return protocol.InvalidState(state.Name, fmt.Sprintf("cannot transition to message start state %q", exit.Transition))
		}

		target = fragment.Entry
	}

	if exit.Constraint != nil {
		split, ok := scope.Container.Node(exit.From)
		if !ok || split.Split == nil {
			return protocol.InvalidState(state.Name, "conditional exit does not leave a split")
		}

		if _, exists := split.Split.Constraint(target); exists {
			return protocol.InvalidState(state.Name, fmt.Sprintf("several conditions lead to %q", exit.Transition))
		}

		split.Split.SetConstraint(target, *exit.Constraint)
	}

	return c.factory.Connect(exit.From, target, scope.Container)
}

// endNodes builds the end of a path. Every produced event but the last is published by a
// send-event node ahead of the message end node, preserving their declared order.
func (c *Compiler) endNodes(scope *protocol.Scope, state *spec.State, end *spec.End) (int64, error) {
	name := state.Name + "End"

	if len(end.ProduceEvents) == 0 {
		node, err := c.factory.EndNode(scope.NextID(), name, end.Terminate, scope.Container)
		if err != nil {
			return 0, err
		}

		return node.ID, nil
	}

	var entry, prev int64

	last := len(end.ProduceEvents) - 1

	for _, pe := range end.ProduceEvents[:last] {
		ev, _ := scope.Workflow.Event(pe.EventRef)

		node, err := c.factory.SendEventNode(scope.NextID(), ev, scope.Container)
		if err != nil {
			return 0, err
		}

		if err := link(c.factory, scope, &entry, &prev, node.ID); err != nil {
			return 0, err
		}
	}

	final := &spec.End{Terminate: end.Terminate, ProduceEvents: end.ProduceEvents[last:]}

	node, err := c.factory.MessageEndNode(scope.NextID(), name, scope.Workflow, final, scope.Container)
	if err != nil {
		return 0, err
	}

	if err := link(c.factory, scope, &entry, &prev, node.ID); err != nil {
		return 0, err
	}

	return entry, nil
}

func link(f *factory.Factory, scope *protocol.Scope, entry, prev *int64, id int64) error {
	if *entry == 0 {
		*entry = id
	} else if err := f.Connect(*prev, id, scope.Container); err != nil {
		return err
	}

	*prev = id

	return nil
}

// tagState records the state name on the nodes with ids in (from, to].
func tagState(process *models.ProcessDefinition, from, to int64, state string) {
	_ = process.Nodes.Walk(func(n *models.Node, _ *models.NodeContainer) error {
		if n.ID > from && n.ID <= to && !n.Metadata.Has(models.MetadataState) {
			n.Metadata.Set(models.MetadataState, state)
		}

		return nil
	})
}

func wrap(err error) error {
	if errors.Is(err, ErrInvalidWorkflow) {
		return err
	}

	return fmt.Errorf("%w: %w", ErrInvalidWorkflow, err)
}
