package compiler

import (
	"errors"
	"fmt"

	"github.com/robfig/cron/v3"

	"github.com/dukex/flowc/pkg/spec"
)

// Validate checks that every reference of the workflow resolves before any node is built.
// All problems found are reported together.
func Validate(workflow *spec.Workflow) error {
	if err := spec.Validate(workflow); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidWorkflow, err)
	}

	v := &validator{workflow: workflow, names: make(map[string]bool, len(workflow.States))}
	v.run()

	if len(v.errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidWorkflow, errors.Join(v.errs...))
	}

	return nil
}

type validator struct {
	workflow *spec.Workflow
	names    map[string]bool
	errs     []error
}

func (v *validator) fail(format string, args ...any) {
	v.errs = append(v.errs, fmt.Errorf(format, args...))
}

func (v *validator) run() {
	for _, s := range v.workflow.States {
		if v.names[s.Name] {
			v.fail("state %q is declared more than once", s.Name)
		}

		v.names[s.Name] = true
	}

	if _, ok := v.workflow.StartState(); !ok {
		v.fail("start state %q is not defined", v.workflow.Start.StateName)
	}

	if schedule := v.workflow.Start.Schedule; schedule != nil {
		if _, err := cron.ParseStandard(schedule.Cron); err != nil {
			v.fail("start schedule %q: %w", schedule.Cron, err)
		}
	}

	for i := range v.workflow.States {
		v.state(&v.workflow.States[i])
	}
}

func (v *validator) state(s *spec.State) {
	for _, a := range s.Actions {
		v.function(s, a.FunctionRef)
	}

	for _, b := range s.Branches {
		for _, a := range b.Actions {
			v.function(s, a.FunctionRef)
		}
	}

	for _, on := range s.OnEvents {
		for _, ref := range on.EventRefs {
			v.event(s, ref)
		}

		for _, a := range on.Actions {
			v.function(s, a.FunctionRef)
		}
	}

	if s.Type != spec.StateTypeSwitch {
		v.exit(s, "", s.Transition, s.End)

		return
	}

	for i, c := range s.DataConditions {
		v.exit(s, fmt.Sprintf("condition %d", i), c.Transition, c.End)
	}

	for _, c := range s.EventConditions {
		v.event(s, c.EventRef)
		v.exit(s, "event condition "+c.EventRef, c.Transition, c.End)
	}

	if d := s.DefaultCondition; d != nil {
		v.exit(s, "default condition", d.Transition, d.End)
	}
}

func (v *validator) exit(s *spec.State, what, transition string, end *spec.End) {
	where := fmt.Sprintf("state %q", s.Name)
	if what != "" {
		where += " " + what
	}

	if end.Active() {
		for _, pe := range end.ProduceEvents {
			if ev, ok := v.workflow.Event(pe.EventRef); !ok || ev.Source == "" {
				v.fail("%s produces undefined event %q", where, pe.EventRef)
			}
		}

		return
	}

	switch {
	case transition == "":
		v.fail("%s has neither a transition nor an end", where)
	case !v.names[transition]:
		v.fail("%s transitions to undefined state %q", where, transition)
	}
}

func (v *validator) function(s *spec.State, ref string) {
	if _, ok := v.workflow.Function(ref); !ok {
		v.fail("state %q references undefined function %q", s.Name, ref)
	}
}

func (v *validator) event(s *spec.State, ref string) {
	if ev, ok := v.workflow.Event(ref); !ok || ev.Source == "" {
		v.fail("state %q references undefined event %q", s.Name, ref)
	}
}
