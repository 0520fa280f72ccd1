// Package spec defines the in-memory workflow specification fed to the compiler.
package spec

import (
	"bytes"
	"encoding/json"
	"strings"
)

// StateType identifies the kind of a workflow state.
type StateType string

const (
	StateTypeInject    StateType = "inject"
	StateTypeOperation StateType = "operation"
	StateTypeEvent     StateType = "event"
	StateTypeSwitch    StateType = "switch"
	StateTypeDelay     StateType = "delay"
	StateTypeParallel  StateType = "parallel"
	StateTypeSubflow   StateType = "subflow"
)

// FunctionType selects the node a function reference compiles to.
type FunctionType string

const (
	FunctionTypeRest       FunctionType = "rest"
	FunctionTypeExpression FunctionType = "expression"
	FunctionTypeScript     FunctionType = "script"
	FunctionTypeHuman      FunctionType = "human"
	FunctionTypeRule       FunctionType = "rule"
	FunctionTypeDecision   FunctionType = "decision"
)

// EventKind tells whether the workflow consumes or produces an event.
type EventKind string

const (
	EventKindConsumed EventKind = "consumed"
	EventKindProduced EventKind = "produced"
)

// Workflow is a deserialized workflow document.
type Workflow struct {
	ID          string               `json:"id"          validate:"required"`
	Name        string               `json:"name"        validate:"required"`
	Version     string               `json:"version"`
	Description string               `json:"description,omitempty"`
	Start       Start                `json:"start"`
	Functions   []FunctionDefinition `json:"functions,omitempty" validate:"dive"`
	Events      []EventDefinition    `json:"events,omitempty"    validate:"dive"`
	States      []State              `json:"states"      validate:"required,min=1,dive"`
	Metadata    map[string]string    `json:"metadata,omitempty"`
}

// Function returns the function definition with the given name.
func (w *Workflow) Function(name string) (*FunctionDefinition, bool) {
	for i := range w.Functions {
		if w.Functions[i].Name == name {
			return &w.Functions[i], true
		}
	}

	return nil, false
}

// Event returns the event definition with the given name.
func (w *Workflow) Event(name string) (*EventDefinition, bool) {
	for i := range w.Events {
		if w.Events[i].Name == name {
			return &w.Events[i], true
		}
	}

	return nil, false
}

// State returns the state with the given name.
func (w *Workflow) State(name string) (*State, bool) {
	for i := range w.States {
		if w.States[i].Name == name {
			return &w.States[i], true
		}
	}

	return nil, false
}

// StartState returns the declared start state, or the first state when none is declared.
func (w *Workflow) StartState() (*State, bool) {
	if w.Start.StateName == "" {
		if len(w.States) == 0 {
			return nil, false
		}

		return &w.States[0], true
	}

	return w.State(w.Start.StateName)
}

// Start names the first state and an optional schedule. It decodes from either a plain
// state name or an object.
type Start struct {
	StateName string    `json:"stateName,omitempty"`
	Schedule  *Schedule `json:"schedule,omitempty"`
}

type Schedule struct {
	Cron string `json:"cron"`
}

func (s *Start) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err == nil {
		*s = Start{StateName: name}

		return nil
	}

	type alias Start

	var a alias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}

	*s = Start(a)

	return nil
}

// FunctionDefinition declares an operation states can invoke.
type FunctionDefinition struct {
	Name      string            `json:"name"                validate:"required"`
	Operation string            `json:"operation,omitempty"`
	Type      FunctionType      `json:"type,omitempty"`
	Metadata  map[string]string `json:"metadata,omitempty"`
}

// Meta returns the metadata value for key, matching keys case-insensitively.
func (f *FunctionDefinition) Meta(key string) (string, bool) {
	if v, ok := f.Metadata[key]; ok {
		return v, true
	}

	for k, v := range f.Metadata {
		if strings.EqualFold(k, key) {
			return v, true
		}
	}

	return "", false
}

// EventDefinition declares an event the workflow consumes or produces.
type EventDefinition struct {
	Name   string    `json:"name"   validate:"required"`
	Source string    `json:"source"`
	Type   string    `json:"type"`
	Kind   EventKind `json:"kind,omitempty"`
}

// End marks a state as final. It decodes from `true` or an object; `false` decodes to a
// disabled End.
type End struct {
	Terminate     bool           `json:"terminate,omitempty"`
	ProduceEvents []ProduceEvent `json:"produceEvents,omitempty" validate:"dive"`

	disabled bool
}

// ProduceEvent references an event published when a state ends.
type ProduceEvent struct {
	EventRef string `json:"eventRef" validate:"required"`
	Data     string `json:"data,omitempty"`
}

func (e *End) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)

	switch string(trimmed) {
	case "true":
		*e = End{}

		return nil
	case "false":
		*e = End{disabled: true}

		return nil
	}

	type alias End

	var a alias
	if err := json.Unmarshal(trimmed, &a); err != nil {
		return err
	}

	*e = End(a)

	return nil
}

// Active reports whether the end definition is present and enabled.
func (e *End) Active() bool {
	return e != nil && !e.disabled
}

// State is one step of the workflow. Which fields apply depends on Type.
type State struct {
	Name       string            `json:"name"                 validate:"required"`
	Type       StateType         `json:"type"                 validate:"required,oneof=inject operation event switch delay parallel subflow"`
	Transition string            `json:"transition,omitempty"`
	End        *End              `json:"end,omitempty"`
	Metadata   map[string]string `json:"metadata,omitempty"`

	// inject
	Data json.RawMessage `json:"data,omitempty"`

	// operation
	Actions    []Action `json:"actions,omitempty"    validate:"dive"`
	ActionMode string   `json:"actionMode,omitempty" validate:"omitempty,oneof=sequential parallel"`

	// event
	OnEvents  []OnEvent `json:"onEvents,omitempty" validate:"dive"`
	Exclusive *bool     `json:"exclusive,omitempty"`

	// switch
	DataConditions   []DataCondition   `json:"dataConditions,omitempty"  validate:"dive"`
	EventConditions  []EventCondition  `json:"eventConditions,omitempty" validate:"dive"`
	DefaultCondition *DefaultCondition `json:"defaultCondition,omitempty"`

	// delay
	TimeDelay string `json:"timeDelay,omitempty"`

	// parallel
	Branches       []Branch `json:"branches,omitempty"       validate:"dive"`
	CompletionType string   `json:"completionType,omitempty" validate:"omitempty,oneof=allOf atLeast"`
	NumCompleted   int      `json:"numCompleted,omitempty"   validate:"gte=0"`

	// subflow
	WorkflowID        string `json:"workflowId,omitempty"`
	WaitForCompletion *bool  `json:"waitForCompletion,omitempty"`
}

// IsExclusive reports whether an event state waits for the first of its events only.
func (s *State) IsExclusive() bool {
	return s.Exclusive == nil || *s.Exclusive
}

// WaitsForCompletion reports whether a subflow state waits for the called workflow.
func (s *State) WaitsForCompletion() bool {
	return s.WaitForCompletion == nil || *s.WaitForCompletion
}

// Action invokes a function.
type Action struct {
	Name        string `json:"name,omitempty"`
	FunctionRef string `json:"functionRef" validate:"required"`
}

// OnEvent runs actions once the referenced events arrive.
type OnEvent struct {
	EventRefs []string `json:"eventRefs" validate:"required,min=1"`
	Actions   []Action `json:"actions,omitempty" validate:"dive"`
}

// DataCondition routes to Transition or End when Condition holds.
type DataCondition struct {
	Name       string `json:"name,omitempty"`
	Condition  string `json:"condition" validate:"required"`
	Transition string `json:"transition,omitempty"`
	End        *End   `json:"end,omitempty"`
}

// EventCondition routes to Transition or End when EventRef arrives first.
type EventCondition struct {
	Name       string `json:"name,omitempty"`
	EventRef   string `json:"eventRef" validate:"required"`
	Transition string `json:"transition,omitempty"`
	End        *End   `json:"end,omitempty"`
}

type DefaultCondition struct {
	Transition string `json:"transition,omitempty"`
	End        *End   `json:"end,omitempty"`
}

// Branch is one concurrently executed set of actions of a parallel state.
type Branch struct {
	Name    string   `json:"name"    validate:"required"`
	Actions []Action `json:"actions" validate:"dive"`
}
