// Package models defines the compiled process graph handed to the execution engine.
package models

import (
	"fmt"
	"strconv"
)

// NodeKind tags the variant carried by a Node.
type NodeKind string

const (
	NodeKindStart      NodeKind = "start"
	NodeKindEnd        NodeKind = "end"
	NodeKindTimer      NodeKind = "timer"
	NodeKindAction     NodeKind = "action"
	NodeKindSplit      NodeKind = "split"
	NodeKindJoin       NodeKind = "join"
	NodeKindEvent      NodeKind = "event"
	NodeKindWorkItem   NodeKind = "work_item"
	NodeKindHumanTask  NodeKind = "human_task"
	NodeKindRuleSet    NodeKind = "rule_set"
	NodeKindSubProcess NodeKind = "sub_process"
	NodeKindComposite  NodeKind = "composite"
)

// Node is a single step of the process graph. The header is common to every kind;
// exactly one payload pointer is set and it matches Kind.
type Node struct {
	ID       int64    `json:"id"`
	Name     string   `json:"name"     validate:"required"`
	Kind     NodeKind `json:"kind"     validate:"required"`
	Metadata Metadata `json:"metadata"`

	Start      *StartNode      `json:"start,omitempty"`
	End        *EndNode        `json:"end,omitempty"`
	Timer      *TimerNode      `json:"timer,omitempty"`
	Action     *ActionNode     `json:"action,omitempty"`
	Split      *SplitNode      `json:"split,omitempty"`
	Join       *JoinNode       `json:"join,omitempty"`
	Event      *EventNode      `json:"event,omitempty"`
	WorkItem   *WorkItemNode   `json:"work_item,omitempty"`
	RuleSet    *RuleSetNode    `json:"rule_set,omitempty"`
	SubProcess *SubProcessNode `json:"sub_process,omitempty"`
	Composite  *CompositeNode  `json:"composite,omitempty"`
}

// NewNode creates a node header with its UniqueId metadata populated.
func NewNode(id int64, name string, kind NodeKind) *Node {
	n := &Node{ID: id, Name: name, Kind: kind}
	n.Metadata.Set(MetadataUniqueID, strconv.FormatInt(id, 10))

	return n
}

// Mappings returns the in and out mappings of data-bearing nodes.
func (n *Node) Mappings() (in []Mapping, out []Mapping) {
	switch {
	case n.WorkItem != nil:
		return n.WorkItem.InMappings, n.WorkItem.OutMappings
	case n.RuleSet != nil:
		return n.RuleSet.InMappings, n.RuleSet.OutMappings
	case n.SubProcess != nil:
		return n.SubProcess.InMappings, n.SubProcess.OutMappings
	}

	return nil, nil
}

// Validate checks that the payload matches the declared kind.
func (n *Node) Validate() error {
	var ok bool

	switch n.Kind {
	case NodeKindStart:
		ok = n.Start != nil
	case NodeKindEnd:
		ok = n.End != nil
	case NodeKindTimer:
		ok = n.Timer != nil
	case NodeKindAction:
		ok = n.Action != nil
	case NodeKindSplit:
		ok = n.Split != nil
	case NodeKindJoin:
		ok = n.Join != nil
	case NodeKindEvent:
		ok = n.Event != nil
	case NodeKindWorkItem, NodeKindHumanTask:
		ok = n.WorkItem != nil
	case NodeKindRuleSet:
		ok = n.RuleSet != nil
	case NodeKindSubProcess:
		ok = n.SubProcess != nil
	case NodeKindComposite:
		ok = n.Composite != nil && n.Composite.Nodes != nil
	}

	if !ok {
		return &NodeError{Op: "Validate", NodeID: n.ID, Err: fmt.Errorf("%w: kind %q without matching payload", ErrInvalidNode, n.Kind)}
	}

	return nil
}

// Mapping records a data transfer between a process variable and a node-local parameter.
type Mapping struct {
	Variable  string `json:"variable"`
	Parameter string `json:"parameter"`
}

// Trigger correlates an external event with the activation of a start node.
type Trigger struct {
	EventType string   `json:"event_type"`
	Ref       string   `json:"ref,omitempty"`
	Mapping   *Mapping `json:"mapping,omitempty"`
}

// TimerType distinguishes delay timers from cron schedules.
type TimerType string

const (
	TimerTypeDelay TimerType = "delay"
	TimerTypeCron  TimerType = "cron"
)

// Timer describes when a timer fires. The expression is interpreted by the runtime.
type Timer struct {
	Type       TimerType `json:"type"`
	Expression string    `json:"expression"`
}

// ActionType distinguishes inline scripts from message publication.
type ActionType string

const (
	ActionTypeScript         ActionType = "script"
	ActionTypeProduceMessage ActionType = "produce_message"
)

// Action is an executable payload attached to action nodes or node lifecycle hooks.
type Action struct {
	Type        ActionType `json:"type"`
	Dialect     string     `json:"dialect,omitempty"`
	Script      string     `json:"script,omitempty"`
	Variable    string     `json:"variable,omitempty"`
	MessageType DataType   `json:"message_type,omitempty"`
	TriggerRef  string     `json:"trigger_ref,omitempty"`
}

type StartNode struct {
	Triggers []Trigger `json:"triggers,omitempty"`
	Timer    *Timer    `json:"timer,omitempty"`
}

type EndNode struct {
	// Terminate ends the whole process instance instead of the enclosing container only.
	Terminate    bool     `json:"terminate"`
	EnterActions []Action `json:"enter_actions,omitempty"`
}

type TimerNode struct {
	Timer Timer `json:"timer"`
}

type ActionNode struct {
	Action Action `json:"action"`
}

type EventNode struct {
	// Type is the correlation type the runtime matches incoming events against.
	Type         string `json:"type"`
	VariableName string `json:"variable_name"`
}

// WorkItemNode is shared by service tasks and human tasks.
type WorkItemNode struct {
	Work        Work      `json:"work"`
	InMappings  []Mapping `json:"in_mappings"`
	OutMappings []Mapping `json:"out_mappings"`
}

type RuleSetNode struct {
	Language    string    `json:"language"`
	RuleType    RuleType  `json:"rule_type"`
	InMappings  []Mapping `json:"in_mappings"`
	OutMappings []Mapping `json:"out_mappings"`
}

type SubProcessNode struct {
	ProcessID         string    `json:"process_id"`
	WaitForCompletion bool      `json:"wait_for_completion"`
	Independent       bool      `json:"independent"`
	InMappings        []Mapping `json:"in_mappings"`
	OutMappings       []Mapping `json:"out_mappings"`
}

// CompositeNode embeds a container, completing when all its nodes have completed.
type CompositeNode struct {
	AutoComplete bool           `json:"auto_complete"`
	Nodes        *NodeContainer `json:"nodes"`
}
