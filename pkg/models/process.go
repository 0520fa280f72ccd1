package models

import (
	"errors"
	"fmt"
)

const (
	VisibilityPublic  = "Public"
	VisibilityPrivate = "Private"
)

// ProcessDefinition is the compiled, executable form of a workflow.
type ProcessDefinition struct {
	ID           string         `json:"id"           validate:"required"`
	Name         string         `json:"name"         validate:"required"`
	Version      string         `json:"version"`
	PackageName  string         `json:"package_name" validate:"required"`
	AutoComplete bool           `json:"auto_complete"`
	Visibility   string         `json:"visibility"   validate:"oneof=Public Private"`
	Imports      []string       `json:"imports"`
	Variables    *VariableScope `json:"variables"`
	Nodes        *NodeContainer `json:"nodes"`
	Metadata     Metadata       `json:"metadata,omitempty"`
}

// NewProcessDefinition creates an empty, publicly visible, auto-completing process.
func NewProcessDefinition(id, name, version, packageName string) *ProcessDefinition {
	return &ProcessDefinition{
		ID:           id,
		Name:         name,
		Version:      version,
		PackageName:  packageName,
		AutoComplete: true,
		Visibility:   VisibilityPublic,
		Imports:      make([]string, 0),
		Variables:    NewVariableScope(),
		Nodes:        NewNodeContainer(),
	}
}

// NodeCount returns the number of nodes in the whole container tree.
func (p *ProcessDefinition) NodeCount() int {
	count := 0

	_ = p.Nodes.Walk(func(*Node, *NodeContainer) error {
		count++

		return nil
	})

	return count
}

// Validate checks the construction invariants: every node payload matches its kind and every
// variable referenced by a mapping or trigger is declared in the process scope.
func (p *ProcessDefinition) Validate() error {
	var errs []error

	err := p.Nodes.Walk(func(n *Node, _ *NodeContainer) error {
		if err := n.Validate(); err != nil {
			errs = append(errs, err)
		}

		in, out := n.Mappings()
		for _, mappings := range [][]Mapping{in, out} {
			for _, m := range mappings {
				errs = append(errs, p.checkVariable(n.ID, m.Variable))
			}
		}

		if n.Start != nil {
			for _, t := range n.Start.Triggers {
				if t.Mapping != nil {
					errs = append(errs, p.checkVariable(n.ID, t.Mapping.Variable))
				}
			}
		}

		if n.Event != nil && n.Event.VariableName != "" {
			errs = append(errs, p.checkVariable(n.ID, n.Event.VariableName))
		}

		return nil
	})
	if err != nil {
		return err
	}

	return errors.Join(errs...)
}

func (p *ProcessDefinition) checkVariable(nodeID int64, name string) error {
	if _, ok := p.Variables.Lookup(name); ok {
		return nil
	}

	return &NodeError{Op: "Validate", NodeID: nodeID, Err: fmt.Errorf("%w: %s", ErrUnknownVariable, name)}
}
