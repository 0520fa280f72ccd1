package models

import (
	"encoding/json"
	"fmt"
)

// DataType tags the type of a process variable or a work parameter.
type DataType string

const (
	// DataTypeJSON is the canonical payload type carried by messages and work parameters.
	DataTypeJSON   DataType = "json"
	DataTypeString DataType = "string"
)

// DefaultWorkflowVariable is the process variable every message and task maps against.
const DefaultWorkflowVariable = "workflowdata"

// Variable is a named, typed data slot of a process.
type Variable struct {
	Name string   `json:"name" validate:"required"`
	Type DataType `json:"type" validate:"required"`
}

// VariableScope owns the process-level variables, keeping declaration order.
type VariableScope struct {
	variables []Variable
	index     map[string]int
}

// NewVariableScope creates an empty scope.
func NewVariableScope() *VariableScope {
	return &VariableScope{index: make(map[string]int)}
}

// Declare registers a variable. Declaring the same name with the same type again is a no-op;
// declaring it with a different type fails with ErrVariableTypeConflict.
func (s *VariableScope) Declare(name string, dataType DataType) error {
	if name == "" || dataType == "" {
		return fmt.Errorf("%w: name and type are required", ErrInvalidVariable)
	}

	if s.index == nil {
		s.index = make(map[string]int)
	}

	if i, ok := s.index[name]; ok {
		if s.variables[i].Type != dataType {
			return &VariableError{Name: name, Declared: s.variables[i].Type, Requested: dataType, Err: ErrVariableTypeConflict}
		}

		return nil
	}

	s.index[name] = len(s.variables)
	s.variables = append(s.variables, Variable{Name: name, Type: dataType})

	return nil
}

// Lookup returns the variable declared under name.
func (s *VariableScope) Lookup(name string) (Variable, bool) {
	i, ok := s.index[name]
	if !ok {
		return Variable{}, false
	}

	return s.variables[i], true
}

// Variables returns a copy of the declared variables in declaration order.
func (s *VariableScope) Variables() []Variable {
	out := make([]Variable, len(s.variables))
	copy(out, s.variables)

	return out
}

// Len returns the number of declared variables.
func (s *VariableScope) Len() int {
	return len(s.variables)
}

func (s *VariableScope) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Variables())
}

func (s *VariableScope) UnmarshalJSON(data []byte) error {
	var variables []Variable
	if err := json.Unmarshal(data, &variables); err != nil {
		return err
	}

	*s = VariableScope{index: make(map[string]int)}
	for _, v := range variables {
		if err := s.Declare(v.Name, v.Type); err != nil {
			return err
		}
	}

	return nil
}
