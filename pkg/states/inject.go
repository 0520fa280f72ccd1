package states

import (
	"bytes"
	"encoding/json"

	"github.com/dukex/flowc/pkg/protocol"
	"github.com/dukex/flowc/pkg/spec"
)

// InjectCompiler compiles inject states into a script node merging static data into the
// workflow data.
type InjectCompiler struct{}

func NewInjectCompiler() *InjectCompiler {
	return &InjectCompiler{}
}

func (c *InjectCompiler) Type() spec.StateType { return spec.StateTypeInject }

func (c *InjectCompiler) Name() string { return "Inject" }

func (c *InjectCompiler) Description() string {
	return "Merges static JSON data into the workflow data"
}

func (c *InjectCompiler) Compile(scope *protocol.Scope, state *spec.State) (*protocol.Fragment, error) {
	data := []byte("{}")

	if len(state.Data) > 0 {
		var obj map[string]any
		if err := json.Unmarshal(state.Data, &obj); err != nil || obj == nil {
			return nil, protocol.InvalidState(state.Name, "inject data must be a JSON object")
		}

		var compact bytes.Buffer
		if err := json.Compact(&compact, state.Data); err != nil {
			return nil, protocol.InvalidState(state.Name, err.Error())
		}

		data = compact.Bytes()
	}

	node, err := scope.Factory.ScriptNode(scope.NextID(), state.Name, ". + "+string(data), scope.Container)
	if err != nil {
		return nil, err
	}

	return &protocol.Fragment{Entry: node.ID, Exits: protocol.ExitsOf(state, node.ID)}, nil
}
