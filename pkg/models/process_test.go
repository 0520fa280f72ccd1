package models

import (
	"encoding/json"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newServiceNode(id int64, variable string) *Node {
	n := NewNode(id, "service", NodeKindWorkItem)
	n.WorkItem = &WorkItemNode{
		Work:        NewWork(ServiceTaskType),
		InMappings:  []Mapping{{Variable: variable, Parameter: "Parameter"}},
		OutMappings: []Mapping{{Variable: variable, Parameter: "Result"}},
	}

	return n
}

func TestNewProcessDefinition_Defaults(t *testing.T) {
	p := NewProcessDefinition("serverless", "workflow", "1.0", "org.example")

	assert.True(t, p.AutoComplete)
	assert.Equal(t, VisibilityPublic, p.Visibility)
	assert.NotNil(t, p.Imports)
	assert.NotNil(t, p.Variables)
	assert.NotNil(t, p.Nodes)

	validate := validator.New(validator.WithRequiredStructEnabled())
	assert.NoError(t, validate.Struct(p))
}

func TestProcessDefinition_Validate(t *testing.T) {
	p := NewProcessDefinition("p", "p", "1.0", "pkg")
	require.NoError(t, p.Variables.Declare(DefaultWorkflowVariable, DataTypeJSON))
	require.NoError(t, p.Nodes.AddNode(newServiceNode(1, DefaultWorkflowVariable)))

	assert.NoError(t, p.Validate())
}

func TestProcessDefinition_Validate_UnknownVariable(t *testing.T) {
	p := NewProcessDefinition("p", "p", "1.0", "pkg")
	require.NoError(t, p.Nodes.AddNode(newServiceNode(1, "missing")))

	err := p.Validate()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnknownVariable)
}

func TestProcessDefinition_Validate_PayloadMismatch(t *testing.T) {
	p := NewProcessDefinition("p", "p", "1.0", "pkg")
	require.NoError(t, p.Nodes.AddNode(NewNode(1, "broken", NodeKindTimer)))

	assert.ErrorIs(t, p.Validate(), ErrInvalidNode)
}

func TestProcessDefinition_NodeCountIncludesComposites(t *testing.T) {
	p := NewProcessDefinition("p", "p", "1.0", "pkg")

	inner := NewNodeContainer()
	require.NoError(t, inner.AddNode(NewNode(1, "inner", NodeKindAction)))

	composite := NewNode(1, "branch", NodeKindComposite)
	composite.Composite = &CompositeNode{AutoComplete: true, Nodes: inner}
	require.NoError(t, p.Nodes.AddNode(composite))

	assert.Equal(t, 2, p.NodeCount())
}

func TestProcessDefinition_JSONRoundTrip(t *testing.T) {
	p := NewProcessDefinition("p", "name", "2.0", "pkg")
	require.NoError(t, p.Variables.Declare(DefaultWorkflowVariable, DataTypeJSON))
	require.NoError(t, p.Nodes.AddNode(newServiceNode(1, DefaultWorkflowVariable)))

	data, err := json.Marshal(p)
	require.NoError(t, err)

	var restored ProcessDefinition
	require.NoError(t, json.Unmarshal(data, &restored))

	assert.Equal(t, "2.0", restored.Version)
	assert.Equal(t, 1, restored.Variables.Len())

	n, ok := restored.Nodes.Node(1)
	require.True(t, ok)
	assert.Equal(t, ServiceTaskType, n.WorkItem.Work.Name)
	assert.NoError(t, restored.Validate())
}

func TestRuleType(t *testing.T) {
	group := RuleFlowGroup("g")
	assert.True(t, group.IsRuleFlowGroup())
	assert.False(t, group.IsRuleUnit())
	assert.False(t, group.IsDecision())
	assert.Equal(t, "g", group.Name)

	assert.True(t, RuleUnit("u").IsRuleUnit())

	decision := Decision("ns", "model", "d")
	assert.True(t, decision.IsDecision())
	assert.Equal(t, "model", decision.Model)
}

func TestMetadata_Accessors(t *testing.T) {
	var m Metadata
	m.Set(MetadataEventBased, "true")

	assert.True(t, m.Has(MetadataEventBased))
	assert.Equal(t, "true", m.String(MetadataEventBased))
	assert.Equal(t, "", m.String(MetadataTriggerRef))

	m.Set(MetadataInputTypes, map[string]string{"Parameter": "json"})
	assert.Equal(t, "", m.String(MetadataInputTypes))

	v, ok := m.Get(MetadataInputTypes)
	require.True(t, ok)
	assert.Equal(t, map[string]string{"Parameter": "json"}, v)
}
