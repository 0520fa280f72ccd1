package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewNode_UniqueID(t *testing.T) {
	node := NewNode(42, "task", NodeKindAction)

	assert.Equal(t, "42", node.Metadata.String(MetadataUniqueID))
}

func TestNodeContainer_AddNode(t *testing.T) {
	c := NewNodeContainer()

	require.NoError(t, c.AddNode(NewNode(1, "start", NodeKindStart)))
	require.NoError(t, c.AddNode(NewNode(2, "end", NodeKindEnd)))

	n, ok := c.Node(2)
	require.True(t, ok)
	assert.Equal(t, "end", n.Name)
	assert.Equal(t, 2, c.Len())
	assert.Equal(t, int64(1), c.Nodes()[0].ID)
}

func TestNodeContainer_AddNode_Duplicate(t *testing.T) {
	c := NewNodeContainer()
	require.NoError(t, c.AddNode(NewNode(1, "a", NodeKindAction)))

	err := c.AddNode(NewNode(1, "b", NodeKindAction))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDuplicateNode)

	var nodeErr *NodeError
	require.ErrorAs(t, err, &nodeErr)
	assert.Equal(t, int64(1), nodeErr.NodeID)
	assert.Equal(t, 1, c.Len())
}

func TestNodeContainer_Connect(t *testing.T) {
	c := NewNodeContainer()
	require.NoError(t, c.AddNode(NewNode(1, "a", NodeKindAction)))
	require.NoError(t, c.AddNode(NewNode(2, "b", NodeKindAction)))

	conn, err := c.Connect(1, 2)
	require.NoError(t, err)
	assert.Equal(t, "1_2", conn.ID)
	assert.Len(t, c.Outgoing(1), 1)
	assert.Len(t, c.Incoming(2), 1)
	assert.Empty(t, c.Incoming(1))

	_, err = c.Connect(1, 3)
	assert.ErrorIs(t, err, ErrNodeNotFound)
}

func TestParseConnectionID(t *testing.T) {
	from, to, ok := ParseConnectionID(MakeConnectionID(12, 7))
	require.True(t, ok)
	assert.Equal(t, int64(12), from)
	assert.Equal(t, int64(7), to)

	_, _, ok = ParseConnectionID("invalid")
	assert.False(t, ok)
}

func TestNodeContainer_WalkDescendsIntoComposites(t *testing.T) {
	inner := NewNodeContainer()
	require.NoError(t, inner.AddNode(NewNode(1, "inner", NodeKindAction)))

	composite := NewNode(2, "branch", NodeKindComposite)
	composite.Composite = &CompositeNode{AutoComplete: true, Nodes: inner}

	outer := NewNodeContainer()
	require.NoError(t, outer.AddNode(NewNode(1, "outer", NodeKindAction)))
	require.NoError(t, outer.AddNode(composite))

	var names []string

	err := outer.Walk(func(n *Node, _ *NodeContainer) error {
		names = append(names, n.Name)

		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"outer", "branch", "inner"}, names)
}

func TestNodeContainer_JSONRoundTrip(t *testing.T) {
	c := NewNodeContainer()

	split := NewNode(1, "split", NodeKindSplit)
	split.Split = &SplitNode{Type: SplitTypeXor}
	split.Split.SetConstraint(2, Constraint{Name: "yes", Type: ConstraintTypeCode, Dialect: DialectJQ, Expression: ".ok", Priority: 1})

	target := NewNode(2, "script", NodeKindAction)
	target.Action = &ActionNode{Action: Action{Type: ActionTypeScript, Script: "{}"}}

	require.NoError(t, c.AddNode(split))
	require.NoError(t, c.AddNode(target))
	_, err := c.Connect(1, 2)
	require.NoError(t, err)

	data, err := json.Marshal(c)
	require.NoError(t, err)

	restored := NewNodeContainer()
	require.NoError(t, json.Unmarshal(data, restored))

	n, ok := restored.Node(1)
	require.True(t, ok)
	assert.Equal(t, "1", n.Metadata.String(MetadataUniqueID))

	constraint, ok := n.Split.Constraint(2)
	require.True(t, ok)
	assert.Equal(t, ".ok", constraint.Expression)
	assert.Len(t, restored.Connections(), 1)
}

func TestNodeContainer_UnmarshalRejectsMismatchedConnectionID(t *testing.T) {
	tests := []struct {
		name string
		id   string
	}{
		{name: "swapped endpoints", id: "2_1"},
		{name: "malformed", id: "one_two"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := `{"nodes":[{"id":1,"name":"a","kind":"action","action":{"action":{"type":"script","script":"{}"}}},` +
				`{"id":2,"name":"b","kind":"action","action":{"action":{"type":"script","script":"{}"}}}],` +
				`"connections":[{"id":"` + tt.id + `","from":1,"to":2}]}`

			err := json.Unmarshal([]byte(doc), NewNodeContainer())
			require.Error(t, err)
			assert.Contains(t, err.Error(), "does not match endpoints")
		})
	}
}

func TestSplitNode_SetConstraintReplaces(t *testing.T) {
	s := &SplitNode{Type: SplitTypeXor}
	s.SetConstraint(3, Constraint{Name: "first"})
	s.SetConstraint(3, Constraint{Name: "second", Default: true})

	require.Len(t, s.Constraints, 1)

	c, ok := s.Constraint(3)
	require.True(t, ok)
	assert.Equal(t, "second", c.Name)
	assert.True(t, c.Default)
}

func TestJoinTypeFor(t *testing.T) {
	assert.Equal(t, JoinTypeAnd, JoinTypeFor(SplitTypeAnd))
	assert.Equal(t, JoinTypeXor, JoinTypeFor(SplitTypeXor))
	assert.Equal(t, JoinTypeXor, JoinTypeFor(SplitTypeXand))
	assert.Equal(t, JoinTypeDiscriminator, JoinTypeFor(SplitTypeOr))
}
