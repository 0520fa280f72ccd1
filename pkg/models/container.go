package models

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// ConnectionTypeDefault is the only connection type the compiler emits.
const ConnectionTypeDefault = "default"

// Connection is a directed edge between two nodes of the same container.
type Connection struct {
	ID   string `json:"id"`
	From int64  `json:"from"`
	To   int64  `json:"to"`
	Type string `json:"type"`
}

// MakeConnectionID creates a connection ID from its endpoints.
func MakeConnectionID(from, to int64) string {
	return strconv.FormatInt(from, 10) + "_" + strconv.FormatInt(to, 10)
}

// ParseConnectionID parses a connection ID in format "{from}_{to}" into its endpoints.
func ParseConnectionID(id string) (int64, int64, bool) {
	for i := range len(id) {
		if id[i] != '_' {
			continue
		}

		from, err := strconv.ParseInt(id[:i], 10, 64)
		if err != nil {
			return 0, 0, false
		}

		to, err := strconv.ParseInt(id[i+1:], 10, 64)
		if err != nil {
			return 0, 0, false
		}

		return from, to, true
	}

	return 0, 0, false
}

// NodeContainer owns an ordered, id-keyed set of nodes and the connections between them.
// It is not safe for concurrent mutation.
type NodeContainer struct {
	nodes       []*Node
	index       map[int64]*Node
	connections []*Connection
}

// NewNodeContainer creates an empty container.
func NewNodeContainer() *NodeContainer {
	return &NodeContainer{index: make(map[int64]*Node)}
}

// AddNode appends node, rejecting ids already present in this container.
func (c *NodeContainer) AddNode(node *Node) error {
	if c.index == nil {
		c.index = make(map[int64]*Node)
	}

	if _, exists := c.index[node.ID]; exists {
		return &NodeError{Op: "AddNode", NodeID: node.ID, Err: ErrDuplicateNode}
	}

	c.index[node.ID] = node
	c.nodes = append(c.nodes, node)

	return nil
}

// Node returns the node with the given id.
func (c *NodeContainer) Node(id int64) (*Node, bool) {
	n, ok := c.index[id]

	return n, ok
}

// Nodes returns the nodes in insertion order.
func (c *NodeContainer) Nodes() []*Node {
	out := make([]*Node, len(c.nodes))
	copy(out, c.nodes)

	return out
}

// Len returns the number of nodes directly owned by the container.
func (c *NodeContainer) Len() int {
	return len(c.nodes)
}

// Connect adds a directed edge between two nodes of this container.
func (c *NodeContainer) Connect(from, to int64) (*Connection, error) {
	if _, ok := c.index[from]; !ok {
		return nil, &NodeError{Op: "Connect", NodeID: from, Err: ErrNodeNotFound}
	}

	if _, ok := c.index[to]; !ok {
		return nil, &NodeError{Op: "Connect", NodeID: to, Err: ErrNodeNotFound}
	}

	conn := &Connection{
		ID:   MakeConnectionID(from, to),
		From: from,
		To:   to,
		Type: ConnectionTypeDefault,
	}
	c.connections = append(c.connections, conn)

	return conn, nil
}

// Connections returns the edges in insertion order.
func (c *NodeContainer) Connections() []*Connection {
	out := make([]*Connection, len(c.connections))
	copy(out, c.connections)

	return out
}

// Outgoing returns the edges leaving the given node.
func (c *NodeContainer) Outgoing(id int64) []*Connection {
	var out []*Connection

	for _, conn := range c.connections {
		if conn.From == id {
			out = append(out, conn)
		}
	}

	return out
}

// Incoming returns the edges entering the given node.
func (c *NodeContainer) Incoming(id int64) []*Connection {
	var in []*Connection

	for _, conn := range c.connections {
		if conn.To == id {
			in = append(in, conn)
		}
	}

	return in
}

// Walk visits every node of the container tree depth-first, descending into composites.
func (c *NodeContainer) Walk(fn func(node *Node, owner *NodeContainer) error) error {
	for _, n := range c.nodes {
		if err := fn(n, c); err != nil {
			return err
		}

		if n.Composite != nil && n.Composite.Nodes != nil {
			if err := n.Composite.Nodes.Walk(fn); err != nil {
				return err
			}
		}
	}

	return nil
}

type containerJSON struct {
	Nodes       []*Node       `json:"nodes"`
	Connections []*Connection `json:"connections"`
}

func (c *NodeContainer) MarshalJSON() ([]byte, error) {
	return json.Marshal(containerJSON{Nodes: c.Nodes(), Connections: c.Connections()})
}

func (c *NodeContainer) UnmarshalJSON(data []byte) error {
	var raw containerJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	*c = NodeContainer{index: make(map[int64]*Node)}
	for _, n := range raw.Nodes {
		if err := c.AddNode(n); err != nil {
			return err
		}
	}

	for _, conn := range raw.Connections {
		if conn.ID != "" {
			if from, to, ok := ParseConnectionID(conn.ID); !ok || from != conn.From || to != conn.To {
				return fmt.Errorf("connection %s does not match endpoints %d -> %d", conn.ID, conn.From, conn.To)
			}
		}

		if _, err := c.Connect(conn.From, conn.To); err != nil {
			return fmt.Errorf("failed to restore connection %s: %w", conn.ID, err)
		}
	}

	return nil
}
