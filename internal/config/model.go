package config

// Model is the format-agnostic description of one graph.
type Model struct {
	Name  string
	Nodes []*Node
	Edges []*Edge
}

// Node describes one node. Type is a node type name such as "PIPE",
// "INPUT" or "SUBGRAPH". An ID of 0 leaves the choice to the graph.
type Node struct {
	ID      uint64
	Name    string
	Type    string
	Inputs  []*Input
	Outputs []*Output

	// Subgraph names the nested graph of a SUBGRAPH node. It is resolved to
	// a file relative to the load path.
	Subgraph string
	// Extern names the registered type an EXTERN node binds to.
	Extern string
}

// Input configures one input port. A nil pointer keeps the port default.
type Input struct {
	Index   int
	Name    string
	Merge   string
	Default *float64
	Bias    *float64
}

// Output configures one output port.
type Output struct {
	Index int
	Name  string
}

// Edge describes one edge. Each end is given either by id or by node name;
// both empty means a dangling end. Ports are given by index or by name.
type Edge struct {
	ID uint64

	From         uint64
	FromName     string
	FromPort     int
	FromPortName string

	To         uint64
	ToName     string
	ToPort     int
	ToPortName string

	Weight        float64
	IgnoreForSort bool
}

// NodeByName returns the first node with the given name, or nil.
func (m *Model) NodeByName(name string) *Node {
	for _, n := range m.Nodes {
		if n.Name == name {
			return n
		}
	}
	return nil
}

// Float returns a pointer to v, for optional model fields.
func Float(v float64) *float64 {
	return &v
}
