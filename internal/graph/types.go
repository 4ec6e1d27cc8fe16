package graph

import (
	"github.com/specialistvlad/bagelgo/internal/interval"
	"github.com/specialistvlad/bagelgo/internal/merge"
	"github.com/specialistvlad/bagelgo/internal/registry"
)

// NodeID identifies a node within its graph. Zero means "no node".
type NodeID uint64

// EdgeID identifies an edge within its graph.
type EdgeID uint64

const (
	// MaxPorts bounds the number of input nodes and of output nodes.
	MaxPorts = 512
	// MaxEdges bounds the number of edges attached to a single port.
	MaxEdges = 256
	// MaxDepth bounds subgraph nesting during evaluation and loading.
	MaxDepth = 64
)

// InputPort is a node input. Its value is the merge of the attached edges.
type InputPort struct {
	Name     string
	Merge    *merge.Type
	Default  float64
	Bias     float64
	Value    float64
	Interval interval.Interval

	edges []EdgeID
}

// Edges returns the ids of the incoming edges.
func (p *InputPort) Edges() []EdgeID {
	return append([]EdgeID(nil), p.edges...)
}

// OutputPort is a node output. Its value is copied onto every attached edge.
type OutputPort struct {
	Name     string
	Value    float64
	Interval interval.Interval

	edges []EdgeID
}

// Edges returns the ids of the outgoing edges.
func (p *OutputPort) Edges() []EdgeID {
	return append([]EdgeID(nil), p.edges...)
}

// Edge is a weighted connection from an output port to an input port.
// Source or Sink is 0 for a dangling end.
type Edge struct {
	ID            EdgeID
	Source        NodeID
	SourcePort    int
	Sink          NodeID
	SinkPort      int
	Weight        float64
	Value         float64
	Interval      interval.Interval
	IgnoreForSort bool
}

// Node is a single computation unit.
type Node struct {
	id   NodeID
	name string
	typ  *registry.NodeType

	inputs  []*InputPort
	outputs []*OutputPort

	graph  *Graph
	sub    *Graph
	extern string
	state  any

	// scratch buffers handed to the type's eval functions
	in    []float64
	out   []float64
	inIv  []interval.Interval
	outIv []interval.Interval
}

// ID returns the node id.
func (n *Node) ID() NodeID { return n.id }

// Name returns the node name.
func (n *Node) Name() string { return n.name }

// Type returns the node type descriptor.
func (n *Node) Type() *registry.NodeType { return n.typ }

// NumInputs returns the number of input ports.
func (n *Node) NumInputs() int { return len(n.inputs) }

// NumOutputs returns the number of output ports.
func (n *Node) NumOutputs() int { return len(n.outputs) }

// Input returns a copy of the input port at idx, or nil when idx is out of
// range.
func (n *Node) Input(idx int) *InputPort {
	if idx < 0 || idx >= len(n.inputs) {
		return nil
	}
	p := *n.inputs[idx]
	p.edges = p.Edges()
	return &p
}

// Output returns a copy of the output port at idx, or nil when idx is out
// of range.
func (n *Node) Output(idx int) *OutputPort {
	if idx < 0 || idx >= len(n.outputs) {
		return nil
	}
	p := *n.outputs[idx]
	p.edges = p.Edges()
	return &p
}

// Subgraph returns the nested graph of a SUBGRAPH node.
func (n *Node) Subgraph() *Graph { return n.sub }

// ExternName returns the name of the bound extern type, or "".
func (n *Node) ExternName() string { return n.extern }

// IsConnected reports whether any edge is attached to the node.
func (n *Node) IsConnected() bool {
	for _, p := range n.inputs {
		if len(p.edges) > 0 {
			return true
		}
	}
	for _, p := range n.outputs {
		if len(p.edges) > 0 {
			return true
		}
	}
	return false
}

func (n *Node) kind() registry.Kind { return n.typ.Kind }
