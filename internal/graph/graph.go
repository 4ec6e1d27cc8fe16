package graph

import (
	"fmt"
	"log/slog"

	"github.com/specialistvlad/bagelgo/internal/bgerr"
	"github.com/specialistvlad/bagelgo/internal/interval"
	"github.com/specialistvlad/bagelgo/internal/merge"
	"github.com/specialistvlad/bagelgo/internal/registry"
)

// Graph is a set of nodes connected by edges. It exclusively owns its nodes,
// its edges and the nested graphs of its SUBGRAPH nodes.
type Graph struct {
	name     string
	loadPath string
	reg      *registry.Registry
	logger   *slog.Logger

	nodes   map[NodeID]*Node
	inputs  []*Node
	outputs []*Node
	hidden  []*Node

	edges     map[EdgeID]*Edge
	edgeOrder []EdgeID

	order  []*Node
	dirty  bool
	nextID NodeID

	terms   []merge.Term
	ivTerms []merge.IntervalTerm
}

// Option configures a Graph.
type Option func(*Graph)

// WithLogger sets the logger used for structural and ordering diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(g *Graph) {
		if l != nil {
			g.logger = l
		}
	}
}

// WithLoadPath sets the directory subgraph files are resolved against.
func WithLoadPath(p string) Option {
	return func(g *Graph) { g.loadPath = p }
}

// New creates an empty graph resolving node types through reg.
func New(name string, reg *registry.Registry, opts ...Option) *Graph {
	if reg == nil {
		reg = registry.New()
	}
	g := &Graph{
		name:   name,
		reg:    reg,
		logger: slog.Default(),
		nodes:  make(map[NodeID]*Node),
		edges:  make(map[EdgeID]*Edge),
		nextID: 1,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Name returns the graph name.
func (g *Graph) Name() string { return g.name }

// SetName renames the graph.
func (g *Graph) SetName(name string) { g.name = name }

// LoadPath returns the directory subgraph files are resolved against.
func (g *Graph) LoadPath() string { return g.loadPath }

// SetLoadPath changes the load path.
func (g *Graph) SetLoadPath(p string) { g.loadPath = p }

// Registry returns the registry node types are resolved through.
func (g *Graph) Registry() *registry.Registry { return g.reg }

// Logger returns the graph's logger.
func (g *Graph) Logger() *slog.Logger { return g.logger }

// NextID returns the id an implicit node creation would use.
func (g *Graph) NextID() NodeID {
	id := g.nextID
	for g.nodes[id] != nil {
		id++
	}
	return id
}

// CreateInput adds a graph input node. An id of 0 picks the next free id.
func (g *Graph) CreateInput(name string, id NodeID) (NodeID, error) {
	return g.create("graph.CreateInput", name, id, g.reg.MustLookup("INPUT"))
}

// CreateOutput adds a graph output node. An id of 0 picks the next free id.
func (g *Graph) CreateOutput(name string, id NodeID) (NodeID, error) {
	return g.create("graph.CreateOutput", name, id, g.reg.MustLookup("OUTPUT"))
}

// CreateNode adds a node of the named built-in type. INPUT and OUTPUT are
// routed to CreateInput and CreateOutput.
func (g *Graph) CreateNode(name string, id NodeID, typeName string) (NodeID, error) {
	t, err := g.reg.Lookup(typeName)
	if err != nil {
		return 0, err
	}
	return g.create("graph.CreateNode", name, id, t)
}

func (g *Graph) create(op, name string, id NodeID, t *registry.NodeType) (NodeID, error) {
	if id == 0 {
		id = g.NextID()
	}
	if _, exists := g.nodes[id]; exists {
		return 0, bgerr.New(bgerr.DuplicateID, op, "node id %d already in use", id)
	}
	switch t.Kind {
	case registry.Input:
		if len(g.inputs)+1 >= MaxPorts {
			return 0, bgerr.New(bgerr.NumPortsExceeded, op, "graph %q has too many inputs", g.name)
		}
	case registry.Output:
		if len(g.outputs)+1 >= MaxPorts {
			return 0, bgerr.New(bgerr.NumPortsExceeded, op, "graph %q has too many outputs", g.name)
		}
	}

	n := &Node{id: id, name: name, typ: t, graph: g}
	n.setPorts(newInputs(t.Inputs, t.InputNames), newOutputs(t.Outputs, t.OutputNames))
	if t.Init != nil {
		state, err := t.Init()
		if err != nil {
			return 0, fmt.Errorf("%s: init node %d: %w", op, id, err)
		}
		n.state = state
	}

	g.nodes[id] = n
	switch t.Kind {
	case registry.Input:
		g.inputs = append(g.inputs, n)
	case registry.Output:
		g.outputs = append(g.outputs, n)
	default:
		g.hidden = append(g.hidden, n)
	}
	if id >= g.nextID {
		g.nextID = id + 1
	}
	g.dirty = true
	g.logger.Debug("Created node.", "graph", g.name, "id", id, "name", name, "type", t.Name)
	return id, nil
}

func newInputs(count int, names []string) []*InputPort {
	ports := make([]*InputPort, count)
	for i := range ports {
		name := fmt.Sprintf("in%d", i+1)
		if i < len(names) && names[i] != "" {
			name = names[i]
		}
		ports[i] = &InputPort{Name: name, Merge: merge.Default()}
	}
	return ports
}

func newOutputs(count int, names []string) []*OutputPort {
	ports := make([]*OutputPort, count)
	for i := range ports {
		name := fmt.Sprintf("out%d", i+1)
		if i < len(names) && names[i] != "" {
			name = names[i]
		}
		ports[i] = &OutputPort{Name: name}
	}
	return ports
}

// setPorts installs a port layout and sizes the scratch buffers to match.
func (n *Node) setPorts(in []*InputPort, out []*OutputPort) {
	n.inputs = in
	n.outputs = out
	n.in = make([]float64, len(in))
	n.out = make([]float64, len(out))
	n.inIv = make([]interval.Interval, len(in))
	n.outIv = make([]interval.Interval, len(out))
}

// replacePorts installs a new port layout while keeping attached edges. A
// connected port that has no counterpart in the new layout is an error.
func (n *Node) replacePorts(op string, in []*InputPort, out []*OutputPort) error {
	for i, p := range n.inputs {
		if len(p.edges) > 0 && i >= len(in) {
			return bgerr.New(bgerr.OutOfRange, op, "input %d of node %d is connected but would be removed", i, n.id)
		}
	}
	for i, p := range n.outputs {
		if len(p.edges) > 0 && i >= len(out) {
			return bgerr.New(bgerr.OutOfRange, op, "output %d of node %d is connected but would be removed", i, n.id)
		}
	}
	for i, p := range n.inputs {
		if i < len(in) {
			in[i].edges = p.edges
		}
	}
	for i, p := range n.outputs {
		if i < len(out) {
			out[i].edges = p.edges
		}
	}
	n.setPorts(in, out)
	return nil
}

func (g *Graph) lookup(op string, id NodeID) (*Node, error) {
	n, ok := g.nodes[id]
	if !ok {
		return nil, bgerr.New(bgerr.NotFound, op, "node %d not found in graph %q", id, g.name)
	}
	return n, nil
}

// RemoveNode deletes a disconnected hidden node. Input and output nodes
// must go through RemoveInput and RemoveOutput.
func (g *Graph) RemoveNode(id NodeID) error {
	const op = "graph.RemoveNode"
	n, err := g.lookup(op, id)
	if err != nil {
		return err
	}
	if n.typ.IsPort() {
		return bgerr.New(bgerr.WrongType, op, "node %d is a graph %s", id, n.typ.Name)
	}
	if n.graph != g {
		return bgerr.New(bgerr.DoNotOwn, op, "node %d belongs to another graph", id)
	}
	if n.IsConnected() {
		return bgerr.New(bgerr.IsConnected, op, "node %d still has edges", id)
	}
	g.hidden = removeNode(g.hidden, n)
	return g.drop(n)
}

// RemoveInput deletes a disconnected input node.
func (g *Graph) RemoveInput(id NodeID) error {
	return g.removePort("graph.RemoveInput", id, registry.Input)
}

// RemoveOutput deletes a disconnected output node.
func (g *Graph) RemoveOutput(id NodeID) error {
	return g.removePort("graph.RemoveOutput", id, registry.Output)
}

func (g *Graph) removePort(op string, id NodeID, kind registry.Kind) error {
	n, err := g.lookup(op, id)
	if err != nil {
		return err
	}
	if n.kind() != kind {
		return bgerr.New(bgerr.WrongType, op, "node %d is of type %s", id, n.typ.Name)
	}
	if n.IsConnected() {
		return bgerr.New(bgerr.IsConnected, op, "node %d still has edges", id)
	}
	if kind == registry.Input {
		g.inputs = removeNode(g.inputs, n)
	} else {
		g.outputs = removeNode(g.outputs, n)
	}
	return g.drop(n)
}

func (g *Graph) drop(n *Node) error {
	delete(g.nodes, n.id)
	g.dirty = true
	g.logger.Debug("Removed node.", "graph", g.name, "id", n.id, "name", n.name)
	if n.typ.Deinit != nil {
		if err := n.typ.Deinit(n.state); err != nil {
			return fmt.Errorf("graph: deinit node %d: %w", n.id, err)
		}
	}
	n.state = nil
	n.sub = nil
	n.graph = nil
	return nil
}

func removeNode(list []*Node, n *Node) []*Node {
	for i, m := range list {
		if m == n {
			return append(list[:i], list[i+1:]...)
		}
	}
	return list
}

// DisconnectNode removes every edge attached to the node.
func (g *Graph) DisconnectNode(id NodeID) error {
	n, err := g.lookup("graph.DisconnectNode", id)
	if err != nil {
		return err
	}
	var ids []EdgeID
	for _, p := range n.inputs {
		ids = append(ids, p.edges...)
	}
	for _, p := range n.outputs {
		ids = append(ids, p.edges...)
	}
	for _, eid := range ids {
		if _, ok := g.edges[eid]; !ok {
			// a self loop shows up on both sides
			continue
		}
		if err := g.RemoveEdge(eid); err != nil {
			return err
		}
	}
	return nil
}

// Node returns the node with the given id.
func (g *Graph) Node(id NodeID) (*Node, error) {
	return g.lookup("graph.Node", id)
}

// HasNode reports whether a node with the given id exists.
func (g *Graph) HasNode(id NodeID) bool {
	_, ok := g.nodes[id]
	return ok
}

// NodeIDByName returns the id of the first node with the given name,
// searching inputs, outputs and hidden nodes in that order.
func (g *Graph) NodeIDByName(name string) (NodeID, error) {
	for _, list := range [][]*Node{g.inputs, g.outputs, g.hidden} {
		for _, n := range list {
			if n.name == name {
				return n.id, nil
			}
		}
	}
	return 0, bgerr.New(bgerr.NotFound, "graph.NodeIDByName", "no node named %q in graph %q", name, g.name)
}

// InputIndex returns the index of the named input port of a node.
func (g *Graph) InputIndex(id NodeID, port string) (int, error) {
	const op = "graph.InputIndex"
	n, err := g.lookup(op, id)
	if err != nil {
		return 0, err
	}
	for i, p := range n.inputs {
		if p.Name == port {
			return i, nil
		}
	}
	return 0, bgerr.New(bgerr.NotFound, op, "node %d has no input %q", id, port)
}

// OutputIndex returns the index of the named output port of a node.
func (g *Graph) OutputIndex(id NodeID, port string) (int, error) {
	const op = "graph.OutputIndex"
	n, err := g.lookup(op, id)
	if err != nil {
		return 0, err
	}
	for i, p := range n.outputs {
		if p.Name == port {
			return i, nil
		}
	}
	return 0, bgerr.New(bgerr.NotFound, op, "node %d has no output %q", id, port)
}

func ids(list []*Node) []NodeID {
	out := make([]NodeID, len(list))
	for i, n := range list {
		out[i] = n.id
	}
	return out
}

// InputIDs returns the input node ids in creation order.
func (g *Graph) InputIDs() []NodeID { return ids(g.inputs) }

// OutputIDs returns the output node ids in creation order.
func (g *Graph) OutputIDs() []NodeID { return ids(g.outputs) }

// HiddenIDs returns the hidden node ids in creation order.
func (g *Graph) HiddenIDs() []NodeID { return ids(g.hidden) }

// NumInputs returns the number of input nodes.
func (g *Graph) NumInputs() int { return len(g.inputs) }

// NumOutputs returns the number of output nodes.
func (g *Graph) NumOutputs() int { return len(g.outputs) }

// NodeCount returns the number of nodes. When recursive, a SUBGRAPH node
// counts as the nodes of its nested graph instead of itself.
func (g *Graph) NodeCount(recursive bool) int {
	if !recursive {
		return len(g.nodes)
	}
	count := len(g.inputs) + len(g.outputs)
	for _, n := range g.hidden {
		if n.sub != nil {
			count += n.sub.NodeCount(true)
		} else {
			count++
		}
	}
	return count
}

// EdgeCount returns the number of edges, including those of nested graphs
// when recursive.
func (g *Graph) EdgeCount(recursive bool) int {
	count := len(g.edges)
	if recursive {
		for _, n := range g.hidden {
			if n.sub != nil {
				count += n.sub.EdgeCount(true)
			}
		}
	}
	return count
}

// MaxNodeID returns the largest node id in use, or 0 for an empty graph.
func (g *Graph) MaxNodeID() NodeID {
	var top NodeID
	for id := range g.nodes {
		if id > top {
			top = id
		}
	}
	return top
}

// MaxEdgeID returns the largest edge id in use, or 0 without edges.
func (g *Graph) MaxEdgeID() EdgeID {
	var top EdgeID
	for id := range g.edges {
		if id > top {
			top = id
		}
	}
	return top
}
