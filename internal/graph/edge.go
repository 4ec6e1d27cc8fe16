package graph

import (
	"github.com/specialistvlad/bagelgo/internal/bgerr"
	"github.com/specialistvlad/bagelgo/internal/interval"
	"github.com/specialistvlad/bagelgo/internal/registry"
)

// CreateEdge connects output srcPort of node src to input sinkPort of node
// sink. Either node may be 0 for a dangling end, but not both. An id of 0
// picks one above the current maximum. It returns the effective id.
func (g *Graph) CreateEdge(src NodeID, srcPort int, sink NodeID, sinkPort int, weight float64, id EdgeID) (EdgeID, error) {
	const op = "graph.CreateEdge"

	var source, target *Node
	var err error
	if src != 0 {
		if source, err = g.lookup(op, src); err != nil {
			return 0, err
		}
	}
	if sink != 0 {
		if target, err = g.lookup(op, sink); err != nil {
			return 0, err
		}
	}
	if (source != nil && source.graph != g) || (target != nil && target.graph != g) {
		return 0, bgerr.New(bgerr.DoNotOwn, op, "edge end belongs to another graph")
	}
	if source != nil && (srcPort < 0 || srcPort >= len(source.outputs)) {
		return 0, bgerr.New(bgerr.OutOfRange, op, "node %d has no output %d", src, srcPort)
	}
	if target != nil && (sinkPort < 0 || sinkPort >= len(target.inputs)) {
		return 0, bgerr.New(bgerr.OutOfRange, op, "node %d has no input %d", sink, sinkPort)
	}
	switch {
	case source == nil && target == nil:
		return 0, bgerr.New(bgerr.InvalidConnection, op, "edge has neither source nor sink")
	case source != nil && target != nil && source.kind() == registry.Output:
		return 0, bgerr.New(bgerr.InvalidConnection, op, "output node %d cannot be a source", src)
	case source != nil && target != nil && target.kind() == registry.Input:
		return 0, bgerr.New(bgerr.InvalidConnection, op, "input node %d cannot be a sink", sink)
	}
	if (source != nil && len(source.outputs[srcPort].edges) >= MaxEdges) ||
		(target != nil && len(target.inputs[sinkPort].edges) >= MaxEdges) {
		return 0, bgerr.New(bgerr.PortFull, op, "port already holds %d edges", MaxEdges)
	}
	if id == 0 {
		id = g.MaxEdgeID() + 1
	} else if _, exists := g.edges[id]; exists {
		return 0, bgerr.New(bgerr.DuplicateID, op, "edge id %d already in use", id)
	}

	e := &Edge{
		ID:         id,
		Source:     src,
		SourcePort: srcPort,
		Sink:       sink,
		SinkPort:   sinkPort,
		Weight:     weight,
	}
	if source != nil {
		p := source.outputs[srcPort]
		p.edges = append(p.edges, id)
	}
	if target != nil {
		p := target.inputs[sinkPort]
		p.edges = append(p.edges, id)
	}
	g.edges[id] = e
	g.edgeOrder = append(g.edgeOrder, id)
	if e.ordered() {
		g.dirty = true
	}
	g.logger.Debug("Created edge.", "graph", g.name, "id", id, "source", src, "source_port", srcPort,
		"sink", sink, "sink_port", sinkPort, "weight", weight)
	return id, nil
}

// RemoveEdge deletes an edge and detaches it from both of its ports.
func (g *Graph) RemoveEdge(id EdgeID) error {
	const op = "graph.RemoveEdge"
	e, err := g.edge(op, id)
	if err != nil {
		return err
	}
	for i, eid := range g.edgeOrder {
		if eid == id {
			g.edgeOrder = append(g.edgeOrder[:i], g.edgeOrder[i+1:]...)
			break
		}
	}
	delete(g.edges, id)
	if e.ordered() {
		g.dirty = true
	}

	if e.Source != 0 {
		n, ok := g.nodes[e.Source]
		if !ok || e.SourcePort >= len(n.outputs) {
			return bgerr.New(bgerr.Unknown, op, "source of edge %d is gone", id)
		}
		p := n.outputs[e.SourcePort]
		var found bool
		if p.edges, found = swapRemove(p.edges, id); !found {
			return bgerr.New(bgerr.Unknown, op, "edge %d missing from output %d of node %d", id, e.SourcePort, e.Source)
		}
	}
	if e.Sink != 0 {
		n, ok := g.nodes[e.Sink]
		if !ok || e.SinkPort >= len(n.inputs) {
			return bgerr.New(bgerr.Unknown, op, "sink of edge %d is gone", id)
		}
		p := n.inputs[e.SinkPort]
		var found bool
		if p.edges, found = swapRemove(p.edges, id); !found {
			return bgerr.New(bgerr.Unknown, op, "edge %d missing from input %d of node %d", id, e.SinkPort, e.Sink)
		}
	}
	g.logger.Debug("Removed edge.", "graph", g.name, "id", id)
	return nil
}

// swapRemove drops id by moving the last element into its slot.
func swapRemove(list []EdgeID, id EdgeID) ([]EdgeID, bool) {
	for i, eid := range list {
		if eid == id {
			last := len(list) - 1
			list[i] = list[last]
			return list[:last], true
		}
	}
	return list, false
}

func (g *Graph) edge(op string, id EdgeID) (*Edge, error) {
	e, ok := g.edges[id]
	if !ok {
		return nil, bgerr.New(bgerr.NotFound, op, "edge %d not found in graph %q", id, g.name)
	}
	return e, nil
}

// Edge returns a copy of the edge with the given id.
func (g *Graph) Edge(id EdgeID) (Edge, error) {
	e, err := g.edge("graph.Edge", id)
	if err != nil {
		return Edge{}, err
	}
	return *e, nil
}

// EdgeIDs returns all edge ids in creation order.
func (g *Graph) EdgeIDs() []EdgeID {
	return append([]EdgeID(nil), g.edgeOrder...)
}

// EdgeNodes returns both ends of an edge.
func (g *Graph) EdgeNodes(id EdgeID) (src NodeID, srcPort int, sink NodeID, sinkPort int, err error) {
	e, err := g.edge("graph.EdgeNodes", id)
	if err != nil {
		return 0, 0, 0, 0, err
	}
	return e.Source, e.SourcePort, e.Sink, e.SinkPort, nil
}

// SetWeight changes the weight of an edge.
func (g *Graph) SetWeight(id EdgeID, w float64) error {
	e, err := g.edge("graph.SetWeight", id)
	if err != nil {
		return err
	}
	e.Weight = w
	return nil
}

// Weight returns the weight of an edge.
func (g *Graph) Weight(id EdgeID) (float64, error) {
	e, err := g.edge("graph.Weight", id)
	if err != nil {
		return 0, err
	}
	return e.Weight, nil
}

// SetValue sets the value an edge carries. This is how values are injected
// through dangling edges.
func (g *Graph) SetValue(id EdgeID, v float64) error {
	e, err := g.edge("graph.SetValue", id)
	if err != nil {
		return err
	}
	e.Value = v
	return nil
}

// Value returns the value an edge carries.
func (g *Graph) Value(id EdgeID) (float64, error) {
	e, err := g.edge("graph.Value", id)
	if err != nil {
		return 0, err
	}
	return e.Value, nil
}

// SetInterval sets the interval value an edge carries.
func (g *Graph) SetInterval(id EdgeID, v interval.Interval) error {
	e, err := g.edge("graph.SetInterval", id)
	if err != nil {
		return err
	}
	e.Interval = v
	return nil
}

// Interval returns the interval value an edge carries.
func (g *Graph) Interval(id EdgeID) (interval.Interval, error) {
	e, err := g.edge("graph.Interval", id)
	if err != nil {
		return interval.Interval{}, err
	}
	return e.Interval, nil
}

// ordered reports whether e takes part in the evaluation order. Dangling
// edges and feedback edges do not, so adding or removing them keeps the
// cached order valid.
func (e *Edge) ordered() bool {
	return !e.IgnoreForSort && e.Source != 0 && e.Sink != 0
}

// SetIgnoreForSort excludes an edge from the ordering relation. The edge
// still carries its value, which makes it an explicit feedback edge.
func (g *Graph) SetIgnoreForSort(id EdgeID, ignore bool) error {
	e, err := g.edge("graph.SetIgnoreForSort", id)
	if err != nil {
		return err
	}
	if e.IgnoreForSort != ignore {
		e.IgnoreForSort = ignore
		if e.Source != 0 && e.Sink != 0 {
			g.dirty = true
		}
	}
	return nil
}

// AttachInputs creates one dangling edge of weight 1 into every input node,
// in input order, and returns their ids. Values set on these edges feed the
// inputs on the next evaluation.
func (g *Graph) AttachInputs() ([]EdgeID, error) {
	out := make([]EdgeID, 0, len(g.inputs))
	for _, n := range g.inputs {
		id, err := g.CreateEdge(0, 0, n.id, 0, 1, 0)
		if err != nil {
			g.detach(out)
			return nil, err
		}
		out = append(out, id)
	}
	return out, nil
}

// DetachEdges removes the given edges, returning the first failure.
func (g *Graph) DetachEdges(ids []EdgeID) error {
	return g.detach(ids)
}

func (g *Graph) detach(ids []EdgeID) error {
	var first error
	for _, id := range ids {
		if err := g.RemoveEdge(id); err != nil && first == nil {
			first = err
		}
	}
	return first
}
