package graph

import (
	"fmt"

	"github.com/specialistvlad/bagelgo/internal/interval"
)

// Reset zeroes every edge and port value. When recursive it also resets the
// nested graphs.
func (g *Graph) Reset(recursive bool) {
	for _, e := range g.edges {
		e.Value = 0
		e.Interval = interval.Interval{}
	}
	for _, n := range g.nodes {
		for _, p := range n.inputs {
			p.Value = 0
			p.Interval = interval.Interval{}
		}
		for _, p := range n.outputs {
			p.Value = 0
			p.Interval = interval.Interval{}
		}
		if recursive && n.sub != nil {
			n.sub.Reset(true)
		}
	}
}

// Clone returns a copy of the graph's structure. Nested graphs are copied
// deeply; values are not copied.
func (g *Graph) Clone() (*Graph, error) {
	dest := New(g.name, g.reg, WithLogger(g.logger), WithLoadPath(g.loadPath))
	if err := g.CloneInto(dest); err != nil {
		return nil, err
	}
	return dest, nil
}

// CloneInto copies the graph's structure into dest, which should be empty.
// Conflicting ids fail with DuplicateID.
func (g *Graph) CloneInto(dest *Graph) error {
	return g.cloneInto(dest, 0)
}

func (g *Graph) cloneInto(dest *Graph, depth int) error {
	if depth > MaxDepth {
		return fmt.Errorf("graph.Clone: subgraph nesting deeper than %d", MaxDepth)
	}
	dest.loadPath = g.loadPath

	for _, n := range g.inputs {
		if _, err := dest.CreateInput(n.name, n.id); err != nil {
			return err
		}
		copyPorts(n, dest.nodes[n.id])
	}
	for _, n := range g.outputs {
		if _, err := dest.CreateOutput(n.name, n.id); err != nil {
			return err
		}
		copyPorts(n, dest.nodes[n.id])
	}
	for _, n := range g.hidden {
		if err := g.cloneHidden(n, dest, depth); err != nil {
			return err
		}
	}
	for _, id := range g.edgeOrder {
		e := g.edges[id]
		if _, err := dest.CreateEdge(e.Source, e.SourcePort, e.Sink, e.SinkPort, e.Weight, e.ID); err != nil {
			return err
		}
		dest.edges[e.ID].IgnoreForSort = e.IgnoreForSort
	}
	if g.nextID > dest.nextID {
		dest.nextID = g.nextID
	}
	dest.dirty = true
	return nil
}

func (g *Graph) cloneHidden(n *Node, dest *Graph, depth int) error {
	typeName := n.typ.Name
	if n.extern != "" {
		typeName = "EXTERN"
	}
	if _, err := dest.CreateNode(n.name, n.id, typeName); err != nil {
		return err
	}
	switch {
	case n.sub != nil:
		sub := New(n.sub.name, n.sub.reg, WithLogger(n.sub.logger), WithLoadPath(n.sub.loadPath))
		if err := n.sub.cloneInto(sub, depth+1); err != nil {
			return err
		}
		if err := dest.SetSubgraph(n.id, sub); err != nil {
			return err
		}
	case n.extern != "":
		if err := dest.SetExtern(n.id, n.extern); err != nil {
			return err
		}
	}
	copyPorts(n, dest.nodes[n.id])
	return nil
}

// copyPorts copies the port configuration of src onto dst, which has the
// same layout.
func copyPorts(src, dst *Node) {
	for i, p := range src.inputs {
		if i >= len(dst.inputs) {
			break
		}
		q := dst.inputs[i]
		q.Name, q.Merge, q.Default, q.Bias = p.Name, p.Merge, p.Default, p.Bias
	}
	for i, p := range src.outputs {
		if i >= len(dst.outputs) {
			break
		}
		dst.outputs[i].Name = p.Name
	}
}
