package graph

import (
	"github.com/specialistvlad/bagelgo/internal/dag"
)

// sort rebuilds the evaluation order: hidden nodes in topological order,
// hidden nodes without relations in creation order, then all outputs.
// Output nodes can only be sinks, so placing them last respects every
// relation.
func (g *Graph) sort() {
	d := dag.New()
	for _, id := range g.edgeOrder {
		e := g.edges[id]
		if e.IgnoreForSort || e.Source == 0 || e.Sink == 0 {
			continue
		}
		d.AddRelation(uint64(e.Source), uint64(e.Sink))
	}
	sorted, dropped := d.Sort()
	for _, r := range dropped {
		g.logger.Debug("Dropped relation to break a cycle.", "graph", g.name, "from", r.From, "to", r.To)
	}

	order := make([]*Node, 0, len(g.hidden)+len(g.outputs))
	placed := make(map[NodeID]bool, len(sorted))
	for _, raw := range sorted {
		n := g.nodes[NodeID(raw)]
		if n == nil || n.typ.IsPort() {
			continue
		}
		order = append(order, n)
		placed[n.id] = true
	}
	for _, n := range g.hidden {
		if !placed[n.id] {
			order = append(order, n)
		}
	}
	order = append(order, g.outputs...)

	g.order = order
	g.dirty = false
	g.logger.Debug("Computed evaluation order.", "graph", g.name, "nodes", len(order), "dropped", len(dropped))
}

func (g *Graph) ensureOrder() {
	if g.dirty || g.order == nil {
		g.sort()
	}
}

// Order returns the ids of the hidden and output nodes in evaluation order.
func (g *Graph) Order() []NodeID {
	g.ensureOrder()
	return ids(g.order)
}

// Dirty reports whether the evaluation order is stale.
func (g *Graph) Dirty() bool { return g.dirty }
