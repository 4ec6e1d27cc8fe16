package builder

import (
	"github.com/specialistvlad/bagelgo/internal/config"
	"github.com/specialistvlad/bagelgo/internal/graph"
	"github.com/specialistvlad/bagelgo/internal/registry"
)

// Extract describes g as a model: inputs, hidden nodes and outputs in
// creation order, then the edges. SUBGRAPH nodes reference their nested
// graph by name; nested graphs are not extracted.
func Extract(g *graph.Graph) *config.Model {
	m := &config.Model{Name: g.Name()}
	for _, list := range [][]graph.NodeID{g.InputIDs(), g.HiddenIDs(), g.OutputIDs()} {
		for _, id := range list {
			n, err := g.Node(id)
			if err != nil {
				continue
			}
			m.Nodes = append(m.Nodes, extractNode(n))
		}
	}
	for _, id := range g.EdgeIDs() {
		e, err := g.Edge(id)
		if err != nil {
			continue
		}
		m.Edges = append(m.Edges, &config.Edge{
			ID:            uint64(e.ID),
			From:          uint64(e.Source),
			FromPort:      e.SourcePort,
			To:            uint64(e.Sink),
			ToPort:        e.SinkPort,
			Weight:        e.Weight,
			IgnoreForSort: e.IgnoreForSort,
		})
	}
	return m
}

func extractNode(n *graph.Node) *config.Node {
	mn := &config.Node{
		ID:   uint64(n.ID()),
		Name: n.Name(),
		Type: n.Type().Name,
	}
	switch n.Type().Kind {
	case registry.Extern:
		mn.Type = "EXTERN"
		mn.Extern = n.ExternName()
	case registry.Subgraph:
		if sub := n.Subgraph(); sub != nil {
			mn.Subgraph = sub.Name()
		}
	}
	for i := 0; i < n.NumInputs(); i++ {
		p := n.Input(i)
		mn.Inputs = append(mn.Inputs, &config.Input{
			Index:   i,
			Name:    p.Name,
			Merge:   p.Merge.Name,
			Default: config.Float(p.Default),
			Bias:    config.Float(p.Bias),
		})
	}
	for i := 0; i < n.NumOutputs(); i++ {
		mn.Outputs = append(mn.Outputs, &config.Output{Index: i, Name: n.Output(i).Name})
	}
	return mn
}
