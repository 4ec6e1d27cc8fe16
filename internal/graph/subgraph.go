package graph

import (
	"fmt"
	"path"

	"github.com/specialistvlad/bagelgo/internal/bgerr"
	"github.com/specialistvlad/bagelgo/internal/registry"
)

// SetSubgraph hands sub to a SUBGRAPH node, which owns it from then on. The
// node gets one input port per input node of sub and one output port per
// output node, named after those nodes. Ports the node already had keep
// their configuration and edges.
func (g *Graph) SetSubgraph(id NodeID, sub *Graph) error {
	const op = "graph.SetSubgraph"
	n, err := g.lookup(op, id)
	if err != nil {
		return err
	}
	if n.kind() != registry.Subgraph {
		return bgerr.New(bgerr.WrongType, op, "node %d is of type %s", id, n.typ.Name)
	}
	if sub == nil {
		return bgerr.New(bgerr.Unknown, op, "nil subgraph for node %d", id)
	}
	if sub.contains(g, 0) {
		return bgerr.New(bgerr.Unknown, op, "graph %q would contain itself", g.name)
	}

	in := make([]*InputPort, len(sub.inputs))
	for i, src := range sub.inputs {
		if i < len(n.inputs) {
			p := *n.inputs[i]
			p.edges = nil
			in[i] = &p
			continue
		}
		p := src.inputs[0]
		in[i] = &InputPort{Name: src.name, Merge: p.Merge, Default: p.Default, Bias: p.Bias}
	}
	out := make([]*OutputPort, len(sub.outputs))
	for i, src := range sub.outputs {
		if i < len(n.outputs) {
			out[i] = &OutputPort{Name: n.outputs[i].Name}
			continue
		}
		out[i] = &OutputPort{Name: src.name}
	}
	if err := n.replacePorts(op, in, out); err != nil {
		return err
	}
	n.sub = sub
	g.dirty = true
	g.logger.Debug("Set subgraph.", "graph", g.name, "node", id, "subgraph", sub.name,
		"inputs", len(in), "outputs", len(out))
	return nil
}

// contains reports whether target is g or nested anywhere below it.
func (g *Graph) contains(target *Graph, depth int) bool {
	if g == target || depth > MaxDepth {
		return true
	}
	for _, n := range g.hidden {
		if n.sub != nil && n.sub.contains(target, depth+1) {
			return true
		}
	}
	return false
}

// Subgraph returns the nested graph of the SUBGRAPH node with the given
// node name.
func (g *Graph) Subgraph(name string) (*Graph, error) {
	for _, n := range g.hidden {
		if n.name == name && n.sub != nil {
			return n.sub, nil
		}
	}
	return nil, bgerr.New(bgerr.NotFound, "graph.Subgraph", "no subgraph node named %q in graph %q", name, g.name)
}

// SubgraphRef describes one nested graph. Path joins the names of the
// SUBGRAPH nodes leading to it.
type SubgraphRef struct {
	Path  string
	Name  string
	Graph *Graph
}

// SubgraphList lists the nested graphs in creation order, depth first when
// recursive.
func (g *Graph) SubgraphList(recursive bool) []SubgraphRef {
	var out []SubgraphRef
	g.walkSubgraphs("", recursive, func(ref SubgraphRef) { out = append(out, ref) })
	return out
}

func (g *Graph) walkSubgraphs(prefix string, recursive bool, fn func(SubgraphRef)) {
	for _, n := range g.hidden {
		if n.sub == nil {
			continue
		}
		p := path.Join(prefix, n.name)
		fn(SubgraphRef{Path: p, Name: n.sub.name, Graph: n.sub})
		if recursive {
			n.sub.walkSubgraphs(p, true, fn)
		}
	}
}

// SetSubgraphNamed replaces every nested graph named graphName, at any
// depth, with its own clone of src. The SUBGRAPH nodes keep their port
// configuration. It returns the number of replaced instances.
func (g *Graph) SetSubgraphNamed(graphName string, src *Graph) (int, error) {
	return g.replaceNamed(graphName, src, 0)
}

func (g *Graph) replaceNamed(graphName string, src *Graph, depth int) (int, error) {
	if depth > MaxDepth {
		return 0, bgerr.New(bgerr.Unknown, "graph.SetSubgraphNamed", "subgraph nesting deeper than %d", MaxDepth)
	}
	count := 0
	for _, n := range g.hidden {
		if n.sub == nil {
			continue
		}
		if n.sub.name == graphName {
			c, err := src.Clone()
			if err != nil {
				return count, err
			}
			if err := g.SetSubgraph(n.id, c); err != nil {
				return count, err
			}
			count++
			continue
		}
		c, err := n.sub.replaceNamed(graphName, src, depth+1)
		count += c
		if err != nil {
			return count, err
		}
	}
	return count, nil
}

// SetExtern binds an EXTERN node to the registered extern type of that
// name. The node gets the type's ports; existing edges are kept as long as
// their ports still exist.
func (g *Graph) SetExtern(id NodeID, name string) error {
	const op = "graph.SetExtern"
	n, err := g.lookup(op, id)
	if err != nil {
		return err
	}
	if n.kind() != registry.Extern {
		return bgerr.New(bgerr.WrongType, op, "node %d is of type %s", id, n.typ.Name)
	}
	t, err := g.reg.Extern(name)
	if err != nil {
		return err
	}

	in := newInputs(t.Inputs, t.InputNames)
	out := newOutputs(t.Outputs, t.OutputNames)
	if err := n.replacePorts(op, in, out); err != nil {
		return err
	}
	if n.typ.Deinit != nil {
		if err := n.typ.Deinit(n.state); err != nil {
			return fmt.Errorf("%s: deinit node %d: %w", op, id, err)
		}
	}
	n.typ, n.state, n.extern = t, nil, name
	if t.Init != nil {
		if n.state, err = t.Init(); err != nil {
			return fmt.Errorf("%s: init node %d: %w", op, id, err)
		}
	}
	g.dirty = true
	g.logger.Debug("Bound extern node.", "graph", g.name, "node", id, "extern", name)
	return nil
}
