package graph

import (
	"fmt"

	"github.com/specialistvlad/bagelgo/internal/bgerr"
	"github.com/specialistvlad/bagelgo/internal/interval"
	"github.com/specialistvlad/bagelgo/internal/merge"
	"github.com/specialistvlad/bagelgo/internal/registry"
)

// Evaluate runs one pass over the graph: inputs first, then the evaluation
// order. It stops at the first failing node; nodes evaluated before it keep
// their new values.
func (g *Graph) Evaluate() error {
	return g.evaluate(nil, 0)
}

// evaluate runs a pass. A non-nil inject slice supplies the input node
// values directly, bypassing their merges.
func (g *Graph) evaluate(inject []float64, depth int) error {
	if depth > MaxDepth {
		return bgerr.New(bgerr.Unknown, "graph.Evaluate", "subgraph nesting deeper than %d", MaxDepth)
	}
	if inject != nil && len(inject) != len(g.inputs) {
		return bgerr.New(bgerr.OutOfRange, "graph.Evaluate", "graph %q has %d inputs, got %d values", g.name, len(g.inputs), len(inject))
	}
	g.ensureOrder()

	for i, n := range g.inputs {
		if inject != nil {
			n.inputs[0].Value = inject[i]
		} else {
			g.mergeInputs(n)
		}
		if err := g.run(n, depth); err != nil {
			return err
		}
	}
	for _, n := range g.order {
		g.mergeInputs(n)
		if err := g.run(n, depth); err != nil {
			return err
		}
	}
	return nil
}

func (g *Graph) mergeInputs(n *Node) {
	for _, p := range n.inputs {
		terms := g.terms[:0]
		for _, eid := range p.edges {
			e := g.edges[eid]
			terms = append(terms, merge.Term{Value: e.Value, Weight: e.Weight})
		}
		p.Value = p.Merge.Scalar(terms, p.Bias, p.Default)
		g.terms = terms
	}
}

// run computes the outputs of a node from its merged inputs and pushes them
// onto the outgoing edges.
func (g *Graph) run(n *Node, depth int) error {
	for i, p := range n.inputs {
		n.in[i] = p.Value
	}
	var err error
	switch {
	case n.kind() == registry.Subgraph:
		err = n.runSubgraph(depth)
	case n.typ.Eval == nil:
		err = bgerr.New(bgerr.NotImplemented, "eval", "type %s has no scalar behaviour", n.typ.Name)
	default:
		err = n.typ.Eval(n.state, n.in, n.out)
	}
	if err != nil {
		return fmt.Errorf("node %d (%s): %w", n.id, n.name, err)
	}
	for i, p := range n.outputs {
		p.Value = n.out[i]
		for _, eid := range p.edges {
			g.edges[eid].Value = p.Value
		}
	}
	return nil
}

func (n *Node) runSubgraph(depth int) error {
	if n.sub == nil {
		return bgerr.New(bgerr.NotImplemented, "eval", "subgraph node has no graph")
	}
	if err := n.sub.evaluate(n.in, depth+1); err != nil {
		return err
	}
	for i, o := range n.sub.outputs {
		if i < len(n.out) {
			n.out[i] = o.outputs[0].Value
		}
	}
	return nil
}

// EvaluateInterval is Evaluate over interval values, using the interval
// forms of every merge and node type.
func (g *Graph) EvaluateInterval() error {
	return g.evaluateInterval(nil, 0)
}

func (g *Graph) evaluateInterval(inject []interval.Interval, depth int) error {
	if depth > MaxDepth {
		return bgerr.New(bgerr.Unknown, "graph.EvaluateInterval", "subgraph nesting deeper than %d", MaxDepth)
	}
	if inject != nil && len(inject) != len(g.inputs) {
		return bgerr.New(bgerr.OutOfRange, "graph.EvaluateInterval", "graph %q has %d inputs, got %d values", g.name, len(g.inputs), len(inject))
	}
	g.ensureOrder()

	for i, n := range g.inputs {
		if inject != nil {
			n.inputs[0].Interval = inject[i]
		} else {
			g.mergeInputsInterval(n)
		}
		if err := g.runInterval(n, depth); err != nil {
			return err
		}
	}
	for _, n := range g.order {
		g.mergeInputsInterval(n)
		if err := g.runInterval(n, depth); err != nil {
			return err
		}
	}
	return nil
}

func (g *Graph) mergeInputsInterval(n *Node) {
	for _, p := range n.inputs {
		terms := g.ivTerms[:0]
		for _, eid := range p.edges {
			e := g.edges[eid]
			terms = append(terms, merge.IntervalTerm{Value: e.Interval, Weight: e.Weight})
		}
		p.Interval = p.Merge.Interval(terms, p.Bias, p.Default)
		g.ivTerms = terms
	}
}

func (g *Graph) runInterval(n *Node, depth int) error {
	for i, p := range n.inputs {
		n.inIv[i] = p.Interval
	}
	var err error
	switch {
	case n.kind() == registry.Subgraph:
		err = n.runSubgraphInterval(depth)
	case n.typ.EvalInterval == nil:
		err = bgerr.New(bgerr.NotImplemented, "eval", "type %s has no interval behaviour", n.typ.Name)
	default:
		err = n.typ.EvalInterval(n.state, n.inIv, n.outIv)
	}
	if err != nil {
		return fmt.Errorf("node %d (%s): %w", n.id, n.name, err)
	}
	for i, p := range n.outputs {
		p.Interval = n.outIv[i]
		for _, eid := range p.edges {
			g.edges[eid].Interval = p.Interval
		}
	}
	return nil
}

func (n *Node) runSubgraphInterval(depth int) error {
	if n.sub == nil {
		return bgerr.New(bgerr.NotImplemented, "eval", "subgraph node has no graph")
	}
	if err := n.sub.evaluateInterval(n.inIv, depth+1); err != nil {
		return err
	}
	for i, o := range n.sub.outputs {
		if i < len(n.outIv) {
			n.outIv[i] = o.outputs[0].Interval
		}
	}
	return nil
}

// Output returns the value of the i-th output node.
func (g *Graph) Output(i int) (float64, error) {
	if i < 0 || i >= len(g.outputs) {
		return 0, bgerr.New(bgerr.OutOfRange, "graph.Output", "graph %q has %d outputs", g.name, len(g.outputs))
	}
	return g.outputs[i].outputs[0].Value, nil
}

// Outputs returns the values of all output nodes in order.
func (g *Graph) Outputs() []float64 {
	out := make([]float64, len(g.outputs))
	for i, n := range g.outputs {
		out[i] = n.outputs[0].Value
	}
	return out
}

// OutputInterval returns the interval value of the i-th output node.
func (g *Graph) OutputInterval(i int) (interval.Interval, error) {
	if i < 0 || i >= len(g.outputs) {
		return interval.Interval{}, bgerr.New(bgerr.OutOfRange, "graph.OutputInterval", "graph %q has %d outputs", g.name, len(g.outputs))
	}
	return g.outputs[i].outputs[0].Interval, nil
}

// NodeOutput returns the current value of an output port of any node.
func (g *Graph) NodeOutput(id NodeID, idx int) (float64, error) {
	p, err := g.outputPort("graph.NodeOutput", id, idx)
	if err != nil {
		return 0, err
	}
	return p.Value, nil
}
