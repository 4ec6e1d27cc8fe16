package graph

import (
	"github.com/specialistvlad/bagelgo/internal/bgerr"
	"github.com/specialistvlad/bagelgo/internal/merge"
)

func (g *Graph) inputPort(op string, id NodeID, idx int) (*InputPort, error) {
	n, err := g.lookup(op, id)
	if err != nil {
		return nil, err
	}
	if idx < 0 || idx >= len(n.inputs) {
		return nil, bgerr.New(bgerr.OutOfRange, op, "node %d has no input %d", id, idx)
	}
	return n.inputs[idx], nil
}

func (g *Graph) outputPort(op string, id NodeID, idx int) (*OutputPort, error) {
	n, err := g.lookup(op, id)
	if err != nil {
		return nil, err
	}
	if idx < 0 || idx >= len(n.outputs) {
		return nil, bgerr.New(bgerr.OutOfRange, op, "node %d has no output %d", id, idx)
	}
	return n.outputs[idx], nil
}

func mergeOf(op string, k merge.Kind) (*merge.Type, error) {
	t := merge.ByKind(k)
	if t == nil {
		return nil, bgerr.New(bgerr.NotFound, op, "unknown merge kind %d", int(k))
	}
	return t, nil
}

// SetInput configures an input port in one call. An empty name keeps the
// current one.
func (g *Graph) SetInput(id NodeID, idx int, m merge.Kind, def, bias float64, name string) error {
	const op = "graph.SetInput"
	p, err := g.inputPort(op, id, idx)
	if err != nil {
		return err
	}
	t, err := mergeOf(op, m)
	if err != nil {
		return err
	}
	p.Merge, p.Default, p.Bias = t, def, bias
	if name != "" {
		p.Name = name
	}
	return nil
}

// SetMerge changes the merge, default and bias of an input port.
func (g *Graph) SetMerge(id NodeID, idx int, m merge.Kind, def, bias float64) error {
	return g.SetInput(id, idx, m, def, bias, "")
}

// SetDefault changes the value an input port takes without edges.
func (g *Graph) SetDefault(id NodeID, idx int, def float64) error {
	p, err := g.inputPort("graph.SetDefault", id, idx)
	if err != nil {
		return err
	}
	p.Default = def
	return nil
}

// SetBias changes the bias of an input port.
func (g *Graph) SetBias(id NodeID, idx int, bias float64) error {
	p, err := g.inputPort("graph.SetBias", id, idx)
	if err != nil {
		return err
	}
	p.Bias = bias
	return nil
}

// SetOutput renames an output port.
func (g *Graph) SetOutput(id NodeID, idx int, name string) error {
	p, err := g.outputPort("graph.SetOutput", id, idx)
	if err != nil {
		return err
	}
	p.Name = name
	return nil
}

// Merge returns the merge kind of an input port.
func (g *Graph) Merge(id NodeID, idx int) (merge.Kind, error) {
	p, err := g.inputPort("graph.Merge", id, idx)
	if err != nil {
		return 0, err
	}
	return p.Merge.Kind, nil
}

// Default returns the default value of an input port.
func (g *Graph) Default(id NodeID, idx int) (float64, error) {
	p, err := g.inputPort("graph.Default", id, idx)
	if err != nil {
		return 0, err
	}
	return p.Default, nil
}

// Bias returns the bias of an input port.
func (g *Graph) Bias(id NodeID, idx int) (float64, error) {
	p, err := g.inputPort("graph.Bias", id, idx)
	if err != nil {
		return 0, err
	}
	return p.Bias, nil
}

// InputName returns the name of an input port.
func (g *Graph) InputName(id NodeID, idx int) (string, error) {
	p, err := g.inputPort("graph.InputName", id, idx)
	if err != nil {
		return "", err
	}
	return p.Name, nil
}

// OutputName returns the name of an output port.
func (g *Graph) OutputName(id NodeID, idx int) (string, error) {
	p, err := g.outputPort("graph.OutputName", id, idx)
	if err != nil {
		return "", err
	}
	return p.Name, nil
}

// InputEdges returns the ids of the edges attached to an input port.
func (g *Graph) InputEdges(id NodeID, idx int) ([]EdgeID, error) {
	p, err := g.inputPort("graph.InputEdges", id, idx)
	if err != nil {
		return nil, err
	}
	return p.Edges(), nil
}

// OutputEdges returns the ids of the edges attached to an output port.
func (g *Graph) OutputEdges(id NodeID, idx int) ([]EdgeID, error) {
	p, err := g.outputPort("graph.OutputEdges", id, idx)
	if err != nil {
		return nil, err
	}
	return p.Edges(), nil
}
