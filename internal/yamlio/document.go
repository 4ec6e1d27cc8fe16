package yamlio

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/specialistvlad/bagelgo/internal/config"
)

type document struct {
	Nodes []node `json:"nodes"`
	Edges []edge `json:"edges,omitempty"`
}

type node struct {
	ID           uint64          `json:"id,omitempty"`
	Type         string          `json:"type"`
	ExternName   string          `json:"extern_name,omitempty"`
	SubgraphName string          `json:"subgraph_name,omitempty"`
	Name         string          `json:"name,omitempty"`
	Inputs       oneOrMany[port] `json:"inputs,omitempty"`
	Outputs      oneOrMany[port] `json:"outputs,omitempty"`
	OutputCount  int             `json:"outputCount,omitempty"`
}

// port covers both input and output entries; outputs only use Idx and Name.
type port struct {
	Idx     *int    `json:"idx,omitempty"`
	Type    string  `json:"type,omitempty"`
	Bias    *number `json:"bias,omitempty"`
	Default *number `json:"default,omitempty"`
	Name    string  `json:"name,omitempty"`
}

type edge struct {
	FromNodeID        uint64  `json:"fromNodeId,omitempty"`
	FromNode          string  `json:"fromNode,omitempty"`
	FromNodeOutputIdx *int    `json:"fromNodeOutputIdx,omitempty"`
	FromNodeOutput    string  `json:"fromNodeOutput,omitempty"`
	ToNodeID          uint64  `json:"toNodeId,omitempty"`
	ToNode            string  `json:"toNode,omitempty"`
	ToNodeInputIdx    *int    `json:"toNodeInputIdx,omitempty"`
	ToNodeInput       string  `json:"toNodeInput,omitempty"`
	Weight            *number `json:"weight,omitempty"`
	IgnoreForSort     flag    `json:"ignore_for_sort,omitempty"`
}

// oneOrMany accepts either a sequence or a single mapping.
type oneOrMany[T any] []T

func (l *oneOrMany[T]) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if strings.HasPrefix(trimmed, "{") {
		var one T
		if err := json.Unmarshal(data, &one); err != nil {
			return err
		}
		*l = oneOrMany[T]{one}
		return nil
	}
	var many []T
	if err := json.Unmarshal(data, &many); err != nil {
		return err
	}
	*l = many
	return nil
}

// number is a float64 that also reads and writes inf and nan, which JSON
// numbers cannot hold.
type number float64

func (r number) MarshalJSON() ([]byte, error) {
	v := float64(r)
	switch {
	case math.IsNaN(v):
		return []byte(`"nan"`), nil
	case math.IsInf(v, 1):
		return []byte(`"inf"`), nil
	case math.IsInf(v, -1):
		return []byte(`"-inf"`), nil
	}
	return json.Marshal(v)
}

func (r *number) UnmarshalJSON(data []byte) error {
	s := string(data)
	if unq, err := strconv.Unquote(s); err == nil {
		s = strings.TrimSpace(unq)
		// YAML spells the specials .inf, -.inf and .nan.
		switch strings.ToLower(s) {
		case ".inf", "+.inf":
			s = "inf"
		case "-.inf":
			s = "-inf"
		case ".nan":
			s = "nan"
		}
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("invalid number %s", data)
	}
	*r = number(v)
	return nil
}

func numberPtr(v *float64) *number {
	if v == nil {
		return nil
	}
	r := number(*v)
	return &r
}

func (r *number) float() *float64 {
	if r == nil {
		return nil
	}
	return config.Float(float64(*r))
}

// flag reads booleans and the 0/1 integers older graph files use.
type flag bool

func (f flag) MarshalJSON() ([]byte, error) {
	if f {
		return []byte("1"), nil
	}
	return []byte("0"), nil
}

func (f *flag) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	switch strings.ToLower(s) {
	case "true", "yes", "on":
		*f = true
		return nil
	case "false", "no", "off", "null", "":
		*f = false
		return nil
	}
	n, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("invalid flag %s", data)
	}
	*f = n != 0
	return nil
}

func intPtr(v int) *int { return &v }

// toModel converts the wire document. name becomes the model name.
func (d *document) toModel(name string) (*config.Model, error) {
	m := &config.Model{Name: name}
	for i := range d.Nodes {
		n := &d.Nodes[i]
		mn := &config.Node{
			ID:       n.ID,
			Name:     n.Name,
			Type:     n.Type,
			Subgraph: n.SubgraphName,
			Extern:   n.ExternName,
		}
		if n.Type == "" {
			return nil, fmt.Errorf("node %d: missing type", i)
		}
		for j, p := range n.Inputs {
			idx := j
			if p.Idx != nil {
				idx = *p.Idx
			}
			mn.Inputs = append(mn.Inputs, &config.Input{
				Index:   idx,
				Name:    p.Name,
				Merge:   p.Type,
				Default: p.Default.float(),
				Bias:    p.Bias.float(),
			})
		}
		for j, p := range n.Outputs {
			idx := j
			if p.Idx != nil {
				idx = *p.Idx
			}
			mn.Outputs = append(mn.Outputs, &config.Output{Index: idx, Name: p.Name})
		}
		m.Nodes = append(m.Nodes, mn)
	}
	for i := range d.Edges {
		e := &d.Edges[i]
		me, err := e.toModel(i)
		if err != nil {
			return nil, err
		}
		m.Edges = append(m.Edges, me)
	}
	return m, nil
}

func (e *edge) toModel(i int) (*config.Edge, error) {
	switch {
	case e.FromNodeID != 0 && e.FromNode != "":
		return nil, fmt.Errorf("edge %d: cannot have both fromNodeId and fromNode", i)
	case e.FromNodeOutputIdx != nil && e.FromNodeOutput != "":
		return nil, fmt.Errorf("edge %d: cannot have both fromNodeOutputIdx and fromNodeOutput", i)
	case e.ToNodeID != 0 && e.ToNode != "":
		return nil, fmt.Errorf("edge %d: cannot have both toNodeId and toNode", i)
	case e.ToNodeInputIdx != nil && e.ToNodeInput != "":
		return nil, fmt.Errorf("edge %d: cannot have both toNodeInputIdx and toNodeInput", i)
	}
	me := &config.Edge{
		ID:            uint64(i + 1),
		From:          e.FromNodeID,
		FromName:      e.FromNode,
		FromPortName:  e.FromNodeOutput,
		To:            e.ToNodeID,
		ToName:        e.ToNode,
		ToPortName:    e.ToNodeInput,
		Weight:        1,
		IgnoreForSort: bool(e.IgnoreForSort),
	}
	if e.FromNodeOutputIdx != nil {
		me.FromPort = *e.FromNodeOutputIdx
	}
	if e.ToNodeInputIdx != nil {
		me.ToPort = *e.ToNodeInputIdx
	}
	if e.Weight != nil {
		me.Weight = float64(*e.Weight)
	}
	return me, nil
}

// fromModel converts a model for writing. Ends and ports are always
// written by id and index; names are kept only where no id is known.
func fromModel(m *config.Model) *document {
	d := &document{Nodes: make([]node, 0, len(m.Nodes))}
	for _, mn := range m.Nodes {
		n := node{
			ID:           mn.ID,
			Type:         mn.Type,
			Name:         mn.Name,
			ExternName:   mn.Extern,
			SubgraphName: mn.Subgraph,
			OutputCount:  len(mn.Outputs),
		}
		for _, in := range mn.Inputs {
			n.Inputs = append(n.Inputs, port{
				Idx:     intPtr(in.Index),
				Type:    in.Merge,
				Bias:    numberPtr(in.Bias),
				Default: numberPtr(in.Default),
				Name:    in.Name,
			})
		}
		for _, out := range mn.Outputs {
			n.Outputs = append(n.Outputs, port{Idx: intPtr(out.Index), Name: out.Name})
		}
		d.Nodes = append(d.Nodes, n)
	}
	for _, me := range m.Edges {
		w := number(me.Weight)
		e := edge{
			FromNodeID:    me.From,
			ToNodeID:      me.To,
			Weight:        &w,
			IgnoreForSort: flag(me.IgnoreForSort),
		}
		if me.From == 0 {
			e.FromNode = me.FromName
		}
		if me.To == 0 {
			e.ToNode = me.ToName
		}
		if me.FromPortName != "" && me.From == 0 {
			e.FromNodeOutput = me.FromPortName
		} else {
			e.FromNodeOutputIdx = intPtr(me.FromPort)
		}
		if me.ToPortName != "" && me.To == 0 {
			e.ToNodeInput = me.ToPortName
		} else {
			e.ToNodeInputIdx = intPtr(me.ToPort)
		}
		d.Edges = append(d.Edges, e)
	}
	return d
}
