package hcl

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/mandelsoft/vfs/pkg/osfs"
	"github.com/mandelsoft/vfs/pkg/vfs"
	"github.com/zclconf/go-cty/cty"

	"github.com/specialistvlad/bagelgo/internal/config"
	"github.com/specialistvlad/bagelgo/internal/ctxlog"
)

// Format is the HCL implementation of config.Format.
type Format struct {
	fs vfs.FileSystem
}

var _ config.Format = (*Format)(nil)

// New creates an HCL format on the first given filesystem, or on the OS
// filesystem when none is given.
func New(fss ...vfs.FileSystem) *Format {
	fs := vfs.FileSystem(osfs.OsFs)
	if len(fss) > 0 && fss[0] != nil {
		fs = fss[0]
	}
	return &Format{fs: fs}
}

// Extensions implements config.Format.
func (f *Format) Extensions() []string {
	return []string{".hcl"}
}

// evalContext exposes the constants graph files may use in expressions.
func evalContext() *hcl.EvalContext {
	return &hcl.EvalContext{
		Variables: map[string]cty.Value{
			"inf": cty.PositiveInfinity,
		},
	}
}

// Load parses the graph file at path.
func (f *Format) Load(ctx context.Context, path string) (*config.Model, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("HCL loader started.", "path", path)

	src, err := vfs.ReadFile(f.fs, path)
	if err != nil {
		return nil, fmt.Errorf("failed to read graph file %s: %w", path, err)
	}
	m, err := Decode(src, path)
	if err != nil {
		return nil, err
	}
	logger.Debug("HCL loading complete.", "graph", m.Name, "nodes", len(m.Nodes), "edges", len(m.Edges))
	return m, nil
}

// Decode parses HCL source. filename is used in diagnostics and, without
// its directory, as the graph name when the graph label is empty.
func Decode(src []byte, filename string) (*config.Model, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file %s: %w", filename, diags)
	}

	var root fileRoot
	diags = gohcl.DecodeBody(file.Body, evalContext(), &root)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL file %s: %w", filename, diags)
	}
	if len(root.Graphs) != 1 {
		return nil, fmt.Errorf("HCL file %s: expected exactly one graph block, found %d", filename, len(root.Graphs))
	}

	g := root.Graphs[0]
	m := &config.Model{Name: g.Name}
	if m.Name == "" {
		m.Name = filepath.Base(filename)
	}
	for _, n := range g.Nodes {
		m.Nodes = append(m.Nodes, translateNode(n))
	}
	for i, e := range g.Edges {
		me, err := translateEdge(e, i)
		if err != nil {
			return nil, fmt.Errorf("HCL file %s: %w", filename, err)
		}
		m.Edges = append(m.Edges, me)
	}
	return m, nil
}

func translateNode(n *nodeBlock) *config.Node {
	mn := &config.Node{
		Name:     n.Name,
		Type:     n.Type,
		Subgraph: n.Subgraph,
		Extern:   n.Extern,
	}
	if n.ID != nil {
		mn.ID = *n.ID
	}
	for i, in := range n.Inputs {
		idx := i
		if in.Index != nil {
			idx = *in.Index
		}
		mn.Inputs = append(mn.Inputs, &config.Input{
			Index:   idx,
			Name:    in.Name,
			Merge:   in.Merge,
			Default: in.Default,
			Bias:    in.Bias,
		})
	}
	for i, out := range n.Outputs {
		idx := i
		if out.Index != nil {
			idx = *out.Index
		}
		mn.Outputs = append(mn.Outputs, &config.Output{Index: idx, Name: out.Name})
	}
	return mn
}

func translateEdge(e *edgeBlock, i int) (*config.Edge, error) {
	switch {
	case e.From != "" && e.FromID != 0:
		return nil, fmt.Errorf("edge %d: from and from_id are exclusive", i)
	case e.To != "" && e.ToID != 0:
		return nil, fmt.Errorf("edge %d: to and to_id are exclusive", i)
	case e.FromPort != nil && e.FromPortName != "":
		return nil, fmt.Errorf("edge %d: from_port and from_port_name are exclusive", i)
	case e.ToPort != nil && e.ToPortName != "":
		return nil, fmt.Errorf("edge %d: to_port and to_port_name are exclusive", i)
	}
	me := &config.Edge{
		ID:            e.ID,
		From:          e.FromID,
		FromName:      e.From,
		FromPortName:  e.FromPortName,
		To:            e.ToID,
		ToName:        e.To,
		ToPortName:    e.ToPortName,
		Weight:        1,
		IgnoreForSort: e.IgnoreForSort,
	}
	if e.FromPort != nil {
		me.FromPort = *e.FromPort
	}
	if e.ToPort != nil {
		me.ToPort = *e.ToPort
	}
	if e.Weight != nil {
		me.Weight = *e.Weight
	}
	return me, nil
}
