package hcl

import (
	"context"
	"errors"
	"fmt"
	"math"
	"path/filepath"

	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/hashicorp/hcl/v2/hclwrite"
	"github.com/mandelsoft/vfs/pkg/vfs"
	"github.com/zclconf/go-cty/cty"

	"github.com/specialistvlad/bagelgo/internal/config"
	"github.com/specialistvlad/bagelgo/internal/ctxlog"
)

// Write renders m as HCL and stores it at path.
func (f *Format) Write(ctx context.Context, path string, m *config.Model) error {
	src, err := Encode(m)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := f.fs.MkdirAll(dir, 0o700); err != nil && !errors.Is(err, vfs.ErrExist) {
			return fmt.Errorf("failed to create directory for %s: %w", path, err)
		}
	}
	ctxlog.FromContext(ctx).Debug("Writing HCL graph file.", "path", path, "bytes", len(src))
	return vfs.WriteFile(f.fs, path, src, 0o600)
}

// Encode renders m as an HCL document. Nodes without a name are labelled
// node_<id>.
func Encode(m *config.Model) ([]byte, error) {
	file := hclwrite.NewEmptyFile()
	graph := file.Body().AppendNewBlock("graph", []string{m.Name}).Body()

	for _, n := range m.Nodes {
		name := n.Name
		if name == "" {
			name = fmt.Sprintf("node_%d", n.ID)
		}
		body := graph.AppendNewBlock("node", []string{name}).Body()
		if n.ID != 0 {
			body.SetAttributeValue("id", cty.NumberUIntVal(n.ID))
		}
		body.SetAttributeValue("type", cty.StringVal(n.Type))
		if n.Subgraph != "" {
			body.SetAttributeValue("subgraph", cty.StringVal(n.Subgraph))
		}
		if n.Extern != "" {
			body.SetAttributeValue("extern", cty.StringVal(n.Extern))
		}
		for _, in := range n.Inputs {
			ib := body.AppendNewBlock("input", []string{in.Name}).Body()
			ib.SetAttributeValue("index", cty.NumberIntVal(int64(in.Index)))
			if in.Merge != "" {
				ib.SetAttributeValue("merge", cty.StringVal(in.Merge))
			}
			if err := setNumber(ib, "default", in.Default); err != nil {
				return nil, fmt.Errorf("node %q input %d: %w", name, in.Index, err)
			}
			if err := setNumber(ib, "bias", in.Bias); err != nil {
				return nil, fmt.Errorf("node %q input %d: %w", name, in.Index, err)
			}
		}
		for _, out := range n.Outputs {
			ob := body.AppendNewBlock("output", []string{out.Name}).Body()
			ob.SetAttributeValue("index", cty.NumberIntVal(int64(out.Index)))
		}
	}

	for _, e := range m.Edges {
		graph.AppendNewline()
		body := graph.AppendNewBlock("edge", nil).Body()
		if e.ID != 0 {
			body.SetAttributeValue("id", cty.NumberUIntVal(e.ID))
		}
		switch {
		case e.From != 0:
			body.SetAttributeValue("from_id", cty.NumberUIntVal(e.From))
		case e.FromName != "":
			body.SetAttributeValue("from", cty.StringVal(e.FromName))
		}
		if e.FromPortName != "" && e.From == 0 {
			body.SetAttributeValue("from_port_name", cty.StringVal(e.FromPortName))
		} else {
			body.SetAttributeValue("from_port", cty.NumberIntVal(int64(e.FromPort)))
		}
		switch {
		case e.To != 0:
			body.SetAttributeValue("to_id", cty.NumberUIntVal(e.To))
		case e.ToName != "":
			body.SetAttributeValue("to", cty.StringVal(e.ToName))
		}
		if e.ToPortName != "" && e.To == 0 {
			body.SetAttributeValue("to_port_name", cty.StringVal(e.ToPortName))
		} else {
			body.SetAttributeValue("to_port", cty.NumberIntVal(int64(e.ToPort)))
		}
		w := e.Weight
		if err := setNumber(body, "weight", &w); err != nil {
			return nil, fmt.Errorf("edge %d: %w", e.ID, err)
		}
		if e.IgnoreForSort {
			body.SetAttributeValue("ignore_for_sort", cty.True)
		}
	}
	return file.Bytes(), nil
}

// setNumber writes v, spelling infinities with the inf variable.
func setNumber(body *hclwrite.Body, name string, v *float64) error {
	if v == nil {
		return nil
	}
	switch {
	case math.IsNaN(*v):
		return fmt.Errorf("%s: NaN cannot be written as HCL", name)
	case math.IsInf(*v, 1):
		body.SetAttributeRaw(name, hclwrite.Tokens{
			{Type: hclsyntax.TokenIdent, Bytes: []byte("inf")},
		})
	case math.IsInf(*v, -1):
		body.SetAttributeRaw(name, hclwrite.Tokens{
			{Type: hclsyntax.TokenMinus, Bytes: []byte("-")},
			{Type: hclsyntax.TokenIdent, Bytes: []byte("inf")},
		})
	default:
		body.SetAttributeValue(name, cty.NumberFloatVal(*v))
	}
	return nil
}
