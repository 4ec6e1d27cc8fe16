// Package dot renders graphs in the Graphviz DOT language.
//
// Every node becomes a record whose left field is the node id, whose middle
// field lists the input ports with their merge, bias and default, and whose
// right field carries the node type and output ports. Edges run from output
// port to input port and are labelled with their weight.
package dot

import (
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/mandelsoft/vfs/pkg/osfs"
	"github.com/mandelsoft/vfs/pkg/vfs"
	gonum "gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/encoding"
	"gonum.org/v1/gonum/graph/encoding/dot"
	"gonum.org/v1/gonum/graph/multi"

	"github.com/specialistvlad/bagelgo/internal/ctxlog"
	"github.com/specialistvlad/bagelgo/internal/graph"
	"github.com/specialistvlad/bagelgo/internal/registry"
)

const (
	inputColor  = "#bbeebb"
	outputColor = "#bbccff"
	hiddenColor = "#ffff70"
)

type dotGraph struct {
	*multi.DirectedGraph
}

func (dotGraph) DOTAttributers() (g, n, e encoding.Attributer) {
	g = &encoding.Attributes{
		{Key: "ranksep", Value: "1"},
		{Key: "nodesep", Value: "1"},
	}
	n = &encoding.Attributes{
		{Key: "shape", Value: "Mrecord"},
		{Key: "style", Value: "filled"},
		{Key: "penwidth", Value: "2"},
	}
	e = &encoding.Attributes{
		{Key: "penwidth", Value: "2"},
	}
	return g, n, e
}

type dotNode struct {
	id    int64
	label string
	color string
}

func (n dotNode) ID() int64 { return n.id }
func (n dotNode) DOTID() string { return fmt.Sprintf("n%d", n.id) }
func (n dotNode) Attributes() []encoding.Attribute {
	return []encoding.Attribute{
		{Key: "label", Value: n.label},
		{Key: "fillcolor", Value: n.color},
	}
}

type dotLine struct {
	uid      int64
	from, to gonum.Node
	fromPort int
	toPort   int
	weight   float64
}

func (l dotLine) From() gonum.Node { return l.from }
func (l dotLine) To() gonum.Node { return l.to }
func (l dotLine) ID() int64 { return l.uid }

func (l dotLine) ReversedLine() gonum.Line {
	return dotLine{uid: l.uid, from: l.to, to: l.from, fromPort: l.toPort, toPort: l.fromPort, weight: l.weight}
}

func (l dotLine) FromPort() (port, compass string) { return fmt.Sprintf("o%d", l.fromPort), "" }
func (l dotLine) ToPort() (port, compass string) { return fmt.Sprintf("i%d", l.toPort), "" }

func (l dotLine) Attributes() []encoding.Attribute {
	return []encoding.Attribute{{Key: "label", Value: fmt.Sprintf("%.2f", l.weight)}}
}

// Marshal renders g. Edges with a dangling end are omitted.
func Marshal(g *graph.Graph) ([]byte, error) {
	dg := dotGraph{multi.NewDirectedGraph()}
	nodes := make(map[graph.NodeID]dotNode)
	for _, list := range [][]graph.NodeID{g.InputIDs(), g.HiddenIDs(), g.OutputIDs()} {
		for _, id := range list {
			n, err := g.Node(id)
			if err != nil {
				return nil, err
			}
			dn := dotNode{id: int64(id), label: label(n), color: color(n)}
			nodes[id] = dn
			dg.AddNode(dn)
		}
	}
	for _, id := range g.EdgeIDs() {
		e, err := g.Edge(id)
		if err != nil {
			return nil, err
		}
		if e.Source == 0 || e.Sink == 0 {
			continue
		}
		dg.SetLine(dotLine{
			uid:      int64(e.ID),
			from:     nodes[e.Source],
			to:       nodes[e.Sink],
			fromPort: e.SourcePort,
			toPort:   e.SinkPort,
			weight:   e.Weight,
		})
	}
	out, err := dot.MarshalMulti(dg, g.Name(), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to render graph %q: %w", g.Name(), err)
	}
	return append(out, '\n'), nil
}

// Write renders g into the file at p. A nil fs writes to the OS filesystem.
func Write(ctx context.Context, fs vfs.FileSystem, g *graph.Graph, p string) error {
	if fs == nil {
		fs = osfs.OsFs
	}
	ctxlog.FromContext(ctx).Debug("Writing DOT file.", "graph", g.Name(), "path", p)
	data, err := Marshal(g)
	if err != nil {
		return err
	}
	if dir := path.Dir(p); dir != "." {
		if err := fs.MkdirAll(dir, 0o700); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	if err := vfs.WriteFile(fs, p, data, 0o600); err != nil {
		return fmt.Errorf("failed to write DOT file %s: %w", p, err)
	}
	return nil
}

func label(n *graph.Node) string {
	var b strings.Builder
	fmt.Fprintf(&b, "[%d]|{{", n.ID())
	for i := 0; i < n.NumInputs(); i++ {
		p := n.Input(i)
		if i > 0 {
			b.WriteString("|")
		}
		fmt.Fprintf(&b, "<i%d> %s %s b(%.2f) d(%.2f)", i, escape(p.Name), p.Merge.Name, p.Bias, p.Default)
	}
	b.WriteString("}|")

	typ := escape(n.Type().Name)
	if sub := n.Subgraph(); sub != nil {
		typ += " " + escape(sub.Name())
	}
	if n.NumOutputs() == 1 {
		fmt.Fprintf(&b, "<o0> %s}", typ)
		return b.String()
	}
	fmt.Fprintf(&b, "{%s|{", typ)
	for i := 0; i < n.NumOutputs(); i++ {
		if i > 0 {
			b.WriteString("|")
		}
		fmt.Fprintf(&b, "<o%d> %s", i, escape(n.Output(i).Name))
	}
	b.WriteString("}}}")
	return b.String()
}

func color(n *graph.Node) string {
	switch n.Type().Kind {
	case registry.Input:
		return inputColor
	case registry.Output:
		return outputColor
	default:
		return hiddenColor
	}
}

// Record syntax characters are replaced by HTML entities. Graphviz decodes
// them only after splitting the record into fields.
var recordEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	"{", "&#123;",
	"}", "&#125;",
	"|", "&#124;",
	`"`, "&quot;",
	`\`, "&#92;",
)

func escape(s string) string {
	return recordEscaper.Replace(s)
}
