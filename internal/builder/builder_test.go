package builder

import (
	"context"
	"errors"
	"path"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/mandelsoft/vfs/pkg/memoryfs"
	"github.com/mandelsoft/vfs/pkg/vfs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/specialistvlad/bagelgo/internal/bgerr"
	"github.com/specialistvlad/bagelgo/internal/config"
	"github.com/specialistvlad/bagelgo/internal/graph"
	"github.com/specialistvlad/bagelgo/internal/merge"
	"github.com/specialistvlad/bagelgo/internal/registry"
)

const squaresYAML = `
nodes:
  - id: 1
    type: INPUT
    name: x
    inputs:
      - default: 3
  - id: 2
    type: INPUT
    name: y
    inputs:
      - default: 5
  - id: 3
    type: PIPE
    inputs:
      - type: PRODUCT
        bias: 1
  - id: 4
    type: pipe
    inputs:
      - type: product
        bias: 1
  - id: 5
    type: OUTPUT
    name: sum
edges:
  - {fromNode: x, toNodeId: 3}
  - {fromNode: x, toNodeId: 3}
  - {fromNode: y, toNodeId: 4}
  - {fromNode: y, toNodeId: 4}
  - {fromNodeId: 3, toNode: sum}
  - {fromNodeId: 4, toNode: sum}
`

const adderYAML = `
nodes:
  - {type: INPUT, name: a}
  - {type: INPUT, name: b}
  - type: SUBGRAPH
    name: inner
    subgraph_name: leaf.hcl
  - {type: OUTPUT, name: s}
edges:
  - {fromNode: a, toNode: s}
  - {fromNode: b, toNode: inner, toNodeInput: v}
  - {fromNode: inner, fromNodeOutput: w, toNode: s}
`

const leafHCL = `
graph "leaf" {
  node "v" {
    type = "INPUT"
  }
  node "w" {
    type = "OUTPUT"
  }
  edge {
    from = "v"
    to   = "w"
  }
}
`

const mainYAML = `
nodes:
  - {id: 1, type: INPUT, name: x, inputs: {default: 2}}
  - {id: 2, type: INPUT, name: y, inputs: {default: 3}}
  - {id: 3, type: SUBGRAPH, name: add, subgraph_name: "${SUBDIR}/adder.yml"}
  - {id: 4, type: OUTPUT, name: out}
edges:
  - {fromNodeId: 1, toNodeId: 3, toNodeInput: a}
  - {fromNodeId: 2, toNodeId: 3, toNodeInput: b}
  - {fromNodeId: 3, fromNodeOutput: s, toNodeId: 4}
`

func writeFiles(t *testing.T, fs vfs.FileSystem, files map[string]string) {
	t.Helper()
	for name, content := range files {
		require.NoError(t, fs.MkdirAll(path.Dir(name), 0o700))
		require.NoError(t, vfs.WriteFile(fs, name, []byte(content), 0o600))
	}
}

func TestLoadFile_SumOfSquares(t *testing.T) {
	fs := memoryfs.New()
	writeFiles(t, fs, map[string]string{"/graphs/squares.yml": squaresYAML})

	g, err := LoadFile(context.Background(), fs, registry.New(), "squares.yml", "/graphs")
	require.NoError(t, err)

	assert.Equal(t, "squares.yml", g.Name())
	assert.Equal(t, "/graphs", g.LoadPath())
	require.NoError(t, g.Evaluate())
	out, err := g.Output(0)
	require.NoError(t, err)
	assert.Equal(t, 34.0, out)
}

func TestLoadFile_NestedSubgraphs(t *testing.T) {
	t.Setenv("SUBDIR", "lib")
	fs := memoryfs.New()
	writeFiles(t, fs, map[string]string{
		"/g/main.yml":      mainYAML,
		"/g/lib/adder.yml": adderYAML,
		"/g/lib/leaf.hcl":  leafHCL,
	})

	g, err := LoadFile(context.Background(), fs, registry.New(), "/g/main.yml", "")
	require.NoError(t, err)

	require.NoError(t, g.Evaluate())
	out, err := g.Output(0)
	require.NoError(t, err)
	assert.Equal(t, 5.0, out)

	var paths []string
	for _, ref := range g.SubgraphList(true) {
		paths = append(paths, ref.Path+"="+ref.Name)
	}
	assert.Equal(t, []string{"add=${SUBDIR}/adder.yml", "add/inner=leaf.hcl"}, paths)
	assert.Equal(t, 3+3+2, g.NodeCount(true), "SUBGRAPH nodes count as their nested nodes")
}

func TestLoadFile_Errors(t *testing.T) {
	fs := memoryfs.New()
	writeFiles(t, fs, map[string]string{
		"/e/loop.yml":     "nodes:\n  - {type: SUBGRAPH, subgraph_name: loop.yml}\n",
		"/e/missing.yml":  "nodes:\n  - {type: SUBGRAPH, subgraph_name: nowhere.yml}\n",
		"/e/noref.yml":    "nodes:\n  - {type: SUBGRAPH}\n",
		"/e/badtype.yml":  "nodes:\n  - {type: WHATEVER}\n",
		"/e/badmerge.yml": "nodes:\n  - {type: PIPE, inputs: {type: AVERAGE}}\n",
		"/e/badport.yml":  "nodes:\n  - {type: PIPE, inputs: [{}, {}]}\n",
		"/e/extern.yml":   "nodes:\n  - {type: EXTERN, extern_name: nope}\n",
		"/e/dup.yml":      "nodes:\n  - {id: 1, type: PIPE}\n  - {id: 1, type: PIPE}\n",
		"/e/edge.yml":     "nodes:\n  - {type: PIPE, name: p}\nedges:\n  - {fromNode: q, toNode: p}\n",
		"/e/port.yml":     "nodes:\n  - {type: PIPE, name: p}\nedges:\n  - {fromNode: p, toNode: p, toNodeInput: zz}\n",
		"/e/format.txt":   "",
	})
	cases := []struct {
		file string
		kind bgerr.Kind
		msg  string
	}{
		{file: "loop.yml", msg: "nested deeper"},
		{file: "missing.yml", msg: "nowhere.yml"},
		{file: "noref.yml", msg: "without a subgraph reference"},
		{file: "badtype.yml", kind: bgerr.NotFound},
		{file: "badmerge.yml", kind: bgerr.NotFound},
		{file: "badport.yml", kind: bgerr.OutOfRange},
		{file: "extern.yml", kind: bgerr.ExternNotFound},
		{file: "dup.yml", kind: bgerr.DuplicateID},
		{file: "edge.yml", kind: bgerr.NotFound},
		{file: "port.yml", kind: bgerr.NotFound},
		{file: "format.txt", msg: "no graph format"},
	}
	for _, tc := range cases {
		t.Run(tc.file, func(t *testing.T) {
			_, err := LoadFile(context.Background(), fs, registry.New(), tc.file, "/e")
			require.Error(t, err)
			if tc.msg != "" {
				assert.Contains(t, err.Error(), tc.msg)
			} else {
				assert.Equal(t, tc.kind, bgerr.KindOf(err), err.Error())
			}
		})
	}
}

func TestBuild_DefaultsAndConfig(t *testing.T) {
	m := &config.Model{
		Name: "defaults",
		Nodes: []*config.Node{
			{Type: "INPUT"},
			{ID: 10, Type: "PIPE", Inputs: []*config.Input{{Index: 0, Name: "gain", Bias: config.Float(2)}}},
			{Name: "y", Type: "OUTPUT", Outputs: []*config.Output{{Index: 0, Name: "result"}}},
		},
		Edges: []*config.Edge{
			{From: 1, To: 10, Weight: 4, IgnoreForSort: true},
			{From: 10, ToName: "y", Weight: 1},
		},
	}
	g, err := Build(context.Background(), nil, m, Options{FS: memoryfs.New()})
	require.NoError(t, err)

	id, err := g.NodeIDByName("node_1")
	require.NoError(t, err)
	assert.Equal(t, graph.NodeID(1), id)
	out, err := g.NodeIDByName("y")
	require.NoError(t, err)
	assert.Equal(t, graph.NodeID(11), out, "ids continue after the largest explicit id")

	name, err := g.InputName(10, 0)
	require.NoError(t, err)
	assert.Equal(t, "gain", name)
	k, err := g.Merge(10, 0)
	require.NoError(t, err)
	assert.Equal(t, merge.Sum, k, "an unset merge keeps the default")
	bias, err := g.Bias(10, 0)
	require.NoError(t, err)
	assert.Equal(t, 2.0, bias)
	oname, err := g.OutputName(out, 0)
	require.NoError(t, err)
	assert.Equal(t, "result", oname)

	e, err := g.Edge(1)
	require.NoError(t, err)
	assert.True(t, e.IgnoreForSort)
	assert.Equal(t, 4.0, e.Weight)
}

func TestExtract_RoundTrip(t *testing.T) {
	fs := memoryfs.New()
	writeFiles(t, fs, map[string]string{"/graphs/squares.yml": squaresYAML})
	ctx := context.Background()
	reg := registry.New()

	g, err := LoadFile(ctx, fs, reg, "/graphs/squares.yml", "")
	require.NoError(t, err)

	m := Extract(g)
	require.Len(t, m.Nodes, 5)
	assert.Equal(t, []string{"INPUT", "INPUT", "PIPE", "PIPE", "OUTPUT"}, types(m))
	assert.Equal(t, "PRODUCT", m.Nodes[2].Inputs[0].Merge)
	assert.Equal(t, 3.0, *m.Nodes[0].Inputs[0].Default)

	for _, target := range []string{"/out/squares.hcl", "/out/squares.yaml"} {
		t.Run(path.Ext(target), func(t *testing.T) {
			require.NoError(t, SaveFile(ctx, fs, g, target))
			back, err := LoadFile(ctx, fs, reg, target, "")
			require.NoError(t, err)

			require.NoError(t, back.Evaluate())
			out, err := back.Output(0)
			require.NoError(t, err)
			assert.Equal(t, 34.0, out)

			again := Extract(back)
			again.Name = m.Name
			assert.Empty(t, cmp.Diff(m, again))
		})
	}
}

func TestExtract_ExternAndSubgraph(t *testing.T) {
	reg := registry.New()
	require.NoError(t, reg.Register(&registry.NodeType{
		Name: "HALF", Inputs: 1, Outputs: 1,
		Eval: func(_ any, in, out []float64) error { out[0] = in[0] / 2; return nil },
	}))
	g := graph.New("host", reg)
	ext, err := g.CreateNode("h", 0, "EXTERN")
	require.NoError(t, err)
	require.NoError(t, g.SetExtern(ext, "HALF"))
	sub, err := g.CreateNode("s", 0, "SUBGRAPH")
	require.NoError(t, err)
	require.NoError(t, g.SetSubgraph(sub, graph.New("inner.yml", reg)))
	_, err = g.CreateNode("u", 0, "EXTERN")
	require.NoError(t, err)

	m := Extract(g)
	require.Len(t, m.Nodes, 3)
	assert.Equal(t, "EXTERN", m.Nodes[0].Type)
	assert.Equal(t, "HALF", m.Nodes[0].Extern)
	assert.Equal(t, "SUBGRAPH", m.Nodes[1].Type)
	assert.Equal(t, "inner.yml", m.Nodes[1].Subgraph)
	assert.Equal(t, "EXTERN", m.Nodes[2].Type)
	assert.Empty(t, m.Nodes[2].Extern)
}

func TestBuild_ExternBinding(t *testing.T) {
	reg := registry.New()
	require.NoError(t, reg.Register(&registry.NodeType{
		Name: "HALF", Inputs: 1, Outputs: 1,
		Eval: func(_ any, in, out []float64) error { out[0] = in[0] / 2; return nil },
	}))
	m := &config.Model{Name: "ext", Nodes: []*config.Node{
		{ID: 1, Type: "INPUT", Inputs: []*config.Input{{Index: 0, Default: config.Float(9)}}},
		{ID: 2, Type: "EXTERN", Extern: "HALF"},
		{ID: 3, Type: "OUTPUT"},
	}, Edges: []*config.Edge{{From: 1, To: 2, Weight: 1}, {From: 2, To: 3, Weight: 1}}}

	g, err := Build(context.Background(), reg, m, Options{})
	require.NoError(t, err)
	require.NoError(t, g.Evaluate())
	out, err := g.Output(0)
	require.NoError(t, err)
	assert.Equal(t, 4.5, out)

	_, err = Build(context.Background(), registry.New(), m, Options{})
	require.True(t, errors.Is(err, bgerr.ErrExternNotFound))
}

func types(m *config.Model) []string {
	out := make([]string, len(m.Nodes))
	for i, n := range m.Nodes {
		out[i] = n.Type
	}
	return out
}
