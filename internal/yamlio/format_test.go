package yamlio

import (
	"context"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/mandelsoft/vfs/pkg/memoryfs"
	"github.com/mandelsoft/vfs/pkg/vfs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/specialistvlad/bagelgo/internal/config"
)

const legacyGraph = `
descriptions:
  - note: ignored
networkInputs: [1, 2]
nodes:
  - id: 1
    type: INPUT
    name: x
  - type: PIPE
    name: square
    inputs:
      type: PRODUCT
      bias: 1
      default: -inf
    outputCount: 1
  - id: 7
    type: EXTERN
    extern_name: sensor
    outputs:
      - name: left
      - idx: 3
        name: right
  - id: 9
    type: SUBGRAPH
    subgraph_name: sub.yml
edges:
  - fromNode: x
    fromNodeOutputIdx: 0
    toNode: square
    toNodeInput: in1
  - fromNodeId: 7
    fromNodeOutput: right
    toNodeId: 9
    toNodeInputIdx: 1
    weight: 0.5
    ignore_for_sort: 1
  - toNodeId: 9
    weight: inf
    ignore_for_sort: true
`

func TestDecode_LegacyLayout(t *testing.T) {
	m, err := Decode([]byte(legacyGraph), "legacy.yml")
	require.NoError(t, err)

	assert.Equal(t, "legacy.yml", m.Name)
	require.Len(t, m.Nodes, 4)

	square := m.NodeByName("square")
	require.NotNil(t, square)
	assert.Zero(t, square.ID, "a missing id is left to the graph")
	require.Len(t, square.Inputs, 1, "a single mapping is one input")
	assert.Equal(t, "PRODUCT", square.Inputs[0].Merge)
	assert.Equal(t, 1.0, *square.Inputs[0].Bias)
	assert.True(t, math.IsInf(*square.Inputs[0].Default, -1))

	ext := m.Nodes[2]
	assert.Equal(t, "sensor", ext.Extern)
	require.Len(t, ext.Outputs, 2)
	assert.Equal(t, 0, ext.Outputs[0].Index)
	assert.Equal(t, 3, ext.Outputs[1].Index)
	assert.Equal(t, "sub.yml", m.Nodes[3].Subgraph)

	want := []*config.Edge{
		{ID: 1, FromName: "x", ToName: "square", ToPortName: "in1", Weight: 1},
		{ID: 2, From: 7, FromPortName: "right", To: 9, ToPort: 1, Weight: 0.5, IgnoreForSort: true},
		{ID: 3, To: 9, Weight: math.Inf(1), IgnoreForSort: true},
	}
	assert.Empty(t, cmp.Diff(want, m.Edges))
}

func TestDecode_Errors(t *testing.T) {
	cases := []struct {
		name string
		doc  string
	}{
		{"both source forms", "nodes: []\nedges:\n  - fromNodeId: 1\n    fromNode: a\n"},
		{"both sink port forms", "nodes: []\nedges:\n  - toNodeInputIdx: 0\n    toNodeInput: in1\n"},
		{"missing type", "nodes:\n  - id: 1\n"},
		{"bad number", "nodes:\n  - type: PIPE\n    inputs:\n      - bias: lots\n"},
		{"not yaml", "nodes: [\n"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Decode([]byte(tc.doc), "bad.yml")
			require.Error(t, err)
		})
	}
}

func TestDecode_Empty(t *testing.T) {
	m, err := Decode([]byte("  \n"), "empty.yml")
	require.NoError(t, err)
	assert.Equal(t, "empty.yml", m.Name)
	assert.Empty(t, m.Nodes)
}

func TestFormat_WriteThenLoad(t *testing.T) {
	fs := memoryfs.New()
	f := New(fs)
	ctx := context.Background()

	in := &config.Model{
		Name: "roundtrip.yml",
		Nodes: []*config.Node{
			{ID: 1, Name: "x", Type: "INPUT", Outputs: []*config.Output{{Index: 0, Name: "out1"}}},
			{ID: 2, Name: "p", Type: "PIPE",
				Inputs: []*config.Input{{Index: 0, Name: "in1", Merge: "MEDIAN",
					Default: config.Float(math.Inf(1)), Bias: config.Float(-2.5)}},
				Outputs: []*config.Output{{Index: 0, Name: "out1"}}},
			{ID: 3, Name: "o", Type: "OUTPUT"},
		},
		Edges: []*config.Edge{
			{ID: 1, From: 1, To: 2, Weight: 2},
			{ID: 2, From: 2, To: 3, Weight: -1, IgnoreForSort: true},
		},
	}
	require.NoError(t, f.Write(ctx, "/graphs/roundtrip.yml", in))

	data, err := vfs.ReadFile(fs, "/graphs/roundtrip.yml")
	require.NoError(t, err)
	assert.Contains(t, string(data), "default: inf")

	out, err := f.Load(ctx, "/graphs/roundtrip.yml")
	require.NoError(t, err)
	assert.Empty(t, cmp.Diff(in, out))
}

func TestFormat_LoadMissing(t *testing.T) {
	f := New(memoryfs.New())
	_, err := f.Load(context.Background(), "/nowhere.yml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "/nowhere.yml")
}

func TestFormat_Extensions(t *testing.T) {
	got, err := config.FormatFor("a/b.YAML", New(memoryfs.New()))
	require.NoError(t, err)
	assert.Equal(t, []string{".yml", ".yaml"}, got.Extensions())
}
