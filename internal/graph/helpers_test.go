package graph

import (
	"io"
	"log/slog"
	"testing"

	"github.com/specialistvlad/bagelgo/internal/merge"
	"github.com/specialistvlad/bagelgo/internal/registry"
	"github.com/stretchr/testify/require"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestGraph(name string) *Graph {
	return New(name, registry.New(), WithLogger(quietLogger()))
}

// mustNode creates a node and fails the test on error.
func mustNode(t *testing.T, g *Graph, name string, id NodeID, typ string) NodeID {
	t.Helper()
	got, err := g.CreateNode(name, id, typ)
	require.NoError(t, err)
	return got
}

func mustEdge(t *testing.T, g *Graph, src NodeID, srcPort int, sink NodeID, sinkPort int) EdgeID {
	t.Helper()
	id, err := g.CreateEdge(src, srcPort, sink, sinkPort, 1, 0)
	require.NoError(t, err)
	return id
}

// sumOfSquares builds x*x + y*y: each input feeds a PRODUCT pipe twice and
// both pipes are summed at the output.
func sumOfSquares(t *testing.T) *Graph {
	t.Helper()
	g := newTestGraph("squares")
	x, err := g.CreateInput("x", 1)
	require.NoError(t, err)
	y, err := g.CreateInput("y", 2)
	require.NoError(t, err)
	px := mustNode(t, g, "px", 3, "PIPE")
	py := mustNode(t, g, "py", 4, "PIPE")
	out, err := g.CreateOutput("sum", 5)
	require.NoError(t, err)

	require.NoError(t, g.SetMerge(px, 0, merge.Product, 0, 1))
	require.NoError(t, g.SetMerge(py, 0, merge.Product, 0, 1))
	mustEdge(t, g, x, 0, px, 0)
	mustEdge(t, g, x, 0, px, 0)
	mustEdge(t, g, y, 0, py, 0)
	mustEdge(t, g, y, 0, py, 0)
	mustEdge(t, g, px, 0, out, 0)
	mustEdge(t, g, py, 0, out, 0)
	return g
}

// inject attaches dangling edges to every input and sets their values.
func inject(t *testing.T, g *Graph, values ...float64) []EdgeID {
	t.Helper()
	edges, err := g.AttachInputs()
	require.NoError(t, err)
	require.Len(t, edges, len(values))
	for i, v := range values {
		require.NoError(t, g.SetValue(edges[i], v))
	}
	return edges
}
