package env_vars

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/specialistvlad/bagelgo/internal/graph"
	"github.com/specialistvlad/bagelgo/internal/registry"
)

func TestConstants(t *testing.T) {
	m := &Module{Environ: func() []string {
		return []string{
			"HOME=/root",
			"BAGEL_CONST_GAIN=2.5",
			"BAGEL_CONST_offset= -1 ",
			"BAGEL_CONST_BAD=abc",
			"BAGEL_CONST_=7",
		}
	}}
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	want := map[string]float64{"CONST_GAIN": 2.5, "CONST_OFFSET": -1}
	if diff := cmp.Diff(want, m.Constants(logger)); diff != "" {
		t.Errorf("Constants() mismatch (-want +got):\n%s", diff)
	}
	assert.Contains(t, buf.String(), "variable=BAGEL_CONST_BAD")
}

func TestRegister_UsesRegistryLogger(t *testing.T) {
	var buf bytes.Buffer
	reg := registry.New(registry.WithLogger(slog.New(slog.NewTextHandler(&buf, nil))))
	reg.Use(&Module{Environ: func() []string { return []string{"BAGEL_CONST_X=oops"} }})

	assert.Empty(t, reg.Externs())
	assert.Contains(t, buf.String(), "Ignoring non-numeric constant.")
}

func TestConstantNode(t *testing.T) {
	t.Setenv("BAGEL_CONST_GAIN", "4")
	reg := registry.New()
	reg.Use(&Module{})
	assert.Contains(t, reg.Externs(), "CONST_GAIN")

	g := graph.New("const", reg)
	c, err := g.CreateNode("gain", 0, "EXTERN")
	require.NoError(t, err)
	require.NoError(t, g.SetExtern(c, "CONST_GAIN"))
	out, err := g.CreateNode("y", 0, "OUTPUT")
	require.NoError(t, err)
	_, err = g.CreateEdge(c, 0, out, 0, 1, 0)
	require.NoError(t, err)

	require.NoError(t, g.Evaluate())
	assert.Equal(t, []float64{4}, g.Outputs())

	require.NoError(t, g.EvaluateInterval())
	iv, err := g.OutputInterval(0)
	require.NoError(t, err)
	assert.True(t, iv.Lo <= 4 && iv.Hi >= 4, "%v", iv)
	assert.InDelta(t, 0, iv.Hi-iv.Lo, 1e-12)
}
