package app

import (
	"context"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/mandelsoft/vfs/pkg/memoryfs"
	"github.com/mandelsoft/vfs/pkg/vfs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/specialistvlad/bagelgo/internal/interval"
)

const squaresYAML = `
nodes:
  - {id: 1, type: INPUT, name: x}
  - {id: 2, type: INPUT, name: y}
  - id: 3
    type: PIPE
    inputs:
      - {type: PRODUCT, bias: 1}
  - id: 4
    type: PIPE
    inputs:
      - {type: PRODUCT, bias: 1}
  - {id: 5, type: OUTPUT, name: sum}
edges:
  - {fromNodeId: 1, toNodeId: 3}
  - {fromNodeId: 1, toNodeId: 3}
  - {fromNodeId: 2, toNodeId: 4}
  - {fromNodeId: 2, toNodeId: 4}
  - {fromNodeId: 3, toNodeId: 5}
  - {fromNodeId: 4, toNodeId: 5}
`

// counter feeds its output back into itself, so every step adds one.
const counterHCL = `
graph "counter" {
  node "acc" {
    type = "PIPE"
    input "in1" {
      bias = 1
    }
  }
  node "n" {
    type = "OUTPUT"
  }
  edge {
    from            = "acc"
    to              = "acc"
    ignore_for_sort = true
  }
  edge {
    from = "acc"
    to   = "n"
  }
}
`

const reciprocalHCL = `
graph "reciprocal" {
  node "x" {
    type = "INPUT"
  }
  node "d" {
    type = "DIVIDE"
  }
  node "y" {
    type = "OUTPUT"
  }
  edge {
    from = "x"
    to   = "d"
  }
  edge {
    from = "d"
    to   = "y"
  }
}
`

func testFS(t *testing.T) vfs.FileSystem {
	t.Helper()
	fs := memoryfs.New()
	require.NoError(t, fs.MkdirAll("/g", 0o700))
	for name, src := range map[string]string{
		"squares.yml":    squaresYAML,
		"counter.hcl":    counterHCL,
		"reciprocal.hcl": reciprocalHCL,
	} {
		require.NoError(t, vfs.WriteFile(fs, "/g/"+name, []byte(src), 0o600))
	}
	return fs
}

func newTestConfig(t *testing.T, cfg Config) *Config {
	t.Helper()
	if cfg.FS == nil {
		cfg.FS = testFS(t)
	}
	c, err := NewConfig(cfg)
	require.NoError(t, err)
	return c
}

func TestRun_Evaluate(t *testing.T) {
	cfg := newTestConfig(t, Config{GraphPath: "/g/squares.yml", Inputs: []float64{3, 5}})
	a, out, logs := SetupAppTest(t, cfg)

	require.NoError(t, a.Run(context.Background()))
	assert.Equal(t, "step 1: sum=34\n", out.String())
	assert.Contains(t, logs.String(), "Graph loaded.")
}

func TestRun_EvaluateSteps(t *testing.T) {
	cfg := newTestConfig(t, Config{GraphPath: "counter.hcl", LoadPath: "/g", Steps: 3})
	a, out, _ := SetupAppTest(t, cfg)

	require.NoError(t, a.Run(context.Background()))
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "step 1: n=1", lines[0])
	assert.Equal(t, "step 3: n=3", lines[2])
}

func TestRun_Search(t *testing.T) {
	cfg := newTestConfig(t, Config{
		GraphPath:  "/g/reciprocal.hcl",
		Mode:       ModeSearch,
		Bounds:     []interval.Interval{interval.New(-1, 2)},
		Resolution: 1e-3,
	})
	a, out, _ := SetupAppTest(t, cfg)

	require.NoError(t, a.Run(context.Background()))
	s := out.String()
	assert.Contains(t, s, "box 1:")
	assert.Contains(t, s, "evaluations")
}

func TestRun_SearchWrongBounds(t *testing.T) {
	cfg := newTestConfig(t, Config{
		GraphPath: "/g/reciprocal.hcl",
		Mode:      ModeSearch,
		Bounds:    []interval.Interval{interval.New(-1, 2), interval.New(0, 1)},
	})
	a, _, _ := SetupAppTest(t, cfg)

	require.Error(t, a.Run(context.Background()))
	assert.Error(t, a.Engine().Err())
}

func TestRun_Dot(t *testing.T) {
	fs := testFS(t)
	cfg := newTestConfig(t, Config{GraphPath: "/g/squares.yml", Mode: ModeDot, FS: fs})
	a, out, _ := SetupAppTest(t, cfg)
	require.NoError(t, a.Run(context.Background()))
	assert.True(t, strings.HasPrefix(out.String(), "digraph"), out.String())

	cfg = newTestConfig(t, Config{GraphPath: "/g/squares.yml", Mode: ModeDot, OutPath: "/dot/squares.dot", FS: fs})
	a, out, _ = SetupAppTest(t, cfg)
	require.NoError(t, a.Run(context.Background()))
	assert.Empty(t, out.String())
	data, err := vfs.ReadFile(fs, "/dot/squares.dot")
	require.NoError(t, err)
	assert.Contains(t, string(data), "digraph")
}

func TestRun_Convert(t *testing.T) {
	fs := testFS(t)
	cfg := newTestConfig(t, Config{GraphPath: "/g/squares.yml", Mode: ModeConvert, OutPath: "/g/squares.hcl", FS: fs})
	a, out, _ := SetupAppTest(t, cfg)
	require.NoError(t, a.Run(context.Background()))
	assert.Equal(t, "wrote /g/squares.hcl\n", out.String())

	cfg = newTestConfig(t, Config{GraphPath: "/g/squares.hcl", Inputs: []float64{3, 5}, FS: fs})
	a, out, _ = SetupAppTest(t, cfg)
	require.NoError(t, a.Run(context.Background()))
	assert.Equal(t, "step 1: sum=34\n", out.String())
}

func TestRun_LoadError(t *testing.T) {
	cfg := newTestConfig(t, Config{GraphPath: "/g/missing.yml"})
	a, _, _ := SetupAppTest(t, cfg)

	err := a.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load graph")
}

func TestNewConfig(t *testing.T) {
	testCases := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{name: "missing graph", cfg: Config{}, wantErr: "GraphPath"},
		{name: "bad mode", cfg: Config{GraphPath: "g.yml", Mode: "run"}, wantErr: "unknown mode"},
		{name: "convert without output", cfg: Config{GraphPath: "g.yml", Mode: ModeConvert}, wantErr: "output path"},
		{name: "negative steps", cfg: Config{GraphPath: "g.yml", Steps: -1}, wantErr: "steps"},
		{name: "negative resolution", cfg: Config{GraphPath: "g.yml", Resolution: -1}, wantErr: "resolution"},
		{name: "nan resolution", cfg: Config{GraphPath: "g.yml", Resolution: math.NaN()}, wantErr: "resolution"},
		{name: "port", cfg: Config{GraphPath: "g.yml", HealthcheckPort: 70000}, wantErr: "port"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewConfig(tc.cfg)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.wantErr)
		})
	}

	cfg, err := NewConfig(Config{GraphPath: "g.yml"})
	require.NoError(t, err)
	assert.Equal(t, ModeEvaluate, cfg.Mode)
	assert.Equal(t, 1, cfg.Steps)
	assert.Equal(t, DefaultResolution, cfg.Resolution)
	assert.Equal(t, "/", cfg.PublishNamespace)
}

func TestHealthHandler(t *testing.T) {
	cfg := newTestConfig(t, Config{GraphPath: "/g/squares.yml"})
	a, _, _ := SetupAppTest(t, cfg)

	rec := httptest.NewRecorder()
	a.healthHandler(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OK\n", rec.Body.String())
	assert.NoError(t, a.closeHealthcheckServer(), "closing a server that never started is a no-op")
}
