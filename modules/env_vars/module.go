package env_vars

import (
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/specialistvlad/bagelgo/internal/interval"
	"github.com/specialistvlad/bagelgo/internal/registry"
)

// DefaultPrefix marks the environment variables turned into constants.
const DefaultPrefix = "BAGEL_CONST_"

// Module registers one constant node type per matching environment
// variable: BAGEL_CONST_GAIN=2.5 becomes the type CONST_GAIN with no inputs
// and a single output of 2.5. Values that do not parse as numbers are
// skipped.
type Module struct {
	Prefix string
	// Environ overrides os.Environ.
	Environ func() []string
	// Logger reports skipped variables. Nil means the registry's logger.
	Logger *slog.Logger
}

// Constants returns the constant values found in the environment, keyed by
// type name. Skipped variables are reported to logger.
func (m *Module) Constants(logger *slog.Logger) map[string]float64 {
	prefix := m.Prefix
	if prefix == "" {
		prefix = DefaultPrefix
	}
	environ := m.Environ
	if environ == nil {
		environ = os.Environ
	}

	consts := make(map[string]float64)
	for _, e := range environ() {
		pair := strings.SplitN(e, "=", 2)
		if len(pair) != 2 || !strings.HasPrefix(pair[0], prefix) || len(pair[0]) == len(prefix) {
			continue
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(pair[1]), 64)
		if err != nil {
			logger.Warn("Ignoring non-numeric constant.", "variable", pair[0], "error", err)
			continue
		}
		consts["CONST_"+strings.ToUpper(pair[0][len(prefix):])] = v
	}
	return consts
}

func constant(v float64) *registry.NodeType {
	return &registry.NodeType{
		Outputs: 1,
		Eval: func(_ any, _, out []float64) error {
			out[0] = v
			return nil
		},
		EvalInterval: func(_ any, _, out []interval.Interval) error {
			out[0] = interval.Point(v)
			return nil
		},
	}
}

// Register registers the constant node types.
func (m *Module) Register(r *registry.Registry) {
	logger := m.Logger
	if logger == nil {
		logger = r.Logger()
	}
	for name, v := range m.Constants(logger) {
		t := constant(v)
		t.Name = name
		r.MustRegister(t)
	}
}
