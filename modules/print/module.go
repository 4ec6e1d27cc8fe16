package print

import (
	"log/slog"

	"github.com/specialistvlad/bagelgo/internal/interval"
	"github.com/specialistvlad/bagelgo/internal/registry"
)

// Module implements the registry.Module interface for this package.
type Module struct {
	// Logger receives the printed values. Nil means slog.Default().
	Logger *slog.Logger
}

// state counts the passes of a single PRINT node.
type state struct {
	pass int
}

func (m *Module) logger() *slog.Logger {
	if m.Logger != nil {
		return m.Logger
	}
	return slog.Default()
}

// Eval passes its input through and logs it.
func (m *Module) Eval(st any, in, out []float64) error {
	s := st.(*state)
	s.pass++
	m.logger().Info("PRINT", "pass", s.pass, "value", in[0])
	out[0] = in[0]
	return nil
}

// EvalInterval is the interval counterpart of Eval.
func (m *Module) EvalInterval(st any, in, out []interval.Interval) error {
	s := st.(*state)
	s.pass++
	m.logger().Info("PRINT", "pass", s.pass, "interval", in[0].String())
	out[0] = in[0]
	return nil
}

// Register registers the PRINT node type.
func (m *Module) Register(r *registry.Registry) {
	r.MustRegister(&registry.NodeType{
		Name:         "PRINT",
		Inputs:       1,
		Outputs:      1,
		InputNames:   []string{"value"},
		OutputNames:  []string{"value"},
		Init:         func() (any, error) { return &state{}, nil },
		Eval:         m.Eval,
		EvalInterval: m.EvalInterval,
	})
}
