// Package mathx adds node types for functions the built-in set lacks.
package mathx

import (
	"math"

	"github.com/specialistvlad/bagelgo/internal/interval"
	"github.com/specialistvlad/bagelgo/internal/registry"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

func unary(f func(float64) float64) registry.EvalFunc {
	return func(_ any, in, out []float64) error {
		out[0] = f(in[0])
		return nil
	}
}

func unaryInterval(f func(interval.Interval) interval.Interval) registry.IntervalFunc {
	return func(_ any, in, out []interval.Interval) error {
		out[0] = f(in[0])
		return nil
	}
}

// Register registers EXP and LOG.
func (m *Module) Register(r *registry.Registry) {
	r.MustRegister(
		&registry.NodeType{Name: "EXP", Inputs: 1, Outputs: 1, Eval: unary(math.Exp), EvalInterval: unaryInterval(interval.Exp)},
		&registry.NodeType{Name: "LOG", Inputs: 1, Outputs: 1, Eval: unary(math.Log), EvalInterval: unaryInterval(interval.Log)},
	)
}
