package registry

import (
	"math"

	"github.com/specialistvlad/bagelgo/internal/bgerr"
	"github.com/specialistvlad/bagelgo/internal/interval"
)

func unary(f func(float64) float64) EvalFunc {
	return func(_ any, in, out []float64) error {
		out[0] = f(in[0])
		return nil
	}
}

func binary(f func(a, b float64) float64) EvalFunc {
	return func(_ any, in, out []float64) error {
		out[0] = f(in[0], in[1])
		return nil
	}
}

func unaryInterval(f func(interval.Interval) interval.Interval) IntervalFunc {
	return func(_ any, in, out []interval.Interval) error {
		out[0] = f(in[0])
		return nil
	}
}

func binaryInterval(f func(a, b interval.Interval) interval.Interval) IntervalFunc {
	return func(_ any, in, out []interval.Interval) error {
		out[0] = f(in[0], in[1])
		return nil
	}
}

func identity(x float64) float64 { return x }

func identityInterval(x interval.Interval) interval.Interval { return x }

func fsigmoid(x float64) float64 {
	return 1 / (1 + math.Exp(-interval.SigmoidSlope*x))
}

// greaterThanZero selects in[1] when in[0] > 0 and in[2] otherwise.
func greaterThanZero(_ any, in, out []float64) error {
	if in[0] > 0 {
		out[0] = in[1]
	} else {
		out[0] = in[2]
	}
	return nil
}

// greaterThanZeroInterval returns the hull of both branches when the
// condition is undecided.
func greaterThanZeroInterval(_ any, in, out []interval.Interval) error {
	c := in[0]
	switch {
	case c.IsNaN():
		out[0] = interval.NaN()
	case c.Lo > 0:
		out[0] = in[1]
	case c.Hi <= 0:
		out[0] = in[2]
	default:
		out[0] = in[1].Hull(in[2])
	}
	return nil
}

func equalToZero(_ any, in, out []float64) error {
	if math.Abs(in[0]) < Epsilon {
		out[0] = in[1]
	} else {
		out[0] = in[2]
	}
	return nil
}

func equalToZeroInterval(_ any, in, out []interval.Interval) error {
	c := in[0]
	switch {
	case c.IsNaN():
		out[0] = interval.NaN()
	case c.Lo > -Epsilon && c.Hi < Epsilon:
		out[0] = in[1]
	case c.Lo >= Epsilon || c.Hi <= -Epsilon:
		out[0] = in[2]
	default:
		out[0] = in[1].Hull(in[2])
	}
	return nil
}

func notBound(_ any, _, _ []float64) error {
	return bgerr.New(bgerr.NotImplemented, "eval", "extern node is not bound to a registered type")
}

func notBoundInterval(_ any, _, _ []interval.Interval) error {
	return bgerr.New(bgerr.NotImplemented, "eval", "extern node is not bound to a registered type")
}

func builtins() []*NodeType {
	return []*NodeType{
		{Kind: Input, Name: "INPUT", Inputs: 1, Outputs: 1, Eval: unary(identity), EvalInterval: unaryInterval(identityInterval)},
		{Kind: Output, Name: "OUTPUT", Inputs: 1, Outputs: 1, Eval: unary(identity), EvalInterval: unaryInterval(identityInterval)},
		{Kind: Pipe, Name: "PIPE", Inputs: 1, Outputs: 1, Eval: unary(identity), EvalInterval: unaryInterval(identityInterval)},
		{Kind: Divide, Name: "DIVIDE", Inputs: 1, Outputs: 1,
			Eval:         unary(func(x float64) float64 { return 1 / x }),
			EvalInterval: unaryInterval(interval.Interval.Inverse)},
		{Kind: Sin, Name: "SIN", Inputs: 1, Outputs: 1, Eval: unary(math.Sin), EvalInterval: unaryInterval(interval.Sin)},
		{Kind: Asin, Name: "ASIN", Inputs: 1, Outputs: 1, Eval: unary(math.Asin), EvalInterval: unaryInterval(interval.Asin)},
		{Kind: Cos, Name: "COS", Inputs: 1, Outputs: 1, Eval: unary(math.Cos), EvalInterval: unaryInterval(interval.Cos)},
		{Kind: Tan, Name: "TAN", Inputs: 1, Outputs: 1, Eval: unary(math.Tan), EvalInterval: unaryInterval(interval.Tan)},
		{Kind: Acos, Name: "ACOS", Inputs: 1, Outputs: 1, Eval: unary(math.Acos), EvalInterval: unaryInterval(interval.Acos)},
		{Kind: Atan2, Name: "ATAN2", Inputs: 2, Outputs: 1, Eval: binary(math.Atan2), EvalInterval: binaryInterval(interval.Atan2)},
		{Kind: Pow, Name: "POW", Inputs: 2, Outputs: 1, Eval: binary(math.Pow), EvalInterval: binaryInterval(interval.Pow)},
		{Kind: Mod, Name: "MOD", Inputs: 2, Outputs: 1, Eval: binary(math.Mod), EvalInterval: binaryInterval(interval.Mod)},
		{Kind: Abs, Name: "ABS", Inputs: 1, Outputs: 1, Eval: unary(math.Abs), EvalInterval: unaryInterval(interval.Abs)},
		{Kind: Sqrt, Name: "SQRT", Inputs: 1, Outputs: 1, Eval: unary(math.Sqrt), EvalInterval: unaryInterval(interval.Sqrt)},
		{Kind: FSigmoid, Name: "FSIGMOID", Inputs: 1, Outputs: 1, Eval: unary(fsigmoid), EvalInterval: unaryInterval(interval.Sigmoid)},
		{Kind: GreaterThanZero, Name: ">0", Inputs: 3, Outputs: 1, Eval: greaterThanZero, EvalInterval: greaterThanZeroInterval},
		{Kind: EqualToZero, Name: "==0", Inputs: 3, Outputs: 1, Eval: equalToZero, EvalInterval: equalToZeroInterval},
		{Kind: Tanh, Name: "TANH", Inputs: 1, Outputs: 1, Eval: unary(math.Tanh), EvalInterval: unaryInterval(interval.Tanh)},
		{Kind: Subgraph, Name: "SUBGRAPH"},
		{Kind: Extern, Name: "EXTERN", Eval: notBound, EvalInterval: notBoundInterval},
	}
}
