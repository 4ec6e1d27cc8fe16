package registry

import (
	"github.com/specialistvlad/bagelgo/internal/interval"
)

// Kind identifies the behaviour family of a node type.
type Kind int

const (
	Input Kind = iota
	Output
	Pipe
	Divide
	Sin
	Asin
	Cos
	Tan
	Acos
	Atan2
	Pow
	Mod
	Abs
	Sqrt
	FSigmoid
	GreaterThanZero
	EqualToZero
	Tanh
	Subgraph
	Extern
)

// Epsilon is the tolerance of the "==0" selector.
const Epsilon = 1e-6

// EvalFunc computes the output values from the merged input values.
type EvalFunc func(state any, in, out []float64) error

// IntervalFunc is the interval counterpart of EvalFunc.
type IntervalFunc func(state any, in, out []interval.Interval) error

// NodeType is an immutable descriptor shared by every node of that type.
// Inputs and Outputs fix the port counts; SUBGRAPH and EXTERN leave them at
// zero and get their ports installed later.
type NodeType struct {
	Kind    Kind
	Name    string
	Inputs  int
	Outputs int

	// InputNames and OutputNames optionally name the ports of an external
	// type. Unnamed ports fall back to in1.. and out1..
	InputNames  []string
	OutputNames []string

	// Init creates per-node state. Deinit releases it. Both are optional.
	Init   func() (any, error)
	Deinit func(state any) error

	Eval         EvalFunc
	EvalInterval IntervalFunc
}

// IsPort reports whether the type is a graph INPUT or OUTPUT.
func (t *NodeType) IsPort() bool {
	return t.Kind == Input || t.Kind == Output
}
