package registry

import (
	"bytes"
	"errors"
	"log/slog"
	"math"
	"testing"

	"github.com/specialistvlad/bagelgo/internal/bgerr"
	"github.com/specialistvlad/bagelgo/internal/interval"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func eval(t *testing.T, r *Registry, name string, in ...float64) float64 {
	t.Helper()
	nt, err := r.Lookup(name)
	require.NoError(t, err)
	require.Len(t, in, nt.Inputs)
	out := make([]float64, nt.Outputs)
	require.NoError(t, nt.Eval(nil, in, out))
	return out[0]
}

func TestBuiltinArity(t *testing.T) {
	r := New()
	testCases := []struct {
		name    string
		inputs  int
		outputs int
	}{
		{"PIPE", 1, 1},
		{"DIVIDE", 1, 1},
		{"ATAN2", 2, 1},
		{"POW", 2, 1},
		{"MOD", 2, 1},
		{">0", 3, 1},
		{"==0", 3, 1},
		{"INPUT", 1, 1},
		{"OUTPUT", 1, 1},
		{"SUBGRAPH", 0, 0},
		{"EXTERN", 0, 0},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			nt, err := r.Lookup(tc.name)
			require.NoError(t, err)
			assert.Equal(t, tc.inputs, nt.Inputs)
			assert.Equal(t, tc.outputs, nt.Outputs)
		})
	}
	assert.Len(t, r.Types(), 20)
}

func TestBuiltinEval(t *testing.T) {
	r := New()
	assert.Equal(t, 4.0, eval(t, r, "PIPE", 4))
	assert.Equal(t, 0.25, eval(t, r, "DIVIDE", 4))
	assert.True(t, math.IsInf(eval(t, r, "DIVIDE", 0), 1))
	assert.True(t, math.IsNaN(eval(t, r, "SQRT", -1)))
	assert.True(t, math.IsNaN(eval(t, r, "ACOS", 2)))
	assert.True(t, math.IsNaN(eval(t, r, "MOD", 1, 0)))
	assert.Equal(t, 1.0, eval(t, r, "MOD", 7, 3))
	assert.Equal(t, 8.0, eval(t, r, "POW", 2, 3))
	assert.InDelta(t, math.Pi/2, eval(t, r, "ATAN2", 1, 0), 1e-15)
	assert.Equal(t, 0.5, eval(t, r, "FSIGMOID", 0))
	assert.Equal(t, 3.0, eval(t, r, "ABS", -3))
	assert.Equal(t, 10.0, eval(t, r, ">0", 1, 10, 20))
	assert.Equal(t, 20.0, eval(t, r, ">0", 0, 10, 20))
	assert.Equal(t, 10.0, eval(t, r, "==0", 1e-7, 10, 20))
	assert.Equal(t, 20.0, eval(t, r, "==0", 1e-5, 10, 20))
}

func TestSelectorIntervals(t *testing.T) {
	r := New()
	a, b := interval.Point(10), interval.Point(20)
	testCases := []struct {
		name string
		kind string
		cond interval.Interval
		want interval.Interval
	}{
		{"gt positive", ">0", interval.New(0.5, 1), a},
		{"gt non-positive", ">0", interval.New(-1, 0), b},
		{"gt undecided", ">0", interval.New(-1, 1), interval.New(10, 20)},
		{"eq inside epsilon", "==0", interval.New(-1e-7, 1e-7), a},
		{"eq outside", "==0", interval.New(1, 2), b},
		{"eq undecided", "==0", interval.New(0, 1), interval.New(10, 20)},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			nt := r.MustLookup(tc.kind)
			out := make([]interval.Interval, 1)
			require.NoError(t, nt.EvalInterval(nil, []interval.Interval{tc.cond, a, b}, out))
			assert.Equal(t, tc.want, out[0])
		})
	}
}

func TestLookup(t *testing.T) {
	r := New()
	nt, err := r.Lookup("fsigmoid")
	require.NoError(t, err)
	assert.Equal(t, FSigmoid, nt.Kind)

	_, err = r.Lookup("NOPE")
	assert.True(t, errors.Is(err, bgerr.ErrNotFound))
	assert.Panics(t, func() { r.MustLookup("NOPE") })
}

func TestUnboundExternFails(t *testing.T) {
	nt := New().MustLookup("EXTERN")
	err := nt.Eval(nil, nil, nil)
	assert.True(t, errors.Is(err, bgerr.ErrNotImplemented))
	err = nt.EvalInterval(nil, nil, nil)
	assert.True(t, errors.Is(err, bgerr.ErrNotImplemented))
}

type doubler struct{}

func (doubler) Register(r *Registry) {
	r.MustRegister(&NodeType{
		Name:    "double",
		Inputs:  1,
		Outputs: 1,
		Eval: func(_ any, in, out []float64) error {
			out[0] = 2 * in[0]
			return nil
		},
	})
}

func TestRegisterExtern(t *testing.T) {
	r := New()
	r.Use(doubler{})

	nt, err := r.Extern("double")
	require.NoError(t, err)
	assert.Equal(t, Extern, nt.Kind)
	assert.Equal(t, []string{"double"}, r.Externs())

	err = r.Register(&NodeType{Name: "double", Eval: notBound})
	assert.True(t, errors.Is(err, bgerr.ErrDuplicateID))

	_, err = r.Extern("triple")
	assert.True(t, errors.Is(err, bgerr.ErrExternNotFound))
}

func TestRegisterRejectsInvalid(t *testing.T) {
	r := New()
	err := r.Register(&NodeType{Name: "", Inputs: 1, InputNames: []string{"a", "b"}})
	require.Error(t, err)
	assert.Equal(t, bgerr.WrongType, bgerr.KindOf(err))
	assert.ErrorContains(t, err, "name is empty")
	assert.ErrorContains(t, err, "Eval is required")
	assert.ErrorContains(t, err, "more input names than inputs")
	assert.Panics(t, func() { r.MustRegister(nil) })
}

func TestRegisterBatch(t *testing.T) {
	ok := func(name string) *NodeType { return &NodeType{Name: name, Eval: notBound} }
	testCases := []struct {
		name    string
		batch   []*NodeType
		wantErr bgerr.Kind
		want    []string
	}{
		{name: "all valid", batch: []*NodeType{ok("a"), ok("b")}, want: []string{"a", "b", "taken"}},
		{name: "invalid last", batch: []*NodeType{ok("a"), {Name: "b"}}, wantErr: bgerr.WrongType, want: []string{"taken"}},
		{name: "clash with registered", batch: []*NodeType{ok("a"), ok("taken")}, wantErr: bgerr.DuplicateID, want: []string{"taken"}},
		{name: "clash within batch", batch: []*NodeType{ok("a"), ok("b"), ok("a")}, wantErr: bgerr.DuplicateID, want: []string{"taken"}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			r := New()
			require.NoError(t, r.Register(ok("taken")))
			err := r.Register(tc.batch...)
			if tc.wantErr != 0 {
				require.Error(t, err)
				assert.Equal(t, tc.wantErr, bgerr.KindOf(err))
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, tc.want, r.Externs())
		})
	}
}

func TestRegisterCopiesType(t *testing.T) {
	var buf bytes.Buffer
	r := New(WithLogger(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))))
	nt := &NodeType{Name: "mine", Kind: Pipe, Eval: notBound}
	require.NoError(t, r.Register(nt))

	assert.Equal(t, Pipe, nt.Kind, "caller's type is not modified")
	got, err := r.Extern("mine")
	require.NoError(t, err)
	assert.Equal(t, Extern, got.Kind)
	assert.NotSame(t, nt, got)
	assert.Contains(t, buf.String(), "name=mine")
}
