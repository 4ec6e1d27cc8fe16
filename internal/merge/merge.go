// Package merge holds the functions that fold the weighted values arriving
// on an input port into the single value the node computes with.
//
// Every merge receives the incoming terms together with the port's bias and
// default value. With no incoming terms the default stands in for them; the
// exact role of bias and default differs per merge and is documented on
// each kind.
package merge

import (
	"math"
	"strings"

	"github.com/specialistvlad/bagelgo/internal/bgerr"
	"github.com/specialistvlad/bagelgo/internal/interval"
)

// Epsilon is the weight total below which WEIGHTED_SUM yields the bias alone.
const Epsilon = 1e-6

// Kind identifies a merge function.
type Kind int

const (
	Sum Kind = iota
	WeightedSum
	Product
	Min
	Max
	Median
	Mean
	Norm
)

// Term is one incoming edge: its current value and weight.
type Term struct {
	Value  float64
	Weight float64
}

// IntervalTerm is the interval counterpart of Term.
type IntervalTerm struct {
	Value  interval.Interval
	Weight float64
}

// Func merges scalar terms.
type Func func(terms []Term, bias, def float64) float64

// IntervalFunc merges interval terms.
type IntervalFunc func(terms []IntervalTerm, bias, def float64) interval.Interval

// Type describes one merge function.
type Type struct {
	Kind     Kind
	Name     string
	Scalar   Func
	Interval IntervalFunc
}

var types = []*Type{
	{Kind: Sum, Name: "SUM", Scalar: sum, Interval: sumInterval},
	{Kind: WeightedSum, Name: "WEIGHTED_SUM", Scalar: weightedSum, Interval: weightedSumInterval},
	{Kind: Product, Name: "PRODUCT", Scalar: product, Interval: productInterval},
	{Kind: Min, Name: "MIN", Scalar: minimum, Interval: minInterval},
	{Kind: Max, Name: "MAX", Scalar: maximum, Interval: maxInterval},
	{Kind: Median, Name: "MEDIAN", Scalar: median, Interval: medianInterval},
	{Kind: Mean, Name: "MEAN", Scalar: mean, Interval: meanInterval},
	{Kind: Norm, Name: "NORM", Scalar: norm, Interval: normInterval},
}

// Types returns all merge types in kind order.
func Types() []*Type {
	out := make([]*Type, len(types))
	copy(out, types)
	return out
}

// Default returns the merge a new input port starts with.
func Default() *Type {
	return types[Sum]
}

// ByKind returns the merge of the given kind, or nil.
func ByKind(k Kind) *Type {
	if k < 0 || int(k) >= len(types) {
		return nil
	}
	return types[k]
}

// Lookup finds a merge by its case-insensitive name.
func Lookup(name string) (*Type, error) {
	for _, t := range types {
		if strings.EqualFold(t.Name, name) {
			return t, nil
		}
	}
	return nil, bgerr.New(bgerr.NotFound, "merge.Lookup", "unknown merge type %q", name)
}

func (k Kind) String() string {
	if t := ByKind(k); t != nil {
		return t.Name
	}
	return "UNKNOWN"
}

// sum is bias plus the weighted terms, or bias plus default.
func sum(terms []Term, bias, def float64) float64 {
	v := bias
	if len(terms) == 0 {
		return v + def
	}
	for _, t := range terms {
		v += t.Value * t.Weight
	}
	return v
}

// weightedSum normalises by the absolute weight total and then adds bias.
func weightedSum(terms []Term, bias, def float64) float64 {
	var v, w float64
	if len(terms) == 0 {
		v, w = def, 1
	}
	for _, t := range terms {
		v += t.Value * t.Weight
		w += math.Abs(t.Weight)
	}
	if w > Epsilon {
		return v/w + bias
	}
	return bias
}

// product starts from bias, so a zero bias yields zero.
func product(terms []Term, bias, def float64) float64 {
	v := bias
	if len(terms) == 0 {
		return v * def
	}
	for _, t := range terms {
		v *= t.Value * t.Weight
	}
	return v
}

// minimum folds from bias.
func minimum(terms []Term, bias, def float64) float64 {
	v := bias
	if len(terms) == 0 {
		terms = []Term{{Value: def, Weight: 1}}
	}
	// NaN terms never compare less and are skipped.
	for _, t := range terms {
		if x := t.Value * t.Weight; x < v {
			v = x
		}
	}
	return v
}

// maximum folds from bias.
func maximum(terms []Term, bias, def float64) float64 {
	v := bias
	if len(terms) == 0 {
		terms = []Term{{Value: def, Weight: 1}}
	}
	for _, t := range terms {
		if x := t.Value * t.Weight; x > v {
			v = x
		}
	}
	return v
}

// median adds bias to the median of the terms. An even count averages the
// two central values.
func median(terms []Term, bias, def float64) float64 {
	values := []float64{def}
	if len(terms) > 0 {
		values = make([]float64, len(terms))
		for i, t := range terms {
			values[i] = t.Value * t.Weight
		}
	}
	n := len(values)
	v := kthSmallest(values, n/2)
	if n%2 == 0 {
		v = (v + kthSmallest(values, n/2-1)) / 2
	}
	return v + bias
}

// mean adds bias to the average of the terms.
func mean(terms []Term, bias, def float64) float64 {
	if len(terms) == 0 {
		return def + bias
	}
	var v float64
	for _, t := range terms {
		v += t.Value * t.Weight
	}
	return v/float64(len(terms)) + bias
}

// norm is the Euclidean length of bias and the terms.
func norm(terms []Term, bias, def float64) float64 {
	v := bias * bias
	if len(terms) == 0 {
		v += def * def
	}
	for _, t := range terms {
		x := t.Value * t.Weight
		v += x * x
	}
	return math.Sqrt(v)
}

// kthSmallest is Wirth's selection; it reorders a in place.
func kthSmallest(a []float64, k int) float64 {
	l, m := 0, len(a)-1
	for l < m {
		x := a[k]
		i, j := l, m
		for i <= j {
			for a[i] < x {
				i++
			}
			for x < a[j] {
				j--
			}
			if i <= j {
				a[i], a[j] = a[j], a[i]
				i++
				j--
			}
		}
		if j < k {
			l = i
		}
		if k < i {
			m = j
		}
	}
	return a[k]
}
