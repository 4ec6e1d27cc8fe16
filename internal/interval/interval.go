// Package interval implements closed intervals over float64 with outward
// rounding. An operation never returns an interval that fails to contain the
// exact result of the operation applied to any points of its operands.
//
// An interval with a NaN endpoint is the NaN interval; every operation
// propagates it. Endpoints may be infinite.
package interval

import (
	"fmt"
	"math"
)

// Interval is the closed set [Lo, Hi].
type Interval struct {
	Lo float64
	Hi float64
}

// New returns [lo, hi]. The endpoints are swapped when given in reverse.
func New(lo, hi float64) Interval {
	if lo > hi {
		lo, hi = hi, lo
	}
	return Interval{Lo: lo, Hi: hi}
}

// Point returns the degenerate interval [v, v].
func Point(v float64) Interval {
	return Interval{Lo: v, Hi: v}
}

// Entire returns [-Inf, +Inf].
func Entire() Interval {
	return Interval{Lo: math.Inf(-1), Hi: math.Inf(1)}
}

// NaN returns the NaN interval.
func NaN() Interval {
	return Interval{Lo: math.NaN(), Hi: math.NaN()}
}

// IsNaN reports whether either endpoint is NaN.
func (a Interval) IsNaN() bool {
	return math.IsNaN(a.Lo) || math.IsNaN(a.Hi)
}

// IsInf reports whether either endpoint is infinite.
func (a Interval) IsInf() bool {
	return math.IsInf(a.Lo, 0) || math.IsInf(a.Hi, 0)
}

// IsBounded reports whether both endpoints are finite numbers.
func (a Interval) IsBounded() bool {
	return !a.IsNaN() && !a.IsInf()
}

// IsPoint reports whether the interval holds exactly one value.
func (a Interval) IsPoint() bool {
	return a.Lo == a.Hi
}

// Contains reports whether v lies in the interval.
func (a Interval) Contains(v float64) bool {
	return a.Lo <= v && v <= a.Hi
}

// Diameter returns Hi-Lo rounded up. Unbounded intervals have an infinite
// diameter and the NaN interval a NaN one.
func (a Interval) Diameter() float64 {
	if a.IsNaN() {
		return math.NaN()
	}
	if a.IsInf() {
		return math.Inf(1)
	}
	d, exact := sub(a.Hi, a.Lo)
	if !exact {
		d = up(d)
	}
	return d
}

// Mid returns the midpoint of a bounded interval.
func (a Interval) Mid() float64 {
	return a.Lo/2 + a.Hi/2
}

// Mag returns the largest absolute value in the interval.
func (a Interval) Mag() float64 {
	return math.Max(math.Abs(a.Lo), math.Abs(a.Hi))
}

// Hull returns the smallest interval containing both a and b.
func (a Interval) Hull(b Interval) Interval {
	if a.IsNaN() || b.IsNaN() {
		return NaN()
	}
	return Interval{Lo: math.Min(a.Lo, b.Lo), Hi: math.Max(a.Hi, b.Hi)}
}

// Intersect returns the common part of a and b and whether it is non-empty.
func (a Interval) Intersect(b Interval) (Interval, bool) {
	if a.IsNaN() || b.IsNaN() {
		return NaN(), false
	}
	lo := math.Max(a.Lo, b.Lo)
	hi := math.Min(a.Hi, b.Hi)
	if lo > hi {
		return Interval{}, false
	}
	return Interval{Lo: lo, Hi: hi}, true
}

func (a Interval) String() string {
	return fmt.Sprintf("[%g, %g]", a.Lo, a.Hi)
}

// Neg returns -a.
func (a Interval) Neg() Interval {
	return Interval{Lo: -a.Hi, Hi: -a.Lo}
}

// Add returns a+b.
func (a Interval) Add(b Interval) Interval {
	if a.IsNaN() || b.IsNaN() {
		return NaN()
	}
	if b.Lo == 0 && b.Hi == 0 {
		return a
	}
	if a.Lo == 0 && a.Hi == 0 {
		return b
	}
	lo, exact := add(a.Lo, b.Lo)
	if !exact {
		lo = down(lo)
	}
	hi, exact := add(a.Hi, b.Hi)
	if !exact {
		hi = up(hi)
	}
	return checked(lo, hi)
}

// AddScalar returns a+v.
func (a Interval) AddScalar(v float64) Interval {
	return a.Add(Point(v))
}

// Sub returns a-b.
func (a Interval) Sub(b Interval) Interval {
	return a.Add(b.Neg())
}

// Mul returns a*b. Zero times an infinite endpoint is taken as zero.
func (a Interval) Mul(b Interval) Interval {
	if a.IsNaN() || b.IsNaN() {
		return NaN()
	}
	if b.Lo == 1 && b.Hi == 1 {
		return a
	}
	if a.Lo == 1 && a.Hi == 1 {
		return b
	}
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, x := range [2]float64{a.Lo, a.Hi} {
		for _, y := range [2]float64{b.Lo, b.Hi} {
			p, exact := mul(x, y)
			l, h := p, p
			if !exact {
				l, h = down(p), up(p)
			}
			lo = math.Min(lo, l)
			hi = math.Max(hi, h)
		}
	}
	return checked(lo, hi)
}

// Scale returns a*w.
func (a Interval) Scale(w float64) Interval {
	return a.Mul(Point(w))
}

// Inverse returns 1/a. An interval with zero as an endpoint maps to a
// half-line, one holding zero in its interior maps to the whole line.
func (a Interval) Inverse() Interval {
	switch {
	case a.IsNaN():
		return NaN()
	case a.Lo == 0 && a.Hi == 0:
		return Entire()
	case a.Lo < 0 && a.Hi > 0:
		return Entire()
	case a.Lo == 0:
		return Interval{Lo: divDown(1, a.Hi), Hi: math.Inf(1)}
	case a.Hi == 0:
		return Interval{Lo: math.Inf(-1), Hi: divUp(1, a.Lo)}
	}
	return Interval{Lo: divDown(1, a.Hi), Hi: divUp(1, a.Lo)}
}

// Div returns a/b.
func (a Interval) Div(b Interval) Interval {
	return a.Mul(b.Inverse())
}

// DivScalar returns a/v for a non-zero v.
func (a Interval) DivScalar(v float64) Interval {
	if v == 1 {
		return a
	}
	if a.IsNaN() || math.IsNaN(v) || v == 0 {
		return NaN()
	}
	lo, hi := divDown(a.Lo, v), divUp(a.Hi, v)
	if v < 0 {
		lo, hi = divDown(a.Hi, v), divUp(a.Lo, v)
	}
	return checked(lo, hi)
}

// Sqr returns a*a, which unlike Mul never goes negative.
func (a Interval) Sqr() Interval {
	if a.IsNaN() {
		return NaN()
	}
	m := a.Mag()
	hi, exact := mul(m, m)
	if !exact {
		hi = up(hi)
	}
	if a.Contains(0) {
		return Interval{Lo: 0, Hi: hi}
	}
	n := math.Min(math.Abs(a.Lo), math.Abs(a.Hi))
	lo, exact := mul(n, n)
	if !exact {
		lo = math.Max(0, down(lo))
	}
	return Interval{Lo: lo, Hi: hi}
}

func checked(lo, hi float64) Interval {
	if math.IsNaN(lo) || math.IsNaN(hi) {
		return NaN()
	}
	return Interval{Lo: lo, Hi: hi}
}
