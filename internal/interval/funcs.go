package interval

import "math"

// Library functions are not correctly rounded, so their results are widened
// by one ulp on each finite side.
func spread(lo, hi float64) Interval {
	if math.IsNaN(lo) || math.IsNaN(hi) {
		return NaN()
	}
	if !math.IsInf(lo, 0) {
		lo = math.Nextafter(lo, math.Inf(-1))
	}
	if !math.IsInf(hi, 0) {
		hi = math.Nextafter(hi, math.Inf(1))
	}
	return Interval{Lo: lo, Hi: hi}
}

func clamp(a Interval, lo, hi float64) Interval {
	return Interval{Lo: math.Max(a.Lo, lo), Hi: math.Min(a.Hi, hi)}
}

// Sqrt is NaN when any part of a is negative.
func Sqrt(a Interval) Interval {
	if a.IsNaN() || a.Lo < 0 {
		return NaN()
	}
	lo, hi := math.Sqrt(a.Lo), math.Sqrt(a.Hi)
	if math.FMA(lo, lo, -a.Lo) != 0 {
		lo = down(lo)
	}
	if !math.IsInf(hi, 1) && math.FMA(hi, hi, -a.Hi) != 0 {
		hi = up(hi)
	}
	return Interval{Lo: math.Max(lo, 0), Hi: hi}
}

// Exp is monotone and never negative.
func Exp(a Interval) Interval {
	if a.IsNaN() {
		return NaN()
	}
	return clamp(spread(math.Exp(a.Lo), math.Exp(a.Hi)), 0, math.Inf(1))
}

// Log is NaN when any part of a is negative.
func Log(a Interval) Interval {
	if a.IsNaN() || a.Lo < 0 {
		return NaN()
	}
	return spread(math.Log(a.Lo), math.Log(a.Hi))
}

// Abs returns |a|.
func Abs(a Interval) Interval {
	switch {
	case a.IsNaN():
		return NaN()
	case a.Lo >= 0:
		return a
	case a.Hi <= 0:
		return a.Neg()
	}
	return Interval{Lo: 0, Hi: a.Mag()}
}

// Sin returns the range of sin over a.
func Sin(a Interval) Interval {
	return periodic(a, math.Sin, math.Pi/2)
}

// Cos returns the range of cos over a.
func Cos(a Interval) Interval {
	return periodic(a, math.Cos, 0)
}

// periodic evaluates sin or cos, whose maximum sits at peak+2kπ and minimum
// at peak+π+2kπ.
func periodic(a Interval, f func(float64) float64, peak float64) Interval {
	if a.IsNaN() {
		return NaN()
	}
	if a.IsInf() || a.Hi-a.Lo >= 2*math.Pi {
		return Interval{Lo: -1, Hi: 1}
	}
	r := spread(math.Min(f(a.Lo), f(a.Hi)), math.Max(f(a.Lo), f(a.Hi)))
	if hits(a, peak) {
		r.Hi = 1
	}
	if hits(a, peak+math.Pi) {
		r.Lo = -1
	}
	return clamp(r, -1, 1)
}

// hits reports whether a contains some p+2kπ, erring towards yes near the
// endpoints.
func hits(a Interval, p float64) bool {
	k := math.Floor((a.Hi - p) / (2 * math.Pi))
	x := p + 2*math.Pi*k
	return x >= a.Lo-1e-12*math.Max(1, math.Abs(a.Lo))
}

// Tan is the whole line when a crosses a pole.
func Tan(a Interval) Interval {
	if a.IsNaN() {
		return NaN()
	}
	if a.IsInf() || a.Hi-a.Lo >= math.Pi {
		return Entire()
	}
	k := math.Ceil((a.Lo - math.Pi/2) / math.Pi)
	pole := math.Pi/2 + k*math.Pi
	if pole <= a.Hi+1e-12*math.Max(1, math.Abs(a.Hi)) {
		return Entire()
	}
	return spread(math.Tan(a.Lo), math.Tan(a.Hi))
}

// Asin is NaN when any part of a lies outside [-1, 1].
func Asin(a Interval) Interval {
	if a.IsNaN() || a.Lo < -1 || a.Hi > 1 {
		return NaN()
	}
	return clamp(spread(math.Asin(a.Lo), math.Asin(a.Hi)), -math.Pi/2, math.Pi/2)
}

// Acos is NaN when any part of a lies outside [-1, 1].
func Acos(a Interval) Interval {
	if a.IsNaN() || a.Lo < -1 || a.Hi > 1 {
		return NaN()
	}
	return clamp(spread(math.Acos(a.Hi), math.Acos(a.Lo)), 0, math.Pi)
}

// Atan2 returns the range of atan2(y, x). A box touching the origin or the
// branch cut along the negative x axis maps to [-π, π].
func Atan2(y, x Interval) Interval {
	if y.IsNaN() || x.IsNaN() {
		return NaN()
	}
	if y.Contains(0) && x.Lo <= 0 {
		return Interval{Lo: -math.Pi, Hi: math.Pi}
	}
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, yv := range [2]float64{y.Lo, y.Hi} {
		for _, xv := range [2]float64{x.Lo, x.Hi} {
			v := math.Atan2(yv, xv)
			lo = math.Min(lo, v)
			hi = math.Max(hi, v)
		}
	}
	return clamp(spread(lo, hi), -math.Pi, math.Pi)
}

// Pow returns exp(log(b)*c), so any negative part of the base gives NaN.
func Pow(b, c Interval) Interval {
	return Exp(Log(b).Mul(c))
}

// Mod bounds fmod(a, b) by the smaller magnitude of its operands. A divisor
// that can be zero gives NaN.
func Mod(a, b Interval) Interval {
	if a.IsNaN() || b.IsNaN() || b.Contains(0) {
		return NaN()
	}
	m := math.Min(a.Mag(), b.Mag())
	if a.Lo >= 0 {
		return Interval{Lo: 0, Hi: m}
	}
	if a.Hi <= 0 {
		return Interval{Lo: -m, Hi: 0}
	}
	return Interval{Lo: -m, Hi: m}
}

// Tanh is monotone with range [-1, 1].
func Tanh(a Interval) Interval {
	if a.IsNaN() {
		return NaN()
	}
	return clamp(spread(math.Tanh(a.Lo), math.Tanh(a.Hi)), -1, 1)
}

// SigmoidSlope is the steepness of the fast sigmoid node.
const SigmoidSlope = 4.924273

// Sigmoid returns the range of 1/(1+exp(-SigmoidSlope*x)).
func Sigmoid(a Interval) Interval {
	if a.IsNaN() {
		return NaN()
	}
	f := func(x float64) float64 { return 1 / (1 + math.Exp(-SigmoidSlope*x)) }
	return clamp(spread(f(a.Lo), f(a.Hi)), 0, 1)
}
