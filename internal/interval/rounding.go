package interval

import "math"

// The helpers below compute a result together with an exactness flag so
// that outward rounding only widens when the floating point result differs
// from the real one.

// up and down step one ulp outward. An overflowed bound steps back to the
// largest finite value on the inner side.
func up(x float64) float64 {
	if math.IsInf(x, -1) {
		return -math.MaxFloat64
	}
	if math.IsInf(x, 1) || math.IsNaN(x) {
		return x
	}
	return math.Nextafter(x, math.Inf(1))
}

func down(x float64) float64 {
	if math.IsInf(x, 1) {
		return math.MaxFloat64
	}
	if math.IsInf(x, -1) || math.IsNaN(x) {
		return x
	}
	return math.Nextafter(x, math.Inf(-1))
}

func add(a, b float64) (float64, bool) {
	s := a + b
	if math.IsInf(s, 0) || math.IsNaN(s) {
		return s, math.IsInf(a, 0) || math.IsInf(b, 0)
	}
	bb := s - a
	err := (a - (s - bb)) + (b - bb)
	return s, err == 0
}

func sub(a, b float64) (float64, bool) {
	return add(a, -b)
}

func mul(a, b float64) (float64, bool) {
	if a == 0 || b == 0 {
		return 0, true
	}
	p := a * b
	if math.IsInf(p, 0) {
		return p, math.IsInf(a, 0) || math.IsInf(b, 0)
	}
	return p, math.FMA(a, b, -p) == 0
}

func div(a, b float64) (float64, bool) {
	q := a / b
	if math.IsInf(q, 0) || math.IsNaN(q) || math.IsInf(a, 0) || math.IsInf(b, 0) {
		return q, true
	}
	return q, math.FMA(q, b, -a) == 0
}

func divDown(a, b float64) float64 {
	q, exact := div(a, b)
	if !exact {
		return down(q)
	}
	return q
}

func divUp(a, b float64) float64 {
	q, exact := div(a, b)
	if !exact {
		return up(q)
	}
	return q
}
