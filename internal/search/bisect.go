package search

import (
	"math"

	"github.com/specialistvlad/bagelgo/internal/interval"
)

// Growth is the factor an unbounded side grows by at each split.
const Growth = 1024

// splitDim picks the dimension to bisect: the widest one above res, the
// first on ties. It returns -1 when every side is within res.
func splitDim(b Box, res float64) int {
	dim, widest := -1, 0.0
	for i, iv := range b {
		w := width(iv)
		if w > res && (dim < 0 || w > widest) {
			dim, widest = i, w
		}
	}
	return dim
}

// split bisects an interval. A bounded interval splits at its midpoint. An
// unbounded one splits at zero when it straddles zero and otherwise at its
// finite endpoint scaled by Growth.
func split(iv interval.Interval) (interval.Interval, interval.Interval) {
	if iv.IsBounded() {
		m := iv.Mid()
		return interval.Interval{Lo: iv.Lo, Hi: m}, interval.Interval{Lo: m, Hi: iv.Hi}
	}
	if iv.Lo < 0 && iv.Hi > 0 {
		return interval.Interval{Lo: iv.Lo, Hi: 0}, interval.Interval{Lo: 0, Hi: iv.Hi}
	}

	up := math.IsInf(iv.Hi, 1)
	end := iv.Lo
	if !up {
		end = iv.Hi
	}
	var s float64
	switch {
	case end == 0 && up:
		s = Growth
	case end == 0:
		s = -Growth
	default:
		s = end * Growth
	}
	if math.IsInf(s, 0) {
		s = math.Copysign(math.MaxFloat64, s)
	}
	if s == end {
		// the finite side is already at the largest float
		inf := math.Inf(1)
		if !up {
			inf = math.Inf(-1)
		}
		return interval.Point(end), interval.Point(inf)
	}
	if up {
		return interval.Interval{Lo: end, Hi: s}, interval.Interval{Lo: s, Hi: iv.Hi}
	}
	return interval.Interval{Lo: iv.Lo, Hi: s}, interval.Interval{Lo: s, Hi: end}
}

// bisect splits a box along dim into a lower and an upper half.
func bisect(b Box, dim int) (Box, Box) {
	lo, hi := split(b[dim])
	left, right := b.Clone(), b.Clone()
	left[dim], right[dim] = lo, hi
	return left, right
}
