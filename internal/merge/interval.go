package merge

import (
	"math"

	"github.com/specialistvlad/bagelgo/internal/interval"
)

func weighted(t IntervalTerm) interval.Interval {
	return t.Value.Scale(t.Weight)
}

func sumInterval(terms []IntervalTerm, bias, def float64) interval.Interval {
	v := interval.Point(bias)
	if len(terms) == 0 {
		return v.AddScalar(def)
	}
	for _, t := range terms {
		v = v.Add(weighted(t))
	}
	return v
}

func weightedSumInterval(terms []IntervalTerm, bias, def float64) interval.Interval {
	v := interval.Point(0)
	var w float64
	if len(terms) == 0 {
		v, w = interval.Point(def), 1
	}
	for _, t := range terms {
		v = v.Add(weighted(t))
		w += math.Abs(t.Weight)
	}
	if w > Epsilon {
		return v.DivScalar(w).AddScalar(bias)
	}
	return interval.Point(bias)
}

func productInterval(terms []IntervalTerm, bias, def float64) interval.Interval {
	v := interval.Point(bias)
	if len(terms) == 0 {
		return v.Scale(def)
	}
	for _, t := range terms {
		v = v.Mul(weighted(t))
	}
	return v
}

// minInterval folds lower and upper endpoints separately, starting at bias.
func minInterval(terms []IntervalTerm, bias, def float64) interval.Interval {
	if len(terms) == 0 {
		return interval.Point(math.Min(bias, def))
	}
	lo, hi := bias, bias
	for _, t := range terms {
		x := weighted(t)
		if x.IsNaN() {
			return interval.NaN()
		}
		lo = math.Min(lo, x.Lo)
		hi = math.Min(hi, x.Hi)
	}
	return interval.Interval{Lo: lo, Hi: hi}
}

// maxInterval folds lower and upper endpoints separately, starting at bias.
func maxInterval(terms []IntervalTerm, bias, def float64) interval.Interval {
	if len(terms) == 0 {
		return interval.Point(math.Max(bias, def))
	}
	lo, hi := bias, bias
	for _, t := range terms {
		x := weighted(t)
		if x.IsNaN() {
			return interval.NaN()
		}
		lo = math.Max(lo, x.Lo)
		hi = math.Max(hi, x.Hi)
	}
	return interval.Interval{Lo: lo, Hi: hi}
}

// medianInterval encloses every possible median: the hull of the terms,
// shifted by bias.
func medianInterval(terms []IntervalTerm, bias, def float64) interval.Interval {
	if len(terms) == 0 {
		return interval.Point(def).AddScalar(bias)
	}
	h := weighted(terms[0])
	for _, t := range terms[1:] {
		h = h.Hull(weighted(t))
	}
	return h.AddScalar(bias)
}

func meanInterval(terms []IntervalTerm, bias, def float64) interval.Interval {
	if len(terms) == 0 {
		return interval.Point(def).AddScalar(bias)
	}
	v := interval.Point(0)
	for _, t := range terms {
		v = v.Add(weighted(t))
	}
	return v.DivScalar(float64(len(terms))).AddScalar(bias)
}

func normInterval(terms []IntervalTerm, bias, def float64) interval.Interval {
	v := interval.Point(bias).Sqr()
	if len(terms) == 0 {
		v = v.Add(interval.Point(def).Sqr())
	}
	for _, t := range terms {
		v = v.Add(weighted(t).Sqr())
	}
	return interval.Sqrt(v)
}
