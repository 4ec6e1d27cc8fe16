package search

import (
	"math"
)

// Tolerance is how far two sides may differ and still count as equal when
// boxes are coalesced.
const Tolerance = 1e-10

// coalesce merges boxes until no pair can be merged. Each merging pass
// removes at least one box, so the pass count is bounded by the box count.
func coalesce(boxes []Box, res float64) []Box {
	for pass := len(boxes); pass > 0; pass-- {
		merged := false
		for i := 0; i < len(boxes); i++ {
			for j := i + 1; j < len(boxes); {
				if m, ok := mergeBoxes(boxes[i], boxes[j], res); ok {
					boxes[i] = m
					boxes = append(boxes[:j], boxes[j+1:]...)
					merged = true
					continue
				}
				j++
			}
		}
		if !merged {
			break
		}
	}
	return boxes
}

// mergeBoxes joins a and b when they overlap along one dimension k and match
// along all others. A seam at exactly zero along k is kept while either side
// is still within res there: the search localized a sign change on that
// axis, so the halves on each side of zero stay apart.
func mergeBoxes(a, b Box, res float64) (Box, bool) {
	if len(a) != len(b) {
		return nil, false
	}
	for k := range a {
		x, ok := a[k].Intersect(b[k])
		if !ok {
			continue
		}
		if x.Lo == 0 && x.Hi == 0 && (width(a[k]) <= res || width(b[k]) <= res) {
			continue
		}
		if !sameElsewhere(a, b, k) {
			continue
		}
		m := a.Clone()
		m[k] = a[k].Hull(b[k])
		return m, true
	}
	return nil, false
}

func sameElsewhere(a, b Box, skip int) bool {
	for m := range a {
		if m == skip || a[m] == b[m] {
			continue
		}
		h := a[m].Hull(b[m]).Diameter()
		da, db := a[m].Diameter(), b[m].Diameter()
		if math.IsInf(h, 0) || !(h-da < Tolerance && h-db < Tolerance) {
			return false
		}
	}
	return true
}
