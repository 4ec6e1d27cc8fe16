package search

import (
	"strings"

	"github.com/specialistvlad/bagelgo/internal/interval"
)

// Box holds one interval per graph input.
type Box []interval.Interval

// Clone returns a copy of the box.
func (b Box) Clone() Box {
	return append(Box(nil), b...)
}

// Contains reports whether the point lies inside the box.
func (b Box) Contains(point ...float64) bool {
	if len(point) != len(b) {
		return false
	}
	for i, iv := range b {
		if !iv.Contains(point[i]) {
			return false
		}
	}
	return true
}

// Diameter returns the widest side of the box.
func (b Box) Diameter() float64 {
	var d float64
	for _, iv := range b {
		if w := width(iv); w > d {
			d = w
		}
	}
	return d
}

func (b Box) String() string {
	parts := make([]string, len(b))
	for i, iv := range b {
		parts[i] = iv.String()
	}
	return "{" + strings.Join(parts, " x ") + "}"
}

// width is the diameter of iv, except that a degenerate interval at an
// infinity counts as a point.
func width(iv interval.Interval) float64 {
	if iv.Lo == iv.Hi {
		return 0
	}
	return iv.Diameter()
}
