package search

import (
	"math"
	"testing"

	"github.com/specialistvlad/bagelgo/internal/interval"
	"github.com/stretchr/testify/assert"
)

func TestSplit(t *testing.T) {
	iv := interval.New
	testCases := []struct {
		name        string
		in          interval.Interval
		left, right interval.Interval
	}{
		{"bounded", iv(0, 2), iv(0, 1), iv(1, 2)},
		{"entire", interval.Entire(), iv(-inf, 0), iv(0, inf)},
		{"straddling above", iv(-5, inf), iv(-5, 0), iv(0, inf)},
		{"from zero up", iv(0, inf), iv(0, 1024), iv(1024, inf)},
		{"from zero down", iv(-inf, 0), iv(-inf, -1024), iv(-1024, 0)},
		{"scaled up", iv(3, inf), iv(3, 3072), iv(3072, inf)},
		{"scaled down", iv(-inf, -2), iv(-inf, -2048), iv(-2048, -2)},
		{"overflow", iv(1e306, inf), iv(1e306, math.MaxFloat64), iv(math.MaxFloat64, inf)},
		{"largest float", iv(math.MaxFloat64, inf), interval.Point(math.MaxFloat64), interval.Point(inf)},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			left, right := split(tc.in)
			assert.Equal(t, tc.left, left)
			assert.Equal(t, tc.right, right)
		})
	}
}

func TestSplitDim(t *testing.T) {
	iv := interval.New
	assert.Equal(t, -1, splitDim(Box{iv(0, 0.5), iv(1, 1.5)}, 1))
	assert.Equal(t, 1, splitDim(Box{iv(0, 2), iv(0, 4)}, 1))
	assert.Equal(t, 0, splitDim(Box{iv(0, 4), iv(0, 4)}, 1), "first on ties")
	assert.Equal(t, 1, splitDim(Box{iv(0, 4), iv(0, inf)}, 1), "unbounded is widest")
	assert.Equal(t, -1, splitDim(Box{interval.Point(inf)}, 1))
}

func TestCoalesce(t *testing.T) {
	iv := interval.New
	t.Run("touching boxes merge", func(t *testing.T) {
		got := coalesce([]Box{{iv(1, 2)}, {iv(3, 4)}, {iv(2, 3)}}, 1)
		assert.Equal(t, []Box{{iv(1, 4)}}, got)
	})
	t.Run("boxes meeting at zero stay apart", func(t *testing.T) {
		got := coalesce([]Box{{iv(-1, 0)}, {iv(0, 1)}}, 1)
		assert.Len(t, got, 2)
	})
	t.Run("zero seam wider than resolution merges", func(t *testing.T) {
		got := coalesce([]Box{{iv(-1, 0)}, {iv(0, 1)}}, 0.5)
		assert.Equal(t, []Box{{iv(-1, 1)}}, got)
	})
	t.Run("zero seam is judged on the merge axis only", func(t *testing.T) {
		got := coalesce([]Box{
			{iv(0, 0.5), iv(0, 1)},
			{iv(0, 0.5), iv(-1, 0)},
			{iv(-0.5, 0), iv(0, 1)},
			{iv(-0.5, 0), iv(-1, 0)},
		}, 0.5)
		assert.Equal(t, []Box{
			{iv(0, 0.5), iv(-1, 1)},
			{iv(-0.5, 0), iv(-1, 1)},
		}, got)
	})
	t.Run("disjoint boxes stay apart", func(t *testing.T) {
		got := coalesce([]Box{{iv(0, 1)}, {iv(2, 3)}}, 1)
		assert.Len(t, got, 2)
	})
	t.Run("other sides must match", func(t *testing.T) {
		got := coalesce([]Box{{iv(0, 1), iv(0, 1)}, {iv(1, 2), iv(0, 2)}}, 1)
		assert.Len(t, got, 2)

		got = coalesce([]Box{{iv(0, 1), iv(5, 6)}, {iv(1, 2), iv(5, 6)}}, 1)
		assert.Equal(t, []Box{{iv(0, 2), iv(5, 6)}}, got)
	})
	t.Run("unbounded sides match only when equal", func(t *testing.T) {
		got := coalesce([]Box{{iv(0, 1), iv(0, inf)}, {iv(1, 2), iv(0, inf)}}, 1)
		assert.Equal(t, []Box{{iv(0, 2), iv(0, inf)}}, got)
	})
}

func TestBox(t *testing.T) {
	b := Box{interval.New(0, 1), interval.New(-2, 2)}
	assert.True(t, b.Contains(0.5, 0))
	assert.False(t, b.Contains(0.5))
	assert.False(t, b.Contains(2, 0))
	assert.Equal(t, 4.0, b.Diameter())
	assert.Equal(t, "{[0, 1] x [-2, 2]}", b.String())

	c := b.Clone()
	c[0] = interval.Point(9)
	assert.Equal(t, interval.New(0, 1), b[0])
}
