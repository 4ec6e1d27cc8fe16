package dag

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	g := New()
	require.NotNil(t, g)
	assert.NotNil(t, g.nodes)
	assert.Empty(t, g.nodes)
}

func TestAddRelation(t *testing.T) {
	g := New()
	assert.False(t, g.AddRelation(3, 3))
	assert.Empty(t, g.order)

	assert.True(t, g.AddRelation(3, 1))
	assert.True(t, g.AddRelation(3, 1))
	assert.Len(t, g.order, 2)
	assert.Equal(t, 1, g.nodes[1].index)
	assert.Equal(t, 2, g.nodes[1].incoming)
	assert.Equal(t, []uint64{3, 1}, []uint64{g.order[0].id, g.order[1].id})
}

func TestBreakCycles(t *testing.T) {
	g := New()
	g.AddRelation(1, 2)
	g.AddRelation(2, 3)
	g.AddRelation(3, 1)
	g.AddRelation(1, 3)

	removed := g.breakCycles()
	assert.Equal(t, []Relation{{From: 3, To: 1}}, removed)
	assert.Zero(t, g.nodes[1].incoming, "the closing relation is gone")
	assert.Equal(t, 2, g.nodes[3].incoming)
	assert.Empty(t, g.breakCycles(), "a second walk finds nothing")
}

func TestSort(t *testing.T) {
	testCases := []struct {
		name      string
		relations []Relation
		want      []uint64
		removed   []Relation
	}{
		{
			name:      "chain",
			relations: []Relation{{1, 2}, {2, 3}},
			want:      []uint64{1, 2, 3},
		},
		{
			name:      "reverse insertion still respects relations",
			relations: []Relation{{3, 4}, {2, 3}, {1, 2}},
			want:      []uint64{1, 2, 3, 4},
		},
		{
			name:      "independent chains keep first-seen order",
			relations: []Relation{{5, 6}, {1, 2}},
			want:      []uint64{5, 6, 1, 2},
		},
		{
			name:      "two cycle drops the closing relation",
			relations: []Relation{{1, 2}, {2, 1}},
			want:      []uint64{1, 2},
			removed:   []Relation{{2, 1}},
		},
		{
			name:      "self relation is not recorded",
			relations: []Relation{{7, 7}, {7, 8}},
			want:      []uint64{7, 8},
		},
		{
			name:      "cycle entered from outside",
			relations: []Relation{{1, 2}, {2, 3}, {3, 2}},
			want:      []uint64{1, 2, 3},
			removed:   []Relation{{3, 2}},
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			g := New()
			for _, r := range tc.relations {
				g.AddRelation(r.From, r.To)
			}
			got, removed := g.Sort()
			assert.Equal(t, tc.want, got)
			assert.Equal(t, tc.removed, removed)
		})
	}
}

func TestSortHonoursEveryKeptRelation(t *testing.T) {
	g := New()
	rels := []Relation{{1, 4}, {4, 2}, {2, 6}, {6, 4}, {3, 5}, {5, 1}, {6, 3}}
	for _, r := range rels {
		g.AddRelation(r.From, r.To)
	}
	order, removed := g.Sort()
	require.Len(t, order, 6)

	pos := make(map[uint64]int)
	for i, id := range order {
		pos[id] = i
	}
	dropped := make(map[Relation]bool)
	for _, r := range removed {
		dropped[r] = true
	}
	for _, r := range rels {
		if dropped[r] {
			continue
		}
		assert.Less(t, pos[r.From], pos[r.To], "%d must precede %d", r.From, r.To)
	}
}
