package bgerr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorIs(t *testing.T) {
	err := New(NotFound, "RemoveNode", "node %d", 7)
	wrapped := fmt.Errorf("outer: %w", err)

	assert.True(t, errors.Is(wrapped, ErrNotFound))
	assert.False(t, errors.Is(wrapped, ErrWrongType))
	assert.Equal(t, NotFound, KindOf(wrapped))
	assert.Equal(t, "RemoveNode: ERR_NOT_FOUND: node 7", err.Error())
}

func TestKindOf(t *testing.T) {
	testCases := []struct {
		name string
		err  error
		want Kind
	}{
		{"nil", nil, Unknown},
		{"foreign", errors.New("boom"), Unknown},
		{"port full", &Error{Kind: PortFull}, PortFull},
		{"wrapped extern", fmt.Errorf("x: %w", ErrExternNotFound), ExternNotFound},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, KindOf(tc.err))
		})
	}
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "ERR_IS_CONNECTED", IsConnected.String())
	assert.Equal(t, "ERR_KIND(99)", Kind(99).String())
	assert.Equal(t, "ERR_OUT_OF_RANGE", ErrOutOfRange.Error())
}

func TestLatch(t *testing.T) {
	var l Latch
	require.False(t, l.Occurred())
	assert.NoError(t, l.Set(nil))
	assert.False(t, l.Occurred())

	first := New(WrongArgCount, "search", "")
	assert.Same(t, first, l.Set(first))
	l.Set(ErrNoMemory)

	assert.True(t, l.Occurred())
	assert.Same(t, first, l.Get())

	l.Clear()
	assert.NoError(t, l.Get())
}
