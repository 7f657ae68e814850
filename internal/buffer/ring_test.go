package buffer_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"logview-backend/internal/buffer"
)

func TestRingAppendEvictsOldest(t *testing.T) {
	r := buffer.New[int](3)
	for i := 1; i <= 5; i++ {
		r.Append(i)
	}

	assert.Equal(t, 3, r.Len())
	assert.Equal(t, []int{3, 4, 5}, r.Snapshot())
}

func TestRingPopIsFIFO(t *testing.T) {
	r := buffer.New[string](4)
	r.Append("a")
	r.Append("b")

	first, ok := r.Pop()
	assert.True(t, ok)
	assert.Equal(t, "a", first)

	second, ok := r.Pop()
	assert.True(t, ok)
	assert.Equal(t, "b", second)

	_, ok = r.Pop()
	assert.False(t, ok)
}

func TestRingReplaceKeepsNewest(t *testing.T) {
	r := buffer.New[int](2)
	r.Append(99)

	r.Replace([]int{1, 2, 3, 4})
	assert.Equal(t, []int{3, 4}, r.Snapshot())
}

func TestRingDefaultCapacity(t *testing.T) {
	r := buffer.New[int](0)
	for i := 0; i < buffer.DefaultCapacity+10; i++ {
		r.Append(i)
	}
	assert.Equal(t, buffer.DefaultCapacity, r.Len())

	oldest, ok := r.Pop()
	assert.True(t, ok)
	assert.Equal(t, 10, oldest)
}
