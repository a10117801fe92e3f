package dashboard

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTrend_Window(t *testing.T) {
	tr := NewTrend(3)
	assert.Nil(t, tr.Values())
	assert.Equal(t, 3, tr.Cap())

	tr.Push(1)
	tr.Push(2)
	assert.Equal(t, []float64{1, 2}, tr.Values())

	tr.Push(3)
	tr.Push(4)
	assert.Equal(t, []float64{2, 3, 4}, tr.Values(), "oldest value is evicted")
	assert.Equal(t, 3, tr.Len())

	tr.Reset()
	assert.Equal(t, 0, tr.Len())
	assert.Equal(t, 3, tr.Cap())
}

func TestTrend_DefaultSize(t *testing.T) {
	assert.Equal(t, DefaultTrendPoints, NewTrend(0).Cap())
}

func TestRingBuffer_GetLast(t *testing.T) {
	r := newRingBuffer(4)
	for i := 1; i <= 6; i++ {
		r.push(float64(i))
	}

	assert.Equal(t, []float64{5, 6}, r.getLast(2))
	assert.Equal(t, []float64{3, 4, 5, 6}, r.getLast(10))
	assert.Nil(t, r.getLast(0))
}
