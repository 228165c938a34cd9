package ratewindow

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/exp/constraints"
)

func newRingBufferFrom[E constraints.Ordered](s []E) *ringBuffer[E] {
	size := 1
	for size < len(s) {
		size <<= 1
	}
	rb := newRingBuffer[E](size)
	copy(rb.s, s)
	rb.w = uint(len(s))
	return rb
}

func TestNewRingBuffer(t *testing.T) {
	rb := newRingBuffer[int](8)
	assert.NotNil(t, rb)
	assert.Equal(t, 8, len(rb.s))
	assert.Equal(t, uint(0), rb.r)
	assert.Equal(t, uint(0), rb.w)
}

func TestNewRingBuffer_PanicWithInvalidSize(t *testing.T) {
	assert.Panics(t, func() { newRingBuffer[int](0) })
	assert.Panics(t, func() { newRingBuffer[int](3) })
}

func TestRingBuffer_Search(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		rb := newRingBuffer[int64](2)
		assert.Equal(t, 0, rb.Search(5))
	})

	t.Run("non-empty", func(t *testing.T) {
		rb := newRingBufferFrom[int64]([]int64{1, 3, 5, 7, 9})
		assert.Equal(t, 2, rb.Search(5))
		assert.Equal(t, 5, rb.Search(10))
	})

	t.Run("duplicates", func(t *testing.T) {
		rb := newRingBufferFrom[int64]([]int64{1, 2, 2, 3, 4})
		assert.Equal(t, 1, rb.Search(2))
	})
}

func TestRingBuffer_Insert(t *testing.T) {
	t.Run("into empty", func(t *testing.T) {
		rb := newRingBuffer[int64](2)
		rb.Insert(0, 5)
		assert.Equal(t, 1, rb.Len())
		assert.Equal(t, int64(5), rb.Get(0))
	})

	t.Run("into full, grows", func(t *testing.T) {
		rb := newRingBufferFrom[int64]([]int64{1, 2})
		rb.Insert(1, 3)
		assert.Equal(t, 3, rb.Len())
		assert.Equal(t, int64(3), rb.Get(1))
	})

	t.Run("out of range panics", func(t *testing.T) {
		rb := newRingBufferFrom[int64]([]int64{1, 2, 3, 4, 5})
		assert.Panics(t, func() { rb.Insert(6, 6) })
	})

	t.Run("wrapped around buffer", func(t *testing.T) {
		newBuffer := func() (*ringBuffer[float64], []float64) {
			rb := newRingBuffer[float64](16)
			rb.w = uint(len(rb.s)) - 4
			rb.r = rb.w

			written := make([]float64, 9)
			for i := range written {
				f := float64(i) + 1.1
				written[i] = f
				rb.s[int((rb.w+uint(i))%uint(len(rb.s)))] = f
			}
			rb.w += uint(len(written))
			assert.Equal(t, written, rb.Slice())
			return rb, written
		}

		_, written := newBuffer()
		for i := 0; i <= len(written); i++ {
			i := i
			t.Run(fmt.Sprint(i), func(t *testing.T) {
				rb, written := newBuffer()
				rb.Insert(i, 1)

				written = append(written, 0)
				copy(written[i+1:], written[i:])
				written[i] = 1

				assert.Equal(t, written, rb.Slice())
			})
		}
	})
}

func TestRingBuffer_RemoveBefore(t *testing.T) {
	rb := newRingBufferFrom[int64]([]int64{1, 2, 3, 4, 5})
	rb.RemoveBefore(2)
	assert.Equal(t, []int64{3, 4, 5}, rb.Slice())
	assert.Equal(t, 3, rb.Len())
}

func TestRingBuffer_Cap_DoublesOnOverflow(t *testing.T) {
	rb := newRingBuffer[int64](2)
	rb.Insert(0, 1)
	rb.Insert(1, 2)
	assert.Equal(t, 2, rb.Cap())
	rb.Insert(2, 3)
	assert.Equal(t, 4, rb.Cap())
	assert.Equal(t, []int64{1, 2, 3}, rb.Slice())
}
