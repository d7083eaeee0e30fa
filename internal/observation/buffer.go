// Package observation implements the filter chain, transform, circular
// buffer, and backup persistence that an Observation resource interposes
// on a push
package observation

import "github.com/databroker/datahub/internal/domain"

// Buffer is a FIFO circular buffer of accepted samples. A capacity of 0
// disables retention: Push always reports eviction of whatever it was
// just given, so the buffer never grows, but filtering/delivery upstream
// of the buffer is unaffected
type Buffer struct {
	capacity int
	data     []*domain.Sample
}

// NewBuffer creates a buffer with the given maximum sample count.
func NewBuffer(capacity int) *Buffer {
	if capacity < 0 {
		capacity = 0
	}
	return &Buffer{capacity: capacity, data: make([]*domain.Sample, 0, capacity)}
}

// Push appends a sample, evicting the oldest if the buffer is at capacity.
// Returns the evicted sample (nil if nothing was evicted).
func (b *Buffer) Push(s *domain.Sample) *domain.Sample {
	if b.capacity <= 0 {
		return s
	}
	var evicted *domain.Sample
	if len(b.data) >= b.capacity {
		evicted = b.data[0]
		b.data = append(b.data[:0], b.data[1:]...)
	}
	b.data = append(b.data, s)
	return evicted
}

// Samples returns the buffer contents, oldest first. The returned slice
// must not be mutated by the caller.
func (b *Buffer) Samples() []*domain.Sample { return b.data }

// Len returns the number of samples currently buffered.
func (b *Buffer) Len() int { return len(b.data) }

// Capacity returns the configured maximum sample count.
func (b *Buffer) Capacity() int { return b.capacity }

// SetCapacity changes the buffer's capacity, evicting the oldest samples
// if shrinking below the current length.
func (b *Buffer) SetCapacity(n int) {
	if n < 0 {
		n = 0
	}
	b.capacity = n
	if n == 0 {
		b.data = b.data[:0]
		return
	}
	if len(b.data) > n {
		b.data = append(b.data[:0], b.data[len(b.data)-n:]...)
	}
}

// Clear empties the buffer without changing its capacity.
func (b *Buffer) Clear() { b.data = b.data[:0] }

// NumericValues returns the numeric-typed samples' values, oldest first.
// Non-numeric samples in the window are skipped
// of numeric values still in the buffer".
func (b *Buffer) NumericValues() []float64 {
	out := make([]float64, 0, len(b.data))
	for _, s := range b.data {
		if s.Type() == domain.Numeric {
			out = append(out, s.Numeric())
		}
	}
	return out
}

// NumericValuesSince returns the numeric values of samples with timestamp
// >= since, oldest first. Used by the statistical queries (Mean/StdDev/Min/Max).
func (b *Buffer) NumericValuesSince(since float64) []float64 {
	out := make([]float64, 0, len(b.data))
	for _, s := range b.data {
		if s.Type() == domain.Numeric && s.Timestamp() >= since {
			out = append(out, s.Numeric())
		}
	}
	return out
}
