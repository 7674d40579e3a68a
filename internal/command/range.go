package command

import "math"

// Unbounded marks a range that extends to the last available index.
const Unbounded = math.MaxInt

// Range is a closed interval of zero-based indexes.
type Range struct {
	start int
	end   int
}

// NewRange builds a Range from two bounds in any order.
// A negative lower bound is clamped to 0 when the upper bound is non-negative.
func NewRange(i, j int) Range {
	if i > j {
		i, j = j, i
	}
	if j >= 0 && i < 0 {
		i = 0
	}
	return Range{start: i, end: j}
}

// FullRange returns the range covering every index.
func FullRange() Range {
	return NewRange(0, Unbounded)
}

// Start returns the lower bound.
func (r Range) Start() int {
	return r.start
}

// End returns the upper bound, or Unbounded.
func (r Range) End() int {
	return r.end
}

// StartsAtFirst reports whether the range begins at index 0.
func (r Range) StartsAtFirst() bool {
	return r.start == 0
}

// EndsAtLast reports whether the range has no upper bound.
func (r Range) EndsAtLast() bool {
	return r.end == Unbounded
}

// CoversAll reports whether the range spans every index.
func (r Range) CoversAll() bool {
	return r.StartsAtFirst() && r.EndsAtLast()
}

// Contains reports whether n lies within the range.
func (r Range) Contains(n int) bool {
	return n >= r.start && n <= r.end
}

// Indexes returns the ascending indexes from max(start, 0) to min(end, maxEnd).
func (r Range) Indexes(maxEnd int) []int {
	start := max(r.start, 0)
	end := min(r.end, maxEnd)
	if start > end {
		return nil
	}

	indexes := make([]int, 0, end-start+1)
	for i := start; i <= end; i++ {
		indexes = append(indexes, i)
	}
	return indexes
}
