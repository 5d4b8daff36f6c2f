package sieve

import (
	"fmt"

	apperrors "github.com/agbru/primepipe/internal/errors"
)

// Range is the half-open candidate interval [Lo, Hi).
type Range struct {
	Lo uint64
	Hi uint64
}

// NewRange builds a Range and validates it.
func NewRange(lo, hi uint64) (Range, error) {
	r := Range{Lo: lo, Hi: hi}
	return r, r.Validate()
}

// Validate rejects non-positive and empty ranges.
func (r Range) Validate() error {
	if r.Lo == 0 {
		return apperrors.ValidationError{Field: "lo", Message: "must be a positive integer"}
	}
	if r.Hi <= r.Lo {
		return apperrors.ValidationError{Field: "range", Message: fmt.Sprintf("hi (%d) must be greater than lo (%d)", r.Hi, r.Lo)}
	}
	return nil
}

// Len returns the number of candidates in the range.
func (r Range) Len() uint64 {
	if r.Hi <= r.Lo {
		return 0
	}
	return r.Hi - r.Lo
}

// String formats the range as [lo, hi).
func (r Range) String() string {
	return fmt.Sprintf("[%d, %d)", r.Lo, r.Hi)
}

// Split partitions r into at most n contiguous, non-empty chunks whose
// lengths differ by at most one. The chunks cover r exactly, in order.
func (r Range) Split(n int) []Range {
	total := r.Len()
	if n < 1 || total == 0 {
		return nil
	}
	if uint64(n) > total {
		n = int(total)
	}
	base, extra := total/uint64(n), total%uint64(n)
	chunks := make([]Range, 0, n)
	lo := r.Lo
	for i := 0; i < n; i++ {
		size := base
		if uint64(i) < extra {
			size++
		}
		chunks = append(chunks, Range{Lo: lo, Hi: lo + size})
		lo += size
	}
	return chunks
}
