package tensor

import (
	"errors"
	"fmt"
)

// ErrDimensionMismatch is wrapped by every panic raised when an operation
// receives operands whose shapes disagree.
//
// A mismatch is a caller bug, not bad data, so kernels fail fast instead of
// returning an error. Tests can recover the value and use errors.Is.
var ErrDimensionMismatch = errors.New("dimension mismatch")

// Shape represents the dimensions of a vector ([n]) or matrix ([rows, cols]).
type Shape []int

// NumElements returns the total number of elements.
func (s Shape) NumElements() int {
	if len(s) == 0 {
		return 0
	}
	n := 1
	for _, dim := range s {
		n *= dim
	}
	return n
}

// Validate checks if the shape is valid (all dimensions > 0).
func (s Shape) Validate() error {
	for i, dim := range s {
		if dim <= 0 {
			return fmt.Errorf("invalid dimension at index %d: %d (must be > 0)", i, dim)
		}
	}
	return nil
}

// Equal checks if two shapes are equal.
func (s Shape) Equal(other Shape) bool {
	if len(s) != len(other) {
		return false
	}
	for i := range s {
		if s[i] != other[i] {
			return false
		}
	}
	return true
}

// Clone returns a copy of the shape.
func (s Shape) Clone() Shape {
	clone := make(Shape, len(s))
	copy(clone, s)
	return clone
}

// mismatch panics with an error wrapping ErrDimensionMismatch.
func mismatch(op string, format string, args ...any) {
	panic(fmt.Errorf("%s: %w: %s", op, ErrDimensionMismatch, fmt.Sprintf(format, args...)))
}

// CheckLen panics if a vector does not have the expected length.
func CheckLen(op string, v Vector, want int) {
	if len(v) != want {
		mismatch(op, "expected length %d, got %d", want, len(v))
	}
}

// CheckSameLen panics if two vectors differ in length.
func CheckSameLen(op string, a, b Vector) {
	if len(a) != len(b) {
		mismatch(op, "lengths %d and %d differ", len(a), len(b))
	}
}

// CheckShape panics if a matrix does not have the expected shape.
func CheckShape(op string, m Matrix, want Shape) {
	if !m.Shape().Equal(want) {
		mismatch(op, "expected shape %v, got %v", want, m.Shape())
	}
}

// CheckCount panics if got != want. what names the counted items.
func CheckCount(op, what string, got, want int) {
	if got != want {
		mismatch(op, "expected %d %s, got %d", want, what, got)
	}
}
