package tensor

import (
	"fmt"

	"github.com/chewxy/math32"
)

// Vector is a dense single-precision vector.
//
// Kernel functions treat vectors as values: they read their arguments and
// return freshly allocated results.
type Vector []float32

// NewVector returns a zero vector of length n.
func NewVector(n int) Vector {
	return make(Vector, n)
}

// Clone returns a copy of v that shares no storage with it.
func (v Vector) Clone() Vector {
	if v == nil {
		return nil
	}
	out := make(Vector, len(v))
	copy(out, v)
	return out
}

// Shape returns [len(v)].
func (v Vector) Shape() Shape {
	return Shape{len(v)}
}

// Matrix is a dense row-major single-precision matrix.
//
// The zero value is an empty 0x0 matrix.
type Matrix struct {
	rows int
	cols int
	data []float32
}

// NewMatrix returns a zero matrix with the given shape.
func NewMatrix(rows, cols int) Matrix {
	if rows < 0 || cols < 0 {
		panic(fmt.Sprintf("tensor.NewMatrix: negative shape [%d, %d]", rows, cols))
	}
	return Matrix{rows: rows, cols: cols, data: make([]float32, rows*cols)}
}

// MatrixFromSlice builds a rows x cols matrix from row-major data.
// The data is copied.
func MatrixFromSlice(rows, cols int, data []float32) Matrix {
	if rows*cols != len(data) {
		mismatch("tensor.MatrixFromSlice", "shape [%d, %d] requires %d elements, got %d",
			rows, cols, rows*cols, len(data))
	}
	m := NewMatrix(rows, cols)
	copy(m.data, data)
	return m
}

// MatrixFromRows builds a matrix from a slice of equally sized rows.
func MatrixFromRows(rows [][]float32) Matrix {
	if len(rows) == 0 {
		return Matrix{}
	}
	cols := len(rows[0])
	m := NewMatrix(len(rows), cols)
	for i, row := range rows {
		if len(row) != cols {
			mismatch("tensor.MatrixFromRows", "row %d has %d columns, expected %d", i, len(row), cols)
		}
		copy(m.data[i*cols:(i+1)*cols], row)
	}
	return m
}

// Rows returns the number of rows.
func (m Matrix) Rows() int { return m.rows }

// Cols returns the number of columns.
func (m Matrix) Cols() int { return m.cols }

// Shape returns [rows, cols].
func (m Matrix) Shape() Shape { return Shape{m.rows, m.cols} }

// Size returns rows*cols.
func (m Matrix) Size() int { return len(m.data) }

// At returns the element at row i, column j.
func (m Matrix) At(i, j int) float32 {
	return m.data[i*m.cols+j]
}

// Set stores x at row i, column j.
func (m Matrix) Set(i, j int, x float32) {
	m.data[i*m.cols+j] = x
}

// Row returns row i. The result shares storage with m.
func (m Matrix) Row(i int) Vector {
	return Vector(m.data[i*m.cols : (i+1)*m.cols])
}

// Data returns the row-major backing slice. The result shares storage with m.
func (m Matrix) Data() []float32 {
	return m.data
}

// Clone returns a deep copy of m.
func (m Matrix) Clone() Matrix {
	out := Matrix{rows: m.rows, cols: m.cols, data: make([]float32, len(m.data))}
	copy(out.data, m.data)
	return out
}

// Equal reports whether m and other have the same shape and identical elements.
func (m Matrix) Equal(other Matrix) bool {
	if m.rows != other.rows || m.cols != other.cols {
		return false
	}
	for i := range m.data {
		if m.data[i] != other.data[i] {
			return false
		}
	}
	return true
}

// HasNaN reports whether any element of data is NaN.
func HasNaN(data []float32) bool {
	for _, x := range data {
		if math32.IsNaN(x) {
			return true
		}
	}
	return false
}

// HasInf reports whether any element of data is +Inf or -Inf.
func HasInf(data []float32) bool {
	for _, x := range data {
		if math32.IsInf(x, 0) {
			return true
		}
	}
	return false
}
