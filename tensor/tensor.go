// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package tensor

import (
	"github.com/born-ml/mlp/internal/tensor"
)

// ErrDimensionMismatch is wrapped by the panic value of every shape check.
var ErrDimensionMismatch = tensor.ErrDimensionMismatch

// Type aliases for public API

// Vector is a dense float32 vector.
type Vector = tensor.Vector

// Matrix is a dense row-major float32 matrix.
type Matrix = tensor.Matrix

// Shape is a list of dimension sizes.
type Shape = tensor.Shape

// Construction

// NewVector returns a zeroed vector of length n.
func NewVector(n int) Vector { return tensor.NewVector(n) }

// NewMatrix returns a zeroed rows x cols matrix.
func NewMatrix(rows, cols int) Matrix { return tensor.NewMatrix(rows, cols) }

// MatrixFromSlice copies data into a rows x cols matrix.
func MatrixFromSlice(rows, cols int, data []float32) Matrix {
	return tensor.MatrixFromSlice(rows, cols, data)
}

// MatrixFromRows copies a slice of equal-length rows into a matrix.
func MatrixFromRows(rows [][]float32) Matrix { return tensor.MatrixFromRows(rows) }

// Linear algebra

// Dot returns the inner product of a and b.
func Dot(a, b Vector) float32 { return tensor.Dot(a, b) }

// MatVec returns m·v.
func MatVec(m Matrix, v Vector) Vector { return tensor.MatVec(m, v) }

// Transpose returns a new matrix with rows and columns swapped.
func Transpose(m Matrix) Matrix { return tensor.Transpose(m) }

// TransposeVec returns mᵀ·v without materializing mᵀ.
func TransposeVec(m Matrix, v Vector) Vector { return tensor.TransposeVec(m, v) }

// Outer returns the matrix x·yᵀ.
func Outer(x, y Vector) Matrix { return tensor.Outer(x, y) }

// Hadamard returns the element-wise product of x and y.
func Hadamard(x, y Vector) Vector { return tensor.Hadamard(x, y) }

// Add returns x + y.
func Add(x, y Vector) Vector { return tensor.Add(x, y) }

// Sub returns x - y.
func Sub(x, y Vector) Vector { return tensor.Sub(x, y) }

// Scale returns f·v.
func Scale(v Vector, f float32) Vector { return tensor.Scale(v, f) }

// Argmax returns the index of the largest entry, lowest index on ties.
func Argmax(v Vector) int { return tensor.Argmax(v) }

// Activations

// Sigmoid applies 1/(1+e^-x) element-wise.
func Sigmoid(v Vector) Vector { return tensor.Sigmoid(v) }

// SigmoidDerivative applies σ(x)(1-σ(x)) element-wise.
func SigmoidDerivative(v Vector) Vector { return tensor.SigmoidDerivative(v) }

// Softmax returns the numerically stable softmax of v.
func Softmax(v Vector) Vector { return tensor.Softmax(v) }

// SoftmaxJVP multiplies the Jacobian of softmax at output s by v.
func SoftmaxJVP(s, v Vector) Vector { return tensor.SoftmaxJVP(s, v) }

// SoftmaxDerivative returns SoftmaxJVP(s, s).
func SoftmaxDerivative(s Vector) Vector { return tensor.SoftmaxDerivative(s) }
