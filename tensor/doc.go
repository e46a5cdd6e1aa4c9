// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package tensor provides the dense float32 vectors and matrices used by the
// classifier, along with the numeric kernel over them.
//
// The package provides:
//   - Vector, Matrix, Shape: row-major float32 storage
//   - Dot, MatVec, Transpose, Outer, Hadamard: linear algebra
//   - Sigmoid, Softmax and their derivatives
//
// Every function returns a freshly allocated result and leaves its inputs
// untouched. A shape mismatch is a programming error and panics with an
// error wrapping ErrDimensionMismatch.
//
// Example:
//
//	w := tensor.MatrixFromRows([][]float32{{1, 2}, {3, 4}})
//	y := tensor.Softmax(tensor.MatVec(w, tensor.Vector{0.5, -0.5}))
package tensor
