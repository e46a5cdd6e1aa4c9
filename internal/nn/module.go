// Package nn implements the fully-connected feedforward classifier.
//
// This package provides:
//   - Activation: per-layer non-linearity selector (Sigmoid, Softmax)
//   - Cost: per-example cost functions (Quadratic, CrossEntropy)
//   - Init: weight/bias initialization policy
//   - Layer: one fully-connected transformation
//   - Network: an ordered stack of layers with forward, cost, accuracy,
//     backpropagation and parameter update
//   - Delta: per-layer gradient accumulator
//
// Gradients are expressed as negative gradients: a Delta is added to the
// network parameters to move downhill on the cost.
package nn

import "github.com/born-ml/mlp/internal/tensor"

// Module is implemented by every component that maps an input vector to an
// output vector and owns trainable parameters.
//
// Both Layer and Network satisfy it, so a single layer can be used wherever
// a whole network is expected.
type Module interface {
	// Forward computes the output for one input vector.
	Forward(input tensor.Vector) tensor.Vector

	// ParameterCount returns the number of trainable scalars.
	ParameterCount() int
}

var (
	_ Module = (*Layer)(nil)
	_ Module = (*Network)(nil)
)

// Example is a labeled example: a feature vector paired with a one-hot label.
//
// Examples are treated as immutable once produced by a data loader.
type Example struct {
	Label    tensor.Vector // one-hot, length = number of classes
	Features tensor.Vector // length = network input width
}
