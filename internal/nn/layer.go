package nn

import (
	"fmt"
	"math/rand"

	"github.com/born-ml/mlp/internal/tensor"
)

// Layer implements one fully connected transformation.
//
// Performs: a = f(W·x + b)
// where:
//   - x is the input vector with length inputWidth
//   - W is the weight matrix with shape [outputWidth, inputWidth]
//   - b is the bias vector with length outputWidth
//   - f is the layer's activation
//
// A Layer is not safe for concurrent mutation. Inside a Network all access is
// serialized by the network.
type Layer struct {
	weights    tensor.Matrix // [outputWidth, inputWidth]
	biases     tensor.Vector // [outputWidth]
	activation Activation
}

// NewLayer creates a layer with weights and biases drawn from init using rng.
//
// Panics if either width is not positive, the activation or init policy is
// invalid, or rng is nil.
func NewLayer(outputWidth, inputWidth int, activation Activation, init Init, rng *rand.Rand) *Layer {
	if outputWidth <= 0 || inputWidth <= 0 {
		panic(fmt.Sprintf("nn.NewLayer: widths must be positive, got [%d, %d]", outputWidth, inputWidth))
	}
	if !activation.Valid() {
		panic(fmt.Errorf("nn.NewLayer: %w: unknown activation %v", ErrInvalidConfig, activation))
	}
	if err := init.Validate(); err != nil {
		panic(fmt.Errorf("nn.NewLayer: %w", err))
	}
	if rng == nil {
		panic("nn.NewLayer: nil random source")
	}

	low, high := init.bounds(inputWidth, outputWidth)

	weights := tensor.NewMatrix(outputWidth, inputWidth)
	fill(weights.Data(), low, high, rng)

	biases := tensor.NewVector(outputWidth)
	if init.Bias == BiasRandom {
		fill(biases, low, high, rng)
	}

	return &Layer{
		weights:    weights,
		biases:     biases,
		activation: activation,
	}
}

// NewLayerWithParams creates a layer from explicit parameters.
//
// weights and biases are copied. Panics if weights.Rows() != len(biases) or
// the activation is unknown.
func NewLayerWithParams(weights tensor.Matrix, biases tensor.Vector, activation Activation) *Layer {
	if !activation.Valid() {
		panic(fmt.Errorf("nn.NewLayerWithParams: %w: unknown activation %v", ErrInvalidConfig, activation))
	}
	if weights.Rows() != len(biases) {
		tensor.CheckLen("nn.NewLayerWithParams", biases, weights.Rows())
	}
	if weights.Rows() == 0 || weights.Cols() == 0 {
		panic(fmt.Sprintf("nn.NewLayerWithParams: empty weight matrix %v", weights.Shape()))
	}
	return &Layer{
		weights:    weights.Clone(),
		biases:     biases.Clone(),
		activation: activation,
	}
}

// WeightedInput computes the pre-activation W·input + b.
func (l *Layer) WeightedInput(input tensor.Vector) tensor.Vector {
	tensor.CheckLen("Layer.WeightedInput", input, l.weights.Cols())
	z := tensor.MatVec(l.weights, input)
	for i, b := range l.biases {
		z[i] += b
	}
	return z
}

// Activate computes f(W·input + b).
func (l *Layer) Activate(input tensor.Vector) tensor.Vector {
	return l.activation.Apply(l.WeightedInput(input))
}

// Forward is Activate; it makes Layer a Module.
func (l *Layer) Forward(input tensor.Vector) tensor.Vector {
	return l.Activate(input)
}

// ParameterCount returns weights.Size() + len(biases).
func (l *Layer) ParameterCount() int {
	return l.weights.Size() + len(l.biases)
}

// InputWidth returns the expected input length.
func (l *Layer) InputWidth() int {
	return l.weights.Cols()
}

// OutputWidth returns the output length.
func (l *Layer) OutputWidth() int {
	return l.weights.Rows()
}

// Activation returns the layer's activation.
func (l *Layer) Activation() Activation {
	return l.activation
}

// Weights returns a copy of the weight matrix.
func (l *Layer) Weights() tensor.Matrix {
	return l.weights.Clone()
}

// Biases returns a copy of the bias vector.
func (l *Layer) Biases() tensor.Vector {
	return l.biases.Clone()
}
