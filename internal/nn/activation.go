package nn

import (
	"fmt"
	"strings"

	"github.com/born-ml/mlp/internal/tensor"
)

// Activation selects the non-linearity a layer applies to its weighted input.
type Activation int

const (
	// Sigmoid applies σ(x) = 1 / (1 + exp(-x)) element-wise.
	Sigmoid Activation = iota

	// Softmax normalizes the weighted input into a probability vector.
	//
	// Softmax couples its outputs, so its derivative is a Jacobian-vector
	// product rather than an element-wise factor.
	Softmax
)

// String returns the configuration name of the activation.
func (a Activation) String() string {
	switch a {
	case Sigmoid:
		return "sigmoid"
	case Softmax:
		return "softmax"
	default:
		return fmt.Sprintf("Activation(%d)", int(a))
	}
}

// ParseActivation converts a configuration name into an Activation.
func ParseActivation(name string) (Activation, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "sigmoid":
		return Sigmoid, nil
	case "softmax":
		return Softmax, nil
	default:
		return 0, fmt.Errorf("%w: unknown activation %q", ErrInvalidConfig, name)
	}
}

// Valid reports whether a is a known activation.
func (a Activation) Valid() bool {
	return a == Sigmoid || a == Softmax
}

// Apply computes the activation of a weighted input vector.
func (a Activation) Apply(z tensor.Vector) tensor.Vector {
	switch a {
	case Sigmoid:
		return tensor.Sigmoid(z)
	case Softmax:
		return tensor.Softmax(z)
	default:
		panic(fmt.Sprintf("Activation.Apply: unknown activation %d", int(a)))
	}
}

// Backprop maps a gradient with respect to the activation output onto the
// weighted input.
//
// Parameters:
//   - z: weighted input the activation was applied to
//   - out: the activation output, Apply(z)
//   - grad: gradient with respect to out
//
// For Sigmoid this is grad ⊙ σ'(z). For Softmax it is J(out)·grad, the
// softmax Jacobian-vector product. The mapping is linear in grad, so the
// sign of grad carries through unchanged.
func (a Activation) Backprop(z, out, grad tensor.Vector) tensor.Vector {
	switch a {
	case Sigmoid:
		return tensor.Hadamard(grad, tensor.SigmoidDerivative(z))
	case Softmax:
		return tensor.SoftmaxJVP(out, grad)
	default:
		panic(fmt.Sprintf("Activation.Backprop: unknown activation %d", int(a)))
	}
}
