package nn

import (
	"fmt"
	"strings"

	"github.com/chewxy/math32"

	"github.com/born-ml/mlp/internal/tensor"
)

// CrossEntropyEpsilon guards log(0) in the cross-entropy cost.
const CrossEntropyEpsilon = 1e-8

// Cost selects the per-example cost function.
//
// Each cost has a natural output activation:
//   - Quadratic pairs with a Sigmoid output layer
//   - CrossEntropy pairs with a Softmax output layer
//
// Other pairings are allowed and still produce exact gradients; they just
// lose the cancellation that keeps the output error equal to (label - output).
type Cost int

const (
	// Quadratic is Σ (output_i - label_i)² / 2.
	Quadratic Cost = iota

	// CrossEntropy is -Σ label_i · ln(output_i + ε).
	CrossEntropy
)

// String returns the configuration name of the cost.
func (c Cost) String() string {
	switch c {
	case Quadratic:
		return "quadratic"
	case CrossEntropy:
		return "cross-entropy"
	default:
		return fmt.Sprintf("Cost(%d)", int(c))
	}
}

// ParseCost converts a configuration name into a Cost.
func ParseCost(name string) (Cost, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "quadratic", "mse":
		return Quadratic, nil
	case "cross-entropy", "crossentropy", "ce":
		return CrossEntropy, nil
	default:
		return 0, fmt.Errorf("%w: unknown cost %q", ErrInvalidConfig, name)
	}
}

// Valid reports whether c is a known cost.
func (c Cost) Valid() bool {
	return c == Quadratic || c == CrossEntropy
}

// OutputActivation returns the output activation that cancels cleanly with c.
func (c Cost) OutputActivation() Activation {
	if c == CrossEntropy {
		return Softmax
	}
	return Sigmoid
}

// Value computes the cost of a single output against its label.
func (c Cost) Value(output, label tensor.Vector) float32 {
	tensor.CheckSameLen("Cost.Value", output, label)

	var sum float32
	switch c {
	case Quadratic:
		for i := range output {
			d := output[i] - label[i]
			sum += d * d
		}
		return sum / 2
	case CrossEntropy:
		for i := range output {
			if label[i] == 0 {
				continue
			}
			sum -= label[i] * math32.Log(output[i]+CrossEntropyEpsilon)
		}
		return sum
	default:
		panic(fmt.Sprintf("Cost.Value: unknown cost %d", int(c)))
	}
}

// Gradient returns ∂C/∂output for a single example.
func (c Cost) Gradient(output, label tensor.Vector) tensor.Vector {
	tensor.CheckSameLen("Cost.Gradient", output, label)

	grad := make(tensor.Vector, len(output))
	switch c {
	case Quadratic:
		for i := range output {
			grad[i] = output[i] - label[i]
		}
	case CrossEntropy:
		for i := range output {
			grad[i] = -label[i] / (output[i] + CrossEntropyEpsilon)
		}
	default:
		panic(fmt.Sprintf("Cost.Gradient: unknown cost %d", int(c)))
	}
	return grad
}
