package nn

import (
	"fmt"
	"math"
	"math/rand"
)

// InitScheme selects how a layer's weight range is chosen.
type InitScheme int

const (
	// Uniform draws every weight from [Init.Low, Init.High).
	Uniform InitScheme = iota

	// Xavier (Glorot) draws from U(-sqrt(6/(fan_in + fan_out)), +sqrt(...)),
	// computed per layer. Low and High are ignored.
	Xavier
)

// BiasInit selects how biases are initialized.
type BiasInit int

const (
	// BiasZero starts every bias at 0.
	BiasZero BiasInit = iota

	// BiasRandom draws biases from the same range as the weights.
	BiasRandom
)

// Init is the weight and bias initialization policy of a network.
type Init struct {
	Scheme InitScheme
	Low    float32 // inclusive lower bound for Uniform
	High   float32 // exclusive upper bound for Uniform
	Bias   BiasInit
}

// DefaultInit returns weights in [-1, 1) with zero biases.
func DefaultInit() Init {
	return Init{Scheme: Uniform, Low: -1, High: 1, Bias: BiasZero}
}

// UnitInit returns weights and biases drawn from [0, 1), the policy of the
// earliest versions of this classifier.
func UnitInit() Init {
	return Init{Scheme: Uniform, Low: 0, High: 1, Bias: BiasRandom}
}

// Validate checks the policy for an empty or inverted range.
func (p Init) Validate() error {
	switch p.Scheme {
	case Uniform:
		if !(p.Low < p.High) {
			return fmt.Errorf("%w: init range [%v, %v) is empty", ErrInvalidConfig, p.Low, p.High)
		}
	case Xavier:
	default:
		return fmt.Errorf("%w: unknown init scheme %d", ErrInvalidConfig, int(p.Scheme))
	}
	if p.Bias != BiasZero && p.Bias != BiasRandom {
		return fmt.Errorf("%w: unknown bias init %d", ErrInvalidConfig, int(p.Bias))
	}
	return nil
}

// bounds returns the sampling range for a layer with the given fan-in/out.
func (p Init) bounds(fanIn, fanOut int) (low, high float32) {
	if p.Scheme == Xavier {
		bound := float32(math.Sqrt(6.0 / float64(fanIn+fanOut)))
		return -bound, bound
	}
	return p.Low, p.High
}

// fill draws every element of data uniformly from [low, high).
func fill(data []float32, low, high float32, rng *rand.Rand) {
	span := high - low
	for i := range data {
		//nolint:gosec // Using math/rand for weight initialization (not security-critical)
		data[i] = low + rng.Float32()*span
	}
}
