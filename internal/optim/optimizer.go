// Package optim implements update rules that turn a batch gradient into a
// parameter update for a network.
//
// This package provides:
//   - Optimizer interface: Base interface for all optimizers
//   - SGD: Stochastic Gradient Descent with optional momentum
//   - Adam: Adaptive Moment Estimation
//   - ClipNorm: gradient-norm clipping
//
// Gradients arrive as nn.Delta values holding negative gradients, so every
// update is applied by addition.
//
// Example usage:
//
//	opt := optim.NewSGD(net, optim.SGDConfig{LR: 0.5})
//	for epoch := range epochs {
//	    grad := net.TotalNegativeGradient(batch)
//	    opt.Step(grad)
//	}
package optim

import (
	"math"

	"github.com/born-ml/mlp/internal/nn"
)

// Optimizer is the base interface for all optimization algorithms.
//
// All optimizers must implement:
//   - Step: Apply one update built from a batch gradient
//   - Reset: Drop accumulated state (momentum, moment estimates)
//   - GetLR / SetLR: Learning rate access for scheduling
type Optimizer interface {
	// Step builds an update from grad, applies it to the network and returns
	// the update that was applied. grad is not modified.
	Step(grad nn.Delta) nn.Delta

	// Reset clears optimizer state so the next Step starts fresh.
	Reset()

	// GetLR returns the current learning rate.
	GetLR() float32

	// SetLR updates the learning rate.
	SetLR(lr float32)
}

// Config is the base configuration for all optimizers.
type Config struct {
	LR float32 // Learning rate
}

// ClipNorm rescales d in place so that its L2 norm is at most maxNorm.
//
// Returns true if d was rescaled. maxNorm <= 0 disables clipping.
func ClipNorm(d *nn.Delta, maxNorm float32) bool {
	if maxNorm <= 0 {
		return false
	}
	norm := math.Sqrt(d.SquaredMagnitude())
	if norm <= float64(maxNorm) || norm == 0 || math.IsNaN(norm) {
		return false
	}
	d.Scale(float32(float64(maxNorm) / norm))
	return true
}
