package optim

import (
	"github.com/born-ml/mlp/internal/nn"
)

// SGD implements Stochastic Gradient Descent with optional momentum.
//
// Update rule without momentum:
//
//	param = param + lr * delta
//
// Update rule with momentum:
//
//	velocity = momentum * velocity + delta
//	param = param + lr * velocity
//
// delta is a negative gradient, so both rules descend the cost.
//
// Example:
//
//	optimizer := optim.NewSGD(net, optim.SGDConfig{
//	    LR:       0.5,
//	    Momentum: 0.9,
//	})
//
//	for epoch := range epochs {
//	    optimizer.Step(net.TotalNegativeGradient(batch))
//	}
type SGD struct {
	net      *nn.Network
	lr       float32
	momentum float32
	clipNorm float32
	velocity nn.Delta
}

// SGDConfig holds configuration for SGD optimizer.
type SGDConfig struct {
	LR       float32 // Learning rate (default: 0.01)
	Momentum float32 // Momentum factor (default: 0.0, range: [0, 1))
	ClipNorm float32 // Maximum gradient L2 norm before the update (0 disables)
}

// NewSGD creates a new SGD optimizer for net.
func NewSGD(net *nn.Network, config SGDConfig) *SGD {
	// Set defaults
	if config.LR == 0 {
		config.LR = 0.01
	}

	return &SGD{
		net:      net,
		lr:       config.LR,
		momentum: config.Momentum,
		clipNorm: config.ClipNorm,
	}
}

// Step performs a single optimization step.
func (s *SGD) Step(grad nn.Delta) nn.Delta {
	update := grad.Clone()
	ClipNorm(&update, s.clipNorm)

	if s.momentum != 0 {
		// velocity = momentum * velocity + grad
		if s.velocity.Empty() {
			s.velocity = s.net.ZeroDelta()
		}
		s.velocity.Scale(s.momentum)
		s.velocity.Accumulate(update)
		update = s.velocity.Clone()
	}

	update.Scale(s.lr)
	s.net.ApplyDelta(update)
	return update
}

// Reset clears the momentum buffer.
func (s *SGD) Reset() {
	s.velocity = nn.Delta{}
}

// GetLR returns the current learning rate.
func (s *SGD) GetLR() float32 {
	return s.lr
}

// SetLR updates the learning rate.
//
// Useful for learning rate scheduling during training.
func (s *SGD) SetLR(lr float32) {
	s.lr = lr
}
