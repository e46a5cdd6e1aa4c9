// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package optim

import (
	"github.com/born-ml/mlp/internal/nn"
	"github.com/born-ml/mlp/internal/optim"
)

// Optimizer interface defines the common interface for all optimizers.
type Optimizer = optim.Optimizer

// Config represents the base configuration for optimizers.
type Config = optim.Config

// SGD (Stochastic Gradient Descent)

// SGD represents the SGD optimizer with optional momentum.
type SGD = optim.SGD

// SGDConfig contains configuration for SGD optimizer.
type SGDConfig = optim.SGDConfig

// NewSGD creates a new SGD optimizer for net.
//
// Example:
//
//	opt := optim.NewSGD(net, optim.SGDConfig{LR: 0.5})
func NewSGD(net *nn.Network, config SGDConfig) *SGD {
	return optim.NewSGD(net, config)
}

// Adam (Adaptive Moment Estimation)

// Adam represents the Adam optimizer.
type Adam = optim.Adam

// AdamConfig contains configuration for Adam optimizer.
type AdamConfig = optim.AdamConfig

// NewAdam creates a new Adam optimizer for net.
//
// Example:
//
//	opt := optim.NewAdam(net, optim.AdamConfig{LR: 0.001})
func NewAdam(net *nn.Network, config AdamConfig) *Adam {
	return optim.NewAdam(net, config)
}

// ClipNorm rescales d in place to an L2 norm of at most maxNorm.
func ClipNorm(d *nn.Delta, maxNorm float32) bool {
	return optim.ClipNorm(d, maxNorm)
}
