// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package nn

import (
	"math/rand"

	"github.com/born-ml/mlp/internal/nn"
	"github.com/born-ml/mlp/internal/tensor"
)

// ErrInvalidConfig is returned for malformed network configurations.
var ErrInvalidConfig = nn.ErrInvalidConfig

// Module is implemented by Layer and Network.
type Module = nn.Module

// Example is a labelled input.
type Example = nn.Example

// Activations

// Activation selects a layer's non-linearity.
type Activation = nn.Activation

const (
	Sigmoid = nn.Sigmoid
	Softmax = nn.Softmax
)

// ParseActivation parses "sigmoid" or "softmax".
func ParseActivation(name string) (Activation, error) { return nn.ParseActivation(name) }

// Costs

// Cost selects the per-example cost function.
type Cost = nn.Cost

const (
	Quadratic    = nn.Quadratic
	CrossEntropy = nn.CrossEntropy
)

// ParseCost parses a cost name such as "quadratic" or "cross-entropy".
func ParseCost(name string) (Cost, error) { return nn.ParseCost(name) }

// Initialization

// Init is a weight and bias initialization policy.
type Init = nn.Init

// InitScheme selects the weight range of an Init.
type InitScheme = nn.InitScheme

// BiasInit selects how biases start.
type BiasInit = nn.BiasInit

const (
	Uniform    = nn.Uniform
	Xavier     = nn.Xavier
	BiasZero   = nn.BiasZero
	BiasRandom = nn.BiasRandom
)

// DefaultInit draws weights from [-1, 1) and zeroes biases.
func DefaultInit() Init { return nn.DefaultInit() }

// UnitInit draws weights and biases from [0, 1).
func UnitInit() Init { return nn.UnitInit() }

// Layers

// Layer is a dense layer: activation(W·x + b).
type Layer = nn.Layer

// NewLayer creates an outputWidth x inputWidth layer initialized from rng.
//
// Example:
//
//	rng := rand.New(rand.NewSource(1))
//	layer := nn.NewLayer(30, 784, nn.Sigmoid, nn.DefaultInit(), rng)
func NewLayer(outputWidth, inputWidth int, activation Activation, init Init, rng *rand.Rand) *Layer {
	return nn.NewLayer(outputWidth, inputWidth, activation, init, rng)
}

// NewLayerWithParams creates a layer from copies of weights and biases.
func NewLayerWithParams(weights tensor.Matrix, biases tensor.Vector, activation Activation) *Layer {
	return nn.NewLayerWithParams(weights, biases, activation)
}

// Networks

// Config describes a network's architecture and training-time options.
type Config = nn.Config

// Network is an ordered stack of layers.
type Network = nn.Network

// Trace holds per-layer activations and weighted inputs of one forward pass.
type Trace = nn.Trace

// Delta holds per-layer negative gradients.
type Delta = nn.Delta

// DefaultConfig returns a sigmoid/softmax cross-entropy configuration.
func DefaultConfig(sizes ...int) Config { return nn.DefaultConfig(sizes...) }

// NewNetwork builds and initializes a network from cfg.
func NewNetwork(cfg Config, rng *rand.Rand) (*Network, error) { return nn.NewNetwork(cfg, rng) }

// NewNetworkFromLayers assembles a network from existing layers.
func NewNetworkFromLayers(cost Cost, lambda float32, layers ...*Layer) (*Network, error) {
	return nn.NewNetworkFromLayers(cost, lambda, layers...)
}
