package nn

import (
	"errors"
	"fmt"
	"math/rand"
	"sync"

	"github.com/born-ml/mlp/internal/parallel"
	"github.com/born-ml/mlp/internal/tensor"
)

// ErrInvalidConfig is returned when a network cannot be built from its
// configuration.
var ErrInvalidConfig = errors.New("invalid network config")

// Config describes the architecture and training objective of a Network.
type Config struct {
	// Sizes lists the layer widths, input first and class count last.
	// [784, 30, 10] builds two layers: 784→30 and 30→10.
	Sizes []int

	Hidden Activation // activation of every layer but the last
	Output Activation // activation of the last layer
	Cost   Cost

	Init Init

	// Lambda is the L2 coefficient. The cost gains λ·Σw² and the negative
	// gradient gains -2λ·w. Biases are not regularized. 0 disables it.
	Lambda float32

	// Parallel controls the per-example fan-out of dataset operations.
	Parallel parallel.Config
}

// DefaultConfig returns a sigmoid/softmax cross-entropy network with the
// given layer widths.
func DefaultConfig(sizes ...int) Config {
	return Config{
		Sizes:    sizes,
		Hidden:   Sigmoid,
		Output:   Softmax,
		Cost:     CrossEntropy,
		Init:     DefaultInit(),
		Parallel: parallel.DefaultConfig(),
	}
}

// Validate checks cfg for structural errors.
func (cfg Config) Validate() error {
	if len(cfg.Sizes) < 2 {
		return fmt.Errorf("%w: need at least an input and an output width, got %v", ErrInvalidConfig, cfg.Sizes)
	}
	if err := tensor.Shape(cfg.Sizes).Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if !cfg.Hidden.Valid() || !cfg.Output.Valid() {
		return fmt.Errorf("%w: unknown activation (hidden %v, output %v)", ErrInvalidConfig, cfg.Hidden, cfg.Output)
	}
	if !cfg.Cost.Valid() {
		return fmt.Errorf("%w: unknown cost %v", ErrInvalidConfig, cfg.Cost)
	}
	if cfg.Lambda < 0 {
		return fmt.Errorf("%w: lambda must be >= 0, got %v", ErrInvalidConfig, cfg.Lambda)
	}
	return cfg.Init.Validate()
}

// Network is an ordered stack of fully connected layers.
//
// Layer i's input width equals layer i-1's output width. The network has no
// mode: its only evolving state is the parameter values, which change only
// through ApplyDelta.
//
// Network is safe for concurrent use. Read operations (Forward, Cost,
// Accuracy, Backward, TotalNegativeGradient) may run concurrently with each
// other; ApplyDelta excludes them all, so every reader observes either the
// full pre-update or the full post-update parameters.
//
// Example:
//
//	net, err := nn.NewNetwork(nn.DefaultConfig(784, 30, 10), rand.New(rand.NewSource(1)))
//	if err != nil {
//	    return err
//	}
//	grad := net.TotalNegativeGradient(batch)
//	grad.Scale(learningRate)
//	net.ApplyDelta(grad)
type Network struct {
	mu      sync.RWMutex
	layers  []*Layer
	cost    Cost
	lambda  float32
	workers parallel.Config
}

// NewNetwork builds a randomly initialized network from cfg.
//
// rng is the only source of randomness, so a seeded rng reproduces the same
// initial parameters.
func NewNetwork(cfg Config, rng *rand.Rand) (*Network, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if rng == nil {
		return nil, fmt.Errorf("%w: nil random source", ErrInvalidConfig)
	}

	layers := make([]*Layer, len(cfg.Sizes)-1)
	for i := range layers {
		act := cfg.Hidden
		if i == len(layers)-1 {
			act = cfg.Output
		}
		layers[i] = NewLayer(cfg.Sizes[i+1], cfg.Sizes[i], act, cfg.Init, rng)
	}

	return &Network{
		layers:  layers,
		cost:    cfg.Cost,
		lambda:  cfg.Lambda,
		workers: cfg.Parallel,
	}, nil
}

// NewNetworkFromLayers assembles a network from existing layers.
//
// The layers are used directly, not copied. Dataset operations run
// sequentially until SetParallel is called.
func NewNetworkFromLayers(cost Cost, lambda float32, layers ...*Layer) (*Network, error) {
	if len(layers) == 0 {
		return nil, fmt.Errorf("%w: no layers", ErrInvalidConfig)
	}
	if !cost.Valid() {
		return nil, fmt.Errorf("%w: unknown cost %v", ErrInvalidConfig, cost)
	}
	if lambda < 0 {
		return nil, fmt.Errorf("%w: lambda must be >= 0, got %v", ErrInvalidConfig, lambda)
	}
	for i, l := range layers {
		if l == nil {
			return nil, fmt.Errorf("%w: layer %d is nil", ErrInvalidConfig, i)
		}
		if !l.activation.Valid() {
			return nil, fmt.Errorf("%w: layer %d has unknown activation %v", ErrInvalidConfig, i, l.activation)
		}
		if i > 0 && l.InputWidth() != layers[i-1].OutputWidth() {
			return nil, fmt.Errorf("%w: layer %d expects %d inputs but layer %d produces %d",
				ErrInvalidConfig, i, l.InputWidth(), i-1, layers[i-1].OutputWidth())
		}
	}

	return &Network{
		layers:  layers,
		cost:    cost,
		lambda:  lambda,
		workers: parallel.Sequential(),
	}, nil
}

// SetParallel replaces the fan-out configuration of dataset operations.
func (n *Network) SetParallel(cfg parallel.Config) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.workers = cfg
}

// Layers returns the network's layers in order.
//
// The returned layers are live; mutating them bypasses the network's
// synchronization.
func (n *Network) Layers() []*Layer {
	out := make([]*Layer, len(n.layers))
	copy(out, n.layers)
	return out
}

// Sizes returns the layer widths, input first.
func (n *Network) Sizes() []int {
	sizes := make([]int, 0, len(n.layers)+1)
	sizes = append(sizes, n.layers[0].InputWidth())
	for _, l := range n.layers {
		sizes = append(sizes, l.OutputWidth())
	}
	return sizes
}

// InputWidth returns the expected feature vector length.
func (n *Network) InputWidth() int {
	return n.layers[0].InputWidth()
}

// OutputWidth returns the number of classes.
func (n *Network) OutputWidth() int {
	return n.layers[len(n.layers)-1].OutputWidth()
}

// CostFunc returns the configured cost.
func (n *Network) CostFunc() Cost {
	return n.cost
}

// Lambda returns the L2 coefficient.
func (n *Network) Lambda() float32 {
	return n.lambda
}

// ParameterCount returns the total number of trainable scalars.
func (n *Network) ParameterCount() int {
	total := 0
	for _, l := range n.layers {
		total += l.ParameterCount()
	}
	return total
}

// Forward feeds input through every layer and returns the last activation.
//
// Panics with a dimension mismatch if len(input) != InputWidth().
func (n *Network) Forward(input tensor.Vector) tensor.Vector {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.forward(input)
}

func (n *Network) forward(input tensor.Vector) tensor.Vector {
	tensor.CheckLen("Network.Forward", input, n.InputWidth())
	a := input
	for _, l := range n.layers {
		a = l.Activate(a)
	}
	return a
}

// ForwardTrace is Forward that also returns every weighted input and
// activation. The trace belongs to the caller.
func (n *Network) ForwardTrace(input tensor.Vector) (tensor.Vector, *Trace) {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.forwardTrace(input)
}

func (n *Network) forwardTrace(input tensor.Vector) (tensor.Vector, *Trace) {
	tensor.CheckLen("Network.ForwardTrace", input, n.InputWidth())

	trace := &Trace{
		Activations:    make([]tensor.Vector, len(n.layers)+1),
		WeightedInputs: make([]tensor.Vector, len(n.layers)),
	}
	trace.Activations[0] = input.Clone()

	a := trace.Activations[0]
	for i, l := range n.layers {
		z := l.WeightedInput(a)
		a = l.activation.Apply(z)
		trace.WeightedInputs[i] = z
		trace.Activations[i+1] = a
	}
	return a, trace
}

// Cost returns the mean per-example cost over data plus λ·Σw².
//
// Returns 0 for an empty dataset (the regularization term alone is not
// reported without data).
func (n *Network) Cost(data []Example) float32 {
	n.mu.RLock()
	defer n.mu.RUnlock()

	if len(data) == 0 {
		return 0
	}

	partials := make([]float64, parallel.NumChunks(len(data), n.workers))
	parallel.ForChunks(len(data), func(c, start, end int) {
		var sum float64
		for _, ex := range data[start:end] {
			sum += float64(n.cost.Value(n.forward(ex.Features), ex.Label))
		}
		partials[c] = sum
	}, n.workers)

	var total float64
	for _, p := range partials {
		total += p
	}
	mean := total / float64(len(data))

	return float32(mean + n.regularization())
}

// regularization returns λ·Σw² over every weight.
func (n *Network) regularization() float64 {
	if n.lambda == 0 {
		return 0
	}
	var sum float64
	for _, l := range n.layers {
		for _, w := range l.weights.Data() {
			sum += float64(w) * float64(w)
		}
	}
	return float64(n.lambda) * sum
}

// Accuracy returns the fraction of examples whose predicted class equals the
// label's class. Both use argmax with ties broken by the lowest index.
//
// Returns 0 for an empty dataset.
func (n *Network) Accuracy(data []Example) float32 {
	n.mu.RLock()
	defer n.mu.RUnlock()

	if len(data) == 0 {
		return 0
	}

	partials := make([]int, parallel.NumChunks(len(data), n.workers))
	parallel.ForChunks(len(data), func(c, start, end int) {
		correct := 0
		for _, ex := range data[start:end] {
			if tensor.Argmax(n.forward(ex.Features)) == tensor.Argmax(ex.Label) {
				correct++
			}
		}
		partials[c] = correct
	}, n.workers)

	correct := 0
	for _, p := range partials {
		correct += p
	}
	return float32(correct) / float32(len(data))
}

// Backward computes the negative cost gradient of a single example.
//
// The regularization term is not included; it is a property of the whole
// dataset cost and is added by TotalNegativeGradient.
func (n *Network) Backward(ex Example) Delta {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.backward(ex)
}

// backward runs reverse-mode propagation:
//
//	δ_L = -Backprop_L(z_L, a_L, ∂C/∂a_L)
//	δ_l = Backprop_l(z_l, a_l, W_{l+1}ᵀ · δ_{l+1})
//	ΔW_l = δ_l ⊗ a_{l-1},  Δb_l = δ_l
func (n *Network) backward(ex Example) Delta {
	output, trace := n.forwardTrace(ex.Features)
	tensor.CheckLen("Network.Backward", ex.Label, len(output))

	count := len(n.layers)
	delta := Delta{
		Weights: make([]tensor.Matrix, count),
		Biases:  make([]tensor.Vector, count),
	}

	last := n.layers[count-1]
	grad := n.cost.Gradient(output, ex.Label)
	errVec := tensor.Scale(last.activation.Backprop(trace.WeightedInputs[count-1], output, grad), -1)

	for l := count - 1; l >= 0; l-- {
		if l < count-1 {
			upstream := tensor.TransposeVec(n.layers[l+1].weights, errVec)
			errVec = n.layers[l].activation.Backprop(trace.WeightedInputs[l], trace.Activations[l+1], upstream)
		}
		delta.Biases[l] = errVec
		delta.Weights[l] = tensor.Outer(errVec, trace.Activations[l])
	}
	return delta
}

// TotalNegativeGradient returns the negative gradient of Cost(data).
//
// Per-example deltas are summed (one partial sum per worker chunk, reduced in
// chunk order), divided by len(data), and then -2λ·w is added to every
// weight entry. An empty dataset yields a zero Delta shaped like the network.
func (n *Network) TotalNegativeGradient(data []Example) Delta {
	n.mu.RLock()
	defer n.mu.RUnlock()

	total := n.zeroDelta()
	if len(data) == 0 {
		return total
	}

	partials := make([]Delta, parallel.NumChunks(len(data), n.workers))
	parallel.ForChunks(len(data), func(c, start, end int) {
		var acc Delta
		for _, ex := range data[start:end] {
			acc.Accumulate(n.backward(ex))
		}
		partials[c] = acc
	}, n.workers)

	for _, p := range partials {
		total.Accumulate(p)
	}
	total.Scale(1 / float32(len(data)))

	if n.lambda != 0 {
		decay := 2 * n.lambda
		for l, layer := range n.layers {
			grad := total.Weights[l].Data()
			for i, w := range layer.weights.Data() {
				grad[i] -= decay * w
			}
		}
	}
	return total
}

// ApplyDelta adds d to the parameters: W += d.Weights, b += d.Biases.
//
// The caller scales d by the learning rate beforehand. d's shape is checked
// before any parameter is written, so a mismatched Delta panics without a
// partial update.
func (n *Network) ApplyDelta(d Delta) {
	n.mu.Lock()
	defer n.mu.Unlock()

	tensor.CheckCount("Network.ApplyDelta", "weight matrices", len(d.Weights), len(n.layers))
	tensor.CheckCount("Network.ApplyDelta", "bias vectors", len(d.Biases), len(n.layers))
	for l, layer := range n.layers {
		tensor.CheckShape("Network.ApplyDelta", d.Weights[l], layer.weights.Shape())
		tensor.CheckLen("Network.ApplyDelta", d.Biases[l], len(layer.biases))
	}

	for l, layer := range n.layers {
		w := layer.weights.Data()
		for i, x := range d.Weights[l].Data() {
			w[i] += x
		}
		for i, x := range d.Biases[l] {
			layer.biases[i] += x
		}
	}
}

// ZeroDelta returns a zero Delta shaped like the network.
func (n *Network) ZeroDelta() Delta {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.zeroDelta()
}

func (n *Network) zeroDelta() Delta {
	d := Delta{
		Weights: make([]tensor.Matrix, len(n.layers)),
		Biases:  make([]tensor.Vector, len(n.layers)),
	}
	for i, l := range n.layers {
		d.Weights[i] = tensor.NewMatrix(l.OutputWidth(), l.InputWidth())
		d.Biases[i] = tensor.NewVector(l.OutputWidth())
	}
	return d
}
