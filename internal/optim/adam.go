package optim

import (
	"github.com/chewxy/math32"

	"github.com/born-ml/mlp/internal/nn"
	"github.com/born-ml/mlp/internal/tensor"
)

// Adam implements the Adam (Adaptive Moment Estimation) optimizer.
//
// Update rule, with g the negative gradient:
//
//	m_t = beta1 * m_{t-1} + (1-beta1) * g
//	v_t = beta2 * v_{t-1} + (1-beta2) * g²
//	m_hat = m_t / (1 - beta1^t)
//	v_hat = v_t / (1 - beta2^t)
//	param = param + lr * m_hat / (sqrt(v_hat) + eps)
//
// Reference: "Adam: A Method for Stochastic Optimization" (Kingma & Ba, 2014)
type Adam struct {
	net      *nn.Network
	lr       float32
	beta1    float32
	beta2    float32
	eps      float32
	clipNorm float32
	t        int      // Timestep for bias correction
	m        nn.Delta // First moment estimates
	v        nn.Delta // Second moment estimates
}

// AdamConfig holds configuration for Adam optimizer.
type AdamConfig struct {
	LR       float32    // Learning rate (default: 0.001)
	Betas    [2]float32 // Coefficients for computing running averages (default: [0.9, 0.999])
	Eps      float32    // Term for numerical stability (default: 1e-8)
	ClipNorm float32    // Maximum gradient L2 norm before the update (0 disables)
}

// NewAdam creates a new Adam optimizer for net.
//
// Default hyperparameters:
//   - LR: 0.001
//   - Beta1: 0.9
//   - Beta2: 0.999
//   - Eps: 1e-8
func NewAdam(net *nn.Network, config AdamConfig) *Adam {
	if config.LR == 0 {
		config.LR = 0.001
	}
	if config.Betas[0] == 0 {
		config.Betas[0] = 0.9
	}
	if config.Betas[1] == 0 {
		config.Betas[1] = 0.999
	}
	if config.Eps == 0 {
		config.Eps = 1e-8
	}

	return &Adam{
		net:      net,
		lr:       config.LR,
		beta1:    config.Betas[0],
		beta2:    config.Betas[1],
		eps:      config.Eps,
		clipNorm: config.ClipNorm,
	}
}

// Step performs a single optimization step.
func (a *Adam) Step(grad nn.Delta) nn.Delta {
	g := grad.Clone()
	ClipNorm(&g, a.clipNorm)

	if a.m.Empty() {
		a.m = a.net.ZeroDelta()
		a.v = a.net.ZeroDelta()
	}
	a.t++

	bc1 := 1 - math32.Pow(a.beta1, float32(a.t))
	bc2 := 1 - math32.Pow(a.beta2, float32(a.t))

	update := a.net.ZeroDelta()
	tensor.CheckCount("Adam.Step", "weight matrices", len(g.Weights), len(update.Weights))
	tensor.CheckCount("Adam.Step", "bias vectors", len(g.Biases), len(update.Biases))
	for l := range g.Weights {
		tensor.CheckShape("Adam.Step", g.Weights[l], update.Weights[l].Shape())
		tensor.CheckLen("Adam.Step", g.Biases[l], len(update.Biases[l]))
		a.updateSlice(update.Weights[l].Data(), a.m.Weights[l].Data(), a.v.Weights[l].Data(),
			g.Weights[l].Data(), bc1, bc2)
		a.updateSlice(update.Biases[l], a.m.Biases[l], a.v.Biases[l], g.Biases[l], bc1, bc2)
	}

	a.net.ApplyDelta(update)
	return update
}

// updateSlice advances the moment estimates for one parameter block and
// writes the resulting step into out.
func (a *Adam) updateSlice(out, m, v, g []float32, bc1, bc2 float32) {
	for i, gi := range g {
		m[i] = a.beta1*m[i] + (1-a.beta1)*gi
		v[i] = a.beta2*v[i] + (1-a.beta2)*gi*gi
		mHat := m[i] / bc1
		vHat := v[i] / bc2
		out[i] = a.lr * mHat / (math32.Sqrt(vHat) + a.eps)
	}
}

// Reset clears the moment estimates and the timestep.
func (a *Adam) Reset() {
	a.t = 0
	a.m = nn.Delta{}
	a.v = nn.Delta{}
}

// GetLR returns the current learning rate.
func (a *Adam) GetLR() float32 {
	return a.lr
}

// SetLR updates the learning rate.
func (a *Adam) SetLR(lr float32) {
	a.lr = lr
}

// GetTimestep returns the number of steps taken since the last Reset.
func (a *Adam) GetTimestep() int {
	return a.t
}
