package nn

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/mlp/internal/tensor"
)

func TestCrossEntropy_KnownValue(t *testing.T) {
	got := CrossEntropy.Value(tensor.Vector{0.7, 0.3}, tensor.Vector{1, 0})
	want := -math.Log(0.7 + 1e-8)
	assert.InDelta(t, want, got, 1e-6)
}

func TestCrossEntropy_ZeroOutputIsFinite(t *testing.T) {
	got := CrossEntropy.Value(tensor.Vector{0, 1}, tensor.Vector{1, 0})
	assert.False(t, math.IsInf(float64(got), 0))
	assert.InDelta(t, -math.Log(1e-8), got, 1e-3)
}

func TestQuadratic_KnownValue(t *testing.T) {
	// ((0.5-1)² + (0.25-0)²) / 2 = (0.25 + 0.0625) / 2
	got := Quadratic.Value(tensor.Vector{0.5, 0.25}, tensor.Vector{1, 0})
	assert.InDelta(t, 0.15625, got, 1e-7)
}

func TestCost_GradientMatchesFiniteDifference(t *testing.T) {
	output := tensor.Vector{0.2, 0.5, 0.3}
	label := tensor.Vector{0, 1, 0}
	const h = 1e-3

	for _, c := range []Cost{Quadratic, CrossEntropy} {
		t.Run(c.String(), func(t *testing.T) {
			grad := c.Gradient(output, label)
			for i := range output {
				plus, minus := output.Clone(), output.Clone()
				plus[i] += h
				minus[i] -= h
				numeric := (c.Value(plus, label) - c.Value(minus, label)) / (2 * h)
				assert.InDelta(t, numeric, grad[i], 1e-2, "component %d", i)
			}
		})
	}
}

func TestCost_Mismatch(t *testing.T) {
	requireMismatch(t, func() { Quadratic.Value(tensor.Vector{1}, tensor.Vector{1, 0}) })
	requireMismatch(t, func() { CrossEntropy.Gradient(tensor.Vector{1}, tensor.Vector{1, 0}) })
}

func TestParseCost(t *testing.T) {
	tests := []struct {
		in   string
		want Cost
	}{
		{"quadratic", Quadratic},
		{"MSE", Quadratic},
		{"cross-entropy", CrossEntropy},
		{"ce", CrossEntropy},
	}
	for _, tt := range tests {
		got, err := ParseCost(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}

	_, err := ParseCost("hinge")
	assert.True(t, errors.Is(err, ErrInvalidConfig))
}

func TestCost_OutputActivation(t *testing.T) {
	assert.Equal(t, Softmax, CrossEntropy.OutputActivation())
	assert.Equal(t, Sigmoid, Quadratic.OutputActivation())
}
