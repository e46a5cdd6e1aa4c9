package nn

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/mlp/internal/tensor"
)

// requireMismatch asserts that fn panics with a dimension mismatch.
func requireMismatch(t *testing.T, fn func()) {
	t.Helper()
	defer func() {
		r := recover()
		require.NotNil(t, r, "expected panic")
		err, ok := r.(error)
		require.True(t, ok, "panic value should be an error, got %T: %v", r, r)
		assert.True(t, errors.Is(err, tensor.ErrDimensionMismatch), "unexpected error: %v", err)
	}()
	fn()
}

// randomExamples returns count examples with features in [-1, 1) and
// one-hot labels.
func randomExamples(rng *rand.Rand, count, inputs, classes int) []Example {
	data := make([]Example, count)
	for i := range data {
		features := make(tensor.Vector, inputs)
		for j := range features {
			features[j] = rng.Float32()*2 - 1
		}
		label := make(tensor.Vector, classes)
		label[rng.Intn(classes)] = 1
		data[i] = Example{Label: label, Features: features}
	}
	return data
}

// testNetwork builds a small seeded network.
func testNetwork(t *testing.T, cfg Config, seed int64) *Network {
	t.Helper()
	net, err := NewNetwork(cfg, rand.New(rand.NewSource(seed)))
	require.NoError(t, err)
	return net
}
