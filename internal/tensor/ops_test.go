package tensor

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

func toFloat64(v []float32) []float64 {
	out := make([]float64, len(v))
	for i, x := range v {
		out[i] = float64(x)
	}
	return out
}

// requireMismatch asserts that fn panics with an ErrDimensionMismatch error.
func requireMismatch(t *testing.T, fn func()) {
	t.Helper()
	defer func() {
		r := recover()
		require.NotNil(t, r, "expected panic")
		err, ok := r.(error)
		require.True(t, ok, "panic value should be an error, got %T", r)
		assert.True(t, errors.Is(err, ErrDimensionMismatch), "unexpected error: %v", err)
	}()
	fn()
}

func randomVector(rng *rand.Rand, n int, scale float32) Vector {
	v := make(Vector, n)
	for i := range v {
		v[i] = (rng.Float32()*2 - 1) * scale
	}
	return v
}

func TestDot(t *testing.T) {
	assert.Equal(t, float32(32), Dot(Vector{1, 2, 3}, Vector{4, 5, 6}))
	assert.Equal(t, float32(0), Dot(Vector{}, Vector{}))
	requireMismatch(t, func() { Dot(Vector{1, 2}, Vector{1}) })
}

func TestMatVec_MatchesGonum(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	rows, cols := 5, 7
	m := MatrixFromSlice(rows, cols, randomVector(rng, rows*cols, 1))
	v := randomVector(rng, cols, 1)

	got := MatVec(m, v)

	var want mat.VecDense
	want.MulVec(mat.NewDense(rows, cols, toFloat64(m.Data())), mat.NewVecDense(cols, toFloat64(v)))
	assert.True(t, floats.EqualApprox(toFloat64(got), want.RawVector().Data, 1e-5),
		"got %v, want %v", got, want.RawVector().Data)

	requireMismatch(t, func() { MatVec(m, NewVector(cols+1)) })
}

func TestTranspose(t *testing.T) {
	m := MatrixFromRows([][]float32{
		{1, 2, 3},
		{4, 5, 6},
	})
	tr := Transpose(m)

	require.Equal(t, Shape{3, 2}, tr.Shape())
	for i := 0; i < m.Rows(); i++ {
		for j := 0; j < m.Cols(); j++ {
			assert.Equal(t, m.At(i, j), tr.At(j, i))
		}
	}

	// No aliasing with the input.
	tr.Set(0, 0, 100)
	assert.Equal(t, float32(1), m.At(0, 0))
}

func TestTransposeVec_MatchesTranspose(t *testing.T) {
	rng := rand.New(rand.NewSource(2))
	m := MatrixFromSlice(4, 3, randomVector(rng, 12, 1))
	v := randomVector(rng, 4, 1)

	got := TransposeVec(m, v)
	want := MatVec(Transpose(m), v)
	assert.True(t, floats.EqualApprox(toFloat64(got), toFloat64(want), 1e-6))

	requireMismatch(t, func() { TransposeVec(m, NewVector(3)) })
}

func TestOuter(t *testing.T) {
	out := Outer(Vector{1, 2}, Vector{3, 4, 5})
	want := MatrixFromRows([][]float32{
		{3, 4, 5},
		{6, 8, 10},
	})
	assert.True(t, out.Equal(want), "got %v", out.Data())
}

func TestHadamardAddSubScale(t *testing.T) {
	x := Vector{1, 2, 3}
	y := Vector{4, 5, 6}

	assert.Equal(t, Vector{4, 10, 18}, Hadamard(x, y))
	assert.Equal(t, Vector{5, 7, 9}, Add(x, y))
	assert.Equal(t, Vector{-3, -3, -3}, Sub(x, y))
	assert.Equal(t, Vector{2, 4, 6}, Scale(x, 2))

	// Arguments are never mutated.
	assert.Equal(t, Vector{1, 2, 3}, x)
	assert.Equal(t, Vector{4, 5, 6}, y)

	requireMismatch(t, func() { Hadamard(x, Vector{1}) })
	requireMismatch(t, func() { Add(x, Vector{1}) })
	requireMismatch(t, func() { Sub(x, Vector{1}) })
}

func TestArgmax(t *testing.T) {
	tests := []struct {
		name string
		v    Vector
		want int
	}{
		{"single", Vector{3}, 0},
		{"last", Vector{0.1, 0.2, 0.9}, 2},
		{"tie picks first", Vector{0.5, 0.9, 0.9, 0.1}, 1},
		{"all equal", Vector{1, 1, 1}, 0},
		{"empty", Vector{}, -1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Argmax(tt.v))
		})
	}
}

func TestMatrixFromSlice_Mismatch(t *testing.T) {
	requireMismatch(t, func() { MatrixFromSlice(2, 2, []float32{1, 2, 3}) })
	requireMismatch(t, func() { MatrixFromRows([][]float32{{1, 2}, {3}}) })
}

func TestMatrixFromSlice_Copies(t *testing.T) {
	data := []float32{1, 2, 3, 4}
	m := MatrixFromSlice(2, 2, data)
	data[0] = 42
	assert.Equal(t, float32(1), m.At(0, 0))

	c := m.Clone()
	c.Set(1, 1, -1)
	assert.Equal(t, float32(4), m.At(1, 1))
}

func TestHasNaNHasInf(t *testing.T) {
	nan := float32(0)
	nan /= nan
	inf := float32(1)
	inf /= float32(0)

	assert.False(t, HasNaN([]float32{1, 2}))
	assert.True(t, HasNaN([]float32{1, nan}))
	assert.False(t, HasInf([]float32{1, nan}))
	assert.True(t, HasInf([]float32{-inf, 2}))
}
