package tensor

import "github.com/chewxy/math32"

// SigmoidScalar computes σ(x) = 1 / (1 + e^-x).
func SigmoidScalar(x float32) float32 {
	return 1 / (1 + math32.Exp(-x))
}

// SigmoidDerivativeScalar computes σ'(x) = σ(x)(1 - σ(x)).
//
// Equivalent to e^x / (e^x + 1)^2 but does not overflow for large x.
func SigmoidDerivativeScalar(x float32) float32 {
	s := SigmoidScalar(x)
	return s * (1 - s)
}

// Sigmoid applies σ element-wise.
func Sigmoid(v Vector) Vector {
	out := make(Vector, len(v))
	for i, x := range v {
		out[i] = SigmoidScalar(x)
	}
	return out
}

// SigmoidDerivative applies σ' element-wise.
func SigmoidDerivative(v Vector) Vector {
	out := make(Vector, len(v))
	for i, x := range v {
		out[i] = SigmoidDerivativeScalar(x)
	}
	return out
}

// Softmax returns exp(v - max(v)) normalized to sum to 1.
//
// Subtracting the maximum keeps every exponent <= 0, so no term overflows and
// at least one term equals 1.
func Softmax(v Vector) Vector {
	if len(v) == 0 {
		return Vector{}
	}
	maxVal := v[0]
	for _, x := range v[1:] {
		if x > maxVal {
			maxVal = x
		}
	}

	out := make(Vector, len(v))
	var sum float32
	for i, x := range v {
		e := math32.Exp(x - maxVal)
		out[i] = e
		sum += e
	}
	inv := 1 / sum
	for i := range out {
		out[i] *= inv
	}
	return out
}

// SoftmaxJVP returns J(s)·v where s is a softmax output and
// J[i][j] = s[i](δij - s[j]) is the softmax Jacobian.
//
// J is symmetric, so the result is also the vector-Jacobian product used when
// propagating ∂C/∂s back to the weighted input. Computed as s ⊙ (v - ⟨s, v⟩)
// without building J.
func SoftmaxJVP(s, v Vector) Vector {
	CheckSameLen("tensor.SoftmaxJVP", s, v)
	dot := Dot(s, v)
	out := make(Vector, len(s))
	for i := range s {
		out[i] = s[i] * (v[i] - dot)
	}
	return out
}

// SoftmaxDerivative returns J(s)·s for a softmax output s.
//
// This is a Jacobian-vector product, not a per-element derivative.
func SoftmaxDerivative(s Vector) Vector {
	return SoftmaxJVP(s, s)
}
