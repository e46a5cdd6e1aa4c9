package nn

import (
	"github.com/chewxy/math32"

	"github.com/born-ml/mlp/internal/tensor"
)

// Delta accumulates per-layer weight and bias gradients.
//
// Entries are negative gradients: adding a Delta to a network's parameters
// moves it downhill on the cost. A Delta never shares storage with a
// Network.
//
// The zero value is an empty accumulator; the first Accumulate defines its
// shape.
//
// Example:
//
//	var batch nn.Delta
//	for _, ex := range examples {
//	    batch.Accumulate(net.Backward(ex))
//	}
//	batch.Scale(1 / float32(len(examples)))
type Delta struct {
	Weights []tensor.Matrix // one per layer, shaped like the layer's weights
	Biases  []tensor.Vector // one per layer, shaped like the layer's biases
}

// Empty reports whether d has no shape yet.
func (d *Delta) Empty() bool {
	return len(d.Weights) == 0 && len(d.Biases) == 0
}

// Len returns the number of layers covered by d.
func (d *Delta) Len() int {
	return len(d.Weights)
}

// Clone returns a deep copy of d.
func (d *Delta) Clone() Delta {
	out := Delta{
		Weights: make([]tensor.Matrix, len(d.Weights)),
		Biases:  make([]tensor.Vector, len(d.Biases)),
	}
	for i, w := range d.Weights {
		out.Weights[i] = w.Clone()
	}
	for i, b := range d.Biases {
		out.Biases[i] = b.Clone()
	}
	return out
}

// Accumulate adds other into d element-wise.
//
// If d is empty it adopts a copy of other. Accumulating an empty Delta is a
// no-op. Panics with a dimension mismatch if the shapes disagree.
func (d *Delta) Accumulate(other Delta) {
	if other.Empty() {
		return
	}
	if d.Empty() {
		*d = other.Clone()
		return
	}

	d.checkShape("Delta.Accumulate", other)
	for l := range d.Weights {
		dst := d.Weights[l].Data()
		for i, x := range other.Weights[l].Data() {
			dst[i] += x
		}
		db := d.Biases[l]
		for i, x := range other.Biases[l] {
			db[i] += x
		}
	}
}

// Scale multiplies every entry of d by factor in place.
func (d *Delta) Scale(factor float32) {
	for _, w := range d.Weights {
		data := w.Data()
		for i := range data {
			data[i] *= factor
		}
	}
	for _, b := range d.Biases {
		for i := range b {
			b[i] *= factor
		}
	}
}

// IsNaN reports whether any entry of d is NaN.
func (d *Delta) IsNaN() bool {
	for _, w := range d.Weights {
		if tensor.HasNaN(w.Data()) {
			return true
		}
	}
	for _, b := range d.Biases {
		if tensor.HasNaN(b) {
			return true
		}
	}
	return false
}

// IsFinite reports whether every entry of d is neither NaN nor infinite.
func (d *Delta) IsFinite() bool {
	if d.IsNaN() {
		return false
	}
	for _, w := range d.Weights {
		if tensor.HasInf(w.Data()) {
			return false
		}
	}
	for _, b := range d.Biases {
		if tensor.HasInf(b) {
			return false
		}
	}
	return true
}

// SquaredMagnitude returns the sum of squares of every entry.
//
// The sum is accumulated in float64 so that large networks do not lose the
// contribution of small entries.
func (d *Delta) SquaredMagnitude() float64 {
	var sum float64
	for _, w := range d.Weights {
		for _, x := range w.Data() {
			sum += float64(x) * float64(x)
		}
	}
	for _, b := range d.Biases {
		for _, x := range b {
			sum += float64(x) * float64(x)
		}
	}
	return sum
}

// MaxAbs returns the largest absolute entry of d.
func (d *Delta) MaxAbs() float32 {
	var m float32
	for _, w := range d.Weights {
		for _, x := range w.Data() {
			m = math32.Max(m, math32.Abs(x))
		}
	}
	for _, b := range d.Biases {
		for _, x := range b {
			m = math32.Max(m, math32.Abs(x))
		}
	}
	return m
}

// checkShape panics if other is not shaped like d.
func (d *Delta) checkShape(op string, other Delta) {
	tensor.CheckCount(op, "weight matrices", len(other.Weights), len(d.Weights))
	tensor.CheckCount(op, "bias vectors", len(other.Biases), len(d.Biases))
	for l := range d.Weights {
		tensor.CheckShape(op, other.Weights[l], d.Weights[l].Shape())
		tensor.CheckLen(op, other.Biases[l], len(d.Biases[l]))
	}
}
