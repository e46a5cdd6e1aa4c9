package nn

import "github.com/born-ml/mlp/internal/tensor"

// Trace records one forward pass.
//
// For a network with L layers:
//   - Activations has L+1 entries; Activations[0] is a copy of the input
//   - WeightedInputs has L entries; WeightedInputs[i] produced Activations[i+1]
type Trace struct {
	Activations    []tensor.Vector
	WeightedInputs []tensor.Vector
}

// Output returns the final activation.
func (t *Trace) Output() tensor.Vector {
	return t.Activations[len(t.Activations)-1]
}

// Layers returns the number of layers the trace covers.
func (t *Trace) Layers() int {
	return len(t.WeightedInputs)
}
