// Package nn implements the fixed-topology feedforward network that the
// evolution engine breeds, together with its genetic operators.
package nn

import (
	"fmt"
	"math/rand"

	"gonum.org/v1/gonum/mat"
)

// Network is a fully connected feedforward network. weights[i] maps layer i to
// layer i+1 and has shape[i+1] rows and shape[i] columns; biases[i] has
// shape[i+1] entries.
type Network struct {
	shape    []int
	weights  []*mat.Dense
	biases   []*mat.VecDense
	settings Settings
}

// New creates a network with independent uniform weights and biases in [-1, 1]
// drawn from rng, and default settings.
func New(shape []int, rng *rand.Rand) (*Network, error) {
	if err := checkShape(shape); err != nil {
		return nil, err
	}
	if rng == nil {
		return nil, fmt.Errorf("%w: random source is required", ErrConfiguration)
	}

	n := &Network{
		shape:    append([]int(nil), shape...),
		weights:  make([]*mat.Dense, len(shape)-1),
		biases:   make([]*mat.VecDense, len(shape)-1),
		settings: DefaultSettings(),
	}
	for i := 0; i < len(shape)-1; i++ {
		// Biases first, then weights, for each transition.
		b := make([]float64, shape[i+1])
		for j := range b {
			b[j] = uniform(rng)
		}
		w := make([]float64, shape[i+1]*shape[i])
		for j := range w {
			w[j] = uniform(rng)
		}
		n.biases[i] = mat.NewVecDense(shape[i+1], b)
		n.weights[i] = mat.NewDense(shape[i+1], shape[i], w)
	}
	return n, nil
}

func checkShape(shape []int) error {
	if len(shape) < 2 {
		return fmt.Errorf("%w: network needs at least 2 layers, got %d", ErrConfiguration, len(shape))
	}
	for i, size := range shape {
		if size < 1 {
			return fmt.Errorf("%w: layer %d has size %d", ErrConfiguration, i, size)
		}
	}
	return nil
}

// uniform returns a value in [-1, 1).
func uniform(rng *rand.Rand) float64 {
	return rng.Float64()*2 - 1
}

// Shape returns a copy of the layer sizes.
func (n *Network) Shape() []int {
	return append([]int(nil), n.shape...)
}

// Inputs is the size of the first layer.
func (n *Network) Inputs() int { return n.shape[0] }

// Outputs is the size of the last layer.
func (n *Network) Outputs() int { return n.shape[len(n.shape)-1] }

// Settings returns a copy of the hyperparameter records.
func (n *Network) Settings() Settings {
	return n.settings
}

// Setting returns the current value stored under key.
func (n *Network) Setting(key SettingKey) float64 {
	return n.settings[key].Value
}

// SetSetting overwrites the value stored under key.
func (n *Network) SetSetting(key SettingKey, value float64) {
	n.settings[key].Value = value
}

// SetMutable freezes or unfreezes a setting for mutation.
func (n *Network) SetMutable(key SettingKey, mutable bool) {
	n.settings[key].Mutable = mutable
}

// MutationRate is the network's own mutation probability.
func (n *Network) MutationRate() float64 {
	return n.settings[MutationRate].Value
}

// HiddenActivation is the function applied on every transition but the last.
func (n *Network) HiddenActivation() Activation {
	return n.settings.Activation(HiddenFunction)
}

// OutputActivation is the function applied on the last transition.
func (n *Network) OutputActivation() Activation {
	return n.settings.Activation(OutputFunction)
}

// Weights returns a copy of the weight matrix of transition i, row-major.
func (n *Network) Weights(i int) [][]float64 {
	r, _ := n.weights[i].Dims()
	out := make([][]float64, r)
	for j := 0; j < r; j++ {
		out[j] = mat.Row(nil, j, n.weights[i])
	}
	return out
}

// Biases returns a copy of the bias vector of transition i.
func (n *Network) Biases(i int) []float64 {
	return mat.Col(nil, 0, n.biases[i])
}

// Guess feeds inputs forward through every layer and returns the output layer.
func (n *Network) Guess(inputs []float64) ([]float64, error) {
	if len(inputs) != n.shape[0] {
		return nil, fmt.Errorf("%w: got %d inputs, network expects %d", ErrInputShape, len(inputs), n.shape[0])
	}

	acc := n.settings[Accumulator].Value
	hidden := n.HiddenActivation()
	output := n.OutputActivation()
	last := len(n.weights) - 1

	x := mat.NewVecDense(len(inputs), append([]float64(nil), inputs...))
	for i, w := range n.weights {
		y := mat.NewVecDense(n.shape[i+1], nil)
		y.MulVec(w, x)
		y.AddVec(y, n.biases[i])

		fn := hidden
		if i == last {
			fn = output
		}
		for j := 0; j < y.Len(); j++ {
			y.SetVec(j, fn.Apply(y.AtVec(j), acc))
		}
		x = y
	}
	return mat.Col(nil, 0, x), nil
}

// Copy returns a deep clone that shares no memory with n.
func (n *Network) Copy() *Network {
	c := &Network{
		shape:    append([]int(nil), n.shape...),
		weights:  make([]*mat.Dense, len(n.weights)),
		biases:   make([]*mat.VecDense, len(n.biases)),
		settings: n.settings,
	}
	for i := range n.weights {
		c.weights[i] = mat.DenseCopyOf(n.weights[i])
		c.biases[i] = mat.VecDenseCopyOf(n.biases[i])
	}
	return c
}

// Validate checks that every matrix agrees with the shape and that the
// settings are in range. A failure means a programming defect, not bad input.
func (n *Network) Validate() error {
	if err := checkShape(n.shape); err != nil {
		return fmt.Errorf("%w: %v", ErrShapeMismatch, err)
	}
	if len(n.weights) != len(n.shape)-1 || len(n.biases) != len(n.shape)-1 {
		return fmt.Errorf("%w: %d weight and %d bias layers for shape %v", ErrShapeMismatch, len(n.weights), len(n.biases), n.shape)
	}
	for i := range n.weights {
		r, c := n.weights[i].Dims()
		if r != n.shape[i+1] || c != n.shape[i] {
			return fmt.Errorf("%w: weights[%d] is %dx%d, want %dx%d", ErrShapeMismatch, i, r, c, n.shape[i+1], n.shape[i])
		}
		if l := n.biases[i].Len(); l != n.shape[i+1] {
			return fmt.Errorf("%w: biases[%d] has %d entries, want %d", ErrShapeMismatch, i, l, n.shape[i+1])
		}
	}
	return n.settings.Validate()
}

// sameShape reports whether a and b have identical layer sizes.
func sameShape(a, b *Network) bool {
	if len(a.shape) != len(b.shape) {
		return false
	}
	for i := range a.shape {
		if a.shape[i] != b.shape[i] {
			return false
		}
	}
	return true
}
