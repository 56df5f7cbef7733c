package nn

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// Snapshot is the plain-data form of a Network used by checkpoints and stores.
// Weights are flattened row-major per transition.
type Snapshot struct {
	Shape    []int       `json:"shape"`
	Weights  [][]float64 `json:"weights"`
	Biases   [][]float64 `json:"biases"`
	Settings Settings    `json:"settings"`
}

// Snapshot copies the network state out.
func (n *Network) Snapshot() Snapshot {
	s := Snapshot{
		Shape:    n.Shape(),
		Weights:  make([][]float64, len(n.weights)),
		Biases:   make([][]float64, len(n.biases)),
		Settings: n.settings,
	}
	for i := range n.weights {
		s.Weights[i] = append([]float64(nil), n.weights[i].RawMatrix().Data...)
		s.Biases[i] = n.Biases(i)
	}
	return s
}

// FromSnapshot rebuilds a network and validates it.
func FromSnapshot(s Snapshot) (*Network, error) {
	if err := checkShape(s.Shape); err != nil {
		return nil, err
	}
	layers := len(s.Shape) - 1
	if len(s.Weights) != layers || len(s.Biases) != layers {
		return nil, fmt.Errorf("%w: snapshot has %d weight and %d bias layers for shape %v", ErrShapeMismatch, len(s.Weights), len(s.Biases), s.Shape)
	}

	n := &Network{
		shape:    append([]int(nil), s.Shape...),
		weights:  make([]*mat.Dense, layers),
		biases:   make([]*mat.VecDense, layers),
		settings: s.Settings,
	}
	for i := 0; i < layers; i++ {
		rows, cols := s.Shape[i+1], s.Shape[i]
		if len(s.Weights[i]) != rows*cols {
			return nil, fmt.Errorf("%w: snapshot weights[%d] has %d values, want %d", ErrShapeMismatch, i, len(s.Weights[i]), rows*cols)
		}
		if len(s.Biases[i]) != rows {
			return nil, fmt.Errorf("%w: snapshot biases[%d] has %d values, want %d", ErrShapeMismatch, i, len(s.Biases[i]), rows)
		}
		n.weights[i] = mat.NewDense(rows, cols, append([]float64(nil), s.Weights[i]...))
		n.biases[i] = mat.NewVecDense(rows, append([]float64(nil), s.Biases[i]...))
	}
	if err := n.Validate(); err != nil {
		return nil, err
	}
	return n, nil
}
