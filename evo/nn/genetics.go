package nn

import (
	"fmt"
	"math/rand"
	"strings"

	"gonum.org/v1/gonum/mat"
)

// Mutate perturbs every weight and bias independently with probability rate by
// adding U(-1, 1). Afterwards each mutable setting is resampled within its
// bounds, again with probability rate per setting.
func (n *Network) Mutate(rng *rand.Rand, rate float64) {
	for i := range n.weights {
		mutateVec(rng, rate, n.biases[i])
		mutateDense(rng, rate, n.weights[i])
	}
	n.settings.mutate(rng, rate)
}

// MutateDefault mutates at the network's own mutation rate.
func (n *Network) MutateDefault(rng *rand.Rand) {
	n.Mutate(rng, n.MutationRate())
}

func mutateVec(rng *rand.Rand, rate float64, v *mat.VecDense) {
	for j := 0; j < v.Len(); j++ {
		if rate > rng.Float64() {
			v.SetVec(j, v.AtVec(j)+uniform(rng))
		}
	}
}

func mutateDense(rng *rand.Rand, rate float64, m *mat.Dense) {
	r, c := m.Dims()
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			if rate > rng.Float64() {
				m.Set(i, j, m.At(i, j)+uniform(rng))
			}
		}
	}
}

// OutputCrossover selects where a child's output function is inherited from.
type OutputCrossover int

const (
	// OutputFromOutput picks the output function of either parent.
	OutputFromOutput OutputCrossover = iota
	// OutputFromHiddenOrOutput picks the first parent's hidden function or the
	// second parent's output function. This is the legacy pairing; configs
	// tuned against it can keep selecting it.
	OutputFromHiddenOrOutput
)

func (o OutputCrossover) String() string {
	switch o {
	case OutputFromOutput:
		return "output"
	case OutputFromHiddenOrOutput:
		return "hidden_or_output"
	default:
		return fmt.Sprintf("output_crossover(%d)", int(o))
	}
}

// ParseOutputCrossover resolves a configuration name.
func ParseOutputCrossover(name string) (OutputCrossover, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "output":
		return OutputFromOutput, nil
	case "hidden_or_output":
		return OutputFromHiddenOrOutput, nil
	default:
		return 0, fmt.Errorf("%w: unknown output crossover %q", ErrConfiguration, name)
	}
}

// Crossover combines two parent networks.
type Crossover struct {
	Output OutputCrossover
}

// CrossOver combines a and b with the default output strategy.
func CrossOver(rng *rand.Rand, a, b *Network) (*Network, error) {
	return Crossover{}.Apply(rng, a, b)
}

// Apply starts from a clone of a and, entry by entry, keeps a's value or takes
// b's with equal probability. Accumulator, hidden function and output function
// are each inherited from one parent with equal probability.
func (c Crossover) Apply(rng *rand.Rand, a, b *Network) (*Network, error) {
	if !sameShape(a, b) {
		return nil, fmt.Errorf("%w: cannot cross %v with %v", ErrShapeMismatch, a.shape, b.shape)
	}

	child := a.Copy()
	for i := range child.weights {
		crossVec(rng, child.biases[i], b.biases[i])
		crossDense(rng, child.weights[i], b.weights[i])
	}

	child.settings[Accumulator].Value = pick(rng, a.settings[Accumulator].Value, b.settings[Accumulator].Value)
	child.settings[HiddenFunction].Value = pick(rng, a.settings[HiddenFunction].Value, b.settings[HiddenFunction].Value)
	switch c.Output {
	case OutputFromHiddenOrOutput:
		child.settings[OutputFunction].Value = pick(rng, a.settings[HiddenFunction].Value, b.settings[OutputFunction].Value)
	default:
		child.settings[OutputFunction].Value = pick(rng, a.settings[OutputFunction].Value, b.settings[OutputFunction].Value)
	}
	return child, nil
}

// pick returns a with probability one half, b otherwise.
func pick(rng *rand.Rand, a, b float64) float64 {
	if 0.5 > rng.Float64() {
		return a
	}
	return b
}

// crossVec replaces entries of dst (a clone of the first parent) with other's.
func crossVec(rng *rand.Rand, dst, other *mat.VecDense) {
	for j := 0; j < dst.Len(); j++ {
		dst.SetVec(j, pick(rng, dst.AtVec(j), other.AtVec(j)))
	}
}

func crossDense(rng *rand.Rand, dst, other *mat.Dense) {
	r, c := dst.Dims()
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			dst.Set(i, j, pick(rng, dst.At(i, j), other.At(i, j)))
		}
	}
}
