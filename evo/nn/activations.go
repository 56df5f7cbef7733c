package nn

import (
	"fmt"
	"math"
	"strings"
)

// Activation indexes the fixed, ordered activation table. Mutation picks a new
// function by drawing an index, so the order of this table is part of the
// network's genetic encoding and must not be rearranged.
type Activation int

const (
	Identity Activation = iota
	BinaryStep
	Logistic
	CenteredLogistic
	TanH
	ArcTan
	ReLU
	LeakyReLU
	ELU
	SoftPlus

	numActivations
)

// NumActivations is the size of the activation table.
const NumActivations = int(numActivations)

// activationFunc maps a pre-activation value to an output. acc is the network's
// accumulator; every function except BinaryStep scales its output by it.
type activationFunc func(x, acc float64) float64

var activationTable = [numActivations]activationFunc{
	Identity:         identity,
	BinaryStep:       binaryStep,
	Logistic:         logistic,
	CenteredLogistic: centeredLogistic,
	TanH:             tanH,
	ArcTan:           arcTan,
	ReLU:             reLU,
	LeakyReLU:        leakyReLU,
	ELU:              eLU,
	SoftPlus:         softPlus,
}

var activationNames = [numActivations]string{
	Identity:         "identity",
	BinaryStep:       "binary_step",
	Logistic:         "logistic",
	CenteredLogistic: "centered_logistic",
	TanH:             "tanh",
	ArcTan:           "arctan",
	ReLU:             "relu",
	LeakyReLU:        "leaky_relu",
	ELU:              "elu",
	SoftPlus:         "softplus",
}

// Valid reports whether a is an index into the activation table.
func (a Activation) Valid() bool {
	return a >= 0 && a < numActivations
}

// Apply evaluates the activation for x with accumulator acc.
// Out of range indices fall back to Identity.
func (a Activation) Apply(x, acc float64) float64 {
	if !a.Valid() {
		return identity(x, acc)
	}
	return activationTable[a](x, acc)
}

func (a Activation) String() string {
	if !a.Valid() {
		return fmt.Sprintf("activation(%d)", int(a))
	}
	return activationNames[a]
}

// ParseActivation resolves a configuration name to its table index.
// Names are only used at the configuration boundary; networks store indices.
func ParseActivation(name string) (Activation, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for i, n := range activationNames {
		if n == name {
			return Activation(i), nil
		}
	}
	return 0, fmt.Errorf("%w: unknown activation function %q", ErrConfiguration, name)
}

// --- Activation function implementations ---

func identity(x, acc float64) float64 {
	return x * acc
}

// binaryStep is the only unscaled function: 0 below zero, 1 otherwise.
func binaryStep(x, _ float64) float64 {
	if x < 0 {
		return 0
	}
	return 1
}

func logistic(x, acc float64) float64 {
	return 1 / (1 + math.Exp(-x)) * acc
}

func centeredLogistic(x, acc float64) float64 {
	return (1/(1+math.Exp(-x)) - 0.5) * acc
}

func tanH(x, acc float64) float64 {
	return math.Tanh(x) * acc
}

func arcTan(x, acc float64) float64 {
	return math.Atan(x) * acc
}

func reLU(x, acc float64) float64 {
	if x < 0 {
		return 0
	}
	return x * acc
}

func leakyReLU(x, acc float64) float64 {
	if x < 0 {
		return 0.01 * x * acc
	}
	return x * acc
}

func eLU(x, acc float64) float64 {
	if x < 0 {
		return (math.Exp(x) - 1) * acc
	}
	return x * acc
}

func softPlus(x, acc float64) float64 {
	return math.Log1p(math.Exp(x)) * acc
}
