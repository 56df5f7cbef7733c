package nn

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestActivationTable(t *testing.T) {
	tests := []struct {
		fn   Activation
		x    float64
		acc  float64
		want float64
	}{
		{Identity, -2, 3, -6},
		{BinaryStep, -0.1, 5, 0},
		{BinaryStep, 0, 5, 1},
		{BinaryStep, 3, 5, 1},
		{Logistic, 0, 2, 1},
		{CenteredLogistic, 0, 2, 0},
		{TanH, 0.5, 2, 2 * math.Tanh(0.5)},
		{ArcTan, 1, 4, math.Pi},
		{ReLU, -1, 3, 0},
		{ReLU, 2, 3, 6},
		{LeakyReLU, -2, 1, -0.02},
		{LeakyReLU, 2, 1, 2},
		{ELU, 0, 1, 0},
		{ELU, -1, 1, math.Exp(-1) - 1},
		{SoftPlus, 0, 1, math.Ln2},
	}
	for _, tt := range tests {
		assert.InDelta(t, tt.want, tt.fn.Apply(tt.x, tt.acc), 1e-12, "%s(%v) acc=%v", tt.fn, tt.x, tt.acc)
	}
}

func TestActivationNamesRoundTrip(t *testing.T) {
	for i := 0; i < NumActivations; i++ {
		a := Activation(i)
		require.True(t, a.Valid())
		parsed, err := ParseActivation(a.String())
		require.NoError(t, err)
		assert.Equal(t, a, parsed)
	}
	_, err := ParseActivation("sigmoid")
	assert.ErrorIs(t, err, ErrConfiguration)
	assert.False(t, Activation(NumActivations).Valid())
}
