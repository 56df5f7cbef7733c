package nn

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMutateRateZeroChangesNothing(t *testing.T) {
	n := newTestNetwork(t, 1, 3, 5, 2)
	before := n.Snapshot()
	n.Mutate(rand.New(rand.NewSource(2)), 0)
	assert.Equal(t, before, n.Snapshot())
}

func TestMutateRateOneChangesEveryEntry(t *testing.T) {
	n := newTestNetwork(t, 1, 3, 5, 2)
	before := n.Snapshot()
	n.Mutate(rand.New(rand.NewSource(2)), 1)
	after := n.Snapshot()

	for i := range before.Weights {
		for j := range before.Weights[i] {
			assert.NotEqual(t, before.Weights[i][j], after.Weights[i][j], "weight %d/%d", i, j)
			assert.InDelta(t, before.Weights[i][j], after.Weights[i][j], 1)
		}
		for j := range before.Biases[i] {
			assert.NotEqual(t, before.Biases[i][j], after.Biases[i][j], "bias %d/%d", i, j)
		}
	}
}

func TestMutateResamplesSettingsWithinBounds(t *testing.T) {
	rng := rand.New(rand.NewSource(4))
	n := newTestNetwork(t, 1, 2, 2, 1)
	for i := 0; i < 200; i++ {
		n.Mutate(rng, 1)
		s := n.Settings()

		assert.GreaterOrEqual(t, s[MutationRate].Value, 0.0)
		assert.Less(t, s[MutationRate].Value, 0.1)

		acc := s[Accumulator].Value
		assert.Equal(t, float64(int(acc)), acc)
		assert.GreaterOrEqual(t, acc, 0.0)
		assert.Less(t, acc, 10.0)

		for _, a := range []Activation{n.HiddenActivation(), n.OutputActivation()} {
			assert.GreaterOrEqual(t, int(a), 2)
			assert.Less(t, int(a), 9)
		}
		require.NoError(t, n.Validate())
	}
}

func TestMutateSkipsFrozenSettings(t *testing.T) {
	n := newTestNetwork(t, 1, 2, 2, 1)
	for _, key := range []SettingKey{MutationRate, Accumulator, HiddenFunction, OutputFunction} {
		n.SetMutable(key, false)
	}
	before := n.Settings()
	n.Mutate(rand.New(rand.NewSource(3)), 1)
	assert.Equal(t, before, n.Settings())
}

func TestMutateDefaultUsesOwnRate(t *testing.T) {
	n := newTestNetwork(t, 1, 3, 5, 2)
	n.SetSetting(MutationRate, 0)
	before := n.Snapshot()
	n.MutateDefault(rand.New(rand.NewSource(3)))
	assert.Equal(t, before, n.Snapshot())
}

func TestCrossOverWithSelfIsIdentity(t *testing.T) {
	rng := rand.New(rand.NewSource(8))
	a := newTestNetwork(t, 1, 4, 6, 3)
	a.Mutate(rng, 1)

	child, err := CrossOver(rng, a, a)
	require.NoError(t, err)
	assert.Equal(t, a.Snapshot(), child.Snapshot())
}

func TestCrossOverPicksEachEntryFromAParent(t *testing.T) {
	rng := rand.New(rand.NewSource(21))
	a := newTestNetwork(t, 1, 6, 8, 4)
	b := newTestNetwork(t, 2, 6, 8, 4)

	child, err := CrossOver(rng, a, b)
	require.NoError(t, err)
	require.NoError(t, child.Validate())

	sa, sb, sc := a.Snapshot(), b.Snapshot(), child.Snapshot()
	fromA, fromB := 0, 0
	for i := range sc.Weights {
		for j, v := range sc.Weights[i] {
			switch v {
			case sa.Weights[i][j]:
				fromA++
			case sb.Weights[i][j]:
				fromB++
			default:
				t.Fatalf("weight %d/%d came from neither parent", i, j)
			}
		}
		for j, v := range sc.Biases[i] {
			assert.True(t, v == sa.Biases[i][j] || v == sb.Biases[i][j])
		}
	}
	// Elementwise, not per matrix: both parents contribute.
	assert.Positive(t, fromA)
	assert.Positive(t, fromB)

	// Parents are untouched.
	assert.Equal(t, sa, a.Snapshot())
	assert.Equal(t, sb, b.Snapshot())
}

func TestCrossOverInheritsSettingsFromParents(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	a := newTestNetwork(t, 1, 2, 2, 1)
	b := newTestNetwork(t, 2, 2, 2, 1)
	a.SetSetting(Accumulator, 3)
	a.SetSetting(HiddenFunction, float64(TanH))
	a.SetSetting(OutputFunction, float64(ReLU))
	b.SetSetting(Accumulator, 5)
	b.SetSetting(HiddenFunction, float64(ELU))
	b.SetSetting(OutputFunction, float64(SoftPlus))

	for i := 0; i < 50; i++ {
		child, err := CrossOver(rng, a, b)
		require.NoError(t, err)
		assert.Contains(t, []float64{3, 5}, child.Setting(Accumulator))
		assert.Contains(t, []Activation{TanH, ELU}, child.HiddenActivation())
		assert.Contains(t, []Activation{ReLU, SoftPlus}, child.OutputActivation())
	}

	legacy := Crossover{Output: OutputFromHiddenOrOutput}
	for i := 0; i < 50; i++ {
		child, err := legacy.Apply(rng, a, b)
		require.NoError(t, err)
		assert.Contains(t, []Activation{TanH, SoftPlus}, child.OutputActivation())
	}
}

func TestCrossOverRejectsDifferentShapes(t *testing.T) {
	a := newTestNetwork(t, 1, 2, 3, 1)
	b := newTestNetwork(t, 1, 2, 4, 1)
	_, err := CrossOver(rand.New(rand.NewSource(1)), a, b)
	assert.ErrorIs(t, err, ErrShapeMismatch)
}

func TestParseOutputCrossover(t *testing.T) {
	o, err := ParseOutputCrossover("hidden_or_output")
	require.NoError(t, err)
	assert.Equal(t, OutputFromHiddenOrOutput, o)

	o, err = ParseOutputCrossover("")
	require.NoError(t, err)
	assert.Equal(t, OutputFromOutput, o)

	_, err = ParseOutputCrossover("both")
	assert.ErrorIs(t, err, ErrConfiguration)
}
