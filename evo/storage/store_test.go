package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/baldhumanity/neuroevo/evo"
	"github.com/baldhumanity/neuroevo/evo/nn"
)

func testSummary(runID string, generation int, best float64) evo.Summary {
	return evo.Summary{
		RunID:      runID,
		Generation: generation,
		Evaluator:  "dataset",
		Objective:  evo.Minimize,
		Best:       best,
		Worst:      best + 3,
		Mean:       best + 1,
		Median:     best + 1,
		Ranked:     []float64{best, best + 1, best + 3},
	}
}

func testChampion(runID string) Champion {
	settings := nn.DefaultSettings()
	settings[nn.HiddenFunction].Value = float64(nn.TanH)
	return Champion{
		RunID:      runID,
		Generation: 4,
		Fitness:    0.25,
		Objective:  evo.Minimize,
		Network: nn.Snapshot{
			Shape:    []int{2, 1},
			Weights:  [][]float64{{0.5, -1.5}},
			Biases:   [][]float64{{0.25}},
			Settings: settings,
		},
	}
}

// exerciseStore runs the behaviour every backend shares.
func exerciseStore(t *testing.T, store Store) {
	t.Helper()
	ctx := context.Background()

	// out of order and with one overwrite
	for _, s := range []evo.Summary{
		testSummary("run-b", 2, 5),
		testSummary("run-b", 1, 7),
		testSummary("run-a", 1, 9),
		testSummary("run-b", 2, 4),
	} {
		require.NoError(t, store.SaveSummary(ctx, s))
	}

	summaries, err := store.ListSummaries(ctx, "run-b")
	require.NoError(t, err)
	require.Len(t, summaries, 2)
	assert.Equal(t, 1, summaries[0].Generation)
	assert.Equal(t, 2, summaries[1].Generation)
	assert.Equal(t, 4.0, summaries[1].Best)
	assert.Equal(t, evo.Minimize, summaries[1].Objective)
	assert.Equal(t, []float64{4, 5, 7}, summaries[1].Ranked)

	none, err := store.ListSummaries(ctx, "run-z")
	require.NoError(t, err)
	assert.Empty(t, none)

	runs, err := store.ListRuns(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"run-a", "run-b"}, runs)

	_, ok, err := store.GetChampion(ctx, "run-a")
	require.NoError(t, err)
	assert.False(t, ok)

	want := testChampion("run-a")
	require.NoError(t, store.SaveChampion(ctx, want))
	got, ok, err := store.GetChampion(ctx, "run-a")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, want.Network, got.Network)
	assert.Equal(t, want.Fitness, got.Fitness)
	assert.Equal(t, CurrentVersion(), got.VersionedRecord)

	net, err := nn.FromSnapshot(got.Network)
	require.NoError(t, err)
	assert.Equal(t, nn.TanH, net.HiddenActivation())
}
