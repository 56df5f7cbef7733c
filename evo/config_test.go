package evo

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/baldhumanity/neuroevo/evo/nn"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.ini")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, []int{135, 270, 27, 1}, cfg.Network.Shape)
	assert.Equal(t, 16, cfg.Evolution.PopSize)
}

func TestLoadConfig(t *testing.T) {
	path := writeConfig(t, `
[Evolution]
pop_size = 8
mutation_rate = 0.1
per_agent_mutation_rate = false
seed = 42
workers = 2

[Network]
shape = 2 4 1
hidden_function = tanh
output_function = logistic
output_crossover = hidden_or_output
frozen = hidden_function output_function

[Game]
table_size = 2
rounds = 3
schedule = anchored

[Storage]
backend = sqlite
path = runs.db
`)
	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, 8, cfg.Evolution.PopSize)
	assert.Equal(t, 0.1, cfg.Evolution.MutationRate)
	assert.False(t, cfg.Evolution.PerAgentMutationRate)
	assert.Equal(t, int64(42), cfg.Evolution.Seed)
	assert.Equal(t, 2, cfg.Evolution.Workers)
	assert.Equal(t, []int{2, 4, 1}, cfg.Network.Shape)
	assert.Equal(t, "tanh", cfg.Network.HiddenFunction)
	assert.Equal(t, []string{"hidden_function", "output_function"}, cfg.Network.Frozen)
	assert.Equal(t, 3, cfg.Game.Rounds)
	assert.Equal(t, "anchored", cfg.Game.Schedule)
	assert.Equal(t, "sqlite", cfg.Storage.Backend)
	assert.Equal(t, "runs.db", cfg.Storage.Path)

	// untouched keys keep their defaults
	assert.Equal(t, 35, cfg.Game.MaxCard)
	assert.Equal(t, 11, cfg.Game.StartChips)
}

func TestLoadConfigRejectsInvalidValues(t *testing.T) {
	tests := map[string]string{
		"pop size":         "[Evolution]\npop_size = 10\n",
		"mutation rate":    "[Evolution]\nmutation_rate = 1.5\n",
		"short shape":      "[Network]\nshape = 3\n",
		"activation":       "[Network]\nhidden_function = sigmoid\n",
		"output crossover": "[Network]\noutput_crossover = both\n",
		"frozen":           "[Network]\nfrozen = weights\n",
		"rules":            "[Game]\nremoved = 40\n",
		"table size":       "[Game]\ntable_size = 1\n",
		"schedule":         "[Game]\nschedule = swiss\n",
		"backend":          "[Storage]\nbackend = redis\n",
		"backend path":     "[Storage]\nbackend = badger\n",
	}
	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := LoadConfig(writeConfig(t, body))
			assert.ErrorIs(t, err, ErrConfiguration)
		})
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.ini"))
	assert.Error(t, err)
}

func TestPrototypeAppliesNetworkSection(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Network.Shape = []int{2, 3, 1}
	cfg.Network.HiddenFunction = "relu"
	cfg.Network.OutputFunction = "tanh"
	cfg.Network.Frozen = []string{"hidden_function", "output_function"}
	cfg.Evolution.PopSize = 4

	pop, err := NewPopulation(cfg, WithSeed(3))
	require.NoError(t, err)
	for _, a := range pop.Agents() {
		// frozen settings survive the initial full mutation
		assert.Equal(t, nn.ReLU, a.Network.HiddenActivation())
		assert.Equal(t, nn.TanH, a.Network.OutputActivation())
	}
}
