package evo

import (
	"fmt"
	"strings"

	"gopkg.in/ini.v1"

	"github.com/baldhumanity/neuroevo/evo/game"
	"github.com/baldhumanity/neuroevo/evo/nn"
)

// Config stores the configuration parameters of an evolution run.
type Config struct {
	Evolution EvolutionConfig
	Network   NetworkConfig
	Game      GameConfig
	Storage   StorageConfig
}

// EvolutionConfig holds the population and reproduction parameters.
type EvolutionConfig struct {
	PopSize      int     `ini:"pop_size"` // must be divisible by 4
	MutationRate float64 `ini:"mutation_rate"`
	// PerAgentMutationRate makes background mutation use each network's own
	// evolved rate instead of MutationRate.
	PerAgentMutationRate bool  `ini:"per_agent_mutation_rate"`
	Seed                 int64 `ini:"seed"`    // 0 picks a time based seed
	Workers              int   `ini:"workers"` // 0 uses GOMAXPROCS
}

// NetworkConfig describes the networks every agent starts from.
type NetworkConfig struct {
	Shape           []int    `ini:"shape" delim:" "`
	HiddenFunction  string   `ini:"hidden_function"`
	OutputFunction  string   `ini:"output_function"`
	OutputCrossover string   `ini:"output_crossover"` // output | hidden_or_output
	Frozen          []string `ini:"frozen" delim:" "` // settings excluded from mutation
}

// GameConfig holds the card game rules and the table schedule.
type GameConfig struct {
	MinCard    int    `ini:"min_card"`
	MaxCard    int    `ini:"max_card"`
	Removed    int    `ini:"removed"`
	StartChips int    `ini:"start_chips"`
	MaxPot     int    `ini:"max_pot"`
	TableSize  int    `ini:"table_size"`
	Rounds     int    `ini:"rounds"`
	Schedule   string `ini:"schedule"` // tables | anchored
}

// StorageConfig selects where run history is kept.
type StorageConfig struct {
	Backend string `ini:"backend"` // memory | sqlite | badger
	Path    string `ini:"path"`
}

// DefaultConfig returns the parameters of the card game run.
func DefaultConfig() *Config {
	rules := game.DefaultRules()
	return &Config{
		Evolution: EvolutionConfig{
			PopSize:              16,
			MutationRate:         0.01,
			PerAgentMutationRate: true,
		},
		Network: NetworkConfig{
			Shape:           []int{game.InputSize(rules, 4), 270, 27, 1},
			HiddenFunction:  nn.Identity.String(),
			OutputFunction:  nn.Identity.String(),
			OutputCrossover: nn.OutputFromOutput.String(),
		},
		Game: GameConfig{
			MinCard:    rules.MinCard,
			MaxCard:    rules.MaxCard,
			Removed:    rules.Removed,
			StartChips: rules.StartChips,
			MaxPot:     rules.MaxPot,
			TableSize:  4,
			Rounds:     1,
			Schedule:   ScheduleTables.String(),
		},
		Storage: StorageConfig{
			Backend: "memory",
		},
	}
}

// LoadConfig loads configuration parameters from an INI file. Keys missing
// from the file keep their DefaultConfig values.
func LoadConfig(filePath string) (*Config, error) {
	cfg, err := ini.LoadSources(ini.LoadOptions{
		IgnoreInlineComment:         true,
		UnescapeValueCommentSymbols: true,
	}, filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config file '%s': %w", filePath, err)
	}

	config := DefaultConfig()

	if err := cfg.Section("Evolution").MapTo(&config.Evolution); err != nil {
		return nil, fmt.Errorf("failed to map [Evolution] section: %w", err)
	}
	if err := cfg.Section("Network").MapTo(&config.Network); err != nil {
		return nil, fmt.Errorf("failed to map [Network] section: %w", err)
	}
	if err := cfg.Section("Game").MapTo(&config.Game); err != nil {
		return nil, fmt.Errorf("failed to map [Game] section: %w", err)
	}
	if err := cfg.Section("Storage").MapTo(&config.Storage); err != nil {
		return nil, fmt.Errorf("failed to map [Storage] section: %w", err)
	}

	config.Network.HiddenFunction = cleanIniString(config.Network.HiddenFunction)
	config.Network.OutputFunction = cleanIniString(config.Network.OutputFunction)
	config.Network.OutputCrossover = cleanIniString(config.Network.OutputCrossover)
	config.Game.Schedule = cleanIniString(config.Game.Schedule)
	config.Storage.Backend = cleanIniString(config.Storage.Backend)
	config.Storage.Path = cleanIniString(config.Storage.Path)
	for i, name := range config.Network.Frozen {
		config.Network.Frozen[i] = strings.TrimSpace(name)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// Validate checks every section and reports the first problem found.
func (c *Config) Validate() error {
	ev := c.Evolution
	if ev.PopSize <= 0 || ev.PopSize%4 != 0 {
		return fmt.Errorf("%w: pop_size must be a positive multiple of 4, got %d", ErrConfiguration, ev.PopSize)
	}
	if ev.MutationRate < 0 || ev.MutationRate > 1 {
		return fmt.Errorf("%w: mutation_rate must be between 0 and 1", ErrConfiguration)
	}
	if ev.Workers < 0 {
		return fmt.Errorf("%w: workers cannot be negative", ErrConfiguration)
	}

	if len(c.Network.Shape) < 2 {
		return fmt.Errorf("%w: shape needs at least 2 layers, got %d", ErrConfiguration, len(c.Network.Shape))
	}
	for i, size := range c.Network.Shape {
		if size < 1 {
			return fmt.Errorf("%w: shape layer %d has size %d", ErrConfiguration, i, size)
		}
	}
	if _, err := nn.ParseActivation(c.Network.HiddenFunction); err != nil {
		return fmt.Errorf("hidden_function: %w", err)
	}
	if _, err := nn.ParseActivation(c.Network.OutputFunction); err != nil {
		return fmt.Errorf("output_function: %w", err)
	}
	if _, err := nn.ParseOutputCrossover(c.Network.OutputCrossover); err != nil {
		return fmt.Errorf("output_crossover: %w", err)
	}
	for _, name := range c.Network.Frozen {
		if _, err := nn.ParseSettingKey(name); err != nil {
			return fmt.Errorf("frozen: %w", err)
		}
	}

	if err := c.Rules().Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrConfiguration, err)
	}
	if c.Game.TableSize < 2 {
		return fmt.Errorf("%w: table_size must be at least 2", ErrConfiguration)
	}
	if c.Game.Rounds < 1 {
		return fmt.Errorf("%w: rounds must be positive", ErrConfiguration)
	}
	if _, err := ParseSchedule(c.Game.Schedule); err != nil {
		return err
	}

	switch strings.ToLower(c.Storage.Backend) {
	case "", "memory":
	case "sqlite", "badger":
		if c.Storage.Path == "" {
			return fmt.Errorf("%w: storage backend %s needs a path", ErrConfiguration, c.Storage.Backend)
		}
	default:
		return fmt.Errorf("%w: unknown storage backend '%s'", ErrConfiguration, c.Storage.Backend)
	}
	return nil
}

// Rules converts the [Game] section into game rules.
func (c *Config) Rules() game.Rules {
	return game.Rules{
		MinCard:    c.Game.MinCard,
		MaxCard:    c.Game.MaxCard,
		Removed:    c.Game.Removed,
		StartChips: c.Game.StartChips,
		MaxPot:     c.Game.MaxPot,
	}
}

// prototype applies the [Network] section to a fresh network.
func (c *Config) prototype(n *nn.Network) error {
	hidden, err := nn.ParseActivation(c.Network.HiddenFunction)
	if err != nil {
		return err
	}
	output, err := nn.ParseActivation(c.Network.OutputFunction)
	if err != nil {
		return err
	}
	n.SetSetting(nn.HiddenFunction, float64(hidden))
	n.SetSetting(nn.OutputFunction, float64(output))
	n.SetSetting(nn.MutationRate, c.Evolution.MutationRate)
	for _, name := range c.Network.Frozen {
		key, err := nn.ParseSettingKey(name)
		if err != nil {
			return err
		}
		n.SetMutable(key, false)
	}
	return nil
}

// cleanIniString removes inline comments and trims whitespace from a string read from INI.
func cleanIniString(s string) string {
	if idx := strings.IndexAny(s, "#;"); idx != -1 {
		s = s[:idx]
	}
	return strings.TrimSpace(s)
}
