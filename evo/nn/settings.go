package nn

import (
	"fmt"
	"math"
	"math/rand"
)

// SettingKey names one evolvable hyperparameter of a network.
type SettingKey int

const (
	MutationRate SettingKey = iota
	Accumulator
	HiddenFunction
	OutputFunction

	numSettings
)

var settingNames = [numSettings]string{
	MutationRate:   "mutation_rate",
	Accumulator:    "accumulator",
	HiddenFunction: "hidden_function",
	OutputFunction: "output_function",
}

func (k SettingKey) String() string {
	if k < 0 || k >= numSettings {
		return fmt.Sprintf("setting(%d)", int(k))
	}
	return settingNames[k]
}

// ParseSettingKey resolves a configuration name to a SettingKey.
func ParseSettingKey(name string) (SettingKey, error) {
	for i, n := range settingNames {
		if n == name {
			return SettingKey(i), nil
		}
	}
	return 0, fmt.Errorf("%w: unknown network setting %q", ErrConfiguration, name)
}

// Setting is one hyperparameter record. Min and Max bound the range a mutation
// resamples from; Discrete values are floored after resampling.
type Setting struct {
	Value    float64 `json:"value"`
	Min      float64 `json:"min"`
	Max      float64 `json:"max"`
	Mutable  bool    `json:"mutable"`
	Discrete bool    `json:"discrete,omitempty"`
}

// resample draws a new value uniformly from [Min, Max).
func (s *Setting) resample(rng *rand.Rand) {
	v := s.Min + rng.Float64()*(s.Max-s.Min)
	if s.Discrete {
		v = math.Floor(v)
	}
	s.Value = v
}

// Settings holds every hyperparameter record, indexed by SettingKey.
type Settings [numSettings]Setting

// DefaultSettings returns the initial hyperparameters of a new network.
func DefaultSettings() Settings {
	return Settings{
		MutationRate:   {Value: 0.01, Min: 0, Max: 0.1, Mutable: true},
		Accumulator:    {Value: 1, Min: 0, Max: 10, Mutable: true, Discrete: true},
		HiddenFunction: {Value: float64(Identity), Min: 2, Max: 9, Mutable: true, Discrete: true},
		OutputFunction: {Value: float64(Identity), Min: 2, Max: 9, Mutable: true, Discrete: true},
	}
}

// Activation returns the function index stored under key.
func (s *Settings) Activation(key SettingKey) Activation {
	return Activation(int(s[key].Value))
}

// mutate resamples each mutable setting with probability rate.
func (s *Settings) mutate(rng *rand.Rand, rate float64) {
	for i := range s {
		if s[i].Mutable && rate > rng.Float64() {
			s[i].resample(rng)
		}
	}
}

// Validate checks bounds and that both function indices point into the
// activation table.
func (s *Settings) Validate() error {
	for i := range s {
		if s[i].Max < s[i].Min {
			return fmt.Errorf("%w: %s max %.3f below min %.3f", ErrConfiguration, SettingKey(i), s[i].Max, s[i].Min)
		}
	}
	if r := s[MutationRate].Value; r < 0 || r > 1 {
		return fmt.Errorf("%w: mutation rate %.3f outside [0,1]", ErrConfiguration, r)
	}
	for _, key := range []SettingKey{HiddenFunction, OutputFunction} {
		if !s.Activation(key).Valid() {
			return fmt.Errorf("%w: %s index %v outside activation table", ErrShapeMismatch, key, s[key].Value)
		}
		if s[key].Min < 0 || s[key].Max > float64(NumActivations) {
			return fmt.Errorf("%w: %s bounds [%v,%v) outside activation table", ErrConfiguration, key, s[key].Min, s[key].Max)
		}
	}
	return nil
}
