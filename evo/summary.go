package evo

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/baldhumanity/neuroevo/evo/nn"
)

// Objective tells the ranking which direction of fitness is better.
type Objective int

const (
	// Maximize ranks higher fitness first (game mode).
	Maximize Objective = iota
	// Minimize ranks lower fitness first (dataset error).
	Minimize
)

func (o Objective) String() string {
	switch o {
	case Maximize:
		return "max"
	case Minimize:
		return "min"
	default:
		return fmt.Sprintf("objective(%d)", int(o))
	}
}

// MarshalText implements encoding.TextMarshaler.
func (o Objective) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (o *Objective) UnmarshalText(b []byte) error {
	switch strings.ToLower(string(b)) {
	case "max", "maximize":
		*o = Maximize
	case "min", "minimize":
		*o = Minimize
	default:
		return fmt.Errorf("%w: unknown objective %q", ErrConfiguration, b)
	}
	return nil
}

// Better reports whether fitness a ranks strictly ahead of b. NaN never ranks
// ahead of anything.
func (o Objective) Better(a, b float64) bool {
	switch {
	case math.IsNaN(a):
		return false
	case math.IsNaN(b):
		return true
	case o == Minimize:
		return a < b
	default:
		return a > b
	}
}

// Summary describes one finished generation. It is captured after ranking and
// before fitness is reset, so Ranked holds the fitness that produced the new
// generation, best first.
type Summary struct {
	RunID      string        `json:"run_id"`
	Generation int           `json:"generation"`
	Evaluator  string        `json:"evaluator,omitempty"`
	Objective  Objective     `json:"objective"`
	Best       float64       `json:"best"`
	Worst      float64       `json:"worst"`
	Mean       float64       `json:"mean"`
	Median     float64       `json:"median"`
	Stdev      float64       `json:"stdev"`
	Ranked     []float64     `json:"ranked"`
	Duration   time.Duration `json:"duration"`

	// Champion is the best network of the generation as it was ranked,
	// before any reproduction touched it.
	Champion nn.Snapshot `json:"-"`
}

// Observer is notified once per generation, after the population has moved on.
type Observer interface {
	OnGeneration(Summary) error
}

// ObserverFunc adapts a function to the Observer interface.
type ObserverFunc func(Summary) error

// OnGeneration calls f(s).
func (f ObserverFunc) OnGeneration(s Summary) error {
	return f(s)
}

func newSummary(ranked []float64) Summary {
	s := Summary{
		Ranked: ranked,
		Mean:   Mean(ranked),
		Median: Median(ranked),
		Stdev:  Stdev(ranked),
	}
	if len(ranked) > 0 {
		s.Best = ranked[0]
		s.Worst = ranked[len(ranked)-1]
	}
	return s
}

// JSONFloat is a float64 that survives JSON when it is not finite: NaN and
// the infinities are written as the strings "NaN", "+Inf" and "-Inf".
type JSONFloat float64

// MarshalJSON implements json.Marshaler.
func (f JSONFloat) MarshalJSON() ([]byte, error) {
	v := float64(f)
	switch {
	case math.IsNaN(v):
		return []byte(`"NaN"`), nil
	case math.IsInf(v, 1):
		return []byte(`"+Inf"`), nil
	case math.IsInf(v, -1):
		return []byte(`"-Inf"`), nil
	}
	return json.Marshal(v)
}

// UnmarshalJSON implements json.Unmarshaler.
func (f *JSONFloat) UnmarshalJSON(b []byte) error {
	if len(b) > 0 && b[0] == '"' {
		var text string
		if err := json.Unmarshal(b, &text); err != nil {
			return err
		}
		v, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return fmt.Errorf("invalid fitness %q: %w", text, err)
		}
		*f = JSONFloat(v)
		return nil
	}
	var v float64
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	*f = JSONFloat(v)
	return nil
}

type summaryAlias Summary

type summaryJSON struct {
	summaryAlias
	Best   JSONFloat   `json:"best"`
	Worst  JSONFloat   `json:"worst"`
	Mean   JSONFloat   `json:"mean"`
	Median JSONFloat   `json:"median"`
	Stdev  JSONFloat   `json:"stdev"`
	Ranked []JSONFloat `json:"ranked"`
}

// MarshalJSON implements json.Marshaler. Fitness values may be NaN or
// infinite.
func (s Summary) MarshalJSON() ([]byte, error) {
	out := summaryJSON{
		summaryAlias: summaryAlias(s),
		Best:         JSONFloat(s.Best),
		Worst:        JSONFloat(s.Worst),
		Mean:         JSONFloat(s.Mean),
		Median:       JSONFloat(s.Median),
		Stdev:        JSONFloat(s.Stdev),
	}
	if s.Ranked != nil {
		out.Ranked = make([]JSONFloat, len(s.Ranked))
		for i, v := range s.Ranked {
			out.Ranked[i] = JSONFloat(v)
		}
	}
	return json.Marshal(out)
}

// UnmarshalJSON implements json.Unmarshaler.
func (s *Summary) UnmarshalJSON(b []byte) error {
	var in summaryJSON
	if err := json.Unmarshal(b, &in); err != nil {
		return err
	}
	*s = Summary(in.summaryAlias)
	s.Best = float64(in.Best)
	s.Worst = float64(in.Worst)
	s.Mean = float64(in.Mean)
	s.Median = float64(in.Median)
	s.Stdev = float64(in.Stdev)
	s.Ranked = nil
	if in.Ranked != nil {
		s.Ranked = make([]float64, len(in.Ranked))
		for i, v := range in.Ranked {
			s.Ranked[i] = float64(v)
		}
	}
	return nil
}
