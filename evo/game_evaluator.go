package evo

import (
	"context"
	"fmt"
	"math/rand"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/baldhumanity/neuroevo/evo/game"
)

// Schedule decides which agents sit together at the card table.
type Schedule int

const (
	// ScheduleTables splits the population into disjoint random tables for
	// every round pass. Tables are independent and run concurrently.
	ScheduleTables Schedule = iota
	// ScheduleAnchored seats the last TableSize-1 agents at every table and
	// lets each other agent play one round against them. Rounds share the
	// anchors and therefore run one after another.
	ScheduleAnchored
)

func (s Schedule) String() string {
	switch s {
	case ScheduleTables:
		return "tables"
	case ScheduleAnchored:
		return "anchored"
	default:
		return fmt.Sprintf("schedule(%d)", int(s))
	}
}

// ParseSchedule resolves a configuration name.
func ParseSchedule(name string) (Schedule, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "tables":
		return ScheduleTables, nil
	case "anchored":
		return ScheduleAnchored, nil
	default:
		return 0, fmt.Errorf("%w: unknown schedule '%s'", ErrConfiguration, name)
	}
}

// GameEvaluator scores agents by playing card game rounds. Fitness is the
// chips-minus-cards balance collected over all rounds; higher is better.
type GameEvaluator struct {
	Rules     game.Rules
	TableSize int
	Rounds    int // passes over the schedule per generation
	Schedule  Schedule
	Workers   int // concurrent tables, 0 uses GOMAXPROCS
}

// NewGameEvaluator builds the evaluator described by the [Game] section.
func NewGameEvaluator(cfg *Config) (*GameEvaluator, error) {
	schedule, err := ParseSchedule(cfg.Game.Schedule)
	if err != nil {
		return nil, err
	}
	ev := &GameEvaluator{
		Rules:     cfg.Rules(),
		TableSize: cfg.Game.TableSize,
		Rounds:    cfg.Game.Rounds,
		Schedule:  schedule,
		Workers:   cfg.Evolution.Workers,
	}
	if err := ev.Rules.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfiguration, err)
	}
	return ev, nil
}

func (g *GameEvaluator) Name() string         { return "game" }
func (g *GameEvaluator) Objective() Objective { return Maximize }

// Check reports whether a population of size agents with networks taking
// inputs values can be scheduled.
func (g *GameEvaluator) Check(size, inputs int) error {
	if g.TableSize < 2 {
		return fmt.Errorf("%w: table size %d, need at least 2", ErrConfiguration, g.TableSize)
	}
	if g.Rounds < 1 {
		return fmt.Errorf("%w: rounds must be positive", ErrConfiguration)
	}
	if want := game.InputSize(g.Rules, g.TableSize); inputs != want {
		return fmt.Errorf("%w: networks take %d inputs but a table of %d needs %d", ErrConfiguration, inputs, g.TableSize, want)
	}
	switch g.Schedule {
	case ScheduleTables:
		if size%g.TableSize != 0 {
			return fmt.Errorf("%w: population of %d does not split into tables of %d", ErrConfiguration, size, g.TableSize)
		}
	case ScheduleAnchored:
		if size < g.TableSize {
			return fmt.Errorf("%w: population of %d cannot fill a table of %d", ErrConfiguration, size, g.TableSize)
		}
	default:
		return fmt.Errorf("%w: unknown schedule %v", ErrConfiguration, g.Schedule)
	}
	return nil
}

// Evaluate plays Rounds passes of the schedule.
func (g *GameEvaluator) Evaluate(ctx context.Context, rng *rand.Rand, agents []*Agent) error {
	if len(agents) == 0 {
		return nil
	}
	if err := g.Check(len(agents), agents[0].Network.Inputs()); err != nil {
		return err
	}

	players := make([]*game.Player, len(agents))
	for i, a := range agents {
		players[i] = a.Seat()
	}

	for r := 0; r < g.Rounds; r++ {
		var err error
		switch g.Schedule {
		case ScheduleAnchored:
			err = g.playAnchored(ctx, rng, players)
		default:
			err = g.playTables(ctx, rng, players)
		}
		if err != nil {
			return fmt.Errorf("round pass %d: %w", r, err)
		}
	}
	return nil
}

// playTables shuffles players into disjoint tables. Every table gets its own
// random source, seeded from rng in table order before any table starts, so
// the outcome does not depend on how the tables are scheduled.
func (g *GameEvaluator) playTables(ctx context.Context, rng *rand.Rand, players []*game.Player) error {
	perm := rng.Perm(len(players))
	tables := len(players) / g.TableSize
	seeds := make([]int64, tables)
	for t := range seeds {
		seeds[t] = rng.Int63()
	}

	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(workerLimit(g.Workers))
	for t := 0; t < tables; t++ {
		table := make([]*game.Player, g.TableSize)
		for s := range table {
			table[s] = players[perm[t*g.TableSize+s]]
		}
		seed := seeds[t]
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			round, err := game.NewRound(g.Rules, rand.New(rand.NewSource(seed)))
			if err != nil {
				return err
			}
			if _, err := round.Play(table); err != nil {
				return fmt.Errorf("table %d: %w", t, err)
			}
			return nil
		})
	}
	return eg.Wait()
}

// playAnchored seats every non-anchor player against the anchors in turn.
func (g *GameEvaluator) playAnchored(ctx context.Context, rng *rand.Rand, players []*game.Player) error {
	first := len(players) - (g.TableSize - 1)
	anchors := players[first:]
	round, err := game.NewRound(g.Rules, rng)
	if err != nil {
		return err
	}
	for i := 0; i < first; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		table := append([]*game.Player{players[i]}, anchors...)
		if _, err := round.Play(table); err != nil {
			return fmt.Errorf("challenger %d: %w", i, err)
		}
	}
	return nil
}
