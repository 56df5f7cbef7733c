package evo

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"github.com/baldhumanity/neuroevo/evo/nn"
)

// Population holds the state of the evolutionary process: a fixed number of
// agents that are evaluated, ranked and bred once per generation.
type Population struct {
	Config     *Config
	RunID      string
	Generation int

	agents    []*Agent
	rng       *rand.Rand
	crossover nn.Crossover
	objective Objective
	evaluator string
	observers []Observer
	started   time.Time
}

// Option customises a Population at construction.
type Option func(*Population)

// WithRand makes every random draw of the population come from rng.
func WithRand(rng *rand.Rand) Option {
	return func(p *Population) { p.rng = rng }
}

// WithSeed is WithRand with a fresh source seeded by seed.
func WithSeed(seed int64) Option {
	return func(p *Population) { p.rng = rand.New(rand.NewSource(seed)) }
}

// WithObserver registers o to be notified after every generation.
func WithObserver(o Observer) Option {
	return func(p *Population) { p.observers = append(p.observers, o) }
}

// WithObjective sets the ranking direction for loops that write fitness
// themselves and call AdvanceGeneration. Evaluate replaces it with the
// evaluator's objective.
func WithObjective(o Objective) Option {
	return func(p *Population) { p.objective = o }
}

// WithRunID overrides the generated run identifier.
func WithRunID(id string) Option {
	return func(p *Population) { p.RunID = id }
}

// NewPopulation validates config and creates the first generation. Every agent
// gets its own randomly initialised network, fully mutated once (rate 1).
func NewPopulation(config *Config, opts ...Option) (*Population, error) {
	p, err := newPopulation(config, opts...)
	if err != nil {
		return nil, err
	}
	p.agents = make([]*Agent, config.Evolution.PopSize)
	for i := range p.agents {
		net, err := nn.New(config.Network.Shape, p.rng)
		if err != nil {
			return nil, err
		}
		if err := config.prototype(net); err != nil {
			return nil, err
		}
		net.Mutate(p.rng, 1)
		p.agents[i] = &Agent{Network: net}
	}
	return p, nil
}

// newPopulation builds everything but the agents.
func newPopulation(config *Config, opts ...Option) (*Population, error) {
	if config == nil {
		return nil, fmt.Errorf("%w: config is required", ErrConfiguration)
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	output, err := nn.ParseOutputCrossover(config.Network.OutputCrossover)
	if err != nil {
		return nil, err
	}

	p := &Population{
		Config:    config,
		crossover: nn.Crossover{Output: output},
		objective: Maximize,
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.rng == nil {
		seed := config.Evolution.Seed
		if seed == 0 {
			seed = time.Now().UnixNano()
		}
		p.rng = rand.New(rand.NewSource(seed))
	}
	if p.RunID == "" {
		p.RunID = uuid.NewString()
	}
	return p, nil
}

// CreateEngine builds a population of size networks of the given shape with the
// default configuration otherwise. mutationRate is the population-wide rate
// used for background mutation.
func CreateEngine(shape []int, size int, mutationRate float64, opts ...Option) (*Population, error) {
	cfg := DefaultConfig()
	cfg.Evolution.PopSize = size
	cfg.Evolution.MutationRate = mutationRate
	cfg.Evolution.PerAgentMutationRate = false
	cfg.Network.Shape = append([]int(nil), shape...)
	return NewPopulation(cfg, opts...)
}

// Size is the number of agents, constant for the life of the population.
func (p *Population) Size() int { return len(p.agents) }

// Agents returns the agents in their current order. After Evolve that is the
// rank order of the last generation.
func (p *Population) Agents() []*Agent { return p.agents }

// Objective is the ranking direction of the last evaluation.
func (p *Population) Objective() Objective { return p.objective }

// SetObjective changes the ranking direction used by the next Evolve.
func (p *Population) SetObjective(o Objective) { p.objective = o }

// Rand exposes the population's random source to evaluators and drivers.
func (p *Population) Rand() *rand.Rand { return p.rng }

// Best returns the agent with the best current fitness.
func (p *Population) Best() *Agent {
	var best *Agent
	for _, a := range p.agents {
		if best == nil || p.objective.Better(a.Fitness, best.Fitness) {
			best = a
		}
	}
	return best
}

// Evaluate accumulates fitness for every agent using ev. The evaluator's
// objective decides how the next Evolve ranks.
func (p *Population) Evaluate(ctx context.Context, ev Evaluator) error {
	if p.started.IsZero() {
		p.started = time.Now()
	}
	p.objective = ev.Objective()
	p.evaluator = ev.Name()

	// A failed or cancelled pass must not leave part of its fitness behind.
	before := make([]float64, len(p.agents))
	for i, a := range p.agents {
		before[i] = a.Fitness
	}
	if err := ev.Evaluate(ctx, p.rng, p.agents); err != nil {
		for i, a := range p.agents {
			a.Fitness = before[i]
		}
		return fmt.Errorf("%s evaluation failed in generation %d: %w", ev.Name(), p.Generation+1, err)
	}
	return nil
}

// EvaluateDataset adds each agent's absolute error over inputs and targets to
// its fitness; lower is better.
func (p *Population) EvaluateDataset(ctx context.Context, inputs, targets [][]float64) error {
	return p.Evaluate(ctx, &DatasetEvaluator{
		Inputs:  inputs,
		Targets: targets,
		Workers: p.Config.Evolution.Workers,
	})
}

// RunGeneration evaluates the population with ev and evolves it.
func (p *Population) RunGeneration(ctx context.Context, ev Evaluator) (Summary, error) {
	if err := p.Evaluate(ctx, ev); err != nil {
		return Summary{}, err
	}
	return p.Evolve()
}

// AdvanceGeneration is the entrypoint for external loops that feed fitness
// themselves. It is Evolve.
func (p *Population) AdvanceGeneration() (Summary, error) {
	return p.Evolve()
}

// Evolve ranks the agents by fitness, breeds the next generation, resets
// fitness and notifies observers. The transition itself always completes;
// the returned error only carries observer failures.
func (p *Population) Evolve() (Summary, error) {
	p.rank()

	ranked := make([]float64, len(p.agents))
	for i, a := range p.agents {
		ranked[i] = a.Fitness
	}
	summary := newSummary(ranked)
	summary.RunID = p.RunID
	summary.Objective = p.objective
	summary.Evaluator = p.evaluator
	summary.Champion = p.agents[0].Network.Snapshot()

	p.reproduce(p.matingPool())

	for _, a := range p.agents {
		a.reset()
	}
	p.Generation++
	summary.Generation = p.Generation
	if !p.started.IsZero() {
		summary.Duration = time.Since(p.started)
	}
	p.started = time.Time{}

	var errs []error
	for _, o := range p.observers {
		if err := o.OnGeneration(summary); err != nil {
			errs = append(errs, err)
		}
	}
	if err := errors.Join(errs...); err != nil {
		return summary, fmt.Errorf("observers failed in generation %d: %w", p.Generation, err)
	}
	return summary, nil
}
