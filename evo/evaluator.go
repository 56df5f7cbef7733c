package evo

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// Evaluator adds fitness to agents. Implementations may run concurrently
// internally but must produce the same fitness for the same random source,
// whatever the degree of parallelism.
type Evaluator interface {
	Name() string
	Objective() Objective
	Evaluate(ctx context.Context, rng *rand.Rand, agents []*Agent) error
}

// DatasetEvaluator scores every agent against a fixed set of input/target
// pairs. An agent's fitness grows by the summed absolute error of its outputs,
// so lower is better.
type DatasetEvaluator struct {
	Inputs  [][]float64
	Targets [][]float64
	Workers int // 0 uses GOMAXPROCS
}

func (d *DatasetEvaluator) Name() string         { return "dataset" }
func (d *DatasetEvaluator) Objective() Objective { return Minimize }

// Evaluate runs agents in parallel. Each agent only writes its own fitness.
func (d *DatasetEvaluator) Evaluate(ctx context.Context, _ *rand.Rand, agents []*Agent) error {
	if len(d.Inputs) != len(d.Targets) {
		return fmt.Errorf("%w: %d inputs but %d targets", ErrConfiguration, len(d.Inputs), len(d.Targets))
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workerLimit(d.Workers))
	for _, a := range agents {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			e, err := d.errorOf(a)
			if err != nil {
				return err
			}
			a.Fitness += e
			return nil
		})
	}
	return g.Wait()
}

func (d *DatasetEvaluator) errorOf(a *Agent) (float64, error) {
	total := 0.0
	for i, in := range d.Inputs {
		guess, err := a.Network.Guess(in)
		if err != nil {
			return 0, fmt.Errorf("sample %d: %w", i, err)
		}
		target := d.Targets[i]
		if len(target) != len(guess) {
			return 0, fmt.Errorf("%w: sample %d has %d targets for %d outputs", ErrInputShape, i, len(target), len(guess))
		}
		for j := range guess {
			total += math.Abs(target[j] - guess[j])
		}
	}
	return total, nil
}

func workerLimit(n int) int {
	if n <= 0 {
		return runtime.GOMAXPROCS(0)
	}
	return n
}
