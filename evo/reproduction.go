package evo

import (
	"sort"

	"github.com/baldhumanity/neuroevo/evo/nn"
)

// rank orders the agents best first. Ties keep their previous order.
func (p *Population) rank() {
	sort.SliceStable(p.agents, func(i, j int) bool {
		return p.objective.Better(p.agents[i].Fitness, p.agents[j].Fitness)
	})
}

// matingPool returns the ranked networks with rank i repeated N-i times. The
// pool is fully built before any agent is replaced, so later writes to the
// population never change what it holds.
func (p *Population) matingPool() []*nn.Network {
	n := len(p.agents)
	pool := make([]*nn.Network, 0, n*(n+1)/2)
	for i, a := range p.agents {
		for j := 0; j < n-i; j++ {
			pool = append(pool, a.Network)
		}
	}
	return pool
}

// reproduce replaces the middle half of the ranked agents with children drawn
// from pool, fully mutates the bottom quarter and applies background mutation
// to everything except the best agent.
func (p *Population) reproduce(pool []*nn.Network) {
	n := len(p.agents)
	keep := n / 4
	discard := n - keep

	for i := keep; i < discard; i++ {
		a := pool[p.rng.Intn(len(pool))]
		b := pool[p.rng.Intn(len(pool))]
		child, err := p.crossover.Apply(p.rng, a, b)
		if err != nil {
			// Every network is built from the same shape.
			panic(err)
		}
		p.agents[i].Network = child
	}

	for i := discard; i < n; i++ {
		p.agents[i].Network.Mutate(p.rng, 1)
	}

	for i := 1; i < discard; i++ {
		net := p.agents[i].Network
		if p.Config.Evolution.PerAgentMutationRate {
			net.MutateDefault(p.rng)
		} else {
			net.Mutate(p.rng, p.Config.Evolution.MutationRate)
		}
	}
}
