package evo

import (
	"github.com/baldhumanity/neuroevo/evo/game"
	"github.com/baldhumanity/neuroevo/evo/nn"
)

// Agent is one individual of the population: an owned network plus the
// per-round game state and the fitness accumulated this generation. In dataset
// mode Fitness holds the accumulated error instead.
type Agent struct {
	game.Player
	Network *nn.Network
}

// Seat prepares the agent to sit at a game table with its network as brain.
func (a *Agent) Seat() *game.Player {
	a.Brain = a.Network
	return &a.Player
}

// reset clears everything that belongs to a single generation.
func (a *Agent) reset() {
	a.Fitness = 0
	a.Chips = 0
}
