package game

import (
	"errors"
	"fmt"
	"math/rand"
)

// ErrTooFewPlayers is returned when a round is started with fewer than two players.
var ErrTooFewPlayers = errors.New("a round needs at least two players")

// Take records one card leaving the deck.
type Take struct {
	Card   int
	Pot    int
	Player int // index into the slice passed to Play
}

// Result describes a finished round.
type Result struct {
	Order  []int     // turn order as indices into the slice passed to Play
	Takes  []Take    // in deck order
	Passes int       // chips paid into pots
	Deltas []float64 // fitness gained per player during the round
}

// Round plays one deal. It is not safe for concurrent use; give every
// concurrently running table its own Round and random source.
type Round struct {
	rules Rules
	rng   *rand.Rand
}

// NewRound validates rules and binds a random source for deck and seating.
func NewRound(r Rules, rng *rand.Rand) (*Round, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}
	if rng == nil {
		return nil, errors.New("round needs a random source")
	}
	return &Round{rules: r, rng: rng}, nil
}

// Rules returns the rules the round was built with.
func (rd *Round) Rules() Rules { return rd.rules }

// Deal resets every player's chips and cards.
func (rd *Round) Deal(players []*Player) {
	for _, p := range players {
		p.ResetRound(rd.rules)
	}
}

// Play deals and runs a full round.
func (rd *Round) Play(players []*Player) (Result, error) {
	rd.Deal(players)
	return rd.Run(players)
}

// Run plays a round with the players' current chips and cards. Players are
// seated in a random order once; the turn then moves through the seats and
// wraps. A card stays face up until someone takes it, and the taker acts
// first on the next card.
func (rd *Round) Run(players []*Player) (Result, error) {
	n := len(players)
	if n < 2 {
		return Result{}, fmt.Errorf("%w: got %d", ErrTooFewPlayers, n)
	}

	start := make([]float64, n)
	for i, p := range players {
		start[i] = p.Fitness
	}

	order := rd.rng.Perm(n)
	table := make([]*Player, n)
	for seat, idx := range order {
		table[seat] = players[idx]
	}

	res := Result{Order: order}
	deck := NewDeck(rd.rng, rd.rules)
	seat := 0
	for len(deck) > 0 {
		card := deck[0]
		deck = deck[1:]
		pot := 0
		for {
			took, err := table[seat].ShowCard(rd.rules, card, pot, len(deck), table, seat)
			if err != nil {
				return res, fmt.Errorf("card %d: %w", card, err)
			}
			if took {
				res.Takes = append(res.Takes, Take{Card: card, Pot: pot, Player: order[seat]})
				break
			}
			pot++
			res.Passes++
			seat = (seat + 1) % n
		}
	}

	res.Deltas = make([]float64, n)
	for i, p := range players {
		res.Deltas[i] = p.Fitness - start[i]
	}
	return res, nil
}
