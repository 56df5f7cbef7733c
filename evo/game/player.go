package game

import "fmt"

// Brain turns a feature vector into a decision vector. Only the first output
// is read: a value above zero means take.
type Brain interface {
	Guess(inputs []float64) ([]float64, error)
}

// Player is one seat at a table. Chips and Cards are reset every round;
// Fitness accumulates across rounds until the owner clears it.
type Player struct {
	Brain   Brain
	Chips   int
	Cards   CardSet
	Fitness float64
}

// ResetRound restores the per-round state.
func (p *Player) ResetRound(r Rules) {
	p.Chips = r.StartChips
	p.Cards.Reset(r)
}

// Score is the table score of the current hand, lower is better.
func (p *Player) Score() int {
	return p.Cards.RunPoints() - p.Chips
}

// ShowCard presents card to the player sitting at seat of table and applies
// the decision. pot is the number of chips on the card and left the number of
// cards still in the deck. A player without chips must take.
//
// Take: the player collects the pot, owns the card and gains pot-card fitness.
// Pass: the player pays one chip and loses one fitness; the caller moves the
// chip to the pot and advances the turn.
func (p *Player) ShowCard(r Rules, card, pot, left int, table []*Player, seat int) (bool, error) {
	take := p.Chips == 0
	if !take {
		if p.Brain == nil {
			return false, fmt.Errorf("player at seat %d has no brain", seat)
		}
		out, err := p.Brain.Guess(Features(r, card, pot, left, table, seat))
		if err != nil {
			return false, err
		}
		if len(out) == 0 {
			return false, fmt.Errorf("player at seat %d produced no output", seat)
		}
		take = out[0] > 0
	}

	if take {
		p.Chips += pot
		p.Cards.Add(card)
		p.Fitness += float64(pot - card)
		return true, nil
	}
	p.Chips--
	p.Fitness--
	return false, nil
}

// Features builds the observation for the player at seat: normalised card,
// pot and cards-left values followed by the ownership bitmap of every player.
// The acting player's bitmap comes first and the others follow in turn order,
// so the vector is relative to the viewer. table is only read.
func Features(r Rules, card, pot, left int, table []*Player, seat int) []float64 {
	n := len(table)
	out := make([]float64, 0, InputSize(r, n))
	out = append(out,
		normalize(card, r.MinCard, r.MaxCard),
		normalize(pot, 0, r.MaxPot),
		normalize(left, 0, r.Span()),
	)
	for k := 0; k < n; k++ {
		out = table[(seat+k)%n].Cards.AppendBits(out)
	}
	return out
}

// normalize maps v from [lo, hi] onto [0, 1] without clamping.
func normalize(v, lo, hi int) float64 {
	if hi == lo {
		return 0
	}
	return float64(v-lo) / float64(hi-lo)
}
