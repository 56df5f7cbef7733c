package game

import (
	"math/bits"
	"math/rand"
)

// CardSet is a bitmap over the card range of a Rules value.
// The zero value is an empty set with no range; use NewCardSet or Reset.
type CardSet struct {
	min   int
	span  int
	words []uint64
}

// NewCardSet returns an empty set covering the rules' card range.
func NewCardSet(r Rules) CardSet {
	var cs CardSet
	cs.Reset(r)
	return cs
}

// Reset empties the set and sizes it for r.
func (cs *CardSet) Reset(r Rules) {
	n := (r.Span() + 63) / 64
	if cap(cs.words) >= n {
		cs.words = cs.words[:n]
		clear(cs.words)
	} else {
		cs.words = make([]uint64, n)
	}
	cs.min = r.MinCard
	cs.span = r.Span()
}

// Add marks card as owned. Cards outside the range are ignored.
func (cs *CardSet) Add(card int) {
	i := card - cs.min
	if i < 0 || i >= cs.span {
		return
	}
	cs.words[i/64] |= 1 << (i % 64)
}

// Has reports whether card is owned.
func (cs CardSet) Has(card int) bool {
	i := card - cs.min
	if i < 0 || i >= cs.span {
		return false
	}
	return cs.words[i/64]&(1<<(i%64)) != 0
}

// Count returns the number of owned cards.
func (cs CardSet) Count() int {
	n := 0
	for _, w := range cs.words {
		n += bits.OnesCount64(w)
	}
	return n
}

// Values returns the owned cards in ascending order.
func (cs CardSet) Values() []int {
	out := make([]int, 0, cs.Count())
	for i := 0; i < cs.span; i++ {
		if cs.words[i/64]&(1<<(i%64)) != 0 {
			out = append(out, cs.min+i)
		}
	}
	return out
}

// AppendBits appends one 0/1 value per card in the range to dst.
func (cs CardSet) AppendBits(dst []float64) []float64 {
	for i := 0; i < cs.span; i++ {
		if cs.words[i/64]&(1<<(i%64)) != 0 {
			dst = append(dst, 1)
		} else {
			dst = append(dst, 0)
		}
	}
	return dst
}

// RunPoints sums the lowest card of every run of consecutive cards, which is
// what a hand costs under the table scoring rules.
func (cs CardSet) RunPoints() int {
	points := 0
	prev := false
	for i := 0; i < cs.span; i++ {
		owned := cs.words[i/64]&(1<<(i%64)) != 0
		if owned && !prev {
			points += cs.min + i
		}
		prev = owned
	}
	return points
}

// NewDeck returns the round's draw pile: every card of the range with
// r.Removed cards taken out at random, then shuffled.
func NewDeck(rng *rand.Rand, r Rules) []int {
	deck := make([]int, r.Span())
	for i := range deck {
		deck[i] = r.MinCard + i
	}
	for i := 0; i < r.Removed; i++ {
		j := rng.Intn(len(deck))
		deck = append(deck[:j], deck[j+1:]...)
	}
	rng.Shuffle(len(deck), func(i, j int) { deck[i], deck[j] = deck[j], deck[i] })
	return deck
}
