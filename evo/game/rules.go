// Package game simulates rounds of a card-elimination game in which players
// either take the face-up card (collecting the chips on it) or pay one chip to
// pass it on. Decisions come from a Brain, normally an evolved network.
package game

import (
	"errors"
	"fmt"
)

// ErrInvalidRules is returned for rule sets that cannot produce a playable deck.
var ErrInvalidRules = errors.New("invalid game rules")

// Rules fixes the card range, the hidden cards and the chip economy.
type Rules struct {
	MinCard    int // lowest card value, inclusive
	MaxCard    int // highest card value, inclusive
	Removed    int // cards removed unseen before each round
	StartChips int // chips each player starts a round with
	MaxPot     int // pot size that normalises to 1 in the feature vector
}

// DefaultRules returns the classic 3..35 deck with nine hidden cards.
func DefaultRules() Rules {
	return Rules{
		MinCard:    3,
		MaxCard:    35,
		Removed:    9,
		StartChips: 11,
		MaxPot:     55,
	}
}

// Span is the number of distinct card values.
func (r Rules) Span() int {
	return r.MaxCard - r.MinCard + 1
}

// DeckSize is the number of cards actually played in a round.
func (r Rules) DeckSize() int {
	return r.Span() - r.Removed
}

// Validate checks that the rules describe a non-empty deck.
func (r Rules) Validate() error {
	switch {
	case r.MaxCard < r.MinCard:
		return fmt.Errorf("%w: max card %d below min card %d", ErrInvalidRules, r.MaxCard, r.MinCard)
	case r.Removed < 0 || r.Removed >= r.Span():
		return fmt.Errorf("%w: cannot remove %d of %d cards", ErrInvalidRules, r.Removed, r.Span())
	case r.StartChips < 0:
		return fmt.Errorf("%w: start chips %d is negative", ErrInvalidRules, r.StartChips)
	case r.MaxPot <= 0:
		return fmt.Errorf("%w: max pot must be positive", ErrInvalidRules)
	}
	return nil
}

// InputSize is the feature vector length a decision network needs at a table
// of the given size.
func InputSize(r Rules, players int) int {
	return 3 + players*r.Span()
}
