package cards

import (
	"slices"

	"github.com/lox/minicasino/internal/randutil"
)

// Deck is an ordered pile of cards. The top of the pile is the end of the
// slice, so Draw pops from the end.
type Deck[T any] struct {
	cards []T
	rng   randutil.Source // Random source for deterministic shuffling
}

// NewDeck creates a deck from the given cards (copied) without shuffling.
func NewDeck[T any](rng randutil.Source, cards []T) *Deck[T] {
	return &Deck[T]{
		cards: slices.Clone(cards),
		rng:   rng,
	}
}

// NewShuffledDeck creates a deck from the given cards and shuffles it.
func NewShuffledDeck[T any](rng randutil.Source, cards []T) *Deck[T] {
	d := NewDeck(rng, cards)
	d.Shuffle()
	return d
}

// Shuffle shuffles the deck using Fisher-Yates
func (d *Deck[T]) Shuffle() {
	randutil.Shuffle(d.rng, d.cards)
}

// Draw removes and returns the top card
func (d *Deck[T]) Draw() (T, bool) {
	var zero T
	if len(d.cards) == 0 {
		return zero, false
	}
	n := len(d.cards) - 1
	card := d.cards[n]
	d.cards[n] = zero
	d.cards = d.cards[:n]
	return card, true
}

// PushBottom places a card at the bottom of the deck.
func (d *Deck[T]) PushBottom(card T) {
	d.cards = slices.Insert(d.cards, 0, card)
}

// Len returns the number of cards left in the deck
func (d *Deck[T]) Len() int {
	return len(d.cards)
}
