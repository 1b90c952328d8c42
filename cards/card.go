// Package cards models the physical cards used by the table games: the
// standard 52-card deck for blackjack and the 108-card Uno deck, plus a
// generic draw pile shared by both.
package cards

import "fmt"

// Suit represents a card suit
type Suit uint8

const (
	Spades Suit = iota
	Hearts
	Diamonds
	Clubs
)

// Suits lists the suits in deck construction order.
var Suits = []Suit{Spades, Hearts, Diamonds, Clubs}

// String returns the suit symbol
func (s Suit) String() string {
	switch s {
	case Spades:
		return "♠"
	case Hearts:
		return "♥"
	case Diamonds:
		return "♦"
	case Clubs:
		return "♣"
	default:
		return "?"
	}
}

// IsRed returns true for hearts and diamonds
func (s Suit) IsRed() bool {
	return s == Hearts || s == Diamonds
}

// Rank represents a card rank. Ace is low in the ordering; blackjack scoring
// decides its value.
type Rank uint8

const (
	Ace Rank = iota + 1
	Two
	Three
	Four
	Five
	Six
	Seven
	Eight
	Nine
	Ten
	Jack
	Queen
	King
)

// String returns the rank as printed on the card
func (r Rank) String() string {
	switch r {
	case Ace:
		return "A"
	case Jack:
		return "J"
	case Queen:
		return "Q"
	case King:
		return "K"
	default:
		if r >= Two && r <= Ten {
			return fmt.Sprintf("%d", int(r))
		}
		return "?"
	}
}

// IsFace returns true for jack, queen and king
func (r Rank) IsFace() bool {
	return r >= Jack && r <= King
}

// Card is a standard playing card
type Card struct {
	Rank Rank
	Suit Suit
}

// NewCard creates a new card
func NewCard(rank Rank, suit Suit) Card {
	return Card{Rank: rank, Suit: suit}
}

// String returns the string representation of a card (e.g., "10♥")
func (c Card) String() string {
	return c.Rank.String() + c.Suit.String()
}

// Color returns "red" or "black"
func (c Card) Color() string {
	if c.Suit.IsRed() {
		return "red"
	}
	return "black"
}

// StandardDeck returns the 52 cards in suit-major order, unshuffled.
func StandardDeck() []Card {
	out := make([]Card, 0, 52)
	for _, suit := range Suits {
		for rank := Ace; rank <= King; rank++ {
			out = append(out, NewCard(rank, suit))
		}
	}
	return out
}

// ParseCard parses notation like "A♠", "10h" or "Kd". Suits may be given as
// symbols or as the letters s, h, d, c.
func ParseCard(s string) (Card, error) {
	runes := []rune(s)
	if len(runes) < 2 || len(runes) > 3 {
		return Card{}, fmt.Errorf("invalid card %q", s)
	}

	var suit Suit
	switch runes[len(runes)-1] {
	case '♠', 's', 'S':
		suit = Spades
	case '♥', 'h', 'H':
		suit = Hearts
	case '♦', 'd', 'D':
		suit = Diamonds
	case '♣', 'c', 'C':
		suit = Clubs
	default:
		return Card{}, fmt.Errorf("invalid suit in %q", s)
	}

	var rank Rank
	switch r := string(runes[:len(runes)-1]); r {
	case "A", "a":
		rank = Ace
	case "J", "j":
		rank = Jack
	case "Q", "q":
		rank = Queen
	case "K", "k":
		rank = King
	case "T", "t", "10":
		rank = Ten
	default:
		if len(r) != 1 || r[0] < '2' || r[0] > '9' {
			return Card{}, fmt.Errorf("invalid rank in %q", s)
		}
		rank = Rank(r[0] - '0')
	}
	return NewCard(rank, suit), nil
}

// MustParseCards parses a space separated list of cards and panics on error.
// Intended for tests.
func MustParseCards(list ...string) []Card {
	out := make([]Card, 0, len(list))
	for _, s := range list {
		c, err := ParseCard(s)
		if err != nil {
			panic(err)
		}
		out = append(out, c)
	}
	return out
}
