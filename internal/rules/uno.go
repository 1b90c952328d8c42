package rules

import "github.com/lox/minicasino/cards"

// CanPlay reports whether card may go on a discard pile whose current colour
// and value are given. Wild cards always match.
func CanPlay(card cards.UnoCard, color cards.UnoColor, value string) bool {
	if card.IsWild() {
		return true
	}
	return card.Color == color || card.Value == value
}

// FirstPlayable returns the index of the first card in hand order that can
// be played, or -1.
func FirstPlayable(hand []cards.UnoCard, color cards.UnoColor, value string) int {
	for i, c := range hand {
		if CanPlay(c, color, value) {
			return i
		}
	}
	return -1
}

// Penalty returns how many cards the next actor draws when card is played.
func Penalty(card cards.UnoCard) int {
	switch card.Value {
	case cards.DrawTwo:
		return 2
	case cards.WildFour:
		return 4
	default:
		return 0
	}
}

// SkipsNext reports whether playing card costs the other actor their turn.
// With two actors a reverse hands the turn straight back, so it behaves like
// a skip.
func SkipsNext(card cards.UnoCard) bool {
	switch card.Value {
	case cards.Skip, cards.Reverse, cards.DrawTwo, cards.WildFour:
		return true
	default:
		return false
	}
}
