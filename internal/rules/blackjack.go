package rules

import (
	"fmt"

	"github.com/lox/minicasino/cards"
)

const (
	// BlackjackLimit is the highest non-busting total.
	BlackjackLimit = 21
	// DealerStand is the total at which the dealer stops drawing.
	DealerStand = 17
)

// HandValue scores a blackjack hand. Face cards count 10 and aces 11, then
// aces are demoted to 1 one at a time while the total is over 21.
func HandValue(hand []cards.Card) (int, error) {
	if len(hand) == 0 {
		return 0, fmt.Errorf("%w: empty hand", ErrPrecondition)
	}

	value, aces := 0, 0
	for _, c := range hand {
		switch {
		case c.Rank == cards.Ace:
			aces++
			value += 11
		case c.Rank.IsFace():
			value += 10
		case c.Rank >= cards.Two && c.Rank <= cards.Ten:
			value += int(c.Rank)
		default:
			return 0, fmt.Errorf("%w: invalid card %v", ErrPrecondition, c)
		}
	}

	for value > BlackjackLimit && aces > 0 {
		value -= 10
		aces--
	}
	return value, nil
}

// DealerDraws reports whether the dealer must take another card.
func DealerDraws(score int) bool {
	return score < DealerStand
}

// Outcome is the settled result of a blackjack round from the player's side.
type Outcome uint8

const (
	PlayerBust Outcome = iota
	DealerBust
	PlayerWin
	DealerWin
	Push
)

func (o Outcome) String() string {
	switch o {
	case PlayerBust:
		return "player_bust"
	case DealerBust:
		return "dealer_bust"
	case PlayerWin:
		return "player_win"
	case DealerWin:
		return "dealer_win"
	case Push:
		return "push"
	default:
		return "unknown"
	}
}

// Multiplier is the amount returned per unit staked. The stake has already
// been taken, so a win pays 2 and a push returns 1.
func (o Outcome) Multiplier() int {
	switch o {
	case DealerBust, PlayerWin:
		return 2
	case Push:
		return 1
	default:
		return 0
	}
}

// Settle compares final totals. A player bust loses even if the dealer also
// busts.
func Settle(player, dealer int) Outcome {
	switch {
	case player > BlackjackLimit:
		return PlayerBust
	case dealer > BlackjackLimit:
		return DealerBust
	case player > dealer:
		return PlayerWin
	case player < dealer:
		return DealerWin
	default:
		return Push
	}
}
