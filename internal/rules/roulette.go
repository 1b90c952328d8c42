package rules

import (
	"fmt"

	"github.com/lox/minicasino/internal/randutil"
)

// PocketColor is the colour of a roulette pocket
type PocketColor string

const (
	PocketRed   PocketColor = "red"
	PocketBlack PocketColor = "black"
	PocketGreen PocketColor = "green"
)

// Slot is one pocket of the wheel.
type Slot struct {
	Number int         `json:"num"`
	Color  PocketColor `json:"color"`
}

func (s Slot) String() string {
	return fmt.Sprintf("%d %s", s.Number, s.Color)
}

// Wheel lists the 37 pockets of a single-zero wheel in physical order.
var Wheel = [37]Slot{
	{0, PocketGreen},
	{32, PocketRed}, {15, PocketBlack}, {19, PocketRed}, {4, PocketBlack},
	{21, PocketRed}, {2, PocketBlack}, {25, PocketRed}, {17, PocketBlack},
	{34, PocketRed}, {6, PocketBlack}, {27, PocketRed}, {13, PocketBlack},
	{36, PocketRed}, {11, PocketBlack}, {30, PocketRed}, {8, PocketBlack},
	{23, PocketRed}, {10, PocketBlack}, {5, PocketRed}, {24, PocketBlack},
	{16, PocketRed}, {33, PocketBlack}, {1, PocketRed}, {20, PocketBlack},
	{14, PocketRed}, {31, PocketBlack}, {9, PocketRed}, {22, PocketBlack},
	{18, PocketRed}, {29, PocketBlack}, {7, PocketRed}, {28, PocketBlack},
	{12, PocketRed}, {35, PocketBlack}, {3, PocketRed}, {26, PocketBlack},
}

// SpinWheel lands the ball on a uniformly chosen pocket.
func SpinWheel(rng randutil.Source) Slot {
	return Wheel[rng.IntN(len(Wheel))]
}

// SlotFor returns the pocket carrying number n.
func SlotFor(n int) (Slot, bool) {
	for _, s := range Wheel {
		if s.Number == n {
			return s, true
		}
	}
	return Slot{}, false
}

// RouletteBet is an outside bet category.
type RouletteBet string

const (
	BetRed   RouletteBet = "red"
	BetBlack RouletteBet = "black"
	BetZero  RouletteBet = "0"
	BetLow   RouletteBet = "1-18"
	BetHigh  RouletteBet = "19-36"
)

// RouletteBets lists every category in table order.
var RouletteBets = []RouletteBet{BetRed, BetBlack, BetZero, BetLow, BetHigh}

// ParseRouletteBet validates a category name.
func ParseRouletteBet(s string) (RouletteBet, error) {
	for _, b := range RouletteBets {
		if string(b) == s {
			return b, nil
		}
	}
	return "", fmt.Errorf("%w: unknown roulette bet %q", ErrInvalidBet, s)
}

// EvaluateBet returns the multiplier paid for bet when the ball lands on
// slot: colours and halves pay 2, zero pays 36, a miss pays 0.
func EvaluateBet(bet RouletteBet, slot Slot) int {
	switch bet {
	case BetRed:
		if slot.Color == PocketRed {
			return 2
		}
	case BetBlack:
		if slot.Color == PocketBlack {
			return 2
		}
	case BetZero:
		if slot.Number == 0 {
			return 36
		}
	case BetLow:
		if slot.Number >= 1 && slot.Number <= 18 {
			return 2
		}
	case BetHigh:
		if slot.Number >= 19 && slot.Number <= 36 {
			return 2
		}
	}
	return 0
}
