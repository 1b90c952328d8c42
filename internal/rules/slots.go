package rules

import (
	"fmt"

	"github.com/lox/minicasino/internal/randutil"
)

// Symbol is a slot reel symbol
type Symbol string

const (
	Cherry  Symbol = "🍒"
	Lemon   Symbol = "🍋"
	Orange  Symbol = "🍊"
	Grapes  Symbol = "🍇"
	Bell    Symbol = "🔔"
	Star    Symbol = "⭐"
	Diamond Symbol = "💎"
)

// Reels is the number of reels on the machine.
const Reels = 3

// Line is one spin result, left to right.
type Line [Reels]Symbol

// Reel describes the symbols a reel can stop on and their probabilities.
type Reel struct {
	Symbols []Symbol
	Weights []float64
}

// DefaultReel returns the reel strip used by the machine. Cherries are the
// most common symbol; stars are the rarest.
func DefaultReel() Reel {
	return Reel{
		Symbols: []Symbol{Cherry, Lemon, Orange, Grapes, Bell, Star, Diamond},
		Weights: []float64{0.25, 0.20, 0.15, 0.12, 0.10, 0.08, 0.10},
	}
}

// Validate checks the weight table.
func (r Reel) Validate() error {
	return ValidateWeights(len(r.Symbols), r.Weights)
}

// Spin draws one symbol per reel.
func (r Reel) Spin(rng randutil.Source) (Line, error) {
	var line Line
	for i := range line {
		s, err := WeightedDraw(rng, r.Symbols, r.Weights)
		if err != nil {
			return Line{}, err
		}
		line[i] = s
	}
	return line, nil
}

// Paytable maps a symbol to the multiplier paid for three of it in a row.
type Paytable map[Symbol]int

// DefaultPaytable returns the standard payouts.
func DefaultPaytable() Paytable {
	return Paytable{
		Diamond: 100,
		Star:    50,
		Bell:    25,
		Grapes:  10,
		Orange:  5,
		Lemon:   3,
		Cherry:  2,
	}
}

// Evaluate returns the multiplier for a line. Only an exact triple listed in
// the table pays; everything else is 0.
func (p Paytable) Evaluate(line Line) int {
	first := line[0]
	for _, s := range line[1:] {
		if s != first {
			return 0
		}
	}
	return p[first]
}

// Validate rejects negative multipliers.
func (p Paytable) Validate() error {
	for s, m := range p {
		if m < 0 {
			return fmt.Errorf("%w: negative multiplier for %s", ErrPrecondition, s)
		}
	}
	return nil
}

// EvaluateLine scores a line against the default paytable.
func EvaluateLine(line Line) int {
	return DefaultPaytable().Evaluate(line)
}
