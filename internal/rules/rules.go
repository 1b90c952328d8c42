// Package rules holds the pure outcome and payout arithmetic of the games:
// weighted symbol draws, the slot paytable, blackjack scoring, the roulette
// wheel and Uno card matching.
//
// Nothing here keeps state between calls. Randomness comes from the
// randutil.Source passed in, so a seeded source makes every function
// reproducible.
package rules

import (
	"errors"
	"fmt"

	"github.com/lox/minicasino/internal/randutil"
)

// ErrPrecondition marks malformed inputs to the core (an empty weight table,
// an empty hand). It signals a programming error, not a player mistake.
var ErrPrecondition = errors.New("rules: precondition violated")

// ErrInvalidBet is returned when a bet selection cannot be understood.
var ErrInvalidBet = errors.New("rules: invalid bet")

// weightTolerance absorbs float rounding when checking that weights sum to 1.
const weightTolerance = 1e-6

// WeightedDraw picks one symbol with the probability given by its weight.
// Weights must be non-negative and sum to 1. The first cumulative bucket that
// reaches the draw wins; if rounding leaves the draw beyond the last bucket
// the first symbol is returned.
func WeightedDraw[T any](rng randutil.Source, symbols []T, weights []float64) (T, error) {
	var zero T
	if err := ValidateWeights(len(symbols), weights); err != nil {
		return zero, err
	}

	r := rng.Float64()
	sum := 0.0
	for i, w := range weights {
		sum += w
		if r <= sum {
			return symbols[i], nil
		}
	}
	return symbols[0], nil
}

// ValidateWeights checks a weight table against its symbol count.
func ValidateWeights(symbols int, weights []float64) error {
	if symbols == 0 || len(weights) == 0 {
		return fmt.Errorf("%w: empty weight table", ErrPrecondition)
	}
	if symbols != len(weights) {
		return fmt.Errorf("%w: %d symbols but %d weights", ErrPrecondition, symbols, len(weights))
	}
	total := 0.0
	for i, w := range weights {
		if w < 0 {
			return fmt.Errorf("%w: negative weight at %d", ErrPrecondition, i)
		}
		total += w
	}
	if total < 1-weightTolerance || total > 1+weightTolerance {
		return fmt.Errorf("%w: weights sum to %.6f, want 1", ErrPrecondition, total)
	}
	return nil
}
