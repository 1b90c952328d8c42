package round

import (
	"errors"
	"fmt"

	"github.com/lox/minicasino/internal/ledger"
	"github.com/lox/minicasino/internal/rules"
)

var (
	// ErrInsufficientFunds is the ledger's error, re-exported so callers of
	// the machine need not import the ledger.
	ErrInsufficientFunds = ledger.ErrInsufficientFunds
	// ErrInvalidBet covers non-positive bets and missing bet selections.
	ErrInvalidBet = rules.ErrInvalidBet
	// ErrIllegalMove covers out-of-turn and rule-breaking actions.
	ErrIllegalMove = errors.New("round: illegal move")
	// ErrPrecondition marks malformed inputs to the core.
	ErrPrecondition = rules.ErrPrecondition
)

// RejectError is a rejected action. Reason is the text shown to the player;
// Kind is one of the sentinel errors above for errors.Is checks.
type RejectError struct {
	Kind   error
	Reason string
}

func (e *RejectError) Error() string { return e.Reason }

func (e *RejectError) Unwrap() error { return e.Kind }

// Reject builds a RejectError.
func Reject(kind error, format string, args ...any) error {
	return &RejectError{Kind: kind, Reason: fmt.Sprintf(format, args...)}
}

// reason returns the player-facing text for err.
func reason(err error) string {
	var re *RejectError
	switch {
	case errors.As(err, &re):
		return re.Reason
	case errors.Is(err, ErrInsufficientFunds):
		return "Insufficient balance!"
	case errors.Is(err, ErrInvalidBet):
		return "Please place a bet!"
	case errors.Is(err, ErrIllegalMove):
		return "You can't do that right now."
	default:
		return "Something went wrong: " + err.Error()
	}
}
