// Package ledger holds the single balance shared by every game in a session.
package ledger

import (
	"errors"
	"fmt"
	"sync"
)

var (
	// ErrInsufficientFunds is returned when a deduction exceeds the balance.
	ErrInsufficientFunds = errors.New("ledger: insufficient funds")
	// ErrInvalidAmount is returned for non-positive amounts.
	ErrInvalidAmount = errors.New("ledger: amount must be positive")
)

// DefaultStartingBalance is the balance a new session starts with.
const DefaultStartingBalance = 1000

// Account is the balance contract the games depend on.
type Account interface {
	Balance() int
	Deduct(amount int) error
	Add(amount int) int
}

// Ledger is an in-memory Account. Deduct and Add are its only mutators, and
// both are atomic with respect to each other.
type Ledger struct {
	mu      sync.Mutex
	balance int
}

var _ Account = (*Ledger)(nil)

// New creates a ledger with the given starting balance.
func New(starting int) *Ledger {
	if starting < 0 {
		starting = 0
	}
	return &Ledger{balance: starting}
}

// Balance returns the current balance
func (l *Ledger) Balance() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.balance
}

// Deduct removes amount from the balance. It fails without touching the
// balance if amount is not positive or exceeds the balance.
func (l *Ledger) Deduct(amount int) error {
	if amount <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidAmount, amount)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if amount > l.balance {
		return fmt.Errorf("%w: need %d, have %d", ErrInsufficientFunds, amount, l.balance)
	}
	l.balance -= amount
	return nil
}

// Add credits amount and returns the new balance. Non-positive amounts are
// ignored.
func (l *Ledger) Add(amount int) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	if amount > 0 {
		l.balance += amount
	}
	return l.balance
}
