// Package roulette is a single-zero wheel with outside bets.
package roulette

import (
	"fmt"
	"time"

	"github.com/lox/minicasino/internal/round"
	"github.com/lox/minicasino/internal/rules"
)

// historySize is how many past pockets the view keeps.
const historySize = 10

// Config holds roulette timings.
type Config struct {
	// Spin is how long the wheel turns before the ball settles.
	Spin time.Duration
}

// DefaultConfig returns a three second spin.
func DefaultConfig() Config {
	return Config{Spin: 3 * time.Second}
}

// View is the table as shown to the player. Result is empty while the wheel
// is turning.
type View struct {
	Options  []string     `json:"options"`
	Spinning bool         `json:"spinning"`
	Result   *rules.Slot  `json:"result,omitempty"`
	History  []rules.Slot `json:"history"`
}

// Game is the roulette strategy
type Game struct {
	cfg       Config
	selection rules.RouletteBet
	landed    rules.Slot
	spinning  bool
	settled   bool
	history   []rules.Slot
}

var (
	_ round.Strategy = (*Game)(nil)
	_ round.Selector = (*Game)(nil)
)

// New creates a roulette table.
func New(cfg Config) *Game {
	if cfg.Spin < 0 {
		cfg.Spin = 0
	}
	return &Game{cfg: cfg}
}

func (g *Game) Kind() round.Kind { return round.Roulette }

// Select picks the outside bet for the next spin.
func (g *Game) Select(option string) error {
	bet, err := rules.ParseRouletteBet(option)
	if err != nil {
		return &round.RejectError{Kind: err, Reason: fmt.Sprintf("Unknown bet option %q.", option)}
	}
	g.selection = bet
	return nil
}

func (g *Game) Selection() string { return string(g.selection) }

func (g *Game) ClearSelection() { g.selection = "" }

func (g *Game) Ready() error {
	if g.selection == "" {
		return round.Reject(round.ErrInvalidBet, "Please select a bet option!")
	}
	return nil
}

// Begin picks the pocket immediately and reveals it once the wheel stops.
func (g *Game) Begin(h round.Host) error {
	slot := rules.SpinWheel(h.Rand())
	g.landed = slot
	g.spinning = true
	g.settled = false
	h.SetTurn(round.NoTurn)

	h.After(g.cfg.Spin, func() {
		g.spinning = false
		g.settled = true
		g.history = append(g.history, slot)
		if len(g.history) > historySize {
			g.history = g.history[len(g.history)-historySize:]
		}

		mult := rules.EvaluateBet(g.selection, slot)
		h.Logger().Debug("Ball landed", "pocket", slot, "bet", g.selection, "multiplier", mult)
		if mult > 0 {
			h.Settle(h.Stake()*mult, fmt.Sprintf("🎉 You win! %d %s!", slot.Number, slot.Color), round.Win)
			return
		}
		h.Settle(0, fmt.Sprintf("Lose! Ball landed on %d %s", slot.Number, slot.Color), round.Error)
	})
	return nil
}

func (g *Game) Act(round.Host, round.Action) error {
	return round.Reject(round.ErrIllegalMove, "No more bets.")
}

// Clear empties the board. The selection and history survive; the machine
// drops the selection after a finished round.
func (g *Game) Clear() {
	g.landed = rules.Slot{}
	g.spinning = false
	g.settled = false
}

func (g *Game) View() any {
	v := View{
		Options:  make([]string, len(rules.RouletteBets)),
		Spinning: g.spinning,
		History:  append([]rules.Slot(nil), g.history...),
	}
	for i, b := range rules.RouletteBets {
		v.Options[i] = string(b)
	}
	if g.settled {
		slot := g.landed
		v.Result = &slot
	}
	return v
}
