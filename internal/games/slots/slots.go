// Package slots is the three-reel slot machine.
package slots

import (
	"fmt"
	"time"

	"github.com/lox/minicasino/internal/round"
	"github.com/lox/minicasino/internal/rules"
)

// Config holds the machine's reel strip, payouts and reel stop times.
type Config struct {
	Reel     rules.Reel
	Paytable rules.Paytable
	// Stops are measured from the start of the spin, one per reel.
	Stops [rules.Reels]time.Duration
}

// DefaultConfig returns the standard machine: reels stop at 1.0s, 1.2s and
// 1.4s.
func DefaultConfig() Config {
	return Config{
		Reel:     rules.DefaultReel(),
		Paytable: rules.DefaultPaytable(),
		Stops:    [rules.Reels]time.Duration{1000 * time.Millisecond, 1200 * time.Millisecond, 1400 * time.Millisecond},
	}
}

// Validate checks the reel weights, paytable and stop order.
func (c Config) Validate() error {
	if err := c.Reel.Validate(); err != nil {
		return fmt.Errorf("reel: %w", err)
	}
	if err := c.Paytable.Validate(); err != nil {
		return fmt.Errorf("paytable: %w", err)
	}
	for i := 1; i < len(c.Stops); i++ {
		if c.Stops[i] < c.Stops[i-1] {
			return fmt.Errorf("%w: reel %d stops before reel %d", rules.ErrPrecondition, i+1, i)
		}
	}
	return nil
}

// View is the board as shown to the player. Reels that are still spinning
// are reported as empty strings.
type View struct {
	Reels    []string `json:"reels"`
	Spinning bool     `json:"spinning"`
	Payout   int      `json:"payout,omitempty"`
}

// Game is the slot machine strategy
type Game struct {
	cfg      Config
	line     rules.Line
	stopped  int
	spinning bool
	payout   int
}

var _ round.Strategy = (*Game)(nil)

// New creates a slot machine.
func New(cfg Config) (*Game, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Game{cfg: cfg}, nil
}

func (g *Game) Kind() round.Kind { return round.Slots }

func (g *Game) Ready() error { return nil }

// Begin draws the whole line up front and reveals one reel per stop.
func (g *Game) Begin(h round.Host) error {
	line, err := g.cfg.Reel.Spin(h.Rand())
	if err != nil {
		return fmt.Errorf("spin: %w", err)
	}
	g.line = line
	g.stopped = 0
	g.spinning = true
	g.payout = 0
	h.SetTurn(round.NoTurn)

	g.revealAfter(h, g.cfg.Stops[0])
	return nil
}

// revealAfter stops the next reel after d. Each reel is scheduled by the one
// before it, so reels stop in order; reels sharing a stop time stop together.
func (g *Game) revealAfter(h round.Host, d time.Duration) {
	h.After(d, func() { g.reveal(h) })
}

func (g *Game) reveal(h round.Host) {
	for {
		g.stopped++
		if g.stopped == rules.Reels {
			g.finish(h)
			return
		}
		if gap := g.cfg.Stops[g.stopped] - g.cfg.Stops[g.stopped-1]; gap > 0 {
			g.revealAfter(h, gap)
			return
		}
	}
}

func (g *Game) finish(h round.Host) {
	g.spinning = false
	mult := g.cfg.Paytable.Evaluate(g.line)
	g.payout = h.Stake() * mult
	h.Logger().Debug("Reels stopped", "line", fmt.Sprint(g.line), "multiplier", mult)
	if mult > 0 {
		h.Settle(g.payout, "🎉 YOU WIN! 🎉", round.Win)
		return
	}
	h.Settle(0, "No match. Try again!", round.Info)
}

// Act rejects everything: a spin has no player decisions.
func (g *Game) Act(round.Host, round.Action) error {
	return round.Reject(round.ErrIllegalMove, "The reels are spinning.")
}

func (g *Game) Clear() {
	g.line = rules.Line{}
	g.stopped = 0
	g.spinning = false
	g.payout = 0
}

func (g *Game) View() any {
	v := View{
		Reels:    make([]string, rules.Reels),
		Spinning: g.spinning,
		Payout:   g.payout,
	}
	for i := range g.stopped {
		v.Reels[i] = string(g.line[i])
	}
	return v
}
