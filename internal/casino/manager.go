// Package casino ties the four games to one balance and tracks which game
// the player is looking at.
package casino

import (
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"

	"github.com/lox/minicasino/internal/games/blackjack"
	"github.com/lox/minicasino/internal/games/roulette"
	"github.com/lox/minicasino/internal/games/slots"
	"github.com/lox/minicasino/internal/games/uno"
	"github.com/lox/minicasino/internal/ledger"
	"github.com/lox/minicasino/internal/randutil"
	"github.com/lox/minicasino/internal/round"
)

// World is the navigation target when no game is open.
const World = "world"

// ErrNoAutoplay is returned for games without an autoplay mode.
var ErrNoAutoplay = errors.New("casino: game has no autoplay")

// AutoplayConfig controls one autoplay loop
type AutoplayConfig struct {
	// Delay is the pause before the first move.
	Delay time.Duration
	// Interval is the pause between moves.
	Interval time.Duration
}

// Config holds everything a session needs
type Config struct {
	StartingBalance int
	DefaultBet      int
	// Seed makes every game deterministic. Zero seeds from the clock.
	Seed int64

	Slots     slots.Config
	Blackjack blackjack.Config
	Roulette  roulette.Config
	Uno       uno.Config

	RouletteAutoplay AutoplayConfig
	UnoAutoplay      AutoplayConfig
}

// DefaultConfig returns the standard casino.
func DefaultConfig() Config {
	return Config{
		StartingBalance:  ledger.DefaultStartingBalance,
		DefaultBet:       round.DefaultBet,
		Slots:            slots.DefaultConfig(),
		Blackjack:        blackjack.DefaultConfig(),
		Roulette:         roulette.DefaultConfig(),
		Uno:              uno.DefaultConfig(),
		RouletteAutoplay: AutoplayConfig{Delay: 2 * time.Second, Interval: 3 * time.Second},
		UnoAutoplay:      AutoplayConfig{Delay: 2500 * time.Millisecond, Interval: 2500 * time.Millisecond},
	}
}

// Manager owns a session: the ledger, one machine per game and the
// navigation state.
type Manager struct {
	mu sync.Mutex

	cfg      Config
	seed     int64
	ledger   *ledger.Ledger
	bus      *round.SimpleEventBus
	clock    quartz.Clock
	logger   *log.Logger
	machines map[round.Kind]*round.Machine

	current  string
	autoplay map[round.Kind]*autoplayLoop

	// rng drives autoplay choices and is shared by every loop.
	rngMu sync.Mutex
	rng   randutil.Source
}

// Option configures a Manager
type Option func(*Manager)

// WithClock sets the clock for every game and autoplay loop.
func WithClock(clock quartz.Clock) Option {
	return func(m *Manager) { m.clock = clock }
}

// WithLogger sets the session logger.
func WithLogger(logger *log.Logger) Option {
	return func(m *Manager) { m.logger = logger }
}

// New creates a session in the world view.
func New(cfg Config, opts ...Option) (*Manager, error) {
	m := &Manager{
		cfg:      cfg,
		bus:      round.NewEventBus(),
		machines: make(map[round.Kind]*round.Machine),
		current:  World,
		autoplay: make(map[round.Kind]*autoplayLoop),
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.clock == nil {
		m.clock = quartz.NewReal()
	}
	if m.logger == nil {
		m.logger = log.New(io.Discard)
	}

	m.seed = cfg.Seed
	if m.seed == 0 {
		_, m.seed = randutil.NewFromTime()
	}
	m.rng = randutil.New(m.seed)
	m.ledger = ledger.New(cfg.StartingBalance)

	slotGame, err := slots.New(cfg.Slots)
	if err != nil {
		return nil, fmt.Errorf("slots: %w", err)
	}
	unoGame, err := uno.New(cfg.Uno)
	if err != nil {
		return nil, fmt.Errorf("uno: %w", err)
	}
	strategies := []round.Strategy{
		slotGame,
		blackjack.New(cfg.Blackjack),
		roulette.New(cfg.Roulette),
		unoGame,
	}

	for i, s := range strategies {
		m.machines[s.Kind()] = round.NewMachine(s, m.ledger,
			round.WithClock(m.clock),
			round.WithRand(randutil.New(m.seed+int64(i)+1)),
			round.WithLogger(m.logger),
			round.WithBus(m.bus),
			round.WithDefaultBet(cfg.DefaultBet),
		)
	}

	m.logger.Debug("Session created", "seed", m.seed, "balance", m.ledger.Balance())
	return m, nil
}

// Seed returns the seed the session's games were built from.
func (m *Manager) Seed() int64 {
	return m.seed
}

// Machine returns the machine for a game.
func (m *Manager) Machine(kind round.Kind) (*round.Machine, error) {
	machine, ok := m.machines[kind]
	if !ok {
		return nil, fmt.Errorf("unknown game %q", kind)
	}
	return machine, nil
}

// Machines returns every machine in lobby order.
func (m *Manager) Machines() []*round.Machine {
	out := make([]*round.Machine, 0, len(round.Kinds))
	for _, k := range round.Kinds {
		out = append(out, m.machines[k])
	}
	return out
}

// Subscribe registers a subscriber for snapshots from every game.
func (m *Manager) Subscribe(sub round.EventSubscriber) {
	m.bus.Subscribe(sub)
}

// Unsubscribe removes a subscriber.
func (m *Manager) Unsubscribe(sub round.EventSubscriber) {
	m.bus.Unsubscribe(sub)
}

// Balance returns the shared balance.
func (m *Manager) Balance() int {
	return m.ledger.Balance()
}

// Ledger returns the shared ledger.
func (m *Manager) Ledger() ledger.Account {
	return m.ledger
}

// SwitchTo opens a game. Rounds in other games keep running to completion.
func (m *Manager) SwitchTo(kind round.Kind) error {
	if _, ok := m.machines[kind]; !ok {
		return fmt.Errorf("unknown game %q", kind)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.current = string(kind)
	m.logger.Debug("Switched game", "game", kind)
	return nil
}

// ReturnToWorld closes the open game.
func (m *Manager) ReturnToWorld() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.current = World
}

// Current returns the open game, or World.
func (m *Manager) Current() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.current
}

// Active reports whether kind is the open game.
func (m *Manager) Active(kind round.Kind) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.current == string(kind)
}

// Close stops autoplay and every pending continuation.
func (m *Manager) Close() {
	m.mu.Lock()
	for kind, loop := range m.autoplay {
		loop.timer.Stop()
		delete(m.autoplay, kind)
	}
	m.mu.Unlock()

	for _, machine := range m.machines {
		machine.Close()
	}
}
