// Package round drives a single game through Betting, InProgress, Resolving
// and Finished. The Machine owns the phase, turn, stake and timers; a
// Strategy owns the board and the game rules.
package round

import (
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"

	"github.com/lox/minicasino/internal/ledger"
	"github.com/lox/minicasino/internal/randutil"
	"github.com/lox/minicasino/internal/roundid"
)

// DefaultBet is the bet a machine starts with.
const DefaultBet = 10

// Strategy is the game-specific half of a machine. Every method is called
// with the machine lock held.
type Strategy interface {
	Kind() Kind
	// Ready reports whether a round can start with the current selection.
	Ready() error
	// Begin deals or spins. An error refunds the stake.
	Begin(h Host) error
	// Act applies a player action. It must not mutate anything on error.
	Act(h Host, a Action) error
	// Clear empties the board for the next round.
	Clear()
	// View is the board as shown to the player.
	View() any
}

// Selector is implemented by strategies with a bet selection (roulette).
type Selector interface {
	Select(option string) error
	Selection() string
	ClearSelection()
}

// Host is what a strategy may do to its machine while a round is live.
type Host interface {
	Stake() int
	Rand() randutil.Source
	Logger() *log.Logger
	Turn() Turn
	SetTurn(t Turn)
	Notify(text string, sev Severity)
	// After schedules fn on the machine after d. fn runs under the machine
	// lock and a snapshot is published after it returns.
	After(d time.Duration, fn func())
	// Settle credits payout and finishes the round.
	Settle(payout int, text string, sev Severity)
}

// Machine is the generic round state machine
type Machine struct {
	mu sync.Mutex

	strategy Strategy
	account  ledger.Account
	clock    quartz.Clock
	rng      randutil.Source
	logger   *log.Logger
	bus      EventBus
	ids      *roundid.Generator

	state   State
	turn    Turn
	bet     int
	stake   int
	roundID string
	message Message
	result  *Result
	settled bool
	seq     uint64

	timers  map[uint64]*quartz.Timer
	timerID uint64
	closed  bool
}

// Option configures a Machine
type Option func(*Machine)

// WithClock sets the clock used for delayed continuations.
func WithClock(clock quartz.Clock) Option {
	return func(m *Machine) { m.clock = clock }
}

// WithRand sets the randomness source.
func WithRand(rng randutil.Source) Option {
	return func(m *Machine) { m.rng = rng }
}

// WithLogger sets the logger.
func WithLogger(logger *log.Logger) Option {
	return func(m *Machine) { m.logger = logger }
}

// WithBus sets the event bus. Machines of one session usually share a bus.
func WithBus(bus EventBus) Option {
	return func(m *Machine) { m.bus = bus }
}

// WithIDGenerator sets the round ID generator.
func WithIDGenerator(g *roundid.Generator) Option {
	return func(m *Machine) { m.ids = g }
}

// WithDefaultBet sets the initial bet.
func WithDefaultBet(bet int) Option {
	return func(m *Machine) {
		if bet > 0 {
			m.bet = bet
		}
	}
}

// NewMachine creates a machine in the Betting state.
func NewMachine(strategy Strategy, account ledger.Account, opts ...Option) *Machine {
	m := &Machine{
		strategy: strategy,
		account:  account,
		state:    Betting,
		bet:      DefaultBet,
		timers:   make(map[uint64]*quartz.Timer),
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.clock == nil {
		m.clock = quartz.NewReal()
	}
	if m.rng == nil {
		m.rng, _ = randutil.NewFromTime()
	}
	if m.logger == nil {
		m.logger = log.New(io.Discard)
	}
	if m.bus == nil {
		m.bus = NewEventBus()
	}
	if m.ids == nil {
		m.ids = roundid.NewGenerator(nil)
	}
	m.logger = m.logger.WithPrefix(string(strategy.Kind()))
	return m
}

// Kind returns the game this machine plays.
func (m *Machine) Kind() Kind {
	return m.strategy.Kind()
}

// Subscribe registers a subscriber on the machine's bus.
func (m *Machine) Subscribe(sub EventSubscriber) {
	m.bus.Subscribe(sub)
}

// Unsubscribe removes a subscriber from the machine's bus.
func (m *Machine) Unsubscribe(sub EventSubscriber) {
	m.bus.Unsubscribe(sub)
}

// Snapshot returns the current state without publishing it.
func (m *Machine) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snapshotLocked()
}

// SelectBet sets the bet for the next round.
func (m *Machine) SelectBet(amount int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.checkIdle(); err != nil {
		return m.reject(err)
	}
	if amount <= 0 {
		return m.reject(Reject(ErrInvalidBet, "Please place a bet!"))
	}
	if amount > m.account.Balance() {
		return m.reject(Reject(ErrInsufficientFunds, "Insufficient balance!"))
	}
	m.bet = amount
	m.message = Message{}
	m.publish()
	return nil
}

// Select chooses a game-specific bet option.
func (m *Machine) Select(option string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	sel, ok := m.strategy.(Selector)
	if !ok {
		return m.reject(Reject(ErrIllegalMove, "%s has no bet options", m.strategy.Kind()))
	}
	if err := m.checkIdle(); err != nil {
		return m.reject(err)
	}
	if m.state == Finished {
		m.clearLocked()
	}
	if err := sel.Select(option); err != nil {
		return m.reject(err)
	}
	m.message = Message{}
	m.publish()
	return nil
}

// Start deducts the stake and begins a round.
func (m *Machine) Start() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return m.reject(Reject(ErrIllegalMove, "This table is closed."))
	}
	switch m.state {
	case Betting:
	case Finished:
		return m.reject(Reject(ErrIllegalMove, "Reset the table first."))
	default:
		return m.reject(Reject(ErrIllegalMove, "A round is already under way."))
	}
	if m.bet <= 0 {
		return m.reject(Reject(ErrInvalidBet, "Please place a bet!"))
	}
	if err := m.strategy.Ready(); err != nil {
		return m.reject(err)
	}
	if err := m.account.Deduct(m.bet); err != nil {
		if errors.Is(err, ledger.ErrInsufficientFunds) {
			return m.reject(Reject(ErrInsufficientFunds, "Insufficient balance!"))
		}
		return m.reject(fmt.Errorf("deduct stake: %w", err))
	}

	m.stake = m.bet
	m.roundID = m.ids.Generate()
	m.state = InProgress
	m.turn = NoTurn
	m.result = nil
	m.message = Message{}

	if err := m.strategy.Begin(host{m}); err != nil {
		m.cancelTimers()
		m.account.Add(m.stake)
		m.logger.Error("Round failed to begin, stake refunded", "round", m.roundID, "error", err)
		m.strategy.Clear()
		m.state = Betting
		m.turn = NoTurn
		m.stake = 0
		m.roundID = ""
		return m.reject(fmt.Errorf("begin round: %w", err))
	}

	m.logger.Debug("Round started", "round", m.roundID, "stake", m.stake, "balance", m.account.Balance())
	m.publish()
	return nil
}

// Act applies a player action to the live round.
func (m *Machine) Act(a Action) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state != InProgress || m.turn != PlayerTurn {
		return m.reject(Reject(ErrIllegalMove, "It's not your turn."))
	}
	if err := m.strategy.Act(host{m}, a); err != nil {
		return m.reject(err)
	}
	m.publish()
	return nil
}

// Reset clears a finished board and returns to Betting.
func (m *Machine) Reset() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state == InProgress || m.state == Resolving {
		return m.reject(Reject(ErrIllegalMove, "Finish the current round first."))
	}
	m.clearLocked()
	m.message = Message{}
	m.publish()
	return nil
}

// Close stops pending continuations. The machine rejects new rounds
// afterwards.
func (m *Machine) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	m.cancelTimers()
}

func (m *Machine) checkIdle() error {
	if m.state == InProgress || m.state == Resolving {
		return Reject(ErrIllegalMove, "Wait for the round to finish.")
	}
	return nil
}

func (m *Machine) clearLocked() {
	m.cancelTimers()
	m.strategy.Clear()
	if sel, ok := m.strategy.(Selector); ok && m.state == Finished {
		sel.ClearSelection()
	}
	m.state = Betting
	m.turn = NoTurn
	m.stake = 0
	m.roundID = ""
	m.result = nil
}

func (m *Machine) reject(err error) error {
	m.message = Message{Text: reason(err), Severity: Error}
	m.logger.Debug("Action rejected", "state", m.state, "error", err)
	m.publish()
	return err
}

// publish sends the current snapshot to the bus. The result rides only on
// the first snapshot after settlement so subscribers count each round once.
func (m *Machine) publish() {
	m.seq++
	snap := m.snapshotLocked()
	if !m.settled {
		snap.Result = nil
	}
	m.settled = false
	m.bus.Publish(snap)
}

func (m *Machine) snapshotLocked() Snapshot {
	balance := m.account.Balance()
	snap := Snapshot{
		Seq:      m.seq,
		Game:     m.strategy.Kind(),
		RoundID:  m.roundID,
		State:    m.state,
		Turn:     m.turn,
		Bet:      m.bet,
		Stake:    m.stake,
		Balance:  balance,
		Pending:  len(m.timers) > 0,
		GameOver: balance == 0 && (m.state == Betting || m.state == Finished),
		Message:  m.message,
		View:     m.strategy.View(),
		At:       m.clock.Now(),
	}
	if sel, ok := m.strategy.(Selector); ok {
		snap.Selection = sel.Selection()
	}
	if m.result != nil {
		r := *m.result
		snap.Result = &r
	}
	return snap
}

func (m *Machine) cancelTimers() {
	for id, t := range m.timers {
		t.Stop()
		delete(m.timers, id)
	}
}

func (m *Machine) schedule(d time.Duration, fn func()) {
	if m.closed {
		return
	}
	m.timerID++
	id := m.timerID
	m.timers[id] = m.clock.AfterFunc(d, func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		if _, ok := m.timers[id]; !ok {
			return
		}
		delete(m.timers, id)
		fn()
		m.publish()
	})
}

func (m *Machine) settle(payout int, text string, sev Severity) {
	if m.state != InProgress {
		m.logger.Warn("Settle outside a live round", "state", m.state)
		return
	}
	// Continuations of a settled round must not touch the next one.
	m.cancelTimers()
	m.state = Resolving
	m.turn = NoTurn
	m.message = Message{Text: text, Severity: sev}
	m.publish()

	if payout < 0 {
		payout = 0
	}
	balance := m.account.Add(payout)
	m.result = &Result{
		RoundID: m.roundID,
		Game:    m.strategy.Kind(),
		Stake:   m.stake,
		Payout:  payout,
	}
	m.state = Finished
	m.settled = true
	if balance == 0 {
		m.message.Text += " Game Over!"
	}
	m.logger.Info("Round settled",
		"round", m.roundID,
		"stake", m.stake,
		"payout", payout,
		"balance", balance)
}

// host adapts a locked Machine to the Host interface.
type host struct{ m *Machine }

func (h host) Stake() int { return h.m.stake }

func (h host) Rand() randutil.Source { return h.m.rng }

func (h host) Logger() *log.Logger { return h.m.logger.With("round", h.m.roundID) }

func (h host) Turn() Turn { return h.m.turn }

func (h host) SetTurn(t Turn) { h.m.turn = t }

func (h host) Notify(text string, sev Severity) {
	h.m.message = Message{Text: text, Severity: sev}
}

func (h host) After(d time.Duration, fn func()) { h.m.schedule(d, fn) }

func (h host) Settle(payout int, text string, sev Severity) {
	h.m.settle(payout, text, sev)
}
