package tui

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/lox/minicasino/internal/casino"
	"github.com/lox/minicasino/internal/round"
)

// maxQueued bounds the snapshots held between redraws. Older snapshots are
// dropped first; the board is always redrawn from the live machine.
const maxQueued = 256

const helpText = `Commands:
  slots | blackjack | roulette | uno   open a game
  world                                back to the lobby
  bet N                                set the bet
  pick OPTION                          roulette: red, black, 0, 1-18, 19-36
  start (or Enter)                     spin / deal
  hit | stand                          blackjack
  play N | draw | color C              uno
  auto [off]                           roulette and uno autoplay
  reset                                clear a finished board
  quit`

// ErrNoGame is returned for game commands typed in the lobby.
var ErrNoGame = errors.New("pick a game first: slots, blackjack, roulette or uno")

// Bridge connects a casino session to the TUI. It queues snapshots published
// by the session and turns typed commands into session calls.
type Bridge struct {
	session *casino.Manager

	mu     sync.Mutex
	queue  []round.Snapshot
	signal chan struct{}
}

// NewBridge subscribes a bridge to session.
func NewBridge(session *casino.Manager) *Bridge {
	b := &Bridge{
		session: session,
		signal:  make(chan struct{}, 1),
	}
	session.Subscribe(b)
	return b
}

// OnEvent queues a snapshot and wakes the UI. It never blocks.
func (b *Bridge) OnEvent(snap round.Snapshot) {
	b.mu.Lock()
	if len(b.queue) >= maxQueued {
		b.queue = b.queue[1:]
	}
	b.queue = append(b.queue, snap)
	b.mu.Unlock()

	select {
	case b.signal <- struct{}{}:
	default:
	}
}

// Drain returns and clears the queued snapshots.
func (b *Bridge) Drain() []round.Snapshot {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := b.queue
	b.queue = nil
	return out
}

// Close unsubscribes from the session.
func (b *Bridge) Close() {
	b.session.Unsubscribe(b)
}

// Execute runs one typed command. The returned text, if any, is shown in
// the log. Rejections by a game are returned as errors.
func (b *Bridge) Execute(input string) (string, error) {
	fields := strings.Fields(strings.ToLower(input))
	cmd := "start"
	var args []string
	if len(fields) > 0 {
		cmd, args = fields[0], fields[1:]
	}

	switch cmd {
	case "help", "?":
		return helpText, nil

	case "slots", "blackjack", "roulette", "uno":
		kind := round.Kind(cmd)
		if err := b.session.SwitchTo(kind); err != nil {
			return "", err
		}
		return fmt.Sprintf("Welcome to %s.", kind), nil

	case "world", "lobby", "back":
		b.session.ReturnToWorld()
		return "Back in the lobby.", nil

	case "bet":
		amount, err := intArg(args, "bet")
		if err != nil {
			return "", err
		}
		return "", b.withMachine(func(m *round.Machine) error { return m.SelectBet(amount) })

	case "pick", "select":
		if len(args) != 1 {
			return "", errors.New("usage: pick OPTION")
		}
		return "", b.withMachine(func(m *round.Machine) error { return m.Select(args[0]) })

	case "start", "spin", "deal":
		return "", b.withMachine(func(m *round.Machine) error {
			if m.Snapshot().State == round.Finished {
				if err := m.Reset(); err != nil {
					return err
				}
			}
			return m.Start()
		})

	case "hit", "stand", "draw":
		return "", b.act(round.Action{Kind: round.ActionKind(cmd)})

	case "play":
		index, err := intArg(args, "play")
		if err != nil {
			return "", err
		}
		return "", b.act(round.Action{Kind: round.PlayCard, Index: index - 1})

	case "color", "colour":
		if len(args) != 1 {
			return "", errors.New("usage: color red|blue|green|yellow")
		}
		return "", b.act(round.Action{Kind: round.ChooseColor, Color: args[0]})

	case "reset", "again":
		return "", b.withMachine(func(m *round.Machine) error { return m.Reset() })

	case "auto":
		var text string
		err := b.withMachine(func(m *round.Machine) error {
			if len(args) > 0 && args[0] == "off" {
				b.session.StopAutoplay(m.Kind())
				text = "Autoplay off."
				return nil
			}
			if err := b.session.StartAutoplay(m.Kind()); err != nil {
				return err
			}
			text = "Autoplay on."
			return nil
		})
		return text, err

	default:
		return "", fmt.Errorf("unknown command %q, try help", cmd)
	}
}

func (b *Bridge) act(a round.Action) error {
	return b.withMachine(func(m *round.Machine) error { return m.Act(a) })
}

// Machine returns the open game's machine, or nil in the lobby.
func (b *Bridge) Machine() *round.Machine {
	current := b.session.Current()
	if current == casino.World {
		return nil
	}
	m, err := b.session.Machine(round.Kind(current))
	if err != nil {
		return nil
	}
	return m
}

func (b *Bridge) withMachine(fn func(*round.Machine) error) error {
	m := b.Machine()
	if m == nil {
		return ErrNoGame
	}
	return fn(m)
}

func intArg(args []string, cmd string) (int, error) {
	if len(args) != 1 {
		return 0, fmt.Errorf("usage: %s N", cmd)
	}
	n, err := strconv.Atoi(args[0])
	if err != nil {
		return 0, fmt.Errorf("%s: %q is not a number", cmd, args[0])
	}
	return n, nil
}
