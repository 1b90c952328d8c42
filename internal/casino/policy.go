package casino

import (
	"fmt"

	"github.com/lox/minicasino/cards"
	"github.com/lox/minicasino/internal/games/blackjack"
	"github.com/lox/minicasino/internal/games/uno"
	"github.com/lox/minicasino/internal/randutil"
	"github.com/lox/minicasino/internal/round"
	"github.com/lox/minicasino/internal/rules"
)

// MoveKind is what an automated player does next.
type MoveKind uint8

const (
	// Wait means nothing can be done until a continuation fires.
	Wait MoveKind = iota
	Reset
	Select
	Start
	Act
	// Stop means the player cannot continue, usually for lack of funds.
	Stop
)

func (k MoveKind) String() string {
	switch k {
	case Wait:
		return "wait"
	case Reset:
		return "reset"
	case Select:
		return "select"
	case Start:
		return "start"
	case Act:
		return "act"
	case Stop:
		return "stop"
	default:
		return "unknown"
	}
}

// Move is one step of an automated player.
type Move struct {
	Kind   MoveKind
	Option string
	Action round.Action
	Reason string
}

func (m Move) String() string {
	switch m.Kind {
	case Select:
		return fmt.Sprintf("select %s", m.Option)
	case Act:
		return fmt.Sprintf("act %s", m.Action)
	case Stop:
		return fmt.Sprintf("stop (%s)", m.Reason)
	default:
		return m.Kind.String()
	}
}

// NextMove decides the next step for an automated player from a snapshot.
// Roulette picks a random outside bet; blackjack hits below 17; Uno plays the
// first playable card, names a random colour for wilds, or draws.
func NextMove(snap round.Snapshot, rng randutil.Source) Move {
	switch snap.State {
	case round.Finished:
		return Move{Kind: Reset}
	case round.Resolving:
		return Move{Kind: Wait}
	case round.Betting:
		if snap.Bet > snap.Balance {
			return Move{Kind: Stop, Reason: "Insufficient balance!"}
		}
		if snap.Game == round.Roulette && snap.Selection == "" {
			bet := randutil.Pick(rng, rules.RouletteBets)
			return Move{Kind: Select, Option: string(bet)}
		}
		return Move{Kind: Start}
	}

	if snap.Turn != round.PlayerTurn {
		return Move{Kind: Wait}
	}

	switch view := snap.View.(type) {
	case blackjack.View:
		if rules.DealerDraws(view.PlayerScore) {
			return act(round.Action{Kind: round.Hit})
		}
		return act(round.Action{Kind: round.Stand})
	case uno.View:
		if view.AwaitingColor {
			c := randutil.Pick(rng, cards.UnoColors)
			return act(round.Action{Kind: round.ChooseColor, Color: string(c)})
		}
		for i, c := range view.Hand {
			if c.Playable {
				return act(round.Action{Kind: round.PlayCard, Index: i})
			}
		}
		return act(round.Action{Kind: round.DrawCard})
	}
	return Move{Kind: Wait}
}

func act(a round.Action) Move {
	return Move{Kind: Act, Action: a}
}

// Apply performs mv on machine.
func Apply(machine *round.Machine, mv Move) error {
	switch mv.Kind {
	case Reset:
		return machine.Reset()
	case Select:
		return machine.Select(mv.Option)
	case Start:
		return machine.Start()
	case Act:
		return machine.Act(mv.Action)
	default:
		return nil
	}
}

// Step applies moves until one of them starts, advances or stops a round.
// Reset and Select are preparation and never end a step on their own.
func Step(machine *round.Machine, rng randutil.Source) (Move, error) {
	for range 3 {
		mv := NextMove(machine.Snapshot(), rng)
		if err := Apply(machine, mv); err != nil {
			return mv, fmt.Errorf("%s: %w", mv, err)
		}
		if mv.Kind != Reset && mv.Kind != Select {
			return mv, nil
		}
	}
	return Move{Kind: Wait}, nil
}
