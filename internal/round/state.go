package round

import "fmt"

// Kind tags a game type
type Kind string

const (
	Slots     Kind = "slots"
	Blackjack Kind = "blackjack"
	Roulette  Kind = "roulette"
	Uno       Kind = "uno"
)

// Kinds lists every game in lobby order.
var Kinds = []Kind{Slots, Blackjack, Roulette, Uno}

// ParseKind validates a game name.
func ParseKind(s string) (Kind, error) {
	for _, k := range Kinds {
		if string(k) == s {
			return k, nil
		}
	}
	return "", fmt.Errorf("unknown game %q", s)
}

func (k Kind) String() string { return string(k) }

// State is the phase of a round
type State uint8

const (
	Betting State = iota
	InProgress
	Resolving
	Finished
)

func (s State) String() string {
	switch s {
	case Betting:
		return "betting"
	case InProgress:
		return "in_progress"
	case Resolving:
		return "resolving"
	case Finished:
		return "finished"
	default:
		return "unknown"
	}
}

// MarshalText renders the state by name in JSON snapshots.
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Turn says who may act
type Turn uint8

const (
	NoTurn Turn = iota
	PlayerTurn
	BotTurn
)

func (t Turn) String() string {
	switch t {
	case PlayerTurn:
		return "player"
	case BotTurn:
		return "bot"
	default:
		return "none"
	}
}

// MarshalText renders the turn by name in JSON snapshots.
func (t Turn) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// Severity tags a message for presentation
type Severity string

const (
	Info  Severity = "info"
	Error Severity = "error"
	Win   Severity = "win"
)

// Message is the human-readable line shown under a game.
type Message struct {
	Text     string   `json:"text"`
	Severity Severity `json:"severity"`
}

// ActionKind names a player sub-action during a round.
type ActionKind string

const (
	Hit         ActionKind = "hit"
	Stand       ActionKind = "stand"
	PlayCard    ActionKind = "play"
	DrawCard    ActionKind = "draw"
	ChooseColor ActionKind = "color"
)

// Action is a player sub-action. Index is used by PlayCard and Color by
// ChooseColor.
type Action struct {
	Kind  ActionKind `json:"kind"`
	Index int        `json:"index,omitempty"`
	Color string     `json:"color,omitempty"`
}

func (a Action) String() string {
	switch a.Kind {
	case PlayCard:
		return fmt.Sprintf("%s %d", a.Kind, a.Index)
	case ChooseColor:
		return fmt.Sprintf("%s %s", a.Kind, a.Color)
	default:
		return string(a.Kind)
	}
}
