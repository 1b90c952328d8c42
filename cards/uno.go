package cards

import (
	"fmt"
	"strings"
)

// UnoColor is the printed colour of an Uno card. Wild cards carry Wild until
// played; the colour chosen for them lives in the game state.
type UnoColor string

const (
	Red    UnoColor = "red"
	Blue   UnoColor = "blue"
	Green  UnoColor = "green"
	Yellow UnoColor = "yellow"
	Wild   UnoColor = "wild"
)

// UnoColors are the four playable colours.
var UnoColors = []UnoColor{Red, Blue, Green, Yellow}

// ParseUnoColor accepts one of the four playable colours.
func ParseUnoColor(s string) (UnoColor, error) {
	for _, c := range UnoColors {
		if string(c) == s {
			return c, nil
		}
	}
	return "", fmt.Errorf("invalid uno colour %q", s)
}

// UnoKind classifies a card
type UnoKind uint8

const (
	Number UnoKind = iota
	Action
	WildKind
)

func (k UnoKind) String() string {
	switch k {
	case Number:
		return "number"
	case Action:
		return "action"
	case WildKind:
		return "wild"
	default:
		return "unknown"
	}
}

// Uno card values beyond the digits.
const (
	Skip      = "skip"
	Reverse   = "reverse"
	DrawTwo   = "draw2"
	WildValue = "wild"
	WildFour  = "wild4"
)

// UnoCard is an Uno card
type UnoCard struct {
	Color UnoColor
	Value string
	Kind  UnoKind
}

// IsWild reports whether the card can be played on anything.
func (c UnoCard) IsWild() bool {
	return c.Kind == WildKind
}

func (c UnoCard) String() string {
	if c.IsWild() {
		if c.Value == WildFour {
			return "Wild Draw 4"
		}
		return "Wild"
	}
	return fmt.Sprintf("%s %s", c.Color, c.Value)
}

// UnoDeck returns the 108-card deck unshuffled: per colour one 0, two each of
// 1-9, two each of skip, reverse and draw2; then four wild and four wild4.
func UnoDeck() []UnoCard {
	out := make([]UnoCard, 0, 108)
	for _, color := range UnoColors {
		out = append(out, UnoCard{Color: color, Value: "0", Kind: Number})
		for i := 1; i <= 9; i++ {
			v := fmt.Sprintf("%d", i)
			out = append(out,
				UnoCard{Color: color, Value: v, Kind: Number},
				UnoCard{Color: color, Value: v, Kind: Number},
			)
		}
		for _, v := range []string{Skip, Reverse, DrawTwo} {
			out = append(out,
				UnoCard{Color: color, Value: v, Kind: Action},
				UnoCard{Color: color, Value: v, Kind: Action},
			)
		}
	}
	for range 4 {
		out = append(out,
			UnoCard{Color: Wild, Value: WildValue, Kind: WildKind},
			UnoCard{Color: Wild, Value: WildFour, Kind: WildKind},
		)
	}
	return out
}

// ParseUnoCard parses "red 5", "blue skip", "green draw2", "wild" or
// "wild4".
func ParseUnoCard(s string) (UnoCard, error) {
	switch s {
	case WildValue, WildFour:
		return UnoCard{Color: Wild, Value: s, Kind: WildKind}, nil
	}
	colorText, value, ok := strings.Cut(s, " ")
	if !ok {
		return UnoCard{}, fmt.Errorf("invalid uno card %q", s)
	}
	color, err := ParseUnoColor(colorText)
	if err != nil {
		return UnoCard{}, err
	}
	switch value {
	case Skip, Reverse, DrawTwo:
		return UnoCard{Color: color, Value: value, Kind: Action}, nil
	}
	if len(value) != 1 || value[0] < '0' || value[0] > '9' {
		return UnoCard{}, fmt.Errorf("invalid uno value in %q", s)
	}
	return UnoCard{Color: color, Value: value, Kind: Number}, nil
}

// MustParseUnoCards parses each card and panics on error. Intended for tests.
func MustParseUnoCards(list ...string) []UnoCard {
	out := make([]UnoCard, 0, len(list))
	for _, s := range list {
		c, err := ParseUnoCard(s)
		if err != nil {
			panic(err)
		}
		out = append(out, c)
	}
	return out
}
