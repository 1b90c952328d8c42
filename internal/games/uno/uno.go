// Package uno is two-player Uno against a scripted bot. The player stakes
// the bet; winning returns double the stake plus a flat bonus.
package uno

import (
	"fmt"
	"slices"
	"time"

	"github.com/lox/minicasino/cards"
	"github.com/lox/minicasino/internal/randutil"
	"github.com/lox/minicasino/internal/round"
	"github.com/lox/minicasino/internal/rules"
)

// Config holds the table rules and timings.
type Config struct {
	HandSize int
	// BotDelay is the pause before each bot move.
	BotDelay time.Duration
	// WinBonus is added to the doubled stake when the player wins.
	WinBonus int
	// NewDeck builds the draw pile for a round. Defaults to a shuffled
	// 108-card deck.
	NewDeck func(rng randutil.Source) *cards.Deck[cards.UnoCard]
}

// DefaultConfig returns seven-card hands, a one second bot and a 50 bonus.
func DefaultConfig() Config {
	return Config{
		HandSize: 7,
		BotDelay: time.Second,
		WinBonus: 50,
		NewDeck:  ShuffledDeck,
	}
}

// Validate checks the table rules.
func (c Config) Validate() error {
	if c.HandSize <= 0 {
		return fmt.Errorf("%w: hand size must be positive", rules.ErrPrecondition)
	}
	if 2*c.HandSize >= len(cards.UnoDeck()) {
		return fmt.Errorf("%w: hand size %d leaves no discard", rules.ErrPrecondition, c.HandSize)
	}
	if c.WinBonus < 0 {
		return fmt.Errorf("%w: win bonus must not be negative", rules.ErrPrecondition)
	}
	if c.BotDelay < 0 {
		return fmt.Errorf("%w: bot delay must not be negative", rules.ErrPrecondition)
	}
	return nil
}

// ShuffledDeck returns a freshly shuffled Uno deck.
func ShuffledDeck(rng randutil.Source) *cards.Deck[cards.UnoCard] {
	return cards.NewShuffledDeck(rng, cards.UnoDeck())
}

// CardView is one card in the player's hand.
type CardView struct {
	Label    string `json:"label"`
	Color    string `json:"color"`
	Value    string `json:"value"`
	Playable bool   `json:"playable"`
}

// View is the table as shown to the player. The bot's hand is only counted.
type View struct {
	Hand          []CardView `json:"hand"`
	BotCards      int        `json:"bot_cards"`
	Top           string     `json:"top,omitempty"`
	Color         string     `json:"color,omitempty"`
	Value         string     `json:"value,omitempty"`
	DrawPile      int        `json:"draw_pile"`
	AwaitingColor bool       `json:"awaiting_color"`
	Winner        string     `json:"winner,omitempty"`
}

// Game is the Uno strategy
type Game struct {
	cfg     Config
	pile    *cards.Deck[cards.UnoCard]
	discard []cards.UnoCard
	player  []cards.UnoCard
	bot     []cards.UnoCard

	// color and value are what the next card must match. A wild's chosen
	// colour lives here, never on the card.
	color cards.UnoColor
	value string

	awaitingColor bool
	winner        string
}

var _ round.Strategy = (*Game)(nil)

// New creates an Uno table.
func New(cfg Config) (*Game, error) {
	if cfg.NewDeck == nil {
		cfg.NewDeck = ShuffledDeck
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Game{cfg: cfg}, nil
}

func (g *Game) Kind() round.Kind { return round.Uno }

func (g *Game) Ready() error { return nil }

// Begin deals alternately, player first, then turns up the first non-wild
// card. Wilds met on the way go to the bottom of the pile.
func (g *Game) Begin(h round.Host) error {
	g.Clear()
	g.pile = g.cfg.NewDeck(h.Rand())
	if g.pile.Len() < 2*g.cfg.HandSize+1 {
		return fmt.Errorf("%w: deck has %d cards", rules.ErrPrecondition, g.pile.Len())
	}
	for range g.cfg.HandSize {
		p, _ := g.pile.Draw()
		b, _ := g.pile.Draw()
		g.player = append(g.player, p)
		g.bot = append(g.bot, b)
	}

	for range g.pile.Len() {
		c, _ := g.pile.Draw()
		if c.IsWild() {
			g.pile.PushBottom(c)
			continue
		}
		g.discard = append(g.discard, c)
		g.color, g.value = c.Color, c.Value
		h.SetTurn(round.PlayerTurn)
		return nil
	}
	return fmt.Errorf("%w: no starting card", rules.ErrPrecondition)
}

func (g *Game) Act(h round.Host, a round.Action) error {
	switch a.Kind {
	case round.PlayCard:
		return g.play(h, a.Index)
	case round.ChooseColor:
		return g.chooseColor(h, a.Color)
	case round.DrawCard:
		return g.drawCard(h)
	default:
		return round.Reject(round.ErrIllegalMove, "Play a card or draw.")
	}
}

func (g *Game) play(h round.Host, index int) error {
	if g.awaitingColor {
		return round.Reject(round.ErrIllegalMove, "Choose a colour first.")
	}
	if index < 0 || index >= len(g.player) {
		return round.Reject(round.ErrIllegalMove, "No such card.")
	}
	card := g.player[index]
	if !rules.CanPlay(card, g.color, g.value) {
		return round.Reject(round.ErrIllegalMove, "Cannot play this card!")
	}

	g.player = slices.Delete(g.player, index, index+1)
	g.discard = append(g.discard, card)
	g.value = card.Value
	if n := rules.Penalty(card); n > 0 {
		g.deal(h, &g.bot, n)
	}

	if len(g.player) == 0 {
		g.playerWins(h)
		return nil
	}
	if card.IsWild() {
		g.awaitingColor = true
		h.Notify("Choose a colour.", round.Info)
		return nil
	}
	g.color = card.Color
	g.afterPlayerMove(h, card)
	return nil
}

func (g *Game) chooseColor(h round.Host, text string) error {
	if !g.awaitingColor {
		return round.Reject(round.ErrIllegalMove, "No wild card to colour.")
	}
	color, err := cards.ParseUnoColor(text)
	if err != nil {
		return round.Reject(round.ErrIllegalMove, "Pick red, blue, green or yellow.")
	}
	g.color = color
	g.awaitingColor = false
	g.afterPlayerMove(h, g.discard[len(g.discard)-1])
	return nil
}

func (g *Game) drawCard(h round.Host) error {
	if g.awaitingColor {
		return round.Reject(round.ErrIllegalMove, "Choose a colour first.")
	}
	g.deal(h, &g.player, 1)
	h.Notify("Card drawn. Opponent's turn.", round.Info)
	g.passToBot(h)
	return nil
}

// afterPlayerMove applies the turn effect of the card the player just
// committed.
func (g *Game) afterPlayerMove(h round.Host, card cards.UnoCard) {
	if !rules.SkipsNext(card) {
		h.Notify(fmt.Sprintf("You played %s.", card), round.Info)
		g.passToBot(h)
		return
	}
	switch card.Value {
	case cards.Skip:
		h.Notify("Opponent skipped!", round.Info)
	case cards.Reverse:
		h.Notify("Turn reversed (acts as skip)!", round.Info)
	case cards.DrawTwo:
		h.Notify("Opponent draws 2 cards!", round.Info)
	case cards.WildFour:
		h.Notify("Opponent draws 4 cards!", round.Info)
	}
	h.SetTurn(round.PlayerTurn)
}

func (g *Game) passToBot(h round.Host) {
	h.SetTurn(round.BotTurn)
	h.After(g.cfg.BotDelay, func() { g.botTurn(h) })
}

// botTurn plays the first playable card in hand order, naming a random
// colour for wilds, or draws one card.
func (g *Game) botTurn(h round.Host) {
	idx := rules.FirstPlayable(g.bot, g.color, g.value)
	if idx < 0 {
		g.deal(h, &g.bot, 1)
		h.Notify("Opponent drew a card", round.Info)
		h.SetTurn(round.PlayerTurn)
		return
	}

	card := g.bot[idx]
	g.bot = slices.Delete(g.bot, idx, idx+1)
	g.discard = append(g.discard, card)
	g.value = card.Value
	g.color = card.Color
	if card.IsWild() {
		g.color = randutil.Pick(h.Rand(), cards.UnoColors)
	}
	if n := rules.Penalty(card); n > 0 {
		g.deal(h, &g.player, n)
	}
	h.Logger().Debug("Bot played", "card", card, "color", g.color, "cards_left", len(g.bot))

	if len(g.bot) == 0 {
		g.winner = "bot"
		h.Settle(0, "Opponent wins!", round.Error)
		return
	}

	msg := fmt.Sprintf("Opponent played %s", card)
	if card.IsWild() {
		msg += fmt.Sprintf(" and chose %s", g.color)
	}
	if rules.SkipsNext(card) {
		h.Notify(msg+". You are skipped!", round.Info)
		h.After(g.cfg.BotDelay, func() { g.botTurn(h) })
		return
	}
	h.Notify(msg, round.Info)
	h.SetTurn(round.PlayerTurn)
}

func (g *Game) playerWins(h round.Host) {
	g.winner = "player"
	g.awaitingColor = false
	payout := 2*h.Stake() + g.cfg.WinBonus
	h.Settle(payout, fmt.Sprintf("You win! +$%d", payout), round.Win)
}

// deal moves up to n cards from the pile into hand, reshuffling the discard
// pile (all but its top card) when the pile runs dry.
func (g *Game) deal(h round.Host, hand *[]cards.UnoCard, n int) {
	for range n {
		c, ok := g.pile.Draw()
		if !ok {
			g.reshuffle(h)
			if c, ok = g.pile.Draw(); !ok {
				h.Logger().Debug("Nothing left to draw")
				return
			}
		}
		*hand = append(*hand, c)
	}
}

func (g *Game) reshuffle(h round.Host) {
	if len(g.discard) < 2 {
		return
	}
	top := g.discard[len(g.discard)-1]
	rest := g.discard[:len(g.discard)-1]
	g.pile = cards.NewShuffledDeck(h.Rand(), rest)
	g.discard = []cards.UnoCard{top}
	h.Logger().Debug("Reshuffled discard pile", "cards", g.pile.Len())
}

func (g *Game) Clear() {
	g.pile = nil
	g.discard = nil
	g.player = nil
	g.bot = nil
	g.color = ""
	g.value = ""
	g.awaitingColor = false
	g.winner = ""
}

func (g *Game) View() any {
	v := View{
		Hand:          make([]CardView, len(g.player)),
		BotCards:      len(g.bot),
		Color:         string(g.color),
		Value:         g.value,
		AwaitingColor: g.awaitingColor,
		Winner:        g.winner,
	}
	if g.pile != nil {
		v.DrawPile = g.pile.Len()
	}
	if n := len(g.discard); n > 0 {
		v.Top = g.discard[n-1].String()
	}
	for i, c := range g.player {
		v.Hand[i] = CardView{
			Label:    c.String(),
			Color:    string(c.Color),
			Value:    c.Value,
			Playable: !g.awaitingColor && rules.CanPlay(c, g.color, g.value),
		}
	}
	return v
}
