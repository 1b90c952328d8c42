// Package blackjack is single-hand blackjack against a dealer who draws to
// 17.
package blackjack

import (
	"fmt"
	"time"

	"github.com/lox/minicasino/cards"
	"github.com/lox/minicasino/internal/randutil"
	"github.com/lox/minicasino/internal/round"
	"github.com/lox/minicasino/internal/rules"
)

// Config holds blackjack timings and the deck source.
type Config struct {
	// DealerDelay is the pause before each dealer draw.
	DealerDelay time.Duration
	// NewDeck builds the shoe for a round. Defaults to a shuffled 52-card
	// deck.
	NewDeck func(rng randutil.Source) *cards.Deck[cards.Card]
}

// DefaultConfig returns the standard table.
func DefaultConfig() Config {
	return Config{
		DealerDelay: time.Second,
		NewDeck:     ShuffledShoe,
	}
}

// ShuffledShoe returns a freshly shuffled standard deck.
func ShuffledShoe(rng randutil.Source) *cards.Deck[cards.Card] {
	return cards.NewShuffledDeck(rng, cards.StandardDeck())
}

// View is the table as shown to the player. The dealer's hole card is
// reported as "??" until the dealer plays.
type View struct {
	Player       []string `json:"player"`
	Dealer       []string `json:"dealer"`
	PlayerScore  int      `json:"player_score"`
	DealerScore  int      `json:"dealer_score"`
	DealerHidden bool     `json:"dealer_hidden"`
	Outcome      string   `json:"outcome,omitempty"`
}

// Game is the blackjack strategy
type Game struct {
	cfg     Config
	deck    *cards.Deck[cards.Card]
	player  []cards.Card
	dealer  []cards.Card
	reveal  bool
	outcome string
}

var _ round.Strategy = (*Game)(nil)

// New creates a blackjack table.
func New(cfg Config) *Game {
	if cfg.NewDeck == nil {
		cfg.NewDeck = ShuffledShoe
	}
	if cfg.DealerDelay < 0 {
		cfg.DealerDelay = 0
	}
	return &Game{cfg: cfg}
}

func (g *Game) Kind() round.Kind { return round.Blackjack }

func (g *Game) Ready() error { return nil }

// Begin deals two cards each, player first, and hands the turn to the
// player.
func (g *Game) Begin(h round.Host) error {
	g.Clear()
	g.deck = g.cfg.NewDeck(h.Rand())
	if g.deck.Len() < 4 {
		return fmt.Errorf("%w: shoe has %d cards", rules.ErrPrecondition, g.deck.Len())
	}
	for _, hand := range []*[]cards.Card{&g.player, &g.player, &g.dealer, &g.dealer} {
		*hand = append(*hand, g.draw(h))
	}
	h.SetTurn(round.PlayerTurn)
	h.Logger().Debug("Dealt", "player", g.player, "upcard", g.dealer[0])
	return nil
}

func (g *Game) Act(h round.Host, a round.Action) error {
	switch a.Kind {
	case round.Hit:
		g.hit(h)
	case round.Stand:
		h.SetTurn(round.BotTurn)
		g.reveal = true
		g.dealerStep(h)
	default:
		return round.Reject(round.ErrIllegalMove, "Hit or stand.")
	}
	return nil
}

func (g *Game) hit(h round.Host) {
	g.player = append(g.player, g.draw(h))
	if score(g.player) > rules.BlackjackLimit {
		g.reveal = true
		g.outcome = rules.PlayerBust.String()
		h.Settle(0, "Bust! You lose.", round.Error)
	}
}

// dealerStep draws one card per DealerDelay until the dealer stands, then
// settles.
func (g *Game) dealerStep(h round.Host) {
	if !rules.DealerDraws(score(g.dealer)) {
		g.settle(h)
		return
	}
	h.After(g.cfg.DealerDelay, func() {
		g.dealer = append(g.dealer, g.draw(h))
		g.dealerStep(h)
	})
}

func (g *Game) settle(h round.Host) {
	player, dealer := score(g.player), score(g.dealer)
	outcome := rules.Settle(player, dealer)
	g.outcome = outcome.String()
	payout := h.Stake() * outcome.Multiplier()

	switch outcome {
	case rules.DealerBust:
		h.Settle(payout, fmt.Sprintf("Dealer busts! You win $%d!", payout), round.Win)
	case rules.PlayerWin:
		h.Settle(payout, fmt.Sprintf("You win $%d!", payout), round.Win)
	case rules.DealerWin:
		h.Settle(payout, fmt.Sprintf("Dealer wins with %d.", dealer), round.Error)
	case rules.Push:
		h.Settle(payout, "Push! Bet returned.", round.Info)
	default:
		h.Settle(payout, "Bust! You lose.", round.Error)
	}
}

// draw takes the top card, starting a fresh shoe if the current one is
// empty.
func (g *Game) draw(h round.Host) cards.Card {
	c, ok := g.deck.Draw()
	if !ok {
		h.Logger().Debug("Shoe empty, reshuffling")
		g.deck = ShuffledShoe(h.Rand())
		c, _ = g.deck.Draw()
	}
	return c
}

func (g *Game) Clear() {
	g.deck = nil
	g.player = nil
	g.dealer = nil
	g.reveal = false
	g.outcome = ""
}

func (g *Game) View() any {
	v := View{
		Player:       names(g.player),
		Dealer:       names(g.dealer),
		PlayerScore:  score(g.player),
		DealerScore:  score(g.dealer),
		DealerHidden: !g.reveal && len(g.dealer) > 1,
		Outcome:      g.outcome,
	}
	if v.DealerHidden {
		v.Dealer[1] = "??"
		v.DealerScore = score(g.dealer[:1])
	}
	return v
}

// score is HandValue with empty hands counting 0.
func score(hand []cards.Card) int {
	v, err := rules.HandValue(hand)
	if err != nil {
		return 0
	}
	return v
}

func names(hand []cards.Card) []string {
	out := make([]string, len(hand))
	for i, c := range hand {
		out[i] = c.String()
	}
	return out
}
