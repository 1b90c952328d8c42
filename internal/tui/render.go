package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/lox/minicasino/internal/games/blackjack"
	"github.com/lox/minicasino/internal/games/roulette"
	"github.com/lox/minicasino/internal/games/slots"
	"github.com/lox/minicasino/internal/games/uno"
	"github.com/lox/minicasino/internal/round"
)

// renderBoard draws the open game from its snapshot.
func renderBoard(snap round.Snapshot) string {
	var b strings.Builder
	b.WriteString(HeaderStyle.Render(fmt.Sprintf(" %s ", strings.ToUpper(string(snap.Game)))))
	b.WriteString("  ")
	b.WriteString(InfoStyle.Render(snap.State.String()))
	b.WriteString("\n\n")

	switch view := snap.View.(type) {
	case slots.View:
		b.WriteString(renderSlots(view))
	case blackjack.View:
		b.WriteString(renderBlackjack(view))
	case roulette.View:
		b.WriteString(renderRoulette(view, snap.Selection))
	case uno.View:
		b.WriteString(renderUno(view))
	}

	if text := snap.Message.Text; text != "" {
		b.WriteString("\n\n")
		b.WriteString(messageStyle(snap.Message.Severity).Render(text))
	}
	b.WriteString("\n")
	b.WriteString(ActionsStyle.Render(actionHint(snap)))
	return b.String()
}

func messageStyle(sev round.Severity) lipgloss.Style {
	switch sev {
	case round.Error:
		return ErrorStyle
	case round.Win:
		return SuccessStyle
	default:
		return WarningStyle
	}
}

func renderSlots(v slots.View) string {
	reels := make([]string, len(v.Reels))
	for i, r := range v.Reels {
		if r == "" {
			r = "❔"
		}
		reels[i] = r
	}
	line := BoardStyle.Render("[ " + strings.Join(reels, " | ") + " ]")
	if v.Spinning {
		line += "  " + InfoStyle.Render("spinning...")
	}
	return line
}

func renderBlackjack(v blackjack.View) string {
	if len(v.Player) == 0 {
		return InfoStyle.Render("No cards on the table.")
	}
	dealer := fmt.Sprintf("Dealer: %s (%d)", formatCards(v.Dealer), v.DealerScore)
	if v.DealerHidden {
		dealer = fmt.Sprintf("Dealer: %s (%d+?)", formatCards(v.Dealer), v.DealerScore)
	}
	player := fmt.Sprintf("You:    %s (%d)", formatCards(v.Player), v.PlayerScore)
	return dealer + "\n" + player
}

func renderRoulette(v roulette.View, selection string) string {
	opts := make([]string, len(v.Options))
	for i, o := range v.Options {
		if o == selection {
			opts[i] = SuccessStyle.Render("[" + o + "]")
		} else {
			opts[i] = InfoStyle.Render(" " + o + " ")
		}
	}
	out := "Bets: " + strings.Join(opts, " ")

	switch {
	case v.Spinning:
		out += "\n" + InfoStyle.Render("The wheel is spinning...")
	case v.Result != nil:
		out += "\n" + BoardStyle.Render("Landed on "+v.Result.String())
	}
	if len(v.History) > 0 {
		hist := make([]string, len(v.History))
		for i, s := range v.History {
			hist[i] = fmt.Sprintf("%d", s.Number)
		}
		out += "\n" + InfoStyle.Render("History: "+strings.Join(hist, " "))
	}
	return out
}

func renderUno(v uno.View) string {
	if v.Top == "" {
		return InfoStyle.Render("No cards dealt.")
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Top: %s   colour: %s   opponent: %d cards   pile: %d\n",
		unoStyle(v.Color).Render(v.Top), unoStyle(v.Color).Render(v.Color), v.BotCards, v.DrawPile)

	hand := make([]string, len(v.Hand))
	for i, c := range v.Hand {
		label := fmt.Sprintf("%d:%s", i+1, c.Label)
		if !c.Playable {
			hand[i] = InfoStyle.Render(label)
			continue
		}
		hand[i] = unoStyle(c.Color).Render(label)
	}
	b.WriteString("Hand: " + strings.Join(hand, "  "))
	if v.Winner != "" {
		b.WriteString("\n" + SuccessStyle.Render("Winner: "+v.Winner))
	}
	return b.String()
}

func unoStyle(color string) lipgloss.Style {
	if s, ok := unoColorStyles[color]; ok {
		return s
	}
	return BoardStyle
}

// formatCards formats cards with colors
func formatCards(cards []string) string {
	formatted := make([]string, len(cards))
	for i, c := range cards {
		if strings.ContainsAny(c, "♥♦") {
			formatted[i] = RedCardStyle.Render(c)
		} else {
			formatted[i] = BlackCardStyle.Render(c)
		}
	}
	return "[" + strings.Join(formatted, " ") + "]"
}

// actionHint lists the commands that make sense right now.
func actionHint(snap round.Snapshot) string {
	switch snap.State {
	case round.Finished:
		return "Enter to play again • bet N • world"
	case round.Resolving:
		return "Settling..."
	case round.Betting:
		if snap.Game == round.Roulette && snap.Selection == "" {
			return "pick red|black|0|1-18|19-36 • bet N"
		}
		return fmt.Sprintf("Enter to play for $%d • bet N • world", snap.Bet)
	}

	if snap.Turn != round.PlayerTurn {
		return "Waiting..."
	}
	switch view := snap.View.(type) {
	case blackjack.View:
		return "hit • stand"
	case uno.View:
		if view.AwaitingColor {
			return "color red|blue|green|yellow"
		}
		return "play N • draw"
	}
	return ""
}

// renderLobby lists the games with their state.
func renderLobby(snaps []round.Snapshot, balance int) string {
	var b strings.Builder
	b.WriteString(HeaderStyle.Render(" MINI CASINO "))
	b.WriteString("\n\n")
	for _, s := range snaps {
		fmt.Fprintf(&b, "  %-10s %s\n", s.Game, InfoStyle.Render(s.State.String()))
	}
	b.WriteString("\n")
	b.WriteString(ActionsStyle.Render(fmt.Sprintf("Balance $%d • type a game name to sit down", balance)))
	return b.String()
}
