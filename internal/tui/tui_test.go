package tui

import (
	"context"
	"io"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/minicasino/internal/casino"
	"github.com/lox/minicasino/internal/games/blackjack"
	"github.com/lox/minicasino/internal/games/uno"
	"github.com/lox/minicasino/internal/round"
)

func newTestModel(t *testing.T) (*Model, *casino.Manager, *quartz.Mock) {
	t.Helper()
	cfg := casino.DefaultConfig()
	cfg.Seed = 3
	clock := quartz.NewMock(t)
	session, err := casino.New(cfg, casino.WithClock(clock))
	require.NoError(t, err)
	t.Cleanup(session.Close)

	logger := log.NewWithOptions(io.Discard, log.Options{Level: log.ErrorLevel})
	m := New(session, logger)
	t.Cleanup(m.Close)
	return m, session, clock
}

func TestBridgeNavigation(t *testing.T) {
	t.Parallel()

	m, session, _ := newTestModel(t)
	b := m.bridge

	_, err := b.Execute("start")
	require.ErrorIs(t, err, ErrNoGame)

	text, err := b.Execute("Roulette")
	require.NoError(t, err)
	assert.Equal(t, "Welcome to roulette.", text)
	assert.Equal(t, "roulette", session.Current())

	text, err = b.Execute("world")
	require.NoError(t, err)
	assert.Equal(t, "Back in the lobby.", text)
	assert.Equal(t, casino.World, session.Current())

	_, err = b.Execute("juggle")
	require.ErrorContains(t, err, "unknown command")

	text, err = b.Execute("help")
	require.NoError(t, err)
	assert.Contains(t, text, "pick OPTION")
}

func TestBridgeArguments(t *testing.T) {
	t.Parallel()

	m, _, _ := newTestModel(t)
	b := m.bridge
	_, err := b.Execute("slots")
	require.NoError(t, err)

	tests := []struct {
		input  string
		errMsg string
	}{
		{input: "bet", errMsg: "usage: bet N"},
		{input: "bet lots", errMsg: "not a number"},
		{input: "bet 0", errMsg: "Please place a bet!"},
		{input: "bet 5000", errMsg: "Insufficient balance!"},
		{input: "pick", errMsg: "usage: pick OPTION"},
		{input: "pick red", errMsg: "slots has no bet options"},
		{input: "color", errMsg: "usage: color"},
		{input: "hit", errMsg: "It's not your turn."},
	}
	for _, tt := range tests {
		_, err := b.Execute(tt.input)
		require.ErrorContains(t, err, tt.errMsg, tt.input)
	}

	_, err = b.Execute("bet 25")
	require.NoError(t, err)
	slotMachine := b.Machine()
	require.NotNil(t, slotMachine)
	assert.Equal(t, 25, slotMachine.Snapshot().Bet)
}

func TestSpinFromTheKeyboard(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	m, session, clock := newTestModel(t)
	assert.False(t, m.Submit("slots"))
	assert.False(t, m.Submit(""))
	assert.Equal(t, 990, session.Balance())

	clock.Advance(time.Second).MustWait(ctx)
	clock.Advance(200 * time.Millisecond).MustWait(ctx)
	clock.Advance(200 * time.Millisecond).MustWait(ctx)

	var settled *round.Result
	for _, snap := range m.bridge.Drain() {
		m.recordSnapshot(snap)
		if snap.Result != nil {
			settled = snap.Result
		}
	}
	require.NotNil(t, settled)
	assert.Equal(t, 990+settled.Payout, session.Balance())

	logged := strings.Join(m.Log(), "\n")
	assert.Contains(t, logged, "Welcome to slots.")
	assert.Contains(t, logged, "[slots]")

	// Enter on a finished board resets and spins again.
	assert.False(t, m.Submit(""))
	assert.Equal(t, round.InProgress, m.bridge.Machine().Snapshot().State)

	assert.True(t, m.Submit("quit"))
}

func TestRejectionLoggedOnce(t *testing.T) {
	t.Parallel()

	m, _, _ := newTestModel(t)
	m.Submit("roulette")
	m.Submit("start")

	_, _ = m.Update(snapshotMsg{})
	count := 0
	for _, line := range m.Log() {
		if strings.Contains(line, "Please select a bet option!") {
			count++
		}
	}
	assert.Equal(t, 1, count)
}

func TestAutoplayCommand(t *testing.T) {
	t.Parallel()

	m, session, _ := newTestModel(t)
	m.Submit("uno")
	text, err := m.bridge.Execute("auto")
	require.NoError(t, err)
	assert.Equal(t, "Autoplay on.", text)
	assert.True(t, session.Autoplaying(round.Uno))

	text, err = m.bridge.Execute("auto off")
	require.NoError(t, err)
	assert.Equal(t, "Autoplay off.", text)
	assert.False(t, session.Autoplaying(round.Uno))

	m.Submit("blackjack")
	_, err = m.bridge.Execute("auto")
	require.ErrorIs(t, err, casino.ErrNoAutoplay)
}

func TestViewRendersLayout(t *testing.T) {
	t.Parallel()

	m, _, _ := newTestModel(t)
	assert.Equal(t, "Loading...", m.View())

	_, _ = m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	lobby := m.View()
	assert.Contains(t, lobby, "MINI CASINO")
	assert.Contains(t, lobby, "Balance: $1000")
	assert.Contains(t, lobby, "blackjack")

	m.Submit("blackjack")
	table := m.View()
	assert.Contains(t, table, "BLACKJACK")
	assert.Contains(t, table, "Enter to play for $10")
}

func TestRenderBoards(t *testing.T) {
	t.Parallel()

	bj := renderBoard(round.Snapshot{
		Game:  round.Blackjack,
		State: round.InProgress,
		Turn:  round.PlayerTurn,
		View: blackjack.View{
			Player:       []string{"T♠", "6♥"},
			Dealer:       []string{"K♣", "??"},
			PlayerScore:  16,
			DealerScore:  10,
			DealerHidden: true,
		},
	})
	assert.Contains(t, bj, "(10+?)")
	assert.Contains(t, bj, "(16)")
	assert.Contains(t, bj, "hit • stand")

	u := renderBoard(round.Snapshot{
		Game:  round.Uno,
		State: round.InProgress,
		Turn:  round.PlayerTurn,
		View: uno.View{
			Top:           "Wild",
			Color:         "wild",
			BotCards:      3,
			AwaitingColor: true,
			Hand:          []uno.CardView{{Label: "red 5", Color: "red"}},
		},
	})
	assert.Contains(t, u, "1:red 5")
	assert.Contains(t, u, "opponent: 3 cards")
	assert.Contains(t, u, "color red|blue|green|yellow")
}
