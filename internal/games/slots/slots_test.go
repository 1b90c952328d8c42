package slots

import (
	"context"
	"testing"
	"time"

	"github.com/coder/quartz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/minicasino/internal/ledger"
	"github.com/lox/minicasino/internal/randutil"
	"github.com/lox/minicasino/internal/round"
	"github.com/lox/minicasino/internal/rules"
)

func newMachine(t *testing.T, floats []float64) (*round.Machine, *ledger.Ledger, *quartz.Mock) {
	t.Helper()
	g, err := New(DefaultConfig())
	require.NoError(t, err)

	rng := randutil.NewScripted(1)
	rng.Floats = floats
	clock := quartz.NewMock(t)
	l := ledger.New(ledger.DefaultStartingBalance)
	m := round.NewMachine(g, l, round.WithClock(clock), round.WithRand(rng))
	t.Cleanup(m.Close)
	return m, l, clock
}

func spinToEnd(ctx context.Context, t *testing.T, m *round.Machine, clock *quartz.Mock) {
	t.Helper()
	clock.Advance(1000 * time.Millisecond).MustWait(ctx)
	assert.Equal(t, []string{"", ""}, reels(m)[1:], "only the first reel has stopped")
	assert.NotEmpty(t, reels(m)[0])
	clock.Advance(200 * time.Millisecond).MustWait(ctx)
	clock.Advance(200 * time.Millisecond).MustWait(ctx)
}

func reels(m *round.Machine) []string {
	return m.Snapshot().View.(View).Reels
}

func TestSpin(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		floats  []float64
		want    []string
		balance int
		sev     round.Severity
	}{
		{
			name:    "no match loses the stake",
			floats:  []float64{0.10, 0.30, 0.50},
			want:    []string{"🍒", "🍋", "🍊"},
			balance: 990,
			sev:     round.Info,
		},
		{
			name:    "three cherries",
			floats:  []float64{0.10, 0.10, 0.10},
			want:    []string{"🍒", "🍒", "🍒"},
			balance: 1010,
			sev:     round.Win,
		},
		{
			name:    "three diamonds",
			floats:  []float64{0.95, 0.95, 0.95},
			want:    []string{"💎", "💎", "💎"},
			balance: 1990,
			sev:     round.Win,
		},
		{
			name:    "two of a kind pays nothing",
			floats:  []float64{0.85, 0.85, 0.95},
			want:    []string{"⭐", "⭐", "💎"},
			balance: 990,
			sev:     round.Info,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			m, l, clock := newMachine(t, tt.floats)
			require.NoError(t, m.Start())
			assert.Equal(t, 990, l.Balance())

			snap := m.Snapshot()
			assert.Equal(t, round.InProgress, snap.State)
			assert.Equal(t, round.NoTurn, snap.Turn)
			assert.True(t, snap.View.(View).Spinning)

			spinToEnd(ctx, t, m, clock)

			snap = m.Snapshot()
			assert.Equal(t, round.Finished, snap.State)
			assert.Equal(t, tt.want, snap.View.(View).Reels)
			assert.Equal(t, tt.balance, l.Balance())
			assert.Equal(t, tt.sev, snap.Message.Severity)
		})
	}
}

func TestSpinRejectsActions(t *testing.T) {
	t.Parallel()

	m, l, _ := newMachine(t, nil)
	require.NoError(t, m.Start())
	require.ErrorIs(t, m.Act(round.Action{Kind: round.Hit}), round.ErrIllegalMove)
	require.ErrorIs(t, m.Start(), round.ErrIllegalMove)
	require.ErrorIs(t, m.Reset(), round.ErrIllegalMove)
	assert.Equal(t, 990, l.Balance())
}

func TestSpinAgainAfterReset(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	m, l, clock := newMachine(t, []float64{0.1, 0.3, 0.5, 0.1, 0.1, 0.1})
	require.NoError(t, m.Start())
	spinToEnd(ctx, t, m, clock)
	require.NoError(t, m.Reset())
	assert.Equal(t, []string{"", "", ""}, reels(m))

	require.NoError(t, m.Start())
	spinToEnd(ctx, t, m, clock)
	assert.Equal(t, 1000, l.Balance())
}

func TestEqualStopsRevealEveryReel(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	cfg := DefaultConfig()
	cfg.Stops = [rules.Reels]time.Duration{500 * time.Millisecond, 500 * time.Millisecond, 500 * time.Millisecond}
	g, err := New(cfg)
	require.NoError(t, err)

	rng := randutil.NewScripted(1)
	rng.Floats = []float64{0.10, 0.30, 0.50}
	clock := quartz.NewMock(t)
	l := ledger.New(ledger.DefaultStartingBalance)
	m := round.NewMachine(g, l, round.WithClock(clock), round.WithRand(rng))
	t.Cleanup(m.Close)

	require.NoError(t, m.Start())
	assert.Equal(t, []string{"", "", ""}, reels(m))
	clock.Advance(500 * time.Millisecond).MustWait(ctx)

	snap := m.Snapshot()
	assert.Equal(t, round.Finished, snap.State)
	assert.Equal(t, []string{"🍒", "🍋", "🍊"}, snap.View.(View).Reels)
	assert.False(t, snap.View.(View).Spinning)
	assert.False(t, snap.Pending)
	assert.Equal(t, 990, l.Balance())
}

func TestConfigValidate(t *testing.T) {
	t.Parallel()

	require.NoError(t, DefaultConfig().Validate())

	bad := DefaultConfig()
	bad.Reel.Weights = []float64{1}
	require.ErrorIs(t, bad.Validate(), rules.ErrPrecondition)

	bad = DefaultConfig()
	bad.Paytable = rules.Paytable{rules.Cherry: -1}
	require.ErrorIs(t, bad.Validate(), rules.ErrPrecondition)

	bad = DefaultConfig()
	bad.Stops[2] = 0
	require.ErrorIs(t, bad.Validate(), rules.ErrPrecondition)

	_, err := New(bad)
	require.Error(t, err)
}
