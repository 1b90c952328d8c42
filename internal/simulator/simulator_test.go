package simulator

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/lox/minicasino/internal/casino"
	"github.com/lox/minicasino/internal/round"
)

func testConfig() Config {
	return Config{
		Casino:   casino.DefaultConfig(),
		Rounds:   5,
		Sessions: 2,
		Seed:     12345,
		Timeout:  5 * time.Second,
		Logger:   log.New(io.Discard),
	}
}

func TestNew(t *testing.T) {
	sim := New(Config{Rounds: 10})
	if sim == nil {
		t.Fatal("New() returned nil")
	}
	if len(sim.config.Games) != len(round.Kinds) {
		t.Errorf("Expected all %d games, got %v", len(round.Kinds), sim.config.Games)
	}
	if sim.config.Sessions != 1 {
		t.Errorf("Expected 1 session by default, got %d", sim.config.Sessions)
	}
	if sim.config.Parallelism <= 0 {
		t.Errorf("Expected positive parallelism, got %d", sim.config.Parallelism)
	}
	if sim.config.Logger == nil {
		t.Error("Expected a default logger")
	}
}

func TestSimulator_Run(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	report, err := New(testConfig()).Run(ctx)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if len(report.Seeds) != 2 {
		t.Errorf("Expected 2 seeds, got %v", report.Seeds)
	}

	total := report.Stats.Total()
	if total.Rounds == 0 {
		t.Fatal("Expected rounds to be played")
	}
	if total.Wins+total.Losses+total.Pushes != total.Rounds {
		t.Errorf("Outcome counts %d/%d/%d do not add up to %d rounds",
			total.Wins, total.Losses, total.Pushes, total.Rounds)
	}
	if total.NetTotal != total.Returned-total.Wagered {
		t.Errorf("Net %d != returned %d - wagered %d", total.NetTotal, total.Returned, total.Wagered)
	}

	// Every game is played unless a session went broke on the way.
	if report.Broke == 0 {
		for _, kind := range round.Kinds {
			st := report.Stats.Game(string(kind))
			if st.Rounds != 10 {
				t.Errorf("Expected 10 %s rounds, got %d", kind, st.Rounds)
			}
		}
	}
}

func TestSimulator_SingleGame(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	cfg := testConfig()
	cfg.Games = []round.Kind{round.Slots}
	cfg.Rounds = 20
	cfg.Sessions = 1

	report, err := New(cfg).Run(ctx)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if games := report.Stats.Games(); len(games) != 1 || games[0] != string(round.Slots) {
		t.Errorf("Expected only slots, got %v", games)
	}
	st := report.Stats.Game(string(round.Slots))
	if st.Rounds != 20 {
		t.Errorf("Expected 20 rounds, got %d", st.Rounds)
	}
	if st.Wagered != 20*cfg.Casino.DefaultBet {
		t.Errorf("Expected $%d wagered, got $%d", 20*cfg.Casino.DefaultBet, st.Wagered)
	}
}

func TestSimulator_Deterministic(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	cfg := testConfig()
	cfg.Games = []round.Kind{round.Slots, round.Roulette}
	cfg.Sessions = 1

	first, err := New(cfg).Run(ctx)
	if err != nil {
		t.Fatalf("first run failed: %v", err)
	}
	second, err := New(cfg).Run(ctx)
	if err != nil {
		t.Fatalf("second run failed: %v", err)
	}
	if a, b := first.Stats.Total().NetTotal, second.Stats.Total().NetTotal; a != b {
		t.Errorf("Same seed gave different results: %d vs %d", a, b)
	}
}

func TestSimulator_Broke(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	cfg := testConfig()
	cfg.Casino.StartingBalance = 5
	cfg.Sessions = 1

	report, err := New(cfg).Run(ctx)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if report.Broke != 1 {
		t.Errorf("Expected the session to go broke, got %d", report.Broke)
	}
	if report.Stats.Total().Rounds != 0 {
		t.Errorf("Expected no rounds, got %d", report.Stats.Total().Rounds)
	}
}

func TestSimulator_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	cfg := testConfig()
	cfg.Rounds = 1000
	cfg.Games = []round.Kind{round.Roulette}

	if _, err := New(cfg).Run(ctx); err == nil {
		t.Error("Expected an error from a cancelled context")
	}
}

func TestPrintSummary(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	cfg := testConfig()
	cfg.Games = []round.Kind{round.Blackjack}
	report, err := New(cfg).Run(ctx)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	summary := report.Summary()
	if got := summary.Games["blackjack"].Rounds; got != 10 {
		t.Errorf("Expected 10 blackjack rounds in summary, got %d", got)
	}
	if summary.Total.Net != summary.Total.Returned-summary.Total.Wagered {
		t.Errorf("Summary net %d does not reconcile", summary.Total.Net)
	}

	var buf bytes.Buffer
	PrintSummary(&buf, report)
	out := buf.String()
	for _, want := range []string{"SIMULATION RESULTS", "--- blackjack ---", "RTP", "=== TOTAL ==="} {
		if !strings.Contains(out, want) {
			t.Errorf("summary missing %q:\n%s", want, out)
		}
	}
}
