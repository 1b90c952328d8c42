// Package simulator plays many casino rounds headlessly with the autoplay
// policy and reports the statistics.
package simulator

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/lox/minicasino/internal/casino"
	"github.com/lox/minicasino/internal/randutil"
	"github.com/lox/minicasino/internal/round"
	"github.com/lox/minicasino/internal/rules"
	"github.com/lox/minicasino/internal/statistics"
)

// Config holds configuration for running simulations
type Config struct {
	// Casino is the session template. Its delays are zeroed for speed.
	Casino casino.Config
	Games  []round.Kind
	// Rounds is the number of rounds per game per session.
	Rounds int
	// Sessions is the number of independent sessions, seeded Seed, Seed+1...
	Sessions    int
	Seed        int64
	Parallelism int
	// Timeout bounds the wait for any single continuation.
	Timeout time.Duration
	Logger  *log.Logger
}

// Report is the outcome of a simulation
type Report struct {
	Stats *statistics.Collector
	// Broke counts sessions that ran out of money before finishing.
	Broke int
	Seeds []int64
}

// Simulator runs casino simulations
type Simulator struct {
	config Config
}

// New creates a new simulator with the given configuration
func New(config Config) *Simulator {
	if len(config.Games) == 0 {
		config.Games = round.Kinds
	}
	if config.Sessions <= 0 {
		config.Sessions = 1
	}
	if config.Parallelism <= 0 {
		config.Parallelism = 4
	}
	if config.Timeout <= 0 {
		config.Timeout = 5 * time.Second
	}
	if config.Logger == nil {
		config.Logger = log.New(io.Discard)
	}
	return &Simulator{config: config}
}

// errBroke ends a session that can no longer cover its bet.
var errBroke = errors.New("simulator: balance cannot cover the bet")

// Run executes the simulation and returns results
func (s *Simulator) Run(ctx context.Context) (*Report, error) {
	report := &Report{Stats: statistics.NewCollector()}
	var mu sync.Mutex

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.config.Parallelism)

	for i := range s.config.Sessions {
		seed := s.config.Seed + int64(i)
		report.Seeds = append(report.Seeds, seed)

		g.Go(func() error {
			stats, err := s.runSession(ctx, seed)
			if err != nil && !errors.Is(err, errBroke) {
				return fmt.Errorf("session %d: %w", seed, err)
			}

			mu.Lock()
			defer mu.Unlock()
			report.Stats.Merge(stats)
			if errors.Is(err, errBroke) {
				report.Broke++
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	// A session broke on its first bet leaves nothing to validate.
	if total := report.Stats.Total(); total.Rounds > 0 {
		if err := total.Validate(); err != nil {
			return nil, fmt.Errorf("statistics validation failed: %w", err)
		}
	}
	return report, nil
}

// instant strips every delay from cfg.
func instant(cfg casino.Config) casino.Config {
	cfg.Slots.Stops = [rules.Reels]time.Duration{}
	cfg.Blackjack.DealerDelay = 0
	cfg.Roulette.Spin = 0
	cfg.Uno.BotDelay = 0
	return cfg
}

// runSession plays every configured game in turn on one shared balance.
func (s *Simulator) runSession(ctx context.Context, seed int64) (*statistics.Collector, error) {
	cfg := instant(s.config.Casino)
	cfg.Seed = seed
	session, err := casino.New(cfg, casino.WithLogger(s.config.Logger))
	if err != nil {
		return nil, err
	}
	defer session.Close()

	w := newWatcher()
	session.Subscribe(w)
	defer session.Unsubscribe(w)

	rng := randutil.New(seed)
	logger := s.config.Logger.With("seed", seed)

	for _, kind := range s.config.Games {
		machine, err := session.Machine(kind)
		if err != nil {
			return w.stats, err
		}
		if err := session.SwitchTo(kind); err != nil {
			return w.stats, err
		}
		if err := s.playRounds(ctx, machine, w, rng); err != nil {
			logger.Debug("Session ended early", "game", kind, "error", err)
			return w.stats, err
		}
	}
	logger.Debug("Session finished", "balance", session.Balance())
	return w.stats, nil
}

// playRounds drives machine until it has settled the configured number of
// rounds.
func (s *Simulator) playRounds(ctx context.Context, machine *round.Machine, w *watcher, rng randutil.Source) error {
	kind := machine.Kind()
	for w.settled(kind) < s.config.Rounds {
		if err := ctx.Err(); err != nil {
			return err
		}
		mv, err := casino.Step(machine, rng)
		if err != nil {
			return err
		}
		switch mv.Kind {
		case casino.Stop:
			return errBroke
		case casino.Wait:
			if err := w.wait(ctx, s.config.Timeout); err != nil {
				return fmt.Errorf("%s stalled in %s: %w", kind, machine.Snapshot().State, err)
			}
		}
	}
	return nil
}

// watcher collects results and wakes the driver on every snapshot.
type watcher struct {
	stats  *statistics.Collector
	signal chan struct{}

	mu     sync.Mutex
	counts map[round.Kind]int
}

func newWatcher() *watcher {
	return &watcher{
		stats:  statistics.NewCollector(),
		signal: make(chan struct{}, 1),
		counts: make(map[round.Kind]int),
	}
}

func (w *watcher) OnEvent(snap round.Snapshot) {
	if snap.Result != nil {
		w.stats.OnEvent(snap)
		w.mu.Lock()
		w.counts[snap.Result.Game]++
		w.mu.Unlock()
	}
	select {
	case w.signal <- struct{}{}:
	default:
	}
}

func (w *watcher) settled(kind round.Kind) int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.counts[kind]
}

func (w *watcher) wait(ctx context.Context, timeout time.Duration) error {
	timer := time.NewTimer(timeout)
	defer timer.Stop()
	select {
	case <-w.signal:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return fmt.Errorf("no progress after %v", timeout)
	}
}

// PrintSummary prints a summary of simulation results
func PrintSummary(w io.Writer, report *Report) {
	total := report.Stats.Total()
	fmt.Fprintf(w, "\n=== SIMULATION RESULTS ===\n")
	fmt.Fprintf(w, "Sessions: %d (broke: %d)\n", len(report.Seeds), report.Broke)
	fmt.Fprintf(w, "Rounds played: %d\n", total.Rounds)

	for _, name := range report.Stats.Games() {
		st := report.Stats.Game(name)
		low, high := st.ConfidenceInterval95()
		fmt.Fprintf(w, "\n--- %s ---\n", name)
		fmt.Fprintf(w, "Rounds: %d  W/L/P: %d/%d/%d  win rate: %.1f%%\n",
			st.Rounds, st.Wins, st.Losses, st.Pushes, st.WinRate()*100)
		fmt.Fprintf(w, "Wagered: $%d  Returned: $%d  RTP: %.2f%%\n",
			st.Wagered, st.Returned, st.ReturnToPlayer()*100)
		fmt.Fprintf(w, "Mean: %.3f/round  Std Dev: %.3f  95%% CI: [%.3f, %.3f]\n",
			st.Mean(), st.StdDev(), low, high)
		fmt.Fprintf(w, "Percentiles: P5=%.1f, P50=%.1f, P95=%.1f\n",
			st.Percentile(0.05), st.Median(), st.Percentile(0.95))
	}

	fmt.Fprintf(w, "\n=== TOTAL ===\n")
	fmt.Fprintf(w, "Net: $%d over %d rounds (RTP %.2f%%)\n",
		total.NetTotal, total.Rounds, total.ReturnToPlayer()*100)
}

// GameSummary is the machine-readable form of one game's statistics.
type GameSummary struct {
	Rounds   int        `json:"rounds"`
	Wins     int        `json:"wins"`
	Losses   int        `json:"losses"`
	Pushes   int        `json:"pushes"`
	Wagered  int        `json:"wagered"`
	Returned int        `json:"returned"`
	Net      int        `json:"net"`
	RTP      float64    `json:"rtp"`
	WinRate  float64    `json:"win_rate"`
	Mean     float64    `json:"mean"`
	StdDev   float64    `json:"std_dev"`
	CI95     [2]float64 `json:"ci95"`
}

// Summary is a report ready to be written as JSON.
type Summary struct {
	Seeds []int64                `json:"seeds"`
	Broke int                    `json:"broke"`
	Games map[string]GameSummary `json:"games"`
	Total GameSummary            `json:"total"`
}

func summarize(st statistics.Statistics) GameSummary {
	low, high := st.ConfidenceInterval95()
	return GameSummary{
		Rounds:   st.Rounds,
		Wins:     st.Wins,
		Losses:   st.Losses,
		Pushes:   st.Pushes,
		Wagered:  st.Wagered,
		Returned: st.Returned,
		Net:      st.NetTotal,
		RTP:      st.ReturnToPlayer(),
		WinRate:  st.WinRate(),
		Mean:     st.Mean(),
		StdDev:   st.StdDev(),
		CI95:     [2]float64{low, high},
	}
}

// Summary condenses the report.
func (r *Report) Summary() Summary {
	s := Summary{
		Seeds: r.Seeds,
		Broke: r.Broke,
		Games: make(map[string]GameSummary),
		Total: summarize(r.Stats.Total()),
	}
	for _, name := range r.Stats.Games() {
		s.Games[name] = summarize(r.Stats.Game(name))
	}
	return s
}
