package statistics

import (
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/lox/minicasino/internal/round"
)

// RoundResult is the money side of one settled round
type RoundResult struct {
	Game    string
	RoundID string
	Stake   int
	Payout  int
}

// Net is the balance change over the round
func (r RoundResult) Net() int {
	return r.Payout - r.Stake
}

// FromResult converts a machine result
func FromResult(r round.Result) RoundResult {
	return RoundResult{
		Game:    string(r.Game),
		RoundID: r.RoundID,
		Stake:   r.Stake,
		Payout:  r.Payout,
	}
}

// Statistics tracks results for one game, or for a whole session
type Statistics struct {
	Rounds  int
	SumNet  float64
	SumNet2 float64   // Sum of squares for variance calculation
	Values  []float64 // Store all values for median/percentile calculation

	Wins   int
	Losses int
	Pushes int

	Wagered  int // Total staked
	Returned int // Total paid back, stakes included
	NetTotal int // Wagered and Returned must reconcile with this
}

// Mean returns the arithmetic mean net result per round
func (s *Statistics) Mean() float64 {
	if s.Rounds == 0 {
		return 0
	}
	return s.SumNet / float64(s.Rounds)
}

// Variance returns the sample variance of all results
func (s *Statistics) Variance() float64 {
	if s.Rounds < 2 {
		return 0
	}
	mean := s.Mean()
	return (s.SumNet2 - float64(s.Rounds)*mean*mean) / float64(s.Rounds-1)
}

// StdDev returns the sample standard deviation of all results
func (s *Statistics) StdDev() float64 {
	return math.Sqrt(s.Variance())
}

// StdError returns the standard error of the mean
func (s *Statistics) StdError() float64 {
	if s.Rounds == 0 {
		return 0
	}
	return s.StdDev() / math.Sqrt(float64(s.Rounds))
}

// ConfidenceInterval95 returns the 95% confidence interval for the mean
func (s *Statistics) ConfidenceInterval95() (float64, float64) {
	mean := s.Mean()
	margin := 1.96 * s.StdError()
	return mean - margin, mean + margin
}

// ReturnToPlayer is Returned over Wagered, 0 when nothing was staked
func (s *Statistics) ReturnToPlayer() float64 {
	if s.Wagered == 0 {
		return 0
	}
	return float64(s.Returned) / float64(s.Wagered)
}

// WinRate is the share of rounds that paid more than their stake
func (s *Statistics) WinRate() float64 {
	if s.Rounds == 0 {
		return 0
	}
	return float64(s.Wins) / float64(s.Rounds)
}

// Add incorporates a new round result into the statistics
func (s *Statistics) Add(result RoundResult) {
	net := result.Net()
	v := float64(net)
	s.Rounds++
	s.SumNet += v
	s.SumNet2 += v * v
	s.Values = append(s.Values, v)

	switch {
	case net > 0:
		s.Wins++
	case net < 0:
		s.Losses++
	default:
		s.Pushes++
	}

	s.Wagered += result.Stake
	s.Returned += result.Payout
	s.NetTotal += net
}

// Merge folds other into s
func (s *Statistics) Merge(other *Statistics) {
	s.Rounds += other.Rounds
	s.SumNet += other.SumNet
	s.SumNet2 += other.SumNet2
	s.Values = append(s.Values, other.Values...)
	s.Wins += other.Wins
	s.Losses += other.Losses
	s.Pushes += other.Pushes
	s.Wagered += other.Wagered
	s.Returned += other.Returned
	s.NetTotal += other.NetTotal
}

// Median returns the median value of all results
func (s *Statistics) Median() float64 {
	if len(s.Values) == 0 {
		return 0
	}
	sorted := make([]float64, len(s.Values))
	copy(sorted, s.Values)
	sort.Float64s(sorted)

	n := len(sorted)
	if n%2 == 0 {
		return (sorted[n/2-1] + sorted[n/2]) / 2
	}
	return sorted[n/2]
}

// Percentile returns the value at the given percentile (0.0 to 1.0)
func (s *Statistics) Percentile(p float64) float64 {
	if len(s.Values) == 0 {
		return 0
	}
	sorted := make([]float64, len(s.Values))
	copy(sorted, s.Values)
	sort.Float64s(sorted)

	index := p * float64(len(sorted)-1)
	lower := int(index)
	upper := lower + 1

	if upper >= len(sorted) {
		return sorted[len(sorted)-1]
	}

	weight := index - float64(lower)
	return sorted[lower]*(1-weight) + sorted[upper]*weight
}

// IsLedgerBalanced checks that money in and out reconciles with the net
func (s *Statistics) IsLedgerBalanced() bool {
	return s.Returned-s.Wagered == s.NetTotal &&
		math.Abs(float64(s.NetTotal)-s.SumNet) <= 1e-6
}

// Validate performs comprehensive validation of statistics data
func (s *Statistics) Validate() error {
	if !s.IsLedgerBalanced() {
		return fmt.Errorf("ledger mismatch: wagered=%d returned=%d net=%d sum=%.2f",
			s.Wagered, s.Returned, s.NetTotal, s.SumNet)
	}
	if s.Rounds <= 0 {
		return fmt.Errorf("invalid rounds count: %d", s.Rounds)
	}
	if len(s.Values) != s.Rounds {
		return fmt.Errorf("values array length (%d) does not match rounds count (%d)",
			len(s.Values), s.Rounds)
	}
	if s.Wins+s.Losses+s.Pushes != s.Rounds {
		return fmt.Errorf("outcomes (%d) do not add up to rounds (%d)",
			s.Wins+s.Losses+s.Pushes, s.Rounds)
	}
	return nil
}

// Collector is an event subscriber that keeps per-game and session totals.
type Collector struct {
	mu    sync.Mutex
	total Statistics
	games map[string]*Statistics
}

// NewCollector creates an empty collector
func NewCollector() *Collector {
	return &Collector{games: make(map[string]*Statistics)}
}

// OnEvent implements round.EventSubscriber
func (c *Collector) OnEvent(snap round.Snapshot) {
	if snap.Result == nil {
		return
	}
	c.Add(FromResult(*snap.Result))
}

// Add records one result
func (c *Collector) Add(result RoundResult) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.total.Add(result)
	g, ok := c.games[result.Game]
	if !ok {
		g = &Statistics{}
		c.games[result.Game] = g
	}
	g.Add(result)
}

// Total returns a copy of the session totals
func (c *Collector) Total() Statistics {
	c.mu.Lock()
	defer c.mu.Unlock()
	return clone(&c.total)
}

// Game returns a copy of the totals for one game
func (c *Collector) Game(name string) Statistics {
	c.mu.Lock()
	defer c.mu.Unlock()
	if g, ok := c.games[name]; ok {
		return clone(g)
	}
	return Statistics{}
}

// Games lists the games that have results, sorted by name
func (c *Collector) Games() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	names := make([]string, 0, len(c.games))
	for name := range c.games {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Merge folds other's results into c
func (c *Collector) Merge(other *Collector) {
	other.mu.Lock()
	total := clone(&other.total)
	games := make(map[string]Statistics, len(other.games))
	for name, g := range other.games {
		games[name] = clone(g)
	}
	other.mu.Unlock()

	c.mu.Lock()
	defer c.mu.Unlock()
	c.total.Merge(&total)
	for name, g := range games {
		mine, ok := c.games[name]
		if !ok {
			mine = &Statistics{}
			c.games[name] = mine
		}
		mine.Merge(&g)
	}
}

func clone(s *Statistics) Statistics {
	out := *s
	out.Values = append([]float64(nil), s.Values...)
	return out
}
