// Package metrics exports round outcomes as Prometheus series.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/lox/minicasino/internal/round"
)

const (
	labelGame    = "game"
	labelOutcome = "outcome"
)

// Recorder is a round.EventSubscriber that counts settled rounds. One
// Recorder may be subscribed to many sessions.
type Recorder struct {
	rounds  *prometheus.CounterVec
	wagered *prometheus.CounterVec
	paid    *prometheus.CounterVec
	open    prometheus.Gauge
}

// NewRecorder registers the casino series with reg.
func NewRecorder(reg prometheus.Registerer) *Recorder {
	f := promauto.With(reg)
	return &Recorder{
		rounds: f.NewCounterVec(prometheus.CounterOpts{
			Name: "minicasino_rounds_total",
			Help: "Settled rounds by game and outcome.",
		}, []string{labelGame, labelOutcome}),
		wagered: f.NewCounterVec(prometheus.CounterOpts{
			Name: "minicasino_wagered_total",
			Help: "Chips staked on settled rounds.",
		}, []string{labelGame}),
		paid: f.NewCounterVec(prometheus.CounterOpts{
			Name: "minicasino_paid_total",
			Help: "Chips returned to the player.",
		}, []string{labelGame}),
		open: f.NewGauge(prometheus.GaugeOpts{
			Name: "minicasino_sessions",
			Help: "Sessions currently connected.",
		}),
	}
}

// OnEvent implements round.EventSubscriber.
func (r *Recorder) OnEvent(snap round.Snapshot) {
	res := snap.Result
	if res == nil {
		return
	}
	game := string(res.Game)
	r.rounds.WithLabelValues(game, res.Outcome()).Inc()
	r.wagered.WithLabelValues(game).Add(float64(res.Stake))
	r.paid.WithLabelValues(game).Add(float64(res.Payout))
}

// SessionOpened counts a new session.
func (r *Recorder) SessionOpened() { r.open.Inc() }

// SessionClosed uncounts a session.
func (r *Recorder) SessionClosed() { r.open.Dec() }
