package round

import (
	"sync"
	"time"
)

// Result summarises a finished round.
type Result struct {
	RoundID string `json:"round_id"`
	Game    Kind   `json:"game"`
	Stake   int    `json:"stake"`
	Payout  int    `json:"payout"`
}

// Net is the balance change over the round.
func (r Result) Net() int {
	return r.Payout - r.Stake
}

// Outcome classifies the round as "win", "push" or "loss".
func (r Result) Outcome() string {
	switch n := r.Net(); {
	case n > 0:
		return "win"
	case n == 0:
		return "push"
	default:
		return "loss"
	}
}

// Snapshot is the render-worthy state of one machine. Result is set only on
// the snapshot published when a round settles.
type Snapshot struct {
	Seq       uint64    `json:"seq"`
	Game      Kind      `json:"game"`
	RoundID   string    `json:"round_id,omitempty"`
	State     State     `json:"state"`
	Turn      Turn      `json:"turn"`
	Bet       int       `json:"bet"`
	Stake     int       `json:"stake"`
	Selection string    `json:"selection,omitempty"`
	Balance   int       `json:"balance"`
	Pending   bool      `json:"pending"`
	GameOver  bool      `json:"game_over"`
	Message   Message   `json:"message"`
	Result    *Result   `json:"result,omitempty"`
	View      any       `json:"view,omitempty"`
	At        time.Time `json:"at"`
}

// EventSubscriber receives snapshots. OnEvent is called while the publishing
// machine holds its lock: implementations must not block and must not call
// back into the machine.
type EventSubscriber interface {
	OnEvent(snap Snapshot)
}

// EventBus manages event publishing and subscription
type EventBus interface {
	Subscribe(subscriber EventSubscriber)
	Unsubscribe(subscriber EventSubscriber)
	Publish(snap Snapshot)
}

// SimpleEventBus is a basic in-memory event bus implementation. Several
// machines may share one bus.
type SimpleEventBus struct {
	mu          sync.RWMutex
	subscribers []EventSubscriber
}

// NewEventBus creates a new event bus
func NewEventBus() *SimpleEventBus {
	return &SimpleEventBus{
		subscribers: make([]EventSubscriber, 0),
	}
}

// Subscribe adds a subscriber to receive events
func (bus *SimpleEventBus) Subscribe(subscriber EventSubscriber) {
	bus.mu.Lock()
	defer bus.mu.Unlock()
	bus.subscribers = append(bus.subscribers, subscriber)
}

// Unsubscribe removes a subscriber from receiving events
func (bus *SimpleEventBus) Unsubscribe(subscriber EventSubscriber) {
	bus.mu.Lock()
	defer bus.mu.Unlock()
	for i, sub := range bus.subscribers {
		if sub == subscriber {
			bus.subscribers = append(bus.subscribers[:i], bus.subscribers[i+1:]...)
			break
		}
	}
}

// Publish sends a snapshot to all subscribers in subscription order
func (bus *SimpleEventBus) Publish(snap Snapshot) {
	bus.mu.RLock()
	subs := make([]EventSubscriber, len(bus.subscribers))
	copy(subs, bus.subscribers)
	bus.mu.RUnlock()

	for _, subscriber := range subs {
		subscriber.OnEvent(snap)
	}
}

// Recorder is a subscriber that keeps every snapshot. Useful in tests and
// for replaying a session.
type Recorder struct {
	mu    sync.Mutex
	snaps []Snapshot
}

// OnEvent implements EventSubscriber
func (r *Recorder) OnEvent(snap Snapshot) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.snaps = append(r.snaps, snap)
}

// Snapshots returns a copy of everything recorded so far.
func (r *Recorder) Snapshots() []Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Snapshot, len(r.snaps))
	copy(out, r.snaps)
	return out
}

// States returns the sequence of states recorded, collapsing repeats.
func (r *Recorder) States() []State {
	var out []State
	for _, s := range r.Snapshots() {
		if len(out) == 0 || out[len(out)-1] != s.State {
			out = append(out, s.State)
		}
	}
	return out
}

// Results returns the results of every settled round.
func (r *Recorder) Results() []Result {
	var out []Result
	for _, s := range r.Snapshots() {
		if s.Result != nil {
			out = append(out, *s.Result)
		}
	}
	return out
}
