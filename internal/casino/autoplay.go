package casino

import (
	"github.com/coder/quartz"

	"github.com/lox/minicasino/internal/round"
)

type autoplayLoop struct {
	cfg     AutoplayConfig
	timer   *quartz.Timer
	started bool
}

func (m *Manager) autoplayConfig(kind round.Kind) (AutoplayConfig, error) {
	switch kind {
	case round.Roulette:
		return m.cfg.RouletteAutoplay, nil
	case round.Uno:
		return m.cfg.UnoAutoplay, nil
	default:
		return AutoplayConfig{}, ErrNoAutoplay
	}
}

// StartAutoplay begins playing kind automatically. The loop stops itself when
// the game is no longer open or the balance cannot cover the bet; an Uno loop
// also stops once its round is over.
func (m *Manager) StartAutoplay(kind round.Kind) error {
	cfg, err := m.autoplayConfig(kind)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if _, running := m.autoplay[kind]; running {
		return nil
	}
	loop := &autoplayLoop{cfg: cfg}
	m.autoplay[kind] = loop
	loop.timer = m.clock.AfterFunc(cfg.Delay, func() { m.autoplayTick(kind, loop) })
	m.logger.Info("Autoplay on", "game", kind)
	return nil
}

// StopAutoplay ends the loop for kind, if any.
func (m *Manager) StopAutoplay(kind round.Kind) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stopAutoplayLocked(kind, nil, "stopped")
}

// Autoplaying reports whether kind has a running loop.
func (m *Manager) Autoplaying(kind round.Kind) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.autoplay[kind]
	return ok
}

// stopAutoplayLocked removes the loop for kind. If loop is non-nil only that
// loop is removed, so a stale tick cannot stop a newer loop.
func (m *Manager) stopAutoplayLocked(kind round.Kind, loop *autoplayLoop, reason string) {
	current, ok := m.autoplay[kind]
	if !ok || (loop != nil && current != loop) {
		return
	}
	current.timer.Stop()
	delete(m.autoplay, kind)
	m.logger.Info("Autoplay off", "game", kind, "reason", reason)
}

func (m *Manager) autoplayTick(kind round.Kind, loop *autoplayLoop) {
	m.mu.Lock()
	if m.autoplay[kind] != loop {
		m.mu.Unlock()
		return
	}
	if m.current != string(kind) {
		m.stopAutoplayLocked(kind, loop, "left the table")
		m.mu.Unlock()
		return
	}
	m.mu.Unlock()

	machine := m.machines[kind]
	snap := machine.Snapshot()
	if kind == round.Uno && loop.started && snap.State == round.Finished {
		m.mu.Lock()
		m.stopAutoplayLocked(kind, loop, "round over")
		m.mu.Unlock()
		return
	}

	m.rngMu.Lock()
	mv, err := Step(machine, m.rng)
	m.rngMu.Unlock()

	if err != nil {
		m.logger.Debug("Autoplay move rejected", "game", kind, "move", mv, "error", err)
	}
	if mv.Kind == Start && err == nil {
		loop.started = true
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if mv.Kind == Stop {
		m.stopAutoplayLocked(kind, loop, mv.Reason)
		return
	}
	if m.autoplay[kind] == loop {
		loop.timer = m.clock.AfterFunc(loop.cfg.Interval, func() { m.autoplayTick(kind, loop) })
	}
}
