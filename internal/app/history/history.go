package history

import (
	"courierquest/internal/domain/courier"
	"courierquest/internal/domain/game"
)

// Diff records the tracked fields whose value differs from the base
// snapshot. Diffs are always taken against the base, never against the
// previous diff.
type Diff struct {
	Position   *courier.Position
	Stamina    *float64
	Money      *int
	Reputation *int
}

func (d Diff) empty() bool {
	return d.Position == nil && d.Stamina == nil && d.Money == nil && d.Reputation == nil
}

// Manager keeps one full base snapshot plus a bounded queue of sparse
// diffs. Undo is exact only for the four tracked fields; everything
// else in a popped state reverts to the base snapshot. That is the
// intended trade-off of this design, not an oversight.
type Manager struct {
	base    *game.State
	diffs   []Diff
	maxSize int
}

func NewManager() *Manager {
	return &Manager{maxSize: courier.HistoryMaxDiffs}
}

// Push records the state. The first push becomes the base snapshot;
// later pushes append a diff only when a tracked field moved (stamina
// needs more than the jitter threshold).
func (m *Manager) Push(state game.State) {
	if m.base == nil {
		base := state
		m.base = &base
		return
	}

	var d Diff
	if m.base.Player.Position != state.Player.Position {
		pos := state.Player.Position
		d.Position = &pos
	}
	if delta := m.base.Player.Stamina - state.Player.Stamina; delta > courier.HistoryStaminaJitter || delta < -courier.HistoryStaminaJitter {
		st := state.Player.Stamina
		d.Stamina = &st
	}
	if m.base.Player.Money != state.Player.Money {
		money := state.Player.Money
		d.Money = &money
	}
	if m.base.Player.Reputation != state.Player.Reputation {
		rep := state.Player.Reputation
		d.Reputation = &rep
	}
	if d.empty() {
		return
	}

	m.diffs = append(m.diffs, d)
	if len(m.diffs) > m.maxSize {
		m.diffs = m.diffs[1:]
	}
}

// Pop discards the most recent diff and returns the state it encodes:
// diffed values where present, base values everywhere else. The streak
// is always reset in a restored state.
func (m *Manager) Pop() (game.State, bool) {
	if m.base == nil || len(m.diffs) == 0 {
		return game.State{}, false
	}
	d := m.diffs[len(m.diffs)-1]
	m.diffs = m.diffs[:len(m.diffs)-1]

	restored := *m.base
	if d.Position != nil {
		restored.Player.Position = *d.Position
	}
	if d.Stamina != nil {
		restored.Player.Stamina = *d.Stamina
	}
	if d.Money != nil {
		restored.Player.Money = *d.Money
	}
	if d.Reputation != nil {
		restored.Player.Reputation = *d.Reputation
	}
	restored.Scores.Streak = 0
	return restored, true
}

func (m *Manager) Len() int {
	return len(m.diffs)
}

// Reset clears everything; load installs the loaded state as new base.
func (m *Manager) Reset() {
	m.base = nil
	m.diffs = nil
}
