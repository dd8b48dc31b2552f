package history

import (
	"testing"

	"courierquest/internal/domain/courier"
	"courierquest/internal/domain/game"
)

func baseState() game.State {
	return game.State{
		Player: courier.PlayerState{
			Position:   courier.Position{X: 2, Y: 2},
			Stamina:    100,
			Reputation: 70,
			Money:      0,
			MaxWeight:  10,
		},
		Scores: courier.ScoreKeeper{Streak: 2, LastDeliveryClean: true},
		Goal:   3000,
	}
}

func TestFirstPushBecomesBase(t *testing.T) {
	m := NewManager()
	m.Push(baseState())
	if m.Len() != 0 {
		t.Fatalf("base snapshot must not count as a diff, got %d", m.Len())
	}
	if _, ok := m.Pop(); ok {
		t.Fatal("nothing to pop with only the base recorded")
	}
}

func TestPushRecordsChangedFieldsOnly(t *testing.T) {
	m := NewManager()
	m.Push(baseState())

	st := baseState()
	st.Player.Position = courier.Position{X: 5, Y: 2}
	st.Player.Money = 150
	m.Push(st)

	if m.Len() != 1 {
		t.Fatalf("expected 1 diff, got %d", m.Len())
	}
	restored, ok := m.Pop()
	if !ok {
		t.Fatal("expected a restorable state")
	}
	if restored.Player.Position != (courier.Position{X: 5, Y: 2}) {
		t.Fatalf("expected diffed position, got %+v", restored.Player.Position)
	}
	if restored.Player.Money != 150 {
		t.Fatalf("expected diffed money 150, got %d", restored.Player.Money)
	}
	if restored.Player.Stamina != 100 {
		t.Fatalf("untracked stamina must come from the base, got %v", restored.Player.Stamina)
	}
}

func TestStaminaJitterIsIgnored(t *testing.T) {
	m := NewManager()
	m.Push(baseState())

	st := baseState()
	st.Player.Stamina = 99.5
	m.Push(st)
	if m.Len() != 0 {
		t.Fatal("sub-threshold stamina wiggle must not create a diff")
	}

	st.Player.Stamina = 95
	m.Push(st)
	if m.Len() != 1 {
		t.Fatal("a real stamina drop must create a diff")
	}
}

func TestIdenticalPushIsSkipped(t *testing.T) {
	m := NewManager()
	m.Push(baseState())
	m.Push(baseState())
	if m.Len() != 0 {
		t.Fatalf("unchanged state must not create a diff, got %d", m.Len())
	}
}

func TestDiffWindowIsBounded(t *testing.T) {
	m := NewManager()
	m.Push(baseState())
	for i := 1; i <= 30; i++ {
		st := baseState()
		st.Player.Money = i
		m.Push(st)
	}
	if m.Len() != courier.HistoryMaxDiffs {
		t.Fatalf("expected window of %d diffs, got %d", courier.HistoryMaxDiffs, m.Len())
	}

	// The newest diff survives; the oldest ones were dropped.
	restored, ok := m.Pop()
	if !ok || restored.Player.Money != 30 {
		t.Fatalf("expected newest diff first, got %+v ok=%v", restored.Player, ok)
	}
}

func TestPopResetsStreak(t *testing.T) {
	m := NewManager()
	m.Push(baseState())
	st := baseState()
	st.Player.Money = 10
	m.Push(st)

	restored, ok := m.Pop()
	if !ok {
		t.Fatal("expected a restorable state")
	}
	if restored.Scores.Streak != 0 {
		t.Fatalf("restored streak must be 0, got %d", restored.Scores.Streak)
	}
}

func TestPopIsLIFO(t *testing.T) {
	m := NewManager()
	m.Push(baseState())
	for _, money := range []int{10, 20, 30} {
		st := baseState()
		st.Player.Money = money
		m.Push(st)
	}
	for _, want := range []int{30, 20, 10} {
		restored, ok := m.Pop()
		if !ok || restored.Player.Money != want {
			t.Fatalf("expected money %d, got %+v ok=%v", want, restored.Player.Money, ok)
		}
	}
	if _, ok := m.Pop(); ok {
		t.Fatal("expected exhausted history")
	}
}

func TestReset(t *testing.T) {
	m := NewManager()
	m.Push(baseState())
	st := baseState()
	st.Player.Money = 10
	m.Push(st)

	m.Reset()
	if m.Len() != 0 {
		t.Fatalf("expected empty after reset, got %d", m.Len())
	}
	if _, ok := m.Pop(); ok {
		t.Fatal("reset must drop the base as well")
	}
}
