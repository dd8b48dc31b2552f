package session

import (
	"context"
	"errors"
	"math/rand"
	"testing"

	"courierquest/internal/domain/courier"
)

func TestInitializeSeedsFreshSession(t *testing.T) {
	ts := newTestSession(t)
	snap := ts.sim.Snapshot()

	if snap.Player.Stamina != 100 || snap.Player.Reputation != 70 || snap.Player.Money != 0 {
		t.Fatalf("unexpected starting stats: %+v", snap.Player)
	}
	if snap.Player.MaxWeight != 10 {
		t.Fatalf("expected max weight 10, got %d", snap.Player.MaxWeight)
	}
	if snap.Goal != 3000 {
		t.Fatalf("the income goal is fixed at 3000, got %d", snap.Goal)
	}
	if snap.CityName != "TestCity" {
		t.Fatalf("expected TestCity, got %s", snap.CityName)
	}
	if snap.PendingCount != 25 {
		t.Fatalf("thin feeds pad to 25 orders, got %d", snap.PendingCount)
	}
	if snap.DataSource != "remote" {
		t.Fatalf("expected remote source, got %s", snap.DataSource)
	}
	if len(snap.Notices) == 0 {
		t.Fatal("expected a welcome notice")
	}
	if snap.GameOver {
		t.Fatal("fresh session must not be over")
	}
}

func TestInitializeFailsWhenProviderErrors(t *testing.T) {
	sim := New(&fakeProvider{mapErr: errProviderDown}, newFakeSaveStore(), &fakeScoreStore{}, newFakeMetrics(), rand.New(rand.NewSource(1)))
	if err := sim.Initialize(context.Background()); !errors.Is(err, ErrInitFailed) {
		t.Fatalf("expected init failure, got %v", err)
	}
	if _, err := sim.Apply(context.Background(), Command{Type: CmdMove, Direction: DirUp}); !errors.Is(err, ErrNotInitialized) {
		t.Fatalf("expected not-initialized error, got %v", err)
	}
}

func TestTickReleasesDueOrders(t *testing.T) {
	ts := newTestSession(t)
	// Force every backlog order due immediately.
	backlog := ts.sim.sched.Backlog()
	for i := range backlog {
		backlog[i].ReleaseTime = 0
	}
	ts.sim.sched.SetBacklog(backlog)

	ts.sim.Tick(context.Background(), 0.1)
	snap := ts.sim.Snapshot()
	if len(snap.ActiveOrders) != 3 {
		t.Fatalf("first release wave must be 3 orders, got %d", len(snap.ActiveOrders))
	}
	if snap.PendingCount != 22 {
		t.Fatalf("expected 22 still pending, got %d", snap.PendingCount)
	}
}

func TestTickExpiresOrdersAndChargesReputation(t *testing.T) {
	ts := newTestSession(t)
	ts.sim.sched.SetBacklog(nil)
	ts.giveOrder(t, "ord-exp", 1)

	ts.sim.Tick(context.Background(), 121)
	snap := ts.sim.Snapshot()
	if snap.ExpiredCount != 1 {
		t.Fatalf("expected 1 expired order, got %d", snap.ExpiredCount)
	}
	if snap.Player.Reputation != 64 {
		t.Fatalf("expected reputation 64 after expiry, got %d", snap.Player.Reputation)
	}
}

func TestTickRegeneratesWhenIdle(t *testing.T) {
	ts := newTestSession(t)
	ts.sim.sched.SetBacklog(nil)
	ts.sim.player.Stamina = 50
	ts.sim.lastMoveAt = -10

	ts.sim.Tick(context.Background(), 2)
	if got := ts.sim.player.Stamina; got != 60 {
		t.Fatalf("expected stamina 60 after 2s idle, got %v", got)
	}
}

func TestTickDoesNotRegenerateRightAfterMoving(t *testing.T) {
	ts := newTestSession(t)
	ts.sim.sched.SetBacklog(nil)
	ts.sim.player.Stamina = 50
	ts.sim.lastMoveAt = ts.sim.clock.GameTime

	ts.sim.Tick(context.Background(), 0.5)
	if got := ts.sim.player.Stamina; got != 50 {
		t.Fatalf("expected no regen inside the idle cooldown, got %v", got)
	}
}

func TestVictoryAtGoal(t *testing.T) {
	ts := newTestSession(t)
	ts.sim.player.Money = 3000

	ts.sim.Tick(context.Background(), 0.1)
	snap := ts.sim.Snapshot()
	if !snap.GameOver || !snap.Victory {
		t.Fatalf("expected victory, got %+v", snap)
	}
	if snap.FinalScore <= 0 {
		t.Fatalf("expected a positive final score, got %d", snap.FinalScore)
	}
	if len(ts.scores.records) != 1 {
		t.Fatalf("expected one score record, got %d", len(ts.scores.records))
	}
	if !ts.scores.records[0].Victory {
		t.Fatal("recorded score must mark the victory")
	}

	// Further ticks must not double-record.
	ts.sim.Tick(context.Background(), 1)
	if len(ts.scores.records) != 1 {
		t.Fatalf("score recorded twice: %d", len(ts.scores.records))
	}
}

func TestDefeatAtLowReputation(t *testing.T) {
	ts := newTestSession(t)
	ts.sim.player.Reputation = 19

	ts.sim.Tick(context.Background(), 0.1)
	snap := ts.sim.Snapshot()
	if !snap.GameOver || snap.Victory {
		t.Fatalf("expected defeat, got over=%v victory=%v", snap.GameOver, snap.Victory)
	}
}

func TestTimeLimitEndsSession(t *testing.T) {
	ts := newTestSession(t)
	ts.sim.sched.SetBacklog(nil)

	ts.sim.Tick(context.Background(), 600)
	snap := ts.sim.Snapshot()
	if !snap.GameOver {
		t.Fatal("expected game over at the time limit")
	}
	if snap.Victory {
		t.Fatal("goal not met, so no victory")
	}
	if snap.GameTime != 600 {
		t.Fatalf("expected clock at 600, got %v", snap.GameTime)
	}
}

func TestExhaustionRecoveryHysteresis(t *testing.T) {
	ts := newTestSession(t)
	ts.sim.sched.SetBacklog(nil)
	ts.sim.player.Stamina = 0
	ts.sim.gate.Observe(0)
	ts.sim.lastMoveAt = -10

	// 5/s regen: still blocked below 30, moving again at 30.
	ts.sim.Tick(context.Background(), 5)
	if ts.sim.gate.CanMove(ts.sim.player.Stamina) {
		t.Fatalf("expected still blocked at %v stamina", ts.sim.player.Stamina)
	}
	ts.sim.Tick(context.Background(), 1)
	if !ts.sim.gate.CanMove(ts.sim.player.Stamina) {
		t.Fatalf("expected recovery at %v stamina", ts.sim.player.Stamina)
	}
	if ts.sim.player.Stamina != 30 {
		t.Fatalf("expected stamina exactly 30, got %v", ts.sim.player.Stamina)
	}
}

func TestHistoryCheckpointCadence(t *testing.T) {
	ts := newTestSession(t)
	ts.sim.sched.SetBacklog(nil)
	ts.sim.player.Money = 100

	ts.sim.Tick(context.Background(), 7.9)
	if ts.sim.hist.Len() != 0 {
		t.Fatalf("no checkpoint before 8s, got %d", ts.sim.hist.Len())
	}
	ts.sim.Tick(context.Background(), 0.2)
	if ts.sim.hist.Len() != 1 {
		t.Fatalf("expected one checkpoint after 8s, got %d", ts.sim.hist.Len())
	}
}

func TestSnapshotCopiesOrders(t *testing.T) {
	ts := newTestSession(t)
	ts.giveOrder(t, "ord-1", 2)

	snap := ts.sim.Snapshot()
	if len(snap.ActiveOrders) != 1 {
		t.Fatalf("expected 1 active order, got %d", len(snap.ActiveOrders))
	}
	v := snap.ActiveOrders[0]
	if v.ID != "ord-1" || v.Status != courier.StatusAvailable {
		t.Fatalf("unexpected order view %+v", v)
	}
	if v.TimeRemaining != 120 {
		t.Fatalf("expected full 120s remaining, got %v", v.TimeRemaining)
	}
}
