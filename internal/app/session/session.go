package session

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"courierquest/internal/app/history"
	"courierquest/internal/app/ingest"
	"courierquest/internal/app/ports"
	"courierquest/internal/app/scheduler"
	"courierquest/internal/domain/city"
	"courierquest/internal/domain/courier"
	"courierquest/internal/domain/game"
	"courierquest/internal/domain/weather"
)

var (
	ErrNotInitialized = errors.New("session not initialized")
	ErrInitFailed     = errors.New("session initialization failed")
	ErrUnknownCommand = errors.New("unknown command")
)

const maxNotices = 10

// Simulation is the single owner of all mutable game state. Every
// mutation happens inside Tick or a command handler under one lock;
// subsystems never run concurrently with each other.
type Simulation struct {
	Provider ports.CityProvider
	Saves    ports.SaveStore
	Scores   ports.ScoreStore
	Metrics  ports.CommandMetrics
	Now      func() time.Time

	mu  sync.Mutex
	rng *rand.Rand

	initialized bool
	player      courier.PlayerState
	gate        courier.MovementGate
	keeper      courier.ScoreKeeper
	clock       courier.Clock
	weather     *weather.System
	cityMap     city.Map
	sched       *scheduler.Scheduler
	hist        *history.Manager

	inventory []courier.Order
	completed []courier.Order
	expired   []courier.Order

	goal          int
	gameOver      bool
	victory       bool
	finalScore    int
	scoreRecorded bool

	lastMoveAt    float64
	lastHistoryAt float64
	lastCondition weather.Condition
	notices       []Notice
	dataSource    ports.DataSource
}

func New(provider ports.CityProvider, saves ports.SaveStore, scores ports.ScoreStore, metrics ports.CommandMetrics, rng *rand.Rand) *Simulation {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Simulation{
		Provider: provider,
		Saves:    saves,
		Scores:   scores,
		Metrics:  metrics,
		Now:      time.Now,
		rng:      rng,
	}
}

// Initialize performs the single boundary-crossing fetch of world data
// and seeds a fresh session. Provider errors are fatal; provider
// fallbacks (cache, generated data) are not errors and the session
// continues offline.
func (s *Simulation) Initialize(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	mapRes, err := s.Provider.FetchMap(ctx)
	if err != nil {
		return fmt.Errorf("%w: fetch map: %v", ErrInitFailed, err)
	}
	m := mapRes.Map
	m.Legend = city.NormalizeLegend(m.Legend)
	// The money goal is fixed for every city, whatever the feed says.
	m.Goal = courier.FixedGoal
	if m.MaxTime <= 0 {
		m.MaxTime = courier.DefaultMaxGameTime
	}
	if err := m.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInitFailed, err)
	}

	jobsRes, err := s.Provider.FetchJobs(ctx)
	if err != nil {
		return fmt.Errorf("%w: fetch jobs: %v", ErrInitFailed, err)
	}
	orders := ingest.Normalizer{Map: m, RNG: s.rng}.Normalize(jobsRes.Jobs)

	s.cityMap = m
	s.goal = m.Goal
	s.player = courier.PlayerState{
		Position:   m.StartingPosition(),
		Stamina:    courier.StartingStamina,
		Reputation: courier.StartingReputation,
		Money:      courier.StartingMoney,
		MaxWeight:  courier.DefaultMaxWeight,
	}
	s.gate = courier.MovementGate{}
	s.keeper = courier.ScoreKeeper{LastDeliveryClean: true}
	s.clock = courier.Clock{MaxGameTime: m.MaxTime}
	s.weather = weather.NewSystem(s.rng)
	s.lastCondition = s.weather.Current
	s.sched = scheduler.New(orders)
	s.hist = history.NewManager()
	s.inventory = nil
	s.completed = nil
	s.expired = nil
	s.gameOver, s.victory, s.scoreRecorded = false, false, false
	s.finalScore = 0
	s.lastMoveAt = -courier.RegenIdleCooldown
	s.lastHistoryAt = 0
	s.notices = nil
	s.dataSource = mapRes.Source

	s.hist.Push(s.composeState())
	s.pushNotice(fmt.Sprintf("Welcome to %s! Goal: $%d", m.Name, s.goal))
	s.initialized = true
	return nil
}

// Tick advances the simulation by dt seconds of game time: clock,
// weather, order releases, the expiry sweep, passive recovery, the
// history cadence and the end-of-session checks, in that order.
func (s *Simulation) Tick(ctx context.Context, dt float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.initialized || s.gameOver || dt <= 0 {
		return
	}

	s.clock.Advance(dt)
	now := s.clock.GameTime

	s.weather.Update(dt)
	if cond := s.weather.EffectiveCondition(); cond != s.lastCondition {
		s.pushNotice(fmt.Sprintf("Weather shifting to %s", cond))
		s.lastCondition = cond
	}

	for _, o := range s.sched.Release(now, s.cityMap) {
		s.pushNotice(fmt.Sprintf("New order %s (P%d) $%d", o.ID, o.Priority, o.Payout))
	}

	s.sweepExpired(now)
	s.regenerate(now, dt)

	if now-s.lastHistoryAt >= courier.HistoryCadence {
		s.hist.Push(s.composeState())
		s.lastHistoryAt = now
	}

	s.checkEndConditions(ctx)
}

func (s *Simulation) sweepExpired(now float64) {
	expired := s.sched.SweepExpired(now)

	kept := s.inventory[:0]
	for _, o := range s.inventory {
		if o.TimeRemaining(now) > 0 {
			kept = append(kept, o)
			continue
		}
		o.Status = courier.StatusExpired
		expired = append(expired, o)
	}
	s.inventory = kept

	for _, o := range expired {
		s.player.Reputation = s.keeper.ApplyExpiry(s.player.Reputation)
		s.expired = append(s.expired, o)
		s.pushNotice(fmt.Sprintf("%s expired (-6 reputation)", o.ID))
	}
}

func (s *Simulation) regenerate(now, dt float64) {
	if s.player.Stamina >= courier.MaxStamina {
		return
	}
	if now-s.lastMoveAt <= courier.RegenIdleCooldown {
		return
	}
	wasBlocked := !s.gate.CanMove(s.player.Stamina)
	rate := courier.RegenRate(s.cityMap.RestBonus(s.player.Position))
	s.player.Stamina = courier.ClampStamina(s.player.Stamina + rate*dt)
	s.gate.Observe(s.player.Stamina)
	if wasBlocked && s.gate.CanMove(s.player.Stamina) {
		s.pushNotice("Recovered: you can move again")
	}
}

func (s *Simulation) checkEndConditions(ctx context.Context) {
	switch {
	case s.player.Reputation < courier.DefeatRepThreshold:
		s.finish(ctx, false, "Game over: reputation too low")
	case s.player.Money >= s.goal:
		s.finish(ctx, true, "Victory! Income goal reached")
	case s.clock.Expired():
		won := s.player.Money >= s.goal
		msg := "Time is up! Goal not met"
		if won {
			msg = "Victory! Time is up but the goal was met"
		}
		s.finish(ctx, won, msg)
	}
}

func (s *Simulation) finish(ctx context.Context, victory bool, msg string) {
	s.gameOver = true
	s.victory = victory
	s.pushNotice(msg)
	if s.scoreRecorded {
		return
	}
	s.finalScore = courier.FinalScore(
		s.player.Money, s.player.Reputation, len(s.completed),
		s.clock.GameTime, s.clock.MaxGameTime, victory,
	)
	rec := ports.ScoreRecord{
		Score:           s.finalScore,
		Money:           s.player.Money,
		Reputation:      s.player.Reputation,
		CompletedOrders: len(s.completed),
		GameTime:        s.clock.GameTime,
		Date:            s.Now(),
		Victory:         victory,
		StreakRecord:    s.keeper.Streak,
		CitySize:        fmt.Sprintf("%dx%d", s.cityMap.Width, s.cityMap.Height),
	}
	if s.Scores != nil {
		_ = s.Scores.Add(ctx, rec)
	}
	s.scoreRecorded = true
}

// Snapshot returns a copied, read-only view of the session.
func (s *Simulation) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock.GameTime
	snap := Snapshot{
		Player:         s.player,
		MovementState:  s.gate.State(s.player.Stamina),
		Speed:          s.currentSpeed(),
		CarriedWeight:  courier.TotalWeight(s.inventory),
		GameTime:       now,
		MaxGameTime:    s.clock.MaxGameTime,
		Goal:           s.goal,
		CityName:       s.cityMap.Name,
		PendingCount:   pendingCount(s.sched),
		CompletedCount: len(s.completed),
		ExpiredCount:   len(s.expired),
		DataSource:     s.dataSource,
		GameOver:       s.gameOver,
		Victory:        s.victory,
		FinalScore:     s.finalScore,
	}
	if s.weather != nil {
		snap.Weather = WeatherView{
			Condition:      s.weather.EffectiveCondition(),
			Intensity:      s.weather.Intensity,
			Transitioning:  s.weather.Transitioning,
			SpeedMult:      s.weather.SpeedMultiplier(),
			StaminaPenalty: s.weather.StaminaPenalty(),
		}
	}
	if s.sched != nil {
		snap.ActiveOrders = orderViews(s.sched.Active().Items(), now)
	}
	snap.Inventory = orderViews(s.inventory, now)
	if s.hist != nil {
		snap.UndoDepth = s.hist.Len()
	}
	snap.Notices = append([]Notice(nil), s.notices...)
	return snap
}

func pendingCount(sched *scheduler.Scheduler) int {
	if sched == nil {
		return 0
	}
	return sched.PendingCount()
}

func orderViews(orders []courier.Order, now float64) []OrderView {
	out := make([]OrderView, 0, len(orders))
	for _, o := range orders {
		out = append(out, OrderView{
			ID:            o.ID,
			Pickup:        o.Pickup,
			Dropoff:       o.Dropoff,
			Payout:        o.Payout,
			Weight:        o.Weight,
			Priority:      o.Priority,
			Status:        o.Status,
			TimeRemaining: o.TimeRemaining(now),
		})
	}
	return out
}

func (s *Simulation) currentSpeed() float64 {
	if s.weather == nil {
		return 0
	}
	return courier.Speed(courier.MoveInputs{
		Stamina:          s.player.Stamina,
		Reputation:       s.player.Reputation,
		CarriedWeight:    courier.TotalWeight(s.inventory),
		WeatherSpeedMult: s.weather.SpeedMultiplier(),
		SurfaceWeight:    s.cityMap.SurfaceWeight(s.player.Position),
	})
}

func (s *Simulation) pushNotice(msg string) {
	s.notices = append(s.notices, Notice{Message: msg, GameTime: s.clock.GameTime})
	if len(s.notices) > maxNotices {
		s.notices = s.notices[len(s.notices)-maxNotices:]
	}
}

func (s *Simulation) composeState() game.State {
	st := game.State{
		Player:    s.player,
		Gate:      s.gate,
		Scores:    s.keeper,
		Clock:     s.clock,
		Map:       s.cityMap,
		Inventory: append([]courier.Order(nil), s.inventory...),
		Completed: append([]courier.Order(nil), s.completed...),
		Expired:   append([]courier.Order(nil), s.expired...),
		Goal:      s.goal,
		GameOver:  s.gameOver,
		Victory:   s.victory,
	}
	if s.weather != nil {
		st.Weather = *s.weather
	}
	if s.sched != nil {
		st.Pending = s.sched.Backlog()
		st.Active = s.sched.Active().Items()
	}
	return st
}

func (s *Simulation) applyState(st game.State) {
	s.player = st.Player
	s.gate = st.Gate
	s.keeper = st.Scores
	s.clock = st.Clock
	s.cityMap = st.Map
	s.goal = st.Goal
	s.gameOver = st.GameOver
	s.victory = st.Victory

	w := st.Weather
	w.SetRNG(s.rng)
	s.weather = &w
	s.lastCondition = w.EffectiveCondition()

	s.sched = scheduler.New(st.Pending)
	s.sched.Active().Replace(st.Active)
	s.inventory = append([]courier.Order(nil), st.Inventory...)
	s.completed = append([]courier.Order(nil), st.Completed...)
	s.expired = append([]courier.Order(nil), st.Expired...)

	s.hist = history.NewManager()
	s.hist.Push(s.composeState())
	s.lastHistoryAt = s.clock.GameTime
	s.lastMoveAt = s.clock.GameTime - courier.RegenIdleCooldown
	s.initialized = true
}
