package scheduler

import (
	"sort"

	"courierquest/internal/domain/city"
	"courierquest/internal/domain/courier"
)

// Scheduler owns the release-time-sorted backlog and the priority-
// ordered active working set, applying the batch throttle each tick.
type Scheduler struct {
	backlog []courier.Order
	active  courier.ActiveQueue
	cap     int
}

func New(pending []courier.Order) *Scheduler {
	s := &Scheduler{cap: courier.MaxActiveOrders}
	s.SetBacklog(pending)
	return s
}

// SetBacklog installs a fresh backlog sorted ascending by release time.
func (s *Scheduler) SetBacklog(pending []courier.Order) {
	s.backlog = make([]courier.Order, len(pending))
	copy(s.backlog, pending)
	sort.SliceStable(s.backlog, func(i, j int) bool {
		return s.backlog[i].ReleaseTime < s.backlog[j].ReleaseTime
	})
}

// batchSize maps the current active count to the per-tick release
// allowance: sparse sets release in waves of 3, fuller sets trickle.
func (s *Scheduler) batchSize() int {
	active := s.active.Len()
	switch {
	case active < s.cap/3:
		return 3
	case active < s.cap/2:
		return 2
	case active < s.cap:
		return 1
	default:
		return 0
	}
}

// Release moves due backlog orders into the active set, up to the
// batch allowance and the active cap. Pickup and dropoff are clamped
// onto walkable tiles before an order becomes visible.
func (s *Scheduler) Release(gameTime float64, m city.Map) []courier.Order {
	batch := s.batchSize()
	released := make([]courier.Order, 0, batch)
	for len(s.backlog) > 0 && len(released) < batch && s.active.Len() < s.cap {
		if s.backlog[0].ReleaseTime > gameTime {
			break
		}
		o := s.backlog[0]
		s.backlog = s.backlog[1:]

		o, _ = m.PlaceOrder(o)
		o.Status = courier.StatusAvailable
		o.CreatedAt = gameTime
		s.active.Enqueue(o)
		released = append(released, o)
	}
	return released
}

// SweepExpired removes timed-out orders from the active set and
// returns them marked expired.
func (s *Scheduler) SweepExpired(gameTime float64) []courier.Order {
	var expired []courier.Order
	for _, o := range s.active.Items() {
		if o.TimeRemaining(gameTime) > 0 {
			continue
		}
		s.active.Remove(o.ID)
		o.Status = courier.StatusExpired
		expired = append(expired, o)
	}
	return expired
}

func (s *Scheduler) Active() *courier.ActiveQueue {
	return &s.active
}

func (s *Scheduler) Backlog() []courier.Order {
	out := make([]courier.Order, len(s.backlog))
	copy(out, s.backlog)
	return out
}

func (s *Scheduler) PendingCount() int {
	return len(s.backlog)
}
