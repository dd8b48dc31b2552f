package ingest

import (
	"math/rand"

	"github.com/google/uuid"

	"courierquest/internal/app/ports"
	"courierquest/internal/domain/city"
	"courierquest/internal/domain/courier"
)

const (
	// MinPlayableOrders pads thin job feeds so a session stays busy.
	MinPlayableOrders = 25

	minPairSeparation = 4
	placementAttempts = 10

	minDurationSeconds = 45.0
	maxDurationSeconds = 270.0

	maxReleaseSeconds = 180
)

// Normalizer turns heterogeneous provider job descriptors into strict
// orders, synthesizing every missing field. The core never sees the
// raw wire shapes.
type Normalizer struct {
	Map city.Map
	RNG *rand.Rand
}

// Normalize converts each descriptor and pads the result up to the
// minimum playable count.
func (n Normalizer) Normalize(jobs []ports.JobDescriptor) []courier.Order {
	orders := make([]courier.Order, 0, len(jobs))
	for _, d := range jobs {
		orders = append(orders, n.orderFromDescriptor(d))
	}
	for len(orders) < MinPlayableOrders {
		orders = append(orders, n.syntheticOrder())
	}
	return orders
}

func (n Normalizer) orderFromDescriptor(d ports.JobDescriptor) courier.Order {
	o := n.syntheticOrder()
	if d.Ref != "" {
		o.ID = d.Ref
		return o
	}
	p := d.Payload
	if p == nil {
		return o
	}
	if p.ID != "" {
		o.ID = p.ID
	}
	if p.Payout > 0 {
		o.Payout = p.Payout
	}
	if p.PickupX != nil && p.PickupY != nil {
		o.Pickup = courier.Position{X: *p.PickupX, Y: *p.PickupY}
	}
	if p.DropoffX != nil && p.DropoffY != nil {
		o.Dropoff = courier.Position{X: *p.DropoffX, Y: *p.DropoffY}
	}
	if p.Weight != nil && *p.Weight > 0 {
		o.Weight = *p.Weight
	}
	if p.Priority != nil && *p.Priority >= 0 && *p.Priority <= 2 {
		o.Priority = *p.Priority
	}
	if p.Duration > 0 {
		o.Duration = p.Duration
	}
	return o
}

// syntheticOrder builds a fully random but playable order: pickup and
// dropoff keep a minimum Manhattan separation and the deadline scales
// with the trip distance.
func (n Normalizer) syntheticOrder() courier.Order {
	pickup := n.randomTile()
	dropoff := n.randomTile()
	for attempt := 0; courier.ManhattanDistance(pickup, dropoff) < minPairSeparation && attempt < placementAttempts; attempt++ {
		dropoff = n.randomTile()
	}

	distance := courier.ManhattanDistance(pickup, dropoff)
	duration := float64(distance)*3.0 + 30.0 + n.RNG.Float64()*60.0
	if duration < minDurationSeconds {
		duration = minDurationSeconds
	}
	if duration > maxDurationSeconds {
		duration = maxDurationSeconds
	}

	return courier.Order{
		ID:          "gen-" + uuid.NewString()[:8],
		Pickup:      pickup,
		Dropoff:     dropoff,
		Payout:      100 + n.RNG.Intn(101),
		Duration:    duration,
		Weight:      1 + n.RNG.Intn(3),
		Priority:    n.weightedPriority(),
		ReleaseTime: float64(n.RNG.Intn(maxReleaseSeconds + 1)),
		Status:      courier.StatusWaitingRelease,
	}
}

func (n Normalizer) randomTile() courier.Position {
	w, h := n.Map.Width, n.Map.Height
	if w < 3 {
		w = 3
	}
	if h < 3 {
		h = 3
	}
	return courier.Position{
		X: 1 + n.RNG.Intn(w-2),
		Y: 1 + n.RNG.Intn(h-2),
	}
}

// weightedPriority draws 0/1/2 with weights 50/35/15.
func (n Normalizer) weightedPriority() int {
	switch draw := n.RNG.Intn(100); {
	case draw < 50:
		return 0
	case draw < 85:
		return 1
	default:
		return 2
	}
}
