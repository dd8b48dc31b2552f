package courier

import "errors"

var ErrInvalidTransition = errors.New("invalid order status transition")

// statusSuccessors encodes the one-directional lifecycle:
// waiting_release -> available -> accepted -> picked_up -> delivered,
// with expiry allowed from available, accepted and picked_up.
var statusSuccessors = map[Status][]Status{
	StatusWaitingRelease: {StatusAvailable},
	StatusAvailable:      {StatusAccepted, StatusExpired},
	StatusAccepted:       {StatusPickedUp, StatusExpired},
	StatusPickedUp:       {StatusDelivered, StatusExpired},
	StatusDelivered:      {},
	StatusExpired:        {},
}

func (o *Order) TransitionTo(next Status) error {
	for _, allowed := range statusSuccessors[o.Status] {
		if allowed == next {
			o.Status = next
			return nil
		}
	}
	return ErrInvalidTransition
}

// TimeRemaining reports how many seconds the order has left before
// expiring. Orders still waiting for release have their full duration.
func (o Order) TimeRemaining(gameTime float64) float64 {
	if o.Status == StatusWaitingRelease {
		return o.Duration
	}
	remaining := o.Duration - (gameTime - o.CreatedAt)
	if remaining < 0 {
		return 0
	}
	return remaining
}

// Claimable reports whether the order is part of the active working set.
func (o Order) Claimable() bool {
	return o.Status == StatusAvailable || o.Status == StatusAccepted
}

// TotalWeight sums the load units carried across orders.
func TotalWeight(orders []Order) int {
	total := 0
	for _, o := range orders {
		total += o.Weight
	}
	return total
}
