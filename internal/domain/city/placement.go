package city

import "courierquest/internal/domain/courier"

// safeFallback is the last-resort coordinate when a walkable tile
// cannot be located anywhere on the board.
var safeFallback = courier.Position{X: 1, Y: 1}

// NearestWalkable relocates a blocked coordinate via an expanding ring
// search: each radius only visits the ring's border. Exhausting the
// rings falls back to a full scan, then to the fixed safe coordinate.
func (m Map) NearestWalkable(from courier.Position) courier.Position {
	if m.Walkable(from) {
		return from
	}
	maxRadius := minInt(m.Width, m.Height) / 2
	for radius := 1; radius < maxRadius; radius++ {
		for dx := -radius; dx <= radius; dx++ {
			for dy := -radius; dy <= radius; dy++ {
				if absInt(dx) != radius && absInt(dy) != radius {
					continue
				}
				candidate := courier.Position{X: from.X + dx, Y: from.Y + dy}
				if m.Walkable(candidate) {
					return candidate
				}
			}
		}
	}
	for y := 0; y < m.Height; y++ {
		for x := 0; x < m.Width; x++ {
			candidate := courier.Position{X: x, Y: y}
			if m.Walkable(candidate) {
				return candidate
			}
		}
	}
	return safeFallback
}

// PlaceOrder clamps an order's pickup and dropoff onto walkable tiles.
// The returned flag reports whether anything had to move.
func (m Map) PlaceOrder(o courier.Order) (courier.Order, bool) {
	moved := false
	if !m.Walkable(o.Pickup) {
		o.Pickup = m.NearestWalkable(o.Pickup)
		moved = true
	}
	if !m.Walkable(o.Dropoff) {
		o.Dropoff = m.NearestWalkable(o.Dropoff)
		moved = true
	}
	return o, moved
}

// StartingPosition tries a handful of conventional spawn points before
// scanning the top-left corner of the board.
func (m Map) StartingPosition() courier.Position {
	candidates := []courier.Position{
		{X: 2, Y: 2}, {X: 3, Y: 3}, {X: 1, Y: 1}, {X: 4, Y: 4}, {X: 5, Y: 5},
		{X: 2, Y: 3}, {X: 3, Y: 2}, {X: 1, Y: 2}, {X: 2, Y: 1},
	}
	for _, p := range candidates {
		if m.Walkable(p) {
			return p
		}
	}
	for y := 0; y < minInt(10, m.Height); y++ {
		for x := 0; x < minInt(10, m.Width); x++ {
			p := courier.Position{X: x, Y: y}
			if m.Walkable(p) {
				return p
			}
		}
	}
	return safeFallback
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
