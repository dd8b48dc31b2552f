package courier

// Sorting toolkit: pure transforms over order slices, invoked on demand
// by the sort commands. None of them mutate their input.

// SortByPriority is a quicksort partition on descending priority. The
// middle (equal-to-pivot) bucket keeps its original relative order.
func SortByPriority(orders []Order) []Order {
	if len(orders) <= 1 {
		out := make([]Order, len(orders))
		copy(out, orders)
		return out
	}
	pivot := orders[len(orders)/2]
	var left, middle, right []Order
	for _, o := range orders {
		switch {
		case o.Priority > pivot.Priority:
			left = append(left, o)
		case o.Priority == pivot.Priority:
			middle = append(middle, o)
		default:
			right = append(right, o)
		}
	}
	out := SortByPriority(left)
	out = append(out, middle...)
	return append(out, SortByPriority(right)...)
}

// SortByDeadline is a stable merge sort on time remaining ascending;
// ties emit the left-run element first.
func SortByDeadline(orders []Order, gameTime float64) []Order {
	if len(orders) <= 1 {
		out := make([]Order, len(orders))
		copy(out, orders)
		return out
	}
	mid := len(orders) / 2
	left := SortByDeadline(orders[:mid], gameTime)
	right := SortByDeadline(orders[mid:], gameTime)
	return mergeByDeadline(left, right, gameTime)
}

func mergeByDeadline(left, right []Order, gameTime float64) []Order {
	out := make([]Order, 0, len(left)+len(right))
	i, j := 0, 0
	for i < len(left) && j < len(right) {
		if left[i].TimeRemaining(gameTime) <= right[j].TimeRemaining(gameTime) {
			out = append(out, left[i])
			i++
		} else {
			out = append(out, right[j])
			j++
		}
	}
	out = append(out, left[i:]...)
	return append(out, right[j:]...)
}

// SortByDistance is an insertion sort on Manhattan distance from the
// player to each pickup, ascending. Only strictly greater elements
// shift, so ties keep their original order.
func SortByDistance(orders []Order, player Position) []Order {
	out := make([]Order, len(orders))
	copy(out, orders)
	for i := 1; i < len(out); i++ {
		key := out[i]
		keyDist := ManhattanDistance(key.Pickup, player)
		j := i - 1
		for j >= 0 && ManhattanDistance(out[j].Pickup, player) > keyDist {
			out[j+1] = out[j]
			j--
		}
		out[j+1] = key
	}
	return out
}
