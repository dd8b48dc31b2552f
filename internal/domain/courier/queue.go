package courier

// ActiveQueue keeps claimable orders sorted descending by priority.
// Insertion locates the slot by binary search and shifts the tail;
// dequeue pops the front; removal by id is a linear scan.
type ActiveQueue struct {
	items []Order
}

func (q *ActiveQueue) Enqueue(o Order) {
	if len(q.items) == 0 {
		q.items = append(q.items, o)
		return
	}
	left, right := 0, len(q.items)
	for left < right {
		mid := (left + right) / 2
		if q.items[mid].Priority < o.Priority {
			right = mid
		} else {
			left = mid + 1
		}
	}
	q.items = append(q.items, Order{})
	copy(q.items[left+1:], q.items[left:])
	q.items[left] = o
}

func (q *ActiveQueue) Dequeue() (Order, bool) {
	if len(q.items) == 0 {
		return Order{}, false
	}
	front := q.items[0]
	q.items = q.items[1:]
	return front, true
}

func (q *ActiveQueue) Remove(id string) bool {
	for i, o := range q.items {
		if o.ID == id {
			q.items = append(q.items[:i], q.items[i+1:]...)
			return true
		}
	}
	return false
}

func (q *ActiveQueue) Get(id string) (Order, bool) {
	for _, o := range q.items {
		if o.ID == id {
			return o, true
		}
	}
	return Order{}, false
}

// Update replaces the stored order with the same id in place, keeping
// queue position. Priority never changes after release so order holds.
func (q *ActiveQueue) Update(o Order) bool {
	for i := range q.items {
		if q.items[i].ID == o.ID {
			q.items[i] = o
			return true
		}
	}
	return false
}

func (q *ActiveQueue) Len() int {
	return len(q.items)
}

// Items returns a copy of the queue contents in priority order.
func (q *ActiveQueue) Items() []Order {
	out := make([]Order, len(q.items))
	copy(out, q.items)
	return out
}

// Replace swaps the whole queue contents, re-inserting each order so
// the descending-priority invariant is rebuilt. Used on load, where
// the stored slice may carry a cosmetic ordering.
func (q *ActiveQueue) Replace(orders []Order) {
	q.items = q.items[:0]
	for _, o := range orders {
		q.Enqueue(o)
	}
}

// SetItems installs an already-ordered slice verbatim. Sort commands
// use it to present a caller-chosen ordering.
func (q *ActiveQueue) SetItems(orders []Order) {
	q.items = make([]Order, len(orders))
	copy(q.items, orders)
}
