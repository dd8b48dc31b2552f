package courier

import "testing"

func ids(orders []Order) []string {
	out := make([]string, len(orders))
	for i, o := range orders {
		out[i] = o.ID
	}
	return out
}

func sameIDs(got, want []string) bool {
	if len(got) != len(want) {
		return false
	}
	for i := range got {
		if got[i] != want[i] {
			return false
		}
	}
	return true
}

func TestSortByPriorityDescending(t *testing.T) {
	in := []Order{
		{ID: "a", Priority: 0},
		{ID: "b", Priority: 2},
		{ID: "c", Priority: 1},
		{ID: "d", Priority: 2},
		{ID: "e", Priority: 0},
	}
	got := ids(SortByPriority(in))
	if !sameIDs(got, []string{"b", "d", "c", "a", "e"}) {
		t.Fatalf("unexpected priority order: %v", got)
	}
	if in[0].ID != "a" {
		t.Fatal("input slice must not be mutated")
	}
}

func TestSortByDeadlineAscendingStable(t *testing.T) {
	in := []Order{
		{ID: "slow", Duration: 300, CreatedAt: 0},
		{ID: "urgent", Duration: 60, CreatedAt: 0},
		{ID: "tied-a", Duration: 120, CreatedAt: 0},
		{ID: "tied-b", Duration: 120, CreatedAt: 0},
	}
	got := ids(SortByDeadline(in, 30))
	if !sameIDs(got, []string{"urgent", "tied-a", "tied-b", "slow"}) {
		t.Fatalf("unexpected deadline order: %v", got)
	}
}

func TestSortByDeadlineTreatsUnreleasedAsFullDuration(t *testing.T) {
	in := []Order{
		{ID: "pending", Duration: 60, Status: StatusWaitingRelease, CreatedAt: 0},
		{ID: "active", Duration: 100, Status: StatusAvailable, CreatedAt: 0},
	}
	// At t=50 the active order has 50s left while the pending one still
	// counts its full 60s.
	got := ids(SortByDeadline(in, 50))
	if !sameIDs(got, []string{"active", "pending"}) {
		t.Fatalf("unexpected order: %v", got)
	}
}

func TestSortByDistanceAscending(t *testing.T) {
	player := Position{X: 0, Y: 0}
	in := []Order{
		{ID: "far", Pickup: Position{X: 5, Y: 5}},
		{ID: "near", Pickup: Position{X: 1, Y: 0}},
		{ID: "mid", Pickup: Position{X: 2, Y: 2}},
		{ID: "near2", Pickup: Position{X: 0, Y: 1}},
	}
	got := ids(SortByDistance(in, player))
	// near and near2 tie at distance 1 and keep input order.
	if !sameIDs(got, []string{"near", "near2", "mid", "far"}) {
		t.Fatalf("unexpected distance order: %v", got)
	}
}
