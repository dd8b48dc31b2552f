package courier

type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// ManhattanDistance is the |dx|+|dy| grid metric used for proximity
// checks and distance sorting.
func ManhattanDistance(a, b Position) int {
	return absInt(a.X-b.X) + absInt(a.Y-b.Y)
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

type Status string

const (
	StatusWaitingRelease Status = "waiting_release"
	StatusAvailable      Status = "available"
	StatusAccepted       Status = "accepted"
	StatusPickedUp       Status = "picked_up"
	StatusDelivered      Status = "delivered"
	StatusExpired        Status = "expired"
)

type Order struct {
	ID          string   `json:"id"`
	Pickup      Position `json:"pickup"`
	Dropoff     Position `json:"dropoff"`
	Payout      int      `json:"payout"`
	Duration    float64  `json:"duration_seconds"`
	Weight      int      `json:"weight"`
	Priority    int      `json:"priority"`
	ReleaseTime float64  `json:"release_time"`
	Status      Status   `json:"status"`
	CreatedAt   float64  `json:"created_at"`
	AcceptedAt  float64  `json:"accepted_at"`
}

type PlayerState struct {
	Position   Position `json:"position"`
	Stamina    float64  `json:"stamina"`
	Reputation int      `json:"reputation"`
	Money      int      `json:"money"`
	MaxWeight  int      `json:"max_weight"`
}

type Clock struct {
	GameTime    float64 `json:"game_time"`
	MaxGameTime float64 `json:"max_game_time"`
}

func (c *Clock) Advance(dt float64) {
	c.GameTime += dt
}

func (c Clock) Expired() bool {
	return c.GameTime >= c.MaxGameTime
}
