package game

import (
	"courierquest/internal/domain/city"
	"courierquest/internal/domain/courier"
	"courierquest/internal/domain/weather"
)

// State is the full simulation aggregate: everything the engine needs
// to resume a session, and the unit that save/load and the undo
// history operate on.
type State struct {
	Player courier.PlayerState  `json:"player"`
	Gate   courier.MovementGate `json:"gate"`
	Scores courier.ScoreKeeper  `json:"scores"`
	Clock  courier.Clock        `json:"clock"`

	Weather weather.System `json:"weather"`
	Map     city.Map       `json:"map"`

	Pending   []courier.Order `json:"pending_orders"`
	Active    []courier.Order `json:"active_orders"`
	Inventory []courier.Order `json:"inventory"`
	Completed []courier.Order `json:"completed_orders"`
	Expired   []courier.Order `json:"expired_orders"`

	Goal     int  `json:"goal"`
	GameOver bool `json:"game_over"`
	Victory  bool `json:"victory"`
}

// CompletionPercent is the fraction of the money goal reached, used in
// save metadata.
func (s State) CompletionPercent() float64 {
	if s.Goal <= 0 {
		return 0
	}
	return float64(s.Player.Money) / float64(s.Goal) * 100
}

// CarriedWeight sums the inventory load.
func (s State) CarriedWeight() int {
	return courier.TotalWeight(s.Inventory)
}
