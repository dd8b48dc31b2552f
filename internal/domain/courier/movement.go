package courier

// MoveInputs gathers everything the movement formulas depend on at the
// moment a move is evaluated.
type MoveInputs struct {
	Stamina          float64
	Reputation       int
	CarriedWeight    int
	WeatherSpeedMult float64
	WeatherCondition string
	SurfaceWeight    float64
}

// MoveCost is the stamina spent by one grid step:
// base + weight overage + flat weather add-on + soft-surface penalty.
func MoveCost(in MoveInputs) float64 {
	cost := MoveBaseCost
	if in.CarriedWeight > WeightCostThreshold {
		cost += WeightCostPerUnit * float64(in.CarriedWeight-WeightCostThreshold)
	}
	cost += WeatherFlatPenalty(in.WeatherCondition)
	if in.SurfaceWeight < 1.0 {
		cost += (1.0 - in.SurfaceWeight) * SurfacePenaltyScale
	}
	return cost
}

// Speed multiplies the base cell rate by the weather, load, reputation,
// fatigue and surface factors. Zero stamina forces zero speed.
func Speed(in MoveInputs) float64 {
	if in.Stamina <= 0 {
		return 0
	}
	weightMult := 1.0 - WeightSpeedPerUnit*float64(in.CarriedWeight)
	if weightMult < WeightSpeedFloor {
		weightMult = WeightSpeedFloor
	}
	repMult := 1.0
	if in.Reputation >= HighRepThreshold {
		repMult = HighRepSpeedBonus
	}
	staminaMult := 1.0
	if in.Stamina <= TiredThreshold {
		staminaMult = TiredSpeedMult
	}
	speed := BaseSpeed * in.WeatherSpeedMult * weightMult * repMult * staminaMult * in.SurfaceWeight
	if speed < 0 {
		return 0
	}
	return speed
}

type MovementState string

const (
	MovementNormal    MovementState = "normal"
	MovementTired     MovementState = "tired"
	MovementExhausted MovementState = "exhausted"
)

// MovementGate is the three-state fatigue machine. Hitting zero stamina
// blocks movement until stamina climbs back to the recovery threshold;
// the block-at-0 / unblock-at-30 hysteresis is deliberate, the two
// thresholds are not symmetric.
type MovementGate struct {
	Blocked bool `json:"blocked"`
}

// Observe must be called after every stamina change so the gate tracks
// the crossing points.
func (g *MovementGate) Observe(stamina float64) {
	if stamina <= 0 {
		g.Blocked = true
	} else if g.Blocked && stamina >= ExhaustedRecoverAt {
		g.Blocked = false
	}
}

func (g MovementGate) State(stamina float64) MovementState {
	switch {
	case g.Blocked || stamina <= 0:
		return MovementExhausted
	case stamina <= TiredThreshold:
		return MovementTired
	default:
		return MovementNormal
	}
}

func (g MovementGate) CanMove(stamina float64) bool {
	return !g.Blocked && stamina > 0
}

// RegenRate is the passive per-second stamina recovery, elevated on
// rest-bonus tiles. Callers apply it only after the idle cooldown.
func RegenRate(onRestTile bool) float64 {
	if onRestTile {
		return RestBonusRegen
	}
	return RegenPerSecond
}

func ClampStamina(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > MaxStamina {
		return MaxStamina
	}
	return v
}

func ClampReputation(v int) int {
	if v < 0 {
		return 0
	}
	if v > MaxReputation {
		return MaxReputation
	}
	return v
}
