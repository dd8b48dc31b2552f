package courier

const (
	MaxStamina    = 100.0
	MaxReputation = 100

	StartingStamina    = 100.0
	StartingReputation = 70
	StartingMoney      = 0

	DefaultMaxWeight = 10
	BaseSpeed        = 3.0

	// Per-move stamina cost pieces.
	MoveBaseCost        = 0.5
	WeightCostPerUnit   = 0.2
	WeightCostThreshold = 3
	SurfacePenaltyScale = 0.2

	// Speed multipliers.
	WeightSpeedFloor    = 0.8
	WeightSpeedPerUnit  = 0.03
	HighRepSpeedBonus   = 1.03
	HighRepThreshold    = 90
	TiredSpeedMult      = 0.8
	TiredThreshold      = 30.0
	ExhaustedRecoverAt  = 30.0

	// Passive stamina regen.
	RegenPerSecond      = 5.0
	RestBonusRegen      = 15.0
	RegenIdleCooldown   = 1.0

	// Reputation rules.
	EarlyDeliveryBonus    = 5
	OnTimeDeliveryBonus   = 3
	SlightlyLatePenalty   = -2
	LatePenalty           = -5
	VeryLatePenalty       = -10
	ExpiryPenalty         = -6
	StreakLength          = 3
	StreakBonus           = 2
	LenientRepThreshold   = 85
	PayoutBonusThreshold  = 90
	PayoutBonusMultiplier = 1.05
	DefeatRepThreshold    = 20

	// Final score.
	DeliveryScoreBonus = 10
	RepScoreThreshold  = 70
	RepScorePerPoint   = 5
	MaxTimeBonus       = 500
	TimeBonusCutoff    = 0.8

	// Session defaults; goal is fixed regardless of provider data.
	FixedGoal          = 3000
	DefaultMaxGameTime = 600.0

	// Command pacing.
	MoveCooldown = 0.08

	// Undo history.
	HistoryMaxDiffs      = 20
	HistoryCadence       = 8.0
	HistoryStaminaJitter = 1.0

	// Scheduler throttle.
	MaxActiveOrders = 10
)

// WeatherFlatPenalty is the fixed per-move stamina add-on for a
// condition, independent of the weather process's scaled penalty.
func WeatherFlatPenalty(condition string) float64 {
	switch condition {
	case "rain", "wind":
		return 0.1
	case "storm":
		return 0.3
	case "heat":
		return 0.2
	default:
		return 0
	}
}
