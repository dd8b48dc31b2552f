package courier

// DeliveryTier labels the reputation band a delivery landed in.
type DeliveryTier string

const (
	TierEarly    DeliveryTier = "early"
	TierOnTime   DeliveryTier = "on_time"
	TierSlight   DeliveryTier = "slightly_late"
	TierLate     DeliveryTier = "late"
	TierVeryLate DeliveryTier = "very_late"
)

// ScoreKeeper carries the session-scoped reputation bookkeeping: the
// clean-delivery streak, whether the one-time high-rep lenience has
// been spent, and whether the last delivery was clean.
type ScoreKeeper struct {
	Streak            int  `json:"streak"`
	LenienceUsed      bool `json:"lenience_used"`
	LastDeliveryClean bool `json:"last_delivery_clean"`
}

type DeliveryOutcome struct {
	Tier            DeliveryTier
	ReputationDelta int
	Reputation      int
	Payout          int
	Clean           bool
	StreakBonus     bool
	LenienceApplied bool
}

// ApplyDelivery scores one delivery. Boundary comparisons are strict,
// so a delivery at exactly 0.8 of the duration falls to the +3 tier.
func (s *ScoreKeeper) ApplyDelivery(reputation int, o Order, gameTime float64) DeliveryOutcome {
	timeRemaining := o.TimeRemaining(gameTime)
	totalDuration := o.Duration
	timeUsed := totalDuration - timeRemaining

	var out DeliveryOutcome
	switch {
	case timeRemaining > totalDuration*0.8:
		out.Tier, out.ReputationDelta = TierEarly, EarlyDeliveryBonus
	case timeRemaining > totalDuration*0.3:
		out.Tier, out.ReputationDelta = TierOnTime, OnTimeDeliveryBonus
	case timeRemaining > 0 && timeUsed <= 30:
		out.Tier, out.ReputationDelta = TierSlight, SlightlyLatePenalty
	case timeRemaining > 0 && timeUsed <= 120:
		out.Tier, out.ReputationDelta = TierLate, LatePenalty
	default:
		out.Tier, out.ReputationDelta = TierVeryLate, VeryLatePenalty
	}

	// One halved late penalty per session while reputation is high.
	if out.ReputationDelta < 0 && reputation >= LenientRepThreshold && !s.LenienceUsed {
		out.ReputationDelta = floorDiv(out.ReputationDelta, 2)
		out.LenienceApplied = true
		s.LenienceUsed = true
	}

	out.Clean = out.ReputationDelta >= 0
	reputation = ClampReputation(reputation + out.ReputationDelta)

	if out.Clean {
		s.Streak++
		if s.Streak >= StreakLength {
			reputation = ClampReputation(reputation + StreakBonus)
			out.StreakBonus = true
			s.Streak = 0
		}
	} else {
		s.Streak = 0
	}
	s.LastDeliveryClean = out.Clean

	out.Payout = o.Payout
	if reputation >= PayoutBonusThreshold {
		out.Payout = int(float64(o.Payout) * PayoutBonusMultiplier)
	}
	out.Reputation = reputation
	return out
}

// ApplyExpiry charges the lost-package penalty and breaks the streak.
func (s *ScoreKeeper) ApplyExpiry(reputation int) int {
	s.Streak = 0
	s.LastDeliveryClean = false
	return ClampReputation(reputation + ExpiryPenalty)
}

// FinalScore computes the end-of-session score. The time bonus only
// applies to wins finishing before 80% of the session limit, scaled
// linearly across the remaining margin.
func FinalScore(money, reputation, completedOrders int, gameTime, maxGameTime float64, victory bool) int {
	payMult := 1.0
	if reputation >= PayoutBonusThreshold {
		payMult = PayoutBonusMultiplier
	}
	score := float64(money) * payMult

	cutoff := maxGameTime * TimeBonusCutoff
	if victory && gameTime < cutoff && cutoff > 0 {
		score += float64(MaxTimeBonus) * (cutoff - gameTime) / cutoff
	}

	score += float64(completedOrders * DeliveryScoreBonus)
	if bonus := (reputation - RepScoreThreshold) * RepScorePerPoint; bonus > 0 {
		score += float64(bonus)
	}

	if score < 0 {
		return 0
	}
	return int(score)
}

// floorDiv matches floor semantics for negative deltas (-5/2 = -3).
func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
