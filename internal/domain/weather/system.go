package weather

import (
	"math"
	"math/rand"
)

type Condition string

const (
	Clear     Condition = "clear"
	Clouds    Condition = "clouds"
	RainLight Condition = "rain_light"
	Rain      Condition = "rain"
	Storm     Condition = "storm"
	Fog       Condition = "fog"
	Wind      Condition = "wind"
	Heat      Condition = "heat"
	Cold      Condition = "cold"
)

// transitionMatrix holds the per-condition weighted successor rows.
// Rows are kept as ordered slices so the weighted draw is stable for a
// seeded RNG.
type transition struct {
	to     Condition
	weight float64
}

var transitionMatrix = map[Condition][]transition{
	Clear:     {{Clear, 0.4}, {Clouds, 0.3}, {Wind, 0.2}, {Heat, 0.1}},
	Clouds:    {{Clear, 0.2}, {Clouds, 0.3}, {RainLight, 0.3}, {Fog, 0.2}},
	RainLight: {{Clouds, 0.3}, {RainLight, 0.2}, {Rain, 0.3}, {Clear, 0.2}},
	Rain:      {{RainLight, 0.3}, {Rain, 0.2}, {Storm, 0.2}, {Clouds, 0.3}},
	Storm:     {{Rain, 0.4}, {Storm, 0.2}, {Clouds, 0.4}},
	Fog:       {{Fog, 0.3}, {Clouds, 0.4}, {Clear, 0.3}},
	Wind:      {{Wind, 0.2}, {Clear, 0.3}, {Clouds, 0.3}, {Cold, 0.2}},
	Heat:      {{Heat, 0.3}, {Clear, 0.4}, {Clouds, 0.3}},
	Cold:      {{Cold, 0.3}, {Clear, 0.2}, {Clouds, 0.3}, {Wind, 0.2}},
}

var speedMultipliers = map[Condition]float64{
	Clear: 1.00, Clouds: 0.98, RainLight: 0.90, Rain: 0.85,
	Storm: 0.75, Fog: 0.88, Wind: 0.92, Heat: 0.90, Cold: 0.92,
}

var staminaPenalties = map[Condition]float64{
	Clear: 0.0, Clouds: 0.0, RainLight: 0.05, Rain: 0.1,
	Storm: 0.3, Fog: 0.0, Wind: 0.1, Heat: 0.2, Cold: 0.05,
}

const (
	transitionDuration = 3.0
	burstMinSeconds    = 25
	burstMaxSeconds    = 40
	intensityMin       = 0.4
	intensityMax       = 0.9
	intensityDrag      = 0.2
)

// System is the weather Markov process. Bursts last 25-40 s; at expiry
// the next condition is drawn from the current row and both condition
// multiplier and intensity blend over a 3 s cosine-eased window.
// All timing advances in game time through Update(dt).
type System struct {
	Current   Condition `json:"current"`
	Intensity float64   `json:"intensity"`

	TimeInCurrent float64 `json:"time_in_current"`
	BurstDuration float64 `json:"burst_duration"`

	Transitioning     bool      `json:"transitioning"`
	TransitionElapsed float64   `json:"transition_elapsed"`
	Previous          Condition `json:"previous"`
	PreviousIntensity float64   `json:"previous_intensity"`
	Target            Condition `json:"target"`
	TargetIntensity   float64   `json:"target_intensity"`

	rng *rand.Rand
}

func NewSystem(rng *rand.Rand) *System {
	return &System{
		Current:       Clear,
		Intensity:     0.5,
		BurstDuration: 30,
		Previous:      Clear,
		Target:        Clear,
		rng:           rng,
	}
}

// SetRNG re-attaches a random source, needed after deserialization.
func (s *System) SetRNG(rng *rand.Rand) {
	s.rng = rng
}

func (s *System) Update(dt float64) {
	s.TimeInCurrent += dt

	if s.Transitioning {
		s.TransitionElapsed += dt
		p := s.progress()
		smooth := easeCosine(p)
		s.Intensity = s.PreviousIntensity + (s.TargetIntensity-s.PreviousIntensity)*smooth
		if p >= 1.0 {
			s.Transitioning = false
			s.Current = s.Target
			s.Intensity = s.TargetIntensity
		}
	}

	if s.TimeInCurrent >= s.BurstDuration && !s.Transitioning {
		s.beginTransition()
	}
}

func (s *System) beginTransition() {
	row := transitionMatrix[s.Current]
	if len(row) == 0 {
		row = []transition{{Clear, 1.0}}
	}

	next := weightedChoice(s.rng, row)
	s.Transitioning = true
	s.TransitionElapsed = 0
	s.Previous = s.Current
	s.PreviousIntensity = s.Intensity
	s.Target = next
	s.TargetIntensity = intensityMin + s.rng.Float64()*(intensityMax-intensityMin)

	s.TimeInCurrent = 0
	s.BurstDuration = float64(burstMinSeconds + s.rng.Intn(burstMaxSeconds-burstMinSeconds+1))
}

func weightedChoice(rng *rand.Rand, row []transition) Condition {
	total := 0.0
	for _, t := range row {
		total += t.weight
	}
	draw := rng.Float64() * total
	for _, t := range row {
		draw -= t.weight
		if draw < 0 {
			return t.to
		}
	}
	return row[len(row)-1].to
}

func (s *System) progress() float64 {
	p := s.TransitionElapsed / transitionDuration
	if p > 1.0 {
		return 1.0
	}
	return p
}

func easeCosine(p float64) float64 {
	return (1 - math.Cos(p*math.Pi)) / 2
}

// SpeedMultiplier blends the per-condition base multiplier while a
// transition is running and scales it down by intensity.
func (s *System) SpeedMultiplier() float64 {
	base := speedMultipliers[s.Current]
	if s.Transitioning {
		smooth := easeCosine(s.progress())
		prev := speedMultipliers[s.Previous]
		target := speedMultipliers[s.Target]
		base = prev + (target-prev)*smooth
	}
	return base * (1.0 - s.Intensity*intensityDrag)
}

// StaminaPenalty is the intensity-scaled per-second drain factor.
func (s *System) StaminaPenalty() float64 {
	base := staminaPenalties[s.Current]
	if s.Transitioning {
		smooth := easeCosine(s.progress())
		prev := staminaPenalties[s.Previous]
		target := staminaPenalties[s.Target]
		base = prev + (target-prev)*smooth
	}
	return base * s.Intensity
}

// EffectiveCondition is the condition announcements and views show:
// the target while changing, otherwise the settled condition. Per-move
// stamina charges key on Current instead.
func (s *System) EffectiveCondition() Condition {
	if s.Transitioning {
		return s.Target
	}
	return s.Current
}
