package bot

import (
	"math"

	"github.com/hungernads/nads-core/model"
)

// Persona is a class's strategic posture expressed as continuous 0–1
// weights. CompilePersona translates these into discrete rule sets.
type Persona struct {
	Name       string  `json:"name"`
	Aggression float64 `json:"aggression"` // how readily it attacks and how much it stakes
	Greed      float64 `json:"greed"`      // item chasing and prediction stake sizing
	Caution    float64 `json:"caution"`    // defend/flee thresholds
	Loyalty    float64 `json:"loyalty"`    // alliance seeking and keeping
}

// PersonaFor returns the default posture for a class.
func PersonaFor(class model.Class) Persona {
	switch class {
	case model.Warrior:
		return Persona{Name: "brawler", Aggression: 0.9, Greed: 0.3, Caution: 0.2, Loyalty: 0.2}
	case model.Trader:
		return Persona{Name: "speculator", Aggression: 0.3, Greed: 0.8, Caution: 0.5, Loyalty: 0.4}
	case model.Survivor:
		return Persona{Name: "turtle", Aggression: 0.15, Greed: 0.4, Caution: 0.9, Loyalty: 0.6}
	case model.Parasite:
		return Persona{Name: "shadow", Aggression: 0.4, Greed: 0.5, Caution: 0.6, Loyalty: 0.8}
	case model.Gambler:
		return Persona{Name: "plunger", Aggression: 0.7, Greed: 0.9, Caution: 0.1, Loyalty: 0.1}
	}
	return Persona{Name: "balanced", Aggression: 0.5, Greed: 0.5, Caution: 0.5, Loyalty: 0.5}
}

// Validate clamps all weights into [0, 1].
func (p *Persona) Validate() {
	p.Aggression = clamp(p.Aggression, 0, 1)
	p.Greed = clamp(p.Greed, 0, 1)
	p.Caution = clamp(p.Caution, 0, 1)
	p.Loyalty = clamp(p.Loyalty, 0, 1)
}

// lerp maps a 0–1 weight to a concrete integer range (e.g. a stake band).
func lerp(min, max int, t float64) int {
	return min + int(math.Round(float64(max-min)*t))
}

func clamp(v, min, max float64) float64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
