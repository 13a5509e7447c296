package model

// BattlePhase is the battle-wide storm state. Transitions are monotonic and
// keyed off the epoch counter.
type BattlePhase string

const (
	Loot       BattlePhase = "LOOT"
	Hunt       BattlePhase = "HUNT"
	Blood      BattlePhase = "BLOOD"
	FinalStand BattlePhase = "FINAL_STAND"
)

// StormLevel is the phase's lethal storm threshold: a tile whose own storm
// level is nonzero and at or below this value is lethal.
func (p BattlePhase) StormLevel() int {
	switch p {
	case Hunt:
		return 1
	case Blood:
		return 2
	case FinalStand:
		return 3
	}
	return 0
}

// ord orders phases for monotonicity checks.
func (p BattlePhase) ord() int {
	switch p {
	case Loot:
		return 0
	case Hunt:
		return 1
	case Blood:
		return 2
	case FinalStand:
		return 3
	}
	return -1
}

// Before reports whether p precedes o in the fixed phase order.
func (p BattlePhase) Before(o BattlePhase) bool {
	return p.ord() < o.ord()
}

// StormLevelAt is the board's fixed storm assignment: the outer ring turns
// lethal first (HUNT), the inner ring at BLOOD, the center never.
func StormLevelAt(c HexCoord) int {
	switch c.Ring() {
	case 1:
		return 2
	case 2:
		return 1
	}
	return 0
}

// PhaseSchedule maps epoch counters to phases via inclusive upper
// breakpoints. Tiers tune the pacing; the order itself never changes.
type PhaseSchedule struct {
	LootEnd  int `json:"lootEnd"`  // last LOOT epoch
	HuntEnd  int `json:"huntEnd"`  // last HUNT epoch
	BloodEnd int `json:"bloodEnd"` // last BLOOD epoch; beyond is FINAL_STAND
}

// PhaseAt returns the phase active at the given epoch (1-based).
func (s PhaseSchedule) PhaseAt(epoch int) BattlePhase {
	switch {
	case epoch <= s.LootEnd:
		return Loot
	case epoch <= s.HuntEnd:
		return Hunt
	case epoch <= s.BloodEnd:
		return Blood
	default:
		return FinalStand
	}
}

// Tier presets. Higher tiers shrink the arena faster.
func BronzeSchedule() PhaseSchedule { return PhaseSchedule{LootEnd: 3, HuntEnd: 10, BloodEnd: 20} }
func SilverSchedule() PhaseSchedule { return PhaseSchedule{LootEnd: 2, HuntEnd: 8, BloodEnd: 16} }
func GoldSchedule() PhaseSchedule   { return PhaseSchedule{LootEnd: 2, HuntEnd: 6, BloodEnd: 12} }

// ScheduleForTier resolves a tier name, defaulting to bronze pacing for
// unknown tiers.
func ScheduleForTier(tier string) PhaseSchedule {
	switch tier {
	case "silver":
		return SilverSchedule()
	case "gold":
		return GoldSchedule()
	default:
		return BronzeSchedule()
	}
}
