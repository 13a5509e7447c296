package model

// Prediction stake bounds, in percent of MaxHP.
const (
	MinStakePct = 5
	MaxStakePct = 50
)

// PredictionIntent is an agent's market bet for one epoch.
type PredictionIntent struct {
	Asset     Asset               `json:"asset"`
	Direction PredictionDirection `json:"direction"`
	StakePct  int                 `json:"stakePct"`
}

// AttackIntent declares an attack on a target. Stake is an HP amount; damage
// scales from it.
type AttackIntent struct {
	TargetID int `json:"targetId"`
	Stake    int `json:"stake"`
}

// AllianceIntent proposes a mutual pact with a partner. The pact forms only
// if the partner proposes back in the same epoch.
type AllianceIntent struct {
	PartnerID int `json:"partnerId"`
}

// Intent is one agent's declared actions for one epoch. Attack and defend
// are mutually exclusive; the secretary drops the attack when both are set.
type Intent struct {
	AgentID   int               `json:"agentId"`
	Predict   PredictionIntent  `json:"predict"`
	Attack    *AttackIntent     `json:"attack,omitempty"`
	Defend    bool              `json:"defend"`
	Move      Direction         `json:"move"`
	Alliance  *AllianceIntent   `json:"alliance,omitempty"`
	Reasoning string            `json:"reasoning,omitempty"`
}

// DefaultIntent is the fallback for an agent whose provider supplied nothing:
// a minimum-stake ETH-up bet, holding position.
func DefaultIntent(agentID int) Intent {
	return Intent{
		AgentID: agentID,
		Predict: PredictionIntent{Asset: ETH, Direction: Up, StakePct: MinStakePct},
		Move:    DirHold,
	}
}

// SponsorEffect is a per-agent, per-epoch modifier supplied by an external
// sponsor system. The engine consumes it read-only.
type SponsorEffect struct {
	AgentID     int     `json:"agentId"`
	HPBoost     int     `json:"hpBoost,omitempty"`
	FreeDefend  bool    `json:"freeDefend,omitempty"`
	AttackBonus float64 `json:"attackBonus,omitempty"`
	Label       string  `json:"label,omitempty"`
}
