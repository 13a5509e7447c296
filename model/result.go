package model

// MoveReason explains a failed (held) move.
type MoveReason string

const (
	MoveOffGrid  MoveReason = "OffGrid"
	MoveOccupied MoveReason = "Occupied"
	MoveConflict MoveReason = "Conflict"
	MoveSwap     MoveReason = "Swap"
)

// MoveResult records one agent's movement outcome. Every living agent gets
// one per epoch, holds included.
type MoveResult struct {
	AgentID int        `json:"agentId"`
	From    HexCoord   `json:"from"`
	To      HexCoord   `json:"to"`
	Success bool       `json:"success"`
	Reason  MoveReason `json:"reason,omitempty"`
}

// TrapResult records a trap firing under an agent.
type TrapResult struct {
	AgentID  int      `json:"agentId"`
	ItemID   int      `json:"itemId"`
	Position HexCoord `json:"position"`
	Damage   int      `json:"damage"`
	HPAfter  int      `json:"hpAfter"`
}

// PickupResult records an item collected from the agent's tile.
type PickupResult struct {
	AgentID int   `json:"agentId"`
	Item    Item  `json:"item"`
	Buff    *Buff `json:"buff,omitempty"`
	HPAfter int   `json:"hpAfter"`
}

// PredictionResult records one agent's market bet outcome.
type PredictionResult struct {
	AgentID   int                 `json:"agentId"`
	Asset     Asset               `json:"asset"`
	Direction PredictionDirection `json:"direction"`
	StakePct  int                 `json:"stakePct"`
	ChangePct float64             `json:"changePct"`
	Flat      bool                `json:"flat,omitempty"`
	Correct   bool                `json:"correct"`
	HPChange  int                 `json:"hpChange"`
	HPAfter   int                 `json:"hpAfter"`
}

// DefendResult records a defend declaration and the cost paid for it.
type DefendResult struct {
	AgentID int  `json:"agentId"`
	Cost    int  `json:"cost"`
	Free    bool `json:"free,omitempty"` // sponsor waived the cost
}

// CombatResult records one resolved attack.
type CombatResult struct {
	AttackerID int  `json:"attackerId"`
	DefenderID int  `json:"defenderId"`
	Stake      int  `json:"stake"`
	Damage     int  `json:"damage"`
	Blocked    bool `json:"blocked"`
	Defended   bool `json:"defended"`
	Pierced    bool `json:"pierced,omitempty"`
	Fortified  bool `json:"fortified,omitempty"`
	Betrayal   bool `json:"betrayal,omitempty"`
	HPTransfer int  `json:"hpTransfer"`
	AttackerHP int  `json:"attackerHp"`
	DefenderHP int  `json:"defenderHp"`
}

// AllianceEventType discriminates alliance lifecycle records.
type AllianceEventType string

const (
	AllianceFormed    AllianceEventType = "FORMED"
	AllianceBetrayed  AllianceEventType = "BETRAYED"
	AllianceDissolved AllianceEventType = "DISSOLVED"
)

// AllianceChange records an alliance forming, breaking by betrayal, or
// dissolving on a member's death.
type AllianceChange struct {
	Type     AllianceEventType `json:"type"`
	AgentA   int               `json:"agentA"`
	AgentB   int               `json:"agentB"`
	Betrayer int               `json:"betrayer,omitempty"`
}

// SkillResult records an automatic class-skill activation.
type SkillResult struct {
	AgentID int    `json:"agentId"`
	Class   Class  `json:"class"`
	Skill   string `json:"skill"`
	Detail  string `json:"detail,omitempty"`
}

// StormResult records zone damage to one agent.
type StormResult struct {
	AgentID  int      `json:"agentId"`
	Position HexCoord `json:"position"`
	Damage   int      `json:"damage"`
	HPAfter  int      `json:"hpAfter"`
}

// BleedResult records the flat per-epoch attrition on one agent.
type BleedResult struct {
	AgentID int `json:"agentId"`
	Damage  int `json:"damage"`
	HPAfter int `json:"hpAfter"`
}

// SponsorApplied records a sponsor effect the engine honored this epoch.
type SponsorApplied struct {
	Effect  SponsorEffect `json:"effect"`
	HPAfter int           `json:"hpAfter"`
}

// DeathCause is the attributed source of an elimination.
type DeathCause string

const (
	CauseCombat     DeathCause = "combat"
	CausePrediction DeathCause = "prediction"
	CauseStorm      DeathCause = "storm"
	CauseBleed      DeathCause = "bleed"
	CauseTrap       DeathCause = "trap"
	CauseMulti      DeathCause = "multi"
)

// DeathRecord is one elimination, in emission order.
type DeathRecord struct {
	AgentID   int        `json:"agentId"`
	AgentName string     `json:"agentName"`
	Cause     DeathCause `json:"cause"`
	KillerID  *int       `json:"killerId,omitempty"`
	Epoch     int        `json:"epoch"`
	FinalHP   int        `json:"finalHp"`
}

// IntentDrop notes a user-level intent field the secretary discarded. The
// epoch always proceeds.
type IntentDrop struct {
	AgentID int    `json:"agentId"`
	Field   string `json:"field"`
	Reason  string `json:"reason"`
}

// EpochResult is the single handoff object to outer layers: everything that
// happened in one epoch plus the post-epoch roster snapshot.
type EpochResult struct {
	BattleID    string             `json:"battleId"`
	Epoch       int                `json:"epoch"`
	Phase       BattlePhase        `json:"phase"`
	PhaseChange bool               `json:"phaseChange,omitempty"`
	Market      MarketSnapshot     `json:"market"`
	Sponsors    []SponsorApplied   `json:"sponsors,omitempty"`
	Moves       []MoveResult       `json:"moves"`
	Traps       []TrapResult       `json:"traps,omitempty"`
	Pickups     []PickupResult     `json:"pickups,omitempty"`
	Predictions []PredictionResult `json:"predictions"`
	Defends     []DefendResult     `json:"defends,omitempty"`
	Skills      []SkillResult      `json:"skills,omitempty"`
	Alliances   []AllianceChange   `json:"alliances,omitempty"`
	Combats     []CombatResult     `json:"combats,omitempty"`
	Storm       []StormResult      `json:"storm,omitempty"`
	Bleed       []BleedResult      `json:"bleed,omitempty"`
	Deaths      []DeathRecord      `json:"deaths,omitempty"`
	Spawned     []Item             `json:"spawned,omitempty"`
	Expired     []Buff             `json:"expired,omitempty"`
	Dropped     []IntentDrop       `json:"dropped,omitempty"`
	Agents      []Agent            `json:"agents"`
	IsTerminal  bool               `json:"isTerminal,omitempty"`
	WinnerID    *int               `json:"winnerId,omitempty"`
}

// RosterEntry is one agent's final line in a BattleRecord.
type RosterEntry struct {
	AgentID        int    `json:"agentId"`
	Name           string `json:"name"`
	Class          Class  `json:"class"`
	FinalHP        int    `json:"finalHp"`
	Kills          int    `json:"kills"`
	EpochsSurvived int    `json:"epochsSurvived"`
}

// BattleRecord is produced once at completion.
type BattleRecord struct {
	BattleID     string        `json:"battleId"`
	WinnerID     *int          `json:"winnerId,omitempty"`
	Epochs       int           `json:"epochs"`
	StartedAt    int64         `json:"startedAt"`
	EndedAt      int64         `json:"endedAt"`
	Roster       []RosterEntry `json:"roster"`
	Eliminations []DeathRecord `json:"eliminations"`
}
