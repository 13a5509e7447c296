// Package events defines the discriminated event stream the engine's
// collaborators consume, a JSON envelope codec for it, and a small in-process
// dispatcher standing in for the transport fan-out.
package events

import (
	"github.com/hungernads/nads-core/model"
)

// Event type tags. These must stay in sync with every downstream consumer of
// the stream.
const (
	TypeEpochStart       = "epoch_start"
	TypeAgentMoved       = "agent_moved"
	TypeItemSpawned      = "item_spawned"
	TypeItemPickedUp     = "item_picked_up"
	TypeTrapTriggered    = "trap_triggered"
	TypeAgentAction      = "agent_action"
	TypePredictionResult = "prediction_result"
	TypeCombatResult     = "combat_result"
	TypeAllianceEvent    = "alliance_event"
	TypeSkillActivation  = "skill_activation"
	TypeStormDamage      = "storm_damage"
	TypeSponsorBoost     = "sponsor_boost"
	TypeAgentDeath       = "agent_death"
	TypePhaseChange      = "phase_change"
	TypeEpochEnd         = "epoch_end"
	TypeBattleEnd        = "battle_end"
)

// Event is the single discriminated union fanned out to spectators, bettors,
// and recorders. Data holds the concrete payload for Type.
type Event struct {
	Type     string `json:"type"`
	BattleID string `json:"battleId"`
	Epoch    int    `json:"epoch"`
	Data     any    `json:"data"`
}

// EpochStartData opens an epoch.
type EpochStartData struct {
	Epoch int               `json:"epoch"`
	Phase model.BattlePhase `json:"phase"`
}

// AgentActionData carries a non-combat agent action, currently defend
// declarations.
type AgentActionData struct {
	AgentID int    `json:"agentId"`
	Action  string `json:"action"`
	Cost    int    `json:"cost,omitempty"`
	Free    bool   `json:"free,omitempty"`
}

// PhaseChangeData records a storm phase transition.
type PhaseChangeData struct {
	Phase model.BattlePhase `json:"phase"`
}

// ItemSpawnedData drops a new item on the board.
type ItemSpawnedData struct {
	Item model.Item `json:"item"`
}

// EpochEndData closes an epoch with the post-state snapshot.
type EpochEndData struct {
	Epoch      int               `json:"epoch"`
	Phase      model.BattlePhase `json:"phase"`
	Agents     []model.Agent     `json:"agents"`
	IsTerminal bool              `json:"isTerminal,omitempty"`
	WinnerID   *int              `json:"winnerId,omitempty"`
}

// BattleEndData carries the final record.
type BattleEndData struct {
	Record model.BattleRecord `json:"record"`
}

// FromEpochResult flattens one EpochResult into the ordered event stream:
// the emission order mirrors the pipeline order inside the epoch.
func FromEpochResult(res model.EpochResult) []Event {
	mk := func(typ string, data any) Event {
		return Event{Type: typ, BattleID: res.BattleID, Epoch: res.Epoch, Data: data}
	}

	out := []Event{mk(TypeEpochStart, EpochStartData{Epoch: res.Epoch, Phase: res.Phase})}
	if res.PhaseChange {
		out = append(out, mk(TypePhaseChange, PhaseChangeData{Phase: res.Phase}))
	}
	for _, s := range res.Sponsors {
		out = append(out, mk(TypeSponsorBoost, s))
	}
	for _, m := range res.Moves {
		out = append(out, mk(TypeAgentMoved, m))
	}
	for _, t := range res.Traps {
		out = append(out, mk(TypeTrapTriggered, t))
	}
	for _, p := range res.Pickups {
		out = append(out, mk(TypeItemPickedUp, p))
	}
	for _, p := range res.Predictions {
		out = append(out, mk(TypePredictionResult, p))
	}
	for _, d := range res.Defends {
		out = append(out, mk(TypeAgentAction, AgentActionData{AgentID: d.AgentID, Action: "defend", Cost: d.Cost, Free: d.Free}))
	}
	for _, s := range res.Skills {
		out = append(out, mk(TypeSkillActivation, s))
	}
	for _, a := range res.Alliances {
		out = append(out, mk(TypeAllianceEvent, a))
	}
	for _, c := range res.Combats {
		out = append(out, mk(TypeCombatResult, c))
	}
	for _, s := range res.Storm {
		out = append(out, mk(TypeStormDamage, s))
	}
	for _, d := range res.Deaths {
		out = append(out, mk(TypeAgentDeath, d))
	}
	for _, it := range res.Spawned {
		out = append(out, mk(TypeItemSpawned, ItemSpawnedData{Item: it}))
	}
	out = append(out, mk(TypeEpochEnd, EpochEndData{
		Epoch:      res.Epoch,
		Phase:      res.Phase,
		Agents:     res.Agents,
		IsTerminal: res.IsTerminal,
		WinnerID:   res.WinnerID,
	}))
	return out
}

// BattleEnd builds the terminal event that follows the last EpochResult.
func BattleEnd(record model.BattleRecord) Event {
	return Event{
		Type:     TypeBattleEnd,
		BattleID: record.BattleID,
		Epoch:    record.Epochs,
		Data:     BattleEndData{Record: record},
	}
}
