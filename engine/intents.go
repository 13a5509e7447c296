package engine

import (
	"fmt"
	"log/slog"
	"sort"

	"github.com/hungernads/nads-core/model"
)

// normalizeIntents is the secretary pass: every living agent ends up with
// exactly one sane intent. Missing intents get the documented default;
// illegal fields are dropped with a recorded reason, never an error.
func (a *Arena) normalizeIntents(intents []model.Intent) (map[int]model.Intent, []model.IntentDrop) {
	byAgent := make(map[int]model.Intent, len(intents))
	var drops []model.IntentDrop

	for _, in := range intents {
		ag, ok := a.agents[in.AgentID]
		if !ok {
			drops = append(drops, model.IntentDrop{AgentID: in.AgentID, Field: "intent", Reason: "unknown agent"})
			continue
		}
		if !ag.Alive {
			drops = append(drops, model.IntentDrop{AgentID: in.AgentID, Field: "intent", Reason: "agent dead"})
			continue
		}
		if _, dup := byAgent[in.AgentID]; dup {
			drops = append(drops, model.IntentDrop{AgentID: in.AgentID, Field: "intent", Reason: "duplicate intent"})
			continue
		}
		byAgent[in.AgentID] = in
	}

	for _, id := range a.agentOrder {
		ag := a.agents[id]
		if !ag.Alive {
			continue
		}
		in, ok := byAgent[id]
		if !ok {
			byAgent[id] = model.DefaultIntent(id)
			continue
		}
		norm, d := a.sanitizeIntent(ag, in)
		drops = append(drops, d...)
		byAgent[id] = norm
	}

	sort.Slice(drops, func(i, j int) bool { return drops[i].AgentID < drops[j].AgentID })
	return byAgent, drops
}

// sanitizeIntent applies field-level validation for one living agent.
func (a *Arena) sanitizeIntent(ag *model.Agent, in model.Intent) (model.Intent, []model.IntentDrop) {
	var drops []model.IntentDrop
	drop := func(field, reason string) {
		drops = append(drops, model.IntentDrop{AgentID: ag.ID, Field: field, Reason: reason})
		slog.Warn("intent field dropped", "agent", ag.ID, "field", field, "reason", reason)
	}

	if !in.Predict.Asset.Valid() {
		drop("predict.asset", fmt.Sprintf("unknown asset %q", in.Predict.Asset))
		in.Predict.Asset = model.ETH
	}
	if !in.Predict.Direction.Valid() {
		drop("predict.direction", "unknown direction")
		in.Predict.Direction = model.Up
	}
	if in.Predict.StakePct < model.MinStakePct || in.Predict.StakePct > model.MaxStakePct {
		in.Predict.StakePct = clampInt(in.Predict.StakePct, model.MinStakePct, model.MaxStakePct)
	}

	if !in.Move.Valid() {
		drop("move", "not a neighbor direction")
		in.Move = model.DirHold
	}

	// Attack and defend are mutually exclusive: the defend flag stands and
	// the attack is discarded.
	if in.Attack != nil && in.Defend {
		drop("attack", "attack and defend both requested")
		in.Attack = nil
	}

	if in.Attack != nil {
		target, ok := a.agents[in.Attack.TargetID]
		switch {
		case !ok:
			drop("attack", fmt.Sprintf("target %d does not exist", in.Attack.TargetID))
			in.Attack = nil
		case !target.Alive:
			drop("attack", fmt.Sprintf("target %d is dead", in.Attack.TargetID))
			in.Attack = nil
		case in.Attack.TargetID == ag.ID:
			drop("attack", "cannot target self")
			in.Attack = nil
		case in.Attack.Stake <= 0:
			drop("attack", "non-positive stake")
			in.Attack = nil
		default:
			if in.Attack.Stake > ag.MaxHP {
				in.Attack.Stake = ag.MaxHP
			}
		}
	}

	if in.Alliance != nil {
		partner, ok := a.agents[in.Alliance.PartnerID]
		switch {
		case !ok || !partner.Alive:
			drop("alliance", "partner missing or dead")
			in.Alliance = nil
		case in.Alliance.PartnerID == ag.ID:
			drop("alliance", "cannot ally with self")
			in.Alliance = nil
		}
	}

	in.AgentID = ag.ID
	return in, drops
}
