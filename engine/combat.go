package engine

import (
	"fmt"
	"log/slog"
	"math"

	"github.com/hungernads/nads-core/model"
)

// combatView is the read-only cross-agent snapshot captured at combat-phase
// entry. Damage lands on live state, but targeting decisions (range, alive
// checks) read the entry snapshot so resolution order can't change who was
// attackable.
type combatView struct {
	alive    map[int]bool
	position map[int]model.HexCoord
}

func (a *Arena) captureCombatView() combatView {
	v := combatView{
		alive:    make(map[int]bool, len(a.agentOrder)),
		position: make(map[int]model.HexCoord, len(a.agentOrder)),
	}
	for _, id := range a.agentOrder {
		ag := a.agents[id]
		v.alive[id] = ag.Alive
		v.position[id] = ag.Position
	}
	return v
}

// resolveCombat settles all attack intents in ascending attacker-id order.
func (a *Arena) resolveCombat(intents map[int]model.Intent, sponsors map[int]model.SponsorEffect, ledger *damageLedger) (
	combats []model.CombatResult,
	defends []model.DefendResult,
	skills []model.SkillResult,
	changes []model.AllianceChange,
	drops []model.IntentDrop,
) {
	view := a.captureCombatView()

	// Defend declarations are charged once per epoch at phase entry; a
	// sponsor freeDefend raises the guard without the cost.
	defending := make(map[int]bool)
	for _, id := range a.agentOrder {
		ag := a.agents[id]
		if !ag.Alive {
			continue
		}
		declared := intents[id].Defend
		free := sponsors[id].FreeDefend
		if !declared && !free {
			continue
		}
		defending[id] = true
		cost := 0
		if declared && !free {
			cost = int(a.cfg.DefendCostPct * float64(ag.MaxHP))
			removed := ag.Damage(cost)
			ledger.bleed[id] += removed
		}
		defends = append(defends, model.DefendResult{AgentID: id, Cost: cost, Free: free})
	}

	blocksUsed := make(map[int]int)
	fortifyUsed := make(map[int]bool)

	for _, attackerID := range a.agentOrder {
		in, ok := intents[attackerID]
		if !ok || in.Attack == nil {
			continue
		}
		attacker := a.agents[attackerID]
		if !attacker.Alive {
			continue
		}
		targetID := in.Attack.TargetID
		if !view.alive[targetID] {
			drops = append(drops, model.IntentDrop{AgentID: attackerID, Field: "attack", Reason: fmt.Sprintf("target %d not alive", targetID)})
			continue
		}
		if view.position[attackerID].Distance(view.position[targetID]) > 1 {
			drops = append(drops, model.IntentDrop{AgentID: attackerID, Field: "attack", Reason: fmt.Sprintf("target %d out of range", targetID)})
			continue
		}
		target := a.agents[targetID]

		res := model.CombatResult{
			AttackerID: attackerID,
			DefenderID: targetID,
			Stake:      in.Attack.Stake,
			Defended:   defending[targetID],
		}

		// Warrior tunnel vision: the same target two epochs running pierces
		// the guard at a price.
		if a.checkReckless(attackerID, targetID) {
			res.Pierced = true
			self := int(a.cfg.RecklessSelfPct * float64(attacker.MaxHP))
			removed := attacker.Damage(self)
			ledger.combat[attackerID][attackerID] += removed
			skills = append(skills, model.SkillResult{
				AgentID: attackerID, Class: attacker.Class, Skill: attacker.Class.Skill(),
				Detail: fmt.Sprintf("pierced agent %d's defense", targetID),
			})
		}

		// Attacking an ally breaks the pact and doubles the hit.
		if a.alliances.allied(attackerID, targetID) {
			res.Betrayal = true
			a.alliances.dissolve(attackerID, targetID)
			changes = append(changes, model.AllianceChange{
				Type: model.AllianceBetrayed, AgentA: attackerID, AgentB: targetID, Betrayer: attackerID,
			})
		}

		// A raised guard blocks every attack while a shield buff holds;
		// without one it stops only the first, in attacker-id order.
		if res.Defended && !res.Pierced {
			if target.Buff(model.BuffDefense) != nil || blocksUsed[targetID] == 0 {
				blocksUsed[targetID]++
				res.Blocked = true
				res.AttackerHP = attacker.HP
				res.DefenderHP = target.HP
				combats = append(combats, res)
				continue
			}
		}

		// FORTIFY absorbs one attack that would otherwise land, no defend
		// cost, when the survivor is cornered.
		if target.Class == model.Survivor && !fortifyUsed[targetID] && target.HPPercent() <= a.cfg.FortifyThreshold {
			fortifyUsed[targetID] = true
			res.Fortified = true
			res.AttackerHP = attacker.HP
			res.DefenderHP = target.HP
			skills = append(skills, model.SkillResult{
				AgentID: targetID, Class: target.Class, Skill: target.Class.Skill(),
				Detail: fmt.Sprintf("absorbed agent %d's attack", attackerID),
			})
			combats = append(combats, res)
			continue
		}

		stake := in.Attack.Stake
		if a.skillState.allIn[attackerID] {
			stake *= 2
		}
		bonus := attacker.AttackBonus() + sponsors[attackerID].AttackBonus
		if attacker.Class == model.Warrior {
			bonus += a.cfg.WarriorAttackBonus
		}
		damage := int(math.Floor(float64(stake) * (1 + bonus)))
		if res.Defended {
			// The guard was breached but shield training still blunts it.
			damage = int(math.Floor(float64(damage) * (1 - target.DefenseBonus())))
		}
		if res.Betrayal {
			damage *= a.cfg.BetrayalMultiplier
		}

		removed := target.Damage(damage)
		ledger.combat[targetID][attackerID] += removed
		res.Damage = damage
		res.HPTransfer = attacker.Heal(damage)
		res.AttackerHP = attacker.HP
		res.DefenderHP = target.HP
		combats = append(combats, res)
		slog.Debug("attack resolved",
			"attacker", attackerID, "defender", targetID,
			"damage", damage, "transfer", res.HPTransfer, "betrayal", res.Betrayal)
	}

	a.recordAttackHistory(intents)
	return combats, defends, skills, changes, drops
}
