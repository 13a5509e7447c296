package engine

import (
	"fmt"

	"github.com/hungernads/nads-core/model"
)

// attackStreak tracks consecutive epochs an agent declared the same target,
// feeding the RECKLESS trigger.
type attackStreak struct {
	targetID int
	epochs   int
}

// epochSkills carries the skill state computed for one epoch.
type epochSkills struct {
	allIn map[int]bool // GAMBLER: combat stake doubled this epoch
}

// applyPreSkills runs the intent-shaping skills before any phase touches
// state: PARASITE adopts last epoch's winning bet, GAMBLER pins the stake
// when desperate. Both read only the previous epoch's snapshot and the
// agent's current HP, so activation is reproducible.
func (a *Arena) applyPreSkills(intents map[int]model.Intent) (map[int]model.Intent, []model.SkillResult) {
	var skills []model.SkillResult
	sk := make(map[int]model.Intent, len(intents))
	for id, in := range intents {
		sk[id] = in
	}

	for _, id := range a.agentOrder {
		ag := a.agents[id]
		if !ag.Alive {
			continue
		}
		in := sk[id]
		switch ag.Class {
		case model.Parasite:
			if a.prevBestBet != nil && a.prevBestGain > 0 && a.prevBestAgent != id {
				in.Predict = *a.prevBestBet
				skills = append(skills, model.SkillResult{
					AgentID: id, Class: ag.Class, Skill: ag.Class.Skill(),
					Detail: fmt.Sprintf("copied agent %d's bet", a.prevBestAgent),
				})
			}
		case model.Gambler:
			if ag.HPPercent() <= a.cfg.AllInThreshold {
				in.Predict.StakePct = model.MaxStakePct
				a.skillState.allIn[id] = true
				skills = append(skills, model.SkillResult{
					AgentID: id, Class: ag.Class, Skill: ag.Class.Skill(),
					Detail: "stake pinned, combat stake doubled",
				})
			}
		}
		sk[id] = in
	}
	return sk, skills
}

// checkReckless arms the WARRIOR pierce when the declared target matches the
// streak from previous epochs (two or more in a row counting this one). The
// self-damage is applied by the combat resolver at attack time.
func (a *Arena) checkReckless(attackerID, targetID int) bool {
	ag := a.agents[attackerID]
	if ag.Class != model.Warrior {
		return false
	}
	streak, ok := a.attackHistory[attackerID]
	return ok && streak.targetID == targetID && streak.epochs >= 1
}

// recordAttackHistory folds this epoch's declared targets into the streak
// table after combat resolves.
func (a *Arena) recordAttackHistory(intents map[int]model.Intent) {
	for _, id := range a.agentOrder {
		in, ok := intents[id]
		if !ok || in.Attack == nil {
			delete(a.attackHistory, id)
			continue
		}
		streak := a.attackHistory[id]
		if streak.targetID == in.Attack.TargetID {
			streak.epochs++
		} else {
			streak = attackStreak{targetID: in.Attack.TargetID, epochs: 1}
		}
		a.attackHistory[id] = streak
	}
}

// recordBestBet remembers the epoch's top HP-gaining prediction for next
// epoch's parasites. Ties go to the lower agent id via iteration order.
func (a *Arena) recordBestBet(intents map[int]model.Intent, results []model.PredictionResult) {
	a.prevBestBet = nil
	a.prevBestGain = 0
	a.prevBestAgent = 0
	for _, r := range results {
		if r.HPChange > a.prevBestGain {
			in := intents[r.AgentID]
			bet := in.Predict
			a.prevBestBet = &bet
			a.prevBestGain = r.HPChange
			a.prevBestAgent = r.AgentID
		}
	}
}
