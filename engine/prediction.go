package engine

import (
	"log/slog"

	"github.com/hungernads/nads-core/model"
)

// resolvePredictions settles every living agent's market bet in agent-id
// order and applies the HP deltas before combat runs.
func (a *Arena) resolvePredictions(intents map[int]model.Intent, deltas map[model.Asset]float64, rng *Stream, ledger *damageLedger) ([]model.PredictionResult, []model.SkillResult) {
	var results []model.PredictionResult
	var skills []model.SkillResult

	for _, id := range a.agentOrder {
		ag := a.agents[id]
		if !ag.Alive {
			continue
		}
		p := intents[id].Predict
		stakeHP := p.StakePct * ag.MaxHP / 100
		if ag.Class == model.Gambler {
			// Gamblers swing twice as hard in both directions.
			stakeHP *= 2
		}

		change := deltas[p.Asset]
		res := model.PredictionResult{
			AgentID:   id,
			Asset:     p.Asset,
			Direction: p.Direction,
			StakePct:  p.StakePct,
			ChangePct: change,
		}

		switch {
		case model.IsFlat(change):
			res.Flat = true
		case p.Direction.Matches(change):
			res.Correct = true
		default:
			// Wrong call: an oracle hint rescues it outright; failing that, a
			// trader's edge may flip it.
			if b := ag.Buff(model.BuffOracle); b != nil {
				ag.RemoveBuff(model.BuffOracle)
				res.Correct = true
			} else if ag.Class == model.Trader && rng.Roll(a.cfg.TraderFlipChance) {
				res.Correct = true
				skills = append(skills, model.SkillResult{
					AgentID: id, Class: ag.Class, Skill: ag.Class.Skill(),
					Detail: "wrong call flipped",
				})
			}
		}

		switch {
		case res.Flat:
			res.HPChange = 0
		case res.Correct:
			res.HPChange = ag.Heal(stakeHP)
		default:
			removed := ag.Damage(stakeHP)
			ledger.prediction[id] += removed
			res.HPChange = -stakeHP
		}
		res.HPAfter = ag.HP
		results = append(results, res)
		slog.Debug("prediction settled",
			"agent", id, "asset", p.Asset, "direction", p.Direction,
			"change", change, "correct", res.Correct, "hp", ag.HP)
	}
	return results, skills
}
