package engine

import (
	"log/slog"

	"github.com/hungernads/nads-core/model"
)

// resolveStorm damages every living agent standing in the phase's lethal
// zone. Tiles persist; only the occupant bleeds.
func (a *Arena) resolveStorm(ledger *damageLedger) ([]model.StormResult, error) {
	level := a.phase.StormLevel()
	if level == 0 {
		return nil, nil
	}
	damage := int(a.cfg.StormDamagePct * float64(model.MaxHP))

	var out []model.StormResult
	for _, id := range a.agentOrder {
		ag := a.agents[id]
		if !ag.Alive {
			continue
		}
		tile, err := a.grid.Tile(ag.Position)
		if err != nil {
			return nil, bugf(a.battleID, a.epoch, "agent %d on missing tile: %v", id, err)
		}
		if tile.StormLevel == 0 || tile.StormLevel > level {
			continue
		}
		removed := ag.Damage(damage)
		ledger.storm[id] += removed
		out = append(out, model.StormResult{AgentID: id, Position: ag.Position, Damage: damage, HPAfter: ag.HP})
		slog.Debug("storm damage", "agent", id, "tile", ag.Position, "hp", ag.HP)
	}
	return out, nil
}

// resolveBleed applies the flat per-epoch attrition to every living agent.
func (a *Arena) resolveBleed(ledger *damageLedger) []model.BleedResult {
	damage := int(a.cfg.BleedPct * float64(model.MaxHP))
	if damage <= 0 {
		return nil
	}
	var out []model.BleedResult
	for _, id := range a.agentOrder {
		ag := a.agents[id]
		if !ag.Alive {
			continue
		}
		removed := ag.Damage(damage)
		ledger.bleed[id] += removed
		out = append(out, model.BleedResult{AgentID: id, Damage: damage, HPAfter: ag.HP})
	}
	return out
}
