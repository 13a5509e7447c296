package engine

import (
	"log/slog"

	"github.com/hungernads/nads-core/model"
)

// resolveTraps fires traps under every living agent, whether it moved onto
// the tile or held there. Each trap is consumed on trigger. Traps resolve
// before pickups so an agent stepping onto a loaded tile bleeds first.
func (a *Arena) resolveTraps(ledger *damageLedger) []model.TrapResult {
	var out []model.TrapResult
	for _, id := range a.agentOrder {
		ag := a.agents[id]
		if !ag.Alive {
			continue
		}
		trap, ok := a.grid.FirstItem(ag.Position, func(it model.Item) bool { return it.Type == model.Trap })
		if !ok {
			continue
		}
		a.grid.TakeItem(ag.Position, trap.ID)
		removed := ag.Damage(model.TrapDamage)
		ledger.trap[id] += removed
		out = append(out, model.TrapResult{
			AgentID:  id,
			ItemID:   trap.ID,
			Position: ag.Position,
			Damage:   model.TrapDamage,
			HPAfter:  ag.HP,
		})
		slog.Debug("trap triggered", "agent", id, "tile", ag.Position, "hp", ag.HP)
	}
	return out
}

// resolvePickups collects the first non-trap item (insertion order) on each
// surviving agent's tile and applies its effect or buff.
func (a *Arena) resolvePickups() []model.PickupResult {
	var out []model.PickupResult
	for _, id := range a.agentOrder {
		ag := a.agents[id]
		if !ag.Alive || ag.HP <= 0 {
			continue
		}
		item, ok := a.grid.FirstItem(ag.Position, func(it model.Item) bool { return it.Type != model.Trap })
		if !ok {
			continue
		}
		a.grid.TakeItem(ag.Position, item.ID)

		res := model.PickupResult{AgentID: id, Item: item}
		switch item.Type {
		case model.Ration:
			ag.Heal(model.RationHeal)
		default:
			if buff, granted := model.BuffFor(item, id, a.nextBuffID); granted {
				a.nextBuffID++
				ag.AddBuff(buff)
				res.Buff = &buff
			}
		}
		res.HPAfter = ag.HP
		out = append(out, res)
		slog.Debug("item picked up", "agent", id, "item", item.Type, "tile", ag.Position)
	}
	return out
}

// respawnItems rolls the phase-dependent spawn chance and, on success, drops
// one weighted-random item on a uniformly chosen empty tile.
func (a *Arena) respawnItems(rng *Stream) []model.Item {
	if !rng.Roll(respawnChance(a.phase)) {
		return nil
	}
	free := a.grid.UnoccupiedCoords()
	if len(free) == 0 {
		return nil
	}
	coord := free[rng.Pick(len(free))]
	itemType := model.ItemTypes[rng.Weighted(respawnWeights)]

	item := model.Item{ID: a.nextItemID, Type: itemType, Position: coord}
	a.nextItemID++
	if err := a.grid.AddItem(item); err != nil {
		// Free coords came from the grid itself; a miss here is a bug.
		slog.Error("item respawn failed", "tile", coord, "error", err)
		return nil
	}
	slog.Debug("item spawned", "type", itemType, "tile", coord)
	return []model.Item{item}
}

// seedItems places the opening loadout: the cornucopia stack plus a scatter
// of ring items, one guaranteed trap among them.
func (a *Arena) seedItems(rng *Stream) error {
	center := model.HexCoord{}
	for _, t := range []model.ItemType{model.Ration, model.Weapon, model.Shield} {
		item := model.Item{ID: a.nextItemID, Type: t, Position: center, Cornucopia: true}
		a.nextItemID++
		if err := a.grid.AddItem(item); err != nil {
			return err
		}
	}

	free := a.grid.UnoccupiedCoords()
	var ringTiles []model.HexCoord
	for _, c := range free {
		if c.Ring() > 0 {
			ringTiles = append(ringTiles, c)
		}
	}
	scatter := []model.ItemType{model.Trap, model.Ration, model.Weapon, model.Oracle}
	for _, t := range scatter {
		if len(ringTiles) == 0 {
			break
		}
		idx := rng.Pick(len(ringTiles))
		coord := ringTiles[idx]
		ringTiles = append(ringTiles[:idx], ringTiles[idx+1:]...)
		item := model.Item{ID: a.nextItemID, Type: t, Position: coord}
		a.nextItemID++
		if err := a.grid.AddItem(item); err != nil {
			return err
		}
	}
	return nil
}

// tickBuffs decrements timed buff durations on living agents and strips the
// expired ones. Oracle buffs are use-counted and expire at consumption, not
// here.
func (a *Arena) tickBuffs() []model.Buff {
	var expired []model.Buff
	for _, id := range a.agentOrder {
		ag := a.agents[id]
		if !ag.Alive {
			continue
		}
		kept := ag.Buffs[:0]
		for _, b := range ag.Buffs {
			if b.Type != model.BuffOracle {
				b.Duration--
			}
			if b.Duration <= 0 && b.Type != model.BuffOracle {
				expired = append(expired, b)
				continue
			}
			kept = append(kept, b)
		}
		ag.Buffs = kept
	}
	return expired
}
