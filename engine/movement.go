package engine

import (
	"log/slog"

	"github.com/hungernads/nads-core/model"
)

// resolveMovement validates, orders, and commits one-tile moves. Every
// living agent yields a MoveResult, holds included. Conflicts admit the
// lowest agent id; swaps reject both sides; chains behind a blocked mover
// collapse to holds.
func (a *Arena) resolveMovement(intents map[int]model.Intent) ([]model.MoveResult, error) {
	type pending struct {
		agentID int
		from    model.HexCoord
		to      model.HexCoord
	}

	results := make(map[int]*model.MoveResult, len(a.agentOrder))
	var movers []pending

	for _, id := range a.agentOrder {
		ag := a.agents[id]
		if !ag.Alive {
			continue
		}
		in := intents[id]
		from := ag.Position
		to := from.Neighbor(in.Move)
		res := &model.MoveResult{AgentID: id, From: from, To: from, Success: true}
		results[id] = res

		if to == from {
			continue
		}
		if !a.grid.IsValid(to) {
			res.Success = false
			res.Reason = model.MoveOffGrid
			continue
		}
		movers = append(movers, pending{agentID: id, from: from, to: to})
	}

	// Swap detection: two movers targeting each other's tiles reject both.
	dest := make(map[int]model.HexCoord, len(movers))
	for _, m := range movers {
		dest[m.agentID] = m.to
	}
	swapped := make(map[int]bool)
	for _, m := range movers {
		occ, ok := a.grid.Occupant(m.to)
		if !ok {
			continue
		}
		if other, moving := dest[occ]; moving && other == m.from {
			swapped[m.agentID] = true
		}
	}

	admitted := make(map[int]pending)
	claimed := make(map[model.HexCoord]int) // destination → winning agent id
	for _, m := range movers {
		if swapped[m.agentID] {
			results[m.agentID].Success = false
			results[m.agentID].Reason = model.MoveSwap
			continue
		}
		if winner, taken := claimed[m.to]; taken {
			// Lower id already holds the claim — agentOrder is ascending.
			slog.Debug("movement conflict", "tile", m.to, "winner", winner, "loser", m.agentID)
			results[m.agentID].Success = false
			results[m.agentID].Reason = model.MoveConflict
			continue
		}
		claimed[m.to] = m.agentID
		admitted[m.agentID] = m
	}

	// Demote moves whose destination stays occupied by a non-mover (or by a
	// mover that itself got demoted). Repeats until stable so chains behind
	// a blocked agent collapse.
	for changed := true; changed; {
		changed = false
		for id, m := range admitted {
			occ, occupied := a.grid.Occupant(m.to)
			if !occupied {
				continue
			}
			if _, vacating := admitted[occ]; vacating {
				continue
			}
			results[id].Success = false
			results[id].Reason = model.MoveOccupied
			delete(admitted, id)
			changed = true
		}
	}

	// Commit in a single pass: clear every vacated tile, then place.
	for _, m := range admitted {
		if err := a.grid.Clear(m.from); err != nil {
			return nil, bugf(a.battleID, a.epoch, "clearing vacated tile for agent %d: %v", m.agentID, err)
		}
	}
	for _, m := range admitted {
		if err := a.grid.Place(m.agentID, m.to); err != nil {
			return nil, bugf(a.battleID, a.epoch, "placing agent %d: %v", m.agentID, err)
		}
		a.agents[m.agentID].Position = m.to
		results[m.agentID].To = m.to
	}

	out := make([]model.MoveResult, 0, len(results))
	for _, id := range a.agentOrder {
		if r, ok := results[id]; ok {
			out = append(out, *r)
		}
	}
	return out, nil
}
