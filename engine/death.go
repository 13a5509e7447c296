package engine

import (
	"log/slog"

	"github.com/hungernads/nads-core/model"
)

// damageLedger accumulates every HP point removed this epoch, by source, so
// eliminations can be attributed. Only HP actually removed counts — overkill
// past zero is ignored.
type damageLedger struct {
	combat     map[int]map[int]int // victim → attacker → damage
	prediction map[int]int
	storm      map[int]int
	bleed      map[int]int
	trap       map[int]int
}

func newDamageLedger(agentIDs []int) *damageLedger {
	l := &damageLedger{
		combat:     make(map[int]map[int]int, len(agentIDs)),
		prediction: make(map[int]int),
		storm:      make(map[int]int),
		bleed:      make(map[int]int),
		trap:       make(map[int]int),
	}
	for _, id := range agentIDs {
		l.combat[id] = make(map[int]int)
	}
	return l
}

// attribute classifies one victim's epoch damage. A single source strictly
// above half the total owns the death; anything tighter is multi. The killer
// is the top non-self combat contributor, lowest id on ties, and only when
// combat damage actually landed.
func (l *damageLedger) attribute(victimID int) (model.DeathCause, *int) {
	combatTotal := 0
	for _, dmg := range l.combat[victimID] {
		combatTotal += dmg
	}
	sources := []struct {
		cause model.DeathCause
		total int
	}{
		{model.CauseCombat, combatTotal},
		{model.CausePrediction, l.prediction[victimID]},
		{model.CauseStorm, l.storm[victimID]},
		{model.CauseBleed, l.bleed[victimID]},
		{model.CauseTrap, l.trap[victimID]},
	}

	grand := 0
	for _, s := range sources {
		grand += s.total
	}

	cause := model.CauseMulti
	if grand > 0 {
		for _, s := range sources {
			if s.total*2 > grand {
				cause = s.cause
				break
			}
		}
	}

	var killer *int
	if cause == model.CauseCombat || cause == model.CauseMulti {
		best, bestDmg := 0, 0
		for attacker, dmg := range l.combat[victimID] {
			if attacker == victimID || dmg <= 0 {
				continue
			}
			if dmg > bestDmg || (dmg == bestDmg && attacker < best) {
				best, bestDmg = attacker, dmg
			}
		}
		if bestDmg > 0 {
			killer = &best
		}
	}
	return cause, killer
}

// resolveDeaths scans for agents whose HP hit zero this epoch against the
// alive set captured at epoch start, attributes each death, clears the tile,
// credits the killer, and dissolves the dead agent's pacts. Ordering is by
// agent id, which also fixes elimination order within the epoch.
func (a *Arena) resolveDeaths(startAlive map[int]bool, ledger *damageLedger) ([]model.DeathRecord, []model.AllianceChange, error) {
	var deaths []model.DeathRecord
	var changes []model.AllianceChange

	for _, id := range a.agentOrder {
		ag := a.agents[id]
		if !startAlive[id] || ag.HP > 0 {
			continue
		}
		if !ag.Alive {
			return nil, nil, bugf(a.battleID, a.epoch, "agent %d already marked dead before death pass", id)
		}

		cause, killer := ledger.attribute(id)
		ag.Alive = false
		ag.Buffs = nil
		if err := a.grid.Clear(ag.Position); err != nil {
			return nil, nil, bugf(a.battleID, a.epoch, "clearing dead agent %d's tile: %v", id, err)
		}
		if killer != nil {
			a.agents[*killer].Kills++
		}

		for _, pair := range a.alliances.dropAgent(id) {
			changes = append(changes, model.AllianceChange{Type: model.AllianceDissolved, AgentA: pair[0], AgentB: pair[1]})
		}

		rec := model.DeathRecord{
			AgentID:   id,
			AgentName: ag.Name,
			Cause:     cause,
			KillerID:  killer,
			Epoch:     a.epoch,
			FinalHP:   ag.HP,
		}
		deaths = append(deaths, rec)
		a.eliminations = append(a.eliminations, rec)
		slog.Info("agent eliminated", "agent", id, "name", ag.Name, "cause", cause, "epoch", a.epoch)
	}
	return deaths, changes, nil
}
