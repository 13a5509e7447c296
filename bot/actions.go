package bot

import (
	"fmt"

	"github.com/hungernads/nads-core/model"
)

// IntentDraft is the intent under assembly during one rule evaluation pass.
type IntentDraft = model.Intent

// actionAttackWeakest strikes the weakest adjacent opponent for the given
// stake.
func actionAttackWeakest(stake int) ActionFunc {
	return func(env Env, intent *IntentDraft) error {
		target := env.WeakestAdjacentEnemy()
		if target == nil {
			return fmt.Errorf("no adjacent target")
		}
		intent.Attack = &model.AttackIntent{TargetID: target.ID, Stake: stake}
		intent.Defend = false
		return nil
	}
}

// actionDefend raises the guard; any queued attack is withdrawn since the
// two are mutually exclusive.
func actionDefend(env Env, intent *IntentDraft) error {
	intent.Defend = true
	intent.Attack = nil
	return nil
}

// actionFleeStorm walks toward the cornucopia, the only tile the storm never
// takes.
func actionFleeStorm(env Env, intent *IntentDraft) error {
	intent.Move = env.DirectionToward(model.HexCoord{})
	return nil
}

// actionChaseItem steps toward the nearest non-trap item.
func actionChaseItem(env Env, intent *IntentDraft) error {
	item := env.NearestItem()
	if item == nil {
		return fmt.Errorf("no item on board")
	}
	intent.Move = env.DirectionToward(item.Position)
	return nil
}

// actionCloseOnEnemy steps toward the nearest opponent.
func actionCloseOnEnemy(env Env, intent *IntentDraft) error {
	target := env.NearestEnemy()
	if target == nil {
		return fmt.Errorf("no enemy alive")
	}
	intent.Move = env.DirectionToward(target.Position)
	return nil
}

// actionKeepDistance steps away from the nearest opponent, falling back to
// patrol when boxed in.
func actionKeepDistance(env Env, intent *IntentDraft) error {
	target := env.NearestEnemy()
	if target == nil {
		return fmt.Errorf("no enemy alive")
	}
	self := env.Self()
	best := model.DirHold
	bestDist := self.Position.Distance(target.Position)
	for d := model.DirEast; d <= model.DirSoutheast; d++ {
		next := self.Position.Neighbor(d)
		if !next.InArena() {
			continue
		}
		if dist := next.Distance(target.Position); dist > bestDist {
			bestDist = dist
			best = d
		}
	}
	if best == model.DirHold {
		best = env.PatrolDirection()
	}
	intent.Move = best
	return nil
}

// actionPatrol wanders deterministically.
func actionPatrol(env Env, intent *IntentDraft) error {
	intent.Move = env.PatrolDirection()
	return nil
}

// actionBetMomentum rides the strongest recent move at the given stake.
func actionBetMomentum(stakePct int) ActionFunc {
	return func(env Env, intent *IntentDraft) error {
		asset := env.BestMomentumAsset()
		dir := model.Up
		if env.View.Deltas[asset] < 0 {
			dir = model.Down
		}
		intent.Predict = model.PredictionIntent{Asset: asset, Direction: dir, StakePct: stakePct}
		return nil
	}
}

// actionBetContrarian fades the strongest recent move at the given stake.
func actionBetContrarian(stakePct int) ActionFunc {
	return func(env Env, intent *IntentDraft) error {
		asset := env.BestMomentumAsset()
		dir := model.Down
		if env.View.Deltas[asset] < 0 {
			dir = model.Up
		}
		intent.Predict = model.PredictionIntent{Asset: asset, Direction: dir, StakePct: stakePct}
		return nil
	}
}

// actionProposeAlliance courts the healthiest opponent not already allied —
// strength is what a pact is for.
func actionProposeAlliance(env Env, intent *IntentDraft) error {
	var pick *model.Agent
	for _, a := range env.enemies() {
		a := a
		if env.AlliedWith(a.ID) {
			continue
		}
		if pick == nil || a.HP > pick.HP {
			pick = &a
		}
	}
	if pick == nil {
		return fmt.Errorf("nobody to court")
	}
	intent.Alliance = &model.AllianceIntent{PartnerID: pick.ID}
	return nil
}
