package bot

import (
	"github.com/hungernads/nads-core/model"
)

// View is the read-only battle slice a bot decides from: the post-epoch
// snapshot plus the last observed market deltas. Seed feeds deterministic
// tie-breaks only.
type View struct {
	Epoch  int
	Phase  model.BattlePhase
	SelfID int
	Agents []model.Agent
	Items  []model.Item
	Allies map[int][]int // agent id → allied ids
	Deltas map[model.Asset]float64
	Seed   uint64
}

// Env is the expression evaluation context. All exported methods are
// callable from expr rule conditions (e.g. `HPPct() <= 0.3`).
type Env struct {
	View View
}

// Self returns the deciding agent. A zero Agent means the view is broken;
// conditions then evaluate against dead state and nothing fires.
func (e Env) Self() model.Agent {
	for _, a := range e.View.Agents {
		if a.ID == e.View.SelfID {
			return a
		}
	}
	return model.Agent{}
}

func (e Env) HPPct() float64 {
	s := e.Self()
	if s.MaxHP == 0 {
		return 0
	}
	return float64(s.HP) / float64(s.MaxHP)
}

func (e Env) Epoch() int { return e.View.Epoch }

// enemies returns living opponents in id order.
func (e Env) enemies() []model.Agent {
	var out []model.Agent
	for _, a := range e.View.Agents {
		if a.ID != e.View.SelfID && a.Alive {
			out = append(out, a)
		}
	}
	return out
}

func (e Env) AliveEnemies() int { return len(e.enemies()) }

// NearestEnemy returns the closest living opponent, lowest id on ties.
func (e Env) NearestEnemy() *model.Agent {
	self := e.Self()
	var nearest *model.Agent
	best := 1 << 30
	for _, a := range e.enemies() {
		a := a
		if d := self.Position.Distance(a.Position); d < best {
			best = d
			nearest = &a
		}
	}
	return nearest
}

// WeakestAdjacentEnemy returns the lowest-HP opponent in attack range,
// lowest id on ties.
func (e Env) WeakestAdjacentEnemy() *model.Agent {
	self := e.Self()
	var weakest *model.Agent
	for _, a := range e.enemies() {
		a := a
		if self.Position.Distance(a.Position) > 1 {
			continue
		}
		if weakest == nil || a.HP < weakest.HP {
			weakest = &a
		}
	}
	return weakest
}

func (e Env) EnemyAdjacent() bool { return e.WeakestAdjacentEnemy() != nil }

// AdjacentEnemies counts opponents in attack range.
func (e Env) AdjacentEnemies() int {
	self := e.Self()
	n := 0
	for _, a := range e.enemies() {
		if self.Position.Distance(a.Position) <= 1 {
			n++
		}
	}
	return n
}

// OnLethalTile reports whether the bot's tile burns in the current phase.
func (e Env) OnLethalTile() bool {
	lvl := model.StormLevelAt(e.Self().Position)
	return lvl > 0 && e.View.Phase.StormLevel() >= lvl
}

// StormClosingIn reports whether the tile burns one phase from now — time
// to walk inward.
func (e Env) StormClosingIn() bool {
	lvl := model.StormLevelAt(e.Self().Position)
	return lvl > 0 && e.View.Phase.StormLevel()+1 >= lvl
}

// safeItems filters out traps — bots never chase those knowingly.
func (e Env) safeItems() []model.Item {
	var out []model.Item
	for _, it := range e.View.Items {
		if it.Type != model.Trap {
			out = append(out, it)
		}
	}
	return out
}

func (e Env) ItemsOnBoard() int { return len(e.safeItems()) }

// NearestItem returns the closest non-trap item, board order on ties.
func (e Env) NearestItem() *model.Item {
	self := e.Self()
	var nearest *model.Item
	best := 1 << 30
	for _, it := range e.safeItems() {
		it := it
		if d := self.Position.Distance(it.Position); d < best {
			best = d
			nearest = &it
		}
	}
	return nearest
}

func (e Env) OnItemTile() bool {
	it := e.NearestItem()
	return it != nil && it.Position == e.Self().Position
}

func (e Env) HasAlly() bool { return len(e.View.Allies[e.View.SelfID]) > 0 }

// AlliedWith reports an active pact with the given agent.
func (e Env) AlliedWith(id int) bool {
	for _, a := range e.View.Allies[e.View.SelfID] {
		if a == id {
			return true
		}
	}
	return false
}

// BestMomentum returns the largest absolute delta across assets; the bet
// with the most signal.
func (e Env) BestMomentum() float64 {
	best := 0.0
	for _, a := range model.Assets {
		if d := absf(e.View.Deltas[a]); d > best {
			best = d
		}
	}
	return best
}

// BestMomentumAsset returns the asset with the strongest move, ETH when the
// board is quiet (catalogue order breaks ties).
func (e Env) BestMomentumAsset() model.Asset {
	best := model.ETH
	bestAbs := 0.0
	for _, a := range model.Assets {
		if d := absf(e.View.Deltas[a]); d > bestAbs {
			bestAbs = d
			best = a
		}
	}
	return best
}

// DirectionToward picks the neighbor step that closes the most distance to
// the goal, staying on the board. Ties resolve in fixed direction order so
// decisions replay identically.
func (e Env) DirectionToward(goal model.HexCoord) model.Direction {
	self := e.Self()
	best := model.DirHold
	bestDist := self.Position.Distance(goal)
	for d := model.DirEast; d <= model.DirSoutheast; d++ {
		next := self.Position.Neighbor(d)
		if !next.InArena() {
			continue
		}
		if dist := next.Distance(goal); dist < bestDist {
			bestDist = dist
			best = d
		}
	}
	return best
}

// PatrolDirection walks the board deterministically when nothing better is
// on offer, varying by epoch and seed so agents don't stand still.
func (e Env) PatrolDirection() model.Direction {
	self := e.Self()
	start := int(e.View.Seed%6) + e.View.Epoch + self.ID
	for i := 0; i < 6; i++ {
		d := model.Direction(1 + (start+i)%6)
		if self.Position.Neighbor(d).InArena() {
			return d
		}
	}
	return model.DirHold
}

func absf(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
