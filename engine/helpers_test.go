package engine

import (
	"testing"

	"github.com/hungernads/nads-core/model"
)

// testAgent describes one scripted participant for scenario arenas.
type testAgent struct {
	name  string
	class model.Class
	pos   model.HexCoord
	hp    int
}

// scenarioConfig is the default battle config with attrition disabled so
// scripted expectations stay arithmetic-exact.
func scenarioConfig() Config {
	cfg := DefaultConfig()
	cfg.BleedPct = 0
	return cfg
}

// newTestArena builds an active arena with agents pinned to exact tiles and
// HP values, and a clean board (no seeded items).
func newTestArena(t *testing.T, cfg Config, agents []testAgent) *Arena {
	t.Helper()

	a := New("test-battle", cfg)
	roster := make([]RosterSpec, len(agents))
	for i, spec := range agents {
		roster[i] = RosterSpec{Name: spec.name, Class: spec.class}
	}
	if err := a.SpawnAgents(roster); err != nil {
		t.Fatalf("SpawnAgents: %v", err)
	}
	if err := a.StartBattle(); err != nil {
		t.Fatalf("StartBattle: %v", err)
	}

	clearBoardItems(t, a)

	for i, spec := range agents {
		id := i + 1
		ag := a.agents[id]
		if err := a.grid.Clear(ag.Position); err != nil {
			t.Fatalf("clearing spawn tile for agent %d: %v", id, err)
		}
		if err := a.grid.Place(id, spec.pos); err != nil {
			t.Fatalf("placing agent %d at %+v: %v", id, spec.pos, err)
		}
		ag.Position = spec.pos
		if spec.hp > 0 {
			ag.HP = spec.hp
		}
	}
	return a
}

func clearBoardItems(t *testing.T, a *Arena) {
	t.Helper()
	for _, c := range model.ArenaCoords() {
		tile, err := a.grid.Tile(c)
		if err != nil {
			t.Fatalf("Tile(%+v): %v", c, err)
		}
		tile.items = nil
	}
}

// flatMarket returns a snapshot that reads as zero change when used for both
// the baseline and the epoch.
func flatMarket() model.MarketSnapshot {
	return model.MarketSnapshot{
		Prices:    map[model.Asset]float64{model.ETH: 3000, model.BTC: 60000, model.SOL: 150, model.MON: 2},
		Timestamp: 1,
	}
}

// shiftedMarket returns flatMarket moved by pct on a single asset.
func shiftedMarket(asset model.Asset, pct float64) model.MarketSnapshot {
	snap := flatMarket()
	snap.Prices[asset] *= 1 + pct/100
	snap.Timestamp = 2
	return snap
}

// predictHold is the boilerplate intent: minimum flat bet, no movement.
func predictHold(agentID int) model.Intent {
	return model.DefaultIntent(agentID)
}

func processFlat(t *testing.T, a *Arena, intents []model.Intent) *model.EpochResult {
	t.Helper()
	a.PrimeMarket(flatMarket())
	res, err := a.ProcessEpoch(flatMarket(), intents, nil, 1)
	if err != nil {
		t.Fatalf("ProcessEpoch: %v", err)
	}
	return res
}

func agentByID(res *model.EpochResult, id int) model.Agent {
	for _, ag := range res.Agents {
		if ag.ID == id {
			return ag
		}
	}
	return model.Agent{}
}

func intPtr(v int) *int { return &v }
