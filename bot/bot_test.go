package bot

import (
	"reflect"
	"testing"

	"github.com/hungernads/nads-core/model"
)

func testView(agents []model.Agent) View {
	return View{
		Epoch:  2,
		Phase:  model.Loot,
		Agents: agents,
		Deltas: map[model.Asset]float64{model.ETH: 1.5, model.BTC: -0.4},
		Seed:   9,
	}
}

func twoAgents(selfPos, enemyPos model.HexCoord) []model.Agent {
	return []model.Agent{
		{ID: 1, Name: "self", Class: model.Warrior, HP: 1000, MaxHP: 1000, Alive: true, Position: selfPos},
		{ID: 2, Name: "enemy", Class: model.Trader, HP: 600, MaxHP: 1000, Alive: true, Position: enemyPos},
	}
}

// Every class persona compiles cleanly.
func TestAllPersonasCompile(t *testing.T) {
	for _, class := range model.Classes {
		if _, err := New(1, class); err != nil {
			t.Errorf("persona for %s failed to compile: %v", class, err)
		}
	}
}

// Identical views yield identical intents.
func TestDecideDeterminism(t *testing.T) {
	b, err := New(1, model.Warrior)
	if err != nil {
		t.Fatal(err)
	}
	view := testView(twoAgents(model.HexCoord{Q: 0, R: 0}, model.HexCoord{Q: 1, R: 0}))

	first := b.Decide(view)
	second := b.Decide(view)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("decisions diverged:\n%+v\n%+v", first, second)
	}
}

// A healthy warrior with an adjacent enemy attacks it.
func TestWarriorAttacksAdjacent(t *testing.T) {
	b, err := New(1, model.Warrior)
	if err != nil {
		t.Fatal(err)
	}
	in := b.Decide(testView(twoAgents(model.HexCoord{Q: 0, R: 0}, model.HexCoord{Q: 1, R: 0})))

	if in.Attack == nil || in.Attack.TargetID != 2 {
		t.Fatalf("intent = %+v, want an attack on agent 2", in)
	}
	if in.Attack.Stake <= 0 {
		t.Errorf("attack stake = %d, want positive", in.Attack.Stake)
	}
	if in.Defend {
		t.Error("attack and defend are mutually exclusive")
	}
}

// A wounded survivor under threat guards instead of swinging.
func TestSurvivorDefendsWhenHurt(t *testing.T) {
	b, err := New(1, model.Survivor)
	if err != nil {
		t.Fatal(err)
	}
	agents := twoAgents(model.HexCoord{Q: 0, R: 0}, model.HexCoord{Q: 1, R: 0})
	agents[0].Class = model.Survivor
	agents[0].HP = 200

	in := b.Decide(testView(agents))
	if !in.Defend {
		t.Errorf("intent = %+v, want a raised guard", in)
	}
	if in.Attack != nil {
		t.Error("defend intent still carries an attack")
	}
}

// Any persona walks off a burning tile toward the cornucopia.
func TestFleesLethalTile(t *testing.T) {
	for _, class := range model.Classes {
		b, err := New(1, class)
		if err != nil {
			t.Fatal(err)
		}
		view := testView(twoAgents(model.HexCoord{Q: 2, R: 0}, model.HexCoord{Q: -2, R: 0}))
		view.Phase = model.Hunt // outer ring burns

		in := b.Decide(view)
		self := view.Agents[0]
		next := self.Position.Neighbor(in.Move)
		if next.Distance(model.HexCoord{}) >= self.Position.Distance(model.HexCoord{}) {
			t.Errorf("%s: move %v does not step inward from the storm", class, in.Move)
		}
	}
}

// The greedy classes chase loot when the board has any.
func TestChasesItem(t *testing.T) {
	b, err := New(1, model.Trader)
	if err != nil {
		t.Fatal(err)
	}
	view := testView(twoAgents(model.HexCoord{Q: -2, R: 0}, model.HexCoord{Q: 2, R: 0}))
	view.Items = []model.Item{{ID: 1, Type: model.Ration, Position: model.HexCoord{Q: 0, R: 0}}}

	in := b.Decide(view)
	self := view.Agents[0]
	next := self.Position.Neighbor(in.Move)
	if next.Distance(model.HexCoord{}) >= self.Position.Distance(model.HexCoord{}) {
		t.Errorf("move %v does not close on the item", in.Move)
	}
}

// Predictions always carry a legal stake and a tracked asset.
func TestPredictionAlwaysLegal(t *testing.T) {
	views := []View{
		testView(twoAgents(model.HexCoord{Q: 0, R: 0}, model.HexCoord{Q: 1, R: 0})),
		{Epoch: 1, Phase: model.Loot, Agents: twoAgents(model.HexCoord{Q: 0, R: 0}, model.HexCoord{Q: 2, R: 0}), Deltas: map[model.Asset]float64{}},
	}
	for _, class := range model.Classes {
		b, err := New(1, class)
		if err != nil {
			t.Fatal(err)
		}
		for _, view := range views {
			in := b.Decide(view)
			if !in.Predict.Asset.Valid() || !in.Predict.Direction.Valid() {
				t.Errorf("%s: illegal prediction %+v", class, in.Predict)
			}
			if in.Predict.StakePct < model.MinStakePct || in.Predict.StakePct > model.MaxStakePct {
				t.Errorf("%s: stake %d outside [%d,%d]", class, in.Predict.StakePct, model.MinStakePct, model.MaxStakePct)
			}
		}
	}
}

// The roster produces one intent per living agent, dead ones skipped.
func TestRosterIntents(t *testing.T) {
	agents := []model.Agent{
		{ID: 1, Class: model.Warrior, HP: 1000, MaxHP: 1000, Alive: true, Position: model.HexCoord{Q: 0, R: 0}},
		{ID: 2, Class: model.Trader, HP: 0, MaxHP: 1000, Alive: false, Position: model.HexCoord{Q: 1, R: 0}},
		{ID: 3, Class: model.Gambler, HP: 500, MaxHP: 1000, Alive: true, Position: model.HexCoord{Q: 2, R: 0}},
	}
	roster, err := NewRoster(agents)
	if err != nil {
		t.Fatal(err)
	}

	intents := roster.Intents(testView(agents))
	if len(intents) != 2 {
		t.Fatalf("intent count = %d, want 2 living agents", len(intents))
	}
	if intents[0].AgentID != 1 || intents[1].AgentID != 3 {
		t.Errorf("intent owners = %d,%d, want 1,3", intents[0].AgentID, intents[1].AgentID)
	}
}

// Loyal personas court an ally when outnumbered-capable.
func TestParasiteSeeksAlliance(t *testing.T) {
	b, err := New(1, model.Parasite)
	if err != nil {
		t.Fatal(err)
	}
	agents := []model.Agent{
		{ID: 1, Class: model.Parasite, HP: 800, MaxHP: 1000, Alive: true, Position: model.HexCoord{Q: 0, R: 0}},
		{ID: 2, Class: model.Warrior, HP: 900, MaxHP: 1000, Alive: true, Position: model.HexCoord{Q: 2, R: 0}},
		{ID: 3, Class: model.Trader, HP: 400, MaxHP: 1000, Alive: true, Position: model.HexCoord{Q: -2, R: 0}},
	}
	in := b.Decide(testView(agents))

	if in.Alliance == nil || in.Alliance.PartnerID != 2 {
		t.Errorf("intent = %+v, want a proposal to the strongest agent 2", in)
	}
}
