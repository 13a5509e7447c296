package engine

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/hungernads/nads-core/model"
)

// Duel from full health: a guarded first exchange, then a finishing blow
// that transfers the kill.
func TestDuelBlockThenKill(t *testing.T) {
	a := newTestArena(t, scenarioConfig(), []testAgent{
		{name: "W", class: model.Warrior, pos: model.HexCoord{Q: 0, R: 0}},
		{name: "S", class: model.Survivor, pos: model.HexCoord{Q: 1, R: 0}},
	})

	// Epoch 1: W swings for 600, S blocks and pays the guard cost.
	w := predictHold(1)
	w.Attack = &model.AttackIntent{TargetID: 2, Stake: 600}
	s := predictHold(2)
	s.Defend = true

	res := processFlat(t, a, []model.Intent{w, s})

	if len(res.Combats) != 1 {
		t.Fatalf("combat count = %d, want 1", len(res.Combats))
	}
	c := res.Combats[0]
	if !c.Blocked || !c.Defended || c.Damage != 0 || c.HPTransfer != 0 {
		t.Errorf("first exchange = %+v, want blocked with zero damage", c)
	}
	if got := agentByID(res, 2).HP; got != 970 {
		t.Errorf("defender HP = %d, want 970 (paid the guard cost)", got)
	}
	if got := agentByID(res, 1).HP; got != 1000 {
		t.Errorf("attacker HP = %d, want 1000", got)
	}

	// Epoch 2: same target again, no guard this time. The class bonus takes
	// the hit to 1000 and the streak pierces anything left.
	w2 := predictHold(1)
	w2.Attack = &model.AttackIntent{TargetID: 2, Stake: 800}
	res2, err := a.ProcessEpoch(flatMarket(), []model.Intent{w2, predictHold(2)}, nil, 1)
	if err != nil {
		t.Fatalf("ProcessEpoch 2: %v", err)
	}

	c2 := res2.Combats[0]
	if c2.Damage != 1000 {
		t.Errorf("finishing damage = %d, want 1000", c2.Damage)
	}
	if !c2.Pierced {
		t.Error("repeat-target attack should pierce")
	}
	if got := agentByID(res2, 2).HP; got != 0 {
		t.Errorf("defender HP = %d, want 0", got)
	}
	if got := agentByID(res2, 1); got.HP != 1000 || got.Kills != 1 || !got.Alive {
		t.Errorf("attacker after kill = hp %d kills %d alive %v, want 1000/1/true", got.HP, got.Kills, got.Alive)
	}

	if len(res2.Deaths) != 1 {
		t.Fatalf("death count = %d, want 1", len(res2.Deaths))
	}
	d := res2.Deaths[0]
	if d.AgentID != 2 || d.Cause != model.CauseCombat || d.KillerID == nil || *d.KillerID != 1 {
		t.Errorf("death record = %+v, want agent 2 by combat, killer 1", d)
	}

	if !res2.IsTerminal || res2.WinnerID == nil || *res2.WinnerID != 1 {
		t.Errorf("terminal = %v winner = %v, want terminal with winner 1", res2.IsTerminal, res2.WinnerID)
	}
	if !a.IsComplete() {
		t.Error("IsComplete() should be true")
	}
	if win := a.CurrentWinner(); win == nil || win.ID != 1 {
		t.Errorf("CurrentWinner = %+v, want agent 1", win)
	}
}

// A correct trader call moves stake HP from the market to the agent.
func TestPredictionWin(t *testing.T) {
	a := newTestArena(t, scenarioConfig(), []testAgent{
		{name: "T", class: model.Trader, pos: model.HexCoord{Q: 0, R: 0}, hp: 500},
		{name: "B", class: model.Survivor, pos: model.HexCoord{Q: 2, R: 0}},
	})

	in := predictHold(1)
	in.Predict = model.PredictionIntent{Asset: model.ETH, Direction: model.Up, StakePct: 20}

	a.PrimeMarket(flatMarket())
	res, err := a.ProcessEpoch(shiftedMarket(model.ETH, 3), []model.Intent{in, predictHold(2)}, nil, 1)
	if err != nil {
		t.Fatalf("ProcessEpoch: %v", err)
	}

	p := res.Predictions[0]
	if !p.Correct || p.HPChange != 200 || p.HPAfter != 700 {
		t.Errorf("prediction = %+v, want correct +200 → 700", p)
	}
	if got := agentByID(res, 1).HP; got != 700 {
		t.Errorf("trader HP = %d, want 700", got)
	}
}

// Mutual annihilation in the storm: the later elimination takes the win.
func TestStormKillsStragglers(t *testing.T) {
	cfg := scenarioConfig()
	a := newTestArena(t, cfg, []testAgent{
		{name: "A", class: model.Survivor, pos: model.HexCoord{Q: 2, R: 0}, hp: 30},
		{name: "B", class: model.Survivor, pos: model.HexCoord{Q: 2, R: -2}, hp: 30},
	})
	// Force FINAL_STAND from the first epoch.
	a.cfg.Schedule = model.PhaseSchedule{}

	res := processFlat(t, a, []model.Intent{predictHold(1), predictHold(2)})

	if res.Phase != model.FinalStand || !res.PhaseChange {
		t.Fatalf("phase = %s (change %v), want FINAL_STAND", res.Phase, res.PhaseChange)
	}
	if len(res.Storm) != 2 {
		t.Fatalf("storm hits = %d, want 2", len(res.Storm))
	}
	if len(res.Deaths) != 2 {
		t.Fatalf("deaths = %d, want 2", len(res.Deaths))
	}
	for i, d := range res.Deaths {
		if d.Cause != model.CauseStorm {
			t.Errorf("death %d cause = %s, want storm", i, d.Cause)
		}
		if d.AgentID != i+1 {
			t.Errorf("elimination order: death %d is agent %d, want %d", i, d.AgentID, i+1)
		}
	}
	if !res.IsTerminal || res.WinnerID == nil || *res.WinnerID != 2 {
		t.Errorf("winner = %v, want last-to-die agent 2", res.WinnerID)
	}
	if !a.IsComplete() {
		t.Error("IsComplete() should be true")
	}
}

func TestLifecycleGuards(t *testing.T) {
	a := New("", DefaultConfig())
	if a.BattleID() == "" {
		t.Error("empty battle id should be replaced with a fresh one")
	}

	if _, err := a.ProcessEpoch(flatMarket(), nil, nil, 1); !errors.Is(err, ErrInvalidState) {
		t.Errorf("ProcessEpoch before spawn error = %v, want ErrInvalidState", err)
	}
	if err := a.StartBattle(); !errors.Is(err, ErrInvalidState) {
		t.Errorf("StartBattle before spawn error = %v, want ErrInvalidState", err)
	}
	if err := a.SpawnAgents([]RosterSpec{{Name: "solo", Class: model.Warrior}}); err == nil {
		t.Error("single-agent roster should be rejected")
	}

	roster := []RosterSpec{
		{Name: "a", Class: model.Warrior},
		{Name: "b", Class: model.Trader},
	}
	if err := a.SpawnAgents(roster); err != nil {
		t.Fatalf("SpawnAgents: %v", err)
	}
	if err := a.SpawnAgents(roster); !errors.Is(err, ErrInvalidState) {
		t.Errorf("double spawn error = %v, want ErrInvalidState", err)
	}
	if _, err := a.CompleteBattle(); !errors.Is(err, ErrInvalidState) {
		t.Errorf("CompleteBattle in lobby error = %v, want ErrInvalidState", err)
	}
	if err := a.StartBattle(); err != nil {
		t.Fatalf("StartBattle: %v", err)
	}
	if _, err := a.CompleteBattle(); !errors.Is(err, ErrInvalidState) {
		t.Errorf("CompleteBattle before terminal error = %v, want ErrInvalidState", err)
	}
}

// Epoch-limit termination: the battle is scored, a winner always exists.
func TestMaxEpochsTermination(t *testing.T) {
	cfg := scenarioConfig()
	cfg.MaxEpochs = 4
	a := newTestArena(t, cfg, []testAgent{
		{name: "A", class: model.Survivor, pos: model.HexCoord{Q: 0, R: 0}},
		{name: "B", class: model.Survivor, pos: model.HexCoord{Q: 1, R: 0}, hp: 400},
	})
	a.PrimeMarket(flatMarket())

	var last *model.EpochResult
	for !a.IsComplete() {
		res, err := a.ProcessEpoch(flatMarket(), []model.Intent{predictHold(1), predictHold(2)}, nil, 1)
		if err != nil {
			t.Fatalf("ProcessEpoch: %v", err)
		}
		last = res
		if res.Epoch > 4 {
			t.Fatalf("battle ran past the epoch limit: %d", res.Epoch)
		}
	}
	if last.Epoch != 4 || !last.IsTerminal {
		t.Fatalf("terminal epoch = %d (terminal %v), want 4", last.Epoch, last.IsTerminal)
	}
	// Highest HP takes the scored win.
	if last.WinnerID == nil || *last.WinnerID != 1 {
		t.Errorf("scored winner = %v, want agent 1", last.WinnerID)
	}

	rec, err := a.CompleteBattle()
	if err != nil {
		t.Fatalf("CompleteBattle: %v", err)
	}
	if rec.Epochs != 4 || rec.WinnerID == nil || *rec.WinnerID != 1 {
		t.Errorf("record = epochs %d winner %v, want 4 / agent 1", rec.Epochs, rec.WinnerID)
	}
	if a.Status() != StatusCompleted {
		t.Errorf("status = %s, want COMPLETED", a.Status())
	}
	if _, err := a.ProcessEpoch(flatMarket(), nil, nil, 1); !errors.Is(err, ErrInvalidState) {
		t.Errorf("ProcessEpoch after completion error = %v, want ErrInvalidState", err)
	}
}

// scriptedIntents drives a small deterministic brawl for the multi-epoch
// invariant and determinism tests.
func scriptedIntents(epoch int) []model.Intent {
	a := predictHold(1)
	b := predictHold(2)
	c := predictHold(3)
	switch epoch % 3 {
	case 0:
		a.Attack = &model.AttackIntent{TargetID: 2, Stake: 150}
		b.Defend = true
		c.Move = model.DirNortheast
	case 1:
		b.Attack = &model.AttackIntent{TargetID: 1, Stake: 200}
		c.Predict = model.PredictionIntent{Asset: model.BTC, Direction: model.Down, StakePct: 30}
		a.Move = model.DirEast
	default:
		c.Attack = &model.AttackIntent{TargetID: 1, Stake: 100}
		a.Defend = true
		b.Move = model.DirWest
	}
	return []model.Intent{a, b, c}
}

func scriptedMarket(epoch int) model.MarketSnapshot {
	snap := flatMarket()
	snap.Timestamp = int64(epoch + 1)
	// Alternate winners and losers so predictions cut both ways.
	snap.Prices[model.ETH] *= 1 + 0.02*float64(epoch%5-2)
	snap.Prices[model.BTC] *= 1 - 0.01*float64(epoch%3-1)
	return snap
}

func newScriptedArena(t *testing.T) *Arena {
	return newTestArena(t, DefaultConfig(), []testAgent{
		{name: "A", class: model.Warrior, pos: model.HexCoord{Q: 0, R: 0}},
		{name: "B", class: model.Trader, pos: model.HexCoord{Q: 1, R: 0}},
		{name: "C", class: model.Gambler, pos: model.HexCoord{Q: 0, R: 1}},
	})
}

// Identical inputs must yield byte-identical EpochResult sequences.
func TestDeterminism(t *testing.T) {
	run := func() [][]byte {
		a := newScriptedArena(t)
		a.PrimeMarket(flatMarket())
		var out [][]byte
		for epoch := 1; !a.IsComplete(); epoch++ {
			res, err := a.ProcessEpoch(scriptedMarket(epoch), scriptedIntents(epoch), nil, 99)
			if err != nil {
				t.Fatalf("ProcessEpoch: %v", err)
			}
			b, err := json.Marshal(res)
			if err != nil {
				t.Fatalf("marshal: %v", err)
			}
			out = append(out, b)
		}
		return out
	}

	first := run()
	second := run()
	if len(first) != len(second) {
		t.Fatalf("epoch counts differ: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if !bytes.Equal(first[i], second[i]) {
			t.Fatalf("epoch %d diverged:\n%s\n%s", i+1, first[i], second[i])
		}
	}
}

// HP bounds, monotone death, and exclusive occupancy hold after every epoch.
func TestEpochInvariants(t *testing.T) {
	a := newScriptedArena(t)
	a.PrimeMarket(flatMarket())

	dead := make(map[int]bool)
	for epoch := 1; !a.IsComplete(); epoch++ {
		res, err := a.ProcessEpoch(scriptedMarket(epoch), scriptedIntents(epoch), nil, 7)
		if err != nil {
			t.Fatalf("ProcessEpoch %d: %v", epoch, err)
		}

		positions := make(map[model.HexCoord]int)
		for _, ag := range res.Agents {
			if ag.HP < 0 || ag.HP > ag.MaxHP {
				t.Fatalf("epoch %d: agent %d HP %d out of bounds", epoch, ag.ID, ag.HP)
			}
			if dead[ag.ID] && ag.Alive {
				t.Fatalf("epoch %d: agent %d came back to life", epoch, ag.ID)
			}
			if !ag.Alive {
				dead[ag.ID] = true
				continue
			}
			if prev, taken := positions[ag.Position]; taken {
				t.Fatalf("epoch %d: agents %d and %d share tile %+v", epoch, prev, ag.ID, ag.Position)
			}
			positions[ag.Position] = ag.ID
		}
	}
}

// EpochResult must survive a serialize/deserialize round trip unchanged.
func TestEpochResultRoundTrip(t *testing.T) {
	a := newScriptedArena(t)
	a.PrimeMarket(flatMarket())
	res, err := a.ProcessEpoch(scriptedMarket(1), scriptedIntents(1), nil, 5)
	if err != nil {
		t.Fatalf("ProcessEpoch: %v", err)
	}

	first, err := json.Marshal(res)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var decoded model.EpochResult
	if err := json.Unmarshal(first, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	second, err := json.Marshal(&decoded)
	if err != nil {
		t.Fatalf("re-marshal: %v", err)
	}
	if !bytes.Equal(first, second) {
		t.Errorf("round trip changed bytes:\n%s\n%s", first, second)
	}
}

// The sink observes every EpochResult in order.
func TestEpochSink(t *testing.T) {
	a := newScriptedArena(t)
	a.PrimeMarket(flatMarket())

	var seen []int
	a.SetSink(func(res model.EpochResult) { seen = append(seen, res.Epoch) })

	for epoch := 1; epoch <= 3; epoch++ {
		if _, err := a.ProcessEpoch(scriptedMarket(epoch), scriptedIntents(epoch), nil, 3); err != nil {
			t.Fatalf("ProcessEpoch: %v", err)
		}
		if a.IsComplete() {
			break
		}
	}
	for i, e := range seen {
		if e != i+1 {
			t.Fatalf("sink order = %v, want gap-free from 1", seen)
		}
	}
}

// Sponsor boosts heal before the pipeline runs and are passed through.
func TestSponsorBoost(t *testing.T) {
	a := newTestArena(t, scenarioConfig(), []testAgent{
		{name: "A", class: model.Warrior, pos: model.HexCoord{Q: 0, R: 0}, hp: 500},
		{name: "B", class: model.Trader, pos: model.HexCoord{Q: 2, R: 0}},
	})
	a.PrimeMarket(flatMarket())

	sponsors := map[int]model.SponsorEffect{
		1: {AgentID: 1, HPBoost: 150, Label: "crowd favorite"},
	}
	res, err := a.ProcessEpoch(flatMarket(), []model.Intent{predictHold(1), predictHold(2)}, sponsors, 1)
	if err != nil {
		t.Fatalf("ProcessEpoch: %v", err)
	}
	if len(res.Sponsors) != 1 || res.Sponsors[0].HPAfter != 650 {
		t.Errorf("sponsors = %+v, want one boost to 650", res.Sponsors)
	}
	if got := agentByID(res, 1).HP; got != 650 {
		t.Errorf("boosted HP = %d, want 650", got)
	}
}

func TestRosterEntryEpochsSurvived(t *testing.T) {
	a := newTestArena(t, scenarioConfig(), []testAgent{
		{name: "W", class: model.Warrior, pos: model.HexCoord{Q: 0, R: 0}},
		{name: "S", class: model.Trader, pos: model.HexCoord{Q: 1, R: 0}, hp: 100},
	})
	w := predictHold(1)
	w.Attack = &model.AttackIntent{TargetID: 2, Stake: 200}
	processFlat(t, a, []model.Intent{w, predictHold(2)})

	if !a.IsComplete() {
		t.Fatal("battle should be decided")
	}
	rec, err := a.CompleteBattle()
	if err != nil {
		t.Fatalf("CompleteBattle: %v", err)
	}
	for _, entry := range rec.Roster {
		want := 1
		if entry.EpochsSurvived != want {
			t.Errorf("agent %d epochs survived = %d, want %d", entry.AgentID, entry.EpochsSurvived, want)
		}
	}
	if len(rec.Eliminations) != 1 || rec.Eliminations[0].AgentID != 2 {
		t.Errorf("eliminations = %+v, want agent 2 only", rec.Eliminations)
	}
}

func TestSpawnSpacing(t *testing.T) {
	a := New("spacing", DefaultConfig())
	roster := make([]RosterSpec, 5)
	for i := range roster {
		roster[i] = RosterSpec{Name: fmt.Sprintf("nad-%d", i+1), Class: model.Classes[i]}
	}
	if err := a.SpawnAgents(roster); err != nil {
		t.Fatalf("SpawnAgents: %v", err)
	}
	seen := make(map[model.HexCoord]bool)
	for _, ag := range a.Agents() {
		if ag.Position.Ring() != model.ArenaRadius {
			t.Errorf("agent %d spawned on ring %d, want outer ring", ag.ID, ag.Position.Ring())
		}
		if seen[ag.Position] {
			t.Errorf("duplicate spawn tile %+v", ag.Position)
		}
		seen[ag.Position] = true
	}
}
