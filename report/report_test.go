package report

import (
	"bytes"
	"strings"
	"testing"

	"github.com/fatih/color"

	"github.com/hungernads/nads-core/model"
)

func init() {
	// Keep ANSI escapes out of the assertions.
	color.NoColor = true
}

func sampleRecord() model.BattleRecord {
	winner := 1
	killer := 1
	return model.BattleRecord{
		BattleID: "battle-0000000000000001",
		WinnerID: &winner,
		Epochs:   12,
		Roster: []model.RosterEntry{
			{AgentID: 1, Name: "nad-1", Class: model.Warrior, FinalHP: 640, Kills: 2, EpochsSurvived: 12},
			{AgentID: 2, Name: "nad-2", Class: model.Trader, FinalHP: 0, Kills: 0, EpochsSurvived: 7},
			{AgentID: 3, Name: "nad-3", Class: model.Gambler, FinalHP: 0, Kills: 1, EpochsSurvived: 11},
		},
		Eliminations: []model.DeathRecord{
			{AgentID: 2, AgentName: "nad-2", Cause: model.CausePrediction, Epoch: 7},
			{AgentID: 3, AgentName: "nad-3", Cause: model.CauseCombat, KillerID: &killer, Epoch: 11},
		},
	}
}

func TestPrintStandings(t *testing.T) {
	var buf bytes.Buffer
	PrintStandings(&buf, sampleRecord())
	out := buf.String()

	for _, want := range []string{"nad-1", "nad-2", "nad-3", "winner", "prediction", "combat", "WARRIOR"} {
		if !strings.Contains(out, want) {
			t.Errorf("standings output missing %q:\n%s", want, out)
		}
	}

	// Winner row before the eliminated rows; later elimination places higher.
	if strings.Index(out, "nad-1") > strings.Index(out, "nad-3") {
		t.Error("winner not listed first")
	}
	if strings.Index(out, "nad-3") > strings.Index(out, "nad-2") {
		t.Error("later elimination should place above earlier one")
	}
}

func TestPlacementOrderSurvivors(t *testing.T) {
	rec := sampleRecord()
	rec.WinnerID = nil
	rec.Eliminations = rec.Eliminations[:1] // only nad-2 died
	rec.Roster[2].FinalHP = 900             // nad-3 outlives nad-1 on HP

	ordered := placementOrder(rec)
	if ordered[0].AgentID != 3 {
		t.Errorf("first place = agent %d, want highest-HP survivor 3", ordered[0].AgentID)
	}
	if ordered[2].AgentID != 2 {
		t.Errorf("last place = agent %d, want the eliminated 2", ordered[2].AgentID)
	}
}

func TestPrintEpochDigest(t *testing.T) {
	var buf bytes.Buffer
	killer := 1
	PrintEpochDigest(&buf, model.EpochResult{
		Epoch: 5,
		Phase: model.Hunt,
		Agents: []model.Agent{
			{ID: 1, Alive: true},
			{ID: 2, Alive: false},
		},
		Combats:    []model.CombatResult{{AttackerID: 1, DefenderID: 2}},
		Deaths:     []model.DeathRecord{{AgentID: 2, AgentName: "nad-2", Cause: model.CauseCombat, KillerID: &killer}},
		IsTerminal: true,
	})
	out := buf.String()
	for _, want := range []string{"epoch 5", "HUNT", "alive=1", "attacks=1", "nad-2", "terminal"} {
		if !strings.Contains(out, want) {
			t.Errorf("digest missing %q:\n%s", want, out)
		}
	}
}
