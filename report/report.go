// Package report formats battle records and per-epoch digests as terminal
// tables using tablewriter.
package report

import (
	"fmt"
	"io"
	"sort"
	"strconv"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/hungernads/nads-core/model"
)

// PrintBattleSummary prints a one-line header for the battle.
func PrintBattleSummary(w io.Writer, rec model.BattleRecord) {
	winner := "none"
	if rec.WinnerID != nil {
		for _, r := range rec.Roster {
			if r.AgentID == *rec.WinnerID {
				winner = r.Name
			}
		}
	}
	fmt.Fprintf(w, "\nBattle: %s  |  Epochs: %d  |  Winner: %s\n\n", shortID(rec.BattleID), rec.Epochs, winner)
}

// PrintStandings renders the final placement table: winner first, then the
// fallen in reverse elimination order.
func PrintStandings(w io.Writer, rec model.BattleRecord) {
	PrintBattleSummary(w, rec)

	killedBy := make(map[int]model.DeathCause, len(rec.Eliminations))
	for _, d := range rec.Eliminations {
		killedBy[d.AgentID] = d.Cause
	}

	ordered := placementOrder(rec)

	table := tablewriter.NewTable(w, tablewriter.WithConfig(tablewriter.Config{
		Row: tw.CellConfig{
			Alignment: tw.CellAlignment{Global: tw.AlignRight},
		},
		Header: tw.CellConfig{
			Alignment: tw.CellAlignment{Global: tw.AlignCenter},
		},
	}))
	table.Header("PLACE", "NAME", "CLASS", "HP", "KILLS", "EPOCHS", "FATE")

	for place, entry := range ordered {
		fate := "survived"
		if cause, died := killedBy[entry.AgentID]; died {
			fate = string(cause)
		}
		name := entry.Name
		if rec.WinnerID != nil && entry.AgentID == *rec.WinnerID {
			name = color.YellowString(name)
			fate = color.YellowString("winner")
		}
		table.Append(
			strconv.Itoa(place+1),
			name,
			string(entry.Class),
			strconv.Itoa(entry.FinalHP),
			strconv.Itoa(entry.Kills),
			strconv.Itoa(entry.EpochsSurvived),
			fate,
		)
	}
	table.Render()
	fmt.Fprintln(w)
}

// placementOrder ranks the roster: winner, other survivors by HP, then the
// eliminated latest-first.
func placementOrder(rec model.BattleRecord) []model.RosterEntry {
	deathEpoch := make(map[int]int, len(rec.Eliminations))
	deathIdx := make(map[int]int, len(rec.Eliminations))
	for i, d := range rec.Eliminations {
		deathEpoch[d.AgentID] = d.Epoch
		deathIdx[d.AgentID] = i
	}

	ordered := append([]model.RosterEntry(nil), rec.Roster...)
	rank := func(e model.RosterEntry) (int, int, int) {
		if rec.WinnerID != nil && e.AgentID == *rec.WinnerID {
			return 0, 0, 0
		}
		if _, died := deathEpoch[e.AgentID]; !died {
			return 1, -e.FinalHP, e.AgentID
		}
		return 2, -deathIdx[e.AgentID], e.AgentID
	}
	sort.SliceStable(ordered, func(i, j int) bool {
		ai, bi, ci := rank(ordered[i])
		aj, bj, cj := rank(ordered[j])
		if ai != aj {
			return ai < aj
		}
		if bi != bj {
			return bi < bj
		}
		return ci < cj
	})
	return ordered
}

// PrintEpochDigest renders a compact one-epoch summary for paced CLI runs.
func PrintEpochDigest(w io.Writer, res model.EpochResult) {
	alive := 0
	for _, a := range res.Agents {
		if a.Alive {
			alive++
		}
	}
	fmt.Fprintf(w, "epoch %-3d %-11s alive=%d", res.Epoch, res.Phase, alive)
	if len(res.Combats) > 0 {
		fmt.Fprintf(w, " attacks=%d", len(res.Combats))
	}
	for _, d := range res.Deaths {
		fmt.Fprintf(w, "  %s", color.RedString("†%s(%s)", d.AgentName, d.Cause))
	}
	if res.IsTerminal {
		fmt.Fprintf(w, "  %s", color.YellowString("terminal"))
	}
	fmt.Fprintln(w)
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
