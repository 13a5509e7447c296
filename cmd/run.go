package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/hungernads/nads-core/bot"
	"github.com/hungernads/nads-core/engine"
	"github.com/hungernads/nads-core/events"
	"github.com/hungernads/nads-core/model"
	"github.com/hungernads/nads-core/report"
)

var (
	runSeed      uint64
	runMaxEpochs uint16
	runSpeed     string
	runAgents    int
	runTier      string
	runOut       string
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a seeded battle to completion",
	RunE: func(cmd *cobra.Command, args []string) error {
		delay, err := speedDelay(runSpeed)
		if err != nil {
			return err
		}

		var sink *events.Writer
		if runOut != "" {
			f, err := os.Create(runOut)
			if err != nil {
				return fmt.Errorf("open output: %w", err)
			}
			defer f.Close()
			sink = events.NewWriter(f)
		}

		stream, rec, err := runBattle(battleOptions{
			Seed:      runSeed,
			MaxEpochs: int(runMaxEpochs),
			Agents:    runAgents,
			Tier:      runTier,
		}, func(res model.EpochResult) {
			if delay > 0 {
				report.PrintEpochDigest(os.Stdout, res)
				time.Sleep(delay)
			}
		})
		if err != nil {
			return err
		}
		if sink != nil {
			for _, e := range stream {
				if err := sink.Write(e); err != nil {
					return err
				}
			}
		}
		report.PrintStandings(os.Stdout, *rec)
		return nil
	},
}

func init() {
	runCmd.Flags().Uint64Var(&runSeed, "seed", 1, "deterministic battle seed")
	runCmd.Flags().Uint16Var(&runMaxEpochs, "max-epochs", 30, "epoch limit before the battle is scored")
	runCmd.Flags().StringVar(&runSpeed, "speed", "instant", "pacing: instant|fast|slow")
	runCmd.Flags().IntVar(&runAgents, "agents", 5, "roster size (2-12)")
	runCmd.Flags().StringVar(&runTier, "tier", "bronze", "phase pacing: bronze|silver|gold")
	runCmd.Flags().StringVar(&runOut, "out", "", "write the event stream to this JSONL file")
}

func speedDelay(speed string) (time.Duration, error) {
	switch speed {
	case "instant":
		return 0, nil
	case "fast":
		return 150 * time.Millisecond, nil
	case "slow":
		return time.Second, nil
	}
	return 0, fmt.Errorf("unknown speed %q (want instant|fast|slow)", speed)
}

// battleOptions fixes everything a deterministic run depends on.
type battleOptions struct {
	Seed      uint64
	MaxEpochs int
	Agents    int
	Tier      string
}

// runBattle drives one battle to completion with bot-chosen intents and a
// synthetic market, returning the full ordered event stream and the final
// record. Identical options produce identical streams.
func runBattle(opts battleOptions, onEpoch func(model.EpochResult)) ([]events.Event, *model.BattleRecord, error) {
	if opts.Agents < 2 || opts.Agents > 12 {
		return nil, nil, fmt.Errorf("agents must be in [2,12], got %d", opts.Agents)
	}
	cfg := engine.ConfigForTier(opts.Tier)
	if opts.MaxEpochs > 0 {
		cfg.MaxEpochs = opts.MaxEpochs
	}

	// The battle id derives from the seed so the whole run replays from one
	// number.
	arena := engine.New(fmt.Sprintf("battle-%016x", opts.Seed), cfg)

	roster := make([]engine.RosterSpec, opts.Agents)
	for i := range roster {
		class := model.Classes[i%len(model.Classes)]
		roster[i] = engine.RosterSpec{Name: fmt.Sprintf("nad-%d", i+1), Class: class}
	}
	if err := arena.SpawnAgents(roster); err != nil {
		return nil, nil, err
	}
	if err := arena.StartBattle(); err != nil {
		return nil, nil, err
	}

	feed := newSyntheticFeed(opts.Seed, arena.BattleID())
	arena.PrimeMarket(feed.Snapshot())

	bots, err := bot.NewRoster(arena.Agents())
	if err != nil {
		return nil, nil, err
	}

	var stream []events.Event
	prevDeltas := make(map[model.Asset]float64)
	for !arena.IsComplete() {
		view := bot.View{
			Epoch:  arena.Epoch() + 1,
			Phase:  arena.Phase(),
			Agents: arena.Agents(),
			Items:  arena.Items(),
			Allies: alliesByAgent(arena),
			Deltas: prevDeltas,
			Seed:   opts.Seed,
		}
		intents := bots.Intents(view)

		prev := feed.Snapshot()
		market := feed.Next()
		res, err := arena.ProcessEpoch(market, intents, nil, opts.Seed)
		if err != nil {
			return nil, nil, err
		}
		prevDeltas = model.Deltas(prev, market)

		stream = append(stream, events.FromEpochResult(*res)...)
		if onEpoch != nil {
			onEpoch(*res)
		}
	}

	rec, err := arena.CompleteBattle()
	if err != nil {
		return nil, nil, err
	}
	stream = append(stream, events.BattleEnd(*rec))
	return stream, rec, nil
}

func alliesByAgent(arena *engine.Arena) map[int][]int {
	out := make(map[int][]int)
	for _, a := range arena.Agents() {
		if allies := arena.AlliesOf(a.ID); len(allies) > 0 {
			out[a.ID] = allies
		}
	}
	return out
}
