package cmd

import (
	"bytes"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/hungernads/nads-core/events"
	"github.com/hungernads/nads-core/model"
	"github.com/hungernads/nads-core/report"
)

var (
	replayIn        string
	replayVerify    bool
	replaySeed      uint64
	replayMaxEpochs uint16
	replayAgents    int
	replayTier      string
)

var replayCmd = &cobra.Command{
	Use:   "replay",
	Short: "Replay a recorded event stream, optionally re-verifying it",
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := os.Open(replayIn)
		if err != nil {
			return fmt.Errorf("open stream: %w", err)
		}
		defer f.Close()

		recorded, err := events.ReadAll(f)
		if err != nil {
			return err
		}
		if len(recorded) == 0 {
			return fmt.Errorf("event stream %s is empty", replayIn)
		}

		rec, err := extractRecord(recorded)
		if err != nil {
			return err
		}

		if replayVerify {
			fresh, freshRec, err := runBattle(battleOptions{
				Seed:      replaySeed,
				MaxEpochs: int(replayMaxEpochs),
				Agents:    replayAgents,
				Tier:      replayTier,
			}, nil)
			if err != nil {
				return err
			}
			if err := compareStreams(recorded, fresh); err != nil {
				return fmt.Errorf("verification failed: %w", err)
			}
			fmt.Printf("verified: %d events match seed %d\n", len(fresh), replaySeed)
			rec = freshRec
		}

		report.PrintStandings(os.Stdout, *rec)
		return nil
	},
}

func init() {
	replayCmd.Flags().StringVar(&replayIn, "in", "", "JSONL event stream to replay")
	replayCmd.Flags().BoolVar(&replayVerify, "verify", false, "re-run the seed and compare streams")
	replayCmd.Flags().Uint64Var(&replaySeed, "seed", 1, "seed the stream was recorded with")
	replayCmd.Flags().Uint16Var(&replayMaxEpochs, "max-epochs", 30, "epoch limit the stream was recorded with")
	replayCmd.Flags().IntVar(&replayAgents, "agents", 5, "roster size the stream was recorded with")
	replayCmd.Flags().StringVar(&replayTier, "tier", "bronze", "tier the stream was recorded with")
	replayCmd.MarkFlagRequired("in")
}

// extractRecord pulls the final BattleRecord out of the terminal event.
func extractRecord(stream []events.Event) (*model.BattleRecord, error) {
	last := stream[len(stream)-1]
	if last.Type != events.TypeBattleEnd {
		return nil, fmt.Errorf("stream does not end with %s (got %s)", events.TypeBattleEnd, last.Type)
	}
	data, ok := last.Data.(*events.BattleEndData)
	if !ok {
		return nil, fmt.Errorf("battle_end payload has unexpected type %T", last.Data)
	}
	return &data.Record, nil
}

// compareStreams checks byte-identity event by event. Wall-clock timestamps
// in the battle record are zeroed on both sides — everything else must
// match exactly.
func compareStreams(recorded, fresh []events.Event) error {
	if len(recorded) != len(fresh) {
		return fmt.Errorf("event count mismatch: recorded %d, fresh %d", len(recorded), len(fresh))
	}
	for i := range recorded {
		a, err := events.Marshal(normalizeEvent(recorded[i]))
		if err != nil {
			return fmt.Errorf("marshal recorded event %d: %w", i, err)
		}
		b, err := events.Marshal(normalizeEvent(fresh[i]))
		if err != nil {
			return fmt.Errorf("marshal fresh event %d: %w", i, err)
		}
		if !bytes.Equal(a, b) {
			return fmt.Errorf("event %d differs:\nrecorded: %s\nfresh:    %s", i, a, b)
		}
	}
	return nil
}

// normalizeEvent strips the wall-clock fields from terminal events so two
// runs of the same seed compare equal.
func normalizeEvent(e events.Event) events.Event {
	if e.Type != events.TypeBattleEnd {
		return e
	}
	if data, ok := e.Data.(*events.BattleEndData); ok {
		record := data.Record
		record.StartedAt = 0
		record.EndedAt = 0
		e.Data = &events.BattleEndData{Record: record}
	} else if data, ok := e.Data.(events.BattleEndData); ok {
		record := data.Record
		record.StartedAt = 0
		record.EndedAt = 0
		e.Data = events.BattleEndData{Record: record}
	}
	return e
}
