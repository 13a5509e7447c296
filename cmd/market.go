package cmd

import (
	"github.com/hungernads/nads-core/engine"
	"github.com/hungernads/nads-core/model"
)

// syntheticFeed is the CLI's stand-in for the live market collaborator: a
// seeded random walk over the tracked assets. Timestamps are epoch counters,
// not wall-clock, so identical seeds replay byte-identically.
type syntheticFeed struct {
	rng    *engine.Stream
	prices map[model.Asset]float64
	epoch  int
}

func newSyntheticFeed(seed uint64, battleID string) *syntheticFeed {
	return &syntheticFeed{
		rng: engine.NewStream(seed, battleID, 0, "market"),
		prices: map[model.Asset]float64{
			model.ETH: 3200,
			model.BTC: 64000,
			model.SOL: 145,
			model.MON: 2.5,
		},
	}
}

// Snapshot returns the current prices without advancing the walk — the
// baseline for the first epoch's deltas.
func (f *syntheticFeed) Snapshot() model.MarketSnapshot {
	return f.snapshot()
}

// Next advances every asset by a step in [-3%, +3%] and returns the new
// snapshot.
func (f *syntheticFeed) Next() model.MarketSnapshot {
	f.epoch++
	for _, a := range model.Assets {
		step := (f.rng.Float64()*2 - 1) * 0.03
		f.prices[a] *= 1 + step
	}
	return f.snapshot()
}

func (f *syntheticFeed) snapshot() model.MarketSnapshot {
	prices := make(map[model.Asset]float64, len(f.prices))
	for _, a := range model.Assets {
		prices[a] = f.prices[a]
	}
	return model.MarketSnapshot{Prices: prices, Timestamp: int64(f.epoch)}
}
