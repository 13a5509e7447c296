package engine

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/hungernads/nads-core/model"
)

// Status is the battle lifecycle state. The engine acts only in
// StatusActive; everything else rejects epoch processing.
type Status string

const (
	StatusPending   Status = "PENDING"
	StatusLobby     Status = "LOBBY"
	StatusCountdown Status = "COUNTDOWN"
	StatusActive    Status = "ACTIVE"
	StatusCompleted Status = "COMPLETED"
)

// RosterSpec names one agent to spawn.
type RosterSpec struct {
	Name  string
	Class model.Class
}

// Arena owns all state for a single battle and drives the fixed per-epoch
// pipeline. One battle, one Arena, one logical owner: ProcessEpoch is
// synchronous and must not be called concurrently.
type Arena struct {
	battleID string
	cfg      Config
	status   Status
	epoch    int
	phase    model.BattlePhase

	grid       *Grid
	agents     map[int]*model.Agent
	agentOrder []int // ascending ids; fixes every deterministic iteration

	alliances     *allianceBook
	attackHistory map[int]attackStreak
	skillState    epochSkills

	prevBestBet   *model.PredictionIntent
	prevBestGain  int
	prevBestAgent int

	eliminations []model.DeathRecord
	prevMarket   *model.MarketSnapshot

	nextItemID int
	nextBuffID int

	startedAt int64
	endedAt   int64
	winnerID  *int
	complete  bool

	sink func(model.EpochResult) // optional per-epoch observer
}

// New creates a pending arena. An empty battleID gets a fresh UUID.
func New(battleID string, cfg Config) *Arena {
	if battleID == "" {
		battleID = uuid.NewString()
	}
	cfg.Validate()
	return &Arena{
		battleID:      battleID,
		cfg:           cfg,
		status:        StatusPending,
		phase:         model.Loot,
		grid:          NewGrid(),
		agents:        make(map[int]*model.Agent),
		alliances:     newAllianceBook(),
		attackHistory: make(map[int]attackStreak),
		nextItemID:    1,
		nextBuffID:    1,
	}
}

// BattleID returns the battle identity string.
func (a *Arena) BattleID() string { return a.battleID }

// Epoch returns the last processed epoch number.
func (a *Arena) Epoch() int { return a.epoch }

// Phase returns the current battle phase.
func (a *Arena) Phase() model.BattlePhase { return a.phase }

// Status returns the lifecycle state.
func (a *Arena) Status() Status { return a.status }

// SetSink installs an observer called with every EpochResult, in order.
func (a *Arena) SetSink(fn func(model.EpochResult)) { a.sink = fn }

// Agents returns a copy of the roster in id order.
func (a *Arena) Agents() []model.Agent {
	return a.snapshotAgents()
}

// Items returns a copy of every item on the board, in stable board order.
func (a *Arena) Items() []model.Item {
	return append([]model.Item(nil), a.grid.AllItems()...)
}

// AlliesOf returns the ids currently allied with the given agent, ascending.
func (a *Arena) AlliesOf(id int) []int {
	var out []int
	for _, other := range a.agentOrder {
		if other != id && a.alliances.allied(id, other) {
			out = append(out, other)
		}
	}
	return out
}

// SpawnAgents creates the roster and spaces it around the outer ring.
// Callable once, before the battle starts.
func (a *Arena) SpawnAgents(roster []RosterSpec) error {
	if a.status != StatusPending {
		return fmt.Errorf("%w: spawn in status %s", ErrInvalidState, a.status)
	}
	if len(roster) < 2 {
		return fmt.Errorf("roster needs at least 2 agents, got %d", len(roster))
	}

	var outer []model.HexCoord
	for _, c := range model.ArenaCoords() {
		if c.Ring() == model.ArenaRadius {
			outer = append(outer, c)
		}
	}
	if len(roster) > len(outer) {
		return fmt.Errorf("roster of %d exceeds %d spawn tiles", len(roster), len(outer))
	}

	for i, spec := range roster {
		id := i + 1
		class := spec.Class
		if !class.Valid() {
			return fmt.Errorf("agent %q: unknown class %q", spec.Name, spec.Class)
		}
		ag := model.NewAgent(id, spec.Name, class)
		coord := outer[i*len(outer)/len(roster)]
		if err := a.grid.Place(id, coord); err != nil {
			return fmt.Errorf("spawning agent %d: %w", id, err)
		}
		ag.Position = coord
		a.agents[id] = ag
		a.agentOrder = append(a.agentOrder, id)
	}
	a.status = StatusLobby
	slog.Info("agents spawned", "battle", a.battleID, "count", len(roster))
	return nil
}

// StartBattle seeds the board and activates the arena.
func (a *Arena) StartBattle() error {
	if a.status != StatusLobby {
		return fmt.Errorf("%w: start in status %s", ErrInvalidState, a.status)
	}
	rng := NewStream(0, a.battleID, 0, "seed-items")
	if err := a.seedItems(rng); err != nil {
		return fmt.Errorf("seeding items: %w", err)
	}
	a.status = StatusActive
	a.startedAt = time.Now().Unix()
	slog.Info("battle started", "battle", a.battleID, "agents", len(a.agentOrder))
	return nil
}

// PrimeMarket sets the baseline snapshot the first epoch's deltas are
// measured against. Without it the first epoch reads as flat.
func (a *Arena) PrimeMarket(snap model.MarketSnapshot) {
	a.prevMarket = &snap
}

// ProcessEpoch advances the battle by exactly one epoch. All inputs are
// already materialized — the engine never touches the network. The epoch
// runs to completion or aborts wholesale on an invariant violation.
func (a *Arena) ProcessEpoch(market model.MarketSnapshot, intents []model.Intent, sponsors map[int]model.SponsorEffect, seed uint64) (*model.EpochResult, error) {
	if a.status != StatusActive {
		return nil, fmt.Errorf("%w: process_epoch in status %s", ErrInvalidState, a.status)
	}
	if a.complete {
		return nil, fmt.Errorf("%w: battle already decided", ErrInvalidState)
	}

	a.epoch++
	res := &model.EpochResult{BattleID: a.battleID, Epoch: a.epoch, Market: market}

	prev := market
	if a.prevMarket != nil {
		prev = *a.prevMarket
	}
	deltas := model.Deltas(prev, market)
	a.prevMarket = &market

	startAlive := make(map[int]bool, len(a.agentOrder))
	for _, id := range a.agentOrder {
		startAlive[id] = a.agents[id].Alive
	}
	ledger := newDamageLedger(a.agentOrder)
	a.skillState = epochSkills{allIn: make(map[int]bool)}

	// Phase advance.
	if next := a.cfg.Schedule.PhaseAt(a.epoch); next != a.phase {
		slog.Info("phase change", "battle", a.battleID, "epoch", a.epoch, "from", a.phase, "to", next)
		a.phase = next
		res.PhaseChange = true
	}
	res.Phase = a.phase

	// Secretary + intent-shaping skills.
	byAgent, drops := a.normalizeIntents(intents)
	byAgent, preSkills := a.applyPreSkills(byAgent)
	res.Skills = append(res.Skills, preSkills...)

	// Sponsor boosts land before anything moves.
	for _, id := range a.agentOrder {
		eff, ok := sponsors[id]
		if !ok || !startAlive[id] {
			continue
		}
		ag := a.agents[id]
		if eff.HPBoost > 0 {
			ag.Heal(eff.HPBoost)
		}
		res.Sponsors = append(res.Sponsors, model.SponsorApplied{Effect: eff, HPAfter: ag.HP})
	}

	// Alliance proposals pair up before combat can betray them.
	res.Alliances = append(res.Alliances, a.formAlliances(byAgent)...)

	moves, err := a.resolveMovement(byAgent)
	if err != nil {
		return nil, err
	}
	res.Moves = moves

	res.Traps = a.resolveTraps(ledger)
	res.Pickups = a.resolvePickups()

	predRNG := NewStream(seed, a.battleID, a.epoch, "prediction")
	preds, predSkills := a.resolvePredictions(byAgent, deltas, predRNG, ledger)
	res.Predictions = preds
	res.Skills = append(res.Skills, predSkills...)
	a.recordBestBet(byAgent, preds)

	combats, defends, combatSkills, changes, combatDrops := a.resolveCombat(byAgent, sponsors, ledger)
	res.Combats = combats
	res.Defends = defends
	res.Skills = append(res.Skills, combatSkills...)
	res.Alliances = append(res.Alliances, changes...)
	drops = append(drops, combatDrops...)

	storm, err := a.resolveStorm(ledger)
	if err != nil {
		return nil, err
	}
	res.Storm = storm
	res.Bleed = a.resolveBleed(ledger)

	deaths, dissolved, err := a.resolveDeaths(startAlive, ledger)
	if err != nil {
		return nil, err
	}
	res.Deaths = deaths
	res.Alliances = append(res.Alliances, dissolved...)

	respawnRNG := NewStream(seed, a.battleID, a.epoch, "respawn")
	res.Spawned = a.respawnItems(respawnRNG)
	res.Expired = a.tickBuffs()
	res.Dropped = drops

	if err := a.checkInvariants(); err != nil {
		return nil, err
	}

	res.Agents = a.snapshotAgents()
	a.checkTermination(res)

	if a.sink != nil {
		a.sink(*res)
	}
	return res, nil
}

// checkTermination decides whether this epoch ends the battle and, if so,
// who won.
func (a *Arena) checkTermination(res *model.EpochResult) {
	alive := a.aliveIDs()
	switch {
	case len(alive) == 1:
		id := alive[0]
		a.winnerID = &id
		a.complete = true
	case len(alive) == 0:
		// Mutual annihilation: the last elimination takes it.
		if n := len(a.eliminations); n > 0 {
			id := a.eliminations[n-1].AgentID
			a.winnerID = &id
		}
		a.complete = true
	case a.epoch >= a.cfg.MaxEpochs:
		id := a.rankSurvivors(alive)
		a.winnerID = &id
		a.complete = true
	}
	if a.complete {
		res.IsTerminal = true
		res.WinnerID = a.winnerID
		winner := 0
		if a.winnerID != nil {
			winner = *a.winnerID
		}
		slog.Info("battle decided", "battle", a.battleID, "epoch", a.epoch, "winner", winner)
	}
}

// rankSurvivors picks the epoch-limit winner: highest HP, then kills, then
// lowest agent id.
func (a *Arena) rankSurvivors(alive []int) int {
	best := alive[0]
	for _, id := range alive[1:] {
		ag, top := a.agents[id], a.agents[best]
		switch {
		case ag.HP > top.HP:
			best = id
		case ag.HP == top.HP && ag.Kills > top.Kills:
			best = id
		}
	}
	return best
}

func (a *Arena) aliveIDs() []int {
	var out []int
	for _, id := range a.agentOrder {
		if a.agents[id].Alive {
			out = append(out, id)
		}
	}
	return out
}

// IsComplete reports whether the battle has been decided.
func (a *Arena) IsComplete() bool { return a.complete }

// CurrentWinner returns the winning agent once the battle is decided.
func (a *Arena) CurrentWinner() *model.Agent {
	if !a.complete || a.winnerID == nil {
		return nil
	}
	ag := *a.agents[*a.winnerID]
	return &ag
}

// CompleteBattle closes the arena and produces the final record.
func (a *Arena) CompleteBattle() (*model.BattleRecord, error) {
	if a.status != StatusActive {
		return nil, fmt.Errorf("%w: complete in status %s", ErrInvalidState, a.status)
	}
	if !a.complete {
		return nil, fmt.Errorf("%w: battle still undecided", ErrInvalidState)
	}
	a.status = StatusCompleted
	a.endedAt = time.Now().Unix()

	survived := make(map[int]int, len(a.agentOrder))
	for _, d := range a.eliminations {
		survived[d.AgentID] = d.Epoch
	}

	rec := &model.BattleRecord{
		BattleID:     a.battleID,
		WinnerID:     a.winnerID,
		Epochs:       a.epoch,
		StartedAt:    a.startedAt,
		EndedAt:      a.endedAt,
		Eliminations: append([]model.DeathRecord(nil), a.eliminations...),
	}
	for _, id := range a.agentOrder {
		ag := a.agents[id]
		epochs := a.epoch
		if e, died := survived[id]; died {
			epochs = e
		}
		rec.Roster = append(rec.Roster, model.RosterEntry{
			AgentID:        id,
			Name:           ag.Name,
			Class:          ag.Class,
			FinalHP:        ag.HP,
			Kills:          ag.Kills,
			EpochsSurvived: epochs,
		})
	}
	slog.Info("battle completed", "battle", a.battleID, "epochs", a.epoch)
	return rec, nil
}

// snapshotAgents copies the roster in id order, buffs included.
func (a *Arena) snapshotAgents() []model.Agent {
	out := make([]model.Agent, 0, len(a.agentOrder))
	for _, id := range a.agentOrder {
		ag := *a.agents[id]
		ag.Buffs = append([]model.Buff(nil), a.agents[id].Buffs...)
		out = append(out, ag)
	}
	return out
}

// checkInvariants runs the end-of-epoch consistency sweep: HP bounds and
// tile↔agent occupancy agreement. A failure aborts the epoch as a bug.
func (a *Arena) checkInvariants() error {
	for _, id := range a.agentOrder {
		ag := a.agents[id]
		if ag.HP < 0 || ag.HP > ag.MaxHP {
			return bugf(a.battleID, a.epoch, "agent %d HP %d outside [0,%d]", id, ag.HP, ag.MaxHP)
		}
	}
	aliveAgents := make(map[int]*model.Agent)
	for _, id := range a.agentOrder {
		if a.agents[id].Alive {
			aliveAgents[id] = a.agents[id]
		}
	}
	if err := a.grid.checkOccupancy(aliveAgents); err != nil {
		return bugf(a.battleID, a.epoch, "occupancy: %v", err)
	}
	// Every living agent must hold exactly the tile it claims.
	for id, ag := range aliveAgents {
		occ, ok := a.grid.Occupant(ag.Position)
		if !ok || occ != id {
			return bugf(a.battleID, a.epoch, "agent %d claims (%d,%d) but tile holds %d", id, ag.Position.Q, ag.Position.R, occ)
		}
	}
	return nil
}
