package engine

import (
	"sort"

	"github.com/hungernads/nads-core/model"
)

// allianceBook tracks active mutual pacts. Pairs are stored lower-id-first
// so lookups are order-free.
type allianceBook struct {
	pairs map[[2]int]bool
}

func newAllianceBook() *allianceBook {
	return &allianceBook{pairs: make(map[[2]int]bool)}
}

func pairKey(a, b int) [2]int {
	if a > b {
		a, b = b, a
	}
	return [2]int{a, b}
}

func (ab *allianceBook) allied(a, b int) bool {
	return ab.pairs[pairKey(a, b)]
}

func (ab *allianceBook) form(a, b int) {
	ab.pairs[pairKey(a, b)] = true
}

func (ab *allianceBook) dissolve(a, b int) {
	delete(ab.pairs, pairKey(a, b))
}

// dropAgent removes every pact involving id and returns the dissolved pairs
// in deterministic order.
func (ab *allianceBook) dropAgent(id int) [][2]int {
	var dropped [][2]int
	for key := range ab.pairs {
		if key[0] == id || key[1] == id {
			dropped = append(dropped, key)
		}
	}
	sort.Slice(dropped, func(i, j int) bool {
		if dropped[i][0] != dropped[j][0] {
			return dropped[i][0] < dropped[j][0]
		}
		return dropped[i][1] < dropped[j][1]
	})
	for _, key := range dropped {
		delete(ab.pairs, key)
	}
	return dropped
}

// formAlliances pairs up agents whose proposals point at each other this
// epoch. Existing pacts are left alone.
func (a *Arena) formAlliances(intents map[int]model.Intent) []model.AllianceChange {
	proposals := make(map[int]int)
	for _, id := range a.agentOrder {
		in, ok := intents[id]
		if !ok || in.Alliance == nil {
			continue
		}
		proposals[id] = in.Alliance.PartnerID
	}

	var changes []model.AllianceChange
	for _, id := range a.agentOrder {
		partner, ok := proposals[id]
		if !ok || partner <= id {
			// Pair handled from the lower id's side.
			continue
		}
		if back, mutual := proposals[partner]; !mutual || back != id {
			continue
		}
		if a.alliances.allied(id, partner) {
			continue
		}
		a.alliances.form(id, partner)
		changes = append(changes, model.AllianceChange{Type: model.AllianceFormed, AgentA: id, AgentB: partner})
	}
	return changes
}
