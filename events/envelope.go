package events

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"

	"github.com/hungernads/nads-core/model"
)

// envelope is the wire shape. Data stays raw so decoding can defer to the
// concrete payload type for the tag.
type envelope struct {
	Type     string          `json:"type"`
	BattleID string          `json:"battleId"`
	Epoch    int             `json:"epoch"`
	Data     json.RawMessage `json:"data"`
}

// payloadFor returns a fresh pointer to the concrete payload type for an
// event tag.
func payloadFor(typ string) (any, error) {
	switch typ {
	case TypeEpochStart:
		return &EpochStartData{}, nil
	case TypeAgentMoved:
		return &model.MoveResult{}, nil
	case TypeItemSpawned:
		return &ItemSpawnedData{}, nil
	case TypeItemPickedUp:
		return &model.PickupResult{}, nil
	case TypeTrapTriggered:
		return &model.TrapResult{}, nil
	case TypeAgentAction:
		return &AgentActionData{}, nil
	case TypePredictionResult:
		return &model.PredictionResult{}, nil
	case TypeCombatResult:
		return &model.CombatResult{}, nil
	case TypeAllianceEvent:
		return &model.AllianceChange{}, nil
	case TypeSkillActivation:
		return &model.SkillResult{}, nil
	case TypeStormDamage:
		return &model.StormResult{}, nil
	case TypeSponsorBoost:
		return &model.SponsorApplied{}, nil
	case TypeAgentDeath:
		return &model.DeathRecord{}, nil
	case TypePhaseChange:
		return &PhaseChangeData{}, nil
	case TypeEpochEnd:
		return &EpochEndData{}, nil
	case TypeBattleEnd:
		return &BattleEndData{}, nil
	}
	return nil, fmt.Errorf("unknown event type %q", typ)
}

// Marshal encodes an event as a single JSON envelope.
func Marshal(e Event) ([]byte, error) {
	raw, err := json.Marshal(e.Data)
	if err != nil {
		return nil, fmt.Errorf("marshal %s data: %w", e.Type, err)
	}
	return json.Marshal(envelope{Type: e.Type, BattleID: e.BattleID, Epoch: e.Epoch, Data: raw})
}

// Unmarshal decodes a JSON envelope back to an event with its concrete
// payload type restored.
func Unmarshal(b []byte) (Event, error) {
	var env envelope
	if err := json.Unmarshal(b, &env); err != nil {
		return Event{}, fmt.Errorf("unmarshal envelope: %w", err)
	}
	payload, err := payloadFor(env.Type)
	if err != nil {
		return Event{}, err
	}
	if len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, payload); err != nil {
			return Event{}, fmt.Errorf("unmarshal %s data: %w", env.Type, err)
		}
	}
	return Event{Type: env.Type, BattleID: env.BattleID, Epoch: env.Epoch, Data: payload}, nil
}

// Writer streams events as JSON lines.
type Writer struct {
	w io.Writer
}

func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

// Write appends one event as a JSON line.
func (w *Writer) Write(e Event) error {
	b, err := Marshal(e)
	if err != nil {
		return err
	}
	if _, err := w.w.Write(append(b, '\n')); err != nil {
		return fmt.Errorf("write event: %w", err)
	}
	return nil
}

// ReadAll decodes a JSON-lines event stream to completion.
func ReadAll(r io.Reader) ([]Event, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	var out []Event
	for sc.Scan() {
		line := sc.Bytes()
		if len(line) == 0 {
			continue
		}
		e, err := Unmarshal(line)
		if err != nil {
			return nil, fmt.Errorf("event %d: %w", len(out)+1, err)
		}
		out = append(out, e)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read event stream: %w", err)
	}
	return out, nil
}
