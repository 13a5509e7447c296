package events

import "log/slog"

// Handler consumes one event. Errors are logged, never propagated — a broken
// consumer must not stall the battle.
type Handler func(Event) error

// Dispatcher fans events out to registered handlers, synchronously and in
// registration order. It is the in-process stand-in for the transport layer.
type Dispatcher struct {
	byType map[string][]Handler
	all    []Handler
}

func NewDispatcher() *Dispatcher {
	return &Dispatcher{byType: make(map[string][]Handler)}
}

// Register subscribes a handler to one event type.
func (d *Dispatcher) Register(typ string, h Handler) {
	d.byType[typ] = append(d.byType[typ], h)
}

// RegisterAll subscribes a handler to every event (stream writers,
// recorders).
func (d *Dispatcher) RegisterAll(h Handler) {
	d.all = append(d.all, h)
}

// Publish delivers one event to all matching handlers.
func (d *Dispatcher) Publish(e Event) {
	for _, h := range d.all {
		if err := h(e); err != nil {
			slog.Error("event handler failed", "type", e.Type, "error", err)
		}
	}
	for _, h := range d.byType[e.Type] {
		if err := h(e); err != nil {
			slog.Error("event handler failed", "type", e.Type, "error", err)
		}
	}
}

// PublishAll delivers a batch in order.
func (d *Dispatcher) PublishAll(evts []Event) {
	for _, e := range evts {
		d.Publish(e)
	}
}
