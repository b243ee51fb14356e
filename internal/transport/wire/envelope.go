// Package wire defines the generic JSON envelope shared by every transport
// that feeds events into or reads events out of the dispatcher: the HTTP
// control surface, the AMQP bridge, and the WebSocket push listener all
// marshal/unmarshal this same shape instead of each inventing their own.
package wire

import (
	"encoding/json"
	"fmt"

	"github.com/webitel/dispatch-core/internal/domain/event"
	"github.com/webitel/dispatch-core/internal/domain/ident"
)

// Envelope is the wire representation of an Event. Payload is left as
// json.RawMessage on the way in; ToEvent hands it to the caller-supplied
// decoder if one is given, otherwise it is stored verbatim as the event's
// opaque payload.
type Envelope struct {
	EventType string          `json:"event_type"`
	Subject   uint64          `json:"subject"`
	DelayMS   uint64          `json:"delay_ms"`
	Priority  int32           `json:"priority,omitempty"`
	Payload   json.RawMessage `json:"payload,omitempty"`
}

// ToEvent decodes e into an Event of the named type. The caller supplies
// decodePayload to unmarshal Payload into the domain type the EventType
// expects; a nil decodePayload leaves the raw JSON as the event's payload.
func (e Envelope) ToEvent(decodePayload func(ident.EventType, json.RawMessage) (any, error)) (*event.Event, error) {
	et, err := ident.NewEventType(e.EventType)
	if err != nil {
		return nil, fmt.Errorf("wire: %w", err)
	}

	var payload any
	switch {
	case decodePayload != nil && len(e.Payload) > 0:
		payload, err = decodePayload(et, e.Payload)
		if err != nil {
			return nil, fmt.Errorf("wire: decode payload for %q: %w", e.EventType, err)
		}
	case len(e.Payload) > 0:
		payload = e.Payload
	}

	ev := event.NewWithPayload(et, e.Subject, e.DelayMS, payload)
	ev.SetPriority(e.Priority)
	return ev, nil
}

// FromEvent builds the wire Envelope for an already-constructed Event.
// encodePayload marshals the event's opaque payload; a nil encodePayload (or
// one that returns nil, nil) omits the payload field.
func FromEvent(ev *event.Event, encodePayload func(*event.Event) (json.RawMessage, error)) (Envelope, error) {
	env := Envelope{
		EventType: ev.EventType().Name(),
		Subject:   ev.Subject(),
		DelayMS:   ev.Delay(),
		Priority:  ev.Priority(),
	}

	if encodePayload == nil {
		if raw, ok := ev.Payload().(json.RawMessage); ok {
			env.Payload = raw
		}
		return env, nil
	}

	raw, err := encodePayload(ev)
	if err != nil {
		return Envelope{}, fmt.Errorf("wire: encode payload for %q: %w", env.EventType, err)
	}
	env.Payload = raw
	return env, nil
}
