// Package event defines the Event envelope that flows through the
// dispatcher: its type, subject, scheduling fields, optional chained
// successor, and optional completion callback. Payload-specific behavior
// (serialize/deserialize/consume) is re-architected from the source
// material's virtual onSerialize/onDeserialize/onConsume hooks into a
// tagged variant: payload packages register a PayloadHooks for their
// EventType ident once at init time, and Event delegates to whatever is
// registered for its own type.
package event

import (
	"errors"
	"fmt"

	"github.com/webitel/dispatch-core/internal/adapter/bytebuffer"
	"github.com/webitel/dispatch-core/internal/domain/ident"
)

// ErrInvalidBuffer is returned by Deserialize when the buffer is too short
// or its leading ident does not match the receiving event's own type.
var ErrInvalidBuffer = errors.New("event: invalid buffer")

// PayloadHooks is the capability set a concrete payload type contributes.
// A zero PayloadHooks behaves like the source material's SimpleEvent: no
// bytes are appended/consumed and Consume always reports handled.
type PayloadHooks struct {
	// Serialize appends payload to out. May be nil.
	Serialize func(out *bytebuffer.ByteBuffer, payload any)
	// Deserialize reads a payload from in. May be nil.
	Deserialize func(in *bytebuffer.ByteBuffer) (any, error)
	// Consume is invoked after all listeners have run. May be nil, in which
	// case it is treated as always returning true.
	Consume func(handled bool, payload any) bool
}

var registry = map[ident.Ident]PayloadHooks{}

// RegisterPayload associates hooks with an EventType's ident. Intended to be
// called once, from a payload package's init function.
func RegisterPayload(t ident.EventType, hooks PayloadHooks) {
	registry[t.Ident()] = hooks
}

func hooksFor(t ident.EventType) PayloadHooks {
	return registry[t.Ident()]
}

// CompletionFunc is a nullary callable invoked exactly once after successful
// consumption of an event that set one.
type CompletionFunc func()

// Event is the dispatch core's envelope. Until enqueued or delivered,
// Timestamp is zero; once stamped by the dispatcher it is never re-stamped.
type Event struct {
	eventType ident.EventType
	subject   uint64
	timestamp uint64
	delay     uint64
	priority  int32

	payload any
	next    *Event
	onDone  CompletionFunc
}

// New constructs an Event of the given type, subject, and delay. Priority
// defaults to zero and may be changed with SetPriority before the event is
// enqueued or delivered.
func New(t ident.EventType, subject uint64, delayMS uint64) *Event {
	return &Event{eventType: t, subject: subject, delay: delayMS}
}

// NewWithPayload is New plus an opaque payload handed to the registered
// PayloadHooks.
func NewWithPayload(t ident.EventType, subject uint64, delayMS uint64, payload any) *Event {
	e := New(t, subject, delayMS)
	e.payload = payload
	return e
}

// EventType returns the discriminator used for dispatch.
func (e *Event) EventType() ident.EventType { return e.eventType }

// Subject returns the 64-bit subject id this event concerns.
func (e *Event) Subject() uint64 { return e.subject }

// Timestamp returns the dispatcher time at which this event was stamped, or
// zero if it has not yet been enqueued or delivered.
func (e *Event) Timestamp() uint64 { return e.timestamp }

// SetTimestamp stamps the event. Only the dispatcher should call this, and
// only before enqueue/delivery.
func (e *Event) SetTimestamp(ts uint64) { e.timestamp = ts }

// Delay returns the event's delay in milliseconds.
func (e *Event) Delay() uint64 { return e.delay }

// Priority returns the event's signed priority contribution to its weight.
func (e *Event) Priority() int32 { return e.priority }

// SetPriority changes the event's priority. Immutable after enqueue per the
// dispatch core's invariants; callers must not call this once the event has
// been handed to Notify/Deliver.
func (e *Event) SetPriority(p int32) { e.priority = p }

// Weight is the composite sort key timestamp + delay + priority.
func (e *Event) Weight() int64 {
	return int64(e.timestamp) + int64(e.delay) + int64(e.priority)
}

// Payload returns the opaque payload associated with this event, if any.
func (e *Event) Payload() any { return e.payload }

// Next returns the chained successor event, or nil.
func (e *Event) Next() *Event { return e.next }

// SetNext chains next as this event's successor, transferring ownership.
func (e *Event) SetNext(next *Event) { e.next = next }

// OnComplete registers a completion callback invoked exactly once after a
// successful Consume.
func (e *Event) OnComplete(fn CompletionFunc) { e.onDone = fn }

// Serialize writes the event-type ident followed by the payload-specific
// encoding.
func (e *Event) Serialize(out *bytebuffer.ByteBuffer) {
	out.WriteUint32(uint32(e.eventType.Ident()))
	if hooks := hooksFor(e.eventType); hooks.Serialize != nil {
		hooks.Serialize(out, e.payload)
	}
}

// Deserialize reads a 32-bit ident and fails with ErrInvalidBuffer when the
// buffer is shorter than 4 bytes or the ident does not match this event's
// own type; otherwise delegates to the payload-specific decoder.
func (e *Event) Deserialize(in *bytebuffer.ByteBuffer) error {
	if in.Size() < 4 {
		return fmt.Errorf("%w: buffer too short", ErrInvalidBuffer)
	}
	id, err := in.ReadUint32()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidBuffer, err)
	}
	if ident.Ident(id) != e.eventType.Ident() {
		return fmt.Errorf("%w: ident mismatch", ErrInvalidBuffer)
	}

	hooks := hooksFor(e.eventType)
	if hooks.Deserialize == nil {
		return nil
	}
	payload, err := hooks.Deserialize(in)
	if err != nil {
		return err
	}
	e.payload = payload
	return nil
}

// Consume is invoked by the dispatcher after all listeners have run. When
// the payload's hook (or the default of true, for a hookless event) reports
// true and a completion callback is set, the callback fires exactly once.
func (e *Event) Consume(handled bool) {
	hooks := hooksFor(e.eventType)
	consumed := true
	if hooks.Consume != nil {
		consumed = hooks.Consume(handled, e.payload)
	}
	if consumed && e.onDone != nil {
		e.onDone()
	}
}
