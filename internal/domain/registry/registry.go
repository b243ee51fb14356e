// Package registry holds the dispatcher's listener table: a map from
// EventType to an ordered sequence of (listener_type, callable) pairs, with
// a distinguished wildcard bucket applied to every delivered event. It is
// owned exclusively by the Dispatcher actor (internal/dispatch) and is
// never accessed concurrently, so it carries no internal locking of its
// own — the reference service's sharded Hub/Cell actors solved a different
// problem (per-user fan-out across live connections); here the dispatcher's
// single-threaded command loop already serializes every mutation.
package registry

import (
	"sort"

	"github.com/webitel/dispatch-core/internal/domain/event"
	"github.com/webitel/dispatch-core/internal/domain/ident"
)

// Callable is a listener's handler. It returns true on success; false
// indicates the listener rejected or failed to handle the event.
type Callable func(*event.Event) bool

// Entry pairs a ListenerType with its callable. Identity of a registration
// is the ListenerType: a given listener_type appears at most once per
// EventType.
type Entry struct {
	ListenerType ident.ListenerType
	Callable     Callable
}

type bucket struct {
	eventType ident.EventType
	entries   []Entry
}

// Registry maps EventType idents to ordered listener entries.
type Registry struct {
	buckets map[ident.Ident]*bucket
}

// New returns an empty Registry.
func New() *Registry {
	return &Registry{buckets: make(map[ident.Ident]*bucket)}
}

// Connect appends entry to eventType's list. If an entry with the same
// ListenerType already exists for that event type, the new entry replaces
// it in place, preserving its position (idempotent re-registration).
func (r *Registry) Connect(eventType ident.EventType, entry Entry) {
	b := r.buckets[eventType.Ident()]
	if b == nil {
		b = &bucket{eventType: eventType}
		r.buckets[eventType.Ident()] = b
	}
	for i, existing := range b.entries {
		if existing.ListenerType.Equal(entry.ListenerType) {
			b.entries[i] = entry
			return
		}
	}
	b.entries = append(b.entries, entry)
}

// Disconnect removes the matching entry; no-op when absent.
func (r *Registry) Disconnect(eventType ident.EventType, listenerType ident.ListenerType) {
	b, ok := r.buckets[eventType.Ident()]
	if !ok {
		return
	}
	for i, existing := range b.entries {
		if existing.ListenerType.Equal(listenerType) {
			b.entries = append(b.entries[:i], b.entries[i+1:]...)
			return
		}
	}
}

// DisconnectFromAll removes listenerType's entry from every event type's list.
func (r *Registry) DisconnectFromAll(listenerType ident.ListenerType) {
	for _, b := range r.buckets {
		for i, existing := range b.entries {
			if existing.ListenerType.Equal(listenerType) {
				b.entries = append(b.entries[:i], b.entries[i+1:]...)
				break
			}
		}
	}
}

// GetListeners returns a snapshot of eventType's ordered entries, stable
// across a single delivery.
func (r *Registry) GetListeners(eventType ident.EventType) []Entry {
	b, ok := r.buckets[eventType.Ident()]
	if !ok {
		return nil
	}
	out := make([]Entry, len(b.entries))
	copy(out, b.entries)
	return out
}

// DeliveryListeners concatenates eventType's own listeners (in registration
// order) followed by the wildcard bucket's listeners, matching the order
// Deliver/Tick invoke them in.
func (r *Registry) DeliveryListeners(eventType ident.EventType) []Entry {
	typed := r.GetListeners(eventType)

	if eventType.IsWildcard() {
		return typed
	}

	wild := r.GetListeners(ident.WildcardEventType())
	out := make([]Entry, 0, len(typed)+len(wild))
	out = append(out, typed...)
	out = append(out, wild...)
	return out
}

// GetRegisteredEvents returns the set of EventTypes with at least one
// registered listener, in ascending ident order: the same set of event types
// always yields the same order, independent of insertion order and of Go's
// randomized map iteration.
func (r *Registry) GetRegisteredEvents() []ident.EventType {
	out := make([]ident.EventType, 0, len(r.buckets))
	for _, b := range r.buckets {
		if len(b.entries) > 0 {
			out = append(out, b.eventType)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Ident() < out[j].Ident() })
	return out
}
