// Package ident provides the stable, hashable identifiers shared by
// EventType and ListenerType. Both are value types constructed from a
// human-readable name; equality and hashing are derived from the ident
// alone so hot paths never compare or hash strings.
package ident

import (
	"errors"
	"fmt"

	"github.com/cespare/xxhash/v2"
)

// Ident is a stable 32-bit identifier derived from a name.
type Ident uint32

// wildcardName is the reserved sentinel name. Its ident denotes the
// dispatcher's global listener bucket, applied to every delivered event
// regardless of the event's own type.
const wildcardName = "*"

// Wildcard is the reserved ident for the global listener bucket.
var Wildcard = hash(wildcardName)

// ErrReservedIdent is returned when a non-wildcard name hashes to Wildcard.
var ErrReservedIdent = errors.New("ident: name collides with reserved wildcard ident")

func hash(name string) Ident {
	return Ident(uint32(xxhash.Sum64String(name)))
}

// EventType is a stable, hashable token derived from a human-readable name.
type EventType struct {
	name  string
	ident Ident
}

// NewEventType constructs an EventType from name. It fails if name is not
// the wildcard sentinel but hashes to the reserved wildcard ident.
func NewEventType(name string) (EventType, error) {
	id := hash(name)
	if name != wildcardName && id == Wildcard {
		return EventType{}, fmt.Errorf("event type %q: %w", name, ErrReservedIdent)
	}
	return EventType{name: name, ident: id}, nil
}

// MustEventType is NewEventType, panicking on error. Intended for package-level
// var initialization of well-known event types where the name is a compile-time
// constant.
func MustEventType(name string) EventType {
	et, err := NewEventType(name)
	if err != nil {
		panic(err)
	}
	return et
}

// WildcardEventType is the reserved global listener bucket's EventType.
func WildcardEventType() EventType {
	return EventType{name: wildcardName, ident: Wildcard}
}

// Name returns the human-readable name, retained only for debugging.
func (t EventType) Name() string { return t.name }

// Ident returns the stable identifier used for equality and hashing.
func (t EventType) Ident() Ident { return t.ident }

// IsWildcard reports whether t is the reserved global bucket.
func (t EventType) IsWildcard() bool { return t.ident == Wildcard }

// Equal reports whether two EventTypes share the same ident.
func (t EventType) Equal(o EventType) bool { return t.ident == o.ident }

func (t EventType) String() string {
	if t.name != "" {
		return t.name
	}
	return fmt.Sprintf("event_type(%08x)", uint32(t.ident))
}

// ListenerType is a stable, hashable token identifying a registered receiver.
// It shares EventType's hashing contract.
type ListenerType struct {
	name  string
	ident Ident
}

// NewListenerType constructs a ListenerType from name, subject to the same
// reserved-wildcard-ident rule as NewEventType.
func NewListenerType(name string) (ListenerType, error) {
	id := hash(name)
	if name != wildcardName && id == Wildcard {
		return ListenerType{}, fmt.Errorf("listener type %q: %w", name, ErrReservedIdent)
	}
	return ListenerType{name: name, ident: id}, nil
}

// MustListenerType is NewListenerType, panicking on error.
func MustListenerType(name string) ListenerType {
	lt, err := NewListenerType(name)
	if err != nil {
		panic(err)
	}
	return lt
}

func (t ListenerType) Name() string        { return t.name }
func (t ListenerType) Ident() Ident        { return t.ident }
func (t ListenerType) Equal(o ListenerType) bool { return t.ident == o.ident }

func (t ListenerType) String() string {
	if t.name != "" {
		return t.name
	}
	return fmt.Sprintf("listener_type(%08x)", uint32(t.ident))
}
