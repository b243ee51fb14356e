// Package circuit contains the containment mechanism behind the dispatch
// core's documented answer to "what happens when a listener throws or
// aborts" (an explicit open question in the distilled spec): each
// listener_type gets its own circuit breaker. A listener that keeps
// panicking is isolated — skipped on subsequent deliveries — without
// aborting delivery to its siblings or bringing down the dispatcher actor.
// A listener that returns false does not count against its breaker.
package circuit

import (
	"errors"
	"sync"
	"time"

	"github.com/sony/gobreaker/v2"

	"github.com/webitel/dispatch-core/internal/domain/ident"
)

// Settings configures every breaker this package constructs.
type Settings struct {
	MaxFailures uint32
	OpenFor     time.Duration
}

// DefaultSettings mirrors a conservative default: trip after 5 consecutive
// failures, stay open for 10 seconds before a half-open probe.
var DefaultSettings = Settings{MaxFailures: 5, OpenFor: 10 * time.Second}

// Breakers lazily creates and caches one breaker per listener_type ident.
type Breakers struct {
	mu       sync.Mutex
	settings Settings
	byIdent  map[ident.Ident]*gobreaker.CircuitBreaker[bool]
}

// New returns a Breakers cache using settings.
func New(settings Settings) *Breakers {
	return &Breakers{
		settings: settings,
		byIdent:  make(map[ident.Ident]*gobreaker.CircuitBreaker[bool]),
	}
}

func (b *Breakers) breakerFor(lt ident.ListenerType) *gobreaker.CircuitBreaker[bool] {
	b.mu.Lock()
	defer b.mu.Unlock()

	if cb, ok := b.byIdent[lt.Ident()]; ok {
		return cb
	}

	cb := gobreaker.NewCircuitBreaker[bool](gobreaker.Settings{
		Name:    lt.String(),
		Timeout: b.settings.OpenFor,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= b.settings.MaxFailures
		},
	})
	b.byIdent[lt.Ident()] = cb
	return cb
}

// Invoke runs fn through listenerType's breaker. A panic inside fn is
// recovered and counted as a breaker failure. When the breaker is open,
// Invoke returns false without calling fn, matching the distilled spec's
// containment requirement: delivery to sibling listeners still proceeds and
// the skipped listener's contribution to the aggregated `handled` result is
// treated as false.
func (b *Breakers) Invoke(listenerType ident.ListenerType, fn func() bool) bool {
	cb := b.breakerFor(listenerType)

	result, err := cb.Execute(func() (bool, error) {
		return safeCall(fn)
	})
	if err != nil {
		return false
	}
	return result
}

// errPanicked is the sentinel gobreaker counts as a failure. A clean false
// return from a listener is a legitimate outcome (§7: DuplicateListener-
// style "not an error"), so only a panic trips the breaker.
var errPanicked = errors.New("circuit: listener panicked")

func safeCall(fn func() bool) (ok bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			ok, err = false, errPanicked
		}
	}()
	return fn(), nil
}
