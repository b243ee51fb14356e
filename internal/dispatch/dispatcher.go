// Package dispatch implements the dispatch core's control surface: Connect,
// Disconnect, Notify, Deliver, and Tick, plus the observers HasEvents,
// CurrentTimestep, GetListeners, and GetRegisteredEvents. It coordinates
// the registry (internal/domain/registry) and event queue
// (internal/adapter/queue) and guarantees the scheduling invariants from
// the specification.
//
// The dispatcher is realized as a single-threaded actor: one goroutine
// owns the registry and queue and drains a command mailbox, the same shape
// the reference service uses for its per-user Cell actor
// (internal/domain/registry/cell.go in the teacher repository). Every
// public method here builds a closure, sends it to the mailbox, and
// returns a Future the caller blocks on — this is the specification's
// "deferred result handle" realized without exposing the actor underneath.
package dispatch

import (
	"github.com/webitel/dispatch-core/internal/adapter/circuit"
	"github.com/webitel/dispatch-core/internal/adapter/queue"
	"github.com/webitel/dispatch-core/internal/domain/event"
	"github.com/webitel/dispatch-core/internal/domain/ident"
	"github.com/webitel/dispatch-core/internal/domain/registry"
)

// DispatchHook observes every event this dispatcher has finished
// delivering, after Consume and before any next-event chaining. Wired by the
// pubsub bridge to mirror exportable consumed events onto the bus; nil by
// default.
type DispatchHook func(ev *event.Event, handled bool)

// Option configures a Dispatcher at construction time.
type Option func(*Dispatcher)

// WithBreakerSettings overrides the default per-listener_type circuit
// breaker settings.
func WithBreakerSettings(s circuit.Settings) Option {
	return func(d *Dispatcher) { d.breakers = circuit.New(s) }
}

// WithDispatchHook registers a DispatchHook invoked after each delivered
// event's Consume step.
func WithDispatchHook(hook DispatchHook) Option {
	return func(d *Dispatcher) { d.onDispatched = hook }
}

// SetDispatchHook installs or replaces the dispatch hook after construction.
// Used by the pubsub bridge, which is wired as a separate fx module and
// cannot supply an Option at Dispatcher construction time. Returns a Future
// that completes once the actor has applied the change.
func (d *Dispatcher) SetDispatchHook(hook DispatchHook) *Future[struct{}] {
	f := newFuture[struct{}]()
	d.submit(func() {
		d.onDispatched = hook
		f.complete(struct{}{}, nil)
	})
	return f
}

// Dispatcher is the coordination backbone: it accepts connect/disconnect,
// notify (enqueue), deliver (immediate), and tick (advance time + drain due
// events), and guarantees ordered, delay-honoring delivery.
type Dispatcher struct {
	mailbox chan func()
	stopped chan struct{}

	registry *registry.Registry
	queue    *queue.Queue
	breakers *circuit.Breakers

	currentTime  uint64
	onDispatched DispatchHook
}

// New constructs a Dispatcher with current_time starting at zero.
func New(opts ...Option) *Dispatcher {
	return NewAt(0, opts...)
}

// NewAt constructs a Dispatcher with an explicit initial timestamp, used to
// synchronize with an external clock.
func NewAt(initialTime uint64, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		mailbox:     make(chan func(), 64),
		stopped:     make(chan struct{}),
		registry:    registry.New(),
		queue:       queue.New(),
		breakers:    circuit.New(circuit.DefaultSettings),
		currentTime: initialTime,
	}
	for _, opt := range opts {
		opt(d)
	}
	go d.run()
	return d
}

func (d *Dispatcher) run() {
	for {
		select {
		case cmd := <-d.mailbox:
			cmd()
		case <-d.stopped:
			return
		}
	}
}

// Stop terminates the actor goroutine. Pending commands already in the
// mailbox are dropped; callers should not submit further operations after
// calling Stop.
func (d *Dispatcher) Stop() {
	close(d.stopped)
}

func (d *Dispatcher) submit(cmd func()) {
	select {
	case d.mailbox <- cmd:
	case <-d.stopped:
	}
}

// Connect registers entry against eventType, delegating to the registry.
func (d *Dispatcher) Connect(eventType ident.EventType, entry registry.Entry) *Future[struct{}] {
	f := newFuture[struct{}]()
	d.submit(func() {
		d.registry.Connect(eventType, entry)
		f.complete(struct{}{}, nil)
	})
	return f
}

// Disconnect removes listenerType's entry from eventType, delegating to the
// registry.
func (d *Dispatcher) Disconnect(eventType ident.EventType, listenerType ident.ListenerType) *Future[struct{}] {
	f := newFuture[struct{}]()
	d.submit(func() {
		d.registry.Disconnect(eventType, listenerType)
		f.complete(struct{}{}, nil)
	})
	return f
}

// DisconnectFromAll removes listenerType's entry from every event type.
func (d *Dispatcher) DisconnectFromAll(listenerType ident.ListenerType) *Future[struct{}] {
	f := newFuture[struct{}]()
	d.submit(func() {
		d.registry.DisconnectFromAll(listenerType)
		f.complete(struct{}{}, nil)
	})
	return f
}

// Notify enqueues ev for delivery on a future tick. A nil ev is a silent
// no-op. Does not invoke listeners and returns immediately (the returned
// Future completes once the enqueue has been processed by the actor).
func (d *Dispatcher) Notify(ev *event.Event) *Future[struct{}] {
	f := newFuture[struct{}]()
	d.submit(func() {
		d.notifyLocked(ev)
		f.complete(struct{}{}, nil)
	})
	return f
}

func (d *Dispatcher) notifyLocked(ev *event.Event) {
	if ev == nil {
		return
	}
	ev.SetTimestamp(d.currentTime)
	d.queue.Push(ev)
}

// Deliver synchronously delivers ev: listeners run, Consume fires, and any
// chained next event is notified for a later tick. Returns false for a nil
// ev, true otherwise.
func (d *Dispatcher) Deliver(ev *event.Event) *Future[bool] {
	f := newFuture[bool]()
	d.submit(func() {
		if ev == nil {
			f.complete(false, nil)
			return
		}
		ev.SetTimestamp(d.currentTime)
		d.dispatchLocked(ev)
		f.complete(true, nil)
	})
	return f
}

// Tick advances the clock to newTime and drains every event whose weight
// has become due, delivering each in weight order (FIFO among ties).
// Returns false and leaves the queue/clock unchanged if newTime regresses
// current_time.
func (d *Dispatcher) Tick(newTime uint64) *Future[bool] {
	f := newFuture[bool]()
	d.submit(func() {
		if newTime < d.currentTime {
			f.complete(false, nil)
			return
		}
		d.currentTime = newTime
		for {
			ev, ok := d.queue.PopDue(d.currentTime)
			if !ok {
				break
			}
			d.dispatchLocked(ev)
		}
		f.complete(true, nil)
	})
	return f
}

// dispatchLocked runs steps 3-6 of Deliver: look up type-specific listeners
// followed by wildcard listeners, invoke each (through its circuit
// breaker) regardless of individual outcome, aggregate `handled` with a
// boolean AND, call Consume, and notify any chained next event.
func (d *Dispatcher) dispatchLocked(ev *event.Event) {
	listeners := d.registry.DeliveryListeners(ev.EventType())

	handled := true
	for _, entry := range listeners {
		l := entry
		ok := d.breakers.Invoke(l.ListenerType, func() bool { return l.Callable(ev) })
		handled = handled && ok
	}

	ev.Consume(handled)

	if d.onDispatched != nil {
		d.onDispatched(ev, handled)
	}

	if next := ev.Next(); next != nil {
		d.notifyLocked(next)
	}
}

// HasEvents reports whether the queue is non-empty.
func (d *Dispatcher) HasEvents() *Future[bool] {
	f := newFuture[bool]()
	d.submit(func() {
		f.complete(d.queue.Len() > 0, nil)
	})
	return f
}

// CurrentTimestep returns the dispatcher's current logical time.
func (d *Dispatcher) CurrentTimestep() *Future[uint64] {
	f := newFuture[uint64]()
	d.submit(func() {
		f.complete(d.currentTime, nil)
	})
	return f
}

// GetListeners returns a snapshot of eventType's registered listeners.
func (d *Dispatcher) GetListeners(eventType ident.EventType) *Future[[]registry.Entry] {
	f := newFuture[[]registry.Entry]()
	d.submit(func() {
		f.complete(d.registry.GetListeners(eventType), nil)
	})
	return f
}

// GetRegisteredEvents returns every EventType with at least one registered
// listener.
func (d *Dispatcher) GetRegisteredEvents() *Future[[]ident.EventType] {
	f := newFuture[[]ident.EventType]()
	d.submit(func() {
		f.complete(d.registry.GetRegisteredEvents(), nil)
	})
	return f
}
