package amqp

import "github.com/webitel/dispatch-core/internal/domain/ident"

// Binding is one inbound consumer: messages on Topic (an AMQP routing-key
// pattern) are decoded as EventType and handed to the dispatcher. Synchronous
// bindings call Deliver (listeners run before the message is acked);
// asynchronous bindings call Notify (fire-and-forget, delivered on a later
// Tick).
type Binding struct {
	Name        string
	Exchange    string
	Topic       string
	EventType   ident.EventType
	Synchronous bool
}

// BindingConfig is the inbound half of the AMQP bridge (§4.7).
type BindingConfig struct {
	Bindings []Binding
	// PoisonQueue receives messages that exhaust retries. Empty disables the
	// poison-queue middleware.
	PoisonQueue string
}
