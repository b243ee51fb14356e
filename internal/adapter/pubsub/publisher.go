// Package pubsub is the dispatch core's bus bridge (§4.7): it mirrors
// consumed events onto an AMQP exchange via a Watermill publisher, the same
// marshal-and-publish shape as the reference service's EventDispatcher.
package pubsub

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"

	"github.com/webitel/dispatch-core/internal/domain/event"
	"github.com/webitel/dispatch-core/internal/transport/wire"
)

// Bridge publishes dispatcher-consumed events onto the bus according to its
// BridgeConfig. EventTypes with no matching route are silently skipped.
type Bridge struct {
	publisher message.Publisher
	config    BridgeConfig
}

// New returns a Bridge that publishes through pub using config's routes.
func New(pub message.Publisher, config BridgeConfig) *Bridge {
	return &Bridge{publisher: pub, config: config}
}

// Publish marshals ev's wire envelope and publishes it with its route's
// RoutingKey as the publisher topic; the route's Exchange is attached only
// as the message's "x-exchange" metadata. A nil ev or an EventType with no
// configured route is a no-op, not an error.
func (b *Bridge) Publish(ctx context.Context, ev *event.Event) error {
	if ev == nil {
		return nil
	}

	route, ok := b.config.lookup(ev.EventType())
	if !ok {
		return nil
	}

	env, err := wire.FromEvent(ev, nil)
	if err != nil {
		return fmt.Errorf("pubsub: %w", err)
	}

	payload, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("pubsub: marshal envelope: %w", err)
	}

	msg := message.NewMessage(watermill.NewUUID(), payload)
	msg.SetContext(ctx)
	msg.Metadata.Set("x-exchange", route.Exchange)

	if err := b.publisher.Publish(route.RoutingKey, msg); err != nil {
		return fmt.Errorf("pubsub: publish to %q: %w", route.RoutingKey, err)
	}
	return nil
}

// Hook adapts Bridge into a dispatch.DispatchHook: every event the
// dispatcher finishes delivering is offered to Publish, best-effort, on its
// own goroutine so a slow or unreachable broker never stalls the dispatcher
// actor. Publish errors are reported to errLog if non-nil.
func (b *Bridge) Hook(errLog func(error)) func(ev *event.Event, handled bool) {
	return func(ev *event.Event, handled bool) {
		go func() {
			if err := b.Publish(context.Background(), ev); err != nil && errLog != nil {
				errLog(err)
			}
		}()
	}
}
