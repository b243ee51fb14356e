package amqp

import (
	"encoding/json"
	"fmt"
	"runtime/debug"

	"github.com/ThreeDotsLabs/watermill/message"

	"github.com/webitel/dispatch-core/internal/dispatch"
	"github.com/webitel/dispatch-core/internal/transport/wire"
)

// Bind adapts an inbound binding into a Watermill handler: decode the wire
// envelope, build an Event, and hand it to the dispatcher via Notify or
// Deliver depending on the binding's synchronicity.
func Bind(h *MessageHandler, binding Binding) message.NoPublishHandlerFunc {
	return func(msg *message.Message) (err error) {
		defer func() {
			if r := recover(); r != nil {
				h.logger.Error("amqp: handler panic recovered",
					"err", r,
					"stack", string(debug.Stack()),
					"msg_id", msg.UUID)
				err = nil // ack: a panicking handler must not poison-loop the queue
			}
		}()

		var env wire.Envelope
		if err := json.Unmarshal(msg.Payload, &env); err != nil {
			h.logger.Error("amqp: envelope decode failed", "err", err, "msg_id", msg.UUID)
			return nil // ack: malformed payloads are not retriable
		}
		env.EventType = binding.EventType.Name()

		ev, err := env.ToEvent(nil)
		if err != nil {
			h.logger.Error("amqp: event decode failed", "err", err, "msg_id", msg.UUID)
			return nil
		}

		if binding.Synchronous {
			handled, err := dispatch.Sync(h.dispatcher.Deliver(ev))
			if err != nil {
				return fmt.Errorf("amqp: deliver %q: %w", binding.Name, err)
			}
			if !handled {
				h.logger.Warn("amqp: delivery not fully handled", "binding", binding.Name, "msg_id", msg.UUID)
			}
			return nil
		}

		if _, err := dispatch.Sync(h.dispatcher.Notify(ev)); err != nil {
			return fmt.Errorf("amqp: notify %q: %w", binding.Name, err)
		}
		return nil
	}
}
