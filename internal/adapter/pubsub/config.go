package pubsub

import "github.com/webitel/dispatch-core/internal/domain/ident"

// Route maps an EventType to the routing key an exported event is published
// under and an exchange name carried in the message's metadata. Unlisted
// EventTypes are not exported onto the bus even if the dispatcher hook fires
// for them.
type Route struct {
	EventType  ident.EventType
	Exchange   string
	RoutingKey string
}

// BridgeConfig is the outbound half of the AMQP bridge (§4.7): which
// EventTypes get mirrored onto the bus, and where.
type BridgeConfig struct {
	Routes []Route
}

func (c BridgeConfig) lookup(t ident.EventType) (Route, bool) {
	for _, r := range c.Routes {
		if r.EventType.Equal(t) {
			return r, true
		}
	}
	return Route{}, false
}
