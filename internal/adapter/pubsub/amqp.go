package pubsub

import (
	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill-amqp/v3/pkg/amqp"
	"github.com/ThreeDotsLabs/watermill/message"
)

// NewPublisher builds a durable topic-exchange publisher over amqpURI, the
// outbound half of the bridge described in §4.7.
func NewPublisher(amqpURI string, logger watermill.LoggerAdapter) (message.Publisher, error) {
	cfg := amqp.NewDurablePubSubConfig(amqpURI, nil)
	return amqp.NewPublisher(cfg, logger)
}

// NewSubscriber builds a durable queue subscriber over amqpURI, shared by
// every consumer handler registered by internal/handler/amqp; each
// subscribed topic gets its own queue named from the topic and a
// "dispatch-core" suffix.
func NewSubscriber(amqpURI string, logger watermill.LoggerAdapter) (message.Subscriber, error) {
	cfg := amqp.NewDurablePubSubConfig(amqpURI, amqp.GenerateQueueNameTopicNameWithSuffix("dispatch-core"))
	return amqp.NewSubscriber(cfg, logger)
}
