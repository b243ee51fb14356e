package amqp

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"

	"github.com/webitel/dispatch-core/internal/dispatch"
)

// MessageHandler owns the dispatcher reference every inbound binding's
// handler closure calls into.
type MessageHandler struct {
	dispatcher *dispatch.Dispatcher
	logger     *slog.Logger
}

func NewMessageHandler(d *dispatch.Dispatcher, logger *slog.Logger) *MessageHandler {
	return &MessageHandler{dispatcher: d, logger: logger}
}

// RegisterHandlers wires one Watermill no-publisher handler per configured
// Binding, each subscribing to its own queue on sub.
func RegisterHandlers(router *message.Router, sub message.Subscriber, h *MessageHandler, pub message.Publisher, cfg BindingConfig) error {
	var poison message.HandlerMiddleware
	if cfg.PoisonQueue != "" {
		var err error
		poison, err = middleware.PoisonQueue(pub, cfg.PoisonQueue)
		if err != nil {
			return fmt.Errorf("amqp: poison queue setup: %w", err)
		}
	}

	for _, b := range cfg.Bindings {
		handler := router.AddNoPublisherHandler(b.Name, b.Topic, sub, Bind(h, b))
		handler.AddMiddleware(
			TraceIDMiddleware,
			LoggingMiddleware(h.logger),
			NewRetryMiddleware().Middleware,
		)
		if poison != nil {
			handler.AddMiddleware(poison)
		}
		handler.AddMiddleware(
			middleware.NewThrottle(100, time.Second).Middleware,
			middleware.Timeout(30*time.Second),
		)
	}

	h.logger.Info("amqp: bindings registered", "count", len(cfg.Bindings))
	return nil
}
