package amqp

import (
	"context"
	"log/slog"

	watermillmw "github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
	"go.uber.org/fx"
	"golang.org/x/sync/errgroup"
)

// Module wires the inbound AMQP bridge: a Watermill router, its subscriber,
// and the handlers registered from BindingConfig.
var Module = fx.Module("amqp-handler",
	fx.Provide(
		NewMessageHandler,
		NewWatermillRouter,
	),

	fx.Invoke(RegisterHandlers),

	fx.Invoke(func(lc fx.Lifecycle, router *watermillmw.Router, eg *errgroup.Group) {
		lc.Append(fx.Hook{
			OnStart: func(ctx context.Context) error {
				eg.Go(func() error {
					return router.Run(context.Background())
				})
				return nil
			},
			OnStop: func(ctx context.Context) error {
				return router.Close()
			},
		})
	}),
)

// NewWatermillRouter builds the Watermill router every AMQP binding attaches
// its handler to, logging through logger.
func NewWatermillRouter(logger *slog.Logger) (*watermillmw.Router, error) {
	router, err := watermillmw.NewRouter(watermillmw.RouterConfig{}, NewWatermillLogger(logger))
	if err != nil {
		return nil, err
	}
	router.AddMiddleware(middleware.Recoverer)
	return router, nil
}
