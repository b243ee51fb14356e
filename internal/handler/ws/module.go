package ws

import (
	"context"
	"errors"
	"net/http"

	"go.uber.org/fx"
	"golang.org/x/sync/errgroup"
)

// Config configures the listener address for the standalone WebSocket
// server (it runs on its own port, separate from the HTTP control surface).
type Config struct {
	Addr string
}

// Module provides the WebSocket handler and runs it under the shared
// transport errgroup for the application's lifetime.
var Module = fx.Module("ws-handler",
	fx.Provide(NewHandler),

	fx.Invoke(func(lc fx.Lifecycle, h *Handler, cfg Config, eg *errgroup.Group) {
		server := &http.Server{Addr: cfg.Addr, Handler: h}
		lc.Append(fx.Hook{
			OnStart: func(ctx context.Context) error {
				eg.Go(func() error {
					if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
						return err
					}
					return nil
				})
				return nil
			},
			OnStop: func(ctx context.Context) error {
				return server.Shutdown(ctx)
			},
		})
	}),
)
