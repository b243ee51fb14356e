package http

import (
	"context"
	"errors"
	stdhttp "net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/fx"
	"golang.org/x/sync/errgroup"
)

// Config configures the HTTP control surface's listen address.
type Config struct {
	Addr string
}

// Module provides the control-surface handler, mounts its routes on a chi
// router, and runs it under the shared transport errgroup for the
// application's lifetime.
var Module = fx.Module("http-handler",
	fx.Provide(NewHandler),

	fx.Invoke(func(lc fx.Lifecycle, h *Handler, cfg Config, eg *errgroup.Group) {
		r := chi.NewRouter()
		h.Routes(r)
		server := &stdhttp.Server{Addr: cfg.Addr, Handler: r}

		lc.Append(fx.Hook{
			OnStart: func(ctx context.Context) error {
				eg.Go(func() error {
					if err := server.ListenAndServe(); err != nil && !errors.Is(err, stdhttp.ErrServerClosed) {
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
