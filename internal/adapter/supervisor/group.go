// Package supervisor provides the shared errgroup.Group that the HTTP, WS,
// gRPC, and AMQP transports run under. Each transport's listen loop is
// submitted with eg.Go at OnStart instead of a bare goroutine, so a crash in
// one surfaces through Wait instead of vanishing silently.
package supervisor

import (
	"context"
	"log/slog"

	"go.uber.org/fx"
	"golang.org/x/sync/errgroup"
)

// Module provides the transport group and waits on it during shutdown,
// bounded by the OnStop context so a stuck transport cannot hang the
// process past the fx shutdown timeout.
var Module = fx.Module("supervisor",
	fx.Provide(func() *errgroup.Group { return &errgroup.Group{} }),

	fx.Invoke(func(lc fx.Lifecycle, eg *errgroup.Group, logger *slog.Logger) {
		lc.Append(fx.Hook{
			OnStop: func(ctx context.Context) error {
				done := make(chan error, 1)
				go func() { done <- eg.Wait() }()
				select {
				case err := <-done:
					if err != nil {
						logger.Error("supervisor: a transport exited with error", "err", err)
					}
				case <-ctx.Done():
					logger.Warn("supervisor: timed out waiting for transports to stop")
				}
				return nil
			},
		})
	}),
)
