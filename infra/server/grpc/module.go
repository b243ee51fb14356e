package grpc

import (
	"context"

	"go.uber.org/fx"
	"golang.org/x/sync/errgroup"
)

// Module provides the gRPC transport and runs it under the shared transport
// errgroup, mirroring the HTTP/WS transports' wiring.
var Module = fx.Module("grpc-server",
	fx.Provide(New),

	fx.Invoke(func(lc fx.Lifecycle, s *Server, eg *errgroup.Group) {
		lc.Append(fx.Hook{
			OnStart: func(ctx context.Context) error {
				eg.Go(s.Serve)
				return nil
			},
			OnStop: func(ctx context.Context) error {
				return s.Stop(ctx)
			},
		})
	}),
)
