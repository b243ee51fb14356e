package pubsub

import (
	"context"
	"log/slog"

	"go.uber.org/fx"

	"github.com/webitel/dispatch-core/internal/dispatch"
)

// Module provides the bus bridge and wires it into the dispatcher as a
// DispatchHook so every delivered event whose type has a configured route
// is mirrored onto the bus best-effort, per §4.7/§5.
var Module = fx.Module("pubsub",
	fx.Provide(
		New,
	),

	fx.Invoke(func(lc fx.Lifecycle, d *dispatch.Dispatcher, bridge *Bridge, logger *slog.Logger) {
		lc.Append(fx.Hook{
			OnStart: func(ctx context.Context) error {
				_, err := dispatch.Sync(d.SetDispatchHook(bridge.Hook(func(err error) {
					logger.Error("pubsub: export failed", "err", err)
				})))
				return err
			},
		})
	}),
)
