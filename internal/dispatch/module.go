package dispatch

import (
	"context"

	"go.uber.org/fx"
)

// Module provides the dispatcher singleton and wires its shutdown into the
// application lifecycle.
var Module = fx.Module("dispatch",
	fx.Provide(
		func(opts []Option) *Dispatcher { return New(opts...) },
	),

	// [GRACEFUL_SHUTDOWN] Stop the actor goroutine on app teardown.
	fx.Invoke(func(lc fx.Lifecycle, d *Dispatcher) {
		lc.Append(fx.Hook{
			OnStop: func(ctx context.Context) error {
				d.Stop()
				return nil
			},
		})
	}),
)
