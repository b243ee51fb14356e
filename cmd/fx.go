package cmd

import (
	"log/slog"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"go.uber.org/fx"

	"github.com/webitel/dispatch-core/config"
	"github.com/webitel/dispatch-core/internal/adapter/cache"
	"github.com/webitel/dispatch-core/internal/adapter/circuit"
	"github.com/webitel/dispatch-core/internal/adapter/pubsub"
	"github.com/webitel/dispatch-core/internal/adapter/supervisor"
	"github.com/webitel/dispatch-core/internal/dispatch"
	amqphandler "github.com/webitel/dispatch-core/internal/handler/amqp"
	httphandler "github.com/webitel/dispatch-core/internal/handler/http"
	wshandler "github.com/webitel/dispatch-core/internal/handler/ws"
	grpcsrv "github.com/webitel/dispatch-core/infra/server/grpc"
)

// NewApp wires the full dispatch core process from cfg.
func NewApp(cfg *config.Store) *fx.App {
	return fx.New(
		fx.Provide(
			func() *config.Store { return cfg },
			ProvideLoggerProvider,
			ProvideLogger,
			provideWatermillLogger,
			providePublisher,
			provideSubscriber,
			provideBridgeConfig,
			provideBindingConfig,
			provideHTTPConfig,
			provideWSConfig,
			provideGRPCConfig,
			provideDispatchOptions,
		),

		supervisor.Module,
		dispatch.Module,
		cache.Module,
		pubsub.Module,
		amqphandler.Module,
		httphandler.Module,
		wshandler.Module,
		grpcsrv.Module,
	)
}

func provideWatermillLogger(logger *slog.Logger) watermill.LoggerAdapter {
	return amqphandler.NewWatermillLogger(logger)
}

func providePublisher(cfg *config.Store, logger watermill.LoggerAdapter) (message.Publisher, error) {
	return pubsub.NewPublisher(cfg.Current().AMQP.URI, logger)
}

func provideSubscriber(cfg *config.Store, logger watermill.LoggerAdapter) (message.Subscriber, error) {
	return pubsub.NewSubscriber(cfg.Current().AMQP.URI, logger)
}

// provideBridgeConfig and provideBindingConfig are intentionally empty by
// default: this is a generic dispatch core with no built-in domain event
// types. Deployments wire their own EventType <-> exchange/routing-key
// tables by replacing these providers (fx.Replace) with ones built from
// their own schema.
func provideBridgeConfig() pubsub.BridgeConfig {
	return pubsub.BridgeConfig{}
}

func provideBindingConfig(cfg *config.Store) amqphandler.BindingConfig {
	return amqphandler.BindingConfig{PoisonQueue: cfg.Current().AMQP.PoisonQueue}
}

func provideHTTPConfig(cfg *config.Store) httphandler.Config {
	return httphandler.Config{Addr: cfg.Current().HTTPAddr}
}

func provideWSConfig(cfg *config.Store) wshandler.Config {
	return wshandler.Config{Addr: cfg.Current().WSAddr}
}

func provideGRPCConfig(cfg *config.Store) grpcsrv.Config {
	return grpcsrv.Config{Addr: cfg.Current().GRPCAddr}
}

func provideDispatchOptions(cfg *config.Store) []dispatch.Option {
	c := cfg.Current()
	return []dispatch.Option{
		dispatch.WithBreakerSettings(circuit.Settings{
			MaxFailures: c.Breaker.MaxFailures,
			OpenFor:     c.Breaker.OpenFor,
		}),
	}
}
