package cmd

import (
	"context"
	"log/slog"
	"os"

	"go.opentelemetry.io/contrib/bridges/otelslog"
	sdklog "go.opentelemetry.io/otel/sdk/log"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/webitel/dispatch-core/config"
)

// multiHandler fans every record out to each of its handlers, stopping
// neither on the first's error. Used to tee application logs to the local
// JSON sink and the OpenTelemetry log bridge simultaneously.
type multiHandler []slog.Handler

func (m multiHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, h := range m {
		if h.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (m multiHandler) Handle(ctx context.Context, r slog.Record) error {
	var firstErr error
	for _, h := range m {
		if !h.Enabled(ctx, r.Level) {
			continue
		}
		if err := h.Handle(ctx, r.Clone()); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func (m multiHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	out := make(multiHandler, len(m))
	for i, h := range m {
		out[i] = h.WithAttrs(attrs)
	}
	return out
}

func (m multiHandler) WithGroup(name string) slog.Handler {
	out := make(multiHandler, len(m))
	for i, h := range m {
		out[i] = h.WithGroup(name)
	}
	return out
}

// ProvideLoggerProvider constructs the process's OpenTelemetry log provider.
// No exporter is registered by default; one can be attached by appending an
// sdklog.WithProcessor option once a collector endpoint is configured.
func ProvideLoggerProvider() *sdklog.LoggerProvider {
	return sdklog.NewLoggerProvider()
}

// ProvideLogger builds the process-wide structured logger: JSON to stdout
// (or a rotating file via lumberjack when LogFile is set), tee'd into the
// OpenTelemetry log bridge so records carry whatever trace context their
// logging call's context holds.
func ProvideLogger(cfg *config.Store, lp *sdklog.LoggerProvider) *slog.Logger {
	c := cfg.Current()

	level := slog.LevelInfo
	_ = level.UnmarshalText([]byte(c.LogLevel))

	var sink slog.Handler
	if c.LogFile != "" {
		sink = slog.NewJSONHandler(&lumberjack.Logger{
			Filename:   c.LogFile,
			MaxSize:    100,
			MaxBackups: 3,
			MaxAge:     28,
			Compress:   true,
		}, &slog.HandlerOptions{Level: level})
	} else {
		sink = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	}

	otelHandler := otelslog.NewHandler(ServiceName, otelslog.WithLoggerProvider(lp))

	return slog.New(multiHandler{sink, otelHandler})
}
