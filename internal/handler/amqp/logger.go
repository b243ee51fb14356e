package amqp

import (
	"log/slog"

	"github.com/ThreeDotsLabs/watermill"
)

// slogAdapter satisfies watermill.LoggerAdapter by forwarding to a
// structured logger, the same bridge shape the reference service wires its
// own loggers through.
type slogAdapter struct {
	logger *slog.Logger
}

// NewWatermillLogger adapts logger to watermill.LoggerAdapter, used both
// internally for this package's own router and externally by cmd to build
// the shared publisher/subscriber's logger.
func NewWatermillLogger(logger *slog.Logger) watermill.LoggerAdapter {
	return slogAdapter{logger: logger}
}

func (a slogAdapter) attrs(fields watermill.LogFields) []any {
	out := make([]any, 0, len(fields)*2)
	for k, v := range fields {
		out = append(out, k, v)
	}
	return out
}

func (a slogAdapter) Error(msg string, err error, fields watermill.LogFields) {
	a.logger.Error(msg, append(a.attrs(fields), "err", err)...)
}

func (a slogAdapter) Info(msg string, fields watermill.LogFields) {
	a.logger.Info(msg, a.attrs(fields)...)
}

func (a slogAdapter) Debug(msg string, fields watermill.LogFields) {
	a.logger.Debug(msg, a.attrs(fields)...)
}

func (a slogAdapter) Trace(msg string, fields watermill.LogFields) {
	a.logger.Debug(msg, a.attrs(fields)...)
}

func (a slogAdapter) With(fields watermill.LogFields) watermill.LoggerAdapter {
	return slogAdapter{logger: a.logger.With(a.attrs(fields)...)}
}
