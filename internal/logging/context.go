package logging

import (
	"context"

	"github.com/charmbracelet/log"
)

// loggerKey carries a logger through a context. An unexported struct type
// keeps collisions with other packages impossible.
type loggerKey struct{}

// WithLogger returns a context carrying the given logger. The CLI attaches
// per-invocation loggers this way so code deep in a call chain can log
// without threading a *log.Logger through every signature.
func WithLogger(ctx context.Context, logger *log.Logger) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, loggerKey{}, logger)
}

// FromContext returns the logger carried by ctx, or the shared default
// when none is attached. Never returns nil.
func FromContext(ctx context.Context) *log.Logger {
	if ctx == nil {
		return Default()
	}
	if logger, ok := ctx.Value(loggerKey{}).(*log.Logger); ok && logger != nil {
		return logger
	}
	return Default()
}
