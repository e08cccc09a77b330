package logging

import (
	"context"

	"github.com/rs/zerolog"
)

type contextKey struct{}

// WithLogger returns a context carrying logger. A nil logger stores the
// default.
func WithLogger(ctx context.Context, logger *zerolog.Logger) context.Context {
	if logger == nil {
		logger = Default()
	}
	return context.WithValue(ctx, contextKey{}, logger)
}

// FromContext returns the logger carried by ctx, or the default logger.
func FromContext(ctx context.Context) *zerolog.Logger {
	if ctx == nil {
		return Default()
	}
	if logger, ok := ctx.Value(contextKey{}).(*zerolog.Logger); ok && logger != nil {
		return logger
	}
	return Default()
}

// WithItem tags the context logger with the catalog item being edited.
func WithItem(ctx context.Context, id string) context.Context {
	return with(ctx, "item_id", id)
}

// WithSource tags the context logger with the catalog source a fetch came from.
func WithSource(ctx context.Context, source string) context.Context {
	return with(ctx, "source", source)
}

func with(ctx context.Context, key, value string) context.Context {
	logger := FromContext(ctx).With().Str(key, value).Logger()
	return WithLogger(ctx, &logger)
}
