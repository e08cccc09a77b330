// Package logging holds shelf's zerolog setup: the process-wide default
// logger, the context helpers that carry item and source fields through the
// overlay and reconcile paths, and a capture logger for tests.
//
//	ctx := logging.WithItem(ctx, "42")
//	logging.FromContext(ctx).Debug().Msg("Override set")
package logging

import (
	"os"
	"sync/atomic"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
)

var defaultLogger atomic.Pointer[zerolog.Logger]

func init() {
	SetDefault(NewLoggerFromConfig(ConfigFromEnv()))
}

// Default returns the process-wide logger. Components that were not handed
// a logger fall back to it.
func Default() *zerolog.Logger {
	return defaultLogger.Load()
}

// SetDefault replaces the process-wide logger.
func SetDefault(logger zerolog.Logger) {
	defaultLogger.Store(&logger)
}

// Warn starts a warning on the default logger, for call sites without a
// context to pull one from.
func Warn() *zerolog.Event {
	return Default().Warn()
}

func isTerminal(f *os.File) bool {
	if f == nil {
		return false
	}
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
