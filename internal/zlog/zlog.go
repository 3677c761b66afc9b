// Package zlog is a trimmed structured-logging wrapper around zap, used
// at the few places where the graph store needs to report something
// without returning an error (spec §7's swallow-and-continue behavior
// for corrupt records). Grounded on zoekt's log/log.go (Init/Get/Sync
// shape), stripped of the OpenTelemetry resource tagging and the
// dev/prod sink switching that package builds for Sourcegraph's
// multi-tenant log pipeline — a single-process library has no such
// pipeline to feed.
package zlog

import (
	"sync"

	"go.uber.org/zap"
)

var (
	globalLogger *zap.Logger
	initOnce     sync.Once
)

// Init builds the process-wide logger. Safe to call more than once; only
// the first call takes effect. Returns a callback to flush buffered log
// entries before exit.
func Init() (sync func() error) {
	initOnce.Do(func() {
		logger, err := zap.NewProduction()
		if err != nil {
			logger = zap.NewNop()
		}
		globalLogger = logger
	})
	return globalLogger.Sync
}

// Get returns the process-wide logger, initializing it with defaults if
// Init was never called. Callers that only need best-effort diagnostic
// logging (not startup-time configuration) can call Get directly.
func Get() *zap.Logger {
	if globalLogger == nil {
		Init()
	}
	return globalLogger
}

// Debug logs a low-severity diagnostic: a condition routine enough to
// continue past without surfacing an error to the caller.
func Debug(msg string, fields ...zap.Field) {
	Get().Debug(msg, fields...)
}

// Warn logs a condition worth an operator's attention but not worth
// failing the current operation over.
func Warn(msg string, fields ...zap.Field) {
	Get().Warn(msg, fields...)
}

// Error logs a condition the caller is already reporting as an error,
// for cases where the context (e.g. a file path) is worth recording
// alongside it.
func Error(msg string, fields ...zap.Field) {
	Get().Error(msg, fields...)
}
