package g3d

import (
	"context"
	"log/slog"
	"sync/atomic"
)

// nopHandler discards every record. Enabled reports false so callers skip
// attribute formatting entirely.
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

func newNopLogger() *slog.Logger { return slog.New(nopHandler{}) }

// loggerPtr holds the active logger. Backends log from whatever goroutine
// owns the device, so access is atomic.
var loggerPtr atomic.Pointer[slog.Logger]

func init() {
	loggerPtr.Store(newNopLogger())
}

// SetLogger configures the logger for g3d and every backend package.
// By default g3d is silent. Pass nil to restore the silent default.
//
// Log levels used by g3d:
//   - [slog.LevelDebug]: per-frame internals (pipeline cache misses,
//     framebuffer rebuilds, buffer allocations)
//   - [slog.LevelInfo]: lifecycle events (adapter selected, device created)
//   - [slog.LevelWarn]: degraded paths (resolve not supported by a backend)
//
// Errors are never logged by the library; they are returned.
//
// Example:
//
//	g3d.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
//	    Level: slog.LevelDebug,
//	})))
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = newNopLogger()
	}
	loggerPtr.Store(l)
}

// Logger returns the logger shared by g3d and its sub-packages.
func Logger() *slog.Logger {
	return loggerPtr.Load()
}
