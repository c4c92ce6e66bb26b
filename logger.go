package glshim

import (
	"context"
	"log/slog"
	"sync/atomic"
)

// nopHandler drops every record. Its Enabled returns false, so the Debug
// traces on the attach and status-query paths cost nothing unless a logger
// is installed.
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

// silent is returned by Logger until SetLogger installs a logger.
var silent = slog.New(nopHandler{})

// active holds the installed logger, nil for silent. A host may install one
// from any thread while GL calls are in flight.
var active atomic.Pointer[slog.Logger]

// SetLogger configures the logger used by glshim.
// By default glshim produces no log output.
//
// Log levels used by glshim:
//   - [slog.LevelDebug]: per-call traces (attach, noop compile, faked status)
//   - [slog.LevelInfo]: shader dumps when dump mode is enabled
//   - [slog.LevelWarn]: link failures reported by the driver
//
// Pass nil to restore the silent default.
//
// Example:
//
//	glshim.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
//	    Level: slog.LevelDebug,
//	})))
func SetLogger(l *slog.Logger) {
	active.Store(l)
}

// Logger returns the current logger used by glshim.
//
// Logger is safe for concurrent use.
func Logger() *slog.Logger {
	if l := active.Load(); l != nil {
		return l
	}
	return silent
}
