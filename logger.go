package canvas

import (
	"context"
	"log/slog"
	"sync/atomic"
)

// nopHandler is a slog.Handler that discards all records.
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

// newNopLogger returns a logger that discards all output.
func newNopLogger() *slog.Logger {
	return slog.New(nopHandler{})
}

// loggerPtr holds the package-wide logger. Defaults to a no-op logger so
// the package is silent unless the caller opts in via SetLogger.
var loggerPtr atomic.Pointer[slog.Logger]

func init() {
	loggerPtr.Store(newNopLogger())
}

// SetLogger replaces the package-wide logger used for diagnostics such as
// decode failures, texture loads and tessellation timings. Passing nil
// restores the default no-op logger. Safe for concurrent use.
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = newNopLogger()
	}
	loggerPtr.Store(l)
}

// Logger returns the current package-wide logger. It never returns nil.
func Logger() *slog.Logger {
	return loggerPtr.Load()
}
