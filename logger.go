package gfxhealth

import (
	"context"
	"log/slog"
	"sync/atomic"
)

// discard drops every record. Enabled reports false so disabled calls
// cost no formatting.
type discard struct{}

func (discard) Enabled(context.Context, slog.Level) bool  { return false }
func (discard) Handle(context.Context, slog.Record) error { return nil }
func (d discard) WithAttrs([]slog.Attr) slog.Handler      { return d }
func (d discard) WithGroup(string) slog.Handler           { return d }

var (
	silent  = slog.New(discard{})
	current atomic.Pointer[slog.Logger]
)

func init() {
	current.Store(silent)
}

// SetLogger routes the log output of this module and its packages to l.
// Nothing is logged until SetLogger is called; SetLogger(nil) silences the
// module again. It may be called while other goroutines log.
//
// Levels:
//   - Debug: individual native and GL failures inside a run
//   - Info: context creation and destruction, finished checks, archives
//   - Warn: teardown failures and missing system information
//
// The command line tool installs a text handler writing to the run log:
//
//	gfxhealth.SetLogger(slog.New(slog.NewTextHandler(w, nil)))
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = silent
	}
	current.Store(l)
}

// Logger returns the logger set with SetLogger, or a silent one.
func Logger() *slog.Logger {
	return current.Load()
}
