package main

import (
	"io"
	"log/slog"
	"path/filepath"

	"github.com/gogpu/gfxhealth"
	"gopkg.in/natefinch/lumberjack.v2"
)

// logFileName is the run log inside the working directory.
const logFileName = "gfx_health.log"

// Rotation limits of the run log. A run stays well below them; they only
// bound a misbehaving driver that floods the log.
const (
	logMaxSizeMB  = 20
	logMaxBackups = 1
)

// startLogging routes the library logger to a file in dir. The returned
// closer restores the silent logger and closes the file.
func startLogging(dir string, verbose bool) io.Closer {
	w := &lumberjack.Logger{
		Filename:   filepath.Join(dir, logFileName),
		MaxSize:    logMaxSizeMB,
		MaxBackups: logMaxBackups,
	}
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	gfxhealth.SetLogger(slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})))
	return logCloser{w}
}

type logCloser struct {
	w *lumberjack.Logger
}

func (c logCloser) Close() error {
	gfxhealth.SetLogger(nil)
	return c.w.Close()
}
