// Public domain.

// Package logger provides leveled progress logging for rvcorr commands.
//
// Info and Warn messages are always written.  Debug messages are written
// only in verbose mode, enabled with the --verbose flag.  Output goes to
// stderr unless redirected with SetOutput.
package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"
)

var (
	mu      sync.RWMutex
	level   = new(slog.LevelVar)
	verbose bool
	log     = newLogger(os.Stderr)
)

func newLogger(w io.Writer) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey && len(groups) == 0 {
				return slog.Attr{}
			}
			return a
		},
	}))
}

// SetVerbose enables or disables debug output.
func SetVerbose(v bool) {
	mu.Lock()
	defer mu.Unlock()
	verbose = v
	if v {
		level.Set(slog.LevelDebug)
	} else {
		level.Set(slog.LevelInfo)
	}
}

// IsVerbose reports whether debug output is enabled.
func IsVerbose() bool {
	mu.RLock()
	defer mu.RUnlock()
	return verbose
}

// SetOutput redirects log output to w.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	log = newLogger(w)
}

func logf(l slog.Level, format string, args []any) {
	mu.RLock()
	lg := log
	mu.RUnlock()
	if !lg.Enabled(context.Background(), l) {
		return
	}
	lg.Log(context.Background(), l, fmt.Sprintf(format, args...))
}

// Debug logs a message in verbose mode.
func Debug(format string, args ...any) { logf(slog.LevelDebug, format, args) }

// Info logs a progress message.
func Info(format string, args ...any) { logf(slog.LevelInfo, format, args) }

// Warn logs a warning.
func Warn(format string, args ...any) { logf(slog.LevelWarn, format, args) }

// Section logs the start of a processing stage.
func Section(name string) { logf(slog.LevelInfo, "=== %s ===", []any{name}) }
