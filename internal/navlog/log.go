// Package navlog provides the pipeline's structured, rotated logger.
package navlog

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Logger wraps slog.Logger with the rotating writer and start time used to report
// the pipeline's wall-clock duration at the end of a run.
type Logger struct {
	*slog.Logger
	LogFile string
	Start   time.Time
}

// New creates a Logger that writes level-filtered, rotated JSON logs under dir. If
// dir is empty it defaults to "navterm-logs" in the current directory.
func New(dir, level string) *Logger {
	if dir == "" {
		dir = "navterm-logs"
	}

	w := &lumberjack.Logger{
		Filename:   filepath.Join(dir, "navterm.log"),
		MaxSize:    32, // MB
		MaxBackups: 3,
		MaxAge:     14,
		Compress:   true,
	}

	lvl := slog.LevelInfo
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "info":
		lvl = slog.LevelInfo
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	case "":
		// use default
	default:
		fmt.Fprintf(os.Stderr, "%s: invalid log level, using info\n", level)
	}

	h := slog.NewJSONHandler(w, &slog.HandlerOptions{Level: lvl})
	return &Logger{
		Logger:  slog.New(h),
		LogFile: w.Filename,
		Start:   time.Now(),
	}
}

// Elapsed returns the duration since the logger was created, for the end-of-run
// informational duration line (spec §1's only console requirement).
func (l *Logger) Elapsed() time.Duration {
	if l == nil {
		return 0
	}
	return time.Since(l.Start)
}

// SkipParse logs a non-fatal ParseError at debug level: the spec's error-handling
// design absorbs these silently from the caller's point of view, but an operator
// debugging a run still needs a trail.
func (l *Logger) SkipParse(stage string, err error) {
	if l == nil {
		return
	}
	l.Debug("skipped stage after parse error", slog.String("stage", stage), slog.Any("err", err))
}
