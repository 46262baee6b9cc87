package logging

import (
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/lmittmann/tint"

	"github.com/vvka-141/pep263/pkg/pep263"
)

// StructuredLogger adapts a slog.Logger with a tint handler to pep263.Logger.
// Verbose maps to debug level. Safe for concurrent use by multiple goroutines.
type StructuredLogger struct {
	logger *slog.Logger
	level  *slog.LevelVar
}

// NewStructuredLogger creates a StructuredLogger writing coloured, levelled
// records to out. Colour is disabled when noColor is true.
func NewStructuredLogger(out io.Writer, verbose, noColor bool) *StructuredLogger {
	level := new(slog.LevelVar)
	level.Set(slog.LevelInfo)
	if verbose {
		level.Set(slog.LevelDebug)
	}

	handler := tint.NewHandler(out, &tint.Options{
		Level:      level,
		TimeFormat: time.Kitchen,
		NoColor:    noColor,
	})
	return &StructuredLogger{
		logger: slog.New(handler),
		level:  level,
	}
}

// Level exposes the level so callers can raise or lower it at runtime.
func (l *StructuredLogger) Level() *slog.LevelVar {
	return l.level
}

// Slog returns the underlying slog.Logger.
func (l *StructuredLogger) Slog() *slog.Logger {
	return l.logger
}

func (l *StructuredLogger) Verbose(format string, args ...interface{}) {
	l.logger.Debug(sprintf(format, args))
}

func (l *StructuredLogger) Info(format string, args ...interface{}) {
	l.logger.Info(sprintf(format, args))
}

func (l *StructuredLogger) Error(format string, args ...interface{}) {
	l.logger.Error(sprintf(format, args))
}

func sprintf(format string, args []interface{}) string {
	if len(args) == 0 {
		return format
	}
	return fmt.Sprintf(format, args...)
}

var _ pep263.Logger = (*StructuredLogger)(nil)
