// =============================================================================
// Transcript Parser - Logging
// =============================================================================
//
// Structured logging on zerolog. Every component receives a zerolog.Logger,
// either directly or through the context, and adds its own fields (file,
// run_id, term) rather than formatting them into the message.
//
// OUTPUT FORMATS:
//   - console : human-readable, colorized when the writer is a terminal
//   - json    : one JSON object per line, for log shippers
//
// =============================================================================

package logger

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// ContextKey is the type for context keys used by the logger.
type ContextKey string

const (
	// LoggerKey is the context key for the logger instance.
	LoggerKey ContextKey = "logger"
)

// Supported output formats.
const (
	FormatConsole = "console"
	FormatJSON    = "json"
)

// New creates a logger writing to stderr at the given level and format.
//
// PARAMETERS:
//   - level: "debug", "info", "warn" or "error". Empty means "info".
//   - format: FormatConsole or FormatJSON. Empty means FormatConsole.
//
// RETURNS:
//   - The logger.
//   - An error if the level or format is not recognized.
func New(level, format string) (zerolog.Logger, error) {
	return NewWithOutput(os.Stderr, level, format)
}

// NewWithOutput is New with an explicit destination.
func NewWithOutput(w io.Writer, level, format string) (zerolog.Logger, error) {
	lvl, err := ParseLevel(level)
	if err != nil {
		return zerolog.Nop(), err
	}

	switch format {
	case "", FormatConsole:
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	case FormatJSON:
	default:
		return zerolog.Nop(), fmt.Errorf("unknown log format: %q", format)
	}

	return zerolog.New(w).Level(lvl).With().Timestamp().Logger(), nil
}

// NewWithFile is New plus a JSON copy of every event appended to path.
// The returned closer closes the file; it is a no-op when path is empty.
func NewWithFile(level, format, path string) (zerolog.Logger, io.Closer, error) {
	if path == "" {
		l, err := New(level, format)
		return l, nopCloser{}, err
	}

	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return zerolog.Nop(), nil, fmt.Errorf("failed to open log file: %w", err)
	}

	var console io.Writer = os.Stderr
	if format == "" || format == FormatConsole {
		console = zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	} else if format != FormatJSON {
		file.Close()
		return zerolog.Nop(), nil, fmt.Errorf("unknown log format: %q", format)
	}

	lvl, err := ParseLevel(level)
	if err != nil {
		file.Close()
		return zerolog.Nop(), nil, err
	}

	l := zerolog.New(zerolog.MultiLevelWriter(console, file)).Level(lvl).With().Timestamp().Logger()
	return l, file, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// NewWithWriter creates a JSON logger with a custom writer at debug level.
// Tests use it to capture output.
func NewWithWriter(w io.Writer) zerolog.Logger {
	return zerolog.New(w).Level(zerolog.DebugLevel).With().Timestamp().Logger()
}

// ParseLevel converts a configured level name. The empty string is "info".
func ParseLevel(level string) (zerolog.Level, error) {
	if level == "" {
		return zerolog.InfoLevel, nil
	}
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return zerolog.NoLevel, fmt.Errorf("unknown log level %q: %w", level, err)
	}
	return lvl, nil
}

// WithContext adds the logger to the context.
func WithContext(ctx context.Context, logger zerolog.Logger) context.Context {
	return context.WithValue(ctx, LoggerKey, logger)
}

// FromContext retrieves the logger from the context, or a disabled logger
// when none was stored.
func FromContext(ctx context.Context) zerolog.Logger {
	if logger, ok := ctx.Value(LoggerKey).(zerolog.Logger); ok {
		return logger
	}
	return zerolog.Nop()
}

// WithFields adds structured fields to a logger.
func WithFields(logger zerolog.Logger, fields map[string]interface{}) zerolog.Logger {
	ctx := logger.With()
	for k, v := range fields {
		ctx = ctx.Interface(k, v)
	}
	return ctx.Logger()
}
