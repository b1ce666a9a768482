package bloomgo

import (
	"log/slog"
	"os"
)

// Logger wraps slog.Logger with bloomgo-specific field helpers, so filter
// operations log with consistent field names. Filter and Fixed implement
// slog.LogValuer and can be passed as attribute values directly.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a new Logger with the given handler.
// If handler is nil, uses default text handler to stderr.
func NewLogger(handler slog.Handler) *Logger {
	if handler == nil {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	}
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NoopLogger creates a Logger that discards all log output.
func NoopLogger() *Logger {
	return &Logger{
		Logger: slog.New(slog.DiscardHandler),
	}
}

// WithBitSize adds a bit_size field to the logger.
func (l *Logger) WithBitSize(bitSize uint64) *Logger {
	return &Logger{
		Logger: l.Logger.With("bit_size", bitSize),
	}
}

// WithHashCount adds a hash_count field to the logger.
func (l *Logger) WithHashCount(hashCount uint32) *Logger {
	return &Logger{
		Logger: l.Logger.With("hash_count", hashCount),
	}
}

// WithName adds a name field to the logger (useful for tagging stored
// filters).
func (l *Logger) WithName(name string) *Logger {
	return &Logger{
		Logger: l.Logger.With("name", name),
	}
}
