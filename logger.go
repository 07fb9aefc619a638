package vecbridge

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/hupe1980/vecbridge/config"
	"github.com/hupe1980/vecbridge/protocol"
)

// Logger wraps slog.Logger with vecbridge-specific context.
// This provides structured logging with consistent field names.
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

// NewJSONLogger creates a Logger that outputs JSON-formatted logs.
// level sets the minimum log level (e.g., slog.LevelDebug, slog.LevelInfo).
func NewJSONLogger(level slog.Level) *Logger {
	handler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewTextLogger creates a Logger that outputs human-readable text logs.
func NewTextLogger(level slog.Level) *Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NoopLogger creates a Logger that discards all log output.
// Use this to disable logging entirely.
func NoopLogger() *Logger {
	return &Logger{
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

// loggerFromSettings builds the logger described by the log section.
func loggerFromSettings(s config.LogSettings) *Logger {
	level, err := s.SlogLevel()
	if err != nil {
		level = slog.LevelInfo
	}
	if strings.EqualFold(s.Format, "json") {
		return NewJSONLogger(level)
	}
	return NewTextLogger(level)
}

// WithRequestID adds a request_id field to the logger.
func (l *Logger) WithRequestID(id string) *Logger {
	return &Logger{
		Logger: l.Logger.With("request_id", id),
	}
}

// WithRequest adds the op and, when present, the collection of req.
func (l *Logger) WithRequest(req protocol.Request) *Logger {
	if req == nil {
		return &Logger{
			Logger: l.Logger.With("op", "<none>"),
		}
	}
	args := []any{"op", req.Op()}
	if name := protocol.CollectionName(req); name != "" {
		args = append(args, "collection", name)
	}
	return &Logger{
		Logger: l.Logger.With(args...),
	}
}

// WithState adds a lifecycle state field to the logger.
func (l *Logger) WithState(state State) *Logger {
	return &Logger{
		Logger: l.Logger.With("state", state.String()),
	}
}

// LogRequest logs a completed request. Engine errors are expected outcomes
// and logged at debug; bridge failures are logged at warn.
func (l *Logger) LogRequest(ctx context.Context, duration time.Duration, err error) {
	switch {
	case err == nil:
		l.DebugContext(ctx, "request completed",
			"duration", duration,
		)
	case isBridgeError(err):
		l.WarnContext(ctx, "request failed",
			"duration", duration,
			"error", err,
		)
	default:
		l.DebugContext(ctx, "request returned engine error",
			"duration", duration,
			"error", err,
		)
	}
}

// LogTransition logs a lifecycle state change.
func (l *Logger) LogTransition(ctx context.Context, from, to State) {
	l.DebugContext(ctx, "state changed",
		"from", from.String(),
		"state", to.String(),
	)
}

// LogShutdown logs the outcome of Close.
func (l *Logger) LogShutdown(ctx context.Context, duration time.Duration, err error) {
	if err != nil {
		l.WarnContext(ctx, "shutdown completed with error",
			"duration", duration,
			"error", err,
		)
	} else {
		l.InfoContext(ctx, "shutdown completed",
			"duration", duration,
		)
	}
}
