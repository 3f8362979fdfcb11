// Package config provides configuration management for semsim-mcq.
// This file handles structured logging with slog.
package config

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/monarch-initiative/semsim-mcq/internal/querylog"
	"gopkg.in/natefinch/lumberjack.v2"
)

// contextKey is a type for context keys in this package.
type contextKey string

const (
	// RequestIDKey is the context key for request ID.
	RequestIDKey contextKey = "request_id"

	// QueryIDKey is the context key for the per-query UUID used by the
	// query logger to capture a query's log trail for error responses.
	QueryIDKey contextKey = "query_id"
)

// Logger wraps slog.Logger with additional functionality.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a new structured logger based on the environment.
// In production, it outputs JSON format. In development, it outputs text
// format. When filePath is non-empty, output is duplicated to a rotating
// file sink sized by maxSizeMB/maxBackups/maxAgeDays, matching the original
// service's RotatingFileHandler(maxBytes, backupCount) behavior.
func NewLogger(env, level, filePath string, maxSizeMB, maxBackups, maxAgeDays int) *Logger {
	var logLevel slog.Level
	switch level {
	case "debug":
		logLevel = slog.LevelDebug
	case "info":
		logLevel = slog.LevelInfo
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: logLevel}

	var out io.Writer = os.Stdout
	if filePath != "" {
		sink := &lumberjack.Logger{
			Filename:   filePath,
			MaxSize:    maxSizeMB,
			MaxBackups: maxBackups,
			MaxAge:     maxAgeDays,
			Compress:   false,
		}
		out = io.MultiWriter(os.Stdout, sink)
	}

	var handler slog.Handler
	if env == "production" {
		handler = slog.NewJSONHandler(out, opts)
	} else {
		handler = slog.NewTextHandler(out, opts)
	}

	return &Logger{Logger: slog.New(handler)}
}

// WithQueryLogStore rewraps the logger's handler so every record is also
// captured into store, keyed by the query id carried in each record's
// context. Call this once at startup before deriving any per-request
// loggers.
func (l *Logger) WithQueryLogStore(store *querylog.Store) *Logger {
	return &Logger{Logger: slog.New(querylog.NewHandler(l.Logger.Handler(), store))}
}

// WithRequestID adds a request ID to the logger context.
func (l *Logger) WithRequestID(requestID string) *Logger {
	return &Logger{Logger: l.Logger.With("request_id", requestID)}
}

// WithQueryID adds the per-query UUID to the logger. Records carrying this
// field are captured by the query logger for the lifetime of the request.
func (l *Logger) WithQueryID(queryID string) *Logger {
	return &Logger{Logger: l.Logger.With("query_id", queryID)}
}

// WithContext creates a new logger with context values extracted.
func (l *Logger) WithContext(ctx context.Context) *Logger {
	logger := l
	if requestID, ok := ctx.Value(RequestIDKey).(string); ok && requestID != "" {
		logger = logger.WithRequestID(requestID)
	}
	if queryID, ok := ctx.Value(QueryIDKey).(string); ok && queryID != "" {
		logger = logger.WithQueryID(queryID)
	}
	return logger
}

// WithModule adds a module name to the logger.
func (l *Logger) WithModule(module string) *Logger {
	return &Logger{Logger: l.Logger.With("module", module)}
}

// WithError adds an error to the logger.
func (l *Logger) WithError(err error) *Logger {
	return &Logger{Logger: l.Logger.With("error", err.Error())}
}

// WithField adds a single field to the logger.
func (l *Logger) WithField(key string, value any) *Logger {
	return &Logger{Logger: l.Logger.With(key, value)}
}

// WithFields adds multiple fields to the logger.
func (l *Logger) WithFields(fields map[string]any) *Logger {
	args := make([]any, 0, len(fields)*2)
	for k, v := range fields {
		args = append(args, k, v)
	}
	return &Logger{Logger: l.Logger.With(args...)}
}

// LogHTTPRequest logs an HTTP request.
func (l *Logger) LogHTTPRequest(ctx context.Context, method, path, statusCode string, durationMs int64) {
	logger := l.WithContext(ctx)
	logger.Info("http request",
		"method", method,
		"path", path,
		"status_code", statusCode,
		"duration_ms", durationMs,
	)
}

// Global logger instance
var globalLogger *Logger

// InitLogger initializes the global logger.
func InitLogger(env, level, filePath string, maxSizeMB, maxBackups, maxAgeDays int) {
	globalLogger = NewLogger(env, level, filePath, maxSizeMB, maxBackups, maxAgeDays)
}

// L returns the global logger.
func L() *Logger {
	if globalLogger == nil {
		InitLogger("development", "info", "", 1, 10, 28)
	}
	return globalLogger
}
