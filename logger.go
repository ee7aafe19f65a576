package graphgo

import (
	"context"
	"log/slog"
	"os"
)

// Logger wraps slog.Logger with graphgo-specific context.
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
		Logger: slog.New(slog.DiscardHandler),
	}
}

// LogWrite logs a document write.
func (l *Logger) LogWrite(ctx context.Context, id string, err error) {
	if err != nil {
		l.ErrorContext(ctx, "write failed",
			"id", id,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "write completed",
			"id", id,
		)
	}
}

// LogDelete logs a document delete.
func (l *Logger) LogDelete(ctx context.Context, id string, cascaded int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "delete failed",
			"id", id,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "delete completed",
			"id", id,
			"edges_cascaded", cascaded,
		)
	}
}

// LogEdge logs an edge insertion.
func (l *Logger) LogEdge(ctx context.Context, source, target, label string, weight float64, err error) {
	if err != nil {
		l.ErrorContext(ctx, "add edge failed",
			"source", source,
			"target", target,
			"label", label,
			"weight", weight,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "edge added",
			"source", source,
			"target", target,
			"label", label,
			"weight", weight,
		)
	}
}

// LogQuery logs a hybrid query execution.
func (l *Logger) LogQuery(ctx context.Context, predicates, resultsFound int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "query failed",
			"predicates", predicates,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "query completed",
			"predicates", predicates,
			"results", resultsFound,
		)
	}
}

// LogTraversal logs a graph traversal.
func (l *Logger) LogTraversal(ctx context.Context, start string, maxDepth, visited int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "traversal failed",
			"start", start,
			"max_depth", maxDepth,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "traversal completed",
			"start", start,
			"max_depth", maxDepth,
			"visited", visited,
		)
	}
}

// LogFlush logs a flush barrier.
func (l *Logger) LogFlush(ctx context.Context, err error) {
	if err != nil {
		l.ErrorContext(ctx, "flush failed",
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "flush completed")
	}
}

// LogBackup logs a backup or restore operation.
func (l *Logger) LogBackup(ctx context.Context, op, filename string, documents, edges int, err error) {
	if err != nil {
		l.ErrorContext(ctx, op+" failed",
			"filename", filename,
			"error", err,
		)
	} else {
		l.InfoContext(ctx, op+" completed",
			"filename", filename,
			"documents", documents,
			"edges", edges,
		)
	}
}
