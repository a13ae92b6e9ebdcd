// Package logger provides structured logging infrastructure for the application.
// This is part of the platform layer and contains no business logic.
package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
)

// Context key types for storing values in context
type contextKey string

const (
	// RequestIDKey is the context key for request ID
	RequestIDKey contextKey = "request_id"
	// RunIDKey is the context key for a calculation run ID
	RunIDKey contextKey = "run_id"
	// TraceIDKey is the context key for trace ID
	TraceIDKey contextKey = "trace_id"
)

// Logger wraps slog.Logger for structured logging
type Logger struct {
	*slog.Logger
}

// New creates a new logger based on environment
func New(env string) *Logger {
	return NewWithWriter(env, os.Stdout)
}

// NewWithWriter creates a logger writing to w. Tests pass io.Discard.
func NewWithWriter(env string, w io.Writer) *Logger {
	var handler slog.Handler

	opts := &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}

	if strings.EqualFold(env, "development") {
		opts.Level = slog.LevelDebug
		handler = slog.NewTextHandler(w, opts)
	} else {
		handler = slog.NewJSONHandler(w, opts)
	}

	return &Logger{
		Logger: slog.New(handler),
	}
}

// Nop returns a logger that discards everything.
func Nop() *Logger {
	return NewWithWriter("production", io.Discard)
}

// ContextWithRunID stores a calculation run ID in ctx.
func ContextWithRunID(ctx context.Context, runID string) context.Context {
	return context.WithValue(ctx, RunIDKey, runID)
}

// WithContext returns a logger with context values extracted.
// Supports request_id, run_id, and trace_id from context.
func (l *Logger) WithContext(ctx context.Context) *Logger {
	if ctx == nil {
		return l
	}

	newLogger := l

	if requestID, ok := ctx.Value(RequestIDKey).(string); ok && requestID != "" {
		newLogger = newLogger.WithRequestID(requestID)
	}

	if runID, ok := ctx.Value(RunIDKey).(string); ok && runID != "" {
		newLogger = newLogger.WithRunID(runID)
	}

	if traceID, ok := ctx.Value(TraceIDKey).(string); ok && traceID != "" {
		newLogger = &Logger{
			Logger: newLogger.With(slog.String("trace_id", traceID)),
		}
	}

	return newLogger
}

// WithRequestID returns a logger with request ID
func (l *Logger) WithRequestID(requestID string) *Logger {
	return &Logger{
		Logger: l.With(slog.String("request_id", requestID)),
	}
}

// WithRunID returns a logger with calculation run ID
func (l *Logger) WithRunID(runID string) *Logger {
	return &Logger{
		Logger: l.With(slog.String("run_id", runID)),
	}
}

// WithQuotation returns a logger scoped to one quotation
func (l *Logger) WithQuotation(quotationID int64) *Logger {
	return &Logger{
		Logger: l.With(slog.Int64("quotation_id", quotationID)),
	}
}

// CalculationFailed logs a fatal error raised while pricing one detail line
func (l *Logger) CalculationFailed(quotationID, detailID int64, stage string, err error) {
	l.Error("calculation_failed",
		slog.Int64("quotation_id", quotationID),
		slog.Int64("detail_id", detailID),
		slog.String("stage", stage),
		slog.String("error", err.Error()),
	)
}

// WageBackfillFailed logs a non-fatal failure to persist a default wage row
func (l *Logger) WageBackfillFailed(quotationID, detailID int64, err error) {
	l.Warn("wage_backfill_failed",
		slog.Int64("quotation_id", quotationID),
		slog.Int64("detail_id", detailID),
		slog.String("error", err.Error()),
	)
}

// CalculationCompleted logs the headline numbers of a finished calculation
func (l *Logger) CalculationCompleted(quotationID int64, details int, totalInvoiceCoss float64, latencyMs float64) {
	l.Info("calculation_completed",
		slog.Int64("quotation_id", quotationID),
		slog.Int("details", details),
		slog.Float64("total_invoice_coss", totalInvoiceCoss),
		slog.Float64("latency_ms", latencyMs),
	)
}

// DatabaseError logs database errors
func (l *Logger) DatabaseError(operation string, err error) {
	l.Error("database_error",
		slog.String("operation", operation),
		slog.String("error", err.Error()),
	)
}
