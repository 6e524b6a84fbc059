// Package observability provides logging, metrics, and tracing.
package observability

import (
	"context"
	"log/slog"
	"os"

	"github.com/google/uuid"
)

// Logger wraps slog.Logger to provide specialized logging methods.
type Logger struct {
	*slog.Logger
}

// GlobalLogger is the default logger instance for the application.
var GlobalLogger *Logger

func init() {
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})
	GlobalLogger = &Logger{Logger: slog.New(handler)}
}

// LogContextKey is a type for context keys used by the logging package.
type LogContextKey string

// CorrelationID is the context key for the per-operation correlation id.
const CorrelationID LogContextKey = "correlation_id"

// GenerateCorrelationID creates a new unique correlation ID.
func GenerateCorrelationID() string {
	return uuid.NewString()
}

// WithCorrelationID returns a new context with the given correlation ID.
func WithCorrelationID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, CorrelationID, id)
}

// ExtractCorrelationID retrieves the correlation ID from the context.
func ExtractCorrelationID(ctx context.Context) string {
	if id := ctx.Value(CorrelationID); id != nil {
		return id.(string)
	}
	return ""
}

// SyncLogger provides structured logging for reconciliation passes.
type SyncLogger struct {
	collection string
	logger     *Logger
}

// NewSyncLogger creates a new SyncLogger for the given collection.
func NewSyncLogger(collection string) *SyncLogger {
	return &SyncLogger{
		collection: collection,
		logger:     GlobalLogger,
	}
}

// LogReplaced logs a completed collection replacement.
func (l *SyncLogger) LogReplaced(ctx context.Context, records int) {
	l.logger.InfoContext(ctx, "collection reconciled",
		slog.String("collection", l.collection),
		slog.Int("records", records),
		slog.String("correlation_id", ExtractCorrelationID(ctx)),
	)
}

// LogSeeded logs that an empty remote collection was seeded locally.
func (l *SyncLogger) LogSeeded(ctx context.Context, records int) {
	l.logger.InfoContext(ctx, "empty remote collection, seeded demo data locally",
		slog.String("collection", l.collection),
		slog.Int("records", records),
		slog.String("correlation_id", ExtractCorrelationID(ctx)),
	)
}

// LogFetchError logs a failed remote fetch. The local cache is kept as-is.
func (l *SyncLogger) LogFetchError(ctx context.Context, err error) {
	l.logger.ErrorContext(ctx, "remote fetch failed, keeping local cache",
		slog.String("collection", l.collection),
		slog.String("error", err.Error()),
		slog.String("correlation_id", ExtractCorrelationID(ctx)),
	)
}

// MutationLogger provides structured logging for optimistic mutations.
type MutationLogger struct {
	logger *Logger
}

// NewMutationLogger creates a new MutationLogger.
func NewMutationLogger() *MutationLogger {
	return &MutationLogger{logger: GlobalLogger}
}

// LogApplied logs a mutation whose local phase completed.
func (l *MutationLogger) LogApplied(ctx context.Context, kind string, fields map[string]interface{}) {
	attrs := []any{
		slog.String("mutation", kind),
		slog.String("phase", "local"),
		slog.String("correlation_id", ExtractCorrelationID(ctx)),
	}
	for k, v := range fields {
		attrs = append(attrs, slog.Any(k, v))
	}
	l.logger.InfoContext(ctx, "mutation applied", attrs...)
}

// LogRejected logs a mutation rejected before touching the cache.
func (l *MutationLogger) LogRejected(ctx context.Context, kind string, err error) {
	l.logger.WarnContext(ctx, "mutation rejected",
		slog.String("mutation", kind),
		slog.String("error", err.Error()),
		slog.String("correlation_id", ExtractCorrelationID(ctx)),
	)
}

// LogRemoteWriteError logs a failed best-effort remote write. The local
// phase is never rolled back.
func LogRemoteWriteError(ctx context.Context, operation string, err error) {
	GlobalLogger.ErrorContext(ctx, "remote write failed",
		slog.String("operation", operation),
		slog.String("error", err.Error()),
		slog.String("correlation_id", ExtractCorrelationID(ctx)),
	)
}

// LogSnapshotError logs a failed local snapshot persist.
func LogSnapshotError(ctx context.Context, err error) {
	GlobalLogger.ErrorContext(ctx, "cache snapshot persist failed",
		slog.String("error", err.Error()),
		slog.String("correlation_id", ExtractCorrelationID(ctx)),
	)
}
