package logger

import (
	"context"

	"go.uber.org/zap"
)

// Structured field names. Use these instead of raw strings so log queries
// stay stable.
const (
	FieldRunID     = "run_id"
	FieldComponent = "component"

	FieldOperation  = "operation"
	FieldDurationMS = "duration_ms"

	FieldError     = "error"
	FieldErrorType = "error_type" // errors.Kind of the failure

	FieldCount       = "count"
	FieldTotalCount  = "total_count"
	FieldFailedCount = "failed_count"
	FieldWorkers     = "workers"

	FieldFile = "file"

	FieldType      = "type" // Namespace.Name
	FieldNamespace = "namespace"
	FieldMethod    = "method"
	FieldCategory  = "category"
)

type runIDKey struct{}

// WithRunID attaches a planning run id to ctx.
func WithRunID(ctx context.Context, runID string) context.Context {
	return context.WithValue(ctx, runIDKey{}, runID)
}

// RunID returns the run id attached to ctx, if any.
func RunID(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(runIDKey{}).(string)
	return id, ok && id != ""
}

// With returns l annotated with the fields carried by ctx.
func With(ctx context.Context, l *zap.SugaredLogger) *zap.SugaredLogger {
	if id, ok := RunID(ctx); ok {
		return l.With(FieldRunID, id)
	}
	return l
}

// ComponentLogger returns a logger named after a package-level component,
// e.g. ComponentLogger("plan"). Call it after Initialize; the name is bound
// to whichever logger is global at the time.
func ComponentLogger(name string) *zap.SugaredLogger {
	return Logger.Named(name)
}
