package log

import (
	"context"

	"go.opentelemetry.io/otel/trace"
)

type contextKey struct{}

var loggerContextKey = contextKey{}

// SetContextLogger attaches lg to the context. A nil logger is replaced with
// a NoopLogger. When the context already carries a valid OpenTelemetry span,
// the stored logger is wrapped in a SpanLogger so entries land on the span
// as well.
func SetContextLogger(ctx context.Context, lg Logger) context.Context {
	if lg == nil {
		lg = NewNoopLogger()
	}

	span := trace.SpanFromContext(ctx)
	if span.SpanContext().IsValid() {
		lg = NewSpanLogger(lg, NewOtelSpanEventRecorder(span))
	}

	return context.WithValue(ctx, loggerContextKey, lg)
}

// FromContext returns the logger stored in ctx, or a NoopLogger when none
// was attached.
func FromContext(ctx context.Context) Logger {
	if l, ok := ctx.Value(loggerContextKey).(Logger); ok {
		return l
	}
	return NewNoopLogger()
}
