package log

// Logger is the structured logger used across the module.
//
// Implementations must be safe for concurrent use. Derived loggers returned
// by WithKV, WithName, and AddCallerSkip leave the receiver untouched.
type Logger interface {
	// Debug logs fine-grained diagnostic detail.
	Debug(msg string, keysAndValues ...any)
	// Info logs routine progress events.
	Info(msg string, keysAndValues ...any)
	// Warn logs surprising but survivable situations.
	Warn(msg string, keysAndValues ...any)
	// Error logs failures that need attention.
	Error(msg string, keysAndValues ...any)
	// Fatal logs an unrecoverable failure and may terminate the process.
	Fatal(msg string, keysAndValues ...any)

	// WithKV returns a logger that includes the pair in every future entry.
	WithKV(key string, value any) Logger
	// GetAllKV returns the persistent pairs attached to this logger.
	GetAllKV() []any
	// WithName returns a logger named beneath the receiver.
	WithName(name string) Logger
	// Name returns the logger's dotted name.
	Name() string
	// AddCallerSkip returns a logger that skips extra stack frames when
	// resolving the log call site. Implementations without caller support
	// return the receiver unchanged.
	AddCallerSkip(skip int) Logger
}

// Level filters log output by severity.
type Level string

const (
	LevelDebug Level = "debug"
	LevelInfo  Level = "info"
	LevelWarn  Level = "warn"
	LevelError Level = "error"
	LevelFatal Level = "fatal"
)

// SpanEventRecorder mirrors log entries onto a tracing span.
type SpanEventRecorder interface {
	// TraceID returns the trace ID of the underlying span.
	TraceID() string
	// SpanID returns the span ID of the underlying span.
	SpanID() string

	// RecordEvent attaches an event with the given attribute pairs.
	RecordEvent(name string, keysAndValues ...any)
	// RecordError attaches an error event and marks the span as failed.
	RecordError(name string, keysAndValues ...any)
}
