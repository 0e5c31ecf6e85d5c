package log

var _ Logger = SpanLogger{}

// SpanLogger tees every entry to a wrapped logger and to a tracing span via
// a SpanEventRecorder, so log lines and traces tell the same story.
type SpanLogger struct {
	lg  Logger
	ser SpanEventRecorder
}

// NewSpanLogger wraps lg so entries are also recorded on the span behind ser.
func NewSpanLogger(lg Logger, ser SpanEventRecorder) Logger {
	return SpanLogger{
		// One extra frame for the SpanLogger wrapper itself.
		lg:  lg.AddCallerSkip(1),
		ser: ser,
	}
}

func (sl SpanLogger) Debug(msg string, keysAndValues ...any) {
	sl.ser.RecordEvent(msg, sl.withLogContext(LevelDebug, keysAndValues)...)
	sl.lg.Debug(msg, sl.withTraceContext(keysAndValues)...)
}

func (sl SpanLogger) Info(msg string, keysAndValues ...any) {
	sl.ser.RecordEvent(msg, sl.withLogContext(LevelInfo, keysAndValues)...)
	sl.lg.Info(msg, sl.withTraceContext(keysAndValues)...)
}

func (sl SpanLogger) Warn(msg string, keysAndValues ...any) {
	sl.ser.RecordEvent(msg, sl.withLogContext(LevelWarn, keysAndValues)...)
	sl.lg.Warn(msg, sl.withTraceContext(keysAndValues)...)
}

// Error records the entry as a span error in addition to logging it.
func (sl SpanLogger) Error(msg string, keysAndValues ...any) {
	sl.ser.RecordError(msg, sl.withLogContext(LevelError, keysAndValues)...)
	sl.lg.Error(msg, sl.withTraceContext(keysAndValues)...)
}

// Fatal records the entry as a span error in addition to logging it.
func (sl SpanLogger) Fatal(msg string, keysAndValues ...any) {
	sl.ser.RecordError(msg, sl.withLogContext(LevelFatal, keysAndValues)...)
	sl.lg.Fatal(msg, sl.withTraceContext(keysAndValues)...)
}

func (sl SpanLogger) WithKV(key string, value any) Logger {
	return SpanLogger{lg: sl.lg.WithKV(key, value), ser: sl.ser}
}

func (sl SpanLogger) GetAllKV() []any {
	return sl.lg.GetAllKV()
}

func (sl SpanLogger) WithName(name string) Logger {
	return SpanLogger{lg: sl.lg.WithName(name), ser: sl.ser}
}

func (sl SpanLogger) Name() string {
	return sl.lg.Name()
}

func (sl SpanLogger) AddCallerSkip(skip int) Logger {
	return SpanLogger{lg: sl.lg.AddCallerSkip(skip), ser: sl.ser}
}

// withTraceContext prepends the trace and span IDs so log lines can be
// joined back to their trace.
func (sl SpanLogger) withTraceContext(keysAndValues []any) []any {
	return append([]any{
		"traceId", sl.ser.TraceID(),
		"spanId", sl.ser.SpanID(),
	}, keysAndValues...)
}

// withLogContext builds the span-event attribute set: severity, component
// name, the logger's persistent pairs, then the per-entry pairs.
func (sl SpanLogger) withLogContext(level Level, keysAndValues []any) []any {
	full := append([]any{
		"level", string(level),
		"component", sl.lg.Name(),
	}, sl.lg.GetAllKV()...)
	return append(full, keysAndValues...)
}
