package log_test

// MockSpanEventRecorder is a test double for SpanEventRecorder. It keeps the
// last recorded event and remembers whether an error was ever recorded.
type MockSpanEventRecorder struct {
	traceID           string
	spanID            string
	hasErr            bool
	lastEventMetadata []any
}

func NewMockSpanEventRecorder(traceID, spanID string) *MockSpanEventRecorder {
	return &MockSpanEventRecorder{
		traceID: traceID,
		spanID:  spanID,
	}
}

func (ser *MockSpanEventRecorder) TraceID() string { return ser.traceID }

func (ser *MockSpanEventRecorder) SpanID() string { return ser.spanID }

// RecordEvent stores the event with the name under a "msg" key, matching
// how assertions read it back.
func (ser *MockSpanEventRecorder) RecordEvent(name string, keysAndValues ...any) {
	ser.lastEventMetadata = append([]any{"msg", name}, keysAndValues...)
}

// RecordError stores the event like RecordEvent and latches the error flag.
func (ser *MockSpanEventRecorder) RecordError(name string, keysAndValues ...any) {
	ser.hasErr = true
	ser.lastEventMetadata = append([]any{"msg", name}, keysAndValues...)
}

// LastEventMetadata returns the pairs of the most recent event.
func (ser *MockSpanEventRecorder) LastEventMetadata() []any {
	return ser.lastEventMetadata
}

// HasError reports whether RecordError was ever called.
func (ser *MockSpanEventRecorder) HasError() bool {
	return ser.hasErr
}
