package log_test

import "github.com/erc7824/walletgate/pkg/log"

var _ log.Logger = &MockLogger{}

// MockLogger captures the last entry and tracks derivation state, so tests
// can assert on what a component logged without parsing output.
type MockLogger struct {
	lastEntry MockLogEntry

	name          string
	keysAndValues []any
	callerSkip    int
}

func NewMockLogger() *MockLogger {
	return &MockLogger{
		name:          "mock",
		keysAndValues: []any{},
	}
}

// MockLogEntry is one captured log call.
type MockLogEntry struct {
	Level         log.Level
	Message       string
	KeysAndValues []any
}

func (ml *MockLogger) Debug(msg string, keysAndValues ...any) {
	ml.capture(log.LevelDebug, msg, keysAndValues...)
}

func (ml *MockLogger) Info(msg string, keysAndValues ...any) {
	ml.capture(log.LevelInfo, msg, keysAndValues...)
}

func (ml *MockLogger) Warn(msg string, keysAndValues ...any) {
	ml.capture(log.LevelWarn, msg, keysAndValues...)
}

func (ml *MockLogger) Error(msg string, keysAndValues ...any) {
	ml.capture(log.LevelError, msg, keysAndValues...)
}

func (ml *MockLogger) Fatal(msg string, keysAndValues ...any) {
	ml.capture(log.LevelFatal, msg, keysAndValues...)
}

func (ml *MockLogger) WithKV(key string, value any) log.Logger {
	ml.keysAndValues = append(ml.keysAndValues, key, value)
	return ml
}

func (ml *MockLogger) GetAllKV() []any { return ml.keysAndValues }

// WithName replaces the name outright; the mock does not model nesting.
func (ml *MockLogger) WithName(name string) log.Logger {
	ml.name = name
	return ml
}

func (ml *MockLogger) Name() string { return ml.name }

func (ml *MockLogger) AddCallerSkip(skip int) log.Logger {
	ml.callerSkip += skip
	return ml
}

// CallerSkip exposes the accumulated skip for wrapper tests.
func (ml *MockLogger) CallerSkip() int { return ml.callerSkip }

// LastEntry returns the most recently captured call.
func (ml *MockLogger) LastEntry() MockLogEntry { return ml.lastEntry }

func (ml *MockLogger) capture(level log.Level, msg string, keysAndValues ...any) {
	ml.lastEntry = MockLogEntry{
		Level:         level,
		Message:       msg,
		KeysAndValues: append(ml.keysAndValues, keysAndValues...),
	}
}
