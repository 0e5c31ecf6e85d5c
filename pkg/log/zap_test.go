package log_test

import (
	"encoding/json"
	"fmt"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erc7824/walletgate/pkg/log"
)

// TestZapLogger drives the zap-backed logger through levels, naming,
// key-value propagation, and caller reporting, asserting on the JSON
// entries captured by a test write syncer.
func TestZapLogger(t *testing.T) {
	cfg := log.Config{
		Format: "json",
		Level:  log.LevelDebug,
	}
	tws := &testWriteSyncer{}
	logger := log.NewZapLogger(cfg, tws)

	testName := "testLogger"
	logger = logger.WithName(testName)

	keysAndValues := []any{"key1", "value1", "key2", "value2"}
	testMessage := "test message"
	callerFile := "log/zap_test.go"

	line := curLine()
	logger.Debug(testMessage, keysAndValues...)
	tws.AssertEntry(t, log.LevelDebug, testName, testMessage, callerFile, line+1, keysAndValues...)

	line = curLine()
	logger.Info(testMessage, keysAndValues...)
	tws.AssertEntry(t, log.LevelInfo, testName, testMessage, callerFile, line+1, keysAndValues...)

	line = curLine()
	logger.Warn(testMessage, keysAndValues...)
	tws.AssertEntry(t, log.LevelWarn, testName, testMessage, callerFile, line+1, keysAndValues...)

	line = curLine()
	logger.Error(testMessage, keysAndValues...)
	tws.AssertEntry(t, log.LevelError, testName, testMessage, callerFile, line+1, keysAndValues...)

	// Naming is hierarchical, dot-separated.
	testSubsystem := "testSubsystem"
	nestedName := fmt.Sprintf("%s.%s", testName, testSubsystem)
	logger = logger.WithName(testSubsystem)
	assert.Equal(t, nestedName, logger.Name())

	// Pairs added with WithKV ride along on every later entry.
	newPair := []any{"newKey", "newValue"}
	logger = logger.WithKV("newKey", "newValue")
	assert.Equal(t, newPair, logger.GetAllKV())
	allKeysAndValues := append(newPair, keysAndValues...)

	line = curLine()
	logger.Info(testMessage, keysAndValues...)
	tws.AssertEntry(t, log.LevelInfo, nestedName, testMessage, callerFile, line+1, allKeysAndValues...)

	// A helper deriving with AddCallerSkip(1) reports its caller's line.
	helper := func(msg string, keysAndValues ...any) {
		logger.AddCallerSkip(1).Info(msg, keysAndValues...)
	}

	line = curLine()
	helper(testMessage, keysAndValues...)
	tws.AssertEntry(t, log.LevelInfo, nestedName, testMessage, callerFile, line+1, allKeysAndValues...)
}

// curLine returns the line number of its own call site, so tests can pin
// the expected caller of the log call on the following line.
func curLine() int {
	_, _, line, _ := runtime.Caller(1)
	return line
}

// testWriteSyncer captures the last entry written through the logger.
type testWriteSyncer struct {
	lastEntry []byte
}

func (tws *testWriteSyncer) Write(p []byte) (n int, err error) {
	tws.lastEntry = p
	return len(p), nil
}

func (tws *testWriteSyncer) Sync() error {
	return nil
}

// AssertEntry unmarshals the captured JSON entry and checks level, name,
// message, caller, and every expected key-value pair.
func (tws *testWriteSyncer) AssertEntry(t *testing.T, level log.Level, name, message, callerFile string, callerLine int, keysAndValues ...any) {
	t.Helper()

	entryMap := make(map[string]any)
	require.NoError(t, json.Unmarshal(tws.lastEntry, &entryMap), "unmarshal log entry: %s", string(tws.lastEntry))

	assert.Contains(t, entryMap, "ts")
	assert.Equal(t, name, entryMap["logger"])
	assert.Equal(t, string(level), entryMap["level"])
	assert.Equal(t, message, entryMap["msg"])
	assert.Equal(t, fmt.Sprintf("%s:%d", callerFile, callerLine), entryMap["caller"])

	for i := 0; i < len(keysAndValues); i += 2 {
		assert.Equal(t, keysAndValues[i+1], entryMap[keysAndValues[i].(string)])
	}

	// ts, level, logger, caller and msg ride on every entry.
	assert.Equal(t, len(keysAndValues)/2, len(entryMap)-5)
}
