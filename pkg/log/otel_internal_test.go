package log

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.opentelemetry.io/otel/attribute"
)

// Test_kvToOtelAttributes covers typed conversion, the odd-length repair,
// and the non-string-key bailout.
func Test_kvToOtelAttributes(t *testing.T) {
	tests := []struct {
		name           string
		keysAndValues  []any
		expectedOutput []attribute.KeyValue
	}{
		{
			name:           "empty input",
			keysAndValues:  []any{},
			expectedOutput: []attribute.KeyValue{},
		},
		{
			name:          "typed values",
			keysAndValues: []any{"key1", "value1", "key2", 42, "key3", true, "key4", int32(7), "key5", 1.5},
			expectedOutput: []attribute.KeyValue{
				attribute.String("key1", "value1"),
				attribute.Int("key2", 42),
				attribute.Bool("key3", true),
				attribute.Int64("key4", 7),
				attribute.Float64("key5", 1.5),
			},
		},
		{
			name:          "uint64 renders as string",
			keysAndValues: []any{"key1", uint64(42)},
			expectedOutput: []attribute.KeyValue{
				attribute.String("key1", "42"),
			},
		},
		{
			name:          "odd number of elements",
			keysAndValues: []any{"key1", "value1", "key2"},
			expectedOutput: []attribute.KeyValue{
				attribute.String("key1", "value1"),
				attribute.String("key2", "MISSING"),
			},
		},
		{
			name:          "non-string key",
			keysAndValues: []any{123, "value1", "key2", 42},
			expectedOutput: []attribute.KeyValue{
				attribute.String("invalidKeysAndValues", "[123 value1 key2 42]"),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := kvToOtelAttributes(tt.keysAndValues...)
			assert.Equal(t, tt.expectedOutput, result)
		})
	}
}

func Test_toInt64(t *testing.T) {
	tests := []struct {
		input    any
		expected int64
	}{
		{input: int(42), expected: 42},
		{input: int8(42), expected: 42},
		{input: int16(42), expected: 42},
		{input: int32(42), expected: 42},
		{input: int64(42), expected: 42},
		{input: uint(42), expected: 42},
		{input: uint8(42), expected: 42},
		{input: uint16(42), expected: 42},
		{input: uint32(42), expected: 42},
		{input: uint64(42), expected: 42},
		{input: "not a number", expected: 0},
	}

	for _, tt := range tests {
		t.Run("", func(t *testing.T) {
			assert.Equal(t, tt.expected, toInt64(tt.input))
		})
	}
}

func Test_toFloat64(t *testing.T) {
	tests := []struct {
		input    any
		expected float64
	}{
		{input: float32(42.5), expected: 42.5},
		{input: float64(42.5), expected: 42.5},
		{input: int(42), expected: 0.0},
		{input: "not a number", expected: 0.0},
	}

	for _, tt := range tests {
		t.Run("", func(t *testing.T) {
			assert.Equal(t, tt.expected, toFloat64(tt.input))
		})
	}
}
