package logging

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func newObservedLogger(level zapcore.Level) (Logger, *observer.ObservedLogs) {
	core, logs := observer.New(level)
	return &zapLogger{base: zap.New(core)}, logs
}

func TestLoggerLevels(t *testing.T) {
	logger, logs := newObservedLogger(zapcore.InfoLevel)

	logger.Debug("hidden")
	logger.Info("shown", Fields{"samples": 100})
	logger.Warn("warned")

	require.Equal(t, 2, logs.Len())
	entries := logs.All()
	assert.Equal(t, "shown", entries[0].Message)
	assert.Equal(t, zapcore.InfoLevel, entries[0].Level)
	assert.Equal(t, int64(100), entries[0].ContextMap()["samples"])
	assert.Equal(t, zapcore.WarnLevel, entries[1].Level)
}

func TestLoggerError(t *testing.T) {
	logger, logs := newObservedLogger(zapcore.InfoLevel)

	logger.Error(errors.New("boom"), "analysis failed", Fields{"source": "a.csv"})

	require.Equal(t, 1, logs.Len())
	ctx := logs.All()[0].ContextMap()
	assert.Equal(t, "boom", ctx["error"])
	assert.Equal(t, "a.csv", ctx["source"])
}

func TestWithFieldsMerge(t *testing.T) {
	logger, logs := newObservedLogger(zapcore.DebugLevel)

	bound := logger.WithFields(Fields{"run": "a", "n": 1})
	bound.Debug("step", Fields{"n": 2})

	require.Equal(t, 1, logs.Len())
	ctx := logs.All()[0].ContextMap()
	assert.Equal(t, "a", ctx["run"])
	// Per-call fields win over bound fields.
	assert.Equal(t, int64(2), ctx["n"])
}

func TestZapFieldsStableOrder(t *testing.T) {
	zf := zapFields([]Fields{{"b": 1}, {"a": 2, "b": 3}})

	require.Len(t, zf, 2)
	assert.Equal(t, "a", zf[0].Key)
	assert.Equal(t, "b", zf[1].Key)

	assert.Nil(t, zapFields(nil))
	assert.Nil(t, zapFields([]Fields{{}}))
}

func TestNewLoggerLevelParsing(t *testing.T) {
	// Unknown levels fall back to info without failing.
	assert.NotNil(t, NewLogger("nonsense"))
	assert.NotNil(t, NewLogger("debug"))
	assert.NotNil(t, NewDefaultLogger())
}

func TestDefaultLoggerHelpers(t *testing.T) {
	SetDefault(NopLogger())
	defer SetDefault(NewDefaultLogger())

	// Nil does not replace the default.
	SetDefault(nil)

	Debug("debug message")
	Info("info message", Fields{"k": "v"})
	Warn("warn message")
	Error(errors.New("boom"), "error message")
	WithFields(Fields{"k": "v"}).Info("bound message")
}
