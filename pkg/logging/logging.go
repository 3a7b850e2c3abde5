package logging

import (
	"os"
	"sort"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Fields carries structured key-value context attached to log entries
type Fields map[string]interface{}

// Logger is the structured logging interface used across the toolkit
type Logger interface {
	Debug(msg string, fields ...Fields)
	Info(msg string, fields ...Fields)
	Warn(msg string, fields ...Fields)
	Error(err error, msg string, fields ...Fields)
	WithFields(fields Fields) Logger
}

type zapLogger struct {
	base *zap.Logger
}

var (
	defaultLogger Logger = newZapLogger(zapcore.InfoLevel)
	defaultMu     sync.RWMutex
)

// NewDefaultLogger returns a logger at info level writing to stderr
func NewDefaultLogger() Logger {
	return newZapLogger(zapcore.InfoLevel)
}

// NewLogger returns a logger at the given level (debug, info, warn, error).
// Unknown levels fall back to info.
func NewLogger(level string) Logger {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		lvl = zapcore.InfoLevel
	}
	return newZapLogger(lvl)
}

// SetDefault replaces the logger used by the package-level helpers
func SetDefault(logger Logger) {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	if logger != nil {
		defaultLogger = logger
	}
}

// WithFields returns the default logger bound to the given fields
func WithFields(fields Fields) Logger {
	defaultMu.RLock()
	defer defaultMu.RUnlock()
	return defaultLogger.WithFields(fields)
}

// Debug logs through the default logger
func Debug(msg string, fields ...Fields) {
	defaultMu.RLock()
	defer defaultMu.RUnlock()
	defaultLogger.Debug(msg, fields...)
}

// Info logs through the default logger
func Info(msg string, fields ...Fields) {
	defaultMu.RLock()
	defer defaultMu.RUnlock()
	defaultLogger.Info(msg, fields...)
}

// Warn logs through the default logger
func Warn(msg string, fields ...Fields) {
	defaultMu.RLock()
	defer defaultMu.RUnlock()
	defaultLogger.Warn(msg, fields...)
}

// Error logs an error through the default logger
func Error(err error, msg string, fields ...Fields) {
	defaultMu.RLock()
	defer defaultMu.RUnlock()
	defaultLogger.Error(err, msg, fields...)
}

func newZapLogger(level zapcore.Level) *zapLogger {
	encCfg := zap.NewProductionEncoderConfig()
	encCfg.TimeKey = "ts"
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	encCfg.EncodeLevel = zapcore.CapitalLevelEncoder
	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encCfg),
		zapcore.Lock(os.Stderr),
		level,
	)
	return &zapLogger{base: zap.New(core)}
}

func (l *zapLogger) Debug(msg string, fields ...Fields) {
	l.base.Debug(msg, zapFields(fields)...)
}

func (l *zapLogger) Info(msg string, fields ...Fields) {
	l.base.Info(msg, zapFields(fields)...)
}

func (l *zapLogger) Warn(msg string, fields ...Fields) {
	l.base.Warn(msg, zapFields(fields)...)
}

func (l *zapLogger) Error(err error, msg string, fields ...Fields) {
	zf := zapFields(fields)
	if err != nil {
		zf = append(zf, zap.Error(err))
	}
	l.base.Error(msg, zf...)
}

func (l *zapLogger) WithFields(fields Fields) Logger {
	return &zapLogger{base: l.base.With(zapFields([]Fields{fields})...)}
}

// zapFields flattens the variadic field maps into zap fields with stable
// key order
func zapFields(fields []Fields) []zap.Field {
	n := 0
	for _, f := range fields {
		n += len(f)
	}
	if n == 0 {
		return nil
	}
	merged := make(Fields, n)
	for _, f := range fields {
		for k, v := range f {
			merged[k] = v
		}
	}
	keys := make([]string, 0, len(merged))
	for k := range merged {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	zf := make([]zap.Field, 0, len(keys))
	for _, k := range keys {
		zf = append(zf, zap.Any(k, merged[k]))
	}
	return zf
}

// NopLogger returns a logger that discards everything, for tests
func NopLogger() Logger {
	return &zapLogger{base: zap.NewNop()}
}
