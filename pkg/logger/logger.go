// Package logger provides component-scoped structured logging for the
// runtime. Every long-lived object carries a component name and logs through
// the CF ("component + fields") helpers.
package logger

import (
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	mu   sync.RWMutex
	root *zap.Logger = zap.NewNop()
)

// Init installs the process-wide logger at the given level. Level accepts
// zap's textual levels ("debug", "info", "warn", "error"); unknown values
// fall back to info.
func Init(level string) {
	var lvl zapcore.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = zapcore.InfoLevel
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.DisableStacktrace = true

	l, err := cfg.Build()
	if err != nil {
		return
	}

	mu.Lock()
	root = l
	mu.Unlock()
}

// SetLogger replaces the process-wide logger. Useful for tests.
func SetLogger(l *zap.Logger) {
	mu.Lock()
	root = l
	mu.Unlock()
}

func log(level zapcore.Level, component, msg string, fields map[string]any) {
	mu.RLock()
	l := root
	mu.RUnlock()

	zfields := make([]zap.Field, 0, len(fields)+1)
	zfields = append(zfields, zap.String("component", component))
	for k, v := range fields {
		zfields = append(zfields, zap.Any(k, v))
	}

	if ce := l.Check(level, msg); ce != nil {
		ce.Write(zfields...)
	}
}

// DebugCF logs a debug message with a component name and fields.
func DebugCF(component, msg string, fields map[string]any) {
	log(zapcore.DebugLevel, component, msg, fields)
}

// InfoCF logs an info message with a component name and fields.
func InfoCF(component, msg string, fields map[string]any) {
	log(zapcore.InfoLevel, component, msg, fields)
}

// WarnCF logs a warning with a component name and fields.
func WarnCF(component, msg string, fields map[string]any) {
	log(zapcore.WarnLevel, component, msg, fields)
}

// ErrorCF logs an error with a component name and fields.
func ErrorCF(component, msg string, fields map[string]any) {
	log(zapcore.ErrorLevel, component, msg, fields)
}
