package logging

import (
	"sync/atomic"

	"go.uber.org/zap"
)

type holder struct {
	Logger
}

var global atomic.Pointer[holder]

// Global returns the process-wide logger. Until SetGlobal is called it is a
// console logger built from DefaultConfig.
func Global() Logger {
	if h := global.Load(); h != nil {
		return h.Logger
	}
	global.CompareAndSwap(nil, &holder{NewLogger(DefaultConfig())})
	return global.Load().Logger
}

// SetGlobal replaces the process-wide logger. nil installs a no-op logger.
func SetGlobal(logger Logger) {
	if logger == nil {
		logger = Nop()
	}
	global.Store(&holder{logger})
}

// Debug logs at DebugLevel on the global logger.
func Debug(msg string, fields ...zap.Field) {
	Global().Debug(msg, fields...)
}

// Info logs at InfoLevel on the global logger.
func Info(msg string, fields ...zap.Field) {
	Global().Info(msg, fields...)
}

// Warn logs at WarnLevel on the global logger.
func Warn(msg string, fields ...zap.Field) {
	Global().Warn(msg, fields...)
}
