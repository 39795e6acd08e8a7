package logging

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger is the structured logger handed to plugins. Child loggers made with
// With and Named stay Loggers so they can be stored back on a Builder.
type Logger interface {
	Debug(msg string, fields ...zap.Field)
	Info(msg string, fields ...zap.Field)
	Warn(msg string, fields ...zap.Field)
	Error(msg string, fields ...zap.Field)

	With(fields ...zap.Field) Logger
	Named(name string) Logger

	// Zap returns the underlying *zap.Logger.
	Zap() *zap.Logger
	Sync() error
}

// zapLogger promotes the leveled methods of *zap.Logger and overrides the
// ones returning child loggers.
type zapLogger struct {
	*zap.Logger
}

// NewLogger creates a Logger from config. With every sink disabled the result
// discards all entries.
func NewLogger(config Config) Logger {
	config.applyDefaults()

	cores := getZapCores(config)
	if len(cores) == 0 {
		return Nop()
	}

	var opts []zap.Option
	if config.ShowLineNumber {
		opts = append(opts, zap.AddCaller())
	}
	return &zapLogger{zap.New(zapcore.NewTee(cores...), opts...)}
}

// Nop returns a Logger that discards everything.
func Nop() Logger {
	return &zapLogger{zap.NewNop()}
}

// FromZap wraps an existing *zap.Logger.
func FromZap(zl *zap.Logger) Logger {
	if zl == nil {
		return Nop()
	}
	return &zapLogger{zl}
}

func (l *zapLogger) With(fields ...zap.Field) Logger {
	return &zapLogger{l.Logger.With(fields...)}
}

func (l *zapLogger) Named(name string) Logger {
	return &zapLogger{l.Logger.Named(name)}
}

func (l *zapLogger) Zap() *zap.Logger {
	return l.Logger
}

var _ Logger = (*zapLogger)(nil)
