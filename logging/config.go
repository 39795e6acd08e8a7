package logging

import (
	"strings"

	"go.uber.org/zap/zapcore"
)

// Config is the `[logger]` configuration section.
type Config struct {
	// Enable turns console logging on. When false and file output is off, a no-op logger is built.
	Enable bool `mapstructure:"enable" json:"enable" toml:"enable" default:"true"`

	// Level is the minimum log level (debug, info, warn, error, dpanic, panic, fatal).
	Level string `mapstructure:"level" json:"level" toml:"level" default:"info" validate:"omitempty,oneof=debug info warn error dpanic panic fatal DEBUG INFO WARN ERROR"`

	// Format is the log format (json or console).
	Format string `mapstructure:"format" json:"format" toml:"format" default:"console" validate:"omitempty,oneof=json console"`

	// TimeFormat is the time format string (uses Go time format).
	TimeFormat string `mapstructure:"time-format" json:"timeFormat" toml:"time-format" default:"2006/01/02 - 15:04:05"`

	// Prefix is prepended to each timestamp.
	Prefix string `mapstructure:"prefix" json:"prefix" toml:"prefix"`

	// ShowLineNumber adds caller information to log entries.
	ShowLineNumber bool `mapstructure:"show-line-number" json:"showLineNumber" toml:"show-line-number"`

	// File enables rotating file output.
	File FileConfig `mapstructure:"file" json:"file" toml:"file"`
}

// FileConfig configures rotating file output.
type FileConfig struct {
	Enable bool `mapstructure:"enable" json:"enable" toml:"enable"`

	// Director is the directory where log files will be stored.
	Director string `mapstructure:"director" json:"director" toml:"director" default:"logs"`

	// FileName is the active log file name inside Director.
	FileName string `mapstructure:"file-name" json:"fileName" toml:"file-name" default:"app.log"`

	// MaxSize is the maximum size in megabytes of the log file before it gets rotated.
	MaxSize int `mapstructure:"max-size" json:"maxSize" toml:"max-size" default:"100"`

	// MaxAge is the maximum number of days to retain old log files.
	MaxAge int `mapstructure:"max-age" json:"maxAge" toml:"max-age" default:"7"`

	// MaxBackups is the maximum number of old log files to retain.
	MaxBackups int `mapstructure:"max-backups" json:"maxBackups" toml:"max-backups" default:"10"`

	// Compress determines if the rotated log files should be compressed using gzip.
	Compress bool `mapstructure:"compress" json:"compress" toml:"compress"`
}

// ConfigPrefix names the configuration section read by the built-in log plugin.
func (Config) ConfigPrefix() string { return "logger" }

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Enable:     true,
		Level:      "info",
		Format:     "console",
		TimeFormat: "2006/01/02 - 15:04:05",
		File: FileConfig{
			Director:   "logs",
			FileName:   "app.log",
			MaxSize:    100,
			MaxAge:     7,
			MaxBackups: 10,
		},
	}
}

// TransportLevel converts the string level to zapcore.Level.
func (c Config) TransportLevel() zapcore.Level {
	switch strings.ToLower(c.Level) {
	case "debug":
		return zapcore.DebugLevel
	case "info":
		return zapcore.InfoLevel
	case "warn":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	case "dpanic":
		return zapcore.DPanicLevel
	case "panic":
		return zapcore.PanicLevel
	case "fatal":
		return zapcore.FatalLevel
	default:
		return zapcore.InfoLevel
	}
}

// applyDefaults fills fields left empty by callers that build Config by hand.
func (c *Config) applyDefaults() {
	defaults := DefaultConfig()

	if c.Level == "" {
		c.Level = defaults.Level
	}
	if c.Format == "" {
		c.Format = defaults.Format
	}
	if c.TimeFormat == "" {
		c.TimeFormat = defaults.TimeFormat
	}
	if c.File.Director == "" {
		c.File.Director = defaults.File.Director
	}
	if c.File.FileName == "" {
		c.File.FileName = defaults.File.FileName
	}
	if c.File.MaxSize == 0 {
		c.File.MaxSize = defaults.File.MaxSize
	}
	if c.File.MaxAge == 0 {
		c.File.MaxAge = defaults.File.MaxAge
	}
	if c.File.MaxBackups == 0 {
		c.File.MaxBackups = defaults.File.MaxBackups
	}
}
