package config

import (
	"github.com/leeforge/autumn/logging"
	"github.com/spf13/viper"
)

// Configurable is implemented by types bound to a section of the merged document.
type Configurable interface {
	ConfigPrefix() string
}

// Validator is implemented by configuration types with checks that struct tags
// cannot express. It runs after tag validation.
type Validator interface {
	Validate() error
}

// Store is the merged configuration document. It is built once at startup and
// is read-only afterwards.
type Store struct {
	instance *viper.Viper
	tree     map[string]any
	files    []string
}

// Options controls how Load builds a Store.
type Options struct {
	// EnvPrefix enables environment overrides: with "APP", APP_WEB_PORT
	// replaces web.port. Empty disables overrides.
	EnvPrefix string

	// Logger receives load notices. Defaults to the global logger.
	Logger logging.Logger
}

// Option mutates Options.
type Option func(*Options)

// WithEnvPrefix enables environment variable overrides under prefix.
func WithEnvPrefix(prefix string) Option {
	return func(o *Options) {
		o.EnvPrefix = prefix
	}
}

// WithLogger sets the logger used while loading.
func WithLogger(logger logging.Logger) Option {
	return func(o *Options) {
		o.Logger = logger
	}
}

func newOptions(opts []Option) Options {
	o := Options{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.Logger == nil {
		o.Logger = logging.Global()
	}
	return o
}
