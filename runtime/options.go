package runtime

import (
	"io"
	"os"

	"github.com/leeforge/autumn/config"
	"github.com/leeforge/autumn/env_mode"
	"github.com/leeforge/autumn/logging"
)

type options struct {
	configPath   string
	configString string
	hasString    bool
	env          env_mode.Env
	hasEnv       bool
	logger       logging.Logger
	envPrefix    string
	watchConfig  bool
	banner       bool
	bannerOut    io.Writer
}

// Option configures a Runtime.
type Option func(*options)

func defaultOptions() options {
	return options{
		configPath: config.DefaultPath,
		banner:     true,
		bannerOut:  os.Stdout,
	}
}

// WithConfigFile sets the base configuration file. The environment overlay is
// looked up next to it.
func WithConfigFile(path string) Option {
	return func(o *options) {
		o.configPath = path
	}
}

// WithConfigString uses an inline TOML document instead of a file.
func WithConfigString(toml string) Option {
	return func(o *options) {
		o.configString = toml
		o.hasString = true
	}
}

// WithEnv fixes the environment instead of reading .env and SPRING_ENV.
func WithEnv(env env_mode.Env) Option {
	return func(o *options) {
		o.env = env
		o.hasEnv = true
	}
}

// WithLogger uses logger for the whole lifecycle. The [logger] section is
// still decoded and registered, but no logger is built from it.
func WithLogger(logger logging.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithEnvPrefix enables environment variable overrides of configuration keys.
func WithEnvPrefix(prefix string) Option {
	return func(o *options) {
		o.envPrefix = prefix
	}
}

// WithConfigWatch logs a notice when a configuration file changes while the
// application runs in Dev. Configuration is never reloaded.
func WithConfigWatch(enabled bool) Option {
	return func(o *options) {
		o.watchConfig = enabled
	}
}

// WithBanner toggles the startup banner.
func WithBanner(enabled bool) Option {
	return func(o *options) {
		o.banner = enabled
	}
}

// WithBannerOutput redirects the startup banner.
func WithBannerOutput(w io.Writer) Option {
	return func(o *options) {
		o.bannerOut = w
	}
}
