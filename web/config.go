package web

import (
	"net"
	"strconv"
	"time"
)

// Config is the `[web]` configuration section.
type Config struct {
	Binding string `mapstructure:"binding" json:"binding" toml:"binding" default:"0.0.0.0"`

	// Port 0 picks a free port.
	Port int `mapstructure:"port" json:"port" toml:"port" default:"8080" validate:"gte=0,lte=65535"`

	// Graceful drains in-flight requests on shutdown instead of closing connections.
	Graceful        bool          `mapstructure:"graceful" json:"graceful" toml:"graceful" default:"true"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown-timeout" json:"shutdownTimeout" toml:"shutdown-timeout" default:"10s"`

	ReadHeaderTimeout time.Duration `mapstructure:"read-header-timeout" json:"readHeaderTimeout" toml:"read-header-timeout" default:"5s"`

	// Actuator mounts the /actuator routes.
	Actuator bool `mapstructure:"actuator" json:"actuator" toml:"actuator" default:"true"`
}

// ConfigPrefix names the configuration section.
func (Config) ConfigPrefix() string { return "web" }

func (c Config) Addr() string {
	return net.JoinHostPort(c.Binding, strconv.Itoa(c.Port))
}
