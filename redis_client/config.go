package redis_client

import (
	"net"
	"time"
)

// Config is the `[redis]` configuration section.
type Config struct {
	Host     string `mapstructure:"host" json:"host" toml:"host" default:"127.0.0.1" validate:"required"`
	Port     string `mapstructure:"port" json:"port" toml:"port" default:"6379" validate:"required,numeric"`
	Password string `mapstructure:"password" json:"-" toml:"password"`
	DB       int    `mapstructure:"db" json:"db" toml:"db" validate:"gte=0,lte=15"`

	// PoolSize is the maximum number of socket connections. Zero keeps the go-redis default.
	PoolSize    int           `mapstructure:"pool-size" json:"poolSize" toml:"pool-size" validate:"gte=0"`
	DialTimeout time.Duration `mapstructure:"dial-timeout" json:"dialTimeout" toml:"dial-timeout" default:"5s"`
}

// ConfigPrefix names the configuration section.
func (Config) ConfigPrefix() string { return "redis" }

func (c Config) Addr() string {
	return net.JoinHostPort(c.Host, c.Port)
}
