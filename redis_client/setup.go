package redis_client

import (
	"context"
	"errors"

	redis "github.com/go-redis/redis/v8"
	apperrors "github.com/leeforge/autumn/errors"
	"github.com/leeforge/autumn/logging"
	"github.com/leeforge/autumn/plugin"
	"go.uber.org/zap"
)

// PluginName is the name RedisPlugin registers under.
const PluginName = "redis"

// NewRedis opens a client and pings the server within ctx.
func NewRedis(ctx context.Context, cnf Config, logger logging.Logger) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:        cnf.Addr(),
		Password:    cnf.Password,
		DB:          cnf.DB,
		PoolSize:    cnf.PoolSize,
		DialTimeout: cnf.DialTimeout,
	})
	pong, err := client.Ping(ctx).Result()
	if err != nil {
		_ = client.Close()
		return nil, apperrors.WrapWithType(err, apperrors.ErrorTypePlugin, "redis ping failed").
			WithDetail("addr", cnf.Addr())
	}
	if logger != nil {
		logger.Info("redis connected", append(redisConfigLogFields(cnf), zap.String("reply", pong))...)
	}
	return client, nil
}

func redisConfigLogFields(cnf Config) []zap.Field {
	return []zap.Field{
		zap.String("addr", cnf.Addr()),
		zap.Int("db", cnf.DB),
		zap.String("password", redactedPassword(cnf.Password)),
	}
}

func redactedPassword(password string) string {
	if password == "" {
		return "<empty>"
	}
	return "[REDACTED]"
}

// RedisPlugin connects to redis during the build and registers the
// *redis.Client component. The client is closed by a shutdown hook.
type RedisPlugin struct {
	client *redis.Client
}

func (p *RedisPlugin) Name() string { return PluginName }

func (p *RedisPlugin) Build(ctx context.Context, b *plugin.Builder) error {
	cfg, err := plugin.AddConfig[Config](b)
	if err != nil {
		return err
	}

	client, err := NewRedis(ctx, cfg, b.Logger().Named(PluginName))
	if err != nil {
		return err
	}
	if err := b.AddComponent(client); err != nil {
		_ = client.Close()
		return err
	}
	p.client = client

	b.AddShutdownHook("redis.close", func(context.Context, *plugin.App) (string, error) {
		if err := client.Close(); err != nil {
			return "", err
		}
		return "redis client closed", nil
	})
	return nil
}

// HealthCheck pings the server.
func (p *RedisPlugin) HealthCheck(ctx context.Context) error {
	if p.client == nil {
		return errors.New("redis client not built")
	}
	return p.client.Ping(ctx).Err()
}
