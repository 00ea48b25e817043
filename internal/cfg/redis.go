package cfg

import "net"

type RedisConfig struct {
	Host     string
	Port     string
	Password string
}

func (c RedisConfig) Addr() string {
	return net.JoinHostPort(c.Host, c.Port)
}

// Enabled reports whether a Redis server is configured.
func (c RedisConfig) Enabled() bool {
	return c.Host != "" && c.Port != ""
}

func (l *Loader) loadRedis() RedisConfig {
	return RedisConfig{
		Host:     l.getEnvWithDefault("REDIS_HOST", ""),
		Port:     l.getEnvWithDefault("REDIS_PORT", ""),
		Password: l.getEnvWithDefault("REDIS_PASSWORD", ""),
	}
}
