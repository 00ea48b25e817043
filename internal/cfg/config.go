package cfg

import (
	"time"
)

type Config struct {
	AppEnv          string
	HTTPServer      HTTPServerConfig
	OAuth           OAuthConfig
	Session         SessionConfig
	Redis           RedisConfig
	Vault           VaultConfig
	Postgres        *PostgresConfig
	Kafka           *KafkaConfig
	Observability   ObservabilityConfig
	ShutdownTimeout time.Duration
}

func Load() (*Config, error) {
	l := NewLoader()

	cfg := &Config{
		AppEnv:          l.getEnvWithDefault("APP_ENV", "development"),
		HTTPServer:      l.loadHTTPServer(),
		OAuth:           l.loadOAuth(),
		Session:         l.loadSession(),
		Redis:           l.loadRedis(),
		Vault:           l.loadVault(),
		Kafka:           l.loadKafka(),
		Observability:   l.loadObservability(),
		ShutdownTimeout: l.getEnvDurationOrDefault("SHUTDOWN_TIMEOUT", 15*time.Second),
	}
	if cfg.Vault.Backend == VaultBackendPostgres {
		cfg.Postgres = l.loadPostgres()
	}
	l.validateWriteTimeout(cfg.HTTPServer, cfg.OAuth)
	if cfg.OAuth.StateStore == StateStoreRedis && !cfg.Redis.Enabled() {
		l.fail("OAUTH_STATE_STORE=redis requires REDIS_HOST and REDIS_PORT")
	}

	if l.HasErrors() {
		return nil, l.Error()
	}

	return cfg, nil
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}
