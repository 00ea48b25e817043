package bootstrap

import (
	"context"
	"fmt"
	"time"

	"github.com/Jouiet/VocalIA-sub010/internal/cfg"
	"github.com/Jouiet/VocalIA-sub010/pkg/cache"
)

// InitCache connects to Redis and verifies the connection. It returns nil
// when no Redis server is configured.
func InitCache(ctx context.Context, config cfg.RedisConfig) (cache.Cache, error) {
	if !config.Enabled() {
		return nil, nil
	}

	c := cache.NewRedisCache(config.Addr(), config.Password)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := c.Ping(pingCtx); err != nil {
		_ = c.Close()
		return nil, fmt.Errorf("redis ping %s: %w", config.Addr(), err)
	}
	return c, nil
}
