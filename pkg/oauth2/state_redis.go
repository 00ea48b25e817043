package oauth2

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Jouiet/VocalIA-sub010/pkg/cache"
)

const statePrefix = "oauth:state:"

// RedisStateStorage keeps states in Redis so any replica can serve the
// callback. Expiry is enforced both by the key TTL and on read.
type RedisStateStorage struct {
	cache cache.Cache
	now   func() time.Time
}

func NewRedisStateStorage(c cache.Cache) *RedisStateStorage {
	return &RedisStateStorage{cache: c, now: time.Now}
}

func (s *RedisStateStorage) Save(ctx context.Context, state *AuthorizationState) error {
	ttl := state.ExpiresAt.Sub(s.now())
	if ttl <= 0 {
		return fmt.Errorf("save state: %w", ErrStateExpired)
	}

	payload, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("encode state: %w", err)
	}

	ok, err := s.cache.SetNX(ctx, statePrefix+state.Token, string(payload), ttl)
	if err != nil {
		return fmt.Errorf("save state: %w", err)
	}
	if !ok {
		return fmt.Errorf("save state: %w", ErrStateExists)
	}
	return nil
}

func (s *RedisStateStorage) Consume(ctx context.Context, token string) (*AuthorizationState, error) {
	raw, err := s.cache.GetDel(ctx, statePrefix+token)
	if errors.Is(err, cache.ErrNotFound) {
		return nil, ErrStateNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("consume state: %w", err)
	}

	var state AuthorizationState
	if err := json.Unmarshal([]byte(raw), &state); err != nil {
		return nil, fmt.Errorf("decode state: %w", err)
	}

	if state.expired(s.now()) {
		return nil, ErrStateExpired
	}
	return &state, nil
}

// Cleanup is a no-op: Redis expires keys on its own.
func (s *RedisStateStorage) Cleanup() {}
