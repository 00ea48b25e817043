package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Jouiet/VocalIA-sub010/pkg/cache"
	"github.com/google/uuid"
)

const (
	sessionPrefix = "session:"
	defaultTTL    = 24 * time.Hour
)

// RedisStore implements Client using Redis cache
type RedisStore struct {
	cache cache.Cache
}

// NewRedisStore creates a new Redis-backed session store
func NewRedisStore(c cache.Cache) *RedisStore {
	return &RedisStore{cache: c}
}

// Create creates a new session with the given data and TTL
func (s *RedisStore) Create(ctx context.Context, data []byte, ttl time.Duration) (*Session, error) {
	if ttl <= 0 {
		ttl = defaultTTL
	}

	now := time.Now()
	session := &Session{
		ID:           uuid.New().String(),
		Data:         data,
		CreatedAt:    now,
		ExpiresAt:    now.Add(ttl),
		LastAccessed: now,
	}

	if err := s.save(ctx, session, ttl); err != nil {
		return nil, err
	}
	return session, nil
}

// Get retrieves a session by ID and refreshes its last access time
func (s *RedisStore) Get(ctx context.Context, sessionID string) (*Session, error) {
	key := sessionPrefix + sessionID

	data, err := s.cache.Get(ctx, key)
	if errors.Is(err, cache.ErrNotFound) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}

	var session Session
	if err := json.Unmarshal([]byte(data), &session); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}

	if time.Now().After(session.ExpiresAt) {
		_ = s.cache.Del(ctx, key)
		return nil, ErrSessionExpired
	}

	session.LastAccessed = time.Now()
	if remaining := time.Until(session.ExpiresAt); remaining > 0 {
		if err := s.save(ctx, &session, remaining); err != nil {
			return nil, err
		}
	}
	return &session, nil
}

// Update updates the data of an existing session
func (s *RedisStore) Update(ctx context.Context, sessionID string, data []byte) error {
	session, err := s.Get(ctx, sessionID)
	if err != nil {
		return err
	}

	session.Data = data
	session.LastAccessed = time.Now()

	remaining := time.Until(session.ExpiresAt)
	if remaining <= 0 {
		return ErrSessionExpired
	}
	return s.save(ctx, session, remaining)
}

// Delete removes a session from the store
func (s *RedisStore) Delete(ctx context.Context, sessionID string) error {
	return s.cache.Del(ctx, sessionPrefix+sessionID)
}

func (s *RedisStore) save(ctx context.Context, session *Session, ttl time.Duration) error {
	raw, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err := s.cache.Set(ctx, sessionPrefix+session.ID, string(raw), ttl); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}
