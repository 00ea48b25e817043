package oauth2

import (
	"context"
	"fmt"
	"sync"
	"time"
)

const defaultSweepInterval = time.Minute

// InMemoryStorage implements StateStorage for a single process.
type InMemoryStorage struct {
	mu    sync.Mutex
	data  map[string]*AuthorizationState
	now   func() time.Time
	sweep time.Duration
	done  chan struct{}
	once  sync.Once
}

type StorageOption func(*InMemoryStorage)

// WithSweepInterval sets how often expired states are removed.
func WithSweepInterval(d time.Duration) StorageOption {
	return func(s *InMemoryStorage) {
		if d > 0 {
			s.sweep = d
		}
	}
}

// WithClock overrides the time source, for tests.
func WithClock(now func() time.Time) StorageOption {
	return func(s *InMemoryStorage) {
		s.now = now
	}
}

func NewInMemoryStorage(opts ...StorageOption) *InMemoryStorage {
	s := &InMemoryStorage{
		data:  make(map[string]*AuthorizationState),
		now:   time.Now,
		sweep: defaultSweepInterval,
		done:  make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	go s.cleanupRoutine()
	return s
}

func (s *InMemoryStorage) Save(_ context.Context, state *AuthorizationState) error {
	cp := *state
	cp.Scopes = append([]string(nil), state.Scopes...)

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.data[state.Token]; exists {
		return fmt.Errorf("save state: %w", ErrStateExists)
	}
	s.data[state.Token] = &cp
	return nil
}

func (s *InMemoryStorage) Consume(_ context.Context, token string) (*AuthorizationState, error) {
	s.mu.Lock()
	data, exists := s.data[token]
	if exists {
		delete(s.data, token)
	}
	s.mu.Unlock()

	if !exists {
		return nil, ErrStateNotFound
	}
	if data.expired(s.now()) {
		return nil, ErrStateExpired
	}
	return data, nil
}

// Len returns the number of pending states, expired ones included.
func (s *InMemoryStorage) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.data)
}

func (s *InMemoryStorage) Cleanup() {
	s.once.Do(func() {
		close(s.done)
	})
}

func (s *InMemoryStorage) cleanupRoutine() {
	ticker := time.NewTicker(s.sweep)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.removeExpired()
		case <-s.done:
			return
		}
	}
}

func (s *InMemoryStorage) removeExpired() {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	for token, data := range s.data {
		if data.expired(now) {
			delete(s.data, token)
		}
	}
}
