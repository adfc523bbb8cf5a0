package auth

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

var ErrRefreshTokenNotFound = errors.New("refresh token not found")

// RefreshStore issues opaque single-use refresh tokens mapped to a user id.
type RefreshStore interface {
	Issue(userID string, ttl time.Duration) (string, error)
	// Validate returns the user id for a live token without consuming it.
	Validate(token string) (string, error)
	Revoke(token string) error
}

const refreshKeyPrefix = "refresh:"

type RedisRefreshStore struct {
	rdb *redis.Client
	ctx context.Context
}

func NewRedisRefreshStore(rdb *redis.Client, ctx context.Context) *RedisRefreshStore {
	return &RedisRefreshStore{rdb: rdb, ctx: ctx}
}

func (s *RedisRefreshStore) Issue(userID string, ttl time.Duration) (string, error) {
	token := uuid.NewString()
	if err := s.rdb.Set(s.ctx, refreshKeyPrefix+token, userID, ttl).Err(); err != nil {
		return "", err
	}
	return token, nil
}

func (s *RedisRefreshStore) Validate(token string) (string, error) {
	userID, err := s.rdb.Get(s.ctx, refreshKeyPrefix+token).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrRefreshTokenNotFound
	}
	if err != nil {
		return "", err
	}
	return userID, nil
}

func (s *RedisRefreshStore) Revoke(token string) error {
	return s.rdb.Del(s.ctx, refreshKeyPrefix+token).Err()
}

type memoryRefreshEntry struct {
	userID    string
	expiresAt time.Time
}

// InMemoryRefreshStore backs tests that run without redis.
type InMemoryRefreshStore struct {
	mu     sync.Mutex
	tokens map[string]memoryRefreshEntry
}

func NewInMemoryRefreshStore() *InMemoryRefreshStore {
	return &InMemoryRefreshStore{tokens: map[string]memoryRefreshEntry{}}
}

func (s *InMemoryRefreshStore) Issue(userID string, ttl time.Duration) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	token := uuid.NewString()
	s.tokens[token] = memoryRefreshEntry{userID: userID, expiresAt: time.Now().Add(ttl)}
	return token, nil
}

func (s *InMemoryRefreshStore) Validate(token string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.tokens[token]
	if !ok || time.Now().After(entry.expiresAt) {
		delete(s.tokens, token)
		return "", ErrRefreshTokenNotFound
	}
	return entry.userID, nil
}

func (s *InMemoryRefreshStore) Revoke(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.tokens, token)
	return nil
}
