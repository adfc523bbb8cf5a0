package ban

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	strikeKeyPrefix = "ratelimit:strikes:"
	banKeyPrefix    = "ratelimit:ban:"
	dailyBanLogKey  = "ratelimit:banlog:daily"
)

// StrikeStore tracks throttling strikes and active bans per client.
type StrikeStore interface {
	// Strike increments the client's strike count and returns the new total.
	// The count resets once the window passes without further strikes.
	Strike(target string, window time.Duration) (int, error)
	Ban(target string, duration time.Duration) error
	IsBanned(target string) (bool, error)
	LogBan(entry LogEntry) error
	// DrainLog returns the accumulated ban log and clears it.
	DrainLog() ([]LogEntry, error)
}

type RedisStrikeStore struct {
	rdb *redis.Client
	ctx context.Context
}

func NewRedisStrikeStore(rdb *redis.Client, ctx context.Context) *RedisStrikeStore {
	return &RedisStrikeStore{rdb: rdb, ctx: ctx}
}

func (s *RedisStrikeStore) Strike(target string, window time.Duration) (int, error) {
	key := strikeKeyPrefix + target
	strikes, err := s.rdb.Incr(s.ctx, key).Result()
	if err != nil {
		return 0, err
	}
	if strikes == 1 {
		if err := s.rdb.Expire(s.ctx, key, window).Err(); err != nil {
			return 0, err
		}
	}
	return int(strikes), nil
}

func (s *RedisStrikeStore) Ban(target string, duration time.Duration) error {
	return s.rdb.Set(s.ctx, banKeyPrefix+target, "1", duration).Err()
}

func (s *RedisStrikeStore) IsBanned(target string) (bool, error) {
	n, err := s.rdb.Exists(s.ctx, banKeyPrefix+target).Result()
	return n > 0, err
}

func (s *RedisStrikeStore) LogBan(entry LogEntry) error {
	data, err := json.Marshal(entry)
	if err != nil {
		return err
	}
	return s.rdb.RPush(s.ctx, dailyBanLogKey, data).Err()
}

func (s *RedisStrikeStore) DrainLog() ([]LogEntry, error) {
	items, err := s.rdb.LRange(s.ctx, dailyBanLogKey, 0, -1).Result()
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, nil
	}
	if err := s.rdb.Del(s.ctx, dailyBanLogKey).Err(); err != nil {
		return nil, err
	}

	var entries []LogEntry
	for _, item := range items {
		var e LogEntry
		if err := json.Unmarshal([]byte(item), &e); err == nil {
			entries = append(entries, e)
		}
	}
	return entries, nil
}

type memoryStrikeEntry struct {
	count     int
	expiresAt time.Time
}

// InMemoryStrikeStore backs tests that run without redis.
type InMemoryStrikeStore struct {
	mu      sync.Mutex
	strikes map[string]memoryStrikeEntry
	bans    map[string]time.Time
	log     []LogEntry
}

func NewInMemoryStrikeStore() *InMemoryStrikeStore {
	return &InMemoryStrikeStore{
		strikes: map[string]memoryStrikeEntry{},
		bans:    map[string]time.Time{},
	}
}

func (s *InMemoryStrikeStore) Strike(target string, window time.Duration) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.strikes[target]
	if !ok || time.Now().After(entry.expiresAt) {
		entry = memoryStrikeEntry{expiresAt: time.Now().Add(window)}
	}
	entry.count++
	s.strikes[target] = entry
	return entry.count, nil
}

func (s *InMemoryStrikeStore) Ban(target string, duration time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bans[target] = time.Now().Add(duration)
	return nil
}

func (s *InMemoryStrikeStore) IsBanned(target string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	until, ok := s.bans[target]
	if !ok {
		return false, nil
	}
	if time.Now().After(until) {
		delete(s.bans, target)
		return false, nil
	}
	return true, nil
}

func (s *InMemoryStrikeStore) LogBan(entry LogEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.log = append(s.log, entry)
	return nil
}

func (s *InMemoryStrikeStore) DrainLog() ([]LogEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entries := s.log
	s.log = nil
	return entries, nil
}
