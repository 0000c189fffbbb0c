package storefront

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// IdentityKey is the storage key of the remembered player name.
const IdentityKey = "minecraftUsername"

// IdentityStore remembers the last confirmed player name of a session.
// Load returns "" when nothing was stored.
type IdentityStore interface {
	Load(ctx context.Context) (string, error)
	Save(ctx context.Context, raw string) error
}

// MemoryIdentityStore keeps the name in process memory.
type MemoryIdentityStore struct {
	mu  sync.RWMutex
	raw string
}

func NewMemoryIdentityStore() *MemoryIdentityStore {
	return &MemoryIdentityStore{}
}

func (s *MemoryIdentityStore) Load(ctx context.Context) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.raw, nil
}

func (s *MemoryIdentityStore) Save(ctx context.Context, raw string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.raw = raw
	return nil
}

// RedisIdentityStore keeps the name in Redis under a per-session key.
type RedisIdentityStore struct {
	client *redis.Client
	key    string
	ttl    time.Duration
}

// NewRedisIdentityStore stores the name of sessionID. A zero ttl keeps the
// key forever.
func NewRedisIdentityStore(client *redis.Client, sessionID string, ttl time.Duration) *RedisIdentityStore {
	return &RedisIdentityStore{
		client: client,
		key:    identityKey(sessionID),
		ttl:    ttl,
	}
}

func identityKey(sessionID string) string {
	return fmt.Sprintf("holysmp:session:%s:%s", sessionID, IdentityKey)
}

func (s *RedisIdentityStore) Load(ctx context.Context) (string, error) {
	raw, err := s.client.Get(ctx, s.key).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("load identity: %w", err)
	}
	return raw, nil
}

func (s *RedisIdentityStore) Save(ctx context.Context, raw string) error {
	if err := s.client.Set(ctx, s.key, raw, s.ttl).Err(); err != nil {
		return fmt.Errorf("save identity: %w", err)
	}
	return nil
}

// NewRedisClient parses redisURL and verifies the connection.
func NewRedisClient(ctx context.Context, redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("connect to redis: %w", err)
	}
	return client, nil
}
