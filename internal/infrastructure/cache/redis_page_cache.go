package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/storeadmin/backend/internal/infrastructure/config"
)

// RedisPageCache implements PageCache using Redis.
// This is suitable for multi-instance deployments where replicas should
// share cached upstream pages.
type RedisPageCache struct {
	client    *redis.Client
	keyPrefix string
}

// NewRedisPageCache creates a new Redis-backed page cache.
func NewRedisPageCache(cfg config.RedisConfig) (*RedisPageCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:        cfg.Addr(),
		Password:    cfg.Password,
		DB:          cfg.DB,
		DialTimeout: cfg.DialTimeout,
	})

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisPageCache{
		client:    client,
		keyPrefix: DefaultKeyPrefix,
	}, nil
}

// NewRedisPageCacheWithClient creates a cache with an existing Redis client.
// This is useful for testing or when sharing a client across components.
func NewRedisPageCacheWithClient(client *redis.Client, keyPrefix string) *RedisPageCache {
	if keyPrefix == "" {
		keyPrefix = DefaultKeyPrefix
	}
	return &RedisPageCache{
		client:    client,
		keyPrefix: keyPrefix,
	}
}

// Get returns the cached page for key. A missing key is a miss, not an error.
func (c *RedisPageCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	data, err := c.client.Get(ctx, c.keyPrefix+key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to read cached page: %w", err)
	}
	return data, true, nil
}

// Set stores a page under key for the given TTL.
func (c *RedisPageCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	if err := c.client.Set(ctx, c.keyPrefix+key, value, ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache page: %w", err)
	}
	return nil
}

// Backend implements PageCache
func (c *RedisPageCache) Backend() string {
	return "redis"
}

// Close closes the Redis client
func (c *RedisPageCache) Close() error {
	return c.client.Close()
}

// GetClient returns the underlying Redis client (for testing/monitoring)
func (c *RedisPageCache) GetClient() *redis.Client {
	return c.client
}

// Ensure RedisPageCache implements PageCache
var _ PageCache = (*RedisPageCache)(nil)
