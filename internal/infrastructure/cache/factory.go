package cache

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/storeadmin/backend/internal/infrastructure/config"
)

// PageCacheFactory creates page caches based on configuration
type PageCacheFactory struct {
	cacheConfig         config.CacheConfig
	logger              *zap.Logger
	allowMemoryFallback bool
}

// PageCacheFactoryOption is a functional option for configuring the factory
type PageCacheFactoryOption func(*PageCacheFactory)

// WithLogger sets the logger for the factory
func WithLogger(logger *zap.Logger) PageCacheFactoryOption {
	return func(f *PageCacheFactory) {
		f.logger = logger
	}
}

// WithMemoryFallback controls whether to fall back to the in-memory cache
// when Redis is unavailable. Default is true (allow fallback).
func WithMemoryFallback(allow bool) PageCacheFactoryOption {
	return func(f *PageCacheFactory) {
		f.allowMemoryFallback = allow
	}
}

// NewPageCacheFactory creates a new factory
func NewPageCacheFactory(cfg config.CacheConfig, opts ...PageCacheFactoryOption) *PageCacheFactory {
	f := &PageCacheFactory{
		cacheConfig:         cfg,
		logger:              zap.NewNop(),
		allowMemoryFallback: true,
	}

	for _, opt := range opts {
		opt(f)
	}

	return f
}

// CreateRedisCache creates a Redis-backed page cache
func (f *PageCacheFactory) CreateRedisCache() (PageCache, error) {
	c, err := NewRedisPageCache(f.cacheConfig.Redis)
	if err != nil {
		return nil, fmt.Errorf("failed to create Redis page cache: %w", err)
	}
	return c, nil
}

// CreateMemoryCache creates an in-memory page cache.
// WARNING: In-memory caches do not share state across process instances;
// each replica pays its own upstream fetches until its copy warms up.
func (f *PageCacheFactory) CreateMemoryCache() PageCache {
	return NewMemoryPageCache()
}

// CreateCache creates a page cache for the configured backend. When Redis is
// selected but unreachable, it falls back to the in-memory cache if fallback
// is allowed.
func (f *PageCacheFactory) CreateCache() (PageCache, error) {
	if f.cacheConfig.Backend != "redis" {
		f.logger.Info("using in-memory page cache")
		return f.CreateMemoryCache(), nil
	}

	c, err := f.CreateRedisCache()
	if err == nil {
		f.logger.Info("using Redis page cache")
		return c, nil
	}

	if !f.allowMemoryFallback {
		return nil, fmt.Errorf("Redis required for page cache but unavailable: %w", err)
	}

	f.logger.Warn("Redis unavailable, falling back to in-memory page cache. "+
		"Replicas will not share cached pages.",
		zap.Error(err),
	)
	return f.CreateMemoryCache(), nil
}
