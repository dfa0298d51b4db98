package cache

import (
	"context"
	"sync"
	"time"
)

// pageEntry is one stored page with its expiration
type pageEntry struct {
	data      []byte
	expiresAt time.Time
}

// MemoryPageCache implements PageCache using an in-memory map.
// This is suitable for single-instance deployments and testing.
type MemoryPageCache struct {
	mu        sync.RWMutex
	entries   map[string]pageEntry
	stopChan  chan struct{}
	wg        sync.WaitGroup
	closeOnce sync.Once
}

// NewMemoryPageCache creates a new in-memory page cache.
// It starts a background goroutine to clean up expired entries.
func NewMemoryPageCache() *MemoryPageCache {
	c := &MemoryPageCache{
		entries:  make(map[string]pageEntry),
		stopChan: make(chan struct{}),
	}

	c.wg.Add(1)
	go c.cleanupLoop()

	return c
}

// Get returns the cached page for key if present and not expired.
func (c *MemoryPageCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, exists := c.entries[key]
	if !exists {
		return nil, false, nil
	}
	if time.Now().After(e.expiresAt) {
		// Expired, treat as missing; the cleanup loop removes it later
		return nil, false, nil
	}

	// Copy so callers cannot mutate the cached page
	data := make([]byte, len(e.data))
	copy(data, e.data)
	return data, true, nil
}

// Set stores a page under key for the given TTL. A non-positive TTL stores
// nothing: the entry would be dead on arrival.
func (c *MemoryPageCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}

	data := make([]byte, len(value))
	copy(data, value)

	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = pageEntry{
		data:      data,
		expiresAt: time.Now().Add(ttl),
	}
	return nil
}

// Backend implements PageCache
func (c *MemoryPageCache) Backend() string {
	return "memory"
}

// Close stops the cleanup goroutine and releases resources.
// Safe to call multiple times.
func (c *MemoryPageCache) Close() error {
	c.closeOnce.Do(func() {
		close(c.stopChan)
		c.wg.Wait()
	})
	return nil
}

// cleanupLoop periodically removes expired entries
func (c *MemoryPageCache) cleanupLoop() {
	defer c.wg.Done()

	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-c.stopChan:
			return
		case <-ticker.C:
			c.cleanup()
		}
	}
}

// cleanup removes expired entries from the cache
func (c *MemoryPageCache) cleanup() {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	for key, e := range c.entries {
		if now.After(e.expiresAt) {
			delete(c.entries, key)
		}
	}
}

// Size returns the number of entries in the cache (for testing/monitoring)
func (c *MemoryPageCache) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Ensure MemoryPageCache implements PageCache
var _ PageCache = (*MemoryPageCache)(nil)
