// Package cache provides short-lived caching for raw upstream response pages.
//
// Only upstream pages are ever cached. Reconciled activity output is rebuilt
// on every request and must not be stored, so a cache entry can never contain
// stale merged records.
package cache

import (
	"context"
	"fmt"
	"time"
)

// DefaultKeyPrefix namespaces page cache keys in shared backends.
const DefaultKeyPrefix = "storeadmin:page:"

// PageCache stores raw upstream response pages keyed by request shape.
type PageCache interface {
	// Get returns the cached page for key. The second return value reports
	// whether a live entry was found.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a page under key for the given TTL.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Backend reports which backend serves this cache ("memory" or "redis").
	Backend() string

	// Close releases backend resources. Safe to call multiple times.
	Close() error
}

// PageKey builds the cache key for one upstream page request. The key embeds
// every parameter that changes the upstream response, so two requests share
// an entry only when upstream would return the identical page.
func PageKey(endpoint string, page, pageSize int, filter string) string {
	if filter == "" {
		filter = "-"
	}
	return fmt.Sprintf("%s|p=%d|s=%d|f=%s", endpoint, page, pageSize, filter)
}
