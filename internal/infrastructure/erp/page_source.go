package erp

import (
	"context"
	"errors"
	"net/url"
	"time"

	"go.uber.org/zap"

	"github.com/storeadmin/backend/internal/domain/shared"
	"github.com/storeadmin/backend/internal/infrastructure/cache"
	"github.com/storeadmin/backend/internal/infrastructure/logger"
	"github.com/storeadmin/backend/internal/infrastructure/telemetry"
)

// PageSource serves raw upstream pages through the page cache. It is the one
// place the caching policy lives: raw bodies in, raw bodies out, so a cache
// hit and a fresh fetch are indistinguishable to the caller.
type PageSource struct {
	client  *Client
	cache   cache.PageCache
	metrics *telemetry.GatewayMetrics
}

// NewPageSource creates a PageSource. metrics may be nil.
func NewPageSource(client *Client, pageCache cache.PageCache) *PageSource {
	return &PageSource{
		client: client,
		cache:  pageCache,
	}
}

// SetMetrics sets the gateway metrics collector
func (s *PageSource) SetMetrics(gm *telemetry.GatewayMetrics) {
	s.metrics = gm
}

// GetPage returns the raw body for one upstream page, from cache when a live
// entry exists, otherwise fetched and stored under the given TTL. Cache
// backend errors degrade to a fetch; they never fail the request.
func (s *PageSource) GetPage(ctx context.Context, path string, query url.Values, key string, ttl time.Duration) ([]byte, error) {
	if data, ok := s.lookupCache(ctx, key); ok {
		return data, nil
	}

	start := time.Now()
	body, err := s.client.FetchPage(ctx, path, query)
	if s.metrics != nil {
		s.metrics.RecordUpstreamRequest(ctx, path, 0, outcomeForError(err), time.Since(start))
	}
	if err != nil {
		return nil, err
	}

	if cacheErr := s.cache.Set(ctx, key, body, ttl); cacheErr != nil {
		logger.L(ctx).Warn("failed to cache upstream page",
			zap.String("key", key),
			zap.Error(cacheErr),
		)
	}

	return body, nil
}

func (s *PageSource) lookupCache(ctx context.Context, key string) ([]byte, bool) {
	data, ok, err := s.cache.Get(ctx, key)
	if err != nil {
		logger.L(ctx).Warn("page cache lookup failed, fetching upstream",
			zap.String("key", key),
			zap.Error(err),
		)
		return nil, false
	}

	if s.metrics != nil {
		outcome := telemetry.CacheOutcomeMiss
		if ok {
			outcome = telemetry.CacheOutcomeHit
		}
		s.metrics.RecordCacheLookup(ctx, s.cache.Backend(), outcome)
	}

	return data, ok
}

// DefaultPageSize is the page size used when the console does not ask for one
const DefaultPageSize = 20

// NormalizePaging clamps console paging input to sane upstream values.
// pageSizeMax <= 0 disables the upper clamp.
func NormalizePaging(page, pageSize, pageSizeMax int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	if pageSizeMax > 0 && pageSize > pageSizeMax {
		pageSize = pageSizeMax
	}
	return page, pageSize
}

// outcomeForError classifies a client error for metrics labeling
func outcomeForError(err error) telemetry.UpstreamOutcome {
	switch {
	case err == nil:
		return telemetry.UpstreamOutcomeSuccess
	case errors.Is(err, shared.ErrUpstreamTimeout):
		return telemetry.UpstreamOutcomeTimeout
	case errors.Is(err, shared.ErrUpstreamUnavailable):
		return telemetry.UpstreamOutcomeUnavailable
	case errors.Is(err, shared.ErrUpstreamPayload):
		return telemetry.UpstreamOutcomePayload
	default:
		return telemetry.UpstreamOutcomeRejected
	}
}
