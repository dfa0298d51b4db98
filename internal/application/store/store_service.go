// Package store provides the store directory application service.
package store

import (
	"context"
	"net/url"
	"strconv"
	"time"

	"github.com/storeadmin/backend/internal/infrastructure/cache"
	"github.com/storeadmin/backend/internal/infrastructure/erp"
	"github.com/storeadmin/backend/internal/infrastructure/telemetry"
)

// StoreQuery carries the console's store directory paging
type StoreQuery struct {
	Page     int
	PageSize int
}

// StorePage is one page of the store directory, used by the console to
// populate filter dropdowns.
type StorePage struct {
	Items []erp.Store
	Meta  *erp.Meta
}

// StoreService serves the store directory from cached upstream pages
type StoreService struct {
	source      *erp.PageSource
	ttl         time.Duration
	pageSizeMax int
}

// NewStoreService creates a new StoreService
func NewStoreService(source *erp.PageSource, ttl time.Duration, pageSizeMax int) *StoreService {
	return &StoreService{
		source:      source,
		ttl:         ttl,
		pageSizeMax: pageSizeMax,
	}
}

// GetStores fetches one upstream store directory page.
func (s *StoreService) GetStores(ctx context.Context, q StoreQuery) (*StorePage, error) {
	page, pageSize := erp.NormalizePaging(q.Page, q.PageSize, s.pageSizeMax)

	query := url.Values{}
	query.Set("page", strconv.Itoa(page))
	query.Set("page_size", strconv.Itoa(pageSize))

	ctx, span := telemetry.StartServiceSpan(ctx, "store", "list")
	defer span.End()

	key := cache.PageKey(erp.EndpointStores, page, pageSize, "")
	body, err := s.source.GetPage(ctx, erp.EndpointStores, query, key, s.ttl)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	stores, meta, err := erp.ParseStores(body)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	return &StorePage{Items: stores, Meta: meta}, nil
}
