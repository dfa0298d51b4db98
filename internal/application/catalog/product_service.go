// Package catalog provides the product directory application service.
package catalog

import (
	"context"
	"net/url"
	"strconv"
	"time"

	"github.com/storeadmin/backend/internal/infrastructure/cache"
	"github.com/storeadmin/backend/internal/infrastructure/erp"
	"github.com/storeadmin/backend/internal/infrastructure/telemetry"
)

// ProductQuery carries the console's product directory filters
type ProductQuery struct {
	Search   string
	Page     int
	PageSize int
}

// ProductPage is one page of the product directory
type ProductPage struct {
	Items []erp.Product
	Meta  *erp.Meta
}

// ProductService serves the product directory from cached upstream pages
type ProductService struct {
	source      *erp.PageSource
	ttl         time.Duration
	pageSizeMax int
}

// NewProductService creates a new ProductService
func NewProductService(source *erp.PageSource, ttl time.Duration, pageSizeMax int) *ProductService {
	return &ProductService{
		source:      source,
		ttl:         ttl,
		pageSizeMax: pageSizeMax,
	}
}

// GetProducts fetches one upstream catalog page.
func (s *ProductService) GetProducts(ctx context.Context, q ProductQuery) (*ProductPage, error) {
	page, pageSize := erp.NormalizePaging(q.Page, q.PageSize, s.pageSizeMax)

	query := url.Values{}
	query.Set("page", strconv.Itoa(page))
	query.Set("page_size", strconv.Itoa(pageSize))

	filter := ""
	if q.Search != "" {
		query.Set("search", q.Search)
		filter = "search=" + q.Search
	}

	ctx, span := telemetry.StartServiceSpan(ctx, "catalog", "list_products",
		telemetry.WithAttribute(telemetry.SpanAttrPage, page),
	)
	defer span.End()

	key := cache.PageKey(erp.EndpointProducts, page, pageSize, filter)
	body, err := s.source.GetPage(ctx, erp.EndpointProducts, query, key, s.ttl)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	products, meta, err := erp.ParseProducts(body)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	return &ProductPage{Items: products, Meta: meta}, nil
}
