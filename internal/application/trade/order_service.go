// Package trade provides the sales order and purchase view services.
package trade

import (
	"context"
	"net/url"
	"strconv"
	"time"

	"github.com/storeadmin/backend/internal/infrastructure/cache"
	"github.com/storeadmin/backend/internal/infrastructure/erp"
	"github.com/storeadmin/backend/internal/infrastructure/telemetry"
)

// TradeQuery carries the console's order/purchase list filters
type TradeQuery struct {
	Status   string
	Page     int
	PageSize int
}

// OrderPage is one page of the sales order list
type OrderPage struct {
	Items []erp.Order
	Meta  *erp.Meta
}

// OrderService serves sales order views from cached upstream pages
type OrderService struct {
	source      *erp.PageSource
	ttl         time.Duration
	pageSizeMax int
}

// NewOrderService creates a new OrderService
func NewOrderService(source *erp.PageSource, ttl time.Duration, pageSizeMax int) *OrderService {
	return &OrderService{
		source:      source,
		ttl:         ttl,
		pageSizeMax: pageSizeMax,
	}
}

// GetOrders fetches one upstream sales order page.
func (s *OrderService) GetOrders(ctx context.Context, q TradeQuery) (*OrderPage, error) {
	page, pageSize := erp.NormalizePaging(q.Page, q.PageSize, s.pageSizeMax)

	query := url.Values{}
	query.Set("page", strconv.Itoa(page))
	query.Set("page_size", strconv.Itoa(pageSize))

	filter := ""
	if q.Status != "" {
		query.Set("status", q.Status)
		filter = "status=" + q.Status
	}

	ctx, span := telemetry.StartServiceSpan(ctx, "trade", "list_orders",
		telemetry.WithAttribute(telemetry.SpanAttrPage, page),
	)
	defer span.End()

	key := cache.PageKey(erp.EndpointOrders, page, pageSize, filter)
	body, err := s.source.GetPage(ctx, erp.EndpointOrders, query, key, s.ttl)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	orders, meta, err := erp.ParseOrders(body)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	return &OrderPage{Items: orders, Meta: meta}, nil
}

// GetOrder fetches one sales order detail. An upstream 404 surfaces as
// shared.ErrNotFound for the handler to map.
func (s *OrderService) GetOrder(ctx context.Context, id int64) (*erp.Order, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "trade", "get_order")
	defer span.End()

	path := erp.EndpointOrders + "/" + strconv.FormatInt(id, 10)
	key := cache.PageKey(path, 0, 0, "")

	body, err := s.source.GetPage(ctx, path, nil, key, s.ttl)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	order, err := erp.ParseOrder(body)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	return order, nil
}
