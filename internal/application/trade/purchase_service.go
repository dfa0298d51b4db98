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

// PurchasePage is one page of the purchase list
type PurchasePage struct {
	Items []erp.Purchase
	Meta  *erp.Meta
}

// PurchaseService serves purchase views from cached upstream pages
type PurchaseService struct {
	source      *erp.PageSource
	ttl         time.Duration
	pageSizeMax int
}

// NewPurchaseService creates a new PurchaseService
func NewPurchaseService(source *erp.PageSource, ttl time.Duration, pageSizeMax int) *PurchaseService {
	return &PurchaseService{
		source:      source,
		ttl:         ttl,
		pageSizeMax: pageSizeMax,
	}
}

// GetPurchases fetches one upstream purchase page.
func (s *PurchaseService) GetPurchases(ctx context.Context, q TradeQuery) (*PurchasePage, error) {
	page, pageSize := erp.NormalizePaging(q.Page, q.PageSize, s.pageSizeMax)

	query := url.Values{}
	query.Set("page", strconv.Itoa(page))
	query.Set("page_size", strconv.Itoa(pageSize))

	filter := ""
	if q.Status != "" {
		query.Set("status", q.Status)
		filter = "status=" + q.Status
	}

	ctx, span := telemetry.StartServiceSpan(ctx, "trade", "list_purchases",
		telemetry.WithAttribute(telemetry.SpanAttrPage, page),
	)
	defer span.End()

	key := cache.PageKey(erp.EndpointPurchases, page, pageSize, filter)
	body, err := s.source.GetPage(ctx, erp.EndpointPurchases, query, key, s.ttl)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	purchases, meta, err := erp.ParsePurchases(body)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	return &PurchasePage{Items: purchases, Meta: meta}, nil
}

// GetPurchase fetches one purchase detail.
func (s *PurchaseService) GetPurchase(ctx context.Context, id int64) (*erp.Purchase, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "trade", "get_purchase")
	defer span.End()

	path := erp.EndpointPurchases + "/" + strconv.FormatInt(id, 10)
	key := cache.PageKey(path, 0, 0, "")

	body, err := s.source.GetPage(ctx, path, nil, key, s.ttl)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	purchase, err := erp.ParsePurchase(body)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	return purchase, nil
}
