// Package report provides the dashboard summary service.
package report

import (
	"context"
	"net/url"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/storeadmin/backend/internal/infrastructure/cache"
	"github.com/storeadmin/backend/internal/infrastructure/erp"
	"github.com/storeadmin/backend/internal/infrastructure/logger"
	"github.com/storeadmin/backend/internal/infrastructure/telemetry"
)

// CountPanel is a dashboard tile backed by an upstream total count
type CountPanel struct {
	Total int64 `json:"total"`
}

// TradePanel is a dashboard tile for open orders or purchases. OpenValue is
// the summed amount of the pending records on the first upstream page; with
// more than one pending page it is a lower bound, which the console labels
// accordingly.
type TradePanel struct {
	Pending   int64           `json:"pending"`
	OpenValue decimal.Decimal `json:"open_value"`
}

// Summary is the dashboard payload. A nil panel means its upstream fetch
// failed; the failed panel names are listed in Degraded so the console can
// grey out tiles instead of blanking the whole page.
type Summary struct {
	Products  *CountPanel `json:"products,omitempty"`
	Stores    *CountPanel `json:"stores,omitempty"`
	Orders    *TradePanel `json:"orders,omitempty"`
	Purchases *TradePanel `json:"purchases,omitempty"`
	Degraded  []string    `json:"degraded,omitempty"`
}

// TTLs holds the cache TTL per panel family
type TTLs struct {
	Catalog time.Duration
	Trade   time.Duration
}

// DashboardService aggregates upstream pages into the dashboard summary.
// Each panel fetch fails independently.
type DashboardService struct {
	source *erp.PageSource
	ttls   TTLs
}

// NewDashboardService creates a new DashboardService
func NewDashboardService(source *erp.PageSource, ttls TTLs) *DashboardService {
	return &DashboardService{
		source: source,
		ttls:   ttls,
	}
}

// GetSummary builds the dashboard summary. It never returns an error for a
// single failed panel; only the failed panels are marked degraded.
func (s *DashboardService) GetSummary(ctx context.Context) *Summary {
	ctx, span := telemetry.StartServiceSpan(ctx, "report", "dashboard_summary")
	defer span.End()

	summary := &Summary{}

	if panel, err := s.countPanel(ctx, erp.EndpointProducts, s.ttls.Catalog); err != nil {
		s.degrade(ctx, summary, "products", err)
	} else {
		summary.Products = panel
	}

	if panel, err := s.countPanel(ctx, erp.EndpointStores, s.ttls.Catalog); err != nil {
		s.degrade(ctx, summary, "stores", err)
	} else {
		summary.Stores = panel
	}

	if panel, err := s.orderPanel(ctx); err != nil {
		s.degrade(ctx, summary, "orders", err)
	} else {
		summary.Orders = panel
	}

	if panel, err := s.purchasePanel(ctx); err != nil {
		s.degrade(ctx, summary, "purchases", err)
	} else {
		summary.Purchases = panel
	}

	return summary
}

func (s *DashboardService) degrade(ctx context.Context, summary *Summary, panel string, err error) {
	summary.Degraded = append(summary.Degraded, panel)
	logger.L(ctx).Warn("dashboard panel degraded",
		zap.String("panel", panel),
		zap.Error(err),
	)
}

// countPanel fetches the smallest possible page of an endpoint just for its
// pagination total.
func (s *DashboardService) countPanel(ctx context.Context, endpoint string, ttl time.Duration) (*CountPanel, error) {
	meta, _, err := s.fetchPage(ctx, endpoint, ttl, "", 1)
	if err != nil {
		return nil, err
	}
	return &CountPanel{Total: meta.Total}, nil
}

func (s *DashboardService) orderPanel(ctx context.Context) (*TradePanel, error) {
	meta, body, err := s.fetchPage(ctx, erp.EndpointOrders, s.ttls.Trade, "pending", erp.DefaultPageSize)
	if err != nil {
		return nil, err
	}
	orders, _, err := erp.ParseOrders(body)
	if err != nil {
		return nil, err
	}

	open := decimal.Zero
	for _, o := range orders {
		open = open.Add(o.TotalAmount)
	}
	return &TradePanel{Pending: meta.Total, OpenValue: open}, nil
}

func (s *DashboardService) purchasePanel(ctx context.Context) (*TradePanel, error) {
	meta, body, err := s.fetchPage(ctx, erp.EndpointPurchases, s.ttls.Trade, "pending", erp.DefaultPageSize)
	if err != nil {
		return nil, err
	}
	purchases, _, err := erp.ParsePurchases(body)
	if err != nil {
		return nil, err
	}

	open := decimal.Zero
	for _, p := range purchases {
		open = open.Add(p.TotalAmount)
	}
	return &TradePanel{Pending: meta.Total, OpenValue: open}, nil
}

// fetchPage fetches page 1 of an endpoint through the shared page cache and
// decodes just the envelope meta, returning the raw body for callers that
// also need the records.
func (s *DashboardService) fetchPage(ctx context.Context, endpoint string, ttl time.Duration, status string, pageSize int) (*erp.Meta, []byte, error) {
	query := url.Values{}
	query.Set("page", "1")
	query.Set("page_size", strconv.Itoa(pageSize))

	filter := ""
	if status != "" {
		query.Set("status", status)
		filter = "status=" + status
	}

	key := cache.PageKey(endpoint, 1, pageSize, filter)
	body, err := s.source.GetPage(ctx, endpoint, query, key, ttl)
	if err != nil {
		return nil, nil, err
	}

	meta, err := erp.ParseMeta(body)
	if err != nil {
		return nil, nil, err
	}
	return meta, body, nil
}
