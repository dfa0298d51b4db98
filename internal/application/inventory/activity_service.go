// Package inventory provides the reconciled activity feed application service.
package inventory

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/storeadmin/backend/internal/domain/inventory"
	"github.com/storeadmin/backend/internal/infrastructure/cache"
	"github.com/storeadmin/backend/internal/infrastructure/erp"
	"github.com/storeadmin/backend/internal/infrastructure/telemetry"
)

// ActivityQuery carries the console's activity feed filters. Filters are
// forwarded to the upstream verbatim; pagination is upstream pagination.
type ActivityQuery struct {
	StoreID  int64
	Type     string
	Search   string
	Page     int
	PageSize int
}

// ActivityPage is one page of the reconciled activity feed. Items mix
// passthrough transaction records and synthetic merged transfers; Meta is the
// upstream page's pagination, untouched.
type ActivityPage struct {
	Items []inventory.DisplayRecord
	Meta  *erp.Meta
}

// ActivityService serves the reconciled activity feed. Raw upstream pages
// flow through the page cache; the reconciliation transform runs on every
// request so merged output is never stored anywhere.
type ActivityService struct {
	source      *erp.PageSource
	ttl         time.Duration
	pageSizeMax int
	metrics     *telemetry.GatewayMetrics
}

// NewActivityService creates a new ActivityService
func NewActivityService(source *erp.PageSource, ttl time.Duration, pageSizeMax int) *ActivityService {
	return &ActivityService{
		source:      source,
		ttl:         ttl,
		pageSizeMax: pageSizeMax,
	}
}

// SetMetrics sets the gateway metrics collector
func (s *ActivityService) SetMetrics(gm *telemetry.GatewayMetrics) {
	s.metrics = gm
}

// GetActivity fetches one upstream transactions page and reconciles it.
func (s *ActivityService) GetActivity(ctx context.Context, q ActivityQuery) (*ActivityPage, error) {
	page, pageSize := erp.NormalizePaging(q.Page, q.PageSize, s.pageSizeMax)

	query := url.Values{}
	query.Set("page", strconv.Itoa(page))
	query.Set("page_size", strconv.Itoa(pageSize))

	filter := ""
	if q.StoreID > 0 {
		query.Set("store_id", strconv.FormatInt(q.StoreID, 10))
		filter += fmt.Sprintf("store_id=%d;", q.StoreID)
	}
	if q.Type != "" {
		query.Set("type", q.Type)
		filter += "type=" + q.Type + ";"
	}
	if q.Search != "" {
		query.Set("search", q.Search)
		filter += "search=" + q.Search + ";"
	}

	ctx, span := telemetry.StartServiceSpan(ctx, "activity", "list",
		telemetry.WithAttribute(telemetry.SpanAttrPage, page),
		telemetry.WithAttribute(telemetry.SpanAttrPageSize, pageSize),
	)
	defer span.End()

	key := cache.PageKey(erp.EndpointTransactions, page, pageSize, filter)
	body, err := s.source.GetPage(ctx, erp.EndpointTransactions, query, key, s.ttl)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	records, meta, err := erp.ParseTransactions(body)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	start := time.Now()
	items := inventory.Reconcile(records)

	merged, orphans := countTransferOutcomes(items)
	if s.metrics != nil {
		s.metrics.RecordReconcile(ctx, merged, orphans, time.Since(start))
	}
	telemetry.SetAttributes(span,
		telemetry.SpanAttrRecordCount, len(records),
		telemetry.SpanAttrMergedCount, merged,
		telemetry.SpanAttrOrphanCount, orphans,
	)

	return &ActivityPage{Items: items, Meta: meta}, nil
}

// countTransferOutcomes counts synthetic merges and passthrough transfer legs
// in one reconcile output.
func countTransferOutcomes(items []inventory.DisplayRecord) (merged, orphans int) {
	for _, item := range items {
		switch {
		case item.DisplayType() == inventory.TransactionTypeTransfer:
			merged++
		case item.DisplayType().IsTransferLeg():
			orphans++
		}
	}
	return merged, orphans
}
