package inventory

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/storeadmin/backend/internal/domain/inventory"
	"github.com/storeadmin/backend/internal/domain/shared"
	"github.com/storeadmin/backend/internal/infrastructure/cache"
	"github.com/storeadmin/backend/internal/infrastructure/erp"
)

const transactionsPage = `{
	"success": true,
	"data": [
		{
			"id": 101,
			"type": "transfer_out",
			"quantity": -5,
			"store": {"id": 1, "name": "Downtown"},
			"product": {"name": "Widget", "sku": "W-1"},
			"metadata": {"transfer_id": "tr-1", "to_store_name": "Uptown", "to_store_id": 2},
			"created_at": "2026-03-01T10:00:00Z"
		},
		{
			"id": 102,
			"type": "transfer_in",
			"quantity": 5,
			"store": {"id": 2, "name": "Uptown"},
			"product": {"name": "Widget", "sku": "W-1"},
			"metadata": {"transfer_id": "tr-1", "from_store_name": "Downtown", "from_store_id": 1},
			"created_at": "2026-03-01T10:00:05Z"
		},
		{
			"id": 103,
			"type": "addition",
			"quantity": 20,
			"store": {"id": 1, "name": "Downtown"},
			"created_at": "2026-03-02T09:00:00Z"
		}
	],
	"meta": {"page": 1, "page_size": 20, "total": 3, "total_pages": 1}
}`

func newActivityFixture(t *testing.T, handler http.HandlerFunc) (*ActivityService, *httptest.Server) {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client := erp.NewClientWithHTTPClient(server.URL, "test-key", server.Client())
	pageCache := cache.NewMemoryPageCache()
	t.Cleanup(func() { _ = pageCache.Close() })

	source := erp.NewPageSource(client, pageCache)
	return NewActivityService(source, 30*time.Second, 100), server
}

func TestActivityService_GetActivity_MergesTransferPair(t *testing.T) {
	service, _ := newActivityFixture(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, erp.EndpointTransactions, r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(transactionsPage))
	})

	result, err := service.GetActivity(context.Background(), ActivityQuery{Page: 1, PageSize: 20})
	require.NoError(t, err)
	require.Len(t, result.Items, 2)

	// Sorted by created_at descending: the addition first, then the merge.
	assert.Equal(t, domain.TransactionTypeAddition, result.Items[0].DisplayType())

	merged, ok := result.Items[1].(*domain.MergedTransfer)
	require.True(t, ok)
	assert.Equal(t, domain.TransactionTypeTransfer, merged.Type)
	assert.Equal(t, int64(5), merged.Quantity)
	assert.Equal(t, "Downtown", merged.FromStore.Name)
	assert.Equal(t, "Uptown", merged.ToStore.Name)
	assert.Negative(t, merged.ID)
	require.NotNil(t, merged.Original.Out)
	assert.Equal(t, int64(101), merged.Original.Out.ID)

	require.NotNil(t, result.Meta)
	assert.Equal(t, int64(3), result.Meta.Total)
}

func TestActivityService_GetActivity_ForwardsFilters(t *testing.T) {
	var gotQuery atomic.Value

	service, _ := newActivityFixture(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery.Store(r.URL.Query())
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(transactionsPage))
	})

	_, err := service.GetActivity(context.Background(), ActivityQuery{
		StoreID:  7,
		Type:     "transfer_out",
		Search:   "widget",
		Page:     2,
		PageSize: 50,
	})
	require.NoError(t, err)

	query := gotQuery.Load().(url.Values)
	assert.Equal(t, "7", query["store_id"][0])
	assert.Equal(t, "transfer_out", query["type"][0])
	assert.Equal(t, "widget", query["search"][0])
	assert.Equal(t, "2", query["page"][0])
	assert.Equal(t, "50", query["page_size"][0])
}

func TestActivityService_GetActivity_NormalizesPaging(t *testing.T) {
	var gotQuery atomic.Value

	service, _ := newActivityFixture(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery.Store(r.URL.Query())
		_, _ = w.Write([]byte(transactionsPage))
	})

	// Page size above the configured max clamps to it; page 0 becomes 1.
	_, err := service.GetActivity(context.Background(), ActivityQuery{Page: 0, PageSize: 5000})
	require.NoError(t, err)

	query := gotQuery.Load().(url.Values)
	assert.Equal(t, "1", query["page"][0])
	assert.Equal(t, "100", query["page_size"][0])
}

func TestActivityService_GetActivity_ServesSecondCallFromCache(t *testing.T) {
	var hits atomic.Int64

	service, _ := newActivityFixture(t, func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		_, _ = w.Write([]byte(transactionsPage))
	})

	first, err := service.GetActivity(context.Background(), ActivityQuery{Page: 1, PageSize: 20})
	require.NoError(t, err)

	second, err := service.GetActivity(context.Background(), ActivityQuery{Page: 1, PageSize: 20})
	require.NoError(t, err)

	assert.Equal(t, int64(1), hits.Load())
	assert.Equal(t, len(first.Items), len(second.Items))

	// Different filters are a different cache key, so the upstream is hit again.
	_, err = service.GetActivity(context.Background(), ActivityQuery{StoreID: 1, Page: 1, PageSize: 20})
	require.NoError(t, err)
	assert.Equal(t, int64(2), hits.Load())
}

func TestActivityService_GetActivity_UpstreamFailure(t *testing.T) {
	service, _ := newActivityFixture(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	_, err := service.GetActivity(context.Background(), ActivityQuery{Page: 1})
	require.Error(t, err)
	assert.ErrorIs(t, err, shared.ErrUpstreamRejected)
}

func TestActivityService_GetActivity_RejectedEnvelope(t *testing.T) {
	service, _ := newActivityFixture(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"success": false, "error": {"code": "ERR_DB", "message": "down"}}`))
	})

	_, err := service.GetActivity(context.Background(), ActivityQuery{Page: 1})
	require.Error(t, err)
	assert.ErrorIs(t, err, shared.ErrUpstreamRejected)
}

func TestCountTransferOutcomes(t *testing.T) {
	records := []domain.TransactionRecord{
		{ID: 1, Type: domain.TransactionTypeTransferOut},
		{ID: 2, Type: domain.TransactionTypeAddition},
	}
	items := []domain.DisplayRecord{
		&domain.MergedTransfer{Type: domain.TransactionTypeTransfer},
		&records[0],
		&records[1],
	}

	merged, orphans := countTransferOutcomes(items)
	assert.Equal(t, 1, merged)
	assert.Equal(t, 1, orphans)
}
