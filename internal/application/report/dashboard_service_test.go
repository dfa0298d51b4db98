package report

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storeadmin/backend/internal/infrastructure/cache"
	"github.com/storeadmin/backend/internal/infrastructure/erp"
)

func summaryFixture(t *testing.T, handler http.HandlerFunc) *DashboardService {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client := erp.NewClientWithHTTPClient(server.URL, "test-key", server.Client())
	pageCache := cache.NewMemoryPageCache()
	t.Cleanup(func() { _ = pageCache.Close() })

	return NewDashboardService(erp.NewPageSource(client, pageCache), TTLs{
		Catalog: 5 * time.Minute,
		Trade:   time.Minute,
	})
}

func upstreamFixture(w http.ResponseWriter, r *http.Request) {
	switch r.URL.Path {
	case erp.EndpointProducts:
		_, _ = w.Write([]byte(`{"success": true, "data": [], "meta": {"page": 1, "page_size": 1, "total": 42, "total_pages": 42}}`))
	case erp.EndpointStores:
		_, _ = w.Write([]byte(`{"success": true, "data": [], "meta": {"page": 1, "page_size": 1, "total": 3, "total_pages": 3}}`))
	case erp.EndpointOrders:
		_, _ = w.Write([]byte(`{
			"success": true,
			"data": [
				{"id": 1, "order_number": "SO-001", "status": "pending", "total_amount": "100.25"},
				{"id": 2, "order_number": "SO-002", "status": "pending", "total_amount": "49.75"}
			],
			"meta": {"page": 1, "page_size": 20, "total": 7, "total_pages": 1}
		}`))
	case erp.EndpointPurchases:
		_, _ = w.Write([]byte(`{
			"success": true,
			"data": [
				{"id": 9, "purchase_number": "PO-009", "status": "pending", "total_amount": "500.00"}
			],
			"meta": {"page": 1, "page_size": 20, "total": 2, "total_pages": 1}
		}`))
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func TestDashboardService_GetSummary(t *testing.T) {
	service := summaryFixture(t, upstreamFixture)

	summary := service.GetSummary(context.Background())

	require.NotNil(t, summary.Products)
	assert.Equal(t, int64(42), summary.Products.Total)
	require.NotNil(t, summary.Stores)
	assert.Equal(t, int64(3), summary.Stores.Total)

	require.NotNil(t, summary.Orders)
	assert.Equal(t, int64(7), summary.Orders.Pending)
	assert.True(t, summary.Orders.OpenValue.Equal(decimal.RequireFromString("150.00")))

	require.NotNil(t, summary.Purchases)
	assert.Equal(t, int64(2), summary.Purchases.Pending)
	assert.True(t, summary.Purchases.OpenValue.Equal(decimal.RequireFromString("500.00")))

	assert.Empty(t, summary.Degraded)
}

func TestDashboardService_GetSummary_PanelDegrades(t *testing.T) {
	service := summaryFixture(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == erp.EndpointOrders {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		upstreamFixture(w, r)
	})

	summary := service.GetSummary(context.Background())

	assert.Nil(t, summary.Orders)
	assert.Equal(t, []string{"orders"}, summary.Degraded)

	// The other panels still come back.
	require.NotNil(t, summary.Products)
	require.NotNil(t, summary.Stores)
	require.NotNil(t, summary.Purchases)
}

func TestDashboardService_GetSummary_AllPanelsDegrade(t *testing.T) {
	service := summaryFixture(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	summary := service.GetSummary(context.Background())

	assert.Nil(t, summary.Products)
	assert.Nil(t, summary.Stores)
	assert.Nil(t, summary.Orders)
	assert.Nil(t, summary.Purchases)
	assert.ElementsMatch(t, []string{"products", "stores", "orders", "purchases"}, summary.Degraded)
}

func TestDashboardService_GetSummary_MissingMeta(t *testing.T) {
	service := summaryFixture(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == erp.EndpointProducts {
			_, _ = w.Write([]byte(`{"success": true, "data": []}`))
			return
		}
		upstreamFixture(w, r)
	})

	summary := service.GetSummary(context.Background())

	assert.Nil(t, summary.Products)
	assert.Contains(t, summary.Degraded, "products")
}
