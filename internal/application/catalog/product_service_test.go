package catalog

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storeadmin/backend/internal/domain/shared"
	"github.com/storeadmin/backend/internal/infrastructure/cache"
	"github.com/storeadmin/backend/internal/infrastructure/erp"
)

const productsPage = `{
	"success": true,
	"data": [
		{
			"id": 1,
			"name": "Widget",
			"sku": "W-1",
			"category": "tools",
			"price": "19.99",
			"stock_quantity": 120,
			"is_active": true
		},
		{
			"id": 2,
			"name": "Gadget",
			"sku": "G-2",
			"price": "5.00",
			"stock_quantity": 0,
			"is_active": false
		}
	],
	"meta": {"page": 1, "page_size": 20, "total": 2, "total_pages": 1}
}`

func newProductService(t *testing.T, handler http.HandlerFunc) *ProductService {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client := erp.NewClientWithHTTPClient(server.URL, "test-key", server.Client())
	pageCache := cache.NewMemoryPageCache()
	t.Cleanup(func() { _ = pageCache.Close() })

	return NewProductService(erp.NewPageSource(client, pageCache), 5*time.Minute, 100)
}

func TestProductService_GetProducts(t *testing.T) {
	var gotSearch string
	service := newProductService(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, erp.EndpointProducts, r.URL.Path)
		gotSearch = r.URL.Query().Get("search")
		_, _ = w.Write([]byte(productsPage))
	})

	result, err := service.GetProducts(context.Background(), ProductQuery{Search: "widget", Page: 1, PageSize: 20})
	require.NoError(t, err)

	assert.Equal(t, "widget", gotSearch)
	require.Len(t, result.Items, 2)
	assert.Equal(t, "W-1", result.Items[0].SKU)
	assert.True(t, result.Items[0].Price.Equal(decimal.RequireFromString("19.99")))
	assert.False(t, result.Items[1].IsActive)
	require.NotNil(t, result.Meta)
	assert.Equal(t, int64(2), result.Meta.Total)
}

func TestProductService_GetProducts_BadPayload(t *testing.T) {
	service := newProductService(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"success": true, "data": "not-a-list"}`))
	})

	_, err := service.GetProducts(context.Background(), ProductQuery{Page: 1})
	require.Error(t, err)
	assert.ErrorIs(t, err, shared.ErrUpstreamPayload)
}
