// Package erp provides a typed HTTP client for the upstream ERP REST API.
// The upstream owns all state; this client only reads it.
package erp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/google/uuid"

	"github.com/storeadmin/backend/internal/domain/inventory"
	"github.com/storeadmin/backend/internal/domain/shared"
	"github.com/storeadmin/backend/internal/infrastructure/config"
)

// maxResponseSize is the maximum allowed response size from the upstream (10MB)
const maxResponseSize = 10 * 1024 * 1024

// Upstream endpoint paths consumed by the gateway
const (
	EndpointTransactions = "/api/inventory/transactions"
	EndpointProducts     = "/api/products"
	EndpointOrders       = "/api/orders"
	EndpointPurchases    = "/api/purchases"
	EndpointStores       = "/api/stores"
)

// Client calls the upstream ERP REST API. It performs no retries: the page
// cache in front of it keeps upstream pressure low, and retry policy is
// deliberately not this layer's concern.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewClient creates a new upstream client from configuration.
func NewClient(cfg config.UpstreamConfig) *Client {
	return &Client{
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
}

// NewClientWithHTTPClient creates a client with a custom http.Client.
// Useful for testing.
func NewClientWithHTTPClient(baseURL, apiKey string, httpClient *http.Client) *Client {
	return &Client{
		baseURL:    baseURL,
		apiKey:     apiKey,
		httpClient: httpClient,
	}
}

// FetchPage performs one GET against the upstream and returns the raw
// response body. Callers cache this raw body and decode it separately, so a
// cache hit and a fresh fetch flow through identical parsing.
//
// Error mapping:
//   - transport failure        -> shared.ErrUpstreamUnavailable
//   - context/client timeout   -> shared.ErrUpstreamTimeout
//   - HTTP 404                 -> shared.ErrNotFound
//   - other non-2xx            -> shared.ErrUpstreamRejected
//   - unreadable body          -> shared.ErrUpstreamPayload
func (c *Client) FetchPage(ctx context.Context, path string, query url.Values) ([]byte, error) {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("erp: failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if isTimeout(ctx, err) {
			return nil, fmt.Errorf("%w: %s: %v", shared.ErrUpstreamTimeout, path, err)
		}
		return nil, fmt.Errorf("%w: %s: %v", shared.ErrUpstreamUnavailable, path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read response: %v", shared.ErrUpstreamPayload, err)
	}

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, fmt.Errorf("%w: %s", shared.ErrNotFound, path)
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return nil, fmt.Errorf("%w: HTTP %d from %s", shared.ErrUpstreamRejected, resp.StatusCode, path)
	}

	return body, nil
}

// isTimeout reports whether a transport error was a deadline problem rather
// than a connectivity one.
func isTimeout(ctx context.Context, err error) bool {
	if errors.Is(err, context.DeadlineExceeded) || ctx.Err() == context.DeadlineExceeded {
		return true
	}
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return urlErr.Timeout()
	}
	return false
}

// decodeEnvelope unwraps the upstream response envelope, mapping a failed or
// malformed envelope to the appropriate sentinel.
func decodeEnvelope(body []byte) (*envelope, error) {
	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("%w: failed to parse envelope: %v", shared.ErrUpstreamPayload, err)
	}
	if !env.Success {
		if env.Error != nil {
			return nil, fmt.Errorf("%w: %s - %s", shared.ErrUpstreamRejected, env.Error.Code, env.Error.Message)
		}
		return nil, fmt.Errorf("%w: envelope reports failure without detail", shared.ErrUpstreamRejected)
	}
	return &env, nil
}

// ParseMeta decodes only the pagination block of a page body.
func ParseMeta(body []byte) (*Meta, error) {
	env, err := decodeEnvelope(body)
	if err != nil {
		return nil, err
	}
	if env.Meta == nil {
		return nil, fmt.Errorf("%w: envelope missing pagination meta", shared.ErrUpstreamPayload)
	}
	return env.Meta, nil
}

// ParseTransactions decodes an inventory transactions page body.
func ParseTransactions(body []byte) ([]inventory.TransactionRecord, *Meta, error) {
	env, err := decodeEnvelope(body)
	if err != nil {
		return nil, nil, err
	}
	var records []inventory.TransactionRecord
	if err := json.Unmarshal(env.Data, &records); err != nil {
		return nil, nil, fmt.Errorf("%w: failed to parse transactions: %v", shared.ErrUpstreamPayload, err)
	}
	return records, env.Meta, nil
}

// ParseProducts decodes a product catalog page body.
func ParseProducts(body []byte) ([]Product, *Meta, error) {
	env, err := decodeEnvelope(body)
	if err != nil {
		return nil, nil, err
	}
	var products []Product
	if err := json.Unmarshal(env.Data, &products); err != nil {
		return nil, nil, fmt.Errorf("%w: failed to parse products: %v", shared.ErrUpstreamPayload, err)
	}
	return products, env.Meta, nil
}

// ParseOrders decodes a sales order page body.
func ParseOrders(body []byte) ([]Order, *Meta, error) {
	env, err := decodeEnvelope(body)
	if err != nil {
		return nil, nil, err
	}
	var orders []Order
	if err := json.Unmarshal(env.Data, &orders); err != nil {
		return nil, nil, fmt.Errorf("%w: failed to parse orders: %v", shared.ErrUpstreamPayload, err)
	}
	return orders, env.Meta, nil
}

// ParseOrder decodes a single order detail body.
func ParseOrder(body []byte) (*Order, error) {
	env, err := decodeEnvelope(body)
	if err != nil {
		return nil, err
	}
	var order Order
	if err := json.Unmarshal(env.Data, &order); err != nil {
		return nil, fmt.Errorf("%w: failed to parse order: %v", shared.ErrUpstreamPayload, err)
	}
	return &order, nil
}

// ParsePurchases decodes a purchase page body.
func ParsePurchases(body []byte) ([]Purchase, *Meta, error) {
	env, err := decodeEnvelope(body)
	if err != nil {
		return nil, nil, err
	}
	var purchases []Purchase
	if err := json.Unmarshal(env.Data, &purchases); err != nil {
		return nil, nil, fmt.Errorf("%w: failed to parse purchases: %v", shared.ErrUpstreamPayload, err)
	}
	return purchases, env.Meta, nil
}

// ParsePurchase decodes a single purchase detail body.
func ParsePurchase(body []byte) (*Purchase, error) {
	env, err := decodeEnvelope(body)
	if err != nil {
		return nil, err
	}
	var purchase Purchase
	if err := json.Unmarshal(env.Data, &purchase); err != nil {
		return nil, fmt.Errorf("%w: failed to parse purchase: %v", shared.ErrUpstreamPayload, err)
	}
	return &purchase, nil
}

// ParseStores decodes a store directory page body.
func ParseStores(body []byte) ([]Store, *Meta, error) {
	env, err := decodeEnvelope(body)
	if err != nil {
		return nil, nil, err
	}
	var stores []Store
	if err := json.Unmarshal(env.Data, &stores); err != nil {
		return nil, nil, fmt.Errorf("%w: failed to parse stores: %v", shared.ErrUpstreamPayload, err)
	}
	return stores, env.Meta, nil
}
