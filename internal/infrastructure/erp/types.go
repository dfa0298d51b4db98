package erp

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// Meta is the pagination block of an upstream envelope. It is passed through
// to the console untouched.
type Meta struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
}

// envelope is the upstream response wrapper. Data stays raw until the caller
// knows which payload shape to expect.
type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *apiError       `json:"error"`
	Meta    *Meta           `json:"meta"`
}

// apiError is the error block of a failed upstream envelope
type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Product is one catalog entry as supplied by the upstream ERP
type Product struct {
	ID            int64           `json:"id"`
	Name          string          `json:"name"`
	SKU           string          `json:"sku"`
	Category      string          `json:"category,omitempty"`
	Price         decimal.Decimal `json:"price"`
	StockQuantity int64           `json:"stock_quantity"`
	IsActive      bool            `json:"is_active"`
	CreatedAt     string          `json:"created_at,omitempty"`
}

// OrderItem is one line of a sales order or purchase
type OrderItem struct {
	ProductName string          `json:"product_name"`
	SKU         string          `json:"sku,omitempty"`
	Quantity    int64           `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
}

// Order is one sales order as supplied by the upstream ERP
type Order struct {
	ID           int64           `json:"id"`
	OrderNumber  string          `json:"order_number"`
	Status       string          `json:"status"`
	CustomerName string          `json:"customer_name,omitempty"`
	StoreID      *int64          `json:"store_id,omitempty"`
	TotalAmount  decimal.Decimal `json:"total_amount"`
	Items        []OrderItem     `json:"items,omitempty"`
	CreatedAt    string          `json:"created_at,omitempty"`
}

// Purchase is one supplier purchase as supplied by the upstream ERP
type Purchase struct {
	ID             int64           `json:"id"`
	PurchaseNumber string          `json:"purchase_number"`
	Status         string          `json:"status"`
	SupplierName   string          `json:"supplier_name,omitempty"`
	StoreID        *int64          `json:"store_id,omitempty"`
	TotalAmount    decimal.Decimal `json:"total_amount"`
	Items          []OrderItem     `json:"items,omitempty"`
	CreatedAt      string          `json:"created_at,omitempty"`
}

// Store is one store as supplied by the upstream ERP
type Store struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Address  string `json:"address,omitempty"`
	Phone    string `json:"phone,omitempty"`
	IsActive bool   `json:"is_active"`
}
