package inventory

import (
	"encoding/json"
	"time"
)

// TransactionType represents the kind of inventory transaction reported by the upstream ERP
type TransactionType string

const (
	// TransactionTypeAddition represents stock added to a store (receiving, restock)
	TransactionTypeAddition TransactionType = "addition"
	// TransactionTypeReduction represents stock removed from a store (sale, shrinkage)
	TransactionTypeReduction TransactionType = "reduction"
	// TransactionTypeAdjustment represents a manual stock correction
	TransactionTypeAdjustment TransactionType = "adjustment"
	// TransactionTypeTransferOut represents the outgoing leg of a store-to-store transfer
	TransactionTypeTransferOut TransactionType = "transfer_out"
	// TransactionTypeTransferIn represents the incoming leg of a store-to-store transfer
	TransactionTypeTransferIn TransactionType = "transfer_in"
	// TransactionTypeTransferCancel represents a cancelled transfer
	TransactionTypeTransferCancel TransactionType = "transfer_cancel"
	// TransactionTypeTransfer is the synthetic display type carried by a merged
	// transfer record. It never occurs in upstream data.
	TransactionTypeTransfer TransactionType = "transfer"
)

// String returns the string representation of TransactionType
func (t TransactionType) String() string {
	return string(t)
}

// IsValid returns true if the type is one the upstream ERP emits
func (t TransactionType) IsValid() bool {
	switch t {
	case TransactionTypeAddition,
		TransactionTypeReduction,
		TransactionTypeAdjustment,
		TransactionTypeTransferOut,
		TransactionTypeTransferIn,
		TransactionTypeTransferCancel:
		return true
	}
	return false
}

// IsTransferLeg returns true for the two halves of a store-to-store transfer
func (t TransactionType) IsTransferLeg() bool {
	return t == TransactionTypeTransferOut || t == TransactionTypeTransferIn
}

// StoreRef identifies the store a transaction occurred at
type StoreRef struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// ProductRef identifies the product a transaction applies to
type ProductRef struct {
	Name string `json:"name"`
	SKU  string `json:"sku"`
}

// UserRef identifies the actor who performed a transaction
type UserRef struct {
	Name string `json:"name"`
}

// TransactionRecord is one inventory transaction as supplied by the upstream
// ERP. Records are treated as immutable: the reconciliation transform only
// ever reads them and passes them through or buffers them for pairing.
//
// Metadata is kept raw because upstream delivers it either as a structured
// object or as a JSON-encoded string; it is parsed exactly once, at the
// reconciliation boundary, and a failed parse counts as no metadata.
type TransactionRecord struct {
	ID             int64           `json:"id"`
	Type           TransactionType `json:"type"`
	Quantity       int64           `json:"quantity"`
	BeforeQuantity *int64          `json:"before_quantity,omitempty"`
	AfterQuantity  *int64          `json:"after_quantity,omitempty"`
	Store          *StoreRef       `json:"store,omitempty"`
	Product        *ProductRef     `json:"product,omitempty"`
	User           *UserRef        `json:"user,omitempty"`
	Notes          string          `json:"notes,omitempty"`
	Metadata       json.RawMessage `json:"metadata,omitempty"`
	CreatedAt      string          `json:"created_at,omitempty"`
}

// DisplayType implements DisplayRecord
func (r *TransactionRecord) DisplayType() TransactionType {
	return r.Type
}

// CreatedTime implements DisplayRecord
func (r *TransactionRecord) CreatedTime() time.Time {
	return parseCreatedAt(r.CreatedAt)
}

// DisplayRecord is one item of the reconciled activity feed: either a
// TransactionRecord passed through untouched or a MergedTransfer synthesized
// from two paired legs. The rendering side distinguishes the two purely by
// the "type" field of the serialized record.
type DisplayRecord interface {
	// DisplayType returns the transaction type shown to the console
	DisplayType() TransactionType
	// CreatedTime returns the parsed record timestamp used for ordering.
	// Records with a missing or unparseable timestamp report the zero time
	// and therefore sort after every dated record.
	CreatedTime() time.Time
}

// createdAtLayouts are the timestamp shapes observed in upstream data:
// RFC3339, plain datetime, and date-only.
var createdAtLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
}

func parseCreatedAt(value string) time.Time {
	if value == "" {
		return time.Time{}
	}
	for _, layout := range createdAtLayouts {
		if ts, err := time.Parse(layout, value); err == nil {
			return ts
		}
	}
	return time.Time{}
}
