package inventory

import (
	"encoding/json"
	"sort"
	"time"
)

// UnknownStoreName is the placeholder shown when neither metadata nor the
// leg's store reference yields a store name.
const UnknownStoreName = "unknown store"

// StoreEndpoint is one side of a merged transfer. ID stays null when no
// metadata id and no relational store reference resolved it; Name always
// resolves, to UnknownStoreName in the worst case.
type StoreEndpoint struct {
	ID   *int64 `json:"id"`
	Name string `json:"name"`
}

// TransferLegs retains the two source records of a merged transfer for
// detail rendering, e.g. showing each side's post-transaction stock level.
type TransferLegs struct {
	Out *TransactionRecord `json:"out"`
	In  *TransactionRecord `json:"in"`
}

// MergedTransfer is the synthetic display record produced when both legs of
// a transfer were found in the same page. It is view-only: it is rebuilt on
// every reconciliation and never written back to any store.
type MergedTransfer struct {
	ID        int64           `json:"id"`
	Type      TransactionType `json:"type"`
	Quantity  int64           `json:"quantity"`
	Product   *ProductRef     `json:"product,omitempty"`
	FromStore StoreEndpoint   `json:"from_store"`
	ToStore   StoreEndpoint   `json:"to_store"`
	CreatedAt string          `json:"created_at,omitempty"`
	User      *UserRef        `json:"user,omitempty"`
	Notes     string          `json:"notes,omitempty"`
	Metadata  json.RawMessage `json:"metadata,omitempty"`
	Original  TransferLegs    `json:"_original"`
}

// DisplayType implements DisplayRecord
func (m *MergedTransfer) DisplayType() TransactionType {
	return m.Type
}

// CreatedTime implements DisplayRecord
func (m *MergedTransfer) CreatedTime() time.Time {
	return parseCreatedAt(m.CreatedAt)
}

// pendingTransfer accumulates the legs seen for one transfer id. At most one
// leg per direction; a later leg of the same direction overwrites the
// earlier one.
type pendingTransfer struct {
	out     *TransactionRecord
	outMeta *TransferMetadata
	in      *TransactionRecord
	inMeta  *TransferMetadata
}

// Reconcile pairs transfer_out/transfer_in records that share a transfer_id
// and merges each pair into a single synthetic transfer record. Everything
// else, including transfer legs whose metadata yields no transfer_id and
// legs whose counterpart never arrived (split across pagination), passes
// through unchanged. The result is sorted by created_at descending, with
// undated records last.
//
// The function is pure and total: malformed metadata never aborts the
// transform, it only prevents the affected record from merging. Output is
// deterministic for a given input, including the merged records' synthetic
// ids, which derive from the two leg ids.
func Reconcile(records []TransactionRecord) []DisplayRecord {
	display := make([]DisplayRecord, 0, len(records))
	pending := make(map[string]*pendingTransfer)
	var pendingOrder []string

	for i := range records {
		record := &records[i]
		if !record.Type.IsTransferLeg() {
			display = append(display, record)
			continue
		}

		meta := ExtractTransferMetadata(record.Metadata)
		if meta == nil || meta.TransferID == "" {
			// Un-pairable leg: keep it visible rather than dropping it.
			display = append(display, record)
			continue
		}

		entry, ok := pending[meta.TransferID]
		if !ok {
			entry = &pendingTransfer{}
			pending[meta.TransferID] = entry
			pendingOrder = append(pendingOrder, meta.TransferID)
		}
		if record.Type == TransactionTypeTransferOut {
			entry.out, entry.outMeta = record, meta
		} else {
			entry.in, entry.inMeta = record, meta
		}
	}

	// Iterate in first-seen order so output does not depend on map order.
	for _, transferID := range pendingOrder {
		entry := pending[transferID]
		switch {
		case entry.out != nil && entry.in != nil:
			display = append(display, mergeTransfer(entry))
		case entry.out != nil:
			display = append(display, entry.out)
		default:
			display = append(display, entry.in)
		}
	}

	sort.SliceStable(display, func(i, j int) bool {
		return display[i].CreatedTime().After(display[j].CreatedTime())
	})

	return display
}

func mergeTransfer(entry *pendingTransfer) *MergedTransfer {
	quantity := entry.out.Quantity
	if quantity < 0 {
		quantity = -quantity
	}

	product := entry.out.Product
	if product == nil {
		product = entry.in.Product
	}

	// Both legs carried metadata (that is how they got here); endpoint
	// fields prefer the out leg's values where both are set.
	fromName := entry.outMeta.FromStoreName
	if fromName == "" {
		fromName = entry.inMeta.FromStoreName
	}
	fromID := entry.outMeta.FromStoreID
	if fromID == nil {
		fromID = entry.inMeta.FromStoreID
	}
	toName := entry.outMeta.ToStoreName
	if toName == "" {
		toName = entry.inMeta.ToStoreName
	}
	toID := entry.outMeta.ToStoreID
	if toID == nil {
		toID = entry.inMeta.ToStoreID
	}

	return &MergedTransfer{
		ID:        mergedRecordID(entry.out.ID, entry.in.ID),
		Type:      TransactionTypeTransfer,
		Quantity:  quantity,
		Product:   product,
		FromStore: resolveEndpoint(fromName, fromID, entry.out),
		ToStore:   resolveEndpoint(toName, toID, entry.in),
		CreatedAt: entry.out.CreatedAt,
		User:      entry.out.User,
		Notes:     entry.out.Notes,
		Metadata:  entry.out.Metadata,
		Original:  TransferLegs{Out: entry.out, In: entry.in},
	}
}

// resolveEndpoint fills one side of a merged transfer. The name and id chains
// are intentionally independent: upstream sometimes writes a metadata name
// without a metadata id, and the id then still resolves from the leg's
// relational store reference. That asymmetry is upstream data quality, not
// something to normalize away here.
func resolveEndpoint(metaName string, metaID *int64, leg *TransactionRecord) StoreEndpoint {
	endpoint := StoreEndpoint{ID: metaID, Name: metaName}
	if endpoint.Name == "" {
		if leg.Store != nil && leg.Store.Name != "" {
			endpoint.Name = leg.Store.Name
		} else {
			endpoint.Name = UnknownStoreName
		}
	}
	if endpoint.ID == nil && leg.Store != nil {
		id := leg.Store.ID
		endpoint.ID = &id
	}
	return endpoint
}

// mergedRecordID derives the synthetic id for a merged record from its two
// leg ids, FNV-1a style, negated. Real upstream ids are non-negative, so the
// synthetic range can never collide with them, and equal inputs always
// produce the same id.
func mergedRecordID(outID, inID int64) int64 {
	const prime = 1099511628211
	hash := uint64(14695981039346656037)
	hash ^= uint64(outID)
	hash *= prime
	hash ^= uint64(inID)
	hash *= prime

	id := int64(hash >> 2)
	if id == 0 {
		id = 1
	}
	return -id
}
