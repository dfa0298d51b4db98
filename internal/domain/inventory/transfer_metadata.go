package inventory

import (
	"bytes"
	"encoding/json"
	"io"
	"strconv"
)

// TransferMetadata is the transfer-related slice of a transaction's free-form
// metadata. All fields are optional; TransferID is the correlation key that
// links the two legs of one store-to-store transfer.
type TransferMetadata struct {
	TransferID    string
	FromStoreID   *int64
	FromStoreName string
	ToStoreID     *int64
	ToStoreName   string
}

// ExtractTransferMetadata parses a raw metadata payload into its
// transfer-related fields. Upstream delivers metadata either as a JSON object
// or as a JSON string wrapping another JSON document, so a string payload is
// unwrapped and parsed once more. Any malformed payload yields nil: metadata
// that cannot be read counts as metadata that was never sent.
func ExtractTransferMetadata(raw json.RawMessage) *TransferMetadata {
	payload, ok := decodeMetadataPayload(raw)
	if !ok {
		return nil
	}
	return &TransferMetadata{
		TransferID:    metadataString(payload, "transfer_id"),
		FromStoreID:   metadataStoreID(payload, "from_store_id"),
		FromStoreName: metadataName(payload, "from_store_name"),
		ToStoreID:     metadataStoreID(payload, "to_store_id"),
		ToStoreName:   metadataName(payload, "to_store_name"),
	}
}

func decodeMetadataPayload(raw json.RawMessage) (map[string]any, bool) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, false
	}

	// A leading quote means the object arrived JSON-encoded inside a string.
	if trimmed[0] == '"' {
		var inner string
		if err := json.Unmarshal(trimmed, &inner); err != nil {
			return nil, false
		}
		trimmed = []byte(inner)
	}

	decoder := json.NewDecoder(bytes.NewReader(trimmed))
	decoder.UseNumber()

	var payload map[string]any
	if err := decoder.Decode(&payload); err != nil {
		return nil, false
	}
	if _, err := decoder.Token(); err != io.EOF {
		return nil, false
	}
	return payload, true
}

// metadataString reads a correlation key that upstream writes as either a
// string or a bare number. Numbers keep their exact decimal form so that a
// numeric transfer_id pairs with the string spelling of the same value.
func metadataString(payload map[string]any, key string) string {
	switch v := payload[key].(type) {
	case string:
		return v
	case json.Number:
		return v.String()
	}
	return ""
}

func metadataName(payload map[string]any, key string) string {
	if v, ok := payload[key].(string); ok {
		return v
	}
	return ""
}

func metadataStoreID(payload map[string]any, key string) *int64 {
	switch v := payload[key].(type) {
	case json.Number:
		if id, err := strconv.ParseInt(v.String(), 10, 64); err == nil {
			return &id
		}
	case string:
		if id, err := strconv.ParseInt(v, 10, 64); err == nil {
			return &id
		}
	}
	return nil
}
