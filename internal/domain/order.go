package domain

import (
	"bytes"
	"encoding/json"
)

// OrderID is the external order identifier as it appears in the input
// export. Opaque to the orchestrator and stores; the Atlas API requires
// it to be numeric.
type OrderID string

// Document is the raw JSON body returned by the API for one order.
type Document = json.RawMessage

type archiveEnvelope struct {
	Data Document `json:"data"`
}

// MarshalDocument wraps doc under a top-level "data" key and renders it
// the way archived records are stored: two-space indent, HTML escaping
// off so non-ASCII text and &<> survive as-is. Every storage backend
// persists this exact form.
func MarshalDocument(doc Document) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(archiveEnvelope{Data: doc}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
