package repositories

import (
	"encoding/json"
	"fmt"
)

// EncodeDocument marshals doc to a JSON object and forces its IDField to id.
// Used by the JSON-backed stores.
func EncodeDocument(id string, doc interface{}) ([]byte, error) {
	raw, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to encode document: %w", err)
	}

	fields := map[string]json.RawMessage{}
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, fmt.Errorf("document must encode to a JSON object: %w", err)
	}

	idRaw, err := json.Marshal(id)
	if err != nil {
		return nil, err
	}
	fields[IDField] = idRaw

	return json.Marshal(fields)
}

// MatchesDocument reports whether the JSON object raw satisfies every
// equality condition in filter. Non-string field values never match.
func MatchesDocument(raw []byte, filter Filter) bool {
	if len(filter) == 0 {
		return true
	}

	fields := map[string]json.RawMessage{}
	if err := json.Unmarshal(raw, &fields); err != nil {
		return false
	}

	for key, want := range filter {
		value, ok := fields[key]
		if !ok {
			return false
		}
		var got string
		if err := json.Unmarshal(value, &got); err != nil || got != want {
			return false
		}
	}
	return true
}

// DecodeDocuments unmarshals a list of JSON objects into out, a pointer to a slice.
// An empty list decodes to an empty, non-nil slice.
func DecodeDocuments(docs [][]byte, out interface{}) error {
	raws := make([]json.RawMessage, 0, len(docs))
	for _, d := range docs {
		raws = append(raws, json.RawMessage(d))
	}

	data, err := json.Marshal(raws)
	if err != nil {
		return fmt.Errorf("failed to assemble documents: %w", err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to decode documents: %w", err)
	}
	return nil
}
