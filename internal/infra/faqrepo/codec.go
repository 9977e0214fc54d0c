package faqrepo

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/yanqian/semantic-faq/internal/domain/faq"
)

// encodeEntries renders entries as an indented JSON array.
func encodeEntries(entries []faq.Entry) ([]byte, error) {
	if entries == nil {
		entries = []faq.Entry{}
	}
	payload, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode faq entries: %w", err)
	}
	return append(payload, '\n'), nil
}

// decodeEntries parses a JSON array of entries. Blank documents, null and the
// legacy empty object `{}` all decode to an empty collection.
func decodeEntries(data []byte) ([]faq.Entry, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) || bytes.Equal(trimmed, []byte("{}")) {
		return []faq.Entry{}, nil
	}
	var entries []faq.Entry
	if err := json.Unmarshal(trimmed, &entries); err != nil {
		return nil, fmt.Errorf("decode faq entries: %w", err)
	}
	if entries == nil {
		entries = []faq.Entry{}
	}
	return entries, nil
}
