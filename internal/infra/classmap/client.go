package classmap

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/yanqian/semantic-faq/internal/domain/rewrite"
)

const defaultMappingURL = "https://raw.githubusercontent.com/fedeericodl/discord-update-classnames/refs/heads/data/classNamesMap.json"

// Client downloads a JSON object of old -> new class names.
type Client struct {
	url        string
	httpClient *http.Client
}

// NewClient builds a mapping client for url.
func NewClient(url string) *Client {
	url = strings.TrimSpace(url)
	if url == "" {
		url = defaultMappingURL
	}
	return &Client{
		url: url,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// Fetch retrieves the map, keeping the document's key order.
func (c *Client) Fetch(ctx context.Context) ([]rewrite.Replacement, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, fmt.Errorf("build mapping request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("mapping request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		return nil, fmt.Errorf("mapping request error: status=%d body=%s", resp.StatusCode, string(payload))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read mapping response: %w", err)
	}
	return decodeOrdered(body)
}

// decodeOrdered walks the tokens of a flat JSON object of strings, since
// decoding into a map would lose the order the replacements must run in.
func decodeOrdered(body []byte) ([]rewrite.Replacement, error) {
	dec := json.NewDecoder(bytes.NewReader(body))
	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("decode mapping: %w", err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, errors.New("decode mapping: expected a JSON object")
	}
	var out []rewrite.Replacement
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("decode mapping key: %w", err)
		}
		key, _ := keyTok.(string)
		var value string
		if err := dec.Decode(&value); err != nil {
			return nil, fmt.Errorf("decode mapping value for %q: %w", key, err)
		}
		out = append(out, rewrite.Replacement{Old: key, New: value})
	}
	if _, err := dec.Token(); err != nil {
		return nil, fmt.Errorf("decode mapping: %w", err)
	}
	return out, nil
}

var _ rewrite.Source = (*Client)(nil)
