package faqrepo

import (
	"context"
	"fmt"

	"github.com/valkey-io/valkey-go"

	"github.com/yanqian/semantic-faq/internal/domain/faq"
)

// ValkeyRepository persists the entries document under a single Valkey key.
type ValkeyRepository struct {
	client valkey.Client
	key    string
}

// NewValkeyRepository constructs a new repository backed by Valkey.
func NewValkeyRepository(client valkey.Client, key string) *ValkeyRepository {
	if key == "" {
		key = "faq:entries"
	}
	return &ValkeyRepository{client: client, key: key}
}

// LoadAll reads the document. A missing key yields an empty collection.
func (r *ValkeyRepository) LoadAll(ctx context.Context) ([]faq.Entry, error) {
	payload, err := r.client.Do(ctx, r.client.B().Get().Key(r.key).Build()).ToString()
	if err != nil {
		if valkey.IsValkeyNil(err) {
			return []faq.Entry{}, nil
		}
		return nil, fmt.Errorf("get %s: %w", r.key, err)
	}
	return decodeEntries([]byte(payload))
}

// SaveAll overwrites the document.
func (r *ValkeyRepository) SaveAll(ctx context.Context, entries []faq.Entry) error {
	payload, err := encodeEntries(entries)
	if err != nil {
		return err
	}
	cmd := r.client.B().Set().Key(r.key).Value(valkey.BinaryString(payload)).Build()
	if err := r.client.Do(ctx, cmd).Error(); err != nil {
		return fmt.Errorf("set %s: %w", r.key, err)
	}
	return nil
}

var _ faq.Repository = (*ValkeyRepository)(nil)
