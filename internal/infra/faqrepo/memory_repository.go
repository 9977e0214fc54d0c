package faqrepo

import (
	"context"
	"slices"
	"sync"

	"github.com/yanqian/semantic-faq/internal/domain/faq"
)

// MemoryRepository is an in-memory faq.Repository used for tests/dev.
type MemoryRepository struct {
	mu      sync.RWMutex
	entries []faq.Entry
}

// NewMemoryRepository constructs a repo seeded with entries.
func NewMemoryRepository(entries ...faq.Entry) *MemoryRepository {
	return &MemoryRepository{entries: slices.Clone(entries)}
}

// LoadAll implements faq.Repository.
func (r *MemoryRepository) LoadAll(context.Context) ([]faq.Entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.entries == nil {
		return []faq.Entry{}, nil
	}
	return slices.Clone(r.entries), nil
}

// SaveAll implements faq.Repository.
func (r *MemoryRepository) SaveAll(_ context.Context, entries []faq.Entry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = slices.Clone(entries)
	return nil
}

var _ faq.Repository = (*MemoryRepository)(nil)
