package faq

import "context"

// Repository persists the full ordered list of entries. Embeddings are never
// stored; they are recomputed on load.
type Repository interface {
	// LoadAll returns every stored entry in order. Missing storage is an empty list.
	LoadAll(ctx context.Context) ([]Entry, error)
	// SaveAll replaces the stored list with entries.
	SaveAll(ctx context.Context, entries []Entry) error
}
