package faq

import (
	"context"
	"slices"
	"strings"
	"sync"
)

type record struct {
	entry     Entry
	embedding []float32
}

// Store keeps the ordered FAQ entries together with their question embeddings.
// Entry and embedding live in the same record, so they are added and removed as
// one unit. Scans take the read lock, mutations take the write lock, and the
// encoder is always called outside the lock.
type Store struct {
	encoder Encoder

	mu      sync.RWMutex
	records []*record
	byKey   map[string]*record
	dims    int
}

// NewStore constructs an empty store that embeds questions with encoder.
func NewStore(encoder Encoder) *Store {
	return &Store{
		encoder: encoder,
		byKey:   make(map[string]*record),
	}
}

// Add appends a new entry unless a question equal ignoring case already exists.
// It reports false without mutating anything for duplicates. Encoder failures
// are returned as errors and leave the store unchanged.
func (s *Store) Add(ctx context.Context, question, answer string) (bool, error) {
	key := foldQuestion(question)

	s.mu.RLock()
	_, exists := s.byKey[key]
	dims := s.dims
	s.mu.RUnlock()
	if exists {
		return false, nil
	}

	vectors, err := encodeAll(ctx, s.encoder, []string{question}, dims)
	if err != nil {
		return false, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	// another Add may have won the race while we were encoding
	if _, exists := s.byKey[key]; exists {
		return false, nil
	}
	if s.dims != 0 && len(vectors[0]) != s.dims {
		return false, ErrEncoderContract
	}
	rec := &record{
		entry:     Entry{Question: question, Answer: answer},
		embedding: vectors[0],
	}
	s.records = append(s.records, rec)
	s.byKey[key] = rec
	s.dims = len(rec.embedding)
	return true, nil
}

// Update replaces the answer of the matching entry. The embedding is kept
// because it depends on the question only.
func (s *Store) Update(question, newAnswer string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.byKey[foldQuestion(question)]
	if !ok {
		return false
	}
	rec.entry.Answer = newAnswer
	return true
}

// Remove deletes the matching entry and its embedding.
func (s *Store) Remove(question string) bool {
	key := foldQuestion(question)
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.byKey[key]
	if !ok {
		return false
	}
	delete(s.byKey, key)
	s.records = slices.DeleteFunc(s.records, func(r *record) bool { return r == rec })
	return true
}

// Load replaces the whole collection with entries, embedding every question
// again. Entries whose question repeats an earlier one ignoring case are
// skipped; the number skipped is returned. On error the store is unchanged.
func (s *Store) Load(ctx context.Context, entries []Entry) (int, error) {
	unique := make([]Entry, 0, len(entries))
	seen := make(map[string]struct{}, len(entries))
	for _, entry := range entries {
		key := foldQuestion(entry.Question)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		unique = append(unique, entry)
	}

	questions := make([]string, len(unique))
	for i, entry := range unique {
		questions[i] = entry.Question
	}
	vectors, err := encodeAll(ctx, s.encoder, questions, 0)
	if err != nil {
		return 0, err
	}

	records := make([]*record, len(unique))
	byKey := make(map[string]*record, len(unique))
	dims := 0
	for i, entry := range unique {
		rec := &record{entry: entry, embedding: vectors[i]}
		records[i] = rec
		byKey[foldQuestion(entry.Question)] = rec
		dims = len(rec.embedding)
	}

	s.mu.Lock()
	s.records = records
	s.byKey = byKey
	s.dims = dims
	s.mu.Unlock()
	return len(entries) - len(unique), nil
}

// Search returns the entry most similar to query when its score strictly
// exceeds threshold.
func (s *Store) Search(query []float32, threshold float64) Match {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return bestMatch(s.records, query, threshold)
}

// Entries returns a copy of the entries in insertion order.
func (s *Store) Entries() []Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Entry, len(s.records))
	for i, rec := range s.records {
		out[i] = rec.entry
	}
	return out
}

// Snapshot returns copies of every entry with its embedding, in order.
func (s *Store) Snapshot() []Record {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Record, len(s.records))
	for i, rec := range s.records {
		out[i] = Record{Entry: rec.entry, Embedding: slices.Clone(rec.embedding)}
	}
	return out
}

// Embedding returns a copy of the stored vector for question.
func (s *Store) Embedding(question string) ([]float32, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.byKey[foldQuestion(question)]
	if !ok {
		return nil, false
	}
	return slices.Clone(rec.embedding), true
}

// Suggest lists questions containing query ignoring case, in store order.
// A limit of zero or less returns every match.
func (s *Store) Suggest(query string, limit int) []string {
	needle := strings.ToLower(query)
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []string
	for _, rec := range s.records {
		if limit > 0 && len(out) >= limit {
			break
		}
		if strings.Contains(strings.ToLower(rec.entry.Question), needle) {
			out = append(out, rec.entry.Question)
		}
	}
	return out
}

// Len reports the number of stored entries.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}
