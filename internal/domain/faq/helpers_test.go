package faq

import (
	"context"
	"io"
	"log/slog"
	"slices"
	"strings"
	"sync"
)

// wordEncoder is a bag-of-words encoder with one dimension per distinct word,
// so test similarities are exact and collision free.
type wordEncoder struct {
	mu    sync.Mutex
	dims  int
	vocab map[string]int
	calls int
	texts []string
	err   error
}

func newWordEncoder() *wordEncoder {
	return &wordEncoder{dims: 64, vocab: make(map[string]int)}
}

func (e *wordEncoder) Encode(_ context.Context, texts []string) ([][]float32, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.calls++
	e.texts = append(e.texts, texts...)
	if e.err != nil {
		return nil, e.err
	}
	out := make([][]float32, len(texts))
	for i, text := range texts {
		vec := make([]float32, e.dims)
		for _, word := range strings.Fields(NormalizeQuestion(text)) {
			idx, ok := e.vocab[word]
			if !ok {
				idx = len(e.vocab) % e.dims
				e.vocab[word] = idx
			}
			vec[idx]++
		}
		out[i] = vec
	}
	return out, nil
}

func (e *wordEncoder) callCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.calls
}

func (e *wordEncoder) fail(err error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.err = err
}

// fixedEncoder returns preset vectors keyed by text.
type fixedEncoder map[string][]float32

func (e fixedEncoder) Encode(_ context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, text := range texts {
		vec, ok := e[text]
		if !ok {
			vec = []float32{0, 0, 0}
		}
		out[i] = slices.Clone(vec)
	}
	return out, nil
}

type memoryRepo struct {
	mu      sync.Mutex
	entries []Entry
	saves   int
	loadErr error
	saveErr error
}

func (r *memoryRepo) LoadAll(context.Context) ([]Entry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.loadErr != nil {
		return nil, r.loadErr
	}
	return slices.Clone(r.entries), nil
}

func (r *memoryRepo) SaveAll(_ context.Context, entries []Entry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.saveErr != nil {
		return r.saveErr
	}
	r.saves++
	r.entries = slices.Clone(entries)
	return nil
}

func (r *memoryRepo) saveCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.saves
}

type rewriterFunc func(ctx context.Context, text string) (string, error)

func (f rewriterFunc) Rewrite(ctx context.Context, text string) (string, error) {
	return f(ctx, text)
}

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
