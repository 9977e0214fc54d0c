package rewrite

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"
)

// Defaults mirror the public class-name map refresh cadence.
const (
	DefaultTTL          = 15 * time.Minute
	DefaultMaxDepth     = 10
	DefaultRetryBackoff = 30 * time.Second
)

// Replacement swaps every occurrence of Old with New.
type Replacement struct {
	Old string
	New string
}

// Source fetches the replacement map in document order.
type Source interface {
	Fetch(ctx context.Context) ([]Replacement, error)
}

// Config tunes caching and chained replacements.
type Config struct {
	TTL      time.Duration
	MaxDepth int
	// RetryBackoff is how long a failed fetch is remembered before the source
	// is tried again.
	RetryBackoff time.Duration
}

// Rewriter applies a cached replacement map to answers.
type Rewriter struct {
	cfg    Config
	source Source
	logger *slog.Logger
	now    func() time.Time

	mu        sync.Mutex
	mappings  []Replacement
	fetchedAt time.Time
	loaded    bool
	retryAt   time.Time
	lastErr   error
}

// NewRewriter constructs a rewriter that refreshes from source once per TTL.
func NewRewriter(cfg Config, source Source, logger *slog.Logger) *Rewriter {
	if cfg.TTL <= 0 {
		cfg.TTL = DefaultTTL
	}
	if cfg.MaxDepth <= 0 {
		cfg.MaxDepth = DefaultMaxDepth
	}
	if cfg.RetryBackoff <= 0 {
		cfg.RetryBackoff = DefaultRetryBackoff
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Rewriter{
		cfg:    cfg,
		source: source,
		logger: logger.With("component", "rewrite"),
		now:    time.Now,
	}
}

// Rewrite applies the current map to text. When a refresh fails the previous
// map is used; with no map at all the error is returned.
func (r *Rewriter) Rewrite(ctx context.Context, text string) (string, error) {
	mappings, err := r.current(ctx)
	if err != nil {
		return text, err
	}
	return Apply(text, mappings, r.cfg.MaxDepth), nil
}

func (r *Rewriter) current(ctx context.Context) ([]Replacement, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := r.now()
	if r.loaded && now.Before(r.fetchedAt.Add(r.cfg.TTL)) {
		return r.mappings, nil
	}
	if now.Before(r.retryAt) {
		if r.loaded {
			return r.mappings, nil
		}
		return nil, fmt.Errorf("replacement map unavailable until %s: %w", r.retryAt.Format(time.RFC3339), r.lastErr)
	}
	mappings, err := r.source.Fetch(ctx)
	if err != nil {
		r.retryAt = r.now().Add(r.cfg.RetryBackoff)
		r.lastErr = err
		if !r.loaded {
			return nil, err
		}
		r.logger.Warn("replacement map refresh failed, keeping previous map", "error", err, "retry_at", r.retryAt)
		return r.mappings, nil
	}
	r.mappings = mappings
	r.fetchedAt = r.now()
	r.loaded = true
	r.retryAt = time.Time{}
	r.lastErr = nil
	r.logger.Debug("replacement map refreshed", "entries", len(mappings))
	return r.mappings, nil
}

// Apply runs passes over text until a pass changes nothing or maxDepth passes
// ran, so chains like a->b, b->c resolve. Empty Old values are skipped.
func Apply(text string, mappings []Replacement, maxDepth int) string {
	for range maxDepth {
		changed := false
		for _, m := range mappings {
			if m.Old == "" {
				continue
			}
			if next := strings.ReplaceAll(text, m.Old, m.New); next != text {
				text = next
				changed = true
			}
		}
		if !changed {
			break
		}
	}
	return text
}

