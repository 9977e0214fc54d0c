package rewrite

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type stubSource struct {
	mu       sync.Mutex
	mappings []Replacement
	err      error
	calls    int
}

func (s *stubSource) Fetch(context.Context) ([]Replacement, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.mappings, nil
}

func (s *stubSource) set(mappings []Replacement, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mappings = mappings
	s.err = err
}

func newTestRewriter(source Source, ttl time.Duration) (*Rewriter, *time.Time) {
	clock := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	r := NewRewriter(Config{TTL: ttl}, source, slog.New(slog.NewTextHandler(io.Discard, nil)))
	r.now = func() time.Time { return clock }
	return r, &clock
}

func TestApplyFollowsChains(t *testing.T) {
	mappings := []Replacement{{Old: "b", New: "c"}, {Old: "a", New: "b"}}
	require.Equal(t, "c c", Apply("a b", mappings, 10))
	require.Equal(t, "b c", Apply("a b", mappings, 1))
}

func TestApplyStopsAtMaxDepth(t *testing.T) {
	mappings := []Replacement{{Old: "x", New: "xx"}}
	require.Equal(t, "xxxx", Apply("x", mappings, 2))
}

func TestApplySkipsEmptyKeys(t *testing.T) {
	require.Equal(t, "abc", Apply("abc", []Replacement{{Old: "", New: "!"}}, 10))
}

func TestApplyKeepsDocumentOrder(t *testing.T) {
	mappings := []Replacement{{Old: "panel", New: "sidebar"}, {Old: "panel_a1", New: "never"}}
	require.Equal(t, "sidebar_a1", Apply("panel_a1", mappings, 10))
}

func TestRewriterCachesForTTL(t *testing.T) {
	source := &stubSource{mappings: []Replacement{{Old: "old", New: "new"}}}
	r, clock := newTestRewriter(source, time.Minute)
	ctx := context.Background()

	out, err := r.Rewrite(ctx, "old text")
	require.NoError(t, err)
	require.Equal(t, "new text", out)

	source.set([]Replacement{{Old: "old", New: "newer"}}, nil)
	out, err = r.Rewrite(ctx, "old text")
	require.NoError(t, err)
	require.Equal(t, "new text", out)
	require.Equal(t, 1, source.calls)

	*clock = clock.Add(time.Minute)
	out, err = r.Rewrite(ctx, "old text")
	require.NoError(t, err)
	require.Equal(t, "newer text", out)
	require.Equal(t, 2, source.calls)
}

func TestRewriterKeepsPreviousMapOnFailure(t *testing.T) {
	source := &stubSource{mappings: []Replacement{{Old: "old", New: "new"}}}
	r, clock := newTestRewriter(source, time.Minute)
	ctx := context.Background()

	_, err := r.Rewrite(ctx, "old")
	require.NoError(t, err)

	source.set(nil, errors.New("offline"))
	*clock = clock.Add(2 * time.Minute)
	out, err := r.Rewrite(ctx, "old")
	require.NoError(t, err)
	require.Equal(t, "new", out)
}

func TestRewriterWithoutMapReturnsError(t *testing.T) {
	source := &stubSource{err: errors.New("offline")}
	r, _ := newTestRewriter(source, time.Minute)

	out, err := r.Rewrite(context.Background(), "old")
	require.Error(t, err)
	require.Equal(t, "old", out)
}

func TestRewriterBacksOffAfterFailedFetch(t *testing.T) {
	source := &stubSource{err: errors.New("offline")}
	r, clock := newTestRewriter(source, time.Minute)
	ctx := context.Background()

	for range 5 {
		out, err := r.Rewrite(ctx, "old")
		require.ErrorContains(t, err, "offline")
		require.Equal(t, "old", out)
	}
	require.Equal(t, 1, source.calls)

	source.set([]Replacement{{Old: "old", New: "new"}}, nil)
	*clock = clock.Add(DefaultRetryBackoff)
	out, err := r.Rewrite(ctx, "old")
	require.NoError(t, err)
	require.Equal(t, "new", out)
	require.Equal(t, 2, source.calls)
}

func TestRewriterBacksOffWhileServingStaleMap(t *testing.T) {
	source := &stubSource{mappings: []Replacement{{Old: "old", New: "new"}}}
	r, clock := newTestRewriter(source, time.Minute)
	ctx := context.Background()

	_, err := r.Rewrite(ctx, "old")
	require.NoError(t, err)

	source.set(nil, errors.New("offline"))
	*clock = clock.Add(2 * time.Minute)
	for range 3 {
		out, err := r.Rewrite(ctx, "old")
		require.NoError(t, err)
		require.Equal(t, "new", out)
	}
	require.Equal(t, 2, source.calls)
}
