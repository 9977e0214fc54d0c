package faq

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStoreRejectsCaseInsensitiveDuplicates(t *testing.T) {
	ctx := context.Background()
	store := NewStore(newWordEncoder())

	questions := []string{
		"How do I install the app?",
		"HOW DO I INSTALL THE APP?",
		"how do i install the app?",
		"Where are the docs?",
		"where ARE the docs?",
		"How do I install the app",
	}
	for _, q := range questions {
		_, err := store.Add(ctx, q, "answer")
		require.NoError(t, err)

		seen := map[string]bool{}
		for _, entry := range store.Entries() {
			key := strings.ToLower(entry.Question)
			require.False(t, seen[key], "duplicate question %q", entry.Question)
			seen[key] = true
		}
	}
	require.Equal(t, 3, store.Len())
}

func TestStoreAddDuplicateDoesNotMutate(t *testing.T) {
	ctx := context.Background()
	enc := newWordEncoder()
	store := NewStore(enc)

	ok, err := store.Add(ctx, "Reset password?", "Use the reset link.")
	require.NoError(t, err)
	require.True(t, ok)
	calls := enc.callCount()

	ok, err = store.Add(ctx, "RESET PASSWORD?", "Something else.")
	require.NoError(t, err)
	require.False(t, ok)
	require.Equal(t, calls, enc.callCount(), "duplicate must not be embedded")
	require.Equal(t, []Entry{{Question: "Reset password?", Answer: "Use the reset link."}}, store.Entries())
}

func TestStoreRecordsMatchTheirQuestions(t *testing.T) {
	ctx := context.Background()
	enc := newWordEncoder()
	store := NewStore(enc)

	for i := 0; i < 6; i++ {
		_, err := store.Add(ctx, fmt.Sprintf("question number %d about topic %d", i, i*7), fmt.Sprintf("answer %d", i))
		require.NoError(t, err)
	}
	require.True(t, store.Remove("question number 2 about topic 14"))
	require.True(t, store.Remove("QUESTION NUMBER 0 ABOUT TOPIC 0"))
	require.True(t, store.Update("question number 4 about topic 28", "changed"))
	_, err := store.Add(ctx, "a late question", "late")
	require.NoError(t, err)

	for _, rec := range store.Snapshot() {
		want, err := enc.Encode(ctx, []string{rec.Entry.Question})
		require.NoError(t, err)
		require.Equal(t, want[0], rec.Embedding, "embedding for %q", rec.Entry.Question)
	}
	require.Len(t, store.Snapshot(), len(store.Entries()))
}

func TestStoreRemoveTwice(t *testing.T) {
	ctx := context.Background()
	store := NewStore(newWordEncoder())
	_, err := store.Add(ctx, "Where are the docs?", "In the wiki.")
	require.NoError(t, err)

	require.True(t, store.Remove("where are the docs?"))
	require.False(t, store.Remove("where are the docs?"))
	require.Zero(t, store.Len())
	_, ok := store.Embedding("Where are the docs?")
	require.False(t, ok)
}

func TestStoreUpdateKeepsEmbedding(t *testing.T) {
	ctx := context.Background()
	enc := newWordEncoder()
	store := NewStore(enc)
	_, err := store.Add(ctx, "How do I install the app?", "Run the installer.")
	require.NoError(t, err)

	before, ok := store.Embedding("How do I install the app?")
	require.True(t, ok)
	calls := enc.callCount()

	require.True(t, store.Update("how do i install THE APP?", "Download it from the store."))
	after, ok := store.Embedding("How do I install the app?")
	require.True(t, ok)

	require.Equal(t, before, after)
	require.Equal(t, calls, enc.callCount())
	require.Equal(t, "Download it from the store.", store.Entries()[0].Answer)
	require.Equal(t, "How do I install the app?", store.Entries()[0].Question)
}

func TestStoreUpdateMissing(t *testing.T) {
	store := NewStore(newWordEncoder())
	require.False(t, store.Update("nothing here", "x"))
	require.Empty(t, store.Entries())
}

func TestStoreAddEncoderFailure(t *testing.T) {
	enc := newWordEncoder()
	boom := errors.New("model unavailable")
	enc.fail(boom)
	store := NewStore(enc)

	ok, err := store.Add(context.Background(), "q", "a")
	require.ErrorIs(t, err, boom)
	require.False(t, ok)
	require.Zero(t, store.Len())
}

func TestStoreAddRejectsDimensionChange(t *testing.T) {
	enc := fixedEncoder{
		"short": {1, 0},
		"long":  {1, 0, 0},
	}
	store := NewStore(enc)
	ok, err := store.Add(context.Background(), "short", "a")
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = store.Add(context.Background(), "long", "b")
	require.ErrorIs(t, err, ErrEncoderContract)
	require.False(t, ok)
	require.Equal(t, 1, store.Len())
}

func TestStoreLoadReembedsAndSkipsDuplicates(t *testing.T) {
	ctx := context.Background()
	enc := newWordEncoder()
	store := NewStore(enc)
	_, err := store.Add(ctx, "stale entry", "gone after load")
	require.NoError(t, err)

	skipped, err := store.Load(ctx, []Entry{
		{Question: "How do I install the app?", Answer: "Run the installer."},
		{Question: "Where are the docs?", Answer: "In the wiki."},
		{Question: "where are the DOCS?", Answer: "shadowed"},
	})
	require.NoError(t, err)
	require.Equal(t, 1, skipped)
	require.Equal(t, []Entry{
		{Question: "How do I install the app?", Answer: "Run the installer."},
		{Question: "Where are the docs?", Answer: "In the wiki."},
	}, store.Entries())

	enc.mu.Lock()
	loaded := enc.texts[len(enc.texts)-2:]
	enc.mu.Unlock()
	require.Equal(t, []string{"How do I install the app?", "Where are the docs?"}, loaded)
}

func TestStoreLoadFailureKeepsPreviousState(t *testing.T) {
	ctx := context.Background()
	enc := newWordEncoder()
	store := NewStore(enc)
	_, err := store.Add(ctx, "kept", "yes")
	require.NoError(t, err)

	enc.fail(errors.New("offline"))
	_, err = store.Load(ctx, []Entry{{Question: "new", Answer: "no"}})
	require.Error(t, err)
	require.Equal(t, []Entry{{Question: "kept", Answer: "yes"}}, store.Entries())
}

func TestStoreLoadEmpty(t *testing.T) {
	enc := newWordEncoder()
	store := NewStore(enc)
	skipped, err := store.Load(context.Background(), nil)
	require.NoError(t, err)
	require.Zero(t, skipped)
	require.Zero(t, enc.callCount())
	require.False(t, store.Search([]float32{1}, 0).Found)
}

func TestStoreSuggest(t *testing.T) {
	ctx := context.Background()
	store := NewStore(newWordEncoder())
	for _, q := range []string{"How do I install the app?", "Where are the docs?", "How do I uninstall?"} {
		_, err := store.Add(ctx, q, "a")
		require.NoError(t, err)
	}
	require.Equal(t, []string{"How do I install the app?", "How do I uninstall?"}, store.Suggest("INSTALL", 0))
	require.Equal(t, []string{"How do I install the app?"}, store.Suggest("install", 1))
	require.Len(t, store.Suggest("", 0), 3)
	require.Empty(t, store.Suggest("weather", 0))
}

func TestStoreConcurrentAddsKeepUniqueness(t *testing.T) {
	ctx := context.Background()
	store := NewStore(newWordEncoder())

	var (
		wg    sync.WaitGroup
		mu    sync.Mutex
		added int
	)
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			q := "Shared Question"
			if i%2 == 0 {
				q = strings.ToLower(q)
			}
			ok, err := store.Add(ctx, q, "a")
			if err != nil {
				t.Error(err)
				return
			}
			if ok {
				mu.Lock()
				added++
				mu.Unlock()
			}
		}(i)
	}
	wg.Wait()
	require.Equal(t, 1, added)
	require.Equal(t, 1, store.Len())
}
