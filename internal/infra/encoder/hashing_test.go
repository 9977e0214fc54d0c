package encoder

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/yanqian/semantic-faq/internal/domain/faq"
)

func TestHashingEncoderIsDeterministic(t *testing.T) {
	enc := NewHashingEncoder(128)
	first, err := enc.Encode(context.Background(), []string{"How do I install the app?", ""})
	require.NoError(t, err)
	second, err := enc.Encode(context.Background(), []string{"how do I install THE app"})
	require.NoError(t, err)

	require.Len(t, first, 2)
	require.Len(t, first[0], 128)
	require.Equal(t, first[0], second[0])
	require.InDelta(t, 0, faq.CosineSimilarity(first[0], first[1]), 1e-9)
}

func TestHashingEncoderSimilarity(t *testing.T) {
	enc := NewHashingEncoder(256)
	vectors, err := enc.Encode(context.Background(), []string{
		"How do I install the app?",
		"how do i install this app",
		"what's the weather today",
	})
	require.NoError(t, err)

	require.Greater(t, faq.CosineSimilarity(vectors[0], vectors[1]), 0.75)
	require.Less(t, faq.CosineSimilarity(vectors[0], vectors[2]), 0.75)
}

func TestHashingEncoderDefaultDimension(t *testing.T) {
	vectors, err := NewHashingEncoder(0).Encode(context.Background(), []string{"hello"})
	require.NoError(t, err)
	require.Len(t, vectors[0], 256)
}
