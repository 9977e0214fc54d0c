package encoder

import (
	"context"
	"hash/fnv"
	"strings"

	"github.com/yanqian/semantic-faq/internal/domain/faq"
)

// HashingEncoder avoids network calls by hashing normalized words into a
// fixed number of buckets. Texts sharing words get similar vectors, which is
// enough for local runs and tests.
type HashingEncoder struct {
	dim int
}

// NewHashingEncoder constructs the encoder.
func NewHashingEncoder(dim int) *HashingEncoder {
	if dim <= 0 {
		dim = 256
	}
	return &HashingEncoder{dim: dim}
}

// Encode converts each text into a bag-of-words count vector.
func (e *HashingEncoder) Encode(_ context.Context, texts []string) ([][]float32, error) {
	vectors := make([][]float32, len(texts))
	for i, text := range texts {
		vector := make([]float32, e.dim)
		for _, word := range strings.Fields(faq.NormalizeQuestion(text)) {
			hash := fnv.New64a()
			_, _ = hash.Write([]byte(word))
			vector[hash.Sum64()%uint64(e.dim)]++
		}
		vectors[i] = vector
	}
	return vectors, nil
}

var _ faq.Encoder = (*HashingEncoder)(nil)
