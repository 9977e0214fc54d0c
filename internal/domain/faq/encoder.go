package faq

import (
	"context"
	"errors"
	"fmt"
)

// Encoder maps texts to fixed-length vectors. Output i belongs to texts[i] and
// identical input yields identical output for a loaded model.
type Encoder interface {
	Encode(ctx context.Context, texts []string) ([][]float32, error)
}

// ErrEncoderContract reports an encoder response that breaks the Encoder contract.
var ErrEncoderContract = errors.New("encoder contract violated")

// encodeAll calls the encoder and checks count, emptiness and, when dims > 0,
// the vector length.
func encodeAll(ctx context.Context, enc Encoder, texts []string, dims int) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}
	vectors, err := enc.Encode(ctx, texts)
	if err != nil {
		return nil, err
	}
	if len(vectors) != len(texts) {
		return nil, fmt.Errorf("%w: %d vectors for %d texts", ErrEncoderContract, len(vectors), len(texts))
	}
	for i, vec := range vectors {
		if len(vec) == 0 {
			return nil, fmt.Errorf("%w: empty vector at %d", ErrEncoderContract, i)
		}
		if dims == 0 {
			dims = len(vec)
		}
		if len(vec) != dims {
			return nil, fmt.Errorf("%w: vector %d has %d dimensions, want %d", ErrEncoderContract, i, len(vec), dims)
		}
	}
	return vectors, nil
}
