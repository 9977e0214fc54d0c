package encoder

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/pkoukk/tiktoken-go"
)

// DefaultBatchTokens stays well below the provider's 300k per request cap.
const DefaultBatchTokens = 200_000

// TokenCounter reports how many tokens text costs in an embedding request.
type TokenCounter func(text string) int

// NewTokenCounter counts with the tiktoken encoding of model. The BPE ranks
// are loaded on first use; if that fails the counter falls back to
// estimateTokens for the rest of the process.
func NewTokenCounter(model string, logger *slog.Logger) TokenCounter {
	if logger == nil {
		logger = slog.Default()
	}
	var (
		once sync.Once
		tke  *tiktoken.Tiktoken
	)
	return func(text string) int {
		once.Do(func() {
			enc, err := tiktoken.EncodingForModel(model)
			if err != nil {
				enc, err = tiktoken.GetEncoding("cl100k_base")
			}
			if err != nil {
				logger.Warn("tiktoken unavailable, estimating tokens", "model", model, "error", err)
				return
			}
			tke = enc
		})
		if tke == nil {
			return estimateTokens(text)
		}
		return len(tke.Encode(text, nil, nil))
	}
}

// estimateTokens provides a rough, upper-biased token count without external dependencies.
func estimateTokens(text string) int {
	if text == "" {
		return 0
	}
	runes := utf8.RuneCountInString(text)
	words := len(strings.Fields(text))
	// Over-estimate to stay under provider caps: assume ~1 token per 2 runes and never below word count.
	byRunes := (runes + 1) / 2
	if byRunes < words {
		return words
	}
	return byRunes
}

// planBatches groups texts in order so that no batch exceeds budget tokens.
// A nil count uses estimateTokens; a non-positive budget uses
// DefaultBatchTokens.
func planBatches(texts []string, budget int, count TokenCounter) ([][]string, error) {
	if count == nil {
		count = estimateTokens
	}
	if budget <= 0 {
		budget = DefaultBatchTokens
	}
	var (
		batches     [][]string
		batch       []string
		batchTokens int
	)
	for _, text := range texts {
		tokens := count(text)
		if tokens > budget {
			return nil, fmt.Errorf("text too large for embedding request: tokens=%d budget=%d", tokens, budget)
		}
		if batchTokens+tokens > budget && len(batch) > 0 {
			batches = append(batches, batch)
			batch = nil
			batchTokens = 0
		}
		batch = append(batch, text)
		batchTokens += tokens
	}
	if len(batch) > 0 {
		batches = append(batches, batch)
	}
	return batches, nil
}

// embedFunc embeds one planned batch.
type embedFunc func(ctx context.Context, batch []string) ([][]float32, error)

// embedInBatches runs embed over every batch and concatenates the vectors,
// failing when a batch comes back with the wrong number of vectors.
func embedInBatches(ctx context.Context, batches [][]string, embed embedFunc) ([][]float32, error) {
	var out [][]float32
	for _, batch := range batches {
		vectors, err := embed(ctx, batch)
		if err != nil {
			return nil, err
		}
		if len(vectors) != len(batch) {
			return nil, fmt.Errorf("embedding result count mismatch: expected=%d got=%d", len(batch), len(vectors))
		}
		out = append(out, vectors...)
	}
	return out, nil
}

// fixedBatches splits texts into groups of at most size.
func fixedBatches(texts []string, size int) [][]string {
	var batches [][]string
	for start := 0; start < len(texts); start += size {
		end := min(start+size, len(texts))
		batches = append(batches, texts[start:end])
	}
	return batches
}
