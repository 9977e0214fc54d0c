package encoder

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/yanqian/semantic-faq/internal/domain/faq"
	"github.com/yanqian/semantic-faq/internal/infra/llm/chatgpt"
)

// ChatGPTEncoder calls an OpenAI-compatible embeddings API over plain HTTP.
type ChatGPTEncoder struct {
	client *chatgpt.Client
	model  string
	budget int
	count  TokenCounter
	logger *slog.Logger
}

// NewChatGPTEncoder constructs an encoder backed by the ChatGPT client.
func NewChatGPTEncoder(client *chatgpt.Client, model string, budget int, count TokenCounter, logger *slog.Logger) *ChatGPTEncoder {
	if logger == nil {
		logger = slog.Default()
	}
	return &ChatGPTEncoder{
		client: client,
		model:  strings.TrimSpace(model),
		budget: budget,
		count:  count,
		logger: logger.With("component", "encoder.chatgpt"),
	}
}

// Encode requests embeddings for texts, splitting them into token-bounded batches.
func (e *ChatGPTEncoder) Encode(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}
	batches, err := planBatches(texts, e.budget, e.count)
	if err != nil {
		return nil, err
	}
	if len(batches) > 1 {
		e.logger.Debug("embedding in batches", "texts", len(texts), "batches", len(batches))
	}
	return embedInBatches(ctx, batches, e.embed)
}

func (e *ChatGPTEncoder) embed(ctx context.Context, batch []string) ([][]float32, error) {
	resp, err := e.client.CreateEmbedding(ctx, chatgpt.EmbeddingRequest{
		Model: e.model,
		Input: batch,
	})
	if err != nil {
		return nil, fmt.Errorf("create embedding: %w", err)
	}
	out := make([][]float32, 0, len(resp.Data))
	for _, item := range resp.Data {
		vec := make([]float32, len(item.Embedding))
		copy(vec, item.Embedding)
		out = append(out, vec)
	}
	e.logger.Debug("chatgpt embeddings created", "inputs", len(batch), "tokens", resp.Usage.TotalTokens)
	return out, nil
}

var _ faq.Encoder = (*ChatGPTEncoder)(nil)
