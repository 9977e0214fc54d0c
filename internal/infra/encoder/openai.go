package encoder

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/yanqian/semantic-faq/internal/domain/faq"
)

// OpenAIEncoder embeds texts with the go-openai SDK.
type OpenAIEncoder struct {
	client *openai.Client
	model  openai.EmbeddingModel
	budget int
	count  TokenCounter
	logger *slog.Logger
}

// ParseOpenAIModel resolves an embedding model name known to the SDK.
func ParseOpenAIModel(name string) (openai.EmbeddingModel, error) {
	var model openai.EmbeddingModel
	if err := model.UnmarshalText([]byte(strings.TrimSpace(name))); err != nil {
		return openai.Unknown, err
	}
	if model == openai.Unknown {
		return openai.Unknown, fmt.Errorf("unknown openai embedding model %q", name)
	}
	return model, nil
}

// NewOpenAIEncoder builds an SDK client for apiKey. An empty baseURL keeps the
// public endpoint.
func NewOpenAIEncoder(apiKey, baseURL, model string, timeout time.Duration, budget int, count TokenCounter, logger *slog.Logger) (*OpenAIEncoder, error) {
	embeddingModel, err := ParseOpenAIModel(model)
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}
	cfg := openai.DefaultConfig(apiKey)
	if strings.TrimSpace(baseURL) != "" {
		cfg.BaseURL = strings.TrimRight(baseURL, "/")
	}
	if timeout > 0 {
		cfg.HTTPClient = &http.Client{Timeout: timeout}
	}
	return &OpenAIEncoder{
		client: openai.NewClientWithConfig(cfg),
		model:  embeddingModel,
		budget: budget,
		count:  count,
		logger: logger.With("component", "encoder.openai"),
	}, nil
}

// Encode requests embeddings for texts, splitting them into token-bounded batches.
func (e *OpenAIEncoder) Encode(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}
	batches, err := planBatches(texts, e.budget, e.count)
	if err != nil {
		return nil, err
	}
	return embedInBatches(ctx, batches, e.embed)
}

func (e *OpenAIEncoder) embed(ctx context.Context, batch []string) ([][]float32, error) {
	resp, err := e.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Input: batch,
		Model: e.model,
	})
	if err != nil {
		return nil, fmt.Errorf("openai create embeddings: %w", err)
	}
	out := make([][]float32, len(resp.Data))
	for _, item := range resp.Data {
		if item.Index < 0 || item.Index >= len(out) {
			return nil, fmt.Errorf("openai embedding index %d out of range", item.Index)
		}
		out[item.Index] = item.Embedding
	}
	e.logger.Debug("openai embeddings created", "inputs", len(batch), "tokens", resp.Usage.TotalTokens)
	return out, nil
}

var _ faq.Encoder = (*OpenAIEncoder)(nil)
