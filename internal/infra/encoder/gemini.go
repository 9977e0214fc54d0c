package encoder

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"google.golang.org/genai"

	"github.com/yanqian/semantic-faq/internal/domain/faq"
)

// geminiBatchSize is the per request input cap of batchEmbedContents.
const geminiBatchSize = 100

// GeminiConfig selects the genai backend.
type GeminiConfig struct {
	APIKey   string
	Backend  string
	Project  string
	Location string
	Model    string
}

// GeminiEncoder wraps a genai.Client to embed texts.
type GeminiEncoder struct {
	client *genai.Client
	model  string
	logger *slog.Logger
}

// NewGeminiClient creates the genai client for the Gemini API or Vertex AI.
func NewGeminiClient(ctx context.Context, cfg GeminiConfig) (*genai.Client, error) {
	clientCfg := &genai.ClientConfig{Backend: genai.BackendGeminiAPI, APIKey: cfg.APIKey}
	if strings.EqualFold(cfg.Backend, "vertex") || strings.EqualFold(cfg.Backend, "vertexai") {
		clientCfg = &genai.ClientConfig{
			Backend:  genai.BackendVertexAI,
			Project:  cfg.Project,
			Location: cfg.Location,
		}
	}
	client, err := genai.NewClient(ctx, clientCfg)
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}
	return client, nil
}

// NewGeminiEncoder creates an encoder for modelName (e.g. "text-embedding-004").
func NewGeminiEncoder(client *genai.Client, modelName string, logger *slog.Logger) *GeminiEncoder {
	if logger == nil {
		logger = slog.Default()
	}
	return &GeminiEncoder{
		client: client,
		model:  strings.TrimSpace(modelName),
		logger: logger.With("component", "encoder.gemini"),
	}
}

// Encode embeds texts in groups of geminiBatchSize.
func (e *GeminiEncoder) Encode(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}
	return embedInBatches(ctx, fixedBatches(texts, geminiBatchSize), e.embed)
}

func (e *GeminiEncoder) embed(ctx context.Context, batch []string) ([][]float32, error) {
	contents := make([]*genai.Content, len(batch))
	for i, text := range batch {
		contents[i] = &genai.Content{
			Parts: []*genai.Part{
				{Text: text},
			},
		}
	}

	result, err := e.client.Models.EmbedContent(ctx, e.model, contents, &genai.EmbedContentConfig{})
	if err != nil {
		return nil, fmt.Errorf("gemini embed content: %w", err)
	}
	if result == nil {
		return nil, errors.New("gemini returned no embeddings")
	}
	out := make([][]float32, 0, len(result.Embeddings))
	for _, embedding := range result.Embeddings {
		if embedding == nil {
			return nil, errors.New("gemini returned a nil embedding")
		}
		out = append(out, embedding.Values)
	}
	e.logger.Debug("gemini embeddings created", "inputs", len(batch))
	return out, nil
}

var _ faq.Encoder = (*GeminiEncoder)(nil)
