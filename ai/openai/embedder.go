package openai

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/poiesic/recall/ai"
	"github.com/tmc/langchaingo/embeddings"
	"github.com/tmc/langchaingo/llms/openai"
	"golang.org/x/time/rate"
)

// Embedder implements ai.Embedder using OpenAI-compatible embedding APIs.
type Embedder struct {
	embedder embeddings.Embedder
	model    string
	dim      int
	limiter  *rate.Limiter
	logger   *slog.Logger
}

var _ ai.Embedder = (*Embedder)(nil)

// NewEmbedder creates a new embedder using the provided configuration.
//
// Returns ai.Embedder interface to enforce abstraction.
func NewEmbedder(config *ai.Config) (ai.Embedder, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	// Local OpenAI-compatible services ignore authentication but the client
	// insists on a token, so fall back to a placeholder.
	token := os.Getenv("OPENAI_API_KEY")
	if token == "" {
		token = "none"
	}

	client, err := openai.New(
		openai.WithBaseURL(config.Host),
		openai.WithToken(token),
		openai.WithEmbeddingModel(config.Model),
	)
	if err != nil {
		return nil, err
	}

	embedder, err := embeddings.NewEmbedder(client,
		embeddings.WithStripNewLines(true),
		embeddings.WithBatchSize(config.BatchSize),
	)
	if err != nil {
		return nil, err
	}

	var limiter *rate.Limiter
	if config.RequestsPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(config.RequestsPerSecond), 1)
	}

	return &Embedder{
		embedder: embedder,
		model:    config.Model,
		dim:      config.Dimension,
		limiter:  limiter,
		logger:   slog.Default().With("component", "openai-embedder"),
	}, nil
}

// EmbedText generates a vector embedding for a single text string.
func (e *Embedder) EmbedText(ctx context.Context, text string) ([]float32, error) {
	vectors, err := e.EmbedTexts(ctx, []string{text})
	if err != nil {
		return nil, err
	}

	return vectors[0], nil
}

// EmbedTexts generates vector embeddings for multiple text strings in a batch.
func (e *Embedder) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, ai.ErrEmptyInput
	}

	e.logger.Debug("generating embeddings for texts", "count", len(texts))

	if e.limiter != nil {
		if err := e.limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}

	vectors, err := e.embedder.EmbedDocuments(ctx, texts)
	if err != nil {
		e.logger.Error("failed to generate embeddings", "count", len(texts), "err", err)
		return nil, &ai.ProviderError{
			Provider:  ai.ProviderOpenAI,
			Op:        "embed",
			Transient: ai.TransientTransportError(err),
			Err:       err,
		}
	}

	if len(vectors) != len(texts) {
		return nil, &ai.ProviderError{
			Provider: ai.ProviderOpenAI,
			Op:       "embed",
			Err:      fmt.Errorf("requested %d embeddings, received %d", len(texts), len(vectors)),
		}
	}

	for i, vector := range vectors {
		if len(vector) != e.dim {
			return nil, &ai.ProviderError{
				Provider: ai.ProviderOpenAI,
				Op:       "embed",
				Err:      fmt.Errorf("embedding %d has %d dimensions, expected %d", i, len(vector), e.dim),
			}
		}
	}

	return vectors, nil
}

// ModelId returns the configured embedding model identifier.
func (e *Embedder) ModelId() string {
	return e.model
}

// Dimension returns the configured embedding vector length.
func (e *Embedder) Dimension() int {
	return e.dim
}
