package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/poiesic/recall/ai"
)

const defaultTimeout = 60 * time.Second

// embeddingRequest is the POST /api/embeddings request body.
type embeddingRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
}

// embeddingResponse is the POST /api/embeddings response body.
type embeddingResponse struct {
	Embedding []float32 `json:"embedding"`
}

// Embedder implements ai.Embedder against a native Ollama server.
type Embedder struct {
	baseURL string
	model   string
	dim     int
	client  *http.Client
	logger  *slog.Logger
}

var _ ai.Embedder = (*Embedder)(nil)

// NewEmbedder creates a new embedder using the provided configuration.
//
// Returns ai.Embedder interface to enforce abstraction.
func NewEmbedder(config *ai.Config) (ai.Embedder, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &Embedder{
		baseURL: config.Host,
		model:   config.Model,
		dim:     config.Dimension,
		client:  &http.Client{Timeout: defaultTimeout},
		logger:  slog.Default().With("component", "ollama-embedder"),
	}, nil
}

// EmbedText generates a vector embedding for a single text string.
func (e *Embedder) EmbedText(ctx context.Context, text string) ([]float32, error) {
	if text == "" {
		return nil, ai.ErrEmptyInput
	}

	body, err := json.Marshal(embeddingRequest{Model: e.model, Prompt: text})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal embedding request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.baseURL+"/api/embeddings", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create embedding request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, &ai.ProviderError{
			Provider:  ai.ProviderOllama,
			Op:        "embed",
			Transient: ai.TransientTransportError(err),
			Err:       err,
		}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, &ai.ProviderError{
			Provider:  ai.ProviderOllama,
			Op:        "embed",
			Transient: ai.TransientStatusCode(resp.StatusCode),
			Err:       fmt.Errorf("server returned %d: %s", resp.StatusCode, payload),
		}
	}

	var parsed embeddingResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, &ai.ProviderError{
			Provider: ai.ProviderOllama,
			Op:       "embed",
			Err:      fmt.Errorf("failed to decode embedding response: %w", err),
		}
	}

	if len(parsed.Embedding) != e.dim {
		return nil, &ai.ProviderError{
			Provider: ai.ProviderOllama,
			Op:       "embed",
			Err:      fmt.Errorf("embedding has %d dimensions, expected %d", len(parsed.Embedding), e.dim),
		}
	}

	return parsed.Embedding, nil
}

// EmbedTexts generates vector embeddings for multiple text strings.
// The native API takes one prompt per call, so texts embed sequentially.
func (e *Embedder) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, ai.ErrEmptyInput
	}

	e.logger.Debug("generating embeddings for texts", "count", len(texts))

	vectors := make([][]float32, len(texts))
	for i, text := range texts {
		vector, err := e.EmbedText(ctx, text)
		if err != nil {
			return nil, fmt.Errorf("failed to embed text %d of %d: %w", i+1, len(texts), err)
		}
		vectors[i] = vector
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
