package bedrock

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"golang.org/x/time/rate"

	"github.com/poiesic/recall/ai"
)

// modelFamily selects the request and response shape for a model id.
type modelFamily int

const (
	familyTitan modelFamily = iota
	familyCohere
)

// titanRequest is the Titan embedding request body.
type titanRequest struct {
	InputText string `json:"inputText"`
}

// titanResponse is the Titan embedding response body.
type titanResponse struct {
	Embedding []float32 `json:"embedding"`
}

// cohereRequest is the Cohere embedding request body.
type cohereRequest struct {
	Texts     []string `json:"texts"`
	InputType string   `json:"input_type"`
}

// cohereResponse is the Cohere embedding response body.
type cohereResponse struct {
	Embeddings [][]float32 `json:"embeddings"`
}

// invoker is the slice of the bedrockruntime client the embedder uses,
// extracted so tests can stub the AWS API.
type invoker interface {
	InvokeModel(ctx context.Context, params *bedrockruntime.InvokeModelInput, optFns ...func(*bedrockruntime.Options)) (*bedrockruntime.InvokeModelOutput, error)
}

// Embedder implements ai.Embedder using AWS Bedrock embedding models.
type Embedder struct {
	client    invoker
	model     string
	family    modelFamily
	dim       int
	batchSize int
	limiter   *rate.Limiter
	logger    *slog.Logger
}

var _ ai.Embedder = (*Embedder)(nil)

// NewEmbedder creates a new embedder using the provided configuration.
// AWS credentials resolve through the default chain; only the region comes
// from config.
//
// Returns ai.Embedder interface to enforce abstraction.
func NewEmbedder(ctx context.Context, cfg *ai.Config) (ai.Embedder, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	family, err := familyFor(cfg.Model)
	if err != nil {
		return nil, err
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(cfg.Region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	var limiter *rate.Limiter
	if cfg.RequestsPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), 1)
	}

	return &Embedder{
		client:    bedrockruntime.NewFromConfig(awsCfg),
		model:     cfg.Model,
		family:    family,
		dim:       cfg.Dimension,
		batchSize: cfg.BatchSize,
		limiter:   limiter,
		logger:    slog.Default().With("component", "bedrock-embedder"),
	}, nil
}

func familyFor(model string) (modelFamily, error) {
	lower := strings.ToLower(model)
	switch {
	case strings.Contains(lower, "titan"):
		return familyTitan, nil
	case strings.Contains(lower, "cohere"):
		return familyCohere, nil
	default:
		return 0, fmt.Errorf("unsupported bedrock embedding model %q", model)
	}
}

// EmbedText generates a vector embedding for a single text string.
func (e *Embedder) EmbedText(ctx context.Context, text string) ([]float32, error) {
	vectors, err := e.EmbedTexts(ctx, []string{text})
	if err != nil {
		return nil, err
	}

	return vectors[0], nil
}

// EmbedTexts generates vector embeddings for multiple text strings.
// Cohere models embed in batches; Titan models take one text per call.
func (e *Embedder) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, ai.ErrEmptyInput
	}

	e.logger.Debug("generating embeddings for texts", "count", len(texts), "model", e.model)

	vectors := make([][]float32, 0, len(texts))

	switch e.family {
	case familyCohere:
		for start := 0; start < len(texts); start += e.batchSize {
			end := min(start+e.batchSize, len(texts))

			batch, err := e.embedCohere(ctx, texts[start:end])
			if err != nil {
				return nil, err
			}
			vectors = append(vectors, batch...)
		}
	default:
		for _, text := range texts {
			vector, err := e.embedTitan(ctx, text)
			if err != nil {
				return nil, err
			}
			vectors = append(vectors, vector)
		}
	}

	for i, vector := range vectors {
		if len(vector) != e.dim {
			return nil, &ai.ProviderError{
				Provider: ai.ProviderBedrock,
				Op:       "embed",
				Err:      fmt.Errorf("embedding %d has %d dimensions, expected %d", i, len(vector), e.dim),
			}
		}
	}

	return vectors, nil
}

func (e *Embedder) embedTitan(ctx context.Context, text string) ([]float32, error) {
	payload, err := e.invoke(ctx, titanRequest{InputText: text})
	if err != nil {
		return nil, err
	}

	var parsed titanResponse
	if err := json.Unmarshal(payload, &parsed); err != nil {
		return nil, &ai.ProviderError{
			Provider: ai.ProviderBedrock,
			Op:       "embed",
			Err:      fmt.Errorf("failed to decode titan response: %w", err),
		}
	}

	return parsed.Embedding, nil
}

func (e *Embedder) embedCohere(ctx context.Context, texts []string) ([][]float32, error) {
	payload, err := e.invoke(ctx, cohereRequest{Texts: texts, InputType: "search_document"})
	if err != nil {
		return nil, err
	}

	var parsed cohereResponse
	if err := json.Unmarshal(payload, &parsed); err != nil {
		return nil, &ai.ProviderError{
			Provider: ai.ProviderBedrock,
			Op:       "embed",
			Err:      fmt.Errorf("failed to decode cohere response: %w", err),
		}
	}

	if len(parsed.Embeddings) != len(texts) {
		return nil, &ai.ProviderError{
			Provider: ai.ProviderBedrock,
			Op:       "embed",
			Err:      fmt.Errorf("requested %d embeddings, received %d", len(texts), len(parsed.Embeddings)),
		}
	}

	return parsed.Embeddings, nil
}

func (e *Embedder) invoke(ctx context.Context, request any) ([]byte, error) {
	body, err := json.Marshal(request)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal embedding request: %w", err)
	}

	if e.limiter != nil {
		if err := e.limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}

	output, err := e.client.InvokeModel(ctx, &bedrockruntime.InvokeModelInput{
		ModelId:     aws.String(e.model),
		ContentType: aws.String("application/json"),
		Accept:      aws.String("application/json"),
		Body:        body,
	})
	if err != nil {
		return nil, &ai.ProviderError{
			Provider:  ai.ProviderBedrock,
			Op:        "embed",
			Transient: ai.TransientTransportError(err),
			Err:       err,
		}
	}

	return output.Body, nil
}

// ModelId returns the configured embedding model identifier.
func (e *Embedder) ModelId() string {
	return e.model
}

// Dimension returns the configured embedding vector length.
func (e *Embedder) Dimension() int {
	return e.dim
}
