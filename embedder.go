package recall

import (
	"context"
	"fmt"

	"github.com/poiesic/recall/ai"
	"github.com/poiesic/recall/ai/bedrock"
	"github.com/poiesic/recall/ai/mock"
	"github.com/poiesic/recall/ai/ollama"
	"github.com/poiesic/recall/ai/openai"
)

// NewEmbedder constructs the embedding provider named by the configuration.
// It lives at the root so provider subpackages never import each other.
func NewEmbedder(ctx context.Context, cfg *ai.Config) (ai.Embedder, error) {
	if cfg == nil {
		cfg = ai.DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	switch cfg.Provider {
	case ai.ProviderOpenAI:
		return openai.NewEmbedder(cfg)
	case ai.ProviderOllama:
		return ollama.NewEmbedder(cfg)
	case ai.ProviderBedrock:
		return bedrock.NewEmbedder(ctx, cfg)
	case ai.ProviderMock:
		m := mock.NewMockEmbedderWithDimension(cfg.Dimension)
		m.Model = cfg.Model
		return m, nil
	default:
		return nil, fmt.Errorf("ai config: %w %q", ai.ErrUnknownProvider, cfg.Provider)
	}
}
