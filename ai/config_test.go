package ai

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.NotNil(t, cfg)
	assert.Equal(t, ProviderOllama, cfg.Provider)
	assert.Equal(t, "http://localhost:11434", cfg.Host)
	assert.Equal(t, "nomic-embed-text", cfg.Model)
	assert.Equal(t, 768, cfg.Dimension)
	assert.Equal(t, 32, cfg.BatchSize)
}

func TestNewConfig(t *testing.T) {
	t.Run("with no options", func(t *testing.T) {
		cfg := NewConfig()

		assert.NotNil(t, cfg)
		// Should have default values
		assert.Equal(t, ProviderOllama, cfg.Provider)
		assert.Equal(t, "http://localhost:11434", cfg.Host)
	})

	t.Run("with custom provider", func(t *testing.T) {
		cfg := NewConfig(
			WithProvider(ProviderOpenAI),
			WithHost("https://api.openai.com"),
			WithModel("text-embedding-3-small"),
			WithDimension(1536),
		)

		assert.Equal(t, ProviderOpenAI, cfg.Provider)
		assert.Equal(t, "https://api.openai.com", cfg.Host)
		assert.Equal(t, "text-embedding-3-small", cfg.Model)
		assert.Equal(t, 1536, cfg.Dimension)
	})

	t.Run("with throttle and batch", func(t *testing.T) {
		cfg := NewConfig(
			WithBatchSize(16),
			WithRequestsPerSecond(2.5),
		)

		assert.Equal(t, 16, cfg.BatchSize)
		assert.Equal(t, 2.5, cfg.RequestsPerSecond)
	})
}

func TestConfig_Normalize(t *testing.T) {
	t.Run("adds v1 suffix for openai", func(t *testing.T) {
		cfg := NewConfig(WithProvider(ProviderOpenAI), WithHost("http://localhost:11434"))
		cfg.Normalize()

		assert.Equal(t, "http://localhost:11434/v1", cfg.Host)
	})

	t.Run("keeps existing v1 suffix for openai", func(t *testing.T) {
		cfg := NewConfig(WithProvider(ProviderOpenAI), WithHost("http://localhost:11434/v1"))
		cfg.Normalize()

		assert.Equal(t, "http://localhost:11434/v1", cfg.Host)
	})

	t.Run("strips v1 suffix for ollama", func(t *testing.T) {
		cfg := NewConfig(WithProvider(ProviderOllama), WithHost("http://localhost:11434/v1/"))
		cfg.Normalize()

		assert.Equal(t, "http://localhost:11434", cfg.Host)
	})

	t.Run("strips trailing slash", func(t *testing.T) {
		cfg := NewConfig(WithProvider(ProviderOllama), WithHost("http://localhost:11434/"))
		cfg.Normalize()

		assert.Equal(t, "http://localhost:11434", cfg.Host)
	})

	t.Run("lowercases provider", func(t *testing.T) {
		cfg := NewConfig(WithProvider("Ollama"))
		cfg.Normalize()

		assert.Equal(t, ProviderOllama, cfg.Provider)
	})

	t.Run("restores batch size default", func(t *testing.T) {
		cfg := NewConfig(WithBatchSize(0))
		cfg.Normalize()

		assert.Equal(t, 32, cfg.BatchSize)
	})
}

func TestConfig_Validate(t *testing.T) {
	t.Run("default config is valid", func(t *testing.T) {
		require.NoError(t, NewConfig().Validate())
	})

	t.Run("mock needs no host", func(t *testing.T) {
		cfg := NewConfig(WithProvider(ProviderMock), WithHost(""))
		require.NoError(t, cfg.Validate())
	})

	t.Run("rejects unknown provider", func(t *testing.T) {
		cfg := NewConfig(WithProvider("carrier-pigeon"))
		err := cfg.Validate()

		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrUnknownProvider))
	})

	t.Run("rejects missing host for http providers", func(t *testing.T) {
		cfg := NewConfig(WithHost(""))
		assert.Error(t, cfg.Validate())
	})

	t.Run("rejects missing region for bedrock", func(t *testing.T) {
		cfg := NewConfig(WithProvider(ProviderBedrock), WithRegion(""))
		assert.Error(t, cfg.Validate())
	})

	t.Run("rejects missing model", func(t *testing.T) {
		cfg := NewConfig(WithModel(""))
		assert.Error(t, cfg.Validate())
	})

	t.Run("rejects non-positive dimension", func(t *testing.T) {
		cfg := NewConfig(WithDimension(0))
		assert.Error(t, cfg.Validate())
	})

	t.Run("rejects negative rate limit", func(t *testing.T) {
		cfg := NewConfig(WithRequestsPerSecond(-1))
		assert.Error(t, cfg.Validate())
	})
}

func TestProviderError(t *testing.T) {
	cause := errors.New("connection reset")
	err := &ProviderError{Provider: "ollama", Op: "embed", Transient: true, Err: cause}

	assert.Contains(t, err.Error(), "ollama")
	assert.Contains(t, err.Error(), "transient")
	assert.True(t, errors.Is(err, cause))
	assert.True(t, IsTransient(err))
	assert.False(t, IsTransient(cause))
	assert.False(t, IsTransient(nil))
}

func TestTransientStatusCode(t *testing.T) {
	assert.True(t, TransientStatusCode(429))
	assert.True(t, TransientStatusCode(500))
	assert.True(t, TransientStatusCode(503))
	assert.False(t, TransientStatusCode(400))
	assert.False(t, TransientStatusCode(401))
	assert.False(t, TransientStatusCode(404))
}
