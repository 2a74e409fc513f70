// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package ai

import (
	"errors"
	"fmt"
	"strings"
)

// Provider names accepted by Config.Provider.
const (
	ProviderOpenAI  = "openai"
	ProviderOllama  = "ollama"
	ProviderBedrock = "bedrock"
	ProviderMock    = "mock"
)

// Config holds configuration for embedding providers.
type Config struct {
	// Provider selects the implementation: "openai", "ollama", "bedrock",
	// or "mock".
	Provider string

	// Host is the base URL of the embedding service for HTTP providers.
	// Example: "http://localhost:11434" for a local Ollama server.
	// Ignored by bedrock, which uses the AWS endpoint for Region.
	Host string

	// Model is the embedding model identifier.
	// Example: "nomic-embed-text", "text-embedding-3-small",
	// "amazon.titan-embed-text-v2:0"
	Model string

	// Dimension is the expected vector length of Model's output. Vectors of
	// any other length are rejected, and an index built at one dimension
	// refuses embedders configured for another.
	Dimension int

	// BatchSize caps how many texts go into one provider request.
	// Default: 32
	BatchSize int

	// RequestsPerSecond throttles calls to hosted APIs. Zero means
	// unlimited, which suits local servers.
	RequestsPerSecond float64

	// Region is the AWS region for the bedrock provider.
	// Default: "us-east-1"
	Region string
}

// ConfigOption is a functional option for configuring a Config.
type ConfigOption func(*Config)

// WithProvider selects the embedding provider implementation.
func WithProvider(provider string) ConfigOption {
	return func(c *Config) {
		c.Provider = provider
	}
}

// WithHost sets the embedding service host URL.
func WithHost(host string) ConfigOption {
	return func(c *Config) {
		c.Host = host
	}
}

// WithModel sets the embedding model identifier.
func WithModel(model string) ConfigOption {
	return func(c *Config) {
		c.Model = model
	}
}

// WithDimension sets the expected embedding vector length.
func WithDimension(dim int) ConfigOption {
	return func(c *Config) {
		c.Dimension = dim
	}
}

// WithBatchSize sets the per-request text batch cap.
func WithBatchSize(size int) ConfigOption {
	return func(c *Config) {
		c.BatchSize = size
	}
}

// WithRequestsPerSecond sets the client-side rate limit for hosted APIs.
func WithRequestsPerSecond(rps float64) ConfigOption {
	return func(c *Config) {
		c.RequestsPerSecond = rps
	}
}

// WithRegion sets the AWS region for the bedrock provider.
func WithRegion(region string) ConfigOption {
	return func(c *Config) {
		c.Region = region
	}
}

// DefaultConfig returns a Config with sensible defaults for a local Ollama
// server, the zero-setup way to run Recall.
func DefaultConfig() *Config {
	return &Config{
		Provider:  ProviderOllama,
		Host:      "http://localhost:11434",
		Model:     "nomic-embed-text",
		Dimension: 768,
		BatchSize: 32,
		Region:    "us-east-1",
	}
}

// NewConfig creates a Config with the default values and applies the provided options.
// This is the recommended way to create a Config with custom settings.
//
// Example:
//
//	cfg := NewConfig(
//	    WithProvider(ProviderOpenAI),
//	    WithHost("https://api.openai.com"),
//	    WithModel("text-embedding-3-small"),
//	    WithDimension(1536),
//	)
func NewConfig(opts ...ConfigOption) *Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// Normalize ensures the configuration is in a canonical form for its
// provider. OpenAI-compatible APIs want a /v1 suffix on the base URL;
// Ollama's native API wants the bare host.
func (c *Config) Normalize() {
	c.Provider = strings.ToLower(strings.TrimSpace(c.Provider))
	c.Host = strings.TrimSuffix(c.Host, "/")

	switch c.Provider {
	case ProviderOpenAI:
		if c.Host != "" && !strings.HasSuffix(c.Host, "/v1") {
			c.Host = c.Host + "/v1"
		}
	case ProviderOllama:
		// The /v1 suffix belongs to Ollama's OpenAI compatibility layer,
		// not the native API this provider speaks.
		c.Host = strings.TrimSuffix(c.Host, "/v1")
		c.Host = strings.TrimSuffix(c.Host, "/")
	}

	if c.BatchSize <= 0 {
		c.BatchSize = DefaultConfig().BatchSize
	}
}

// Validate checks that the configuration is valid and complete for its
// provider. It automatically normalizes the configuration before validation.
func (c *Config) Validate() error {
	c.Normalize()

	switch c.Provider {
	case ProviderOpenAI, ProviderOllama:
		if c.Host == "" {
			return fmt.Errorf("ai config: Host is required for provider %q", c.Provider)
		}
	case ProviderBedrock:
		if c.Region == "" {
			return errors.New("ai config: Region is required for provider \"bedrock\"")
		}
	case ProviderMock:
	default:
		return fmt.Errorf("ai config: %w %q", ErrUnknownProvider, c.Provider)
	}

	if c.Model == "" {
		return errors.New("ai config: Model is required")
	}
	if c.Dimension <= 0 {
		return errors.New("ai config: Dimension must be positive")
	}
	if c.RequestsPerSecond < 0 {
		return errors.New("ai config: RequestsPerSecond must not be negative")
	}
	return nil
}
