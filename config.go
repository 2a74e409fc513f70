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


package recall

import (
	"fmt"
	"os"
	"strconv"

	"github.com/pelletier/go-toml/v2"

	"github.com/poiesic/recall/ai"
)

// Config holds engine configuration: where content lives, where the
// document library and bundle are stored, and how embeddings are produced.
type Config struct {
	// ContentDir is the markdown post directory for filesystem loads.
	ContentDir string `toml:"content_dir"`

	// LibraryPath is the badger document library location. Empty means an
	// in-memory library, which suits tests and one-shot builds.
	LibraryPath string `toml:"library_path"`

	// BundlePath is where the index bundle is published: a local file path
	// or an "s3://bucket/key" location.
	BundlePath string `toml:"bundle_path"`

	// AWSRegion is used for S3 bundle stores and the bedrock provider.
	AWSRegion string `toml:"aws_region"`

	Embedding EmbeddingConfig `toml:"embedding"`
}

// EmbeddingConfig mirrors ai.Config for the TOML file.
type EmbeddingConfig struct {
	Provider          string  `toml:"provider"`
	Host              string  `toml:"host"`
	Model             string  `toml:"model"`
	Dimension         int     `toml:"dimension"`
	BatchSize         int     `toml:"batch_size"`
	RequestsPerSecond float64 `toml:"requests_per_second"`
}

// DefaultConfig returns the zero-setup configuration: local content and
// data directories, a local Ollama embedder.
func DefaultConfig() *Config {
	base := ai.DefaultConfig()
	return &Config{
		ContentDir:  "content/posts",
		LibraryPath: "data/library",
		BundlePath:  "data/index.bundle",
		AWSRegion:   base.Region,
		Embedding: EmbeddingConfig{
			Provider:  base.Provider,
			Host:      base.Host,
			Model:     base.Model,
			Dimension: base.Dimension,
			BatchSize: base.BatchSize,
		},
	}
}

// LoadConfig reads engine configuration from a TOML file, layering
// environment overrides on top. An empty path skips the file and yields
// defaults plus environment.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	}

	cfg.applyEnv()
	return cfg, nil
}

// applyEnv overlays the environment variables deployments already set.
func (c *Config) applyEnv() {
	if v := os.Getenv("CONTENT_DIR"); v != "" {
		c.ContentDir = v
	}
	if v := os.Getenv("EMBEDDING_PROVIDER"); v != "" {
		c.Embedding.Provider = v
	}
	if v := os.Getenv("EMBEDDING_MODEL"); v != "" {
		c.Embedding.Model = v
	}
	if v := os.Getenv("EMBEDDING_DIMENSION"); v != "" {
		if d, err := strconv.Atoi(v); err == nil && d > 0 {
			c.Embedding.Dimension = d
		}
	}
	if v := os.Getenv("OLLAMA_HOST"); v != "" {
		c.Embedding.Host = v
	}
	if v := os.Getenv("AWS_REGION"); v != "" {
		c.AWSRegion = v
	}
}

// AIConfig assembles the provider configuration the ai package consumes.
func (c *Config) AIConfig() *ai.Config {
	return ai.NewConfig(
		ai.WithProvider(c.Embedding.Provider),
		ai.WithHost(c.Embedding.Host),
		ai.WithModel(c.Embedding.Model),
		ai.WithDimension(c.Embedding.Dimension),
		ai.WithBatchSize(c.Embedding.BatchSize),
		ai.WithRequestsPerSecond(c.Embedding.RequestsPerSecond),
		ai.WithRegion(c.AWSRegion),
	)
}
