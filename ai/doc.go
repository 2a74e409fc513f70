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


// Package ai provides abstractions for the model services Recall depends on.
//
// This package defines interfaces for embedding generation and for the
// answer-generation collaborator that consumes search results. It follows
// the dependency inversion principle: the indexing pipeline and the
// searcher depend on these abstractions, never on a concrete provider.
//
// # Interfaces
//
//   - Embedder: turns text into fixed-dimension vectors and reports which
//     model produced them
//   - Generator: turns a query plus retrieved chunks into a grounded answer
//     with references
//
// # Implementation Packages
//
//   - ai/openai: OpenAI-compatible APIs via langchaingo (also serves Ollama's
//     /v1 compatibility endpoint)
//   - ai/ollama: Ollama's native embeddings API over plain HTTP
//   - ai/bedrock: AWS Bedrock Titan and Cohere embedding models
//   - ai/mock: deterministic test doubles, no network
//
// Provider selection from a Config happens in the recall root package,
// keeping this package free of dependencies on its own subpackages.
//
// # Error Classification
//
// Provider failures are reported as *ProviderError. The Transient flag
// tells callers whether retrying can help: rate limiting, 5xx responses,
// and timeouts are transient; malformed requests and authentication
// failures are not. The indexing pipeline retries transient errors with
// backoff and aborts on everything else.
//
// # Usage Example
//
//	cfg := ai.NewConfig(
//	    ai.WithProvider(ai.ProviderOllama),
//	    ai.WithModel("nomic-embed-text"),
//	    ai.WithDimension(768),
//	)
//	embedder, err := ollama.NewEmbedder(cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	vector, err := embedder.EmbedText(ctx, "hybrid search")
package ai
