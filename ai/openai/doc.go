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


// Package openai implements ai.Embedder over OpenAI-compatible embedding
// APIs using the langchaingo client.
//
// Any service speaking the OpenAI embeddings protocol works: the hosted
// OpenAI API, Ollama's /v1 compatibility layer, LocalAI, vLLM. The API key
// is read from OPENAI_API_KEY; local services that ignore authentication
// need none.
//
// # Usage
//
//	cfg := ai.NewConfig(
//	    ai.WithProvider(ai.ProviderOpenAI),
//	    ai.WithHost("https://api.openai.com"),  // /v1 added automatically
//	    ai.WithModel("text-embedding-3-small"),
//	    ai.WithDimension(1536),
//	    ai.WithRequestsPerSecond(5),
//	)
//	embedder, err := openai.NewEmbedder(cfg)
package openai
