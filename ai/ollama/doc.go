// Package ollama implements ai.Embedder over Ollama's native embeddings
// API with plain net/http.
//
// Unlike the openai package, which talks to Ollama through its /v1
// compatibility layer, this client uses POST /api/embeddings directly.
// The native API accepts one prompt per request, so batches are embedded
// sequentially; for a local server the round trips are cheap and the model
// is the bottleneck anyway.
package ollama
