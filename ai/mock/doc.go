// Package mock provides test double implementations of AI service interfaces.
//
// This package contains mock implementations of ai.Embedder and ai.Generator
// for use in unit tests. The mocks allow tests to run without external model
// services and enable controlled, deterministic behavior.
//
// # Usage in Tests
//
//	// Basic usage with default behavior
//	embedder := mock.NewMockEmbedder()
//	vector, err := embedder.EmbedText(ctx, "test")
//
//	// Custom behavior injection
//	embedder.EmbedTextsFunc = func(ctx context.Context, texts []string) ([][]float32, error) {
//	    return nil, errors.New("boom")
//	}
//
//	// Check call counts
//	count := embedder.CallCount()
//
// # Default Behavior
//
//   - Embedder: returns unit-length vectors derived deterministically from a
//     hash of the text, so the same text always embeds identically
//   - Generator: stitches an answer from the provided chunks and references
//     every one of them
package mock
