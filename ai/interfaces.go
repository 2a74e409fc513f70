package ai

import (
	"context"

	"github.com/poiesic/recall/core"
)

// Embedder generates vector embeddings from text for semantic similarity search.
// Implementations must be thread-safe for concurrent use.
type Embedder interface {
	// EmbedText generates a vector embedding for a single text string.
	// The returned vector represents the semantic meaning of the text.
	// Returns an error if the embedding generation fails.
	EmbedText(ctx context.Context, text string) ([]float32, error)

	// EmbedTexts generates vector embeddings for multiple text strings in a batch.
	// Batch processing is more efficient than calling EmbedText multiple times.
	// The returned slice contains embeddings in the same order as the input texts.
	// Returns an error if any embedding generation fails.
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)

	// ModelId returns the identifier of the model producing the vectors.
	// An index records this at build time; searching with a different model
	// is rejected rather than silently producing garbage rankings.
	ModelId() string

	// Dimension returns the length of every vector this embedder produces.
	Dimension() int
}

// Generator produces a grounded answer to a query from retrieved chunks.
// It is the collaborator that sits after search: Recall hands it the query
// and the top-ranked chunks, and it returns prose plus the references the
// prose draws on. Implementations must be thread-safe for concurrent use.
type Generator interface {
	// Generate answers the query using only the provided chunks as source
	// material. The returned answer carries references for every chunk the
	// text draws on. Returns an error if generation fails; it must not
	// fabricate an answer from an empty chunk list.
	Generate(ctx context.Context, query string, chunks []core.Chunk) (*Answer, error)
}

// Answer is a generated response grounded in retrieved content.
type Answer struct {
	// Text is the generated prose.
	Text string

	// References identify the chunks the text is grounded in, in the order
	// they were consulted.
	References []core.Reference
}
