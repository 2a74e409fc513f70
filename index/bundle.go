package index

import (
	"fmt"

	"github.com/poiesic/recall/core"
	"github.com/poiesic/recall/sparse"
)

// Bundle is the complete serving artifact of one build: every chunk in the
// corpus, the embedding vector for each chunk, and the keyword statistics
// computed over the same corpus. Chunks, vectors, and statistics positions
// are aligned: Vectors[i] and statistics position i belong to Chunks[i].
//
// A bundle is immutable once built. The search layer reads it concurrently
// without locking; nothing may mutate it after Validate has passed.
type Bundle struct {
	Summary core.IndexSummary
	Chunks  []core.Chunk
	Vectors [][]float32
	Sparse  *sparse.Stats
}

// Validate checks the bundle's internal consistency. It returns a
// ValidationError when the bundle cannot be served: misaligned chunk,
// vector, or statistics counts, vectors that disagree with the recorded
// dimension, or a missing model identity.
func (b *Bundle) Validate() error {
	if b.Sparse == nil {
		return &ValidationError{Reason: "missing keyword statistics"}
	}
	if len(b.Vectors) != len(b.Chunks) {
		return &ValidationError{
			Reason: fmt.Sprintf("%d chunks but %d vectors", len(b.Chunks), len(b.Vectors)),
		}
	}
	if b.Sparse.ChunkCount() != len(b.Chunks) {
		return &ValidationError{
			Reason: fmt.Sprintf("%d chunks but keyword statistics cover %d", len(b.Chunks), b.Sparse.ChunkCount()),
		}
	}
	if b.Summary.ChunkCount != len(b.Chunks) {
		return &ValidationError{
			Reason: fmt.Sprintf("summary records %d chunks, bundle holds %d", b.Summary.ChunkCount, len(b.Chunks)),
		}
	}
	if b.Summary.ModelId == "" {
		return &ValidationError{Reason: "missing embedding model id"}
	}
	if b.Summary.Dimension <= 0 {
		return &ValidationError{
			Reason: fmt.Sprintf("non-positive dimension %d", b.Summary.Dimension),
		}
	}
	for i, vector := range b.Vectors {
		if len(vector) != b.Summary.Dimension {
			return &ValidationError{
				Reason: fmt.Sprintf("vector %d has %d dimensions, summary records %d", i, len(vector), b.Summary.Dimension),
			}
		}
	}
	return nil
}
