package mock

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/poiesic/recall/ai"
	"github.com/poiesic/recall/core"
)

// MockGenerator is a test double for ai.Generator.
// It allows custom behavior injection via a function field.
type MockGenerator struct {
	// GenerateFunc is called by Generate if set.
	// If nil, uses default deterministic behavior.
	GenerateFunc func(ctx context.Context, query string, chunks []core.Chunk) (*ai.Answer, error)

	callCount atomic.Int64
}

var _ ai.Generator = (*MockGenerator)(nil)

// NewMockGenerator creates a mock generator with default deterministic behavior.
// Note: Returns concrete type to allow test assertions and field injection.
func NewMockGenerator() *MockGenerator {
	return &MockGenerator{}
}

// Generate produces a canned answer that cites every provided chunk, in
// order. It refuses an empty chunk list the way the contract demands.
func (m *MockGenerator) Generate(ctx context.Context, query string, chunks []core.Chunk) (*ai.Answer, error) {
	m.callCount.Add(1)

	if m.GenerateFunc != nil {
		return m.GenerateFunc(ctx, query, chunks)
	}

	if len(chunks) == 0 {
		return nil, ai.ErrNoChunks
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Answering %q from %d sources.", query, len(chunks))

	references := make([]core.Reference, len(chunks))
	for i, chunk := range chunks {
		references[i] = core.Reference{
			ChunkId: chunk.Id,
			Title:   chunk.DocumentTitle,
			Slug:    chunk.DocumentSlug,
			Heading: chunk.Heading,
			URL:     core.ReferenceURL(&chunk),
		}
		fmt.Fprintf(&b, " [%d] %s", i+1, chunk.DocumentTitle)
	}

	return &ai.Answer{Text: b.String(), References: references}, nil
}

// CallCount returns the number of times Generate was called.
func (m *MockGenerator) CallCount() int {
	return int(m.callCount.Load())
}

// Reset clears the call count and any injected behavior.
func (m *MockGenerator) Reset() {
	m.callCount.Store(0)
	m.GenerateFunc = nil
}
