package mock

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMockEmbedder_Deterministic(t *testing.T) {
	embedder := NewMockEmbedder()
	ctx := context.Background()

	first, err := embedder.EmbedText(ctx, "hybrid search")
	require.NoError(t, err)
	second, err := embedder.EmbedText(ctx, "hybrid search")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Len(t, first, DefaultDimension)

	other, err := embedder.EmbedText(ctx, "something else")
	require.NoError(t, err)
	assert.NotEqual(t, first, other)
}

func TestMockEmbedder_UnitLength(t *testing.T) {
	embedder := NewMockEmbedder()

	vector, err := embedder.EmbedText(context.Background(), "normalize me")
	require.NoError(t, err)

	var sumSquares float64
	for _, v := range vector {
		sumSquares += float64(v) * float64(v)
	}
	assert.InDelta(t, 1.0, math.Sqrt(sumSquares), 1e-3)
}

func TestMockEmbedder_CustomDimension(t *testing.T) {
	embedder := NewMockEmbedderWithDimension(1024)

	assert.Equal(t, 1024, embedder.Dimension())

	vectors, err := embedder.EmbedTexts(context.Background(), []string{"a", "b"})
	require.NoError(t, err)
	require.Len(t, vectors, 2)
	assert.Len(t, vectors[0], 1024)
}

func TestMockEmbedder_Injection(t *testing.T) {
	embedder := NewMockEmbedder()
	boom := errors.New("boom")
	embedder.EmbedTextsFunc = func(ctx context.Context, texts []string) ([][]float32, error) {
		return nil, boom
	}

	_, err := embedder.EmbedTexts(context.Background(), []string{"a"})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, embedder.CallCount())

	embedder.Reset()
	assert.Equal(t, 0, embedder.CallCount())

	_, err = embedder.EmbedTexts(context.Background(), []string{"a"})
	assert.NoError(t, err)
}
