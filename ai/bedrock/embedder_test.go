package bedrock

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/recall/ai"
)

type stubInvoker struct {
	invoke func(params *bedrockruntime.InvokeModelInput) (*bedrockruntime.InvokeModelOutput, error)
	calls  int
}

func (s *stubInvoker) InvokeModel(ctx context.Context, params *bedrockruntime.InvokeModelInput, optFns ...func(*bedrockruntime.Options)) (*bedrockruntime.InvokeModelOutput, error) {
	s.calls++
	return s.invoke(params)
}

func testEmbedder(model string, family modelFamily, dim, batchSize int, stub *stubInvoker) *Embedder {
	return &Embedder{
		client:    stub,
		model:     model,
		family:    family,
		dim:       dim,
		batchSize: batchSize,
		logger:    slog.Default(),
	}
}

func TestFamilyFor(t *testing.T) {
	family, err := familyFor("amazon.titan-embed-text-v2:0")
	require.NoError(t, err)
	assert.Equal(t, familyTitan, family)

	family, err = familyFor("cohere.embed-english-v3")
	require.NoError(t, err)
	assert.Equal(t, familyCohere, family)

	_, err = familyFor("anthropic.claude-3-haiku")
	assert.Error(t, err)
}

func TestEmbedder_Titan(t *testing.T) {
	stub := &stubInvoker{
		invoke: func(params *bedrockruntime.InvokeModelInput) (*bedrockruntime.InvokeModelOutput, error) {
			var req titanRequest
			require.NoError(t, json.Unmarshal(params.Body, &req))
			assert.NotEmpty(t, req.InputText)
			assert.Equal(t, "amazon.titan-embed-text-v2:0", *params.ModelId)

			return &bedrockruntime.InvokeModelOutput{
				Body: []byte(`{"embedding":[0.1,0.2,0.3]}`),
			}, nil
		},
	}
	embedder := testEmbedder("amazon.titan-embed-text-v2:0", familyTitan, 3, 32, stub)

	vectors, err := embedder.EmbedTexts(context.Background(), []string{"first", "second"})
	require.NoError(t, err)

	assert.Len(t, vectors, 2)
	assert.Equal(t, []float32{0.1, 0.2, 0.3}, vectors[0])
	// Titan takes one text per request.
	assert.Equal(t, 2, stub.calls)
}

func TestEmbedder_CohereBatches(t *testing.T) {
	var batchSizes []int
	stub := &stubInvoker{
		invoke: func(params *bedrockruntime.InvokeModelInput) (*bedrockruntime.InvokeModelOutput, error) {
			var req cohereRequest
			require.NoError(t, json.Unmarshal(params.Body, &req))
			assert.Equal(t, "search_document", req.InputType)
			batchSizes = append(batchSizes, len(req.Texts))

			vectors := make([][]float32, len(req.Texts))
			for i := range vectors {
				vectors[i] = []float32{1, 0}
			}
			body, err := json.Marshal(cohereResponse{Embeddings: vectors})
			require.NoError(t, err)

			return &bedrockruntime.InvokeModelOutput{Body: body}, nil
		},
	}
	embedder := testEmbedder("cohere.embed-english-v3", familyCohere, 2, 2, stub)

	vectors, err := embedder.EmbedTexts(context.Background(), []string{"a", "b", "c"})
	require.NoError(t, err)

	assert.Len(t, vectors, 3)
	assert.Equal(t, []int{2, 1}, batchSizes)
}

func TestEmbedder_DimensionMismatch(t *testing.T) {
	stub := &stubInvoker{
		invoke: func(params *bedrockruntime.InvokeModelInput) (*bedrockruntime.InvokeModelOutput, error) {
			return &bedrockruntime.InvokeModelOutput{Body: []byte(`{"embedding":[0.1]}`)}, nil
		},
	}
	embedder := testEmbedder("amazon.titan-embed-text-v2:0", familyTitan, 1024, 32, stub)

	_, err := embedder.EmbedText(context.Background(), "text")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "dimensions")
}

func TestEmbedder_ThrottlingIsTransient(t *testing.T) {
	stub := &stubInvoker{
		invoke: func(params *bedrockruntime.InvokeModelInput) (*bedrockruntime.InvokeModelOutput, error) {
			return nil, errors.New("ThrottlingException: rate exceeded")
		},
	}
	embedder := testEmbedder("amazon.titan-embed-text-v2:0", familyTitan, 3, 32, stub)

	_, err := embedder.EmbedText(context.Background(), "text")
	require.Error(t, err)
	assert.True(t, ai.IsTransient(err))
}

func TestEmbedder_EmptyInput(t *testing.T) {
	embedder := testEmbedder("amazon.titan-embed-text-v2:0", familyTitan, 3, 32, &stubInvoker{})

	_, err := embedder.EmbedTexts(context.Background(), nil)
	assert.ErrorIs(t, err, ai.ErrEmptyInput)
}
