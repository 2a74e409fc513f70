package search

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/poiesic/recall/ai/mock"
	"github.com/poiesic/recall/core"
	"github.com/poiesic/recall/index"
	"github.com/poiesic/recall/sparse"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testCorpus builds a three-chunk bundle with vectors produced by the
// embedder's default deterministic behavior.
func testCorpus(t *testing.T, embedder *mock.MockEmbedder) *index.Bundle {
	t.Helper()

	chunks := []core.Chunk{
		{
			Id:            core.IDFromContent("RAG hybrid search using BM25"),
			DocumentSlug:  "rag-retrieval",
			DocumentTitle: "Retrieval for RAG Pipelines",
			Heading:       "Hybrid Search",
			Ordinal:       0,
			TokenCount:    5,
			Tags:          []string{"RAG", "AI"},
			Fragment:      "#hybrid-search",
			Content:       "RAG hybrid search using BM25",
		},
		{
			Id:            core.IDFromContent("deploying Lambda functions to AWS"),
			DocumentSlug:  "lambda-deploys",
			DocumentTitle: "Shipping Serverless",
			Ordinal:       0,
			TokenCount:    5,
			Tags:          []string{"AWS"},
			Content:       "deploying Lambda functions to AWS",
		},
		{
			Id:            core.IDFromContent("React frontend components for blogs"),
			DocumentSlug:  "react-blogs",
			DocumentTitle: "Blog Frontends in React",
			Heading:       "Components",
			Ordinal:       0,
			TokenCount:    5,
			Tags:          []string{"frontend"},
			Fragment:      "#components",
			Content:       "React frontend components for blogs",
		},
	}

	texts := make([]string, len(chunks))
	for i, chunk := range chunks {
		texts[i] = chunk.Content
	}
	stats, err := sparse.Build(texts)
	require.NoError(t, err)

	ctx := context.Background()
	vectors := make([][]float32, len(chunks))
	for i, text := range texts {
		vectors[i], err = embedder.EmbedText(ctx, text)
		require.NoError(t, err)
	}

	return &index.Bundle{
		Summary: core.IndexSummary{
			BuildId:       "test-build",
			ModelId:       embedder.ModelId(),
			Dimension:     embedder.Dimension(),
			BuiltAt:       time.UnixMicro(1756100000000000),
			DocumentCount: 3,
			ChunkCount:    len(chunks),
			Tags:          []string{"AI", "AWS", "RAG", "frontend"},
		},
		Chunks:  chunks,
		Vectors: vectors,
		Sparse:  stats,
	}
}

// emptyCorpus builds a valid bundle over zero documents.
func emptyCorpus(t *testing.T, embedder *mock.MockEmbedder) *index.Bundle {
	t.Helper()

	stats, err := sparse.Build(nil)
	require.NoError(t, err)

	return &index.Bundle{
		Summary: core.IndexSummary{
			BuildId:   "empty-build",
			ModelId:   embedder.ModelId(),
			Dimension: embedder.Dimension(),
			BuiltAt:   time.UnixMicro(1756100000000000),
		},
		Sparse: stats,
	}
}

func TestNewSearcher(t *testing.T) {
	embedder := mock.NewMockEmbedder()
	bundle := testCorpus(t, embedder)

	t.Run("valid configuration", func(t *testing.T) {
		searcher, err := NewSearcher(bundle, embedder)
		require.NoError(t, err)
		assert.NotNil(t, searcher)
	})

	t.Run("with custom logger", func(t *testing.T) {
		searcher, err := NewSearcher(bundle, embedder, WithLogger(slog.Default()))
		require.NoError(t, err)
		assert.NotNil(t, searcher)
	})

	t.Run("with nil logger falls back to default", func(t *testing.T) {
		searcher, err := NewSearcher(bundle, embedder, WithLogger(nil))
		require.NoError(t, err)
		assert.NotNil(t, searcher)
	})

	t.Run("nil bundle", func(t *testing.T) {
		_, err := NewSearcher(nil, embedder)
		assert.Equal(t, ErrBundleRequired, err)
	})

	t.Run("nil embedder", func(t *testing.T) {
		_, err := NewSearcher(bundle, nil)
		assert.Equal(t, ErrEmbedderRequired, err)
	})

	t.Run("model mismatch", func(t *testing.T) {
		other := mock.NewMockEmbedder()
		other.Model = "someone-elses-model"

		_, err := NewSearcher(bundle, other)
		require.Error(t, err)

		var mismatch *ConfigurationMismatchError
		require.ErrorAs(t, err, &mismatch)
		assert.Equal(t, "model", mismatch.Field)
	})

	t.Run("dimension mismatch", func(t *testing.T) {
		// Bundle built at 1024 dimensions, query-time embedder at 384.
		wide := mock.NewMockEmbedderWithDimension(1024)
		wideBundle := testCorpus(t, wide)

		_, err := NewSearcher(wideBundle, mock.NewMockEmbedder())
		require.Error(t, err)

		var mismatch *ConfigurationMismatchError
		require.ErrorAs(t, err, &mismatch)
		assert.Equal(t, "dimension", mismatch.Field)
		assert.Equal(t, "1024", mismatch.Want)
		assert.Equal(t, "384", mismatch.Got)
	})

	t.Run("invalid bundle", func(t *testing.T) {
		broken := testCorpus(t, embedder)
		broken.Vectors = broken.Vectors[:1]

		_, err := NewSearcher(broken, embedder)
		require.Error(t, err)

		var validation *index.ValidationError
		assert.ErrorAs(t, err, &validation)
	})

	t.Run("invalid embed timeout", func(t *testing.T) {
		_, err := NewSearcher(bundle, embedder, WithEmbedTimeout(0))
		assert.Error(t, err)
	})

	t.Run("invalid rrf constant", func(t *testing.T) {
		_, err := NewSearcher(bundle, embedder, WithRRFConstant(0))
		assert.Error(t, err)
	})
}

func TestSearch_RanksLexicalMatchFirst(t *testing.T) {
	embedder := mock.NewMockEmbedder()
	bundle := testCorpus(t, embedder)

	searcher, err := NewSearcher(bundle, embedder)
	require.NoError(t, err)

	results, err := searcher.Search(context.Background(), "BM25 search ranking", WithTopK(2))
	require.NoError(t, err)
	require.Len(t, results, 2)

	// The only chunk with lexical overlap appears in both rankings and
	// must outrank everything that is dense-only.
	assert.Equal(t, "rag-retrieval", results[0].Chunk.DocumentSlug)
	assert.Equal(t, core.MatchSourceHybrid, results[0].Source)
	assert.Equal(t, core.MatchSourceDense, results[1].Source)
	assert.Greater(t, results[0].Score, results[1].Score)
}

func TestSearch_DefaultTopK(t *testing.T) {
	embedder := mock.NewMockEmbedder()
	bundle := testCorpus(t, embedder)

	searcher, err := NewSearcher(bundle, embedder)
	require.NoError(t, err)

	results, err := searcher.Search(context.Background(), "hybrid search")
	require.NoError(t, err)
	assert.Len(t, results, 3)

	// Results should be sorted by score
	for i := 0; i < len(results)-1; i++ {
		assert.GreaterOrEqual(t, results[i].Score, results[i+1].Score)
	}
}

func TestSearch_TagFilter(t *testing.T) {
	embedder := mock.NewMockEmbedder()
	bundle := testCorpus(t, embedder)

	searcher, err := NewSearcher(bundle, embedder)
	require.NoError(t, err)

	ctx := context.Background()

	t.Run("single tag restricts universe", func(t *testing.T) {
		// Only the AWS chunk is eligible, regardless of query text.
		results, err := searcher.Search(ctx, "BM25 search ranking", WithTags("AWS"))
		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.Equal(t, "lambda-deploys", results[0].Chunk.DocumentSlug)
		assert.Equal(t, core.MatchSourceDense, results[0].Source)
	})

	t.Run("or semantics across filter tags", func(t *testing.T) {
		// A chunk tagged {RAG,AI} matches the filter {AI,frontend} on the
		// shared tag alone.
		results, err := searcher.Search(ctx, "building things", WithTags("AI", "frontend"))
		require.NoError(t, err)
		require.Len(t, results, 2)

		slugs := []string{results[0].Chunk.DocumentSlug, results[1].Chunk.DocumentSlug}
		assert.ElementsMatch(t, []string{"rag-retrieval", "react-blogs"}, slugs)
	})

	t.Run("no chunk carries filter tags", func(t *testing.T) {
		embedder.Reset()

		results, err := searcher.Search(ctx, "anything", WithTags("database", "kubernetes"))
		require.NoError(t, err)
		assert.NotNil(t, results)
		assert.Empty(t, results)

		// An empty universe never spends an embedding call.
		assert.Zero(t, embedder.CallCount())
	})
}

func TestSearch_DegenerateLexicalOnly(t *testing.T) {
	embedder := mock.NewMockEmbedder()
	bundle := testCorpus(t, embedder)

	// Point the query embedding at the React chunk so the semantic ranking
	// actively disagrees with the lexical match.
	reactVector := bundle.Vectors[2]
	embedder.EmbedTextFunc = func(ctx context.Context, text string) ([]float32, error) {
		return reactVector, nil
	}

	searcher, err := NewSearcher(bundle, embedder)
	require.NoError(t, err)

	results, err := searcher.Search(context.Background(), "hybrid search using BM25")
	require.NoError(t, err)
	require.NotEmpty(t, results)

	// The lexical match collects contributions from both lists; the chunk
	// the embedding favors appears in only one.
	assert.Equal(t, "rag-retrieval", results[0].Chunk.DocumentSlug)
}

func TestSearch_Determinism(t *testing.T) {
	embedder := mock.NewMockEmbedder()
	bundle := testCorpus(t, embedder)

	searcher, err := NewSearcher(bundle, embedder)
	require.NoError(t, err)

	ctx := context.Background()

	first, err := searcher.Search(ctx, "BM25 search ranking", WithTopK(3))
	require.NoError(t, err)
	second, err := searcher.Search(ctx, "BM25 search ranking", WithTopK(3))
	require.NoError(t, err)

	require.Equal(t, first, second)
}

func TestSearch_TieBreaksByPosition(t *testing.T) {
	embedder := mock.NewMockEmbedder()

	// Two chunks with identical content produce identical vectors and
	// identical keyword statistics.
	texts := []string{"gopher burrows and tunnels", "gopher burrows and tunnels"}
	chunks := []core.Chunk{
		{Id: core.IDFromContent("dup-a"), DocumentSlug: "dup-a", DocumentTitle: "First", Content: texts[0]},
		{Id: core.IDFromContent("dup-b"), DocumentSlug: "dup-b", DocumentTitle: "Second", Content: texts[1]},
	}

	stats, err := sparse.Build(texts)
	require.NoError(t, err)

	ctx := context.Background()
	vectors := make([][]float32, len(texts))
	for i, text := range texts {
		vectors[i], err = embedder.EmbedText(ctx, text)
		require.NoError(t, err)
	}

	bundle := &index.Bundle{
		Summary: core.IndexSummary{
			BuildId:       "tie-build",
			ModelId:       embedder.ModelId(),
			Dimension:     embedder.Dimension(),
			BuiltAt:       time.UnixMicro(1756100000000000),
			DocumentCount: 2,
			ChunkCount:    2,
		},
		Chunks:  chunks,
		Vectors: vectors,
		Sparse:  stats,
	}

	searcher, err := NewSearcher(bundle, embedder)
	require.NoError(t, err)

	results, err := searcher.Search(ctx, "gopher tunnels")
	require.NoError(t, err)
	require.Len(t, results, 2)

	// Equal raw scores resolve by bundle position in every ranking.
	assert.Equal(t, "dup-a", results[0].Chunk.DocumentSlug)
	assert.Equal(t, "dup-b", results[1].Chunk.DocumentSlug)
	assert.GreaterOrEqual(t, results[0].Score, results[1].Score)
}

func TestSearch_EmptyCorpus(t *testing.T) {
	embedder := mock.NewMockEmbedder()
	bundle := emptyCorpus(t, embedder)

	searcher, err := NewSearcher(bundle, embedder)
	require.NoError(t, err)

	results, err := searcher.Search(context.Background(), "anything at all")
	require.NoError(t, err)
	assert.NotNil(t, results)
	assert.Empty(t, results)
	assert.Zero(t, embedder.CallCount())
}

func TestSearch_EmbedTimeout(t *testing.T) {
	embedder := mock.NewMockEmbedder()
	bundle := testCorpus(t, embedder)

	embedder.EmbedTextFunc = func(ctx context.Context, text string) ([]float32, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	}

	searcher, err := NewSearcher(bundle, embedder, WithEmbedTimeout(5*time.Millisecond))
	require.NoError(t, err)

	_, err = searcher.Search(context.Background(), "slow query")
	require.Error(t, err)

	var timeout *QueryTimeoutError
	require.ErrorAs(t, err, &timeout)
	assert.Equal(t, "embed", timeout.Stage)
	assert.Greater(t, timeout.Elapsed, time.Duration(0))
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestSearch_MinScore(t *testing.T) {
	embedder := mock.NewMockEmbedder()
	bundle := testCorpus(t, embedder)

	searcher, err := NewSearcher(bundle, embedder)
	require.NoError(t, err)

	ctx := context.Background()

	t.Run("cutoff above any fused score empties the result", func(t *testing.T) {
		// Fused scores over two candidate lists never reach 1.0.
		results, err := searcher.Search(ctx, "BM25 search ranking", WithMinScore(1.0))
		require.NoError(t, err)
		assert.NotNil(t, results)
		assert.Empty(t, results)
	})

	t.Run("no overlap still ranks without a cutoff", func(t *testing.T) {
		results, err := searcher.Search(ctx, "xylophone zeppelin")
		require.NoError(t, err)
		require.Len(t, results, 3)

		for _, result := range results {
			assert.Equal(t, core.MatchSourceDense, result.Source)
		}
	})
}

func TestSearch_RerankKeepsCut(t *testing.T) {
	embedder := mock.NewMockEmbedder()
	bundle := testCorpus(t, embedder)

	searcher, err := NewSearcher(bundle, embedder)
	require.NoError(t, err)

	ctx := context.Background()
	query := "React components for hybrid search blogs"

	plain, err := searcher.Search(ctx, query, WithTopK(2))
	require.NoError(t, err)
	reranked, err := searcher.Search(ctx, query, WithTopK(2), WithRerank(true))
	require.NoError(t, err)

	require.Len(t, reranked, len(plain))

	// Reranking may reorder the cut but never changes membership, and the
	// reported scores stay the fused scores.
	fusedScores := make(map[core.ID]float32, len(plain))
	for _, result := range plain {
		fusedScores[result.Chunk.Id] = result.Score
	}
	for _, result := range reranked {
		fused, ok := fusedScores[result.Chunk.Id]
		require.True(t, ok, "rerank changed which chunks made the cut")
		assert.Equal(t, fused, result.Score)
	}
}

func TestSearch_TopKClamped(t *testing.T) {
	embedder := mock.NewMockEmbedder()
	bundle := testCorpus(t, embedder)

	searcher, err := NewSearcher(bundle, embedder)
	require.NoError(t, err)

	results, err := searcher.Search(context.Background(), "hybrid search", WithTopK(500))
	require.NoError(t, err)
	assert.LessOrEqual(t, len(results), MaxTopK)
}

func TestSearch_InvalidOptions(t *testing.T) {
	embedder := mock.NewMockEmbedder()
	bundle := testCorpus(t, embedder)

	searcher, err := NewSearcher(bundle, embedder)
	require.NoError(t, err)

	ctx := context.Background()

	t.Run("zero top k", func(t *testing.T) {
		_, err := searcher.Search(ctx, "query", WithTopK(0))
		assert.ErrorContains(t, err, "invalid search option")
	})

	t.Run("zero candidate multiplier", func(t *testing.T) {
		_, err := searcher.Search(ctx, "query", WithCandidateMultiplier(0))
		assert.ErrorContains(t, err, "invalid search option")
	})

	t.Run("negative min score", func(t *testing.T) {
		_, err := searcher.Search(ctx, "query", WithMinScore(-0.5))
		assert.ErrorContains(t, err, "invalid search option")
	})
}

func TestSearchWithMonitor(t *testing.T) {
	embedder := mock.NewMockEmbedder()
	bundle := testCorpus(t, embedder)

	searcher, err := NewSearcher(bundle, embedder)
	require.NoError(t, err)

	monitor := &stageMonitor{}

	results, err := searcher.SearchWithMonitor(context.Background(), "BM25 search ranking", monitor, WithRerank(true))
	require.NoError(t, err)
	assert.NotEmpty(t, results)

	assert.Equal(t, []string{
		"start", "filter", "embed", "dense", "sparse", "fuse", "rerank", "finish",
	}, monitor.stages)
	assert.Equal(t, uint64(3), monitor.candidates)
	assert.Len(t, monitor.finished, len(results))
}

// stageMonitor records the order of pipeline callbacks.
type stageMonitor struct {
	stages     []string
	candidates uint64
	finished   []core.SearchResult
}

func (m *stageMonitor) Start(query string) {
	m.stages = append(m.stages, "start")
}

func (m *stageMonitor) AfterCandidateFilter(tags []string, candidates uint64) {
	m.stages = append(m.stages, "filter")
	m.candidates = candidates
}

func (m *stageMonitor) AfterEmbedding(elapsed time.Duration) {
	m.stages = append(m.stages, "embed")
}

func (m *stageMonitor) AfterDenseRanking(hits []RankedChunk) {
	m.stages = append(m.stages, "dense")
}

func (m *stageMonitor) AfterSparseRanking(hits []RankedChunk) {
	m.stages = append(m.stages, "sparse")
}

func (m *stageMonitor) AfterFusion(hits []RankedChunk) {
	m.stages = append(m.stages, "fuse")
}

func (m *stageMonitor) AfterRerank(hits []RankedChunk) {
	m.stages = append(m.stages, "rerank")
}

func (m *stageMonitor) Finish(results []core.SearchResult) {
	m.stages = append(m.stages, "finish")
	m.finished = results
}

func TestReferences(t *testing.T) {
	embedder := mock.NewMockEmbedder()
	bundle := testCorpus(t, embedder)

	searcher, err := NewSearcher(bundle, embedder)
	require.NoError(t, err)

	results, err := searcher.Search(context.Background(), "BM25 search ranking", WithTopK(2))
	require.NoError(t, err)
	require.Len(t, results, 2)

	refs := References(results)
	require.Len(t, refs, 2)

	assert.Equal(t, results[0].Chunk.Id, refs[0].ChunkId)
	assert.Equal(t, "Retrieval for RAG Pipelines", refs[0].Title)
	assert.Equal(t, "rag-retrieval", refs[0].Slug)
	assert.Equal(t, "Hybrid Search", refs[0].Heading)
	assert.Equal(t, "/rag-retrieval#hybrid-search", refs[0].URL)
}

func TestReferences_Empty(t *testing.T) {
	refs := References(nil)
	assert.NotNil(t, refs)
	assert.Empty(t, refs)
}
