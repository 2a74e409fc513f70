package search

import (
	"time"

	"github.com/poiesic/recall/core"
)

// RankedChunk is one scored chunk position in an intermediate ranking.
// The score meaning depends on the stage: cosine similarity for dense,
// BM25 for sparse, fused RRF afterwards.
type RankedChunk struct {
	Pos   int
	Score float64
}

// SearchMonitor provides hooks to observe the search pipeline.
// Implement this interface to track intermediate rankings during a query.
type SearchMonitor interface {
	Start(query string)
	AfterCandidateFilter(tags []string, candidates uint64)
	AfterEmbedding(elapsed time.Duration)
	AfterDenseRanking(hits []RankedChunk)
	AfterSparseRanking(hits []RankedChunk)
	AfterFusion(hits []RankedChunk)
	// AfterRerank fires only when reranking is enabled for the query.
	AfterRerank(hits []RankedChunk)
	Finish(results []core.SearchResult)
}

// noopMonitor is a no-op implementation of SearchMonitor
type noopMonitor struct{}

var _ SearchMonitor = (*noopMonitor)(nil)

func (n *noopMonitor) Start(_ string)                            {}
func (n *noopMonitor) AfterCandidateFilter(_ []string, _ uint64) {}
func (n *noopMonitor) AfterEmbedding(_ time.Duration)            {}
func (n *noopMonitor) AfterDenseRanking(_ []RankedChunk)         {}
func (n *noopMonitor) AfterSparseRanking(_ []RankedChunk)        {}
func (n *noopMonitor) AfterFusion(_ []RankedChunk)               {}
func (n *noopMonitor) AfterRerank(_ []RankedChunk)               {}
func (n *noopMonitor) Finish(_ []core.SearchResult)              {}
