package search

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"time"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/poiesic/recall/ai"
	"github.com/poiesic/recall/core"
	"github.com/poiesic/recall/index"
	"github.com/poiesic/recall/sparse"
)

const (
	// DefaultTopK is the result count when the caller does not specify one.
	DefaultTopK = 5

	// MaxTopK caps the result count; larger requests are clamped.
	MaxTopK = 20

	// DefaultCandidateMultiplier scales topK into the per-ranking candidate
	// depth fed to fusion.
	DefaultCandidateMultiplier = 2

	// minCandidates floors the candidate depth so small topK values still
	// give fusion enough list overlap to work with.
	minCandidates = 20

	// DefaultRRFConstant is the rank constant k in the fusion formula
	// 1/(k + rank + 1). The conventional value keeps a single high rank
	// from dominating chunks both rankings agree on.
	DefaultRRFConstant = 60.0

	// DefaultEmbedTimeout bounds the query embedding call.
	DefaultEmbedTimeout = 10 * time.Second
)

// Searcher ranks the chunks of one index bundle against queries. It is
// immutable after construction and safe for concurrent use.
type Searcher struct {
	bundle   *index.Bundle
	embedder ai.Embedder
	logger   *slog.Logger

	// tagIndex maps each tag to the chunk positions carrying it; all holds
	// the full corpus. Built once so filtering is a bitmap union.
	tagIndex map[string]*roaring.Bitmap
	all      *roaring.Bitmap

	embedTimeout time.Duration
	rrfK         float64
}

// Option configures a Searcher.
type Option func(*Searcher) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Searcher) error {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
		return nil
	}
}

// WithEmbedTimeout bounds how long a query embedding call may take before
// the search fails with a QueryTimeoutError.
// Default is DefaultEmbedTimeout.
func WithEmbedTimeout(d time.Duration) Option {
	return func(s *Searcher) error {
		if d <= 0 {
			return fmt.Errorf("embed timeout must be positive, got %s", d)
		}
		s.embedTimeout = d
		return nil
	}
}

// WithRRFConstant overrides the rank constant in the fusion formula.
// Larger values flatten the difference between adjacent ranks.
// Default is DefaultRRFConstant.
func WithRRFConstant(k float64) Option {
	return func(s *Searcher) error {
		if k <= 0 {
			return fmt.Errorf("rrf constant must be positive, got %g", k)
		}
		s.rrfK = k
		return nil
	}
}

// NewSearcher creates a searcher over an index bundle. The bundle is
// validated and the embedder checked against the model and dimension
// recorded in the bundle summary; a mismatch fails construction rather
// than producing garbage rankings at query time.
func NewSearcher(bundle *index.Bundle, embedder ai.Embedder, opts ...Option) (*Searcher, error) {
	if bundle == nil {
		return nil, ErrBundleRequired
	}
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}
	if err := bundle.Validate(); err != nil {
		return nil, err
	}

	if got := embedder.ModelId(); got != bundle.Summary.ModelId {
		return nil, &ConfigurationMismatchError{Field: "model", Want: bundle.Summary.ModelId, Got: got}
	}
	if got := embedder.Dimension(); got != bundle.Summary.Dimension {
		return nil, &ConfigurationMismatchError{
			Field: "dimension",
			Want:  strconv.Itoa(bundle.Summary.Dimension),
			Got:   strconv.Itoa(got),
		}
	}

	s := &Searcher{
		bundle:       bundle,
		embedder:     embedder,
		logger:       slog.Default(),
		embedTimeout: DefaultEmbedTimeout,
		rrfK:         DefaultRRFConstant,
	}

	// Apply options
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}

	s.all = roaring.New()
	if n := len(bundle.Chunks); n > 0 {
		s.all.AddRange(0, uint64(n))
	}
	s.tagIndex = make(map[string]*roaring.Bitmap)
	for pos, chunk := range bundle.Chunks {
		for _, tag := range chunk.Tags {
			bm, ok := s.tagIndex[tag]
			if !ok {
				bm = roaring.New()
				s.tagIndex[tag] = bm
			}
			bm.Add(uint32(pos))
		}
	}

	return s, nil
}

// searchRequest carries the per-query knobs, populated by SearchOptions.
type searchRequest struct {
	topK       int
	tags       []string
	rerank     bool
	minScore   float64
	multiplier int
}

// SearchOption configures a single Search call.
type SearchOption func(*searchRequest) error

// WithTopK sets how many results to return. Values above MaxTopK are
// clamped rather than rejected.
// Default is DefaultTopK.
func WithTopK(k int) SearchOption {
	return func(r *searchRequest) error {
		if k < 1 {
			return fmt.Errorf("top k must be positive, got %d", k)
		}
		r.topK = k
		return nil
	}
}

// WithTags restricts the search to chunks carrying at least one of the
// given tags. Matching is OR across the filter: over a small corpus,
// requiring every tag would too often return nothing.
func WithTags(tags ...string) SearchOption {
	return func(r *searchRequest) error {
		r.tags = tags
		return nil
	}
}

// WithRerank toggles a second relevance pass over the final cut. Reranking
// reorders the chosen chunks but never changes which chunks were chosen,
// and the reported scores stay the fused scores.
func WithRerank(enabled bool) SearchOption {
	return func(r *searchRequest) error {
		r.rerank = enabled
		return nil
	}
}

// WithMinScore drops results whose fused score falls below cutoff. The
// default of 0 keeps everything: a query with no lexical or semantic
// overlap still returns results by whatever ranking exists.
func WithMinScore(cutoff float64) SearchOption {
	return func(r *searchRequest) error {
		if cutoff < 0 {
			return fmt.Errorf("min score must be non-negative, got %g", cutoff)
		}
		r.minScore = cutoff
		return nil
	}
}

// WithCandidateMultiplier controls how deep each ranking goes before
// fusion: topK times the multiplier, never below a floor of 20. Deeper
// candidate lists give fusion more to agree on at linear extra cost.
func WithCandidateMultiplier(m int) SearchOption {
	return func(r *searchRequest) error {
		if m < 1 {
			return fmt.Errorf("candidate multiplier must be positive, got %d", m)
		}
		r.multiplier = m
		return nil
	}
}

// Search ranks chunks against the query and returns up to topK results in
// descending fused-score order. An empty result is a successful search with
// no matches; failures are always reported through the error.
func (s *Searcher) Search(ctx context.Context, query string, opts ...SearchOption) ([]core.SearchResult, error) {
	return s.SearchWithMonitor(ctx, query, nil, opts...)
}

// SearchWithMonitor ranks chunks against the query with monitoring.
// The monitor receives callbacks at each stage of the search pipeline.
func (s *Searcher) SearchWithMonitor(ctx context.Context, query string, monitor SearchMonitor, opts ...SearchOption) ([]core.SearchResult, error) {
	// Use noop monitor if none provided
	if monitor == nil {
		monitor = &noopMonitor{}
	}

	req := searchRequest{
		topK:       DefaultTopK,
		multiplier: DefaultCandidateMultiplier,
	}
	for _, opt := range opts {
		if err := opt(&req); err != nil {
			return nil, fmt.Errorf("invalid search option: %w", err)
		}
	}
	if req.topK > MaxTopK {
		req.topK = MaxTopK
	}

	monitor.Start(query)

	// 1. Resolve the candidate universe from the tag filter. Both rankings
	// must draw from this same universe or their ranks are not fusible.
	universe := s.universe(req.tags)
	monitor.AfterCandidateFilter(req.tags, universe.GetCardinality())
	if universe.IsEmpty() {
		// Nothing to rank is a successful search with no matches, and no
		// reason to spend an embedding call.
		results := []core.SearchResult{}
		monitor.Finish(results)
		return results, nil
	}

	// 2. Embed the query under the configured deadline.
	embedCtx, cancel := context.WithTimeout(ctx, s.embedTimeout)
	defer cancel()

	embedStart := time.Now()
	vector, err := s.embedder.EmbedText(embedCtx, query)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, &QueryTimeoutError{Stage: "embed", Elapsed: time.Since(embedStart), Err: err}
		}
		s.logger.Error("error embedding query", "query", query, "err", err)
		return nil, err
	}
	monitor.AfterEmbedding(time.Since(embedStart))

	if len(vector) != s.bundle.Summary.Dimension {
		return nil, fmt.Errorf("embedder returned a %d-dimensional vector, index records %d", len(vector), s.bundle.Summary.Dimension)
	}
	qvec := normalize(vector)

	// 3. Rank the universe both ways, to the same candidate depth.
	depth := req.topK * req.multiplier
	if depth < minCandidates {
		depth = minCandidates
	}

	denseHits := s.denseRank(qvec, universe, depth)
	monitor.AfterDenseRanking(denseHits)

	sparseHits := s.sparseRank(query, universe, depth)
	monitor.AfterSparseRanking(sparseHits)

	// 4. Fuse the rankings.
	ranked, sources := s.fuse(denseHits, sparseHits)
	monitor.AfterFusion(ranked)

	// 5. Apply the score cutoff, then truncate. The ranking is sorted
	// descending, so everything below the cutoff is a suffix.
	if req.minScore > 0 {
		cut := sort.Search(len(ranked), func(i int) bool { return ranked[i].Score < req.minScore })
		ranked = ranked[:cut]
	}
	if len(ranked) > req.topK {
		ranked = ranked[:req.topK]
	}

	// 6. Optional rerank within the cut.
	if req.rerank && len(ranked) > 1 {
		s.rerank(query, ranked)
		monitor.AfterRerank(ranked)
	}

	results := make([]core.SearchResult, 0, len(ranked))
	for _, h := range ranked {
		results = append(results, core.SearchResult{
			Chunk:  &s.bundle.Chunks[h.Pos],
			Score:  float32(h.Score),
			Source: sources[h.Pos],
		})
	}
	monitor.Finish(results)

	return results, nil
}

// universe resolves the candidate set for a query: every chunk when no tag
// filter is given, otherwise the union of chunks carrying any filter tag.
// The returned bitmap is read-only.
func (s *Searcher) universe(tags []string) *roaring.Bitmap {
	if len(tags) == 0 {
		return s.all
	}

	u := roaring.New()
	for _, tag := range tags {
		if bm, ok := s.tagIndex[tag]; ok {
			u.Or(bm)
		}
	}
	return u
}

// denseRank scores every universe member by cosine similarity to the query
// vector and returns the top hits up to depth.
func (s *Searcher) denseRank(qvec []float32, universe *roaring.Bitmap, depth int) []RankedChunk {
	hits := make([]RankedChunk, 0, universe.GetCardinality())
	it := universe.Iterator()
	for it.HasNext() {
		pos := int(it.Next())
		hits = append(hits, RankedChunk{Pos: pos, Score: dot(qvec, s.bundle.Vectors[pos])})
	}

	sortHits(hits)
	if len(hits) > depth {
		hits = hits[:depth]
	}
	return hits
}

// sparseRank scores universe members by BM25 relevance and returns the top
// hits up to depth. Chunks sharing no term with the query are absent.
func (s *Searcher) sparseRank(query string, universe *roaring.Bitmap, depth int) []RankedChunk {
	scores := s.bundle.Sparse.ScoreAll(sparse.Tokenize(query))

	hits := make([]RankedChunk, 0, len(scores))
	for pos, score := range scores {
		if !universe.Contains(uint32(pos)) {
			continue
		}
		hits = append(hits, RankedChunk{Pos: pos, Score: score})
	}

	sortHits(hits)
	if len(hits) > depth {
		hits = hits[:depth]
	}
	return hits
}

// fuse merges the two rankings with reciprocal rank fusion. Each list
// contributes 1/(k + rank + 1) per member, so chunks both rankings agree on
// compound without requiring comparable score scales.
func (s *Searcher) fuse(denseHits, sparseHits []RankedChunk) ([]RankedChunk, map[int]core.MatchSource) {
	fused := make(map[int]float64, len(denseHits)+len(sparseHits))
	sources := make(map[int]core.MatchSource, len(denseHits)+len(sparseHits))

	for rank, h := range denseHits {
		fused[h.Pos] += 1 / (s.rrfK + float64(rank) + 1)
		sources[h.Pos] = core.MatchSourceDense
	}
	for rank, h := range sparseHits {
		fused[h.Pos] += 1 / (s.rrfK + float64(rank) + 1)
		if sources[h.Pos] == core.MatchSourceDense {
			sources[h.Pos] = core.MatchSourceHybrid
		} else {
			sources[h.Pos] = core.MatchSourceSparse
		}
	}

	ranked := make([]RankedChunk, 0, len(fused))
	for pos, score := range fused {
		ranked = append(ranked, RankedChunk{Pos: pos, Score: score})
	}
	sortHits(ranked)

	return ranked, sources
}

// rerank reorders the final cut by a richer signal: the fused score plus
// query-term coverage of content, title, and heading. It changes only the
// order within the cut; membership and reported scores stay as fused.
func (s *Searcher) rerank(query string, hits []RankedChunk) {
	terms := queryTermSet(query)
	if len(terms) == 0 {
		return
	}

	keys := make(map[int]float64, len(hits))
	for _, h := range hits {
		chunk := &s.bundle.Chunks[h.Pos]
		keys[h.Pos] = h.Score +
			contentWeight*termCoverage(terms, chunk.Content) +
			titleWeight*termCoverage(terms, chunk.DocumentTitle) +
			headingWeight*termCoverage(terms, chunk.Heading)
	}

	sort.Slice(hits, func(i, j int) bool {
		ki, kj := keys[hits[i].Pos], keys[hits[j].Pos]
		if ki != kj {
			return ki > kj
		}
		return hits[i].Pos < hits[j].Pos
	})
}

// sortHits orders by descending score, breaking ties by ascending position
// so equal-scored chunks keep bundle order and results stay deterministic.
func sortHits(hits []RankedChunk) {
	sort.Slice(hits, func(i, j int) bool {
		if hits[i].Score != hits[j].Score {
			return hits[i].Score > hits[j].Score
		}
		return hits[i].Pos < hits[j].Pos
	})
}

// References builds the citation mapping for a result set, preserving rank
// order. It is what a generation collaborator receives alongside the chunk
// text itself.
func References(results []core.SearchResult) []core.Reference {
	refs := make([]core.Reference, 0, len(results))
	for _, r := range results {
		refs = append(refs, core.Reference{
			ChunkId: r.Chunk.Id,
			Title:   r.Chunk.DocumentTitle,
			Slug:    r.Chunk.DocumentSlug,
			Heading: r.Chunk.Heading,
			URL:     core.ReferenceURL(r.Chunk),
		})
	}
	return refs
}
