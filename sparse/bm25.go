package sparse

import (
	"fmt"
	"math"
	"sort"
)

const (
	// DefaultK1 controls term-frequency saturation. Larger values let
	// repeated terms keep raising the score for longer.
	DefaultK1 = 1.5

	// DefaultB controls chunk-length normalization, from 0 (none) to 1
	// (full). 0.75 is the conventional midpoint.
	DefaultB = 0.75
)

// posting records one chunk containing a term. Postings for a term are
// ordered by ascending position, the order chunks were passed to Build.
type posting struct {
	pos   int
	count int
}

// Stats holds the corpus-wide term statistics BM25 scoring needs: an
// inverted index of term postings, per-chunk token lengths, and the tuning
// parameters the statistics were built with. A Stats is immutable after
// Build and safe for concurrent use.
type Stats struct {
	k1          float64
	b           float64
	inverted    map[string][]posting
	lengths     []int
	totalLength int64
}

// Option configures statistics construction.
type Option func(*Stats) error

// WithK1 overrides the term-frequency saturation parameter.
func WithK1(k1 float64) Option {
	return func(s *Stats) error {
		if k1 < 0 {
			return fmt.Errorf("k1 must be non-negative, got %g", k1)
		}

		s.k1 = k1

		return nil
	}
}

// WithB overrides the length-normalization parameter.
func WithB(b float64) Option {
	return func(s *Stats) error {
		if b < 0 || b > 1 {
			return fmt.Errorf("b must be in [0, 1], got %g", b)
		}

		s.b = b

		return nil
	}
}

// Build tokenizes every text and accumulates term statistics over the whole
// corpus. The position of each text in the slice is the position reported by
// Search and accepted by Score.
func Build(texts []string, opts ...Option) (*Stats, error) {
	s := &Stats{
		k1:       DefaultK1,
		b:        DefaultB,
		inverted: make(map[string][]posting),
		lengths:  make([]int, 0, len(texts)),
	}

	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, fmt.Errorf("invalid sparse option: %w", err)
		}
	}

	for pos, text := range texts {
		tokens := Tokenize(text)
		s.lengths = append(s.lengths, len(tokens))
		s.totalLength += int64(len(tokens))

		counts := make(map[string]int, len(tokens))
		for _, token := range tokens {
			counts[token]++
		}

		for token, count := range counts {
			s.inverted[token] = append(s.inverted[token], posting{pos: pos, count: count})
		}
	}

	// Map iteration above appends postings in ascending pos order already,
	// but only because texts are processed sequentially. Keep the invariant
	// explicit so Score can binary-search.
	for _, postings := range s.inverted {
		sort.Slice(postings, func(i, j int) bool { return postings[i].pos < postings[j].pos })
	}

	return s, nil
}

// ChunkCount returns the number of texts the statistics were built over.
func (s *Stats) ChunkCount() int {
	return len(s.lengths)
}

// TermCount returns the number of distinct terms in the corpus.
func (s *Stats) TermCount() int {
	return len(s.inverted)
}

// DocFreq returns the number of chunks containing term.
func (s *Stats) DocFreq(term string) int {
	return len(s.inverted[term])
}

// AvgChunkLength returns the mean token length of a chunk, or 0 for an
// empty corpus.
func (s *Stats) AvgChunkLength() float64 {
	if len(s.lengths) == 0 {
		return 0
	}

	return float64(s.totalLength) / float64(len(s.lengths))
}

// Score computes the BM25 score of the query terms against the chunk at
// pos. Positions outside the corpus score 0.
func (s *Stats) Score(terms []string, pos int) float64 {
	if pos < 0 || pos >= len(s.lengths) {
		return 0
	}

	avg := s.AvgChunkLength()
	score := 0.0

	for _, term := range terms {
		postings := s.inverted[term]

		i := sort.Search(len(postings), func(i int) bool { return postings[i].pos >= pos })
		if i == len(postings) || postings[i].pos != pos {
			continue
		}

		score += s.termScore(postings[i], len(postings), avg)
	}

	return score
}

// ScoreAll computes BM25 scores for every chunk sharing at least one term
// with the query, keyed by chunk position. Chunks with no term overlap are
// absent from the result rather than present with score 0.
func (s *Stats) ScoreAll(terms []string) map[int]float64 {
	scores := make(map[int]float64)
	if len(s.lengths) == 0 {
		return scores
	}

	avg := s.AvgChunkLength()

	for _, term := range terms {
		postings := s.inverted[term]

		for _, p := range postings {
			scores[p.pos] += s.termScore(p, len(postings), avg)
		}
	}

	return scores
}

// Hit is one scored chunk position from Search.
type Hit struct {
	Pos   int
	Score float64
}

// Search tokenizes the query, scores every candidate chunk, and returns
// hits ordered by descending score. Equal scores order by ascending
// position so results are deterministic. A limit of 0 or less returns all
// hits.
func (s *Stats) Search(query string, limit int) []Hit {
	scores := s.ScoreAll(Tokenize(query))

	hits := make([]Hit, 0, len(scores))
	for pos, score := range scores {
		hits = append(hits, Hit{Pos: pos, Score: score})
	}

	sort.Slice(hits, func(i, j int) bool {
		if hits[i].Score != hits[j].Score {
			return hits[i].Score > hits[j].Score
		}

		return hits[i].Pos < hits[j].Pos
	})

	if limit > 0 && len(hits) > limit {
		hits = hits[:limit]
	}

	return hits
}

func (s *Stats) termScore(p posting, docFreq int, avgLength float64) float64 {
	idf := s.idf(docFreq)
	tf := float64(p.count)
	norm := 1 - s.b + s.b*(float64(s.lengths[p.pos])/avgLength)

	return idf * (tf * (s.k1 + 1)) / (tf + s.k1*norm)
}

// idf computes inverse document frequency with the +1 smoothing that keeps
// the value positive even for terms present in every chunk.
func (s *Stats) idf(docFreq int) float64 {
	n := float64(len(s.lengths))
	df := float64(docFreq)

	return math.Log(1 + (n-df+0.5)/(df+0.5))
}
