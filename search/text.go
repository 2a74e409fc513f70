package search

import "github.com/poiesic/recall/sparse"

// Rerank signal weights, ordered by where a query term landing matters
// most: body text, then document title, then section heading.
const (
	contentWeight = 0.3
	titleWeight   = 0.2
	headingWeight = 0.1
)

// queryTermSet returns the distinct ranked terms of a query. It reuses the
// corpus tokenizer so coverage is measured over the same vocabulary BM25
// scores against.
func queryTermSet(query string) map[string]bool {
	terms := sparse.Tokenize(query)
	set := make(map[string]bool, len(terms))
	for _, term := range terms {
		set[term] = true
	}
	return set
}

// termCoverage returns the fraction of query terms present in text, in [0, 1].
func termCoverage(terms map[string]bool, text string) float64 {
	if len(terms) == 0 || text == "" {
		return 0
	}

	found := 0
	seen := make(map[string]bool, len(terms))
	for _, token := range sparse.Tokenize(text) {
		if terms[token] && !seen[token] {
			seen[token] = true
			found++
		}
	}

	return float64(found) / float64(len(terms))
}
