package core

//go:generate go run ../cmd/musgen

import (
	"encoding/binary"
	"fmt"
	"time"

	"github.com/go-crypt/x/blake2b"
)

// ID is a unique identifier for domain entities.
// It is generated using content-based hashing.
type ID uint64

// IDFromContent generates a deterministic ID from text content using BLAKE2b hashing.
// This ensures that identical content produces identical IDs.
func IDFromContent(text string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// identityPrefixLen bounds how much chunk content participates in identity
// hashing. Enough to distinguish rewritten sections without hashing full text.
const identityPrefixLen = 50

// MatchSource identifies which ranking produced a search result.
type MatchSource int

const (
	// MatchSourceDense means the chunk was ranked by embedding similarity only.
	MatchSourceDense MatchSource = iota + 1
	// MatchSourceSparse means the chunk was ranked by keyword relevance only.
	MatchSourceSparse
	// MatchSourceHybrid means both rankings contributed to the fused score.
	MatchSourceHybrid
)

// String returns the lowercase name of the match source.
func (m MatchSource) String() string {
	switch m {
	case MatchSourceDense:
		return "dense"
	case MatchSourceSparse:
		return "sparse"
	case MatchSourceHybrid:
		return "hybrid"
	default:
		return "unknown"
	}
}

// Document is a full source text from the content library.
// Documents are immutable once indexed; edits trigger a full re-index,
// never in-place mutation of a published bundle.
type Document struct {
	Slug       string
	Title      string
	Date       time.Time // Authoring date from document metadata
	Category   string
	Tags       []string
	Body       string
	InsertedAt time.Time // When the document was inserted into the library
	UpdatedAt  time.Time // When the document was last updated in the library
}

// Chunk is a contiguous span of a Document bounded by section headings.
// Chunks are the retrieval unit: each carries its own embedding vector
// (stored alongside in the index bundle) and keyword statistics.
type Chunk struct {
	Id            ID
	DocumentSlug  string
	DocumentTitle string
	Heading       string // Section heading, empty for document preamble
	Ordinal       int    // Document-relative position, starting at 0
	TokenCount    int
	Tags          []string // Inherited from the parent document
	Fragment      string   // URL fragment for deep-linking, empty when no heading
	Content       string
}

// Identity returns the stable identity string for a chunk, combining the
// parent slug, ordinal, and a content prefix. Rebuilding an unchanged
// corpus yields identical identities, while rewritten sections get new ones.
func (c *Chunk) Identity() string {
	prefix := c.Content
	if len(prefix) > identityPrefixLen {
		prefix = prefix[:identityPrefixLen]
	}
	return fmt.Sprintf("%s:%d:%s", c.DocumentSlug, c.Ordinal, prefix)
}

// IndexSummary describes a built index bundle. Model identity and dimension
// are recorded index-wide: mixing vectors from different models invalidates
// similarity comparisons across the bundle, so they are validated on load.
type IndexSummary struct {
	BuildId       string // Unique per build
	ModelId       string // Embedding model that produced every vector
	Dimension     int
	BuiltAt       time.Time
	DocumentCount int
	ChunkCount    int
	Tags          []string // Sorted roster of all tags present in the corpus
}

// SearchResult is a ranked chunk with its fused relevance score.
type SearchResult struct {
	Chunk  *Chunk
	Score  float32
	Source MatchSource
}

// Reference is the citation mapping unit handed to a generation collaborator
// alongside retrieved chunks.
type Reference struct {
	ChunkId ID
	Title   string
	Slug    string
	Heading string
	URL     string
}

// ReferenceURL builds the deep link for a chunk: the document path plus the
// section fragment when one exists.
func ReferenceURL(c *Chunk) string {
	return "/" + c.DocumentSlug + c.Fragment
}
