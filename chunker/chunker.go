package chunker

import (
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/poiesic/recall/core"
)

const (
	// DefaultMaxTokens is the default per-chunk token budget.
	DefaultMaxTokens = 512

	// DefaultOverlapTokens is the default token overlap between adjacent
	// sub-chunks of an oversized section.
	DefaultOverlapTokens = 50
)

var (
	h2Pattern        = regexp.MustCompile(`(?m)^## (.+)$`)
	h3Pattern        = regexp.MustCompile(`(?m)^### (.+)$`)
	codeBlockPattern = regexp.MustCompile("(?s)```.*?```")
	sentenceBoundary = regexp.MustCompile(`([.!?]+)(\s+)`)
	fragmentStrip    = regexp.MustCompile(`[^\w\s-]`)
	fragmentDashes   = regexp.MustCompile(`[-\s]+`)
)

// Chunker splits documents into section-bounded chunks.
type Chunker struct {
	maxTokens     int
	overlapTokens int
	counter       TokenCounter
	logger        *slog.Logger
}

// Option configures a Chunker.
type Option func(*Chunker) error

// WithMaxTokens sets the per-chunk token budget.
// Default is DefaultMaxTokens.
func WithMaxTokens(max int) Option {
	return func(c *Chunker) error {
		if max < 1 {
			return fmt.Errorf("max tokens must be positive, got %d", max)
		}
		c.maxTokens = max
		return nil
	}
}

// WithOverlapTokens sets the token overlap carried between adjacent
// sub-chunks of a split section. Zero disables overlap.
// Default is DefaultOverlapTokens.
func WithOverlapTokens(overlap int) Option {
	return func(c *Chunker) error {
		if overlap < 0 {
			return fmt.Errorf("overlap tokens cannot be negative, got %d", overlap)
		}
		c.overlapTokens = overlap
		return nil
	}
}

// WithTokenCounter sets the token counter used for sizing decisions.
// Default is the heuristic counter.
func WithTokenCounter(counter TokenCounter) Option {
	return func(c *Chunker) error {
		if counter == nil {
			return fmt.Errorf("token counter cannot be nil")
		}
		c.counter = counter
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(c *Chunker) error {
		if logger == nil {
			logger = slog.Default()
		}
		c.logger = logger
		return nil
	}
}

// New creates a Chunker.
func New(opts ...Option) (*Chunker, error) {
	c := &Chunker{
		maxTokens:     DefaultMaxTokens,
		overlapTokens: DefaultOverlapTokens,
		counter:       NewHeuristicCounter(),
		logger:        slog.Default().With("component", "chunker"),
	}

	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}

	if c.overlapTokens >= c.maxTokens {
		return nil, fmt.Errorf("overlap tokens (%d) must be smaller than max tokens (%d)", c.overlapTokens, c.maxTokens)
	}

	return c, nil
}

// section is a heading-bounded span of a document body. An empty heading
// marks the preamble before the first H2.
type section struct {
	heading string
	content string
}

// ChunkDocument splits a document body into an ordered sequence of chunks
// covering the whole document. Malformed documents yield a
// *core.ContentParseError so callers can skip and report them without
// aborting a batch.
func (c *Chunker) ChunkDocument(doc *core.Document) ([]core.Chunk, error) {
	if err := core.ValidateDocument(doc); err != nil {
		slug := ""
		if doc != nil {
			slug = doc.Slug
		}
		return nil, &core.ContentParseError{Slug: slug, Reason: "invalid document", Err: err}
	}

	var chunks []core.Chunk
	for _, sec := range splitSections(doc.Body) {
		parts := c.splitOversized(sec.content)
		for _, content := range parts {
			chunks = append(chunks, c.newChunk(doc, sec.heading, len(chunks), content))
		}
	}

	c.logger.Debug("chunked document", "slug", doc.Slug, "chunks", len(chunks))
	return chunks, nil
}

// splitSections divides a body at H2 boundaries, then at H3 boundaries
// within each H2 section. H3 sections carry a combined "H2 > H3" heading.
// Heading lines themselves are not part of section content.
func splitSections(body string) []section {
	var sections []section

	appendSection := func(heading, content string) {
		content = strings.TrimSpace(content)
		if content == "" {
			return
		}
		sections = append(sections, section{heading: heading, content: content})
	}

	h2s := h2Pattern.FindAllStringSubmatchIndex(body, -1)

	preambleEnd := len(body)
	if len(h2s) > 0 {
		preambleEnd = h2s[0][0]
	}
	appendSection("", body[:preambleEnd])

	for i, m := range h2s {
		heading := body[m[2]:m[3]]
		end := len(body)
		if i+1 < len(h2s) {
			end = h2s[i+1][0]
		}
		content := body[m[1]:end]

		h3s := h3Pattern.FindAllStringSubmatchIndex(content, -1)
		if len(h3s) == 0 {
			appendSection(heading, content)
			continue
		}

		appendSection(heading, content[:h3s[0][0]])
		for j, sm := range h3s {
			subHeading := content[sm[2]:sm[3]]
			subEnd := len(content)
			if j+1 < len(h3s) {
				subEnd = h3s[j+1][0]
			}
			appendSection(heading+" > "+subHeading, content[sm[1]:subEnd])
		}
	}

	return sections
}

// splitOversized returns the section content as a single part when it fits
// the token budget, otherwise splits it at sentence boundaries, carrying up
// to overlapTokens of trailing sentences into each following part. A part
// never breaks inside a fenced code block, so an indivisible sentence or
// code block larger than the budget stays whole.
func (c *Chunker) splitOversized(content string) []string {
	if c.counter.Count(content) <= c.maxTokens {
		return []string{content}
	}

	sentences := splitSentences(content)

	var parts []string
	var current []string
	currentTokens := 0

	flush := func() {
		if len(current) > 0 {
			parts = append(parts, strings.Join(current, " "))
		}
	}

	for _, sentence := range sentences {
		tokens := c.counter.Count(sentence)

		if currentTokens+tokens <= c.maxTokens {
			current = append(current, sentence)
			currentTokens += tokens
			continue
		}

		flush()

		if c.overlapTokens > 0 && len(current) > 0 {
			overlap, overlapTokens := c.trailingOverlap(current)
			current = append(overlap, sentence)
			currentTokens = overlapTokens + tokens
		} else {
			current = []string{sentence}
			currentTokens = tokens
		}
	}
	flush()

	return parts
}

// trailingOverlap collects the trailing sentences of a finished part whose
// combined token count fits the overlap budget, preserving their order.
func (c *Chunker) trailingOverlap(current []string) ([]string, int) {
	var overlap []string
	total := 0
	for i := len(current) - 1; i >= 0; i-- {
		tokens := c.counter.Count(current[i])
		if total+tokens > c.overlapTokens {
			break
		}
		overlap = append([]string{current[i]}, overlap...)
		total += tokens
	}
	return overlap, total
}

// splitSentences splits text at sentence-ending punctuation followed by
// whitespace. Fenced code blocks are shielded with placeholders first so a
// period inside a code listing never produces a boundary.
func splitSentences(text string) []string {
	blocks := codeBlockPattern.FindAllString(text, -1)
	for i, block := range blocks {
		text = strings.Replace(text, block, codePlaceholder(i), 1)
	}

	var sentences []string
	last := 0
	for _, loc := range sentenceBoundary.FindAllStringSubmatchIndex(text, -1) {
		sentences = append(sentences, text[last:loc[3]])
		last = loc[5]
	}
	if last < len(text) {
		sentences = append(sentences, text[last:])
	}

	if len(blocks) > 0 {
		for i := range sentences {
			for j, block := range blocks {
				sentences[i] = strings.ReplaceAll(sentences[i], codePlaceholder(j), block)
			}
		}
	}

	return sentences
}

func codePlaceholder(i int) string {
	return fmt.Sprintf("__CODE_BLOCK_%d__", i)
}

// newChunk assembles a chunk with its derived ID and URL fragment.
func (c *Chunker) newChunk(doc *core.Document, heading string, ordinal int, content string) core.Chunk {
	chunk := core.Chunk{
		DocumentSlug:  doc.Slug,
		DocumentTitle: doc.Title,
		Heading:       heading,
		Ordinal:       ordinal,
		TokenCount:    c.counter.Count(content),
		Tags:          doc.Tags,
		Fragment:      Fragment(heading),
		Content:       content,
	}
	chunk.Id = core.IDFromContent(chunk.Identity())
	return chunk
}

// Fragment converts a section heading into a URL fragment for deep-linking.
// Returns the empty string for the preamble.
func Fragment(heading string) string {
	if heading == "" {
		return ""
	}
	f := strings.ToLower(heading)
	f = fragmentStrip.ReplaceAllString(f, "")
	f = fragmentDashes.ReplaceAllString(f, "-")
	f = strings.Trim(f, "-")
	return "#" + f
}
