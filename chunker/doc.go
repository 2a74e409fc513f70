// Package chunker splits markdown documents into retrieval units at
// structural boundaries.
//
// Documents are divided at H2 and H3 headings; text before the first H2
// becomes a preamble chunk with no heading. Sections that exceed the
// configured token maximum are split further at sentence boundaries with a
// bounded sentence overlap between adjacent sub-chunks, and fenced code
// blocks are never broken apart. Chunk IDs are derived from content, so an
// unchanged document produces identical chunks across rebuilds.
package chunker
