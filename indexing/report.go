package indexing

import "time"

// SkippedDocument records one malformed document left out of a build.
type SkippedDocument struct {
	Slug   string
	Reason string
	Err    error
}

// Report summarizes a completed build: what went in, what was skipped, and
// how long the whole pipeline took.
type Report struct {
	Documents int
	Chunks    int
	Skipped   []SkippedDocument
	Elapsed   time.Duration
}
