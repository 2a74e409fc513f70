package indexing

import "errors"

var (
	// ErrChunkerRequired is returned when a chunker is not provided.
	ErrChunkerRequired = errors.New("chunker required")

	// ErrEmbedderRequired is returned when an embedder is not provided.
	ErrEmbedderRequired = errors.New("embedder required")

	// ErrCallbackRequired is returned when a watcher is created without a
	// change callback.
	ErrCallbackRequired = errors.New("change callback required")

	// ErrInvalidMaxAttempts is returned when a retry is requested with a
	// non-positive attempt budget.
	ErrInvalidMaxAttempts = errors.New("max attempts must be positive")
)
