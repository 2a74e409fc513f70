package storage

import (
	"context"

	"github.com/poiesic/recall/core"
)

// Repository provides common storage operations shared across all repositories.
// Implementations must be thread-safe and support concurrent access.
type Repository interface {
	// WithTransaction executes a function within a transaction.
	// If fn returns an error, the transaction is rolled back.
	// If fn returns nil, the transaction is committed.
	// The context passed to fn may contain transaction state.
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error

	// Close closes the storage backend and releases resources.
	Close() error
}

// DocumentRepository provides operations for managing the document library.
// Documents are keyed by slug; writing an existing slug replaces the stored
// document.
type DocumentRepository interface {
	Repository

	// PutDocuments inserts or replaces one or more documents by slug.
	// Sets InsertedAt on first write and preserves it on replacement;
	// UpdatedAt always advances. Returns the documents with timestamps
	// populated.
	PutDocuments(ctx context.Context, docs ...*core.Document) ([]*core.Document, error)

	// GetDocument retrieves a single document by slug.
	// Returns ErrNotFound if the document doesn't exist.
	GetDocument(ctx context.Context, slug string) (*core.Document, error)

	// GetDocuments retrieves multiple documents by their slugs.
	// Returns only the documents that exist (no error for missing slugs).
	GetDocuments(ctx context.Context, slugs ...string) ([]*core.Document, error)

	// DeleteDocuments removes documents by their slugs.
	// Returns ErrNotFound if any document doesn't exist.
	DeleteDocuments(ctx context.Context, slugs ...string) error

	// AllDocuments retrieves every document in the library, ordered by slug.
	// This is the corpus an index build embeds.
	AllDocuments(ctx context.Context) ([]*core.Document, error)

	// CountDocuments returns the number of documents in the library without
	// reading their bodies.
	CountDocuments(ctx context.Context) (int, error)

	// Tags returns every tag in the library with the number of documents
	// carrying it.
	Tags(ctx context.Context) (map[string]int, error)
}
