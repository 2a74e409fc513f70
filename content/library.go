package content

import (
	"context"
	"fmt"

	"github.com/poiesic/recall/core"
	"github.com/poiesic/recall/storage"
)

var _ Source = (*LibrarySource)(nil)

// LibrarySource loads documents from the document library, for deployments
// that ingest posts into storage instead of rebuilding straight from disk.
type LibrarySource struct {
	repo storage.DocumentRepository
}

// NewLibrarySource creates a source over a document repository.
func NewLibrarySource(repo storage.DocumentRepository) (*LibrarySource, error) {
	if repo == nil {
		return nil, ErrRepositoryRequired
	}
	return &LibrarySource{repo: repo}, nil
}

// Load returns every document in the library.
func (s *LibrarySource) Load(ctx context.Context) ([]core.Document, error) {
	stored, err := s.repo.AllDocuments(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load documents from library: %w", err)
	}

	docs := make([]core.Document, 0, len(stored))
	for _, doc := range stored {
		docs = append(docs, *doc)
	}
	return docs, nil
}
