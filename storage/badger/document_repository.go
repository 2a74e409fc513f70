package badger

import (
	"context"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/recall/core"
	"github.com/poiesic/recall/storage"
)

// DocumentRepository implements storage.DocumentRepository for BadgerDB.
type DocumentRepository struct {
	backend *Backend
}

var _ storage.DocumentRepository = (*DocumentRepository)(nil)

// NewDocumentRepository creates a new DocumentRepository.
func NewDocumentRepository(backend *Backend) (*DocumentRepository, error) {
	return &DocumentRepository{
		backend: backend,
	}, nil
}

// Close releases resources. DocumentRepository has no resources to release;
// the backend is closed by whoever opened it.
func (r *DocumentRepository) Close() error {
	return nil
}

// WithTransaction delegates to the backend.
func (r *DocumentRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return r.backend.WithTransaction(ctx, fn)
}

// PutDocuments inserts or replaces documents by slug.
func (r *DocumentRepository) PutDocuments(ctx context.Context, docs ...*core.Document) ([]*core.Document, error) {
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		now := time.Now().UTC()

		for _, doc := range docs {
			if doc.Slug == "" {
				return fmt.Errorf("%w: empty slug", storage.ErrInvalidQuery)
			}

			key := makeDocumentKey(doc.Slug)

			// Preserve the original insertion time across replacements.
			old, err := readDocument(tx, key)
			if err != nil {
				return err
			}
			if old != nil {
				doc.InsertedAt = old.InsertedAt
			} else {
				doc.InsertedAt = now
			}
			doc.UpdatedAt = now

			if err := tx.Set(key, storage.MarshalDocument(doc)); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)

	return docs, err
}

// GetDocument retrieves a single document by slug.
func (r *DocumentRepository) GetDocument(ctx context.Context, slug string) (*core.Document, error) {
	var result *core.Document
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		var err error
		result, err = readDocument(tx, makeDocumentKey(slug))
		if err != nil {
			return err
		}
		if result == nil {
			return storage.ErrNotFound
		}
		return nil
	}, false)
	return result, err
}

// GetDocuments retrieves multiple documents by their slugs.
func (r *DocumentRepository) GetDocuments(ctx context.Context, slugs ...string) ([]*core.Document, error) {
	var result []*core.Document
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		for _, slug := range slugs {
			doc, err := readDocument(tx, makeDocumentKey(slug))
			if err != nil {
				return err
			}
			if doc != nil {
				result = append(result, doc)
			}
		}
		return nil
	}, false)
	return result, err
}

// DeleteDocuments removes documents by their slugs.
func (r *DocumentRepository) DeleteDocuments(ctx context.Context, slugs ...string) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		for _, slug := range slugs {
			key := makeDocumentKey(slug)

			doc, err := readDocument(tx, key)
			if err != nil {
				return err
			}
			if doc == nil {
				return storage.ErrNotFound
			}

			if err := tx.Delete(key); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
}

// AllDocuments retrieves every document, ordered by slug. Badger iterates
// keys lexicographically, which for doc:<slug> keys is slug order.
func (r *DocumentRepository) AllDocuments(ctx context.Context) ([]*core.Document, error) {
	var results []*core.Document
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = documentKeyPrefix()
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			var doc *core.Document
			err := iter.Item().Value(func(val []byte) error {
				var err error
				doc, err = storage.UnmarshalDocument(val)
				return err
			})
			if err != nil {
				return err
			}
			if doc != nil {
				results = append(results, doc)
			}
		}
		return nil
	}, false)

	return results, err
}

// CountDocuments returns the number of documents without reading values.
func (r *DocumentRepository) CountDocuments(ctx context.Context) (int, error) {
	count := 0
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = documentKeyPrefix()
		opts.PrefetchValues = false
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			count++
		}
		return nil
	}, false)

	return count, err
}

// Tags returns every tag with the number of documents carrying it.
func (r *DocumentRepository) Tags(ctx context.Context) (map[string]int, error) {
	docs, err := r.AllDocuments(ctx)
	if err != nil {
		return nil, err
	}

	tags := make(map[string]int)
	for _, doc := range docs {
		for _, tag := range doc.Tags {
			tags[tag]++
		}
	}
	return tags, nil
}

// readDocument reads a document from the transaction.
// Returns nil without error when the key is absent.
func readDocument(tx *badger.Txn, key []byte) (*core.Document, error) {
	item, err := tx.Get(key)
	if err != nil {
		if err == badger.ErrKeyNotFound {
			return nil, nil
		}
		return nil, err
	}

	var doc *core.Document
	err = item.Value(func(val []byte) error {
		var err error
		doc, err = storage.UnmarshalDocument(val)
		return err
	})
	return doc, err
}
