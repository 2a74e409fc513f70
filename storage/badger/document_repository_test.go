package badger

import (
	"context"
	"testing"
	"time"

	"github.com/poiesic/recall/core"
	"github.com/poiesic/recall/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLibrary(t *testing.T) storage.DocumentRepository {
	t.Helper()

	library, backend, err := NewMemoryRepository()
	require.NoError(t, err)
	t.Cleanup(func() {
		library.Close()
		backend.Close()
	})

	return library
}

func sampleDocument(slug string, tags ...string) *core.Document {
	return &core.Document{
		Slug:     slug,
		Title:    "Title for " + slug,
		Date:     time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC),
		Category: "engineering",
		Tags:     tags,
		Body:     "## Section\n\nBody for " + slug + ".",
	}
}

func TestPutDocuments_SetsTimestamps(t *testing.T) {
	library := newTestLibrary(t)
	ctx := context.Background()

	docs, err := library.PutDocuments(ctx, sampleDocument("first-post", "search"))
	require.NoError(t, err)
	require.Len(t, docs, 1)

	assert.False(t, docs[0].InsertedAt.IsZero())
	assert.Equal(t, docs[0].InsertedAt, docs[0].UpdatedAt)
}

func TestPutDocuments_UpsertPreservesInsertedAt(t *testing.T) {
	library := newTestLibrary(t)
	ctx := context.Background()

	first, err := library.PutDocuments(ctx, sampleDocument("evolving-post"))
	require.NoError(t, err)
	insertedAt := first[0].InsertedAt

	time.Sleep(2 * time.Millisecond)

	updated := sampleDocument("evolving-post")
	updated.Body = "## Section\n\nRevised body."
	_, err = library.PutDocuments(ctx, updated)
	require.NoError(t, err)

	stored, err := library.GetDocument(ctx, "evolving-post")
	require.NoError(t, err)

	assert.Equal(t, "## Section\n\nRevised body.", stored.Body)
	assert.True(t, stored.InsertedAt.Equal(insertedAt), "InsertedAt must survive replacement")
	assert.True(t, stored.UpdatedAt.After(stored.InsertedAt))
}

func TestPutDocuments_RejectsEmptySlug(t *testing.T) {
	library := newTestLibrary(t)

	_, err := library.PutDocuments(context.Background(), &core.Document{Body: "body"})
	assert.ErrorIs(t, err, storage.ErrInvalidQuery)
}

func TestGetDocument_NotFound(t *testing.T) {
	library := newTestLibrary(t)

	_, err := library.GetDocument(context.Background(), "missing")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestGetDocuments_SkipsMissing(t *testing.T) {
	library := newTestLibrary(t)
	ctx := context.Background()

	_, err := library.PutDocuments(ctx, sampleDocument("present"))
	require.NoError(t, err)

	docs, err := library.GetDocuments(ctx, "present", "absent")
	require.NoError(t, err)

	require.Len(t, docs, 1)
	assert.Equal(t, "present", docs[0].Slug)
}

func TestDeleteDocuments(t *testing.T) {
	library := newTestLibrary(t)
	ctx := context.Background()

	_, err := library.PutDocuments(ctx, sampleDocument("doomed"))
	require.NoError(t, err)

	require.NoError(t, library.DeleteDocuments(ctx, "doomed"))

	_, err = library.GetDocument(ctx, "doomed")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestDeleteDocuments_NotFound(t *testing.T) {
	library := newTestLibrary(t)

	err := library.DeleteDocuments(context.Background(), "never-existed")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestAllDocuments_OrderedBySlug(t *testing.T) {
	library := newTestLibrary(t)
	ctx := context.Background()

	_, err := library.PutDocuments(ctx,
		sampleDocument("charlie"),
		sampleDocument("alpha"),
		sampleDocument("bravo"),
	)
	require.NoError(t, err)

	docs, err := library.AllDocuments(ctx)
	require.NoError(t, err)

	require.Len(t, docs, 3)
	assert.Equal(t, "alpha", docs[0].Slug)
	assert.Equal(t, "bravo", docs[1].Slug)
	assert.Equal(t, "charlie", docs[2].Slug)
}

func TestCountDocuments(t *testing.T) {
	library := newTestLibrary(t)
	ctx := context.Background()

	count, err := library.CountDocuments(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, count)

	_, err = library.PutDocuments(ctx, sampleDocument("one"), sampleDocument("two"))
	require.NoError(t, err)

	count, err = library.CountDocuments(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestTags_CountsDocumentsPerTag(t *testing.T) {
	library := newTestLibrary(t)
	ctx := context.Background()

	_, err := library.PutDocuments(ctx,
		sampleDocument("a", "search", "rag"),
		sampleDocument("b", "search"),
		sampleDocument("c"),
	)
	require.NoError(t, err)

	tags, err := library.Tags(ctx)
	require.NoError(t, err)

	assert.Equal(t, map[string]int{"search": 2, "rag": 1}, tags)
}
