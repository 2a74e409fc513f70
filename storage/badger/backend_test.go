package badger

import (
	"context"
	"errors"
	"testing"

	"github.com/dgraph-io/badger/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenBackend_InMemory(t *testing.T) {
	backend, err := OpenBackend("", true)
	require.NoError(t, err)
	require.NotNil(t, backend)
	defer backend.Close()

	assert.False(t, backend.IsClosed())
}

func TestOpenBackend_FileSystem(t *testing.T) {
	tmpDir := t.TempDir()
	backend, err := OpenBackend(tmpDir, false)
	require.NoError(t, err)
	require.NotNil(t, backend)
	defer backend.Close()

	assert.False(t, backend.IsClosed())
}

func TestOpenBackend_CreatesMissingDirectory(t *testing.T) {
	path := t.TempDir() + "/nested/library"
	backend, err := OpenBackend(path, false)
	require.NoError(t, err)
	defer backend.Close()

	assert.False(t, backend.IsClosed())
}

func TestBackendClose(t *testing.T) {
	backend, err := OpenBackend("", true)
	require.NoError(t, err)
	require.NotNil(t, backend)

	assert.False(t, backend.IsClosed())

	err = backend.Close()
	require.NoError(t, err)

	assert.True(t, backend.IsClosed())
}

func TestWithTx_DiscardsOnError(t *testing.T) {
	backend, err := OpenBackend("", true)
	require.NoError(t, err)
	defer backend.Close()

	boom := errors.New("boom")
	err = backend.WithTx(func(tx *badger.Txn) error {
		if err := tx.Set([]byte("key"), []byte("value")); err != nil {
			return err
		}
		return boom
	}, true)
	require.ErrorIs(t, err, boom)

	// The write must not have survived the discarded transaction.
	err = backend.WithTx(func(tx *badger.Txn) error {
		_, err := tx.Get([]byte("key"))
		return err
	}, false)
	assert.ErrorIs(t, err, badger.ErrKeyNotFound)
}

func TestWithTransaction_Commits(t *testing.T) {
	backend, err := OpenBackend("", true)
	require.NoError(t, err)
	defer backend.Close()

	err = backend.WithTransaction(context.Background(), func(ctx context.Context) error {
		return nil
	})
	assert.NoError(t, err)
}
