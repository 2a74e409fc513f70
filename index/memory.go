package index

import (
	"bytes"
	"context"
	"sync"
)

// MemoryStore keeps the encoded bundle in process memory. It exists for
// tests and exercises the same codec as the durable stores.
type MemoryStore struct {
	mu   sync.RWMutex
	data []byte
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Save encodes the bundle and replaces the stored bytes.
func (s *MemoryStore) Save(_ context.Context, bundle *Bundle) error {
	var buf bytes.Buffer
	if err := WriteBundle(&buf, bundle); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = buf.Bytes()
	return nil
}

// Load decodes the stored bytes.
func (s *MemoryStore) Load(_ context.Context) (*Bundle, error) {
	s.mu.RLock()
	data := s.data
	s.mu.RUnlock()

	if data == nil {
		return nil, ErrBundleNotFound
	}
	return ReadBundle(bytes.NewReader(data))
}

// Exists reports whether a bundle has been saved.
func (s *MemoryStore) Exists(_ context.Context) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.data != nil, nil
}
