package storage

import (
	"context"
	"fmt"
	"sync"
)

// MemoryBackend keeps collections in process memory. Stored bytes are copied
// on the way in and out.
type MemoryBackend struct {
	mu   sync.Mutex
	docs map[string][]byte
}

func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{docs: make(map[string][]byte)}
}

func (b *MemoryBackend) Get(_ context.Context, name string) ([]byte, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	data, ok := b.docs[name]
	if !ok {
		return nil, fmt.Errorf("read %s: %w", name, ErrCollectionNotFound)
	}
	return append([]byte(nil), data...), nil
}

func (b *MemoryBackend) Set(_ context.Context, name string, data []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.docs[name] = append([]byte(nil), data...)
	return nil
}

var _ Backend = (*MemoryBackend)(nil)
