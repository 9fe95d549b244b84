package models

import (
	"context"
	"sync"
)

// DocumentStore persists whole documents under string keys. Each Put
// replaces the previous value atomically; there are no cross-key transactions.
type DocumentStore interface {
	// Get returns ErrDocumentNotFound when key was never written.
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
}

// MemoryDocuments keeps documents in process memory.
type MemoryDocuments struct {
	mu   sync.Mutex
	docs map[string][]byte
}

func NewMemoryDocuments() *MemoryDocuments {
	return &MemoryDocuments{docs: make(map[string][]byte)}
}

func (m *MemoryDocuments) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.docs[key]
	if !ok {
		return nil, ErrDocumentNotFound
	}
	cp := make([]byte, len(v))
	copy(cp, v)
	return cp, nil
}

func (m *MemoryDocuments) Put(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := make([]byte, len(value))
	copy(cp, value)
	m.docs[key] = cp
	return nil
}
