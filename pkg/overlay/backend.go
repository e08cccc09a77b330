package overlay

import (
	"context"
	"sync"

	"github.com/agentstation/shelf/pkg/errors"
)

// Backend persists opaque overlay blobs by key. Get returns an error matching
// errors.ErrNotFound when nothing is stored under key.
type Backend interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, blob []byte) error
}

// MemoryBackend keeps blobs in process memory.
type MemoryBackend struct {
	mu    sync.RWMutex
	blobs map[string][]byte
}

// NewMemoryBackend creates an empty in-memory backend.
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{blobs: make(map[string][]byte)}
}

// Get implements Backend.
func (m *MemoryBackend) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	data, ok := m.blobs[key]
	if !ok {
		return nil, errors.NewNotFoundError("overlay", key)
	}
	out := make([]byte, len(data))
	copy(out, data)
	return out, nil
}

// Put implements Backend.
func (m *MemoryBackend) Put(_ context.Context, key string, blob []byte) error {
	data := make([]byte, len(blob))
	copy(data, blob)

	m.mu.Lock()
	m.blobs[key] = data
	m.mu.Unlock()
	return nil
}
