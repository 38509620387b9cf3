package cache

import (
	"context"
	"sync"
)

// MemoryBackend guarda as entradas em memória, uma por chave
type MemoryBackend struct {
	mu      sync.RWMutex
	entries map[string][]byte
}

func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{entries: make(map[string][]byte)}
}

func (m *MemoryBackend) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	raw, ok := m.entries[key]
	if !ok {
		return nil, ErrMiss
	}

	out := make([]byte, len(raw))
	copy(out, raw)
	return out, nil
}

func (m *MemoryBackend) Set(_ context.Context, key string, payload []byte) error {
	stored := make([]byte, len(payload))
	copy(stored, payload)

	m.mu.Lock()
	m.entries[key] = stored
	m.mu.Unlock()
	return nil
}
