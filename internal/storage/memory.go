package storage

import (
	"context"
	"sort"
	"sync"
)

// MemoryKV is an in-process KV used for ephemeral sessions and tests.
type MemoryKV struct {
	mu   sync.RWMutex
	data map[string][]byte
}

func NewMemoryKV() *MemoryKV {
	return &MemoryKV{data: make(map[string][]byte)}
}

func (m *MemoryKV) Get(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	v, ok := m.data[key]
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), v...), true, nil
}

func (m *MemoryKV) Put(_ context.Context, key string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.data[key] = append([]byte(nil), data...)
	return nil
}

func (m *MemoryKV) Keys(_ context.Context) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	keys := make([]string, 0, len(m.data))
	for k := range m.data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, nil
}
