package storage

import (
	"context"
	"sync"
)

// MemoryStore keeps objects in process memory. Used by the CLI and tests.
type MemoryStore struct {
	mu      sync.RWMutex
	objects map[string][]byte
	BaseURL string
	Err     error
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{objects: make(map[string][]byte), BaseURL: "memory://contracts"}
}

func (m *MemoryStore) Store(_ context.Context, data []byte, _, fileName string) (Stored, error) {
	if m.Err != nil {
		return Stored{}, m.Err
	}
	path := ObjectPath(fileName)
	cp := append([]byte(nil), data...)
	m.mu.Lock()
	m.objects[path] = cp
	m.mu.Unlock()
	return Stored{Path: path, PublicURL: m.BaseURL + "/" + path}, nil
}

func (m *MemoryStore) Delete(_ context.Context, path string) error {
	m.mu.Lock()
	delete(m.objects, path)
	m.mu.Unlock()
	return nil
}

// Get returns a stored object.
func (m *MemoryStore) Get(path string) ([]byte, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	b, ok := m.objects[path]
	return b, ok
}

func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.objects)
}
